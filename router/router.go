// router/router.go

package router

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatewise/gatewise/controller"
	"github.com/gatewise/gatewise/middleware"
)

func SetupRouter(
	controllers *controller.Controllers,
	authSecret string,
	rateLimitRequests int,
	rateLimitDuration time.Duration,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.RateLimiter(rateLimitRequests, rateLimitDuration))
	router.Use(middleware.Auth(authSecret))

	controllers.AccessRelease.RegisterRoutes(router)
	controllers.Synchronization.RegisterRoutes(router)
	controllers.Equipment.RegisterRoutes(router)

	return router
}
