// middleware/auth.go
package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/gatewise/gatewise/logging"
)

// AccessClaims are the token claims the API relies on. Every request is
// scoped to the tenant carried by its token.
type AccessClaims struct {
	jwt.StandardClaims
	TenantID string `json:"tenant_id"`
	Name     string `json:"name,omitempty"`
}

// Auth validates the bearer token and places the caller's identity and
// tenant into the request context.
func Auth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.GetHeader("Authorization")
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")

		claims := &AccessClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.Warn("Rejected invalid token", zap.Error(err), zap.String("ip", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if claims.TenantID == "" {
			logger.Warn("Token carries no tenant", zap.String("subject", claims.Subject))
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		c.Set("userID", claims.Subject)
		c.Set("tenantID", claims.TenantID)

		c.Next()
	}
}
