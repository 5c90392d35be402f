// controller/access_release_controller.go
package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gatewise/gatewise/audit"
	gw_errors "github.com/gatewise/gatewise/errors"
	"github.com/gatewise/gatewise/model"
	"github.com/gatewise/gatewise/service"
	"github.com/gatewise/gatewise/util"
	helper_util "github.com/gatewise/gatewise/util/helper"
)

type AccessReleaseController struct {
	accessReleaseService service.IAccessReleaseService
	auditService         audit.Service
}

func NewAccessReleaseController(accessReleaseService service.IAccessReleaseService, auditService audit.Service) *AccessReleaseController {
	return &AccessReleaseController{
		accessReleaseService: accessReleaseService,
		auditService:         auditService,
	}
}

// RegisterRoutes registers the API routes
func (arc *AccessReleaseController) RegisterRoutes(r *gin.Engine) {
	releases := r.Group("/access-releases")
	{
		releases.POST("", arc.CreateAccessRelease)
		releases.POST("/:id/disable", arc.DisableAccessRelease)
		releases.GET("/:id", arc.GetAccessRelease)
		releases.GET("/:id/history", arc.GetAccessReleaseHistory)
		releases.GET("", arc.ListAccessReleases)
		releases.GET("/person/:personId/last", arc.FindLastByPersonID)
	}
}

// CreateAccessRelease endpoint
func (arc *AccessReleaseController) CreateAccessRelease(c *gin.Context) {
	var release model.AccessRelease
	if err := c.ShouldBindJSON(&release); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid access release data", gw_errors.ErrInvalidAccessReleaseData)
		return
	}

	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}
	release.TenantID = tenantID

	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}

	created, err := arc.accessReleaseService.CreateAccessRelease(c, release, userID)
	if err != nil {
		switch {
		case errors.Is(err, gw_errors.ErrInvalidAccessReleaseData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid access release data", err)
		case errors.Is(err, gw_errors.ErrPersonNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Person not found", err)
		case errors.Is(err, gw_errors.ErrAccessPointNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Access point not found", err)
		case errors.Is(err, gw_errors.ErrDatabaseOperation):
			util.RespondWithError(c, http.StatusInternalServerError, "Database operation failed", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create access release", gw_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// DisableAccessRelease endpoint
func (arc *AccessReleaseController) DisableAccessRelease(c *gin.Context) {
	releaseID := c.Param("id")

	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}

	userID, err := util.GetUserIDFromContext(c)
	if err != nil {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}

	disabled, err := arc.accessReleaseService.DisableAccessRelease(c, releaseID, tenantID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gw_errors.ErrAccessReleaseNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Access release not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to disable access release", err)
		}
		return
	}

	c.JSON(http.StatusOK, disabled)
}

// GetAccessRelease endpoint
func (arc *AccessReleaseController) GetAccessRelease(c *gin.Context) {
	releaseID := c.Param("id")

	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}

	release, err := arc.accessReleaseService.GetAccessRelease(c, releaseID, tenantID)
	if err != nil {
		if errors.Is(err, gw_errors.ErrAccessReleaseNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Access release not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve access release", err)
		}
		return
	}

	c.JSON(http.StatusOK, release)
}

// GetAccessReleaseHistory endpoint. Returns the audit trail recorded for one
// release, optionally narrowed by from/to RFC 3339 query parameters. The
// default window is the last 30 days.
func (arc *AccessReleaseController) GetAccessReleaseHistory(c *gin.Context) {
	releaseID := c.Param("id")

	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}

	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now
	if v := c.Query("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'from' parameter", err)
			return
		}
		from = parsed
	}
	if v := c.Query("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			util.RespondWithError(c, http.StatusBadRequest, "Invalid 'to' parameter", err)
			return
		}
		to = parsed
	}

	logs, err := arc.auditService.QueryLogs(c, from, to, tenantID, releaseID)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve access release history", err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// ListAccessReleases endpoint
func (arc *AccessReleaseController) ListAccessReleases(c *gin.Context) {
	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}

	limit, offset, err := helper_util.GetPaginationParams(c)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid pagination parameters", err)
		return
	}

	criteria := model.AccessReleaseSearchCriteria{
		TenantID:     tenantID,
		PersonID:     c.Query("personId"),
		PersonTypeID: c.Query("personTypeId"),
		Status:       model.AccessReleaseStatus(c.Query("status")),
		Limit:        limit,
		Offset:       offset,
	}

	releases, err := arc.accessReleaseService.ListAccessReleases(c, criteria)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list access releases", err)
		return
	}

	c.JSON(http.StatusOK, releases)
}

// FindLastByPersonID endpoint
func (arc *AccessReleaseController) FindLastByPersonID(c *gin.Context) {
	personID := c.Param("personId")

	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}

	release, err := arc.accessReleaseService.FindLastByPersonID(c, personID, tenantID)
	if err != nil {
		if errors.Is(err, gw_errors.ErrAccessReleaseNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Access release not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve last access release", err)
		}
		return
	}

	c.JSON(http.StatusOK, release)
}
