// controller/access_synchronization_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	gw_errors "github.com/gatewise/gatewise/errors"
	"github.com/gatewise/gatewise/service"
	"github.com/gatewise/gatewise/util"
)

type AccessSynchronizationController struct {
	synchronizationService service.IAccessSynchronizationService
}

func NewAccessSynchronizationController(synchronizationService service.IAccessSynchronizationService) *AccessSynchronizationController {
	return &AccessSynchronizationController{
		synchronizationService: synchronizationService,
	}
}

// RegisterRoutes registers the API routes
func (asc *AccessSynchronizationController) RegisterRoutes(r *gin.Engine) {
	syncs := r.Group("/access-synchronizations")
	{
		syncs.POST("", asc.StartSynchronization)
		syncs.GET("/:id", asc.GetSynchronization)
	}
}

type startSynchronizationRequest struct {
	PersonTypeIDs []string `json:"person_type_ids"`
	EquipmentID   string   `json:"equipment_id"`
}

// StartSynchronization endpoint
func (asc *AccessSynchronizationController) StartSynchronization(c *gin.Context) {
	var req startSynchronizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid synchronization data", gw_errors.ErrInvalidSynchronizationData)
		return
	}

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

	job, err := asc.synchronizationService.StartSynchronization(c, req.PersonTypeIDs, req.EquipmentID, tenantID, userID)
	if err != nil {
		switch {
		case errors.Is(err, gw_errors.ErrInvalidSynchronizationData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid synchronization data", err)
		case errors.Is(err, gw_errors.ErrEquipmentNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Equipment not found", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to start synchronization", gw_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, job)
}

// GetSynchronization endpoint
func (asc *AccessSynchronizationController) GetSynchronization(c *gin.Context) {
	syncID := c.Param("id")

	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}

	job, err := asc.synchronizationService.GetSynchronization(c, syncID, tenantID)
	if err != nil {
		if errors.Is(err, gw_errors.ErrSynchronizationNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Synchronization not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve synchronization", err)
		}
		return
	}

	c.JSON(http.StatusOK, job)
}
