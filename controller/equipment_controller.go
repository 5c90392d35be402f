// controller/equipment_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	gw_errors "github.com/gatewise/gatewise/errors"
	"github.com/gatewise/gatewise/model"
	"github.com/gatewise/gatewise/service"
	"github.com/gatewise/gatewise/util"
	helper_util "github.com/gatewise/gatewise/util/helper"
)

type EquipmentController struct {
	equipmentService service.IEquipmentService
}

func NewEquipmentController(equipmentService service.IEquipmentService) *EquipmentController {
	return &EquipmentController{
		equipmentService: equipmentService,
	}
}

// RegisterRoutes registers the API routes
func (ec *EquipmentController) RegisterRoutes(r *gin.Engine) {
	equipments := r.Group("/equipments")
	{
		equipments.POST("", ec.CreateEquipment)
		equipments.PUT("/:id", ec.UpdateEquipment)
		equipments.DELETE("/:id", ec.DeleteEquipment)
		equipments.GET("/:id", ec.GetEquipment)
		equipments.GET("", ec.ListEquipments)
	}
}

// CreateEquipment endpoint
func (ec *EquipmentController) CreateEquipment(c *gin.Context) {
	var eq model.Equipment
	if err := c.ShouldBindJSON(&eq); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid equipment data", gw_errors.ErrInvalidEquipmentData)
		return
	}

	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}
	eq.TenantID = tenantID

	created, err := ec.equipmentService.CreateEquipment(c, eq)
	if err != nil {
		switch {
		case errors.Is(err, gw_errors.ErrInvalidEquipmentData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid equipment data", err)
		case errors.Is(err, gw_errors.ErrEquipmentConflict):
			util.RespondWithError(c, http.StatusConflict, "Equipment already exists", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create equipment", gw_errors.ErrInternalServer)
		}
		return
	}

	c.JSON(http.StatusCreated, created)
}

// UpdateEquipment endpoint
func (ec *EquipmentController) UpdateEquipment(c *gin.Context) {
	equipmentID := c.Param("id")

	var eq model.Equipment
	if err := c.ShouldBindJSON(&eq); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid equipment data", err)
		return
	}
	eq.ID = equipmentID

	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}
	eq.TenantID = tenantID

	updated, err := ec.equipmentService.UpdateEquipment(c, eq)
	if err != nil {
		switch {
		case errors.Is(err, gw_errors.ErrInvalidEquipmentData):
			util.RespondWithError(c, http.StatusBadRequest, "Invalid equipment data", err)
		case errors.Is(err, gw_errors.ErrEquipmentNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Equipment not found", err)
		case errors.Is(err, gw_errors.ErrEquipmentConflict):
			util.RespondWithError(c, http.StatusConflict, "Equipment already exists", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update equipment", err)
		}
		return
	}

	c.JSON(http.StatusOK, updated)
}

// DeleteEquipment endpoint
func (ec *EquipmentController) DeleteEquipment(c *gin.Context) {
	equipmentID := c.Param("id")

	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}

	if err := ec.equipmentService.DeleteEquipment(c, equipmentID, tenantID); err != nil {
		if errors.Is(err, gw_errors.ErrEquipmentNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Equipment not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete equipment", err)
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// GetEquipment endpoint
func (ec *EquipmentController) GetEquipment(c *gin.Context) {
	equipmentID := c.Param("id")

	tenantID, ok := util.GetTenantIDFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", gw_errors.ErrUnauthorized)
		return
	}

	eq, err := ec.equipmentService.GetEquipment(c, equipmentID, tenantID)
	if err != nil {
		if errors.Is(err, gw_errors.ErrEquipmentNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Equipment not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve equipment", err)
		}
		return
	}

	c.JSON(http.StatusOK, eq)
}

// ListEquipments endpoint
func (ec *EquipmentController) ListEquipments(c *gin.Context) {
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

	equipments, err := ec.equipmentService.ListEquipments(c, tenantID, limit, offset)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list equipments", err)
		return
	}

	c.JSON(http.StatusOK, equipments)
}
