// service/equipment_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	gw_errors "github.com/gatewise/gatewise/errors"
	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
	"github.com/gatewise/gatewise/util"
)

type IEquipmentService interface {
	CreateEquipment(ctx context.Context, eq model.Equipment) (*model.Equipment, error)
	UpdateEquipment(ctx context.Context, eq model.Equipment) (*model.Equipment, error)
	DeleteEquipment(ctx context.Context, equipmentID, tenantID string) error
	GetEquipment(ctx context.Context, equipmentID, tenantID string) (*model.Equipment, error)
	ListEquipments(ctx context.Context, tenantID string, limit, offset int) ([]*model.Equipment, error)
}

type EquipmentService struct {
	equipmentStore  EquipmentStore
	validationUtil  *util.ValidationUtil
	cache           Cache
	notificationSvc *util.NotificationService
	eventBus        *util.EventBus
}

var _ IEquipmentService = (*EquipmentService)(nil)

func NewEquipmentService(
	equipmentStore EquipmentStore,
	validationUtil *util.ValidationUtil,
	cache Cache,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
) *EquipmentService {
	return &EquipmentService{
		equipmentStore:  equipmentStore,
		validationUtil:  validationUtil,
		cache:           cache,
		notificationSvc: notificationSvc,
		eventBus:        eventBus,
	}
}

func (s *EquipmentService) CreateEquipment(ctx context.Context, eq model.Equipment) (*model.Equipment, error) {
	if err := s.validationUtil.ValidateEquipment(eq); err != nil {
		return nil, fmt.Errorf("%w: %v", gw_errors.ErrInvalidEquipmentData, err)
	}

	if err := s.checkDuplicates(ctx, eq, ""); err != nil {
		return nil, err
	}

	id, err := s.equipmentStore.CreateEquipment(ctx, eq)
	if err != nil {
		logger.Error("Failed to create equipment", zap.Error(err))
		return nil, err
	}
	eq.ID = id

	if err := s.cache.SetEquipment(ctx, eq); err != nil {
		logger.Warn("Failed to cache equipment", zap.String("equipmentID", eq.ID), zap.Error(err))
	}

	if err := s.notificationSvc.NotifyEquipmentChange(ctx, "created", eq); err != nil {
		logger.Warn("Failed to send equipment notification", zap.Error(err))
	}
	s.eventBus.Publish(ctx, "equipment.created", eq)

	return &eq, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, eq model.Equipment) (*model.Equipment, error) {
	if err := s.validationUtil.ValidateEquipment(eq); err != nil {
		return nil, fmt.Errorf("%w: %v", gw_errors.ErrInvalidEquipmentData, err)
	}

	if err := s.checkDuplicates(ctx, eq, eq.ID); err != nil {
		return nil, err
	}

	updated, err := s.equipmentStore.UpdateEquipment(ctx, eq)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetEquipment(ctx, *updated); err != nil {
		logger.Warn("Failed to cache equipment", zap.String("equipmentID", updated.ID), zap.Error(err))
	}

	if err := s.notificationSvc.NotifyEquipmentChange(ctx, "updated", *updated); err != nil {
		logger.Warn("Failed to send equipment notification", zap.Error(err))
	}
	s.eventBus.Publish(ctx, "equipment.updated", *updated)

	return updated, nil
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, equipmentID, tenantID string) error {
	eq, err := s.equipmentStore.GetEquipment(ctx, equipmentID, tenantID)
	if err != nil {
		return err
	}

	if err := s.equipmentStore.DeleteEquipment(ctx, equipmentID, tenantID); err != nil {
		return err
	}

	if err := s.cache.DeleteEquipment(ctx, tenantID, equipmentID); err != nil {
		logger.Warn("Failed to evict cached equipment", zap.String("equipmentID", equipmentID), zap.Error(err))
	}

	if err := s.notificationSvc.NotifyEquipmentChange(ctx, "deleted", *eq); err != nil {
		logger.Warn("Failed to send equipment notification", zap.Error(err))
	}
	s.eventBus.Publish(ctx, "equipment.deleted", *eq)

	return nil
}

func (s *EquipmentService) GetEquipment(ctx context.Context, equipmentID, tenantID string) (*model.Equipment, error) {
	if cached, err := s.cache.GetEquipment(ctx, tenantID, equipmentID); err == nil && cached != nil {
		return cached, nil
	}

	eq, err := s.equipmentStore.GetEquipment(ctx, equipmentID, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetEquipment(ctx, *eq); err != nil {
		logger.Warn("Failed to cache equipment", zap.String("equipmentID", eq.ID), zap.Error(err))
	}
	return eq, nil
}

func (s *EquipmentService) ListEquipments(ctx context.Context, tenantID string, limit, offset int) ([]*model.Equipment, error) {
	return s.equipmentStore.ListEquipments(ctx, tenantID, limit, offset)
}

// checkDuplicates rejects an equipment whose ip or name is already taken by
// a different unit in the same tenant. excludeID skips the unit being
// updated.
func (s *EquipmentService) checkDuplicates(ctx context.Context, eq model.Equipment, excludeID string) error {
	byIP, err := s.equipmentStore.FindByIP(ctx, eq.IP, eq.TenantID)
	if err != nil {
		return err
	}
	if byIP != nil && byIP.ID != excludeID {
		return fmt.Errorf("%w: ip %s already registered", gw_errors.ErrEquipmentConflict, eq.IP)
	}

	byName, err := s.equipmentStore.FindByName(ctx, eq.Name, eq.TenantID)
	if err != nil {
		return err
	}
	if byName != nil && byName.ID != excludeID {
		return fmt.Errorf("%w: name %q already registered", gw_errors.ErrEquipmentConflict, eq.Name)
	}

	return nil
}
