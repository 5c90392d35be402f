// test/mock/services.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gatewise/gatewise/model"
)

// MockAccessReleaseService is a mock implementation of service.IAccessReleaseService
type MockAccessReleaseService struct {
	mock.Mock
}

func (m *MockAccessReleaseService) CreateAccessRelease(ctx context.Context, release model.AccessRelease, userID string) (*model.AccessRelease, error) {
	args := m.Called(ctx, release, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRelease), args.Error(1)
}

func (m *MockAccessReleaseService) DisableAccessRelease(ctx context.Context, id, tenantID, responsibleID string) (*model.AccessRelease, error) {
	args := m.Called(ctx, id, tenantID, responsibleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRelease), args.Error(1)
}

func (m *MockAccessReleaseService) GetAccessRelease(ctx context.Context, id, tenantID string) (*model.AccessRelease, error) {
	args := m.Called(ctx, id, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRelease), args.Error(1)
}

func (m *MockAccessReleaseService) ListAccessReleases(ctx context.Context, criteria model.AccessReleaseSearchCriteria) ([]*model.AccessRelease, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AccessRelease), args.Error(1)
}

func (m *MockAccessReleaseService) FindLastByPersonID(ctx context.Context, personID, tenantID string) (*model.AccessRelease, error) {
	args := m.Called(ctx, personID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRelease), args.Error(1)
}

// MockAccessSynchronizationService is a mock implementation of service.IAccessSynchronizationService
type MockAccessSynchronizationService struct {
	mock.Mock
}

func (m *MockAccessSynchronizationService) StartSynchronization(ctx context.Context, personTypeIDs []string, equipmentID, tenantID, userID string) (*model.AccessSynchronization, error) {
	args := m.Called(ctx, personTypeIDs, equipmentID, tenantID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessSynchronization), args.Error(1)
}

func (m *MockAccessSynchronizationService) GetSynchronization(ctx context.Context, id, tenantID string) (*model.AccessSynchronization, error) {
	args := m.Called(ctx, id, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessSynchronization), args.Error(1)
}

// MockEquipmentService is a mock implementation of service.IEquipmentService
type MockEquipmentService struct {
	mock.Mock
}

func (m *MockEquipmentService) CreateEquipment(ctx context.Context, eq model.Equipment) (*model.Equipment, error) {
	args := m.Called(ctx, eq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentService) UpdateEquipment(ctx context.Context, eq model.Equipment) (*model.Equipment, error) {
	args := m.Called(ctx, eq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentService) DeleteEquipment(ctx context.Context, equipmentID, tenantID string) error {
	args := m.Called(ctx, equipmentID, tenantID)
	return args.Error(0)
}

func (m *MockEquipmentService) GetEquipment(ctx context.Context, equipmentID, tenantID string) (*model.Equipment, error) {
	args := m.Called(ctx, equipmentID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentService) ListEquipments(ctx context.Context, tenantID string, limit, offset int) ([]*model.Equipment, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Equipment), args.Error(1)
}
