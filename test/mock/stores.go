// test/mock/stores.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/gatewise/gatewise/model"
)

// MockAccessReleaseStore is a mock implementation of service.AccessReleaseStore
type MockAccessReleaseStore struct {
	mock.Mock
}

func (m *MockAccessReleaseStore) CreateAccessRelease(ctx context.Context, release model.AccessRelease) (string, error) {
	args := m.Called(ctx, release)
	return args.String(0), args.Error(1)
}

func (m *MockAccessReleaseStore) GetAccessRelease(ctx context.Context, id, tenantID string) (*model.AccessRelease, error) {
	args := m.Called(ctx, id, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRelease), args.Error(1)
}

func (m *MockAccessReleaseStore) ListAccessReleases(ctx context.Context, criteria model.AccessReleaseSearchCriteria) ([]*model.AccessRelease, error) {
	args := m.Called(ctx, criteria)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AccessRelease), args.Error(1)
}

func (m *MockAccessReleaseStore) FindLastByPersonID(ctx context.Context, personID, tenantID string) (*model.AccessRelease, error) {
	args := m.Called(ctx, personID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessRelease), args.Error(1)
}

func (m *MockAccessReleaseStore) FindAllExpiringBy(ctx context.Context, deadline time.Time) ([]*model.AccessRelease, error) {
	args := m.Called(ctx, deadline)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AccessRelease), args.Error(1)
}

func (m *MockAccessReleaseStore) FindAllActiveByPersonTypeIDs(ctx context.Context, personTypeIDs []string, tenantID string, limit, offset int) ([]*model.AccessRelease, error) {
	args := m.Called(ctx, personTypeIDs, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.AccessRelease), args.Error(1)
}

func (m *MockAccessReleaseStore) CountActiveByPersonTypeIDs(ctx context.Context, personTypeIDs []string, tenantID string) (int, error) {
	args := m.Called(ctx, personTypeIDs, tenantID)
	return args.Int(0), args.Error(1)
}

func (m *MockAccessReleaseStore) AppendSynchronizations(ctx context.Context, id, tenantID string, records []model.SyncRecord) error {
	args := m.Called(ctx, id, tenantID, records)
	return args.Error(0)
}

func (m *MockAccessReleaseStore) TransitionStatus(ctx context.Context, id, tenantID string, status model.AccessReleaseStatus, actions []model.Action) error {
	args := m.Called(ctx, id, tenantID, status, actions)
	return args.Error(0)
}

func (m *MockAccessReleaseStore) FindGrantedEquipmentForPerson(ctx context.Context, personID, tenantID string) ([]model.SyncRecord, error) {
	args := m.Called(ctx, personID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SyncRecord), args.Error(1)
}

// MockPersonStore is a mock implementation of service.PersonStore
type MockPersonStore struct {
	mock.Mock
}

func (m *MockPersonStore) GetPerson(ctx context.Context, personID, tenantID string) (*model.Person, error) {
	args := m.Called(ctx, personID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Person), args.Error(1)
}

// MockAccessPointStore is a mock implementation of service.AccessPointStore
type MockAccessPointStore struct {
	mock.Mock
}

func (m *MockAccessPointStore) GetAccessPoint(ctx context.Context, accessPointID, tenantID string) (*model.AccessPoint, error) {
	args := m.Called(ctx, accessPointID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessPoint), args.Error(1)
}

func (m *MockAccessPointStore) FindAllByAreaID(ctx context.Context, areaID, tenantID string) ([]model.AccessPoint, error) {
	args := m.Called(ctx, areaID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AccessPoint), args.Error(1)
}

// MockEquipmentStore is a mock implementation of service.EquipmentStore
type MockEquipmentStore struct {
	mock.Mock
}

func (m *MockEquipmentStore) CreateEquipment(ctx context.Context, eq model.Equipment) (string, error) {
	args := m.Called(ctx, eq)
	return args.String(0), args.Error(1)
}

func (m *MockEquipmentStore) UpdateEquipment(ctx context.Context, eq model.Equipment) (*model.Equipment, error) {
	args := m.Called(ctx, eq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentStore) DeleteEquipment(ctx context.Context, equipmentID, tenantID string) error {
	args := m.Called(ctx, equipmentID, tenantID)
	return args.Error(0)
}

func (m *MockEquipmentStore) GetEquipment(ctx context.Context, equipmentID, tenantID string) (*model.Equipment, error) {
	args := m.Called(ctx, equipmentID, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentStore) FindByIP(ctx context.Context, ip, tenantID string) (*model.Equipment, error) {
	args := m.Called(ctx, ip, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentStore) FindByName(ctx context.Context, name, tenantID string) (*model.Equipment, error) {
	args := m.Called(ctx, name, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentStore) ListEquipments(ctx context.Context, tenantID string, limit, offset int) ([]*model.Equipment, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Equipment), args.Error(1)
}

// MockSynchronizationStore is a mock implementation of service.SynchronizationStore
type MockSynchronizationStore struct {
	mock.Mock
}

func (m *MockSynchronizationStore) CreateSynchronization(ctx context.Context, sync model.AccessSynchronization) (string, error) {
	args := m.Called(ctx, sync)
	return args.String(0), args.Error(1)
}

func (m *MockSynchronizationStore) GetSynchronization(ctx context.Context, id, tenantID string) (*model.AccessSynchronization, error) {
	args := m.Called(ctx, id, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AccessSynchronization), args.Error(1)
}

func (m *MockSynchronizationStore) IncrementExecuted(ctx context.Context, id, tenantID string, n int) error {
	args := m.Called(ctx, id, tenantID, n)
	return args.Error(0)
}

func (m *MockSynchronizationStore) AppendSyncErrors(ctx context.Context, id, tenantID string, syncErrors []model.SyncError) error {
	args := m.Called(ctx, id, tenantID, syncErrors)
	return args.Error(0)
}

func (m *MockSynchronizationStore) FinishSynchronization(ctx context.Context, id, tenantID string, endDate time.Time) error {
	args := m.Called(ctx, id, tenantID, endDate)
	return args.Error(0)
}
