// service/stores.go
package service

import (
	"context"
	"time"

	"github.com/gatewise/gatewise/model"
)

// Store interfaces consumed by the services. The dao package provides the
// Neo4j-backed implementations; tests substitute mocks.

type AccessReleaseStore interface {
	CreateAccessRelease(ctx context.Context, release model.AccessRelease) (string, error)
	GetAccessRelease(ctx context.Context, id, tenantID string) (*model.AccessRelease, error)
	ListAccessReleases(ctx context.Context, criteria model.AccessReleaseSearchCriteria) ([]*model.AccessRelease, error)
	FindLastByPersonID(ctx context.Context, personID, tenantID string) (*model.AccessRelease, error)
	FindAllExpiringBy(ctx context.Context, deadline time.Time) ([]*model.AccessRelease, error)
	FindAllActiveByPersonTypeIDs(ctx context.Context, personTypeIDs []string, tenantID string, limit, offset int) ([]*model.AccessRelease, error)
	CountActiveByPersonTypeIDs(ctx context.Context, personTypeIDs []string, tenantID string) (int, error)
	AppendSynchronizations(ctx context.Context, id, tenantID string, records []model.SyncRecord) error
	TransitionStatus(ctx context.Context, id, tenantID string, status model.AccessReleaseStatus, actions []model.Action) error
	FindGrantedEquipmentForPerson(ctx context.Context, personID, tenantID string) ([]model.SyncRecord, error)
}

type PersonStore interface {
	GetPerson(ctx context.Context, personID, tenantID string) (*model.Person, error)
}

type AccessPointStore interface {
	GetAccessPoint(ctx context.Context, accessPointID, tenantID string) (*model.AccessPoint, error)
	FindAllByAreaID(ctx context.Context, areaID, tenantID string) ([]model.AccessPoint, error)
}

type EquipmentStore interface {
	CreateEquipment(ctx context.Context, eq model.Equipment) (string, error)
	UpdateEquipment(ctx context.Context, eq model.Equipment) (*model.Equipment, error)
	DeleteEquipment(ctx context.Context, equipmentID, tenantID string) error
	GetEquipment(ctx context.Context, equipmentID, tenantID string) (*model.Equipment, error)
	FindByIP(ctx context.Context, ip, tenantID string) (*model.Equipment, error)
	FindByName(ctx context.Context, name, tenantID string) (*model.Equipment, error)
	ListEquipments(ctx context.Context, tenantID string, limit, offset int) ([]*model.Equipment, error)
}

type SynchronizationStore interface {
	CreateSynchronization(ctx context.Context, sync model.AccessSynchronization) (string, error)
	GetSynchronization(ctx context.Context, id, tenantID string) (*model.AccessSynchronization, error)
	IncrementExecuted(ctx context.Context, id, tenantID string, n int) error
	AppendSyncErrors(ctx context.Context, id, tenantID string, syncErrors []model.SyncError) error
	FinishSynchronization(ctx context.Context, id, tenantID string, endDate time.Time) error
}

// Cache is the slice of util.CacheService the services rely on.
type Cache interface {
	GetPerson(ctx context.Context, tenantID, personID string) (*model.Person, error)
	SetPerson(ctx context.Context, person model.Person) error
	GetEquipment(ctx context.Context, tenantID, equipmentID string) (*model.Equipment, error)
	SetEquipment(ctx context.Context, eq model.Equipment) error
	DeleteEquipment(ctx context.Context, tenantID, equipmentID string) error
	GetAccessPoint(ctx context.Context, tenantID, accessPointID string) (*model.AccessPoint, error)
	SetAccessPoint(ctx context.Context, point model.AccessPoint) error
	GetLastAccessRelease(ctx context.Context, tenantID, personID string) (*model.AccessRelease, error)
	SetLastAccessRelease(ctx context.Context, release model.AccessRelease) error
	DeleteLastAccessRelease(ctx context.Context, tenantID, personID string) error
}

// Config carries the tunables the services need; values come from viper at
// process start.
type Config struct {
	DefaultValidityDays int
	FanoutConcurrency   int
	SyncBatchSize       int
	SweepInterval       time.Duration
}

func (c Config) fanoutConcurrency() int {
	if c.FanoutConcurrency <= 0 {
		return 10
	}
	return c.FanoutConcurrency
}

func (c Config) syncBatchSize() int {
	if c.SyncBatchSize <= 0 {
		return 50
	}
	return c.SyncBatchSize
}
