// test/mock/cache.go
package mock

import (
	"context"

	"github.com/gatewise/gatewise/model"
)

// CacheStub is a no-op service.Cache for tests that do not exercise caching:
// every lookup misses and every write succeeds.
type CacheStub struct{}

func (CacheStub) GetPerson(ctx context.Context, tenantID, personID string) (*model.Person, error) {
	return nil, nil
}

func (CacheStub) SetPerson(ctx context.Context, person model.Person) error { return nil }

func (CacheStub) GetEquipment(ctx context.Context, tenantID, equipmentID string) (*model.Equipment, error) {
	return nil, nil
}

func (CacheStub) SetEquipment(ctx context.Context, eq model.Equipment) error { return nil }

func (CacheStub) DeleteEquipment(ctx context.Context, tenantID, equipmentID string) error {
	return nil
}

func (CacheStub) GetAccessPoint(ctx context.Context, tenantID, accessPointID string) (*model.AccessPoint, error) {
	return nil, nil
}

func (CacheStub) SetAccessPoint(ctx context.Context, point model.AccessPoint) error { return nil }

func (CacheStub) GetLastAccessRelease(ctx context.Context, tenantID, personID string) (*model.AccessRelease, error) {
	return nil, nil
}

func (CacheStub) SetLastAccessRelease(ctx context.Context, release model.AccessRelease) error {
	return nil
}

func (CacheStub) DeleteLastAccessRelease(ctx context.Context, tenantID, personID string) error {
	return nil
}
