// util/cache_service.go

package util

import (
	"context"

	"github.com/gatewise/gatewise/db"
	"github.com/gatewise/gatewise/model"
)

type CacheService struct{}

func NewCacheService() *CacheService {
	return &CacheService{}
}

func (c *CacheService) GetPerson(ctx context.Context, tenantID, personID string) (*model.Person, error) {
	return db.GetCachedPerson(ctx, tenantID, personID)
}

func (c *CacheService) SetPerson(ctx context.Context, person model.Person) error {
	return db.CachePerson(ctx, &person)
}

func (c *CacheService) GetEquipment(ctx context.Context, tenantID, equipmentID string) (*model.Equipment, error) {
	return db.GetCachedEquipment(ctx, tenantID, equipmentID)
}

func (c *CacheService) SetEquipment(ctx context.Context, eq model.Equipment) error {
	return db.CacheEquipment(ctx, &eq)
}

func (c *CacheService) DeleteEquipment(ctx context.Context, tenantID, equipmentID string) error {
	return db.DeleteCachedEquipment(ctx, tenantID, equipmentID)
}

func (c *CacheService) GetAccessPoint(ctx context.Context, tenantID, accessPointID string) (*model.AccessPoint, error) {
	return db.GetCachedAccessPoint(ctx, tenantID, accessPointID)
}

func (c *CacheService) SetAccessPoint(ctx context.Context, point model.AccessPoint) error {
	return db.CacheAccessPoint(ctx, &point)
}

func (c *CacheService) GetLastAccessRelease(ctx context.Context, tenantID, personID string) (*model.AccessRelease, error) {
	return db.GetCachedLastAccessRelease(ctx, tenantID, personID)
}

func (c *CacheService) SetLastAccessRelease(ctx context.Context, release model.AccessRelease) error {
	return db.CacheLastAccessRelease(ctx, &release)
}

func (c *CacheService) DeleteLastAccessRelease(ctx context.Context, tenantID, personID string) error {
	return db.DeleteCachedLastAccessRelease(ctx, tenantID, personID)
}
