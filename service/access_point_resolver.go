// service/access_point_resolver.go
package service

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
)

// AccessPointResolver maps a release's direct access point plus the points
// under its areas to the concrete equipment units that must receive a grant.
type AccessPointResolver struct {
	accessPointStore AccessPointStore
	equipmentStore   EquipmentStore
	cache            Cache
}

func NewAccessPointResolver(accessPointStore AccessPointStore, equipmentStore EquipmentStore, cache Cache) *AccessPointResolver {
	return &AccessPointResolver{
		accessPointStore: accessPointStore,
		equipmentStore:   equipmentStore,
		cache:            cache,
	}
}

// ResolveTargets collects the equipment behind the direct point and every
// point in the given areas, keeping only points that the person type may
// pass. General-exit points never receive explicit grants and are skipped.
func (r *AccessPointResolver) ResolveTargets(ctx context.Context, tenantID string, direct *model.AccessPoint, areaIDs []string, personTypeID string) ([]model.Equipment, error) {
	points := make([]model.AccessPoint, 0, 1+len(areaIDs))
	if direct != nil {
		points = append(points, *direct)
	}

	if len(areaIDs) > 0 {
		var mu sync.Mutex
		g, gctx := errgroup.WithContext(ctx)
		for _, areaID := range areaIDs {
			areaID := areaID
			g.Go(func() error {
				areaPoints, err := r.accessPointStore.FindAllByAreaID(gctx, areaID, tenantID)
				if err != nil {
					return err
				}
				mu.Lock()
				points = append(points, areaPoints...)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	var targets []model.Equipment
	seen := make(map[string]bool)
	for _, point := range points {
		if point.GeneralExit {
			continue
		}
		if !point.AllowsPersonType(personTypeID) {
			continue
		}
		if len(point.EquipmentIDs) == 0 {
			continue
		}
		for _, equipmentID := range point.EquipmentIDs {
			if seen[equipmentID] {
				continue
			}
			seen[equipmentID] = true

			eq, err := r.findEquipment(ctx, tenantID, equipmentID)
			if err != nil {
				logger.Warn("Skipping unresolvable equipment on access point",
					zap.String("accessPointID", point.ID),
					zap.String("equipmentID", equipmentID),
					zap.Error(err))
				continue
			}
			targets = append(targets, *eq)
		}
	}

	return targets, nil
}

func (r *AccessPointResolver) findEquipment(ctx context.Context, tenantID, equipmentID string) (*model.Equipment, error) {
	if cached, err := r.cache.GetEquipment(ctx, tenantID, equipmentID); err == nil && cached != nil {
		return cached, nil
	}

	eq, err := r.equipmentStore.GetEquipment(ctx, equipmentID, tenantID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.SetEquipment(ctx, *eq); err != nil {
		logger.Warn("Failed to cache equipment", zap.String("equipmentID", eq.ID), zap.Error(err))
	}
	return eq, nil
}
