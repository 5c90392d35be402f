// service/expiration_sweeper.go
package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/gatewise/gatewise/equipment"
	gw_errors "github.com/gatewise/gatewise/errors"
	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
	"github.com/gatewise/gatewise/util"
)

// ExpirationSweeper periodically expires access releases whose validity
// window ended. It runs as a background goroutine started once at process
// boot and is safe to stop via its context or the Stop method.
type ExpirationSweeper struct {
	releaseStore AccessReleaseStore
	gateway      equipment.Gateway
	eventBus     *util.EventBus
	interval     time.Duration
	cancel       context.CancelFunc
	done         chan struct{}
}

// NewExpirationSweeper creates a sweeper but does not start it. A
// non-positive interval defaults to 24 hours.
func NewExpirationSweeper(releaseStore AccessReleaseStore, gateway equipment.Gateway, eventBus *util.EventBus, interval time.Duration) *ExpirationSweeper {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ExpirationSweeper{
		releaseStore: releaseStore,
		gateway:      gateway,
		eventBus:     eventBus,
		interval:     interval,
		done:         make(chan struct{}),
	}
}

// Start begins the background loop. It runs an immediate sweep on startup,
// then repeats on the configured interval.
func (s *ExpirationSweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	go s.loop(ctx)
	logger.Info("Expiration sweeper started", zap.Duration("interval", s.interval))
}

// Stop signals the sweeper to exit and waits for it to finish.
func (s *ExpirationSweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
}

func (s *ExpirationSweeper) loop(ctx context.Context) {
	defer close(s.done)

	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep expires every release whose end date falls within the current day or
// earlier. Each release is processed independently; a failure on one never
// blocks the rest, and a release already expired by a concurrent sweep is
// skipped, so running the sweep again is a no-op.
func (s *ExpirationSweeper) Sweep(ctx context.Context) {
	now := time.Now()
	deadline := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())

	releases, err := s.releaseStore.FindAllExpiringBy(ctx, deadline)
	if err != nil {
		logger.Error("Failed to list expiring access releases", zap.Error(err))
		return
	}
	if len(releases) == 0 {
		return
	}
	logger.Info("Expiring access releases", zap.Int("count", len(releases)))

	for _, release := range releases {
		s.expire(ctx, release, now)
	}
}

// expire revokes the release's granted equipment and only then transitions
// the status. The order matters: once a release is expired it no longer
// matches the sweep query, so a revoke skipped after the transition would
// never be retried. Revoking first means a crash between the two steps just
// repeats the revokes on the next sweep, which the equipment treats as a
// no-op.
func (s *ExpirationSweeper) expire(ctx context.Context, release *model.AccessRelease, now time.Time) {
	var records []model.SyncRecord
	for _, target := range grantedTargets(release.Synchronizations) {
		record := model.SyncRecord{EquipmentID: target.EquipmentID, EquipmentIP: target.EquipmentIP, Operation: model.OperationRevoke}
		revokeErr := s.gateway.Revoke(ctx, equipment.RevokeRequest{
			EquipmentID: target.EquipmentID,
			EquipmentIP: target.EquipmentIP,
			PersonID:    release.PersonID,
		})
		if revokeErr != nil {
			record.Failed = true
			record.Message = revokeErr.Error()
			logger.Warn("Failed to revoke expired access on equipment",
				zap.String("accessReleaseID", release.ID),
				zap.String("equipmentID", target.EquipmentID),
				zap.Error(revokeErr))
		}
		records = append(records, record)
	}

	actions := append(append([]model.Action{}, release.Actions...),
		model.Action{Action: model.ActionUpdate, Date: now})

	err := s.releaseStore.TransitionStatus(ctx, release.ID, release.TenantID, model.StatusExpired, actions)
	if errors.Is(err, gw_errors.ErrNoDocumentsModified) {
		// A concurrent pass already expired it and owns the records.
		return
	}
	if err != nil {
		logger.Error("Failed to expire access release",
			zap.String("accessReleaseID", release.ID), zap.Error(err))
		return
	}

	if len(records) > 0 {
		if err := s.releaseStore.AppendSynchronizations(ctx, release.ID, release.TenantID, records); err != nil {
			logger.Error("Failed to record expiration revocations",
				zap.String("accessReleaseID", release.ID), zap.Error(err))
		}
	}

	expired := *release
	expired.Status = model.StatusExpired
	expired.Actions = actions
	expired.UpdatedAt = now
	s.eventBus.Publish(ctx, "accessrelease.expired", expired)
}

// grantedTargets collapses a release's synchronization history to the
// distinct equipment units a grant succeeded on. Revocation entries share
// the same record shape and must not count as granted equipment.
func grantedTargets(records []model.SyncRecord) []model.SyncRecord {
	seen := make(map[string]bool)
	var targets []model.SyncRecord
	for _, r := range records {
		if r.Failed || r.Operation == model.OperationRevoke || seen[r.EquipmentID] {
			continue
		}
		seen[r.EquipmentID] = true
		targets = append(targets, r)
	}
	return targets
}
