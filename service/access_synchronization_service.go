// service/access_synchronization_service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gatewise/gatewise/equipment"
	gw_errors "github.com/gatewise/gatewise/errors"
	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
	"github.com/gatewise/gatewise/util"
)

type IAccessSynchronizationService interface {
	StartSynchronization(ctx context.Context, personTypeIDs []string, equipmentID, tenantID, userID string) (*model.AccessSynchronization, error)
	GetSynchronization(ctx context.Context, id, tenantID string) (*model.AccessSynchronization, error)
}

// AccessSynchronizationService runs bulk re-pushes of every active access
// release for a set of person types to one piece of equipment. The job
// record is created up front with the total to process and then updated
// batch by batch, so its progress is observable while the job runs.
type AccessSynchronizationService struct {
	syncStore       SynchronizationStore
	releaseStore    AccessReleaseStore
	equipmentStore  EquipmentStore
	personStore     PersonStore
	gateway         equipment.Gateway
	validationUtil  *util.ValidationUtil
	cache           Cache
	notificationSvc *util.NotificationService
	cfg             Config

	wg sync.WaitGroup
}

var _ IAccessSynchronizationService = (*AccessSynchronizationService)(nil)

func NewAccessSynchronizationService(
	syncStore SynchronizationStore,
	releaseStore AccessReleaseStore,
	equipmentStore EquipmentStore,
	personStore PersonStore,
	gateway equipment.Gateway,
	validationUtil *util.ValidationUtil,
	cache Cache,
	notificationSvc *util.NotificationService,
	cfg Config,
) *AccessSynchronizationService {
	return &AccessSynchronizationService{
		syncStore:       syncStore,
		releaseStore:    releaseStore,
		equipmentStore:  equipmentStore,
		personStore:     personStore,
		gateway:         gateway,
		validationUtil:  validationUtil,
		cache:           cache,
		notificationSvc: notificationSvc,
		cfg:             cfg,
	}
}

// StartSynchronization validates the request, creates the job record and
// launches the batch run in the background. The returned record carries the
// job id and the total number of releases the run will process.
func (s *AccessSynchronizationService) StartSynchronization(ctx context.Context, personTypeIDs []string, equipmentID, tenantID, userID string) (*model.AccessSynchronization, error) {
	if err := s.validationUtil.ValidateSynchronizationRequest(personTypeIDs, equipmentID); err != nil {
		return nil, fmt.Errorf("%w: %v", gw_errors.ErrInvalidSynchronizationData, err)
	}

	target, err := s.equipmentStore.GetEquipment(ctx, equipmentID, tenantID)
	if err != nil {
		return nil, err
	}

	total, err := s.releaseStore.CountActiveByPersonTypeIDs(ctx, personTypeIDs, tenantID)
	if err != nil {
		return nil, err
	}

	job := model.AccessSynchronization{
		TenantID:      tenantID,
		PersonTypeIDs: personTypeIDs,
		EquipmentID:   equipmentID,
		TotalDocs:     total,
		StartDate:     time.Now(),
	}

	id, err := s.syncStore.CreateSynchronization(ctx, job)
	if err != nil {
		logger.Error("Failed to create access synchronization", zap.Error(err))
		return nil, err
	}
	job.ID = id

	logger.Info("Access synchronization started",
		zap.String("synchronizationID", id),
		zap.String("equipmentID", equipmentID),
		zap.Int("totalDocs", total),
		zap.String("userID", userID))

	// The run outlives the request; detach it from the request context.
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(context.Background(), job, *target)
	}()

	return &job, nil
}

func (s *AccessSynchronizationService) GetSynchronization(ctx context.Context, id, tenantID string) (*model.AccessSynchronization, error) {
	return s.syncStore.GetSynchronization(ctx, id, tenantID)
}

// Wait blocks until every launched run has finished. Used at shutdown.
func (s *AccessSynchronizationService) Wait() {
	s.wg.Wait()
}

// run pages through the matching releases and pushes each grant to the
// target equipment. Failures are recorded on the job and never stop it; the
// job always finishes.
func (s *AccessSynchronizationService) run(ctx context.Context, job model.AccessSynchronization, target model.Equipment) {
	batchSize := s.cfg.syncBatchSize()
	processed := 0

	for processed < job.TotalDocs {
		// Never fetch past the total counted at start, so executedCount
		// stays within totalDocs even if releases are created mid-run.
		limit := batchSize
		if remaining := job.TotalDocs - processed; remaining < limit {
			limit = remaining
		}

		releases, err := s.releaseStore.FindAllActiveByPersonTypeIDs(ctx, job.PersonTypeIDs, job.TenantID, limit, processed)
		if err != nil {
			logger.Error("Failed to fetch synchronization batch",
				zap.String("synchronizationID", job.ID), zap.Error(err))
			break
		}
		if len(releases) == 0 {
			break
		}

		syncErrors := s.pushBatch(ctx, releases, target)

		if err := s.syncStore.IncrementExecuted(ctx, job.ID, job.TenantID, len(releases)); err != nil {
			logger.Error("Failed to record synchronization progress",
				zap.String("synchronizationID", job.ID), zap.Error(err))
		}
		if len(syncErrors) > 0 {
			if err := s.syncStore.AppendSyncErrors(ctx, job.ID, job.TenantID, syncErrors); err != nil {
				logger.Error("Failed to record synchronization errors",
					zap.String("synchronizationID", job.ID), zap.Error(err))
			}
		}

		processed += len(releases)
	}

	if err := s.syncStore.FinishSynchronization(ctx, job.ID, job.TenantID, time.Now()); err != nil {
		logger.Error("Failed to finish access synchronization",
			zap.String("synchronizationID", job.ID), zap.Error(err))
		return
	}

	finished, err := s.syncStore.GetSynchronization(ctx, job.ID, job.TenantID)
	if err != nil {
		logger.Error("Failed to reload finished synchronization",
			zap.String("synchronizationID", job.ID), zap.Error(err))
		return
	}
	if err := s.notificationSvc.NotifySynchronizationFinished(ctx, *finished); err != nil {
		logger.Warn("Failed to notify synchronization completion",
			zap.String("synchronizationID", job.ID), zap.Error(err))
	}
}

// pushBatch grants one batch of releases on the target equipment
// concurrently and collects the per-release failures.
func (s *AccessSynchronizationService) pushBatch(ctx context.Context, releases []*model.AccessRelease, target model.Equipment) []model.SyncError {
	var mu sync.Mutex
	var syncErrors []model.SyncError

	g := new(errgroup.Group)
	sem := make(chan struct{}, s.cfg.fanoutConcurrency())

	for _, release := range releases {
		release := release
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			if err := s.pushRelease(ctx, release, target); err != nil {
				mu.Lock()
				syncErrors = append(syncErrors, model.SyncError{
					EquipmentID: target.ID,
					EquipmentIP: target.IP,
					Message:     fmt.Sprintf("access release %s: %v", release.ID, err),
				})
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return syncErrors
}

func (s *AccessSynchronizationService) pushRelease(ctx context.Context, release *model.AccessRelease, target model.Equipment) error {
	person, err := s.findPerson(ctx, release.TenantID, release.PersonID)
	if err != nil {
		return err
	}

	return s.gateway.Grant(ctx, equipment.GrantRequest{
		EquipmentID:      target.ID,
		EquipmentIP:      target.IP,
		PersonID:         person.ID,
		PersonCode:       person.Code,
		PersonName:       person.Name,
		PersonPictureURL: person.Picture,
		InitDate:         release.InitDate,
		EndDate:          release.EndDate,
		Schedules:        gatewaySchedules(release.WorkSchedules),
		SingleAccess:     release.SingleAccess,
	})
}

func (s *AccessSynchronizationService) findPerson(ctx context.Context, tenantID, personID string) (*model.Person, error) {
	if cached, err := s.cache.GetPerson(ctx, tenantID, personID); err == nil && cached != nil {
		return cached, nil
	}

	person, err := s.personStore.GetPerson(ctx, personID, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetPerson(ctx, *person); err != nil {
		logger.Warn("Failed to cache person", zap.String("personID", person.ID), zap.Error(err))
	}
	return person, nil
}
