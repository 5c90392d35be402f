// service/access_release_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gatewise/gatewise/equipment"
	gw_errors "github.com/gatewise/gatewise/errors"
	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
	"github.com/gatewise/gatewise/util"
)

type IAccessReleaseService interface {
	CreateAccessRelease(ctx context.Context, release model.AccessRelease, userID string) (*model.AccessRelease, error)
	DisableAccessRelease(ctx context.Context, id, tenantID, responsibleID string) (*model.AccessRelease, error)
	GetAccessRelease(ctx context.Context, id, tenantID string) (*model.AccessRelease, error)
	ListAccessReleases(ctx context.Context, criteria model.AccessReleaseSearchCriteria) ([]*model.AccessRelease, error)
	FindLastByPersonID(ctx context.Context, personID, tenantID string) (*model.AccessRelease, error)
}

// AccessReleaseService owns the release lifecycle: creation with equipment
// fan-out, disabling with full revocation, and the read paths.
type AccessReleaseService struct {
	releaseStore     AccessReleaseStore
	personStore      PersonStore
	accessPointStore AccessPointStore
	resolver         *AccessPointResolver
	gateway          equipment.Gateway
	validationUtil   *util.ValidationUtil
	cache            Cache
	eventBus         *util.EventBus
	cfg              Config
}

var _ IAccessReleaseService = (*AccessReleaseService)(nil)

func NewAccessReleaseService(
	releaseStore AccessReleaseStore,
	personStore PersonStore,
	accessPointStore AccessPointStore,
	resolver *AccessPointResolver,
	gateway equipment.Gateway,
	validationUtil *util.ValidationUtil,
	cache Cache,
	eventBus *util.EventBus,
	cfg Config,
) *AccessReleaseService {
	return &AccessReleaseService{
		releaseStore:     releaseStore,
		personStore:      personStore,
		accessPointStore: accessPointStore,
		resolver:         resolver,
		gateway:          gateway,
		validationUtil:   validationUtil,
		cache:            cache,
		eventBus:         eventBus,
		cfg:              cfg,
	}
}

// CreateAccessRelease persists a new release and pushes the grant to every
// equipment unit the access point and areas resolve to. Equipment failures
// are recorded per unit and never fail the creation itself.
func (s *AccessReleaseService) CreateAccessRelease(ctx context.Context, release model.AccessRelease, userID string) (*model.AccessRelease, error) {
	if err := s.validationUtil.ValidateAccessRelease(release); err != nil {
		return nil, fmt.Errorf("%w: %v", gw_errors.ErrInvalidAccessReleaseData, err)
	}

	person, err := s.findPerson(ctx, release.TenantID, release.PersonID)
	if err != nil {
		return nil, err
	}

	point, err := s.findAccessPoint(ctx, release.TenantID, release.AccessPointID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if release.InitDate.IsZero() {
		release.InitDate = now
	}

	var explicitEnd *time.Time
	if !release.EndDate.IsZero() {
		end := release.EndDate
		explicitEnd = &end
	}
	release.EndDate = model.ResolveEndDate(release.InitDate, release.ExpiringTime, explicitEnd,
		model.DefaultEndOfValidity(now, s.cfg.DefaultValidityDays))

	release.Status = model.InitialStatus(release.InitDate, now)
	release.Actions = []model.Action{{Action: model.ActionCreate, Date: now, UserID: userID}}
	release.Synchronizations = nil
	release.CreatedAt = now
	release.UpdatedAt = now

	id, err := s.releaseStore.CreateAccessRelease(ctx, release)
	if err != nil {
		logger.Error("Failed to create access release", zap.Error(err))
		return nil, err
	}
	release.ID = id

	targets, err := s.resolver.ResolveTargets(ctx, release.TenantID, point, release.AreaIDs, release.PersonTypeID)
	if err != nil {
		// The release is already persisted; a later bulk synchronization
		// can push the missing grants.
		logger.Error("Failed to resolve equipment targets for access release",
			zap.String("accessReleaseID", release.ID), zap.Error(err))
		targets = nil
	}

	records := s.grantAll(ctx, targets, person, release)
	if len(records) > 0 {
		if err := s.releaseStore.AppendSynchronizations(ctx, release.ID, release.TenantID, records); err != nil {
			logger.Error("Failed to record synchronization outcomes",
				zap.String("accessReleaseID", release.ID), zap.Error(err))
		} else {
			release.Synchronizations = records
		}
	}

	if err := s.cache.SetLastAccessRelease(ctx, release); err != nil {
		logger.Warn("Failed to cache last access release", zap.String("personID", release.PersonID), zap.Error(err))
	}

	s.eventBus.Publish(ctx, "accessrelease.created", release)
	return &release, nil
}

// DisableAccessRelease transitions a release to disabled and revokes the
// person's access from every equipment unit a grant was ever recorded on.
func (s *AccessReleaseService) DisableAccessRelease(ctx context.Context, id, tenantID, responsibleID string) (*model.AccessRelease, error) {
	release, err := s.releaseStore.GetAccessRelease(ctx, id, tenantID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	actions := append(append([]model.Action{}, release.Actions...),
		model.Action{Action: model.ActionUpdate, Date: now, UserID: responsibleID})

	if err := s.releaseStore.TransitionStatus(ctx, id, tenantID, model.StatusDisabled, actions); err != nil {
		if errors.Is(err, gw_errors.ErrNoDocumentsModified) {
			logger.Error("Disable matched no access release outside the disabled state",
				zap.String("accessReleaseID", id))
			return nil, gw_errors.ErrInternalServer
		}
		return nil, err
	}

	granted, err := s.releaseStore.FindGrantedEquipmentForPerson(ctx, release.PersonID, tenantID)
	if err != nil {
		logger.Error("Failed to list granted equipment for revocation",
			zap.String("personID", release.PersonID), zap.Error(err))
		granted = nil
	}

	records := s.revokeAll(ctx, granted, release.PersonID)
	if len(records) > 0 {
		if err := s.releaseStore.AppendSynchronizations(ctx, id, tenantID, records); err != nil {
			logger.Error("Failed to record revocation outcomes",
				zap.String("accessReleaseID", id), zap.Error(err))
		}
	}

	release.Status = model.StatusDisabled
	release.Actions = actions
	release.UpdatedAt = now
	release.Synchronizations = append(release.Synchronizations, records...)

	if err := s.cache.DeleteLastAccessRelease(ctx, tenantID, release.PersonID); err != nil {
		logger.Warn("Failed to evict cached last access release",
			zap.String("personID", release.PersonID), zap.Error(err))
	}

	s.eventBus.Publish(ctx, "accessrelease.disabled", *release)
	return release, nil
}

func (s *AccessReleaseService) GetAccessRelease(ctx context.Context, id, tenantID string) (*model.AccessRelease, error) {
	return s.releaseStore.GetAccessRelease(ctx, id, tenantID)
}

func (s *AccessReleaseService) ListAccessReleases(ctx context.Context, criteria model.AccessReleaseSearchCriteria) ([]*model.AccessRelease, error) {
	return s.releaseStore.ListAccessReleases(ctx, criteria)
}

func (s *AccessReleaseService) FindLastByPersonID(ctx context.Context, personID, tenantID string) (*model.AccessRelease, error) {
	if cached, err := s.cache.GetLastAccessRelease(ctx, tenantID, personID); err == nil && cached != nil {
		return cached, nil
	}

	release, err := s.releaseStore.FindLastByPersonID(ctx, personID, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetLastAccessRelease(ctx, *release); err != nil {
		logger.Warn("Failed to cache last access release", zap.String("personID", personID), zap.Error(err))
	}
	return release, nil
}

// grantAll pushes the grant to each target concurrently and collects one
// outcome record per unit. A failed call marks its record and nothing else.
func (s *AccessReleaseService) grantAll(ctx context.Context, targets []model.Equipment, person *model.Person, release model.AccessRelease) []model.SyncRecord {
	if len(targets) == 0 {
		return nil
	}

	records := make([]model.SyncRecord, len(targets))
	g := new(errgroup.Group)
	sem := make(chan struct{}, s.cfg.fanoutConcurrency())

	for i, target := range targets {
		i, target := i, target
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			record := model.SyncRecord{EquipmentID: target.ID, EquipmentIP: target.IP, Operation: model.OperationGrant}
			err := s.gateway.Grant(ctx, equipment.GrantRequest{
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
			if err != nil {
				record.Failed = true
				record.Message = err.Error()
			}
			records[i] = record
			return nil
		})
	}
	_ = g.Wait()
	return records
}

func (s *AccessReleaseService) revokeAll(ctx context.Context, granted []model.SyncRecord, personID string) []model.SyncRecord {
	if len(granted) == 0 {
		return nil
	}

	records := make([]model.SyncRecord, len(granted))
	g := new(errgroup.Group)
	sem := make(chan struct{}, s.cfg.fanoutConcurrency())

	for i, target := range granted {
		i, target := i, target
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			record := model.SyncRecord{EquipmentID: target.EquipmentID, EquipmentIP: target.EquipmentIP, Operation: model.OperationRevoke}
			err := s.gateway.Revoke(ctx, equipment.RevokeRequest{
				EquipmentID: target.EquipmentID,
				EquipmentIP: target.EquipmentIP,
				PersonID:    personID,
			})
			if err != nil {
				record.Failed = true
				record.Message = err.Error()
			}
			records[i] = record
			return nil
		})
	}
	_ = g.Wait()
	return records
}

func (s *AccessReleaseService) findPerson(ctx context.Context, tenantID, personID string) (*model.Person, error) {
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

func (s *AccessReleaseService) findAccessPoint(ctx context.Context, tenantID, accessPointID string) (*model.AccessPoint, error) {
	if cached, err := s.cache.GetAccessPoint(ctx, tenantID, accessPointID); err == nil && cached != nil {
		return cached, nil
	}

	point, err := s.accessPointStore.GetAccessPoint(ctx, accessPointID, tenantID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetAccessPoint(ctx, *point); err != nil {
		logger.Warn("Failed to cache access point", zap.String("accessPointID", point.ID), zap.Error(err))
	}
	return point, nil
}

// gatewaySchedules converts a release's work schedules to the gateway's wire
// shape. An empty input yields nil so the field is omitted from the call.
func gatewaySchedules(schedules []model.WorkSchedule) []equipment.Schedule {
	if len(schedules) == 0 {
		return nil
	}
	out := make([]equipment.Schedule, len(schedules))
	for i, s := range schedules {
		out[i] = equipment.Schedule{
			DayOfWeek: s.DayOfWeek,
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
		}
	}
	return out
}
