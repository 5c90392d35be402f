package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	gw_errors "github.com/gatewise/gatewise/errors"
	"github.com/gatewise/gatewise/model"
	"github.com/gatewise/gatewise/service"
	test_mock "github.com/gatewise/gatewise/test/mock"
	"github.com/gatewise/gatewise/util"
)

type syncServiceFixture struct {
	syncStore      *test_mock.MockSynchronizationStore
	releaseStore   *test_mock.MockAccessReleaseStore
	equipmentStore *test_mock.MockEquipmentStore
	personStore    *test_mock.MockPersonStore
	gateway        *test_mock.MockGateway
	svc            *service.AccessSynchronizationService
}

func newSyncServiceFixture(batchSize int) *syncServiceFixture {
	f := &syncServiceFixture{
		syncStore:      new(test_mock.MockSynchronizationStore),
		releaseStore:   new(test_mock.MockAccessReleaseStore),
		equipmentStore: new(test_mock.MockEquipmentStore),
		personStore:    new(test_mock.MockPersonStore),
		gateway:        new(test_mock.MockGateway),
	}

	f.svc = service.NewAccessSynchronizationService(
		f.syncStore,
		f.releaseStore,
		f.equipmentStore,
		f.personStore,
		f.gateway,
		util.NewValidationUtil(),
		test_mock.CacheStub{},
		util.NewNotificationService(),
		service.Config{FanoutConcurrency: 4, SyncBatchSize: batchSize},
	)
	return f
}

func activeRelease(id, personID string) *model.AccessRelease {
	return &model.AccessRelease{
		ID: id, TenantID: "tenant-1", PersonID: personID,
		PersonTypeID: "pt-1", Status: model.StatusActive,
	}
}

func TestStartSynchronization_RunsAllBatches(t *testing.T) {
	f := newSyncServiceFixture(2)

	target := &model.Equipment{ID: "eq-1", TenantID: "tenant-1", IP: "10.0.0.1"}
	f.equipmentStore.On("GetEquipment", mock.Anything, "eq-1", "tenant-1").Return(target, nil)
	f.releaseStore.On("CountActiveByPersonTypeIDs", mock.Anything, []string{"pt-1"}, "tenant-1").Return(3, nil)
	f.syncStore.On("CreateSynchronization", mock.Anything, mock.Anything).Return("sync-1", nil)

	f.releaseStore.On("FindAllActiveByPersonTypeIDs", mock.Anything, []string{"pt-1"}, "tenant-1", 2, 0).
		Return([]*model.AccessRelease{activeRelease("rel-1", "person-1"), activeRelease("rel-2", "person-2")}, nil)
	f.releaseStore.On("FindAllActiveByPersonTypeIDs", mock.Anything, []string{"pt-1"}, "tenant-1", 1, 2).
		Return([]*model.AccessRelease{activeRelease("rel-3", "person-3")}, nil)

	for _, id := range []string{"person-1", "person-2", "person-3"} {
		f.personStore.On("GetPerson", mock.Anything, id, "tenant-1").
			Return(&model.Person{ID: id, TenantID: "tenant-1"}, nil)
	}
	f.gateway.On("Grant", mock.Anything, mock.Anything).Return(nil)

	f.syncStore.On("IncrementExecuted", mock.Anything, "sync-1", "tenant-1", 2).Return(nil)
	f.syncStore.On("IncrementExecuted", mock.Anything, "sync-1", "tenant-1", 1).Return(nil)
	f.syncStore.On("FinishSynchronization", mock.Anything, "sync-1", "tenant-1", mock.Anything).Return(nil)
	f.syncStore.On("GetSynchronization", mock.Anything, "sync-1", "tenant-1").
		Return(&model.AccessSynchronization{ID: "sync-1", TotalDocs: 3, ExecutedCount: 3, Finished: true}, nil)

	job, err := f.svc.StartSynchronization(context.Background(), []string{"pt-1"}, "eq-1", "tenant-1", "user-1")
	assert.NoError(t, err)
	assert.Equal(t, "sync-1", job.ID)
	assert.Equal(t, 3, job.TotalDocs)
	assert.False(t, job.Finished)

	f.svc.Wait()

	f.gateway.AssertNumberOfCalls(t, "Grant", 3)
	f.syncStore.AssertNumberOfCalls(t, "FinishSynchronization", 1)
	f.syncStore.AssertNotCalled(t, "AppendSyncErrors", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestStartSynchronization_RecordsFailuresAndStillFinishes(t *testing.T) {
	f := newSyncServiceFixture(10)

	target := &model.Equipment{ID: "eq-1", TenantID: "tenant-1", IP: "10.0.0.1"}
	f.equipmentStore.On("GetEquipment", mock.Anything, "eq-1", "tenant-1").Return(target, nil)
	f.releaseStore.On("CountActiveByPersonTypeIDs", mock.Anything, []string{"pt-1"}, "tenant-1").Return(2, nil)
	f.syncStore.On("CreateSynchronization", mock.Anything, mock.Anything).Return("sync-1", nil)

	f.releaseStore.On("FindAllActiveByPersonTypeIDs", mock.Anything, []string{"pt-1"}, "tenant-1", 2, 0).
		Return([]*model.AccessRelease{activeRelease("rel-1", "person-1"), activeRelease("rel-2", "person-2")}, nil)

	f.personStore.On("GetPerson", mock.Anything, "person-1", "tenant-1").
		Return(&model.Person{ID: "person-1"}, nil)
	// The second person cannot be loaded; the job records it and moves on.
	f.personStore.On("GetPerson", mock.Anything, "person-2", "tenant-1").
		Return(nil, gw_errors.ErrPersonNotFound)
	f.gateway.On("Grant", mock.Anything, mock.Anything).Return(nil)

	f.syncStore.On("IncrementExecuted", mock.Anything, "sync-1", "tenant-1", 2).Return(nil)

	var recorded []model.SyncError
	f.syncStore.On("AppendSyncErrors", mock.Anything, "sync-1", "tenant-1", mock.Anything).
		Run(func(args mock.Arguments) {
			recorded = args.Get(3).([]model.SyncError)
		}).
		Return(nil)
	f.syncStore.On("FinishSynchronization", mock.Anything, "sync-1", "tenant-1", mock.Anything).Return(nil)
	f.syncStore.On("GetSynchronization", mock.Anything, "sync-1", "tenant-1").
		Return(&model.AccessSynchronization{ID: "sync-1", Finished: true}, nil)

	_, err := f.svc.StartSynchronization(context.Background(), []string{"pt-1"}, "eq-1", "tenant-1", "user-1")
	assert.NoError(t, err)

	f.svc.Wait()

	assert.Len(t, recorded, 1)
	assert.Equal(t, "eq-1", recorded[0].EquipmentID)
	assert.Contains(t, recorded[0].Message, "rel-2")
	f.syncStore.AssertNumberOfCalls(t, "FinishSynchronization", 1)
}

func TestStartSynchronization_GrantErrorRecorded(t *testing.T) {
	f := newSyncServiceFixture(10)

	target := &model.Equipment{ID: "eq-1", TenantID: "tenant-1", IP: "10.0.0.1"}
	f.equipmentStore.On("GetEquipment", mock.Anything, "eq-1", "tenant-1").Return(target, nil)
	f.releaseStore.On("CountActiveByPersonTypeIDs", mock.Anything, []string{"pt-1"}, "tenant-1").Return(1, nil)
	f.syncStore.On("CreateSynchronization", mock.Anything, mock.Anything).Return("sync-1", nil)
	f.releaseStore.On("FindAllActiveByPersonTypeIDs", mock.Anything, []string{"pt-1"}, "tenant-1", 1, 0).
		Return([]*model.AccessRelease{activeRelease("rel-1", "person-1")}, nil)
	f.personStore.On("GetPerson", mock.Anything, "person-1", "tenant-1").
		Return(&model.Person{ID: "person-1"}, nil)
	f.gateway.On("Grant", mock.Anything, mock.Anything).Return(errors.New("device offline"))
	f.syncStore.On("IncrementExecuted", mock.Anything, "sync-1", "tenant-1", 1).Return(nil)
	f.syncStore.On("AppendSyncErrors", mock.Anything, "sync-1", "tenant-1", mock.MatchedBy(func(errs []model.SyncError) bool {
		return len(errs) == 1 && errs[0].EquipmentIP == "10.0.0.1"
	})).Return(nil)
	f.syncStore.On("FinishSynchronization", mock.Anything, "sync-1", "tenant-1", mock.Anything).Return(nil)
	f.syncStore.On("GetSynchronization", mock.Anything, "sync-1", "tenant-1").
		Return(&model.AccessSynchronization{ID: "sync-1", Finished: true}, nil)

	_, err := f.svc.StartSynchronization(context.Background(), []string{"pt-1"}, "eq-1", "tenant-1", "user-1")
	assert.NoError(t, err)

	f.svc.Wait()

	f.syncStore.AssertExpectations(t)
}

func TestStartSynchronization_ValidationFailure(t *testing.T) {
	f := newSyncServiceFixture(10)

	_, err := f.svc.StartSynchronization(context.Background(), nil, "eq-1", "tenant-1", "user-1")

	assert.ErrorIs(t, err, gw_errors.ErrInvalidSynchronizationData)
	f.syncStore.AssertNotCalled(t, "CreateSynchronization", mock.Anything, mock.Anything)
}

func TestStartSynchronization_EquipmentNotFound(t *testing.T) {
	f := newSyncServiceFixture(10)

	f.equipmentStore.On("GetEquipment", mock.Anything, "eq-404", "tenant-1").
		Return(nil, gw_errors.ErrEquipmentNotFound)

	_, err := f.svc.StartSynchronization(context.Background(), []string{"pt-1"}, "eq-404", "tenant-1", "user-1")

	assert.ErrorIs(t, err, gw_errors.ErrEquipmentNotFound)
	f.syncStore.AssertNotCalled(t, "CreateSynchronization", mock.Anything, mock.Anything)
}

func TestStartSynchronization_NothingToProcess(t *testing.T) {
	f := newSyncServiceFixture(10)

	target := &model.Equipment{ID: "eq-1", TenantID: "tenant-1", IP: "10.0.0.1"}
	f.equipmentStore.On("GetEquipment", mock.Anything, "eq-1", "tenant-1").Return(target, nil)
	f.releaseStore.On("CountActiveByPersonTypeIDs", mock.Anything, []string{"pt-1"}, "tenant-1").Return(0, nil)
	f.syncStore.On("CreateSynchronization", mock.Anything, mock.Anything).Return("sync-1", nil)
	f.syncStore.On("FinishSynchronization", mock.Anything, "sync-1", "tenant-1", mock.Anything).Return(nil)
	f.syncStore.On("GetSynchronization", mock.Anything, "sync-1", "tenant-1").
		Return(&model.AccessSynchronization{ID: "sync-1", Finished: true}, nil)

	job, err := f.svc.StartSynchronization(context.Background(), []string{"pt-1"}, "eq-1", "tenant-1", "user-1")
	assert.NoError(t, err)
	assert.Equal(t, 0, job.TotalDocs)

	f.svc.Wait()

	// An empty job still finishes; it just never touches the gateway.
	f.gateway.AssertNotCalled(t, "Grant", mock.Anything, mock.Anything)
	f.syncStore.AssertNumberOfCalls(t, "FinishSynchronization", 1)
}
