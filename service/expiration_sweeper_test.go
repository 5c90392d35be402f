package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	gw_errors "github.com/gatewise/gatewise/errors"
	"github.com/gatewise/gatewise/model"
	"github.com/gatewise/gatewise/service"
	test_mock "github.com/gatewise/gatewise/test/mock"
	"github.com/gatewise/gatewise/util"
)

func newSweeperFixture() (*test_mock.MockAccessReleaseStore, *test_mock.MockGateway, *service.ExpirationSweeper) {
	releaseStore := new(test_mock.MockAccessReleaseStore)
	gateway := new(test_mock.MockGateway)
	sweeper := service.NewExpirationSweeper(releaseStore, gateway, util.NewEventBus(), time.Hour)
	return releaseStore, gateway, sweeper
}

func TestSweep_ExpiresAndRevokes(t *testing.T) {
	releaseStore, gateway, sweeper := newSweeperFixture()

	release := &model.AccessRelease{
		ID: "rel-1", TenantID: "tenant-1", PersonID: "person-1",
		Status: model.StatusActive,
		Synchronizations: []model.SyncRecord{
			{EquipmentID: "eq-1", EquipmentIP: "10.0.0.1", Operation: model.OperationGrant},
			{EquipmentID: "eq-2", EquipmentIP: "10.0.0.2", Operation: model.OperationGrant, Failed: true, Message: "timeout"},
			{EquipmentID: "eq-1", EquipmentIP: "10.0.0.1", Operation: model.OperationGrant},
		},
		Actions: []model.Action{{Action: model.ActionCreate, UserID: "user-1"}},
	}
	releaseStore.On("FindAllExpiringBy", mock.Anything, mock.Anything).
		Return([]*model.AccessRelease{release}, nil)
	releaseStore.On("TransitionStatus", mock.Anything, "rel-1", "tenant-1", model.StatusExpired,
		mock.MatchedBy(func(actions []model.Action) bool {
			return len(actions) == 2 && actions[1].Action == model.ActionUpdate
		})).Return(nil)
	gateway.On("Revoke", mock.Anything, mock.Anything).Return(nil)
	releaseStore.On("AppendSynchronizations", mock.Anything, "rel-1", "tenant-1",
		mock.MatchedBy(func(records []model.SyncRecord) bool {
			return len(records) == 1 && records[0].Operation == model.OperationRevoke
		})).Return(nil)

	sweeper.Sweep(context.Background())

	// Only the distinct equipment with a successful grant is revoked.
	gateway.AssertNumberOfCalls(t, "Revoke", 1)
	releaseStore.AssertExpectations(t)
}

func TestSweep_RevokesBeforeTransitioning(t *testing.T) {
	releaseStore, gateway, sweeper := newSweeperFixture()

	release := &model.AccessRelease{
		ID: "rel-1", TenantID: "tenant-1", PersonID: "person-1",
		Status: model.StatusActive,
		Synchronizations: []model.SyncRecord{
			{EquipmentID: "eq-1", EquipmentIP: "10.0.0.1", Operation: model.OperationGrant},
		},
	}
	releaseStore.On("FindAllExpiringBy", mock.Anything, mock.Anything).
		Return([]*model.AccessRelease{release}, nil)

	// An expired release no longer matches the sweep query, so a revoke
	// deferred until after the transition would be lost if the process died
	// in between. The revoke has to land first.
	var mu sync.Mutex
	var order []string
	gateway.On("Revoke", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			mu.Lock()
			order = append(order, "revoke")
			mu.Unlock()
		}).
		Return(nil)
	releaseStore.On("TransitionStatus", mock.Anything, "rel-1", "tenant-1", model.StatusExpired, mock.Anything).
		Run(func(mock.Arguments) {
			mu.Lock()
			order = append(order, "transition")
			mu.Unlock()
		}).
		Return(nil)
	releaseStore.On("AppendSynchronizations", mock.Anything, "rel-1", "tenant-1", mock.Anything).Return(nil)

	sweeper.Sweep(context.Background())

	assert.Equal(t, []string{"revoke", "transition"}, order)
}

func TestSweep_SkipsConcurrentlyExpired(t *testing.T) {
	releaseStore, gateway, sweeper := newSweeperFixture()

	release := &model.AccessRelease{
		ID: "rel-1", TenantID: "tenant-1", PersonID: "person-1",
		Status: model.StatusActive,
		Synchronizations: []model.SyncRecord{
			{EquipmentID: "eq-1", EquipmentIP: "10.0.0.1", Operation: model.OperationGrant},
		},
	}
	releaseStore.On("FindAllExpiringBy", mock.Anything, mock.Anything).
		Return([]*model.AccessRelease{release}, nil)
	gateway.On("Revoke", mock.Anything, mock.Anything).Return(nil)
	releaseStore.On("TransitionStatus", mock.Anything, "rel-1", "tenant-1", model.StatusExpired, mock.Anything).
		Return(gw_errors.ErrNoDocumentsModified)

	sweeper.Sweep(context.Background())

	// The revoke repeats (the equipment treats it as a no-op) but the pass
	// that won the transition owns the records.
	gateway.AssertNumberOfCalls(t, "Revoke", 1)
	releaseStore.AssertNotCalled(t, "AppendSynchronizations", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSweep_IgnoresRevocationHistory(t *testing.T) {
	releaseStore, gateway, sweeper := newSweeperFixture()

	// eq-1 was granted and later revoked by a disable; only eq-2 still
	// counts as granted equipment.
	release := &model.AccessRelease{
		ID: "rel-1", TenantID: "tenant-1", PersonID: "person-1",
		Status: model.StatusActive,
		Synchronizations: []model.SyncRecord{
			{EquipmentID: "eq-1", EquipmentIP: "10.0.0.1", Operation: model.OperationGrant},
			{EquipmentID: "eq-1", EquipmentIP: "10.0.0.1", Operation: model.OperationRevoke},
			{EquipmentID: "eq-2", EquipmentIP: "10.0.0.2", Operation: model.OperationGrant},
		},
	}
	releaseStore.On("FindAllExpiringBy", mock.Anything, mock.Anything).
		Return([]*model.AccessRelease{release}, nil)
	releaseStore.On("TransitionStatus", mock.Anything, "rel-1", "tenant-1", model.StatusExpired, mock.Anything).
		Return(nil)
	gateway.On("Revoke", mock.Anything, mock.Anything).Return(nil)
	releaseStore.On("AppendSynchronizations", mock.Anything, "rel-1", "tenant-1", mock.Anything).Return(nil)

	sweeper.Sweep(context.Background())

	gateway.AssertNumberOfCalls(t, "Revoke", 2)
}

func TestSweep_SecondRunIsNoOp(t *testing.T) {
	releaseStore, gateway, sweeper := newSweeperFixture()

	release := &model.AccessRelease{
		ID: "rel-1", TenantID: "tenant-1", PersonID: "person-1",
		Status: model.StatusActive,
		Synchronizations: []model.SyncRecord{
			{EquipmentID: "eq-1", EquipmentIP: "10.0.0.1", Operation: model.OperationGrant},
		},
	}
	releaseStore.On("FindAllExpiringBy", mock.Anything, mock.Anything).
		Return([]*model.AccessRelease{release}, nil).Once()
	releaseStore.On("TransitionStatus", mock.Anything, "rel-1", "tenant-1", model.StatusExpired, mock.Anything).
		Return(nil).Once()
	gateway.On("Revoke", mock.Anything, mock.Anything).Return(nil)
	releaseStore.On("AppendSynchronizations", mock.Anything, "rel-1", "tenant-1", mock.Anything).Return(nil)

	sweeper.Sweep(context.Background())

	// The expired release no longer matches the query on the next pass.
	releaseStore.On("FindAllExpiringBy", mock.Anything, mock.Anything).
		Return([]*model.AccessRelease{}, nil)

	sweeper.Sweep(context.Background())

	gateway.AssertNumberOfCalls(t, "Revoke", 1)
}

func TestSweep_OneFailureDoesNotBlockOthers(t *testing.T) {
	releaseStore, gateway, sweeper := newSweeperFixture()

	first := &model.AccessRelease{ID: "rel-1", TenantID: "tenant-1", PersonID: "person-1", Status: model.StatusActive}
	second := &model.AccessRelease{
		ID: "rel-2", TenantID: "tenant-1", PersonID: "person-2",
		Status: model.StatusActive,
		Synchronizations: []model.SyncRecord{
			{EquipmentID: "eq-1", EquipmentIP: "10.0.0.1", Operation: model.OperationGrant},
		},
	}
	releaseStore.On("FindAllExpiringBy", mock.Anything, mock.Anything).
		Return([]*model.AccessRelease{first, second}, nil)
	releaseStore.On("TransitionStatus", mock.Anything, "rel-1", "tenant-1", model.StatusExpired, mock.Anything).
		Return(gw_errors.ErrDatabaseOperation)
	releaseStore.On("TransitionStatus", mock.Anything, "rel-2", "tenant-1", model.StatusExpired, mock.Anything).
		Return(nil)
	gateway.On("Revoke", mock.Anything, mock.Anything).Return(nil)
	releaseStore.On("AppendSynchronizations", mock.Anything, "rel-2", "tenant-1", mock.Anything).Return(nil)

	sweeper.Sweep(context.Background())

	gateway.AssertNumberOfCalls(t, "Revoke", 1)
	releaseStore.AssertCalled(t, "TransitionStatus", mock.Anything, "rel-2", "tenant-1", model.StatusExpired, mock.Anything)
}

func TestSweeper_StartStop(t *testing.T) {
	releaseStore, _, sweeper := newSweeperFixture()

	swept := make(chan struct{}, 1)
	releaseStore.On("FindAllExpiringBy", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			select {
			case swept <- struct{}{}:
			default:
			}
		}).
		Return([]*model.AccessRelease{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweeper.Start(ctx)
	select {
	case <-swept:
	case <-time.After(time.Second):
		t.Fatal("sweep did not run on start")
	}
	sweeper.Stop()
}
