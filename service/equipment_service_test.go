package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	gw_errors "github.com/gatewise/gatewise/errors"
	"github.com/gatewise/gatewise/model"
	"github.com/gatewise/gatewise/service"
	test_mock "github.com/gatewise/gatewise/test/mock"
	"github.com/gatewise/gatewise/util"
)

func newEquipmentServiceFixture() (*test_mock.MockEquipmentStore, service.IEquipmentService) {
	store := new(test_mock.MockEquipmentStore)
	svc := service.NewEquipmentService(
		store,
		util.NewValidationUtil(),
		test_mock.CacheStub{},
		util.NewNotificationService(),
		util.NewEventBus(),
	)
	return store, svc
}

func validEquipment() model.Equipment {
	return model.Equipment{
		TenantID: "tenant-1",
		Name:     "Main Entrance",
		IP:       "10.0.0.1",
	}
}

func TestCreateEquipment_Success(t *testing.T) {
	store, svc := newEquipmentServiceFixture()

	store.On("FindByIP", mock.Anything, "10.0.0.1", "tenant-1").Return(nil, nil)
	store.On("FindByName", mock.Anything, "Main Entrance", "tenant-1").Return(nil, nil)
	store.On("CreateEquipment", mock.Anything, mock.Anything).Return("eq-1", nil)

	created, err := svc.CreateEquipment(context.Background(), validEquipment())

	assert.NoError(t, err)
	assert.Equal(t, "eq-1", created.ID)
}

func TestCreateEquipment_DuplicateIP(t *testing.T) {
	store, svc := newEquipmentServiceFixture()

	store.On("FindByIP", mock.Anything, "10.0.0.1", "tenant-1").
		Return(&model.Equipment{ID: "eq-other", IP: "10.0.0.1"}, nil)

	_, err := svc.CreateEquipment(context.Background(), validEquipment())

	assert.ErrorIs(t, err, gw_errors.ErrEquipmentConflict)
	store.AssertNotCalled(t, "CreateEquipment", mock.Anything, mock.Anything)
}

func TestCreateEquipment_DuplicateName(t *testing.T) {
	store, svc := newEquipmentServiceFixture()

	store.On("FindByIP", mock.Anything, "10.0.0.1", "tenant-1").Return(nil, nil)
	store.On("FindByName", mock.Anything, "Main Entrance", "tenant-1").
		Return(&model.Equipment{ID: "eq-other", Name: "Main Entrance"}, nil)

	_, err := svc.CreateEquipment(context.Background(), validEquipment())

	assert.ErrorIs(t, err, gw_errors.ErrEquipmentConflict)
}

func TestCreateEquipment_InvalidIP(t *testing.T) {
	_, svc := newEquipmentServiceFixture()

	eq := validEquipment()
	eq.IP = "not-an-ip"

	_, err := svc.CreateEquipment(context.Background(), eq)

	assert.ErrorIs(t, err, gw_errors.ErrInvalidEquipmentData)
}

func TestUpdateEquipment_KeepsOwnIPAndName(t *testing.T) {
	store, svc := newEquipmentServiceFixture()

	eq := validEquipment()
	eq.ID = "eq-1"

	// Matching its own record is not a conflict.
	store.On("FindByIP", mock.Anything, "10.0.0.1", "tenant-1").
		Return(&model.Equipment{ID: "eq-1", IP: "10.0.0.1"}, nil)
	store.On("FindByName", mock.Anything, "Main Entrance", "tenant-1").
		Return(&model.Equipment{ID: "eq-1", Name: "Main Entrance"}, nil)
	store.On("UpdateEquipment", mock.Anything, mock.Anything).Return(&eq, nil)

	updated, err := svc.UpdateEquipment(context.Background(), eq)

	assert.NoError(t, err)
	assert.Equal(t, "eq-1", updated.ID)
}

func TestUpdateEquipment_NotFound(t *testing.T) {
	store, svc := newEquipmentServiceFixture()

	eq := validEquipment()
	eq.ID = "eq-404"

	store.On("FindByIP", mock.Anything, "10.0.0.1", "tenant-1").Return(nil, nil)
	store.On("FindByName", mock.Anything, "Main Entrance", "tenant-1").Return(nil, nil)
	store.On("UpdateEquipment", mock.Anything, mock.Anything).Return(nil, gw_errors.ErrEquipmentNotFound)

	_, err := svc.UpdateEquipment(context.Background(), eq)

	assert.ErrorIs(t, err, gw_errors.ErrEquipmentNotFound)
}

func TestDeleteEquipment(t *testing.T) {
	store, svc := newEquipmentServiceFixture()

	store.On("GetEquipment", mock.Anything, "eq-1", "tenant-1").
		Return(&model.Equipment{ID: "eq-1", TenantID: "tenant-1", IP: "10.0.0.1"}, nil)
	store.On("DeleteEquipment", mock.Anything, "eq-1", "tenant-1").Return(nil)

	err := svc.DeleteEquipment(context.Background(), "eq-1", "tenant-1")

	assert.NoError(t, err)
	store.AssertExpectations(t)
}

func TestDeleteEquipment_NotFound(t *testing.T) {
	store, svc := newEquipmentServiceFixture()

	store.On("GetEquipment", mock.Anything, "eq-404", "tenant-1").
		Return(nil, gw_errors.ErrEquipmentNotFound)

	err := svc.DeleteEquipment(context.Background(), "eq-404", "tenant-1")

	assert.ErrorIs(t, err, gw_errors.ErrEquipmentNotFound)
	store.AssertNotCalled(t, "DeleteEquipment", mock.Anything, mock.Anything, mock.Anything)
}
