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
)

func newResolverFixture() (*test_mock.MockAccessPointStore, *test_mock.MockEquipmentStore, *service.AccessPointResolver) {
	accessPointStore := new(test_mock.MockAccessPointStore)
	equipmentStore := new(test_mock.MockEquipmentStore)
	resolver := service.NewAccessPointResolver(accessPointStore, equipmentStore, test_mock.CacheStub{})
	return accessPointStore, equipmentStore, resolver
}

func TestResolveTargets_DirectPoint(t *testing.T) {
	_, equipmentStore, resolver := newResolverFixture()

	equipmentStore.On("GetEquipment", mock.Anything, "eq-1", "tenant-1").
		Return(&model.Equipment{ID: "eq-1", IP: "10.0.0.1"}, nil)
	equipmentStore.On("GetEquipment", mock.Anything, "eq-2", "tenant-1").
		Return(&model.Equipment{ID: "eq-2", IP: "10.0.0.2"}, nil)

	point := &model.AccessPoint{
		ID: "ap-1", PersonTypeIDs: []string{"pt-1"},
		EquipmentIDs: []string{"eq-1", "eq-2"},
	}

	targets, err := resolver.ResolveTargets(context.Background(), "tenant-1", point, nil, "pt-1")

	assert.NoError(t, err)
	assert.Len(t, targets, 2)
}

func TestResolveTargets_DeduplicatesAcrossPoints(t *testing.T) {
	accessPointStore, equipmentStore, resolver := newResolverFixture()

	equipmentStore.On("GetEquipment", mock.Anything, "eq-1", "tenant-1").
		Return(&model.Equipment{ID: "eq-1", IP: "10.0.0.1"}, nil)

	accessPointStore.On("FindAllByAreaID", mock.Anything, "area-1", "tenant-1").
		Return([]model.AccessPoint{
			{ID: "ap-2", PersonTypeIDs: []string{"pt-1"}, EquipmentIDs: []string{"eq-1"}},
		}, nil)

	point := &model.AccessPoint{
		ID: "ap-1", PersonTypeIDs: []string{"pt-1"},
		EquipmentIDs: []string{"eq-1"},
	}

	targets, err := resolver.ResolveTargets(context.Background(), "tenant-1", point, []string{"area-1"}, "pt-1")

	assert.NoError(t, err)
	assert.Len(t, targets, 1)
	equipmentStore.AssertNumberOfCalls(t, "GetEquipment", 1)
}

func TestResolveTargets_SkipsGeneralExitAndForeignTypes(t *testing.T) {
	accessPointStore, _, resolver := newResolverFixture()

	accessPointStore.On("FindAllByAreaID", mock.Anything, "area-1", "tenant-1").
		Return([]model.AccessPoint{
			{ID: "ap-2", GeneralExit: true, PersonTypeIDs: []string{"pt-1"}, EquipmentIDs: []string{"eq-1"}},
			{ID: "ap-3", PersonTypeIDs: []string{"pt-9"}, EquipmentIDs: []string{"eq-2"}},
			{ID: "ap-4", PersonTypeIDs: []string{"pt-1"}},
		}, nil)

	targets, err := resolver.ResolveTargets(context.Background(), "tenant-1", nil, []string{"area-1"}, "pt-1")

	assert.NoError(t, err)
	assert.Empty(t, targets)
}

func TestResolveTargets_SkipsUnresolvableEquipment(t *testing.T) {
	_, equipmentStore, resolver := newResolverFixture()

	equipmentStore.On("GetEquipment", mock.Anything, "eq-1", "tenant-1").
		Return(nil, gw_errors.ErrEquipmentNotFound)
	equipmentStore.On("GetEquipment", mock.Anything, "eq-2", "tenant-1").
		Return(&model.Equipment{ID: "eq-2", IP: "10.0.0.2"}, nil)

	point := &model.AccessPoint{
		ID: "ap-1", PersonTypeIDs: []string{"pt-1"},
		EquipmentIDs: []string{"eq-1", "eq-2"},
	}

	targets, err := resolver.ResolveTargets(context.Background(), "tenant-1", point, nil, "pt-1")

	assert.NoError(t, err)
	assert.Len(t, targets, 1)
	assert.Equal(t, "eq-2", targets[0].ID)
}

func TestResolveTargets_AreaFetchFailure(t *testing.T) {
	accessPointStore, _, resolver := newResolverFixture()

	accessPointStore.On("FindAllByAreaID", mock.Anything, "area-1", "tenant-1").
		Return(nil, gw_errors.ErrDatabaseOperation)

	_, err := resolver.ResolveTargets(context.Background(), "tenant-1", nil, []string{"area-1"}, "pt-1")

	assert.ErrorIs(t, err, gw_errors.ErrDatabaseOperation)
}
