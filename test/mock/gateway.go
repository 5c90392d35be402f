// test/mock/gateway.go
package mock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gatewise/gatewise/equipment"
)

// MockGateway is a mock implementation of equipment.Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Grant(ctx context.Context, req equipment.GrantRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockGateway) Revoke(ctx context.Context, req equipment.RevokeRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
