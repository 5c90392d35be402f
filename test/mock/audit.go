// test/mock/audit.go
package mock

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/gatewise/gatewise/audit"
)

// MockAuditService is a mock implementation of audit.Service
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, log audit.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditService) QueryLogs(ctx context.Context, from, to time.Time, tenantID, resourceID string) ([]audit.AuditLog, error) {
	args := m.Called(ctx, from, to, tenantID, resourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.AuditLog), args.Error(1)
}
