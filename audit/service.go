// audit/service.go
package audit

import (
	"context"
	"time"
)

type Service interface {
	Record(ctx context.Context, log AuditLog) error
	QueryLogs(ctx context.Context, from, to time.Time, tenantID, resourceID string) ([]AuditLog, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, log AuditLog) error {
	return s.repo.Record(ctx, log)
}

func (s *service) QueryLogs(ctx context.Context, from, to time.Time, tenantID, resourceID string) ([]AuditLog, error) {
	return s.repo.QueryLogs(ctx, from, to, tenantID, resourceID)
}
