// util/notification_service.go

package util

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	logger "github.com/gatewise/gatewise/logging"
	"github.com/gatewise/gatewise/model"
)

type NotificationService struct {
	// A message-queue client could live here; notifications are log-based for now
}

func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

func (n *NotificationService) NotifyAccessReleaseChange(ctx context.Context, changeType string, release model.AccessRelease) error {
	switch changeType {
	case "created":
		logger.Info("NOTIFICATION: Access release created",
			zap.String("accessReleaseID", release.ID),
			zap.String("personID", release.PersonID),
			zap.String("status", string(release.Status)))
	case "disabled":
		logger.Info("NOTIFICATION: Access release disabled",
			zap.String("accessReleaseID", release.ID),
			zap.String("personID", release.PersonID))
	case "expired":
		logger.Info("NOTIFICATION: Access release expired",
			zap.String("accessReleaseID", release.ID),
			zap.String("personID", release.PersonID))
	default:
		return fmt.Errorf("unknown change type: %s", changeType)
	}

	return nil
}

func (n *NotificationService) NotifyEquipmentChange(ctx context.Context, changeType string, eq model.Equipment) error {
	logger.Info("Notifying equipment change",
		zap.String("changeType", changeType),
		zap.String("equipmentID", eq.ID),
		zap.String("equipmentIP", eq.IP))
	return nil
}

func (n *NotificationService) NotifySynchronizationFinished(ctx context.Context, sync model.AccessSynchronization) error {
	logger.Info("NOTIFICATION: Access synchronization finished",
		zap.String("synchronizationID", sync.ID),
		zap.Int("totalDocs", sync.TotalDocs),
		zap.Int("executedCount", sync.ExecutedCount),
		zap.Int("errorCount", len(sync.SyncErrors)))
	return nil
}
