// service/services.go
package service

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/gatewise/gatewise/audit"
	"github.com/gatewise/gatewise/dao"
	"github.com/gatewise/gatewise/equipment"
	"github.com/gatewise/gatewise/model"
	"github.com/gatewise/gatewise/util"
)

type Services struct {
	AccessRelease   IAccessReleaseService
	Synchronization IAccessSynchronizationService
	Equipment       IEquipmentService
	Sweeper         *ExpirationSweeper
	Audit           audit.Service
}

func InitializeServices(
	driver neo4j.Driver,
	auditService audit.Service,
	gateway equipment.Gateway,
	validationUtil *util.ValidationUtil,
	cacheService *util.CacheService,
	notificationSvc *util.NotificationService,
	eventBus *util.EventBus,
	cfg Config,
) (*Services, error) {
	accessReleaseDAO := dao.NewAccessReleaseDAO(driver, auditService)
	synchronizationDAO := dao.NewAccessSynchronizationDAO(driver, auditService)
	equipmentDAO := dao.NewEquipmentDAO(driver, auditService)
	personDAO := dao.NewPersonDAO(driver)
	accessPointDAO := dao.NewAccessPointDAO(driver)

	resolver := NewAccessPointResolver(accessPointDAO, equipmentDAO, cacheService)

	services := &Services{
		AccessRelease: NewAccessReleaseService(
			accessReleaseDAO, personDAO, accessPointDAO, resolver, gateway,
			validationUtil, cacheService, eventBus, cfg),
		Synchronization: NewAccessSynchronizationService(
			synchronizationDAO, accessReleaseDAO, equipmentDAO, personDAO, gateway,
			validationUtil, cacheService, notificationSvc, cfg),
		Equipment: NewEquipmentService(
			equipmentDAO, validationUtil, cacheService, notificationSvc, eventBus),
		Sweeper: NewExpirationSweeper(accessReleaseDAO, gateway, eventBus, cfg.SweepInterval),
		Audit:   auditService,
	}

	subscribeNotifications(eventBus, notificationSvc)

	return services, nil
}

// subscribeNotifications forwards lifecycle events to the notification
// service so publishers stay decoupled from delivery.
func subscribeNotifications(eventBus *util.EventBus, notificationSvc *util.NotificationService) {
	forward := func(changeType string) util.EventHandler {
		return func(ctx context.Context, event util.Event) error {
			release, ok := event.Payload.(model.AccessRelease)
			if !ok {
				return nil
			}
			return notificationSvc.NotifyAccessReleaseChange(ctx, changeType, release)
		}
	}

	eventBus.Subscribe("accessrelease.created", forward("created"))
	eventBus.Subscribe("accessrelease.disabled", forward("disabled"))
	eventBus.Subscribe("accessrelease.expired", forward("expired"))
}
