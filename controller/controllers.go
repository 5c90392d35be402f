// controller/controllers.go
package controller

import "github.com/gatewise/gatewise/service"

type Controllers struct {
	AccessRelease   *AccessReleaseController
	Synchronization *AccessSynchronizationController
	Equipment       *EquipmentController
}

func InitializeControllers(services *service.Services) *Controllers {
	return &Controllers{
		AccessRelease:   NewAccessReleaseController(services.AccessRelease, services.Audit),
		Synchronization: NewAccessSynchronizationController(services.Synchronization),
		Equipment:       NewEquipmentController(services.Equipment),
	}
}
