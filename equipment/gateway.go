// Package equipment abstracts the remote call to a door controller. Each
// Grant/Revoke is a single independent network call; there is no batching and
// no retry at this layer. Callers decide what to do with a failed call.
package equipment

import (
	"context"
	"fmt"
	"time"
)

// Schedule restricts a grant to recurring time windows on the device.
type Schedule struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// GrantRequest asks one equipment unit to accept a person during a validity
// window.
type GrantRequest struct {
	EquipmentID      string     `json:"-"`
	EquipmentIP      string     `json:"-"`
	PersonID         string     `json:"person_id"`
	PersonCode       string     `json:"person_code"`
	PersonName       string     `json:"person_name"`
	PersonPictureURL string     `json:"person_picture_url,omitempty"`
	InitDate         time.Time  `json:"init_date"`
	EndDate          time.Time  `json:"end_date"`
	Schedules        []Schedule `json:"schedules,omitempty"`
	SingleAccess     bool       `json:"single_access,omitempty"`
}

// RevokeRequest removes a person's access from one equipment unit.
type RevokeRequest struct {
	EquipmentID string `json:"-"`
	EquipmentIP string `json:"-"`
	PersonID    string `json:"person_id"`
}

// Gateway is the call contract towards a single equipment unit.
type Gateway interface {
	Grant(ctx context.Context, req GrantRequest) error
	Revoke(ctx context.Context, req RevokeRequest) error
}

// CallError wraps a failed call with the identity of the equipment that
// failed, so the outcome can be recorded per device.
type CallError struct {
	EquipmentID string
	EquipmentIP string
	Err         error
}

func (e *CallError) Error() string {
	return fmt.Sprintf("equipment %s (%s): %v", e.EquipmentID, e.EquipmentIP, e.Err)
}

func (e *CallError) Unwrap() error {
	return e.Err
}
