package model

import "time"

// Equipment is a network-addressable access controller enforcing grants.
type Equipment struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Name         string    `json:"name"`
	IP           string    `json:"ip"`
	SerialNumber string    `json:"serial_number,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EquipmentSearchCriteria filters equipment listings.
type EquipmentSearchCriteria struct {
	TenantID string `json:"tenant_id,omitempty"`
	Name     string `json:"name,omitempty"`
	IP       string `json:"ip,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}
