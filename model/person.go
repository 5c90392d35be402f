package model

import "time"

// Person is the subject of access releases. Read-only to this service;
// person CRUD lives elsewhere.
type Person struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenant_id"`
	Name         string    `json:"name"`
	Code         string    `json:"code,omitempty"`
	Picture      string    `json:"picture,omitempty"`
	PersonTypeID string    `json:"person_type_id"`
	CreatedAt    time.Time `json:"created_at"`
}
