package model

import "time"

// SyncError is one per-item failure recorded by a bulk synchronization run.
type SyncError struct {
	EquipmentID string `json:"equipment_id"`
	EquipmentIP string `json:"equipment_ip"`
	Message     string `json:"message"`
}

// AccessSynchronization is the audit record of one bulk synchronization job:
// a re-push of all valid access releases for a set of person types to one
// piece of equipment. Created at job start, mutated only by the job's own
// progress updates, never deleted.
type AccessSynchronization struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`

	PersonTypeIDs []string `json:"person_type_ids"`
	EquipmentID   string   `json:"equipment_id"`

	TotalDocs     int         `json:"total_docs"`
	ExecutedCount int         `json:"executed_count"`
	SyncErrors    []SyncError `json:"sync_errors"`

	Finished  bool       `json:"finished"`
	StartDate time.Time  `json:"start_date"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}
