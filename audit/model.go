// audit/model.go
package audit

import (
	"encoding/json"
	"time"
)

// Audit actions recorded by the DAOs.
const (
	ActionCreateAccessRelease  = "CREATE_ACCESS_RELEASE"
	ActionDisableAccessRelease = "DISABLE_ACCESS_RELEASE"
	ActionExpireAccessRelease  = "EXPIRE_ACCESS_RELEASE"
	ActionStartSynchronization = "START_ACCESS_SYNCHRONIZATION"
	ActionCreateEquipment      = "CREATE_EQUIPMENT"
	ActionUpdateEquipment      = "UPDATE_EQUIPMENT"
	ActionDeleteEquipment      = "DELETE_EQUIPMENT"
)

type AuditLog struct {
	Timestamp     time.Time       `json:"timestamp"`
	TenantID      string          `json:"tenant_id"`
	UserID        string          `json:"user_id"`
	Action        string          `json:"action"`
	ResourceID    string          `json:"resource_id"`
	ChangeDetails json.RawMessage `json:"change_details,omitempty"`
}
