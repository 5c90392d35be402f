package model

import "time"

// AccessReleaseStatus is the lifecycle state of an access release.
type AccessReleaseStatus string

const (
	StatusScheduled AccessReleaseStatus = "scheduled"
	StatusActive    AccessReleaseStatus = "active"
	StatusExpired   AccessReleaseStatus = "expired"
	StatusDisabled  AccessReleaseStatus = "disabled"
	// StatusConflict is reserved for overlapping-grant detection. No
	// transition produces it yet.
	StatusConflict AccessReleaseStatus = "conflict"
)

// IsTerminal reports whether the status admits no further transitions.
func (s AccessReleaseStatus) IsTerminal() bool {
	return s == StatusExpired || s == StatusDisabled
}

type AccessReleaseType string

const (
	ReleaseTypeManual AccessReleaseType = "manual"
	ReleaseTypeInvite AccessReleaseType = "invite"
)

// ExpiringUnit is the time unit of an expiring-time window.
type ExpiringUnit string

const (
	UnitMinute ExpiringUnit = "minute"
	UnitHour   ExpiringUnit = "hour"
	UnitDay    ExpiringUnit = "day"
)

// ExpiringTime is a relative validity window: value + unit.
type ExpiringTime struct {
	Value int          `json:"value"`
	Unit  ExpiringUnit `json:"unit"`
}

// Duration converts the window into a time.Duration. Unknown units count as days.
func (e ExpiringTime) Duration() time.Duration {
	switch e.Unit {
	case UnitMinute:
		return time.Duration(e.Value) * time.Minute
	case UnitHour:
		return time.Duration(e.Value) * time.Hour
	default:
		return time.Duration(e.Value) * 24 * time.Hour
	}
}

type ActionType string

const (
	ActionCreate ActionType = "create"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// Action is one entry of an entity's append-only audit trail.
type Action struct {
	Action ActionType `json:"action"`
	Date   time.Time  `json:"date"`
	UserID string     `json:"user_id,omitempty"`
}

// WorkSchedule restricts access to a recurring weekly window. Schedules are
// forwarded to the equipment as-is; enforcement happens on the device.
type WorkSchedule struct {
	DayOfWeek int    `json:"day_of_week"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SyncOperation is the direction of an equipment call.
type SyncOperation string

const (
	OperationGrant  SyncOperation = "grant"
	OperationRevoke SyncOperation = "revoke"
)

// SyncRecord is one per-equipment outcome of a synchronization pass.
// Records are append-only: one set per processing pass, never mutated.
type SyncRecord struct {
	EquipmentID string        `json:"equipment_id"`
	EquipmentIP string        `json:"equipment_ip"`
	Operation   SyncOperation `json:"operation"`
	Failed      bool          `json:"failed,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// AccessRelease is a time-bounded grant of physical access for one person.
type AccessRelease struct {
	ID       string `json:"id"`
	TenantID string `json:"tenant_id"`

	PersonID             string            `json:"person_id"`
	PersonTypeID         string            `json:"person_type_id"`
	PersonTypeCategoryID string            `json:"person_type_category_id,omitempty"`
	ResponsibleID        string            `json:"responsible_id,omitempty"`
	Type                 AccessReleaseType `json:"type"`
	Observation          string            `json:"observation,omitempty"`
	Picture              string            `json:"picture,omitempty"`

	AccessPointID string   `json:"access_point_id"`
	AreaIDs       []string `json:"area_ids"`

	ExpiringTime  *ExpiringTime  `json:"expiring_time,omitempty"`
	WorkSchedules []WorkSchedule `json:"work_schedules,omitempty"`
	SingleAccess  bool           `json:"single_access,omitempty"`
	InitDate      time.Time      `json:"init_date"`
	EndDate       time.Time      `json:"end_date"`

	Status           AccessReleaseStatus `json:"status"`
	Synchronizations []SyncRecord        `json:"synchronizations"`
	Actions          []Action            `json:"actions"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AccessReleaseSearchCriteria filters access release listings.
type AccessReleaseSearchCriteria struct {
	TenantID     string              `json:"tenant_id,omitempty"`
	PersonID     string              `json:"person_id,omitempty"`
	PersonTypeID string              `json:"person_type_id,omitempty"`
	Status       AccessReleaseStatus `json:"status,omitempty"`
	Limit        int                 `json:"limit,omitempty"`
	Offset       int                 `json:"offset,omitempty"`
}

// ResolveEndDate derives the validity end of a release: a relative
// expiringTime wins over an explicit endDate; with neither, the configured
// default end of validity applies.
func ResolveEndDate(initDate time.Time, expiring *ExpiringTime, endDate *time.Time, defaultEnd time.Time) time.Time {
	if expiring != nil {
		return initDate.Add(expiring.Duration())
	}
	if endDate != nil && !endDate.IsZero() {
		return *endDate
	}
	return defaultEnd
}

// DefaultEndOfValidity is the fallback end date for releases created without
// an expiring time: the end of the day `days` from now.
func DefaultEndOfValidity(now time.Time, days int) time.Time {
	d := now.AddDate(0, 0, days)
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, 0, d.Location())
}

// InitialStatus is the state a release enters on creation: active when the
// init date falls on the current day, scheduled otherwise.
func InitialStatus(initDate, now time.Time) AccessReleaseStatus {
	if SameDay(initDate, now) {
		return StatusActive
	}
	return StatusScheduled
}

// SameDay reports whether two instants fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
