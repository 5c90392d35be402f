// util/validation_util.go

package util

import (
	"fmt"
	"net"
	"strings"

	"github.com/gatewise/gatewise/model"
)

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every invalid field of a request.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

type ValidationUtil struct{}

func NewValidationUtil() *ValidationUtil {
	return &ValidationUtil{}
}

func (v *ValidationUtil) ValidateAccessRelease(release model.AccessRelease) error {
	var fields []FieldError

	if release.PersonID == "" {
		fields = append(fields, FieldError{Field: "person_id", Message: "person id is required"})
	}
	if release.PersonTypeID == "" {
		fields = append(fields, FieldError{Field: "person_type_id", Message: "person type id is required"})
	}
	if release.Type != model.ReleaseTypeManual && release.Type != model.ReleaseTypeInvite {
		fields = append(fields, FieldError{Field: "type", Message: "type must be either 'manual' or 'invite'"})
	}
	if release.AccessPointID == "" {
		fields = append(fields, FieldError{Field: "access_point_id", Message: "access point id is required"})
	}
	if release.ExpiringTime != nil {
		if release.ExpiringTime.Value <= 0 {
			fields = append(fields, FieldError{Field: "expiring_time.value", Message: "expiring time value must be positive"})
		}
		switch release.ExpiringTime.Unit {
		case model.UnitMinute, model.UnitHour, model.UnitDay:
		default:
			fields = append(fields, FieldError{Field: "expiring_time.unit", Message: "expiring time unit must be minute, hour or day"})
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (v *ValidationUtil) ValidateEquipment(eq model.Equipment) error {
	var fields []FieldError

	if eq.Name == "" {
		fields = append(fields, FieldError{Field: "name", Message: "equipment name is required"})
	}
	if eq.IP == "" {
		fields = append(fields, FieldError{Field: "ip", Message: "equipment ip is required"})
	} else if net.ParseIP(eq.IP) == nil {
		fields = append(fields, FieldError{Field: "ip", Message: "equipment ip is not a valid address"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (v *ValidationUtil) ValidateSynchronizationRequest(personTypeIDs []string, equipmentID string) error {
	var fields []FieldError

	if len(personTypeIDs) == 0 {
		fields = append(fields, FieldError{Field: "person_type_ids", Message: "at least one person type id is required"})
	}
	for i, id := range personTypeIDs {
		if id == "" {
			fields = append(fields, FieldError{Field: fmt.Sprintf("person_type_ids[%d]", i), Message: "person type id cannot be empty"})
		}
	}
	if equipmentID == "" {
		fields = append(fields, FieldError{Field: "equipment_id", Message: "equipment id is required"})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
