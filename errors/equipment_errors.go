package errors

import "errors"

var (
	ErrEquipmentNotFound    = errors.New("equipment not found")
	ErrEquipmentConflict    = errors.New("equipment conflict")
	ErrInvalidEquipmentData = errors.New("invalid equipment data")

	ErrAccessPointNotFound = errors.New("access point not found")
	ErrPersonNotFound      = errors.New("person not found")
)
