package errors

import "errors"

var (
	ErrSynchronizationNotFound    = errors.New("access synchronization not found")
	ErrInvalidSynchronizationData = errors.New("invalid access synchronization data")
)
