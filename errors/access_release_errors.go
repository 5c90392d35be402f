package errors

import "errors"

var (
	ErrAccessReleaseNotFound    = errors.New("access release not found")
	ErrInvalidAccessReleaseData = errors.New("invalid access release data")

	// ErrNoDocumentsModified signals a conditional update that matched no
	// record in the expected state, i.e. a lost or concurrently applied write.
	ErrNoDocumentsModified = errors.New("no documents modified")

	ErrDatabaseOperation = errors.New("database operation failed")
	ErrInternalServer    = errors.New("internal server error")
	ErrUnauthorized      = errors.New("unauthorized")
)
