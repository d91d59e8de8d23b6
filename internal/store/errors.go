package store

import (
	"fmt"

	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/pkg/failure"
)

type StoreErrorCause string

const (
	ErrCauseOpen           StoreErrorCause = "open failed"
	ErrCauseRead           StoreErrorCause = "read failed"
	ErrCauseWrite          StoreErrorCause = "write failed"
	ErrCauseClosed         StoreErrorCause = "store closed"
	ErrCauseUnknownBackend StoreErrorCause = "unknown backend"
)

type StoreError struct {
	Message   string
	Retryable bool
	Cause     StoreErrorCause
	Key       string
}

func (e *StoreError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("store error: %s", e.Cause)
	}
	return fmt.Sprintf("store error: %s: %s", e.Cause, e.Message)
}

func (e *StoreError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// MapStoreErrorToMetadataCause is observational only.
func MapStoreErrorToMetadataCause(err *StoreError) metadata.ErrorCause {
	if err == nil {
		return metadata.CauseUnknown
	}
	switch err.Cause {
	case ErrCauseUnknownBackend:
		return metadata.CauseInvariantViolation
	default:
		return metadata.CauseStorageFailure
	}
}
