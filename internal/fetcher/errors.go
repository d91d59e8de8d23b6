package fetcher

import (
	"fmt"

	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/pkg/failure"
)

type FetchErrorCause string

const (
	ErrCauseInvalidURL         FetchErrorCause = "invalid url"
	ErrCauseNetworkFailure     FetchErrorCause = "network issues"
	ErrCauseTimeout            FetchErrorCause = "timeout"
	ErrCauseUnacceptableStatus FetchErrorCause = "unacceptable status"
)

type FetchError struct {
	Message    string
	Retryable  bool
	Cause      FetchErrorCause
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetcher error: %s: %s", e.Cause, e.Message)
}

func (e *FetchError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// IsRetryable returns whether this error is retryable
func (e *FetchError) IsRetryable() bool {
	return e.Retryable
}

// mapFetchErrorToMetadataCause maps fetcher-local error semantics
// to the canonical metadata.ErrorCause table.
//
// This mapping is observational only and MUST NOT be used
// to derive control-flow decisions.
func mapFetchErrorToMetadataCause(err *FetchError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseTimeout, ErrCauseNetworkFailure:
		return metadata.CauseNetworkFailure
	case ErrCauseUnacceptableStatus:
		return metadata.CausePolicyDisallow
	case ErrCauseInvalidURL:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
