package gate

import (
	"fmt"

	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/pkg/failure"
)

type GateErrorCause string

const (
	ErrCauseNoConnectivity   GateErrorCause = "no connectivity"
	ErrCauseDateNotReached   GateErrorCause = "date not reached"
	ErrCauseDeviceExcluded   GateErrorCause = "device excluded"
	ErrCauseServerCheck      GateErrorCause = "server check failed"
	ErrCauseCacheUnavailable GateErrorCause = "cache unavailable"
	ErrCauseInvalidRequest   GateErrorCause = "invalid request"
)

// GateError describes why an evaluation rejected the client. Cascade
// causes are fatal for their cache key; the rejection is persisted and the
// cascade never runs again for that key.
type GateError struct {
	Message string
	Cause   GateErrorCause
	Step    string
}

func (e *GateError) Error() string {
	return fmt.Sprintf("gate error: %s: %s", e.Cause, e.Message)
}

func (e *GateError) Severity() failure.Severity {
	if e.Cause == ErrCauseCacheUnavailable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// mapGateErrorToMetadataCause is observational only.
func mapGateErrorToMetadataCause(err *GateError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseNoConnectivity, ErrCauseServerCheck:
		return metadata.CauseNetworkFailure
	case ErrCauseDateNotReached, ErrCauseDeviceExcluded:
		return metadata.CausePolicyDisallow
	case ErrCauseCacheUnavailable:
		return metadata.CauseStorageFailure
	case ErrCauseInvalidRequest:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
