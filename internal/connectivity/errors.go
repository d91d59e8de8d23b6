package connectivity

import (
	"fmt"

	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/pkg/failure"
)

type ProbeErrorCause string

const (
	ErrCauseUnreachable    ProbeErrorCause = "unreachable"
	ErrCauseTimeout        ProbeErrorCause = "timeout"
	ErrCauseInvalidAddress ProbeErrorCause = "invalid address"
)

type ProbeError struct {
	Message   string
	Retryable bool
	Cause     ProbeErrorCause
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("connectivity error: %s", e.Cause)
}

func (e *ProbeError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

func mapProbeErrorToMetadataCause(err *ProbeError) metadata.ErrorCause {
	switch err.Cause {
	case ErrCauseUnreachable, ErrCauseTimeout:
		return metadata.CauseNetworkFailure
	case ErrCauseInvalidAddress:
		return metadata.CauseContentInvalid
	default:
		return metadata.CauseUnknown
	}
}
