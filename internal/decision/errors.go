package decision

import (
	"fmt"

	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/pkg/failure"
)

type DecisionErrorCause string

const (
	ErrCauseStore  DecisionErrorCause = "store failure"
	ErrCauseDecode DecisionErrorCause = "undecodable record"
	ErrCauseEncode DecisionErrorCause = "unencodable record"
)

type DecisionError struct {
	Message   string
	Retryable bool
	Cause     DecisionErrorCause
	Key       string
}

func (e *DecisionError) Error() string {
	return fmt.Sprintf("decision cache error: %s: %s", e.Cause, e.Message)
}

func (e *DecisionError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}

// MapDecisionErrorToMetadataCause is observational only and MUST NOT be
// used to derive gate decisions.
func MapDecisionErrorToMetadataCause(err *DecisionError) metadata.ErrorCause {
	if err == nil {
		return metadata.CauseUnknown
	}
	switch err.Cause {
	case ErrCauseDecode, ErrCauseEncode:
		return metadata.CauseContentInvalid
	case ErrCauseStore:
		return metadata.CauseStorageFailure
	default:
		return metadata.CauseUnknown
	}
}
