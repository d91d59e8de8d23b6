package metadata

import (
	"io"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

/*
Metadata collected
- Probe outcomes and durations
- Fetch status codes, redirect counts and durations
- Gate decisions and their reasons
- Classified errors

Metadata is write-only.
No component may read metadata to influence a gate decision.
*/

type MetadataSink interface {
	RecordError(
		observedAt time.Time,
		packageName string,
		action string,
		cause ErrorCause,
		details string,
		attrs []Attribute,
	)

	RecordFetch(
		fetchUrl string,
		httpStatus int,
		duration time.Duration,
		redirectCount int,
	)

	RecordProbe(
		address string,
		reachable bool,
		duration time.Duration,
	)

	RecordDecision(
		cacheKey string,
		approved bool,
		finalUrl string,
		reason string,
	)
}

/*
Recorder writes every event as one logfmt record.

Ordering guarantees:
  - Records are written in the order the calls are made.
  - Concurrent callers are serialized; a record is never interleaved.
*/
type Recorder struct {
	mu  sync.Mutex
	enc *logfmt.Encoder
	now func() time.Time
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		enc: logfmt.NewEncoder(w),
		now: time.Now,
	}
}

func (r *Recorder) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
	keyvals := []interface{}{
		"ts", observedAt.UTC().Format(time.RFC3339Nano),
		"event", "error",
		"pkg", packageName,
		"action", action,
		"cause", cause.String(),
		"details", details,
	}
	for _, a := range attrs {
		keyvals = append(keyvals, string(a.Key), a.Value)
	}
	r.write(keyvals)
}

func (r *Recorder) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	redirectCount int,
) {
	r.write([]interface{}{
		"ts", r.timestamp(),
		"event", "fetch",
		"url", fetchUrl,
		"status", httpStatus,
		"duration_ms", duration.Milliseconds(),
		"redirects", redirectCount,
	})
}

func (r *Recorder) RecordProbe(
	address string,
	reachable bool,
	duration time.Duration,
) {
	r.write([]interface{}{
		"ts", r.timestamp(),
		"event", "probe",
		"address", address,
		"reachable", reachable,
		"duration_ms", duration.Milliseconds(),
	})
}

func (r *Recorder) RecordDecision(
	cacheKey string,
	approved bool,
	finalUrl string,
	reason string,
) {
	r.write([]interface{}{
		"ts", r.timestamp(),
		"event", "decision",
		"cache_key", cacheKey,
		"approved", approved,
		"final_url", finalUrl,
		"reason", reason,
	})
}

func (r *Recorder) timestamp() string {
	return r.now().UTC().Format(time.RFC3339Nano)
}

// write drops encoding errors; observability must never fail a check.
func (r *Recorder) write(keyvals []interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.enc.EncodeKeyvals(keyvals...); err != nil {
		r.enc.Reset()
		return
	}
	_ = r.enc.EndRecord()
}

// NoopSink implements MetadataSink but does nothing.
// Callers (or tests) decide whether to inject a Recorder or a NoopSink.
type NoopSink struct{}

func (n *NoopSink) RecordError(
	observedAt time.Time,
	packageName string,
	action string,
	cause ErrorCause,
	details string,
	attrs []Attribute,
) {
}

func (n *NoopSink) RecordFetch(
	fetchUrl string,
	httpStatus int,
	duration time.Duration,
	redirectCount int,
) {
}

func (n *NoopSink) RecordProbe(
	address string,
	reachable bool,
	duration time.Duration,
) {
}

func (n *NoopSink) RecordDecision(
	cacheKey string,
	approved bool,
	finalUrl string,
	reason string,
) {
}
