package gate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rohmanhakim/content-gate/internal/connectivity"
	"github.com/rohmanhakim/content-gate/internal/decision"
	"github.com/rohmanhakim/content-gate/internal/device"
	"github.com/rohmanhakim/content-gate/internal/fetcher"
	"github.com/rohmanhakim/content-gate/internal/identity"
	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/pkg/failure"
	"github.com/rohmanhakim/content-gate/pkg/timeutil"
	"github.com/rohmanhakim/content-gate/pkg/urlutil"
)

/*
Gate

Decides once per cache key whether external content is shown, and keeps
that decision durable.

Evaluation order, each step short-circuiting:
 1. Cached external approval: validate the saved URL, recover through the
    saved path identifier if validation fails. Never rejects.
 2. Cached app decision: reject without running anything.
 3. Cascade on a cold key, every failure persisted as an app decision:
    connectivity, eligibility date, device class, server probe.
 4. Cascade success: persist the approval and the resolved URL.

Steps run strictly one after another on the caller's goroutine; each
network step has its own bound. Check never returns an error: every
failure is folded into CheckResult.Reason.
*/

// DecisionCache is the slice of decision.Cache the gate depends on.
type DecisionCache interface {
	Record(cacheKey string) (decision.Record, failure.ClassifiedError)
	MarkApp(cacheKey string) failure.ClassifiedError
	MarkExternal(cacheKey string, url string) failure.ClassifiedError
	SaveURL(cacheKey string, url string) failure.ClassifiedError
	PathID(originalURL string) (string, bool, failure.ClassifiedError)
	PutPathID(originalURL string, id string) failure.ClassifiedError
}

type Deps struct {
	Cache        DecisionCache
	Fetcher      fetcher.Fetcher
	Probe        connectivity.Probe
	Identity     identity.Provider
	Device       device.Classifier
	Clock        timeutil.Clock
	MetadataSink metadata.MetadataSink
}

type Gate struct {
	cache        DecisionCache
	fetcher      fetcher.Fetcher
	probe        connectivity.Probe
	identity     identity.Provider
	device       device.Classifier
	clock        timeutil.Clock
	metadataSink metadata.MetadataSink
	opts         Options
}

func NewGate(deps Deps, opts Options) *Gate {
	defaults := DefaultOptions()
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = defaults.ProbeTimeout
	}
	if opts.DefaultTimeout <= 0 {
		opts.DefaultTimeout = defaults.DefaultTimeout
	}
	if deps.Clock == nil {
		deps.Clock = timeutil.SystemClock{}
	}
	if deps.MetadataSink == nil {
		deps.MetadataSink = &metadata.NoopSink{}
	}

	return &Gate{
		cache:        deps.Cache,
		fetcher:      deps.Fetcher,
		probe:        deps.Probe,
		identity:     deps.Identity,
		device:       deps.Device,
		clock:        deps.Clock,
		metadataSink: deps.MetadataSink,
		opts:         opts,
	}
}

// CheckTargetDate reports whether now has reached target.
func CheckTargetDate(now time.Time, target time.Time) bool {
	return !now.Before(target)
}

func (g *Gate) Check(ctx context.Context, req CheckRequest) CheckResult {
	cacheKey := req.Key()
	result := g.check(ctx, req, cacheKey)
	g.metadataSink.RecordDecision(cacheKey, result.ShouldShowExternalContent, result.FinalURL, result.Reason)
	return result
}

func (g *Gate) check(ctx context.Context, req CheckRequest, cacheKey string) CheckResult {
	if req.URL == "" {
		g.recordError("Gate.Check", &GateError{
			Message: "empty target url",
			Cause:   ErrCauseInvalidRequest,
		}, cacheKey)
		return rejected(ReasonInvalidRequest)
	}
	if req.Timeout <= 0 {
		req.Timeout = g.opts.DefaultTimeout
	}

	rec, err := g.cache.Record(cacheKey)
	if err != nil {
		g.recordError("Gate.Check", err, cacheKey)
		return rejected(ReasonCacheUnavailable)
	}

	if rec.HasShownExternal {
		return g.revalidate(ctx, req, cacheKey, rec)
	}
	if rec.HasShownApp {
		return rejected(ReasonCachedApp)
	}
	return g.runCascade(ctx, req, cacheKey)
}

// revalidate handles a key that was approved before. It only ever answers
// with an approval; an unresolvable URL yields an empty FinalURL.
func (g *Gate) revalidate(ctx context.Context, req CheckRequest, cacheKey string, rec decision.Record) CheckResult {
	savedURL := rec.SavedURL
	if savedURL == "" {
		savedURL = req.URL
	}
	g.refreshPathID(req.URL, savedURL, cacheKey)

	validationURL := urlutil.AppendQueryParam(savedURL, PushIDParam, g.identity.ID())
	outcome, err := g.fetcher.Fetch(ctx, validationURL, req.Timeout)
	if err == nil {
		return approved(outcome.FinalURL(), ReasonValidCached)
	}

	recoveryURL := req.URL
	if pathID, ok := g.savedPathID(req.URL, cacheKey); ok {
		recoveryURL = urlutil.AppendQueryParam(recoveryURL, PathIDParam, pathID)
	}
	outcome, err = g.fetcher.Fetch(ctx, recoveryURL, req.Timeout)
	if err != nil {
		return approved("", ReasonRecoveryFailed)
	}

	if serr := g.cache.SaveURL(cacheKey, outcome.FinalURL()); serr != nil {
		g.recordError("Gate.revalidate", serr, cacheKey)
	}
	g.refreshPathID(req.URL, outcome.FinalURL(), cacheKey)
	return approved(outcome.FinalURL(), ReasonNewURLWithPathID)
}

func (g *Gate) runCascade(ctx context.Context, req CheckRequest, cacheKey string) CheckResult {
	if !g.probe.Reachable(ctx, g.opts.ProbeTimeout) {
		return g.reject(ctx, cacheKey, ReasonNoConnectivity, &GateError{
			Message: fmt.Sprintf("probe gave no answer within %v", g.opts.ProbeTimeout),
			Cause:   ErrCauseNoConnectivity,
			Step:    "connectivity",
		})
	}

	if !CheckTargetDate(g.clock.Now(), req.EligibleAt) {
		return g.reject(ctx, cacheKey, ReasonDateNotReached, &GateError{
			Message: fmt.Sprintf("eligible at %s", req.EligibleAt.UTC().Format(time.RFC3339)),
			Cause:   ErrCauseDateNotReached,
			Step:    "date",
		})
	}

	if req.DeviceCheck {
		class := g.device.Class()
		if device.Excluded(class, g.opts.ExcludedDeviceClass) {
			return g.reject(ctx, cacheKey, fmt.Sprintf(reasonDeviceExcludedFmt, class), &GateError{
				Message: fmt.Sprintf("device class %q is excluded", class),
				Cause:   ErrCauseDeviceExcluded,
				Step:    "device",
			})
		}
	}

	probeURL := urlutil.AppendQueryParam(req.URL, PushIDParam, g.identity.ID())
	outcome, err := g.fetcher.Fetch(ctx, probeURL, req.Timeout)
	if err != nil {
		return g.reject(ctx, cacheKey, reasonServerCheckFailPfx+fetchDetail(err), &GateError{
			Message: err.Error(),
			Cause:   ErrCauseServerCheck,
			Step:    "server",
		})
	}

	if serr := g.cache.MarkExternal(cacheKey, outcome.FinalURL()); serr != nil {
		g.recordError("Gate.runCascade", serr, cacheKey)
	}
	g.refreshPathID(req.URL, outcome.FinalURL(), cacheKey)
	return approved(outcome.FinalURL(), ReasonAllChecksPassed)
}

// reject persists the app decision for cacheKey. A failure caused by the
// caller cancelling ctx is not a verdict about the client and is not
// persisted.
func (g *Gate) reject(ctx context.Context, cacheKey string, reason string, cause *GateError) CheckResult {
	g.recordError("Gate.runCascade", cause, cacheKey)
	if ctx.Err() != nil {
		return rejected(ReasonCancelled)
	}
	if err := g.cache.MarkApp(cacheKey); err != nil {
		g.recordError("Gate.reject", err, cacheKey)
	}
	return rejected(reason)
}

// refreshPathID copies the pathid query value of resolvedURL, if any, into
// the store keyed by originalURL.
func (g *Gate) refreshPathID(originalURL string, resolvedURL string, cacheKey string) {
	pathID, ok := urlutil.QueryValue(resolvedURL, PathIDParam)
	if !ok {
		return
	}
	if err := g.cache.PutPathID(originalURL, pathID); err != nil {
		g.recordError("Gate.refreshPathID", err, cacheKey)
	}
}

func (g *Gate) savedPathID(originalURL string, cacheKey string) (string, bool) {
	pathID, ok, err := g.cache.PathID(originalURL)
	if err != nil {
		g.recordError("Gate.savedPathID", err, cacheKey)
		return "", false
	}
	return pathID, ok
}

func (g *Gate) recordError(action string, err error, cacheKey string) {
	cause := metadata.CauseUnknown
	attrs := []metadata.Attribute{
		metadata.NewAttr(metadata.AttrCacheKey, cacheKey),
	}

	var gateErr *GateError
	var decisionErr *decision.DecisionError
	switch {
	case errors.As(err, &gateErr):
		cause = mapGateErrorToMetadataCause(gateErr)
		if gateErr.Step != "" {
			attrs = append(attrs, metadata.NewAttr(metadata.AttrStep, gateErr.Step))
		}
	case errors.As(err, &decisionErr):
		cause = decision.MapDecisionErrorToMetadataCause(decisionErr)
		attrs = append(attrs, metadata.NewAttr(metadata.AttrStoreKey, decisionErr.Key))
	}

	g.metadataSink.RecordError(time.Now(), "gate", action, cause, err.Error(), attrs)
}

// fetchDetail extracts the human readable part of a fetch failure.
func fetchDetail(err error) string {
	var fetchErr *fetcher.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Message != "" {
		return fetchErr.Message
	}
	return err.Error()
}
