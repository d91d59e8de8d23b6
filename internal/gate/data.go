package gate

import "time"

// Query parameters negotiated with the content origin.
const (
	PushIDParam = "push_id"
	PathIDParam = "pathid"
)

// Reasons are diagnostics only. Callers branch on
// ShouldShowExternalContent and FinalURL, never on Reason.
const (
	ReasonValidCached        = "Valid cached external content"
	ReasonNewURLWithPathID   = "New URL with path_id"
	ReasonRecoveryFailed     = "Failed to get new URL, show empty content"
	ReasonCachedApp          = "Cached app content"
	ReasonNoConnectivity     = "No internet connection"
	ReasonDateNotReached     = "Target date not reached"
	ReasonAllChecksPassed    = "All checks passed"
	ReasonCacheUnavailable   = "Decision cache unavailable"
	ReasonInvalidRequest     = "Invalid URL"
	ReasonCancelled          = "Check cancelled"
	reasonDeviceExcludedFmt  = "Device not supported (%s)"
	reasonServerCheckFailPfx = "Server check failed: "
)

// CheckRequest is the input to one gate evaluation.
type CheckRequest struct {
	// URL is the content origin to probe.
	URL string
	// EligibleAt is the instant from which external content may be shown.
	// The zero value means "already eligible".
	EligibleAt time.Time
	// DeviceCheck enables the excluded-device-class check.
	DeviceCheck bool
	// Timeout bounds each network request made by this evaluation. Zero
	// falls back to the gate's default.
	Timeout time.Duration
	// CacheKey scopes the durable decision. Empty means URL.
	CacheKey string
}

// Key returns the effective cache key.
func (r CheckRequest) Key() string {
	if r.CacheKey != "" {
		return r.CacheKey
	}
	return r.URL
}

// CheckResult is the output of one gate evaluation.
//
// ShouldShowExternalContent with an empty FinalURL means external content
// is still the right category but nothing can be loaded right now; the
// caller should render nothing rather than fall back.
type CheckResult struct {
	ShouldShowExternalContent bool   `json:"shouldShowExternalContent"`
	FinalURL                  string `json:"finalUrl"`
	Reason                    string `json:"reason"`
}

type Options struct {
	// ProbeTimeout bounds the connectivity probe. It is independent of
	// CheckRequest.Timeout.
	ProbeTimeout time.Duration
	// DefaultTimeout applies when CheckRequest.Timeout is not positive.
	DefaultTimeout time.Duration
	// ExcludedDeviceClass is rejected when CheckRequest.DeviceCheck is set.
	ExcludedDeviceClass string
}

func DefaultOptions() Options {
	return Options{
		ProbeTimeout:        2 * time.Second,
		DefaultTimeout:      10 * time.Second,
		ExcludedDeviceClass: "tablet",
	}
}

func approved(finalURL string, reason string) CheckResult {
	return CheckResult{ShouldShowExternalContent: true, FinalURL: finalURL, Reason: reason}
}

func rejected(reason string) CheckResult {
	return CheckResult{ShouldShowExternalContent: false, Reason: reason}
}
