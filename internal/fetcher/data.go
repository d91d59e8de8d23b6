package fetcher

// HTTP boundary

const (
	// MinAcceptableStatus and MaxAcceptableStatus bound, inclusively, the
	// terminal status codes treated as success. The range deliberately
	// includes 3xx and 400-403: what matters is the URL the redirect chain
	// resolved to, not the final status.
	MinAcceptableStatus = 200
	MaxAcceptableStatus = 403
)

// Acceptable reports whether a terminal status code counts as success.
func Acceptable(statusCode int) bool {
	return statusCode >= MinAcceptableStatus && statusCode <= MaxAcceptableStatus
}

// FetchOutcome is the result of one successful fetch.
type FetchOutcome struct {
	requestURL string
	finalURL   string
	statusCode int
	redirects  []string
}

// RequestURL is the URL the GET was issued for.
func (f FetchOutcome) RequestURL() string {
	return f.requestURL
}

// FinalURL is the last redirect target observed, or RequestURL when the
// server answered without redirecting.
func (f FetchOutcome) FinalURL() string {
	return f.finalURL
}

func (f FetchOutcome) Code() int {
	return f.statusCode
}

// Redirects lists every redirect target in the order it was followed.
func (f FetchOutcome) Redirects() []string {
	out := make([]string, len(f.redirects))
	copy(out, f.redirects)
	return out
}

// redirectTrail accumulates redirect targets for exactly one fetch.
// It is created by the fetch that owns it and returned inside the outcome;
// nothing else holds a reference to it.
type redirectTrail struct {
	hops []string
}

func (r *redirectTrail) record(target string) {
	r.hops = append(r.hops, target)
}

func (r *redirectTrail) last() (string, bool) {
	if len(r.hops) == 0 {
		return "", false
	}
	return r.hops[len(r.hops)-1], true
}

// NewFetchOutcomeForTest creates a FetchOutcome for testing purposes.
// This allows test packages to construct FetchOutcome values without
// accessing unexported fields directly.
func NewFetchOutcomeForTest(
	requestURL string,
	finalURL string,
	statusCode int,
	redirects []string,
) FetchOutcome {
	return FetchOutcome{
		requestURL: requestURL,
		finalURL:   finalURL,
		statusCode: statusCode,
		redirects:  redirects,
	}
}
