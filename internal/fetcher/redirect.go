package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/pkg/failure"
	"golang.org/x/net/publicsuffix"
)

/*
Responsibilities

- Issue exactly one GET per call
- Follow every redirect and remember each hop
- Resolve the final URL from the redirect chain
- Classify the terminal status against the acceptance range

Fetch Semantics

- Redirects are always followed; the caller's timeout is the only bound
- Cookies set along one redirect chain are replayed within that chain only
- The response body is never interpreted
- The caller is released no later than timeout; the request is cancelled
  at that point and whatever it produces afterwards is dropped

The fetcher never retries.
*/

// drainLimit caps how much of an ignored body is read so the connection
// can be reused.
const drainLimit = 64 << 10

type RedirectFetcher struct {
	metadataSink metadata.MetadataSink
	httpClient   *http.Client
	userAgent    string
}

func NewRedirectFetcher(
	metadataSink metadata.MetadataSink,
	userAgent string,
) *RedirectFetcher {
	return NewRedirectFetcherWithClient(metadataSink, userAgent, &http.Client{})
}

// NewRedirectFetcherWithClient creates a RedirectFetcher on top of a custom
// HTTP client. The client's CheckRedirect and Jar are replaced per call.
// This is useful for testing.
func NewRedirectFetcherWithClient(
	metadataSink metadata.MetadataSink,
	userAgent string,
	httpClient *http.Client,
) *RedirectFetcher {
	return &RedirectFetcher{
		metadataSink: metadataSink,
		httpClient:   httpClient,
		userAgent:    userAgent,
	}
}

func (f *RedirectFetcher) UserAgent() string {
	return f.userAgent
}

func (f *RedirectFetcher) Fetch(
	ctx context.Context,
	rawURL string,
	timeout time.Duration,
) (FetchOutcome, failure.ClassifiedError) {
	callerMethod := "RedirectFetcher.Fetch"
	startTime := time.Now()

	trail := &redirectTrail{}
	outcome, statusCode, err := f.performFetch(ctx, rawURL, timeout, trail)

	f.metadataSink.RecordFetch(rawURL, statusCode, time.Since(startTime), len(trail.hops))

	if err != nil {
		f.metadataSink.RecordError(
			time.Now(),
			"fetcher",
			callerMethod,
			mapFetchErrorToMetadataCause(err),
			err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrURL, rawURL),
			},
		)
		return FetchOutcome{}, err
	}
	return outcome, nil
}

func (f *RedirectFetcher) performFetch(
	ctx context.Context,
	rawURL string,
	timeout time.Duration,
	trail *redirectTrail,
) (FetchOutcome, int, *FetchError) {
	if err := validateURL(rawURL); err != nil {
		return FetchOutcome{}, 0, err
	}
	if timeout <= 0 {
		return FetchOutcome{}, 0, &FetchError{
			Message:   "Request timed out",
			Retryable: true,
			Cause:     ErrCauseTimeout,
		}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return FetchOutcome{}, 0, &FetchError{
			Message:   "Invalid URL",
			Retryable: false,
			Cause:     ErrCauseInvalidURL,
		}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.clientFor(trail).Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return FetchOutcome{}, 0, &FetchError{
				Message:   "Request timed out",
				Retryable: true,
				Cause:     ErrCauseTimeout,
			}
		}
		return FetchOutcome{}, 0, &FetchError{
			Message:   fmt.Sprintf("Network error: %v", err),
			Retryable: true,
			Cause:     ErrCauseNetworkFailure,
		}
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, drainLimit))
	_ = resp.Body.Close()

	if !Acceptable(resp.StatusCode) {
		return FetchOutcome{}, resp.StatusCode, &FetchError{
			Message:    fmt.Sprintf("Server error: %d", resp.StatusCode),
			Retryable:  resp.StatusCode >= 500,
			Cause:      ErrCauseUnacceptableStatus,
			StatusCode: resp.StatusCode,
		}
	}

	finalURL, redirected := trail.last()
	if !redirected {
		finalURL = rawURL
	}

	return FetchOutcome{
		requestURL: rawURL,
		finalURL:   finalURL,
		statusCode: resp.StatusCode,
		redirects:  trail.hops,
	}, resp.StatusCode, nil
}

// clientFor returns a shallow copy of the configured client whose redirect
// policy records every hop into trail and never stops the chain.
func (f *RedirectFetcher) clientFor(trail *redirectTrail) *http.Client {
	client := *f.httpClient
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		trail.record(req.URL.String())
		return nil
	}
	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		client.Jar = jar
	}
	return &client
}

func validateURL(rawURL string) *FetchError {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &FetchError{
			Message:   "Invalid URL",
			Retryable: false,
			Cause:     ErrCauseInvalidURL,
		}
	}
	return nil
}
