package gate_test

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/rohmanhakim/content-gate/internal/decision"
	"github.com/rohmanhakim/content-gate/internal/device"
	"github.com/rohmanhakim/content-gate/internal/fetcher"
	"github.com/rohmanhakim/content-gate/internal/gate"
	"github.com/rohmanhakim/content-gate/internal/identity"
	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/internal/store"
	"github.com/rohmanhakim/content-gate/pkg/failure"
	"github.com/rohmanhakim/content-gate/pkg/timeutil"
	"github.com/stretchr/testify/mock"
)

const testPushID = "abc123XYZ0"

var testNow = time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)

// fetcherMock is a testify mock for the Fetcher
type fetcherMock struct {
	mock.Mock
}

func (f *fetcherMock) Fetch(
	ctx context.Context,
	rawURL string,
	timeout time.Duration,
) (fetcher.FetchOutcome, failure.ClassifiedError) {
	args := f.Called(ctx, rawURL, timeout)
	result := args.Get(0).(fetcher.FetchOutcome)
	var err failure.ClassifiedError
	if args.Get(1) != nil {
		err = args.Get(1).(failure.ClassifiedError)
	}
	return result, err
}

// onFetchOK expects a fetch of requestURL and answers with finalURL.
func (f *fetcherMock) onFetchOK(requestURL string, finalURL string) *mock.Call {
	outcome := fetcher.NewFetchOutcomeForTest(requestURL, finalURL, 200, nil)
	return f.On("Fetch", mock.Anything, requestURL, mock.Anything).Return(outcome, nil)
}

// onFetchStatus expects a fetch of requestURL and fails it with code.
func (f *fetcherMock) onFetchStatus(requestURL string, code int) *mock.Call {
	err := &fetcher.FetchError{
		Message:    "Server error: " + strconv.Itoa(code),
		Cause:      fetcher.ErrCauseUnacceptableStatus,
		StatusCode: code,
	}
	return f.On("Fetch", mock.Anything, requestURL, mock.Anything).Return(fetcher.FetchOutcome{}, err)
}

// probeMock is a testify mock for the connectivity Probe
type probeMock struct {
	mock.Mock
}

func (p *probeMock) Reachable(ctx context.Context, timeout time.Duration) bool {
	args := p.Called(ctx, timeout)
	return args.Bool(0)
}

// brokenStore fails every call.
type brokenStore struct{}

func (brokenStore) Get(key string) (string, bool, error) {
	return "", false, &store.StoreError{Cause: store.ErrCauseRead, Retryable: true, Key: key}
}

func (brokenStore) Put(key string, value string) error {
	return &store.StoreError{Cause: store.ErrCauseWrite, Retryable: true, Key: key}
}

func (brokenStore) Close() error { return nil }

type gateFixture struct {
	gate    *gate.Gate
	cache   *decision.Cache
	store   *store.MemoryStore
	fetcher *fetcherMock
	probe   *probeMock
}

func newGateFixture(t *testing.T, class string) *gateFixture {
	t.Helper()
	s := store.NewMemoryStore()
	cache := decision.NewCache(s)
	f := new(fetcherMock)
	p := new(probeMock)

	g := gate.NewGate(gate.Deps{
		Cache:        cache,
		Fetcher:      f,
		Probe:        p,
		Identity:     identity.Static(testPushID),
		Device:       device.NewStaticClassifier(class),
		Clock:        timeutil.FixedClock{At: testNow},
		MetadataSink: &metadata.NoopSink{},
	}, gate.DefaultOptions())

	return &gateFixture{gate: g, cache: cache, store: s, fetcher: f, probe: p}
}

func (fx *gateFixture) record(t *testing.T, cacheKey string) decision.Record {
	t.Helper()
	rec, err := fx.cache.Record(cacheKey)
	if err != nil {
		t.Fatalf("reading record %q: %v", cacheKey, err)
	}
	return rec
}
