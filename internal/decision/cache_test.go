package decision_test

import (
	"errors"
	"testing"

	"github.com/rohmanhakim/content-gate/internal/decision"
	"github.com/rohmanhakim/content-gate/internal/store"
	"github.com/rohmanhakim/content-gate/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// brokenStore fails every call with a retryable read/write error.
type brokenStore struct{}

func (brokenStore) Get(key string) (string, bool, error) {
	return "", false, &store.StoreError{Cause: store.ErrCauseRead, Retryable: true, Key: key}
}

func (brokenStore) Put(key string, value string) error {
	return &store.StoreError{Cause: store.ErrCauseWrite, Retryable: true, Key: key}
}

func (brokenStore) Close() error { return nil }

func TestCache_RecordMissingIsZero(t *testing.T) {
	c := decision.NewCache(store.NewMemoryStore())

	rec, err := c.Record("campaign")
	require.Nil(t, err)
	assert.Equal(t, decision.Record{}, rec)
	assert.False(t, rec.Terminal())
}

func TestCache_MarkApp(t *testing.T) {
	s := store.NewMemoryStore()
	c := decision.NewCache(s)

	require.Nil(t, c.MarkApp("campaign"))

	rec, err := c.Record("campaign")
	require.Nil(t, err)
	assert.True(t, rec.HasShownApp)
	assert.False(t, rec.HasShownExternal)
	assert.True(t, rec.Terminal())

	raw, found, serr := s.Get("decision:campaign")
	require.NoError(t, serr)
	assert.True(t, found)
	assert.JSONEq(t, `{"hasShownExternal":false,"hasShownApp":true}`, raw)
}

func TestCache_MarkExternalThenSaveURL(t *testing.T) {
	c := decision.NewCache(store.NewMemoryStore())

	require.Nil(t, c.MarkExternal("campaign", "https://cdn.example/x?push_id=u1"))
	require.Nil(t, c.SaveURL("campaign", "https://cdn.example/y"))

	rec, err := c.Record("campaign")
	require.Nil(t, err)
	assert.True(t, rec.HasShownExternal)
	assert.False(t, rec.HasShownApp)
	assert.Equal(t, "https://cdn.example/y", rec.SavedURL)
}

func TestCache_FlagsAreIndependent(t *testing.T) {
	c := decision.NewCache(store.NewMemoryStore())

	require.Nil(t, c.MarkApp("campaign"))
	require.Nil(t, c.MarkExternal("campaign", "https://cdn.example/x"))

	rec, err := c.Record("campaign")
	require.Nil(t, err)
	assert.True(t, rec.HasShownApp)
	assert.True(t, rec.HasShownExternal)
}

func TestCache_KeysAreScopedPerCacheKey(t *testing.T) {
	c := decision.NewCache(store.NewMemoryStore())

	require.Nil(t, c.MarkApp("a"))

	rec, err := c.Record("b")
	require.Nil(t, err)
	assert.False(t, rec.Terminal())
}

func TestCache_PathIDRoundTrip(t *testing.T) {
	s := store.NewMemoryStore()
	c := decision.NewCache(s)
	origin := "https://x.example/a"

	_, found, err := c.PathID(origin)
	require.Nil(t, err)
	assert.False(t, found)

	require.Nil(t, c.PutPathID(origin, "abc123"))

	id, found, err := c.PathID(origin)
	require.Nil(t, err)
	assert.True(t, found)
	assert.Equal(t, "abc123", id)

	raw, ok, serr := s.Get("pathid:" + hashutil.StableKey(origin))
	require.NoError(t, serr)
	assert.True(t, ok)
	assert.Equal(t, "abc123", raw)
}

func TestCache_PathIDIsKeyedByOriginalURLNotCacheKey(t *testing.T) {
	c := decision.NewCache(store.NewMemoryStore())

	require.Nil(t, c.PutPathID("https://x.example/a", "abc123"))

	_, found, err := c.PathID("https://x.example/b")
	require.Nil(t, err)
	assert.False(t, found)

	assert.NotEqual(t, decision.PathIDKey("https://x.example/a"), decision.DecisionKey("https://x.example/a"))
}

func TestCache_EmptyPathIDReadsAsMissing(t *testing.T) {
	c := decision.NewCache(store.NewMemoryStore())

	require.Nil(t, c.PutPathID("https://x.example/a", ""))

	_, found, err := c.PathID("https://x.example/a")
	require.Nil(t, err)
	assert.False(t, found)
}

func TestCache_UndecodableRecord(t *testing.T) {
	s := store.NewMemoryStore()
	c := decision.NewCache(s)
	require.NoError(t, s.Put("decision:campaign", "not json"))

	_, err := c.Record("campaign")
	require.NotNil(t, err)

	var decisionErr *decision.DecisionError
	require.True(t, errors.As(err, &decisionErr))
	assert.Equal(t, decision.ErrCauseDecode, decisionErr.Cause)

	// A write replaces the corrupt value instead of failing on it.
	require.Nil(t, c.MarkApp("campaign"))
	rec, err := c.Record("campaign")
	require.Nil(t, err)
	assert.True(t, rec.HasShownApp)
}

func TestCache_StoreFailures(t *testing.T) {
	c := decision.NewCache(brokenStore{})

	_, err := c.Record("campaign")
	require.NotNil(t, err)
	var decisionErr *decision.DecisionError
	require.True(t, errors.As(err, &decisionErr))
	assert.Equal(t, decision.ErrCauseStore, decisionErr.Cause)
	assert.True(t, decisionErr.Retryable)

	assert.NotNil(t, c.MarkApp("campaign"))
	assert.NotNil(t, c.PutPathID("https://x.example/a", "abc"))

	_, _, err = c.PathID("https://x.example/a")
	assert.NotNil(t, err)
}
