package decision

import (
	"encoding/json"
	"errors"

	"github.com/rohmanhakim/content-gate/internal/store"
	"github.com/rohmanhakim/content-gate/pkg/failure"
	"github.com/rohmanhakim/content-gate/pkg/hashutil"
)

/*
Cache

Responsibilities:
- Read and write per-cache-key Records under decision:{cacheKey}
- Read and write path identifiers under pathid:{hash(originalURL)}
- Derive both keys

The two namespaces are independent. A path identifier is keyed by the
original target URL, never by the cache key, so it survives a cache-key
change that still points at the same origin URL.

Cache never validates anything; deciding what a Record means is the
gate's job.
*/
type Cache struct {
	store store.Store
}

func NewCache(s store.Store) *Cache {
	return &Cache{store: s}
}

// DecisionKey returns the store key holding the Record for cacheKey.
func DecisionKey(cacheKey string) string {
	return decisionPrefix + cacheKey
}

// PathIDKey returns the store key holding the path identifier for
// originalURL.
func PathIDKey(originalURL string) string {
	return pathIDPrefix + hashutil.StableKey(originalURL)
}

// Record returns the stored Record for cacheKey, or the zero Record when
// none was written yet.
func (c *Cache) Record(cacheKey string) (Record, failure.ClassifiedError) {
	key := DecisionKey(cacheKey)
	raw, found, err := c.store.Get(key)
	if err != nil {
		return Record{}, storeFailure(err, key)
	}
	if !found {
		return Record{}, nil
	}

	var rec Record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Record{}, &DecisionError{
			Message: err.Error(),
			Cause:   ErrCauseDecode,
			Key:     key,
		}
	}
	return rec, nil
}

// PutRecord replaces the Record for cacheKey.
func (c *Cache) PutRecord(cacheKey string, rec Record) failure.ClassifiedError {
	key := DecisionKey(cacheKey)
	b, err := json.Marshal(rec)
	if err != nil {
		return &DecisionError{
			Message: err.Error(),
			Cause:   ErrCauseEncode,
			Key:     key,
		}
	}
	if err := c.store.Put(key, string(b)); err != nil {
		return storeFailure(err, key)
	}
	return nil
}

// MarkApp durably records that the local fallback was chosen for cacheKey.
func (c *Cache) MarkApp(cacheKey string) failure.ClassifiedError {
	return c.update(cacheKey, func(rec *Record) {
		rec.HasShownApp = true
	})
}

// MarkExternal durably records that external content at url was approved
// for cacheKey.
func (c *Cache) MarkExternal(cacheKey string, url string) failure.ClassifiedError {
	return c.update(cacheKey, func(rec *Record) {
		rec.HasShownExternal = true
		rec.SavedURL = url
	})
}

// SaveURL replaces the saved URL for cacheKey and leaves both flags alone.
func (c *Cache) SaveURL(cacheKey string, url string) failure.ClassifiedError {
	return c.update(cacheKey, func(rec *Record) {
		rec.SavedURL = url
	})
}

// PathID returns the saved path identifier for originalURL.
func (c *Cache) PathID(originalURL string) (string, bool, failure.ClassifiedError) {
	key := PathIDKey(originalURL)
	id, found, err := c.store.Get(key)
	if err != nil {
		return "", false, storeFailure(err, key)
	}
	if !found || id == "" {
		return "", false, nil
	}
	return id, true, nil
}

// PutPathID stores id as the path identifier for originalURL.
func (c *Cache) PutPathID(originalURL string, id string) failure.ClassifiedError {
	key := PathIDKey(originalURL)
	if err := c.store.Put(key, id); err != nil {
		return storeFailure(err, key)
	}
	return nil
}

// update is a read-modify-write of one Record. An undecodable Record is
// overwritten rather than blocking the write.
func (c *Cache) update(cacheKey string, mutate func(*Record)) failure.ClassifiedError {
	rec, err := c.Record(cacheKey)
	if err != nil {
		var decisionErr *DecisionError
		if !errors.As(err, &decisionErr) || decisionErr.Cause != ErrCauseDecode {
			return err
		}
		rec = Record{}
	}
	mutate(&rec)
	return c.PutRecord(cacheKey, rec)
}

func storeFailure(err error, key string) *DecisionError {
	retryable := true
	var storeErr *store.StoreError
	if errors.As(err, &storeErr) {
		retryable = storeErr.Retryable
	}
	return &DecisionError{
		Message:   err.Error(),
		Retryable: retryable,
		Cause:     ErrCauseStore,
		Key:       key,
	}
}
