package store

// Store is the port every persisted key-value backend implements.
// Keys and values are plain strings; callers own serialization.
//
// There is no cross-call coordination: two writers racing on the same key
// resolve as last-writer-wins.
type Store interface {
	// Get returns the value stored under key and true, or empty string and
	// false when the key has never been written. err is reserved for
	// backend failures and is never used to signal a missing key.
	Get(key string) (string, bool, error)

	// Put stores value under key, overwriting any previous value.
	Put(key string, value string) error

	// Close releases the backend. Calls after Close fail with ErrCauseClosed.
	Close() error
}
