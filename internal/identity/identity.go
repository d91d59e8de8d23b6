package identity

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rohmanhakim/content-gate/internal/metadata"
	"github.com/rohmanhakim/content-gate/internal/store"
)

const (
	// StoreKey is where the installation's identifier lives.
	StoreKey = "identity:push_id"

	MinLength = 10
	MaxLength = 20

	alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Provider hands out the installation-wide identifier sent as push_id.
type Provider interface {
	ID() string
}

// StoreProvider generates the identifier once and persists it so every
// later process reuses it. The value is memoized after the first call;
// when persisting fails the generated value is still used for the rest of
// the process and the failure is recorded.
type StoreProvider struct {
	store        store.Store
	metadataSink metadata.MetadataSink
	rng          *rand.Rand

	once sync.Once
	id   string
}

func NewStoreProvider(s store.Store, metadataSink metadata.MetadataSink) *StoreProvider {
	seed := uint64(time.Now().UnixNano())
	return NewStoreProviderWithRand(s, metadataSink, rand.New(rand.NewPCG(seed, seed>>1|1)))
}

// NewStoreProviderWithRand is NewStoreProvider with a caller-controlled
// random source. Useful for deterministic tests.
func NewStoreProviderWithRand(s store.Store, metadataSink metadata.MetadataSink, rng *rand.Rand) *StoreProvider {
	return &StoreProvider{
		store:        s,
		metadataSink: metadataSink,
		rng:          rng,
	}
}

func (p *StoreProvider) ID() string {
	p.once.Do(func() {
		p.id = p.load()
	})
	return p.id
}

func (p *StoreProvider) load() string {
	saved, found, err := p.store.Get(StoreKey)
	if err != nil {
		p.recordStoreError("StoreProvider.load", err)
	}
	if found && saved != "" {
		return saved
	}

	id := Generate(p.rng)
	if err := p.store.Put(StoreKey, id); err != nil {
		p.recordStoreError("StoreProvider.load", err)
	}
	return id
}

func (p *StoreProvider) recordStoreError(action string, err error) {
	p.metadataSink.RecordError(
		time.Now(),
		"identity",
		action,
		metadata.CauseStorageFailure,
		err.Error(),
		[]metadata.Attribute{
			metadata.NewAttr(metadata.AttrStoreKey, StoreKey),
		},
	)
}

// Generate returns a random alphanumeric string whose length is uniformly
// drawn from [MinLength, MaxLength].
func Generate(rng *rand.Rand) string {
	n := MinLength + rng.IntN(MaxLength-MinLength+1)
	b := make([]byte, n)
	for i := range b {
		b[i] = alphabet[rng.IntN(len(alphabet))]
	}
	return string(b)
}

// Static always returns the same identifier.
type Static string

func (s Static) ID() string {
	return string(s)
}
