package hashutil_test

import (
	"encoding/hex"
	"testing"

	"github.com/rohmanhakim/content-gate/pkg/hashutil"
	"github.com/stretchr/testify/assert"
	"lukechampine.com/blake3"
)

func TestStableKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "plain url", input: "https://x.example/a"},
		{name: "url with query", input: "https://x.example/a?b=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sum := blake3.Sum256([]byte(tt.input))
			expected := hex.EncodeToString(sum[:16])

			assert.Equal(t, expected, hashutil.StableKey(tt.input))
			assert.Len(t, hashutil.StableKey(tt.input), 32)
		})
	}
}

func TestStableKey_KnownVector(t *testing.T) {
	// First half of the official BLAKE3 digest of "abc".
	assert.Equal(t, "6437b3ac38465133ffb63b75273a8db5", hashutil.StableKey("abc"))
}

func TestStableKey_Deterministic(t *testing.T) {
	assert.Equal(t, hashutil.StableKey("https://cdn.example/x"), hashutil.StableKey("https://cdn.example/x"))
}

func TestStableKey_DistinctInputs(t *testing.T) {
	assert.NotEqual(t, hashutil.StableKey("https://x.example/a"), hashutil.StableKey("https://x.example/b"))
}
