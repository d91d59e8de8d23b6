package hashutil

import (
	"encoding/hex"

	"lukechampine.com/blake3"
)

// stableKeyBytes is how much of the BLAKE3 digest StableKey keeps.
// 16 bytes keeps distinct origin URLs apart inside one installation.
const stableKeyBytes = 16

// StableKey derives a short hex key for s that does not change across
// processes, builds, or platforms. Use it wherever a persisted key has to
// be recomputed on a later launch.
func StableKey(s string) string {
	hash := blake3.Sum256([]byte(s))
	return hex.EncodeToString(hash[:stableKeyBytes])
}
