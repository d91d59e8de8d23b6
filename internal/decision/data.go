package decision

// Record is the durable per-cache-key verdict.
//
// HasShownExternal and HasShownApp are independent flags but once either
// is set the gate stops running the full check cascade for that key.
// SavedURL only means something while HasShownExternal is true.
type Record struct {
	HasShownExternal bool   `json:"hasShownExternal"`
	HasShownApp      bool   `json:"hasShownApp"`
	SavedURL         string `json:"savedUrl,omitempty"`
}

// Terminal reports whether a decision has ever been made for the key.
func (r Record) Terminal() bool {
	return r.HasShownExternal || r.HasShownApp
}

const (
	decisionPrefix = "decision:"
	pathIDPrefix   = "pathid:"
)
