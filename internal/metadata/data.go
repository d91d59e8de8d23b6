package metadata

/*
	ErrorCause is a closed, canonical classification used exclusively for
	observability (logging, reporting).

	Rules:
	 - ErrorCause MUST NOT influence control flow.
	 - ErrorCause MUST NOT be used to decide whether a check passes.
	 - Component packages MAY map their local errors to ErrorCause,
	   but MUST NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be used.
*/
type ErrorCause int

/*
Canonical ErrorCause Table

# CauseUnknown
  - The failure does not map cleanly to any known category.

# CauseNetworkFailure
  - Transport failures, timeouts, DNS errors, unreachable probe address.

# CausePolicyDisallow
  - A check rejected the client on purpose: eligibility date not reached,
    excluded device class, unacceptable HTTP status.

# CauseContentInvalid
  - Input could not be used: malformed URL, undecodable cached record.

# CauseStorageFailure
  - Reading or writing the persisted stores failed.

# CauseInvariantViolation
  - Internal consistency checks failing.
*/
const (
	CauseUnknown ErrorCause = iota
	CauseNetworkFailure
	CausePolicyDisallow
	CauseContentInvalid
	CauseStorageFailure
	CauseInvariantViolation
)

func (c ErrorCause) String() string {
	switch c {
	case CauseNetworkFailure:
		return "network_failure"
	case CausePolicyDisallow:
		return "policy_disallow"
	case CauseContentInvalid:
		return "content_invalid"
	case CauseStorageFailure:
		return "storage_failure"
	case CauseInvariantViolation:
		return "invariant_violation"
	default:
		return "unknown"
	}
}

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}

type AttributeKey string

const (
	AttrURL        AttributeKey = "url"
	AttrCacheKey   AttributeKey = "cache_key"
	AttrStoreKey   AttributeKey = "store_key"
	AttrAddress    AttributeKey = "address"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrStep       AttributeKey = "step"
	AttrMessage    AttributeKey = "message"
)
