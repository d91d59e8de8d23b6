package urlutil

import (
	"net/url"
	"strings"
)

// AppendQueryParam adds name=value to the query string of rawURL without
// touching any parameter already present. The pair is joined with '&' when
// rawURL already carries a '?', otherwise a '?' is introduced. A fragment,
// if any, stays at the end.
//
// Properties:
//   - Pure: no parsing failure is possible, rawURL is treated as text
//   - Order preserving: existing parameters keep their position
//   - Not idempotent: appending the same pair twice yields it twice
func AppendQueryParam(rawURL string, name string, value string) string {
	base, fragment, hasFragment := strings.Cut(rawURL, "#")

	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}

	var b strings.Builder
	b.Grow(len(rawURL) + len(name) + len(value) + 2)
	b.WriteString(base)
	b.WriteString(sep)
	b.WriteString(url.QueryEscape(name))
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(value))
	if hasFragment {
		b.WriteByte('#')
		b.WriteString(fragment)
	}
	return b.String()
}

// QueryValue returns the first non-empty value of the named query parameter
// in rawURL. Unparseable URLs and empty values report false.
func QueryValue(rawURL string, name string) (string, bool) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	for _, v := range parsed.Query()[name] {
		if v != "" {
			return v, true
		}
	}
	return "", false
}
