package urlutil

import (
	"testing"
)

func TestAppendQueryParam(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		key      string
		value    string
		expected string
	}{
		{
			name:     "no query introduces question mark",
			input:    "https://x.example/a",
			key:      "push_id",
			value:    "abc123XYZ0",
			expected: "https://x.example/a?push_id=abc123XYZ0",
		},
		{
			name:     "existing query appends with ampersand",
			input:    "https://x.example/a?b=1",
			key:      "push_id",
			value:    "abc123XYZ0",
			expected: "https://x.example/a?b=1&push_id=abc123XYZ0",
		},
		{
			name:     "trailing question mark appends with ampersand",
			input:    "https://x.example/a?",
			key:      "pathid",
			value:    "p1",
			expected: "https://x.example/a?&pathid=p1",
		},
		{
			name:     "fragment stays last",
			input:    "https://x.example/a?b=1#top",
			key:      "pathid",
			value:    "p1",
			expected: "https://x.example/a?b=1&pathid=p1#top",
		},
		{
			name:     "value is query escaped",
			input:    "https://x.example/a",
			key:      "pathid",
			value:    "a b&c",
			expected: "https://x.example/a?pathid=a+b%26c",
		},
		{
			name:     "existing parameter of the same name is kept",
			input:    "https://x.example/a?push_id=old",
			key:      "push_id",
			value:    "new",
			expected: "https://x.example/a?push_id=old&push_id=new",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AppendQueryParam(tt.input, tt.key, tt.value)
			if got != tt.expected {
				t.Errorf("AppendQueryParam() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestQueryValue(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		key       string
		wantValue string
		wantOK    bool
	}{
		{
			name:      "present",
			input:     "https://cdn.example/x?pathid=abc123",
			key:       "pathid",
			wantValue: "abc123",
			wantOK:    true,
		},
		{
			name:      "present among others",
			input:     "https://cdn.example/x?push_id=u1&pathid=abc123&z=9",
			key:       "pathid",
			wantValue: "abc123",
			wantOK:    true,
		},
		{
			name:   "absent",
			input:  "https://cdn.example/x?push_id=u1",
			key:    "pathid",
			wantOK: false,
		},
		{
			name:   "empty value",
			input:  "https://cdn.example/x?pathid=",
			key:    "pathid",
			wantOK: false,
		},
		{
			name:      "first non-empty wins",
			input:     "https://cdn.example/x?pathid=&pathid=second",
			key:       "pathid",
			wantValue: "second",
			wantOK:    true,
		},
		{
			name:   "unparseable url",
			input:  "http://[::1",
			key:    "pathid",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := QueryValue(tt.input, tt.key)
			if ok != tt.wantOK {
				t.Fatalf("QueryValue() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.wantValue {
				t.Errorf("QueryValue() = %q, want %q", got, tt.wantValue)
			}
		})
	}
}

func TestAppendThenQueryValue(t *testing.T) {
	enriched := AppendQueryParam("https://x.example/a?b=1", "pathid", "abc123")

	got, ok := QueryValue(enriched, "pathid")
	if !ok || got != "abc123" {
		t.Errorf("QueryValue(AppendQueryParam()) = %q, %v, want %q, true", got, ok, "abc123")
	}
}
