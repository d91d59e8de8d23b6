package device

import "strings"

// Well-known device classes. Any other string is accepted as-is.
const (
	ClassPhone   = "phone"
	ClassTablet  = "tablet"
	ClassDesktop = "desktop"
	ClassTV      = "tv"
)

// Classifier reports the class of the device the client runs on.
type Classifier interface {
	Class() string
}

// StaticClassifier reports a class fixed at construction, typically from
// configuration supplied by the embedding application.
type StaticClassifier struct {
	class string
}

func NewStaticClassifier(class string) StaticClassifier {
	return StaticClassifier{class: Normalize(class)}
}

func (s StaticClassifier) Class() string {
	return s.class
}

// Normalize lowercases and trims a class name so comparisons are
// case-insensitive.
func Normalize(class string) string {
	return strings.ToLower(strings.TrimSpace(class))
}

// Excluded reports whether class matches the excluded class. An empty
// excluded class excludes nothing.
func Excluded(class string, excluded string) bool {
	excluded = Normalize(excluded)
	if excluded == "" {
		return false
	}
	return Normalize(class) == excluded
}
