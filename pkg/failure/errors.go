package failure

type Severity int

// Gate control flow only ever sees these two levels. A recoverable error
// may still be worth another evaluation later; a fatal one never is.
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

type ClassifiedError interface {
	error
	Severity() Severity
}
