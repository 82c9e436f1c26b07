// Package token holds the primitives shared by every layer of the txxt
// pipeline: source positions and spans, the scanner token tagged union, and
// diagnostics. Nothing in this package depends on any other txxt package, so
// every layer can import it without a cycle.
package token

import "fmt"

// Position is a zero-indexed (row, column) location in source. Row counts
// newlines; column counts bytes within the row.
type Position struct {
	Row    int
	Column int
}

// Before reports whether the receiver sorts strictly before other.
func (p Position) Before(other Position) bool {
	return p.Row < other.Row || (p.Row == other.Row && p.Column < other.Column)
}

// String renders "row:col" (1-based row/col, matching editor conventions).
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Row+1, p.Column+1)
}

// SourceSpan is a half-open [Start, End) range across Positions.
type SourceSpan struct {
	Start, End Position
}

// Empty reports whether the span covers zero bytes.
func (s SourceSpan) Empty() bool {
	return s.Start == s.End
}

// Cover returns the smallest span containing both s and other. Either side
// may be the zero SourceSpan, in which case the other is returned unchanged.
func (s SourceSpan) Cover(other SourceSpan) SourceSpan {
	if s == (SourceSpan{}) {
		return other
	}
	if other == (SourceSpan{}) {
		return s
	}
	out := s
	if other.Start.Before(out.Start) {
		out.Start = other.Start
	}
	if out.End.Before(other.End) {
		out.End = other.End
	}
	return out
}

// String renders "start-end".
func (s SourceSpan) String() string {
	return fmt.Sprintf("%v-%v", s.Start, s.End)
}

// Severity classifies a Diagnostic.
type Severity int

// Severity values, least to most urgent.
const (
	Info Severity = iota
	Warning
	Error
)

// String implements fmt.Stringer.
func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "severity?"
	}
}

// Diagnostic is a non-fatal parse note: every layer emits these instead of
// raising an error, so that parsing is always total.
type Diagnostic struct {
	Severity Severity
	Span     SourceSpan
	Message  string
}

// String renders "severity: message @ span".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%v: %s @ %v", d.Severity, d.Message, d.Span)
}
