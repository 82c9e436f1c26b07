package token

// Kind tags the variant of a Token, mirroring scandown.BlockType: a single
// small integer enum shared by every payload shape, rather than an
// interface-per-variant hierarchy.
type Kind int

// Token kind constants, grouped as in spec §3.2.
const (
	noKind Kind = iota // zero value should never be observed by callers

	// Content
	Text
	Whitespace
	Identifier
	QuotedString

	// Structural whitespace
	Newline
	BlankLine
	Indent
	Dedent
	Eof

	// Punctuation
	Colon
	Equals
	Comma
	Dash
	Period
	LeftBracket
	RightBracket
	LeftParen
	RightParen
	AtSign

	// Txxt markers
	TxxtMarker

	// Formatting delimiters
	BoldDelimiter
	ItalicDelimiter
	CodeDelimiter
	MathDelimiter

	// Sequence markers
	SequenceMarker

	// Verbatim
	VerbatimBlockStart
	VerbatimContentLine
	VerbatimBlockEnd

	// References
	RefMarker
	CitationRef
	FootnoteRef
	PageRef
	SessionRef
)

// kindNames mirrors scandown's Format-by-table convention.
var kindNames = map[Kind]string{
	Text: "Text", Whitespace: "Whitespace", Identifier: "Identifier", QuotedString: "QuotedString",
	Newline: "Newline", BlankLine: "BlankLine", Indent: "Indent", Dedent: "Dedent", Eof: "Eof",
	Colon: "Colon", Equals: "Equals", Comma: "Comma", Dash: "Dash", Period: "Period",
	LeftBracket: "LeftBracket", RightBracket: "RightBracket", LeftParen: "LeftParen", RightParen: "RightParen",
	AtSign: "AtSign", TxxtMarker: "TxxtMarker",
	BoldDelimiter: "BoldDelimiter", ItalicDelimiter: "ItalicDelimiter", CodeDelimiter: "CodeDelimiter", MathDelimiter: "MathDelimiter",
	SequenceMarker:      "SequenceMarker",
	VerbatimBlockStart:  "VerbatimBlockStart",
	VerbatimContentLine: "VerbatimContentLine",
	VerbatimBlockEnd:    "VerbatimBlockEnd",
	RefMarker:           "RefMarker", CitationRef: "CitationRef", FootnoteRef: "FootnoteRef",
	PageRef: "PageRef", SessionRef: "SessionRef",
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Kind?"
}

// MarkerStyle classifies a SequenceMarker's numbering system.
type MarkerStyle int

// MarkerStyle values.
const (
	MarkerPlain MarkerStyle = iota
	MarkerNumerical
	MarkerAlphabetical
	MarkerRoman
)

// String implements fmt.Stringer.
func (s MarkerStyle) String() string {
	switch s {
	case MarkerPlain:
		return "Plain"
	case MarkerNumerical:
		return "Numerical"
	case MarkerAlphabetical:
		return "Alphabetical"
	case MarkerRoman:
		return "Roman"
	default:
		return "MarkerStyle?"
	}
}

// SequenceMarker carries the classified payload of a SequenceMarker token.
type SequenceMarker struct {
	Style    MarkerStyle
	Original string // the raw marker text as it appeared, e.g. "1.2.", "iv)", "-"
	Numeric  uint64 // valid for MarkerNumerical and MarkerRoman
	Alpha    rune   // valid for MarkerAlphabetical
}

// WallType classifies a verbatim block's content indentation mode.
type WallType int

// WallType values.
const (
	WallInFlow WallType = iota
	WallStretched
	WallEmpty
)

// String implements fmt.Stringer.
func (w WallType) String() string {
	switch w {
	case WallInFlow:
		return "InFlow"
	case WallStretched:
		return "Stretched"
	case WallEmpty:
		return "Empty"
	default:
		return "WallType?"
	}
}

// FootnoteKind distinguishes numeric vs labelled footnote references.
type FootnoteKind int

// FootnoteKind values.
const (
	FootnoteNumeric FootnoteKind = iota
	FootnoteLabelled
)
