package token

import "fmt"

// Token is the scanner-level tagged union (spec §3.2). Like scandown.Block,
// it is a single struct whose fields are reinterpreted per Kind rather than
// an interface hierarchy:
//
//   - Text holds literal content for Text/Whitespace/Identifier/QuotedString/
//     BlankLine(whitespace)/VerbatimBlockStart(title)/VerbatimContentLine(content)/
//     VerbatimBlockEnd(label_raw)/RefMarker/CitationRef/PageRef/SessionRef/FootnoteRef
//     (raw bracket content).
//   - Marker holds the classified payload for SequenceMarker tokens.
//   - Wall holds the verbatim wall mode for VerbatimBlockStart tokens.
//   - Footnote holds the footnote kind for FootnoteRef tokens.
//   - Indent holds the verbatim content line's measured indentation column,
//     for VerbatimContentLine tokens.
type Token struct {
	Kind     Kind
	Span     SourceSpan
	Text     string
	Marker   SequenceMarker
	Wall     WallType
	Footnote FootnoteKind
	Indent   int
}

// Format implements fmt.Formatter the way scandown.Block.Format does: a
// terse "%v" form and a field-revealing "%+v" form.
func (t Token) Format(f fmt.State, verb rune) {
	if f.Flag('+') {
		switch t.Kind {
		case SequenceMarker:
			fmt.Fprintf(f, "%v marker=%q style=%v", t.Kind, t.Marker.Original, t.Marker.Style)
		case VerbatimBlockStart:
			fmt.Fprintf(f, "%v title=%q wall=%v", t.Kind, t.Text, t.Wall)
		case VerbatimContentLine:
			fmt.Fprintf(f, "%v indent=%d content=%q", t.Kind, t.Indent, t.Text)
		case Text, Whitespace, Identifier, QuotedString, BlankLine, VerbatimBlockEnd,
			RefMarker, CitationRef, PageRef, SessionRef, FootnoteRef:
			fmt.Fprintf(f, "%v %q", t.Kind, t.Text)
		default:
			fmt.Fprintf(f, "%v", t.Kind)
		}
		return
	}
	fmt.Fprintf(f, "%v", t.Kind)
}

// escapable is the set of characters that `\` suppresses the special meaning
// of, per spec §3.1 and §6.
const escapable = "*_`#[]-\\"

// isEscapable reports whether c may be escaped with a leading backslash.
func isEscapable(c byte) bool {
	for i := 0; i < len(escapable); i++ {
		if escapable[i] == c {
			return true
		}
	}
	return false
}

// DecodeEscapes un-escapes `\c` sequences for c in the escapable set,
// leaving any other backslash (including a trailing unescaped one) intact.
func DecodeEscapes(s string) string {
	if len(s) == 0 {
		return s
	}
	hasBackslash := false
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			hasBackslash = true
			break
		}
	}
	if !hasBackslash {
		return s
	}
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) && isEscapable(s[i+1]) {
			out = append(out, s[i+1])
			i++
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// TokenSequence is an ordered run of Tokens, shared immutably across layers
// (see §5's Open-Question resolution): every downstream node keeps the slice
// of Tokens that produced it instead of cloning or arena-indexing them.
type TokenSequence []Token

// Span returns the hull of every token's span, per §3.1.
func (ts TokenSequence) Span() SourceSpan {
	var span SourceSpan
	for _, t := range ts {
		span = span.Cover(t.Span)
	}
	return span
}

// Text concatenates literal token content, decoding escapes, per §3.1.
// Structural tokens (Indent/Dedent/Newline/Eof) contribute nothing.
func (ts TokenSequence) Text() string {
	var out []byte
	for _, t := range ts {
		switch t.Kind {
		case Indent, Dedent, Eof, Newline:
			continue
		case TxxtMarker:
			out = append(out, "::"...)
		case Colon:
			out = append(out, ':')
		case Equals:
			out = append(out, '=')
		case Comma:
			out = append(out, ',')
		case Dash:
			out = append(out, '-')
		case Period:
			out = append(out, '.')
		case LeftBracket:
			out = append(out, '[')
		case RightBracket:
			out = append(out, ']')
		case LeftParen:
			out = append(out, '(')
		case RightParen:
			out = append(out, ')')
		case AtSign:
			out = append(out, '@')
		case BoldDelimiter:
			out = append(out, '*')
		case ItalicDelimiter:
			out = append(out, '_')
		case CodeDelimiter:
			out = append(out, '`')
		case MathDelimiter:
			out = append(out, '#')
		case SequenceMarker:
			out = append(out, t.Marker.Original...)
		case CitationRef:
			out = append(out, '[', '@')
			out = append(out, t.Text...)
			out = append(out, ']')
		case FootnoteRef:
			out = append(out, '[')
			if t.Footnote == FootnoteLabelled {
				out = append(out, '^')
			}
			out = append(out, t.Text...)
			out = append(out, ']')
		case SessionRef:
			out = append(out, '[', '#')
			out = append(out, t.Text...)
			out = append(out, ']')
		case PageRef:
			out = append(out, '[', 'p')
			out = append(out, t.Text...)
			out = append(out, ']')
		case RefMarker:
			out = append(out, '[')
			out = append(out, t.Text...)
			out = append(out, ']')
		case QuotedString:
			out = append(out, '"')
			out = append(out, t.Text...)
			out = append(out, '"')
		default:
			out = append(out, DecodeEscapes(t.Text)...)
		}
	}
	return string(out)
}
