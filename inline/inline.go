// Package inline implements the inline pipeline (spec §4.5): a delimiter
// matcher finds candidate spans, a classifier assigns each a type key, and a
// processor builds the final ast.Span. The delimiters come from the fixed
// formattingKind table; there is no registration step and no check for
// duplicate delimiters. Unmatched
// delimiters and unclassifiable references degrade to plain text rather
// than failing the parse.
package inline

import (
	"strings"

	"github.com/jcorbin/txxt/ast"
	"github.com/jcorbin/txxt/token"
)

// formattingKind maps a delimiter's token.Kind to its ast.SpanKind. Whether
// a kind nests (Bold/Italic do; Code/Math are literal) is decided by
// buildFormattingSpan.
var formattingKind = map[token.Kind]ast.SpanKind{
	token.BoldDelimiter:   ast.BoldSpan,
	token.ItalicDelimiter: ast.ItalicSpan,
	token.CodeDelimiter:   ast.CodeSpan,
	token.MathDelimiter:   ast.MathSpan,
}

// Parse transforms one line's token sequence into its inline AST spans
// (spec §4.5). It is the pipeline's entry point, called once per
// TextLine/title/item-content/annotation-inline span.
func Parse(line token.TokenSequence) []ast.Span {
	return parseContext{forbidden: noSpanKind}.parse(line)
}

type parseContext struct {
	forbidden ast.SpanKind // like-in-like nesting guard (spec §4.5, §3.6)
}

const noSpanKind = ast.SpanKind(0)

// parse walks toks left to right, matching delimiter pairs and reference
// brackets, falling back to plain text for anything unmatched.
func (pc parseContext) parse(toks token.TokenSequence) []ast.Span {
	var spans []ast.Span
	var textRun []token.Token

	flush := func() {
		if len(textRun) == 0 {
			return
		}
		seq := token.TokenSequence(textRun)
		spans = append(spans, ast.Span{Kind: ast.TextSpanKind, Span: seq.Span(), Tokens: seq, Text: seq.Text()})
		textRun = nil
	}

	i := 0
	for i < len(toks) {
		t := toks[i]

		if kind, ok := formattingKind[t.Kind]; ok && kind != pc.forbidden {
			if end := findCloseDelimiter(toks, i+1, t.Kind); end >= 0 {
				flush()
				inner := toks[i+1 : end]
				span := buildFormattingSpan(pc, kind, toks[i:end+1], inner)
				spans = append(spans, span)
				i = end + 1
				continue
			}
		}

		if span, ok := classifyRefToken(t); ok {
			flush()
			spans = append(spans, span)
			i++
			continue
		}

		if t.Kind == token.LeftBracket {
			if end := findMatchingBracket(toks, i+1); end >= 0 {
				flush()
				full := toks[i : end+1]
				inner := toks[i+1 : end]
				spans = append(spans, classifyReference(full, inner))
				i = end + 1
				continue
			}
		}

		textRun = append(textRun, t)
		i++
	}
	flush()
	return spans
}

// findCloseDelimiter finds the next token of the same kind at or after
// start, never crossing a line boundary (delimiters never carry
// Newline/BlankLine tokens within a single TextLine's TokenSequence anyway,
// but the scan still stops early on an empty candidate to reject zero-length
// spans, per spec §4.5 point 1).
func findCloseDelimiter(toks token.TokenSequence, start int, kind token.Kind) int {
	for i := start; i < len(toks); i++ {
		if toks[i].Kind == kind {
			if i == start {
				return -1 // zero-length content rejected
			}
			return i
		}
	}
	return -1
}

// classifyRefToken builds a reference Span directly from a scanner token the
// scanner already classified during tokenization (CitationRef, FootnoteRef,
// SessionRef, PageRef, RefMarker) — the bracket-matching path below only ever
// sees an unclassified "[...]" the scanner left as plain LeftBracket/
// RightBracket, which in practice is an empty "[]"; a '[' with no closing
// bracket on the line finds no match there and stays plain text.
func classifyRefToken(t token.Token) (ast.Span, bool) {
	seq := token.TokenSequence{t}
	base := ast.Span{Span: t.Span, Tokens: seq, Target: t.Text}
	switch t.Kind {
	case token.CitationRef:
		base.Kind = ast.CitationSpan
	case token.FootnoteRef:
		base.Kind = ast.FootnoteSpan
		base.Footnote = t.Footnote
	case token.SessionRef:
		base.Kind = ast.SectionSpan
	case token.PageRef:
		base.Kind = ast.UnresolvedSpan
		base.Target = "p" + t.Text
	case token.RefMarker:
		base.Kind = classifyRefMarkerKind(t.Text)
	default:
		return ast.Span{}, false
	}
	return base, true
}

func classifyRefMarkerKind(content string) ast.SpanKind {
	switch {
	case looksLikeURL(content):
		return ast.UrlSpan
	case content == "TK" || content == "tk":
		return ast.TKSpan
	case looksLikeFilePath(content):
		return ast.FileSpan
	default:
		return ast.UnresolvedSpan
	}
}

func findMatchingBracket(toks token.TokenSequence, start int) int {
	for i := start; i < len(toks); i++ {
		if toks[i].Kind == token.RightBracket {
			return i
		}
	}
	return -1
}

// buildFormattingSpan constructs a Bold/Italic/Code/Math span. Bold/Italic
// recurse into their inner tokens with the like-in-like nesting guard set;
// Code/Math are literal (spec §3.6).
func buildFormattingSpan(pc parseContext, kind ast.SpanKind, full, inner token.TokenSequence) ast.Span {
	switch kind {
	case ast.CodeSpan, ast.MathSpan:
		return ast.Span{Kind: kind, Span: full.Span(), Tokens: full, Text: inner.Text()}
	default:
		childCtx := parseContext{forbidden: kind}
		return ast.Span{Kind: kind, Span: full.Span(), Tokens: full, Children: childCtx.parse(inner)}
	}
}

// classifyReference assigns a type key to a "[...]" span's content using
// the precedence order from spec §4.5 point 2.
func classifyReference(full, inner token.TokenSequence) ast.Span {
	content := inner.Text()
	base := ast.Span{Span: full.Span(), Tokens: full}

	switch {
	case strings.HasPrefix(content, "@"):
		base.Kind = ast.CitationSpan
		base.Target = content[1:]
	case isAllDigits(content):
		base.Kind = ast.FootnoteSpan
		base.Footnote = token.FootnoteNumeric
		base.Target = content
	case strings.HasPrefix(content, "^"):
		base.Kind = ast.FootnoteSpan
		base.Footnote = token.FootnoteLabelled
		base.Target = content[1:]
	case strings.HasPrefix(content, "#"):
		base.Kind = ast.SectionSpan
		base.Target = content[1:]
	case looksLikeURL(content):
		base.Kind = ast.UrlSpan
		base.Target = content
	case content == "TK" || content == "tk":
		base.Kind = ast.TKSpan
		base.Target = content
	case looksLikeFilePath(content):
		base.Kind = ast.FileSpan
		base.Target = content
	default:
		base.Kind = ast.UnresolvedSpan
		base.Target = content
	}
	return base
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// looksLikeURL reports whether content carries a URI scheme (e.g.
// "https://...") or a bare host-looking prefix ("www.").
func looksLikeURL(content string) bool {
	if i := strings.Index(content, "://"); i > 0 {
		return isIdentifierish(content[:i])
	}
	return strings.HasPrefix(content, "www.")
}

func isIdentifierish(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		ok := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '+' || c == '-' || c == '.'
		if !ok {
			return false
		}
	}
	return true
}

// looksLikeFilePath reports whether content resembles a relative or
// absolute filesystem path (spec §6 example: "[./file.txxt#anchor]").
func looksLikeFilePath(content string) bool {
	return strings.HasPrefix(content, "./") || strings.HasPrefix(content, "../") || strings.HasPrefix(content, "/")
}
