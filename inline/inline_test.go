package inline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/txxt/ast"
	"github.com/jcorbin/txxt/inline"
	"github.com/jcorbin/txxt/scanner"
)

func parseLine(t *testing.T, src string) []ast.Span {
	t.Helper()
	toks, diags := scanner.Scan(src)
	require.Empty(t, diags)
	// drop the trailing Newline/Eof so Parse sees only the line's content.
	n := len(toks)
	for n > 0 && (toks[n-1].Kind.String() == "Newline" || toks[n-1].Kind.String() == "Eof") {
		n--
	}
	return inline.Parse(toks[:n])
}

func TestParse_BoldSpan(t *testing.T) {
	spans := parseLine(t, "*bold text*\n")
	require.Len(t, spans, 1)
	assert.Equal(t, ast.BoldSpan, spans[0].Kind)
	require.Len(t, spans[0].Children, 1)
	assert.Equal(t, ast.TextSpanKind, spans[0].Children[0].Kind)
	assert.Equal(t, "bold text", spans[0].Children[0].Text)
}

func TestParse_NestedItalicInsideBoldAllowed(t *testing.T) {
	spans := parseLine(t, "*bold _and italic_ text*\n")
	require.Len(t, spans, 1)
	require.Equal(t, ast.BoldSpan, spans[0].Kind)

	var sawItalic bool
	for _, c := range spans[0].Children {
		if c.Kind == ast.ItalicSpan {
			sawItalic = true
		}
	}
	assert.True(t, sawItalic)
}

func TestParse_LikeInLikeNestingForbidden(t *testing.T) {
	// A second, unmatched '*' inside a bold span can't open a nested bold
	// span; it falls back to plain text within the outer span's content.
	spans := parseLine(t, "*outer *inner* text*\n")
	require.Len(t, spans, 1)
	require.Equal(t, ast.BoldSpan, spans[0].Kind)
	for _, c := range spans[0].Children {
		assert.NotEqual(t, ast.BoldSpan, c.Kind)
	}
}

func TestParse_CitationReference(t *testing.T) {
	spans := parseLine(t, "see [@smith2020] for details\n")
	require.Len(t, spans, 3)
	assert.Equal(t, ast.CitationSpan, spans[1].Kind)
	assert.Equal(t, "smith2020", spans[1].Target)
}

func TestParse_UnmatchedDelimiterFallsBackToText(t *testing.T) {
	spans := parseLine(t, "just *an asterisk\n")
	require.Len(t, spans, 1)
	assert.Equal(t, ast.TextSpanKind, spans[0].Kind)
}
