package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/txxt/scanner"
	"github.com/jcorbin/txxt/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScan_PlainParagraph(t *testing.T) {
	toks, diags := scanner.Scan("hello world\n")
	require.Empty(t, diags)
	assert.Equal(t, []token.Kind{
		token.Identifier, token.Whitespace, token.Identifier, token.Newline, token.Eof,
	}, kinds(toks))
}

func TestScan_IndentDedent(t *testing.T) {
	src := "Title\n\n    body text\n\nafter\n"
	toks, diags := scanner.Scan(src)
	require.Empty(t, diags)

	var structural []token.Kind
	for _, tk := range toks {
		switch tk.Kind {
		case token.Indent, token.Dedent, token.BlankLine, token.Eof:
			structural = append(structural, tk.Kind)
		}
	}
	assert.Equal(t, []token.Kind{
		token.BlankLine, token.Indent, token.BlankLine, token.Dedent, token.Eof,
	}, structural)
}

func TestScan_SequenceMarker(t *testing.T) {
	toks, diags := scanner.Scan("1. first item\n")
	require.Empty(t, diags)
	require.NotEmpty(t, toks)
	assert.Equal(t, token.SequenceMarker, toks[0].Kind)
	assert.Equal(t, token.MarkerNumerical, toks[0].Marker.Style)
	assert.Equal(t, uint64(1), toks[0].Marker.Numeric)
}

func TestScan_CitationAndFootnoteRefs(t *testing.T) {
	toks, diags := scanner.Scan("see [@smith2020] and [1] and [^note]\n")
	require.Empty(t, diags)

	var gotCitation, gotNumeric, gotLabelled bool
	for _, tk := range toks {
		switch tk.Kind {
		case token.CitationRef:
			gotCitation = tk.Text == "smith2020"
		case token.FootnoteRef:
			if tk.Footnote == token.FootnoteNumeric {
				gotNumeric = tk.Text == "1"
			} else {
				gotLabelled = tk.Text == "note"
			}
		}
	}
	assert.True(t, gotCitation)
	assert.True(t, gotNumeric)
	assert.True(t, gotLabelled)
}

func TestScan_VerbatimBlock(t *testing.T) {
	src := "example:\n\n    code here\n\n:: end\n"
	toks, diags := scanner.Scan(src)
	require.Empty(t, diags)

	require.GreaterOrEqual(t, len(toks), 3)
	assert.Equal(t, token.VerbatimBlockStart, toks[0].Kind)
	assert.Equal(t, "example", toks[0].Text)
	assert.Equal(t, token.WallInFlow, toks[0].Wall)

	var sawContent, sawEnd bool
	for _, tk := range toks {
		if tk.Kind == token.VerbatimContentLine {
			sawContent = true
		}
		if tk.Kind == token.VerbatimBlockEnd {
			sawEnd = true
			assert.Equal(t, "end", tk.Text)
		}
	}
	assert.True(t, sawContent)
	assert.True(t, sawEnd)
}

func TestScan_EmptySourceEmitsEOF(t *testing.T) {
	toks, diags := scanner.Scan("")
	require.Empty(t, diags)
	require.Len(t, toks, 1)
	assert.Equal(t, token.Eof, toks[0].Kind)
}

func TestScan_FormattingDelimitersEmittedUnconditionally(t *testing.T) {
	toks, _ := scanner.Scan("*bold* and _italic_ and `code`\n")
	var counts = map[token.Kind]int{}
	for _, tk := range toks {
		counts[tk.Kind]++
	}
	assert.Equal(t, 2, counts[token.BoldDelimiter])
	assert.Equal(t, 2, counts[token.ItalicDelimiter])
	assert.Equal(t, 2, counts[token.CodeDelimiter])
}
