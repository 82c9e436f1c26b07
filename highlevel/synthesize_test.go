package highlevel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/txxt/highlevel"
	"github.com/jcorbin/txxt/scanner"
)

func synth(t *testing.T, src string) []highlevel.Token {
	t.Helper()
	toks, diags := scanner.Scan(src)
	require.Empty(t, diags)
	hl, diags := highlevel.Synthesize(toks)
	require.Empty(t, diags)
	return hl
}

func TestSynthesize_PlainTextLine(t *testing.T) {
	hl := synth(t, "hello world\n")
	require.NotEmpty(t, hl)
	assert.Equal(t, highlevel.PlainTextLine, hl[0].Kind)
	assert.Equal(t, "hello world", hl[0].Content.Content)
}

func TestSynthesize_WallDiscipline(t *testing.T) {
	hl := synth(t, "Title\n\n    Nested line.\n")
	var found bool
	for _, tok := range hl {
		if tok.Kind == highlevel.PlainTextLine && tok.Content.Content == "Nested line." {
			found = true
			assert.Equal(t, "    ", tok.IndentationChars)
		}
	}
	assert.True(t, found)
}

func TestSynthesize_Annotation(t *testing.T) {
	hl := synth(t, ":: note :: Important follows.\n")
	require.NotEmpty(t, hl)
	assert.Equal(t, highlevel.Annotation, hl[0].Kind)
	assert.Equal(t, "note", hl[0].Label.Text)
	assert.True(t, hl[0].HasInline)
	assert.Equal(t, "Important follows.", hl[0].InlineContent.Content)
}

func TestSynthesize_Definition(t *testing.T) {
	hl := synth(t, "Parser:\n    A thing.\n")
	require.NotEmpty(t, hl)
	assert.Equal(t, highlevel.Definition, hl[0].Kind)
	assert.Equal(t, "Parser", hl[0].Term.Content)
}

func TestSynthesize_ColonWithoutIndentIsPlainText(t *testing.T) {
	hl := synth(t, "Parser:\nMore text.\n")
	require.NotEmpty(t, hl)
	assert.Equal(t, highlevel.PlainTextLine, hl[0].Kind)
}

func TestSynthesize_SequenceTextLine(t *testing.T) {
	hl := synth(t, "- Item A\n- Item B\n")
	require.Len(t, hl, 2)
	assert.Equal(t, highlevel.SequenceTextLine, hl[0].Kind)
	assert.Equal(t, "Item A", hl[0].Content.Content)
}

func TestSynthesize_VerbatimBlock(t *testing.T) {
	hl := synth(t, "example:\n\n    code here\n\n:: python\n")
	require.NotEmpty(t, hl)
	assert.Equal(t, highlevel.VerbatimBlock, hl[0].Kind)
	assert.Equal(t, "example", hl[0].Title)
	assert.Equal(t, "python", hl[0].VerbatimLabel.Text)
	require.Len(t, hl[0].VerbatimContent, 2)
	assert.Equal(t, highlevel.IgnoreLine, hl[0].VerbatimContent[0].Kind)
	assert.Equal(t, highlevel.BlankLine, hl[0].VerbatimContent[1].Kind)
}
