package txxt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/txxt"
	"github.com/jcorbin/txxt/ast"
	"github.com/jcorbin/txxt/printer"
)

func TestParse_TwoParagraphs(t *testing.T) {
	src := "First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n"
	doc, diags := txxt.Parse(src)
	require.Empty(t, diags)
	require.Len(t, doc.Root.Blocks, 2)
	assert.Equal(t, ast.ParagraphBlockKind, doc.Root.Blocks[0].Kind)
	assert.Len(t, doc.Root.Blocks[0].Lines, 2)
	assert.Equal(t, ast.ParagraphBlockKind, doc.Root.Blocks[1].Kind)
}

func TestParse_Session(t *testing.T) {
	src := "Intro\n\n    Nested line.\n"
	doc, diags := txxt.Parse(src)
	require.Empty(t, diags)
	require.Len(t, doc.Root.Blocks, 1)

	session := doc.Root.Blocks[0]
	assert.Equal(t, ast.SessionBlockKind, session.Kind)
	assert.Equal(t, "intro", session.Slug)
	require.Len(t, session.Sessions.Blocks, 1)
	assert.Equal(t, ast.ParagraphBlockKind, session.Sessions.Blocks[0].Kind)
}

func TestParse_ListWithNestedList(t *testing.T) {
	src := "- Item A\n- Item B\n    - Nested 1\n    - Nested 2\n"
	doc, diags := txxt.Parse(src)
	require.Empty(t, diags)
	require.Len(t, doc.Root.Blocks, 1)

	list := doc.Root.Blocks[0]
	require.Equal(t, ast.ListBlockKind, list.Kind)
	require.Len(t, list.Items, 2)
	assert.Nil(t, list.Items[0].Nested)

	itemB := list.Items[1]
	require.NotNil(t, itemB.Nested)
	require.Len(t, itemB.Nested.Blocks, 1)
	nested := itemB.Nested.Blocks[0]
	require.Equal(t, ast.ListBlockKind, nested.Kind)
	assert.Len(t, nested.Items, 2)
}

func TestParse_DefinitionWithListBody(t *testing.T) {
	src := "Parser:\n    A component that consumes tokens.\n    - Stage one\n    - Stage two\n"
	doc, diags := txxt.Parse(src)
	require.Empty(t, diags)
	require.Len(t, doc.Root.Blocks, 1)

	def := doc.Root.Blocks[0]
	require.Equal(t, ast.DefinitionBlockKind, def.Kind)
	require.NotNil(t, def.Content)
	require.Len(t, def.Content.Blocks, 2)
	assert.Equal(t, ast.ParagraphBlockKind, def.Content.Blocks[0].Kind)
	assert.Equal(t, ast.ListBlockKind, def.Content.Blocks[1].Kind)
}

func TestParse_AnnotationAndVerbatim(t *testing.T) {
	src := ":: note :: Important follows.\nexample:\n    line 1\n    line 2\n:: python\n"
	doc, diags := txxt.Parse(src)
	require.Empty(t, diags)
	require.Len(t, doc.Root.Blocks, 2)

	ann := doc.Root.Blocks[0]
	require.Equal(t, ast.AnnotationBlockKind, ann.Kind)
	assert.Equal(t, "note", ann.Label)
	assert.False(t, ann.HasBody)

	verb := doc.Root.Blocks[1]
	require.Equal(t, ast.VerbatimBlockKind, verb.Kind)
	assert.Equal(t, "example", verb.VerbatimTitle)
	assert.Equal(t, []string{"line 1", "line 2"}, verb.VerbatimLines)
	assert.Equal(t, "python", verb.VerbatimLabel)
}

func TestParse_RecursionLimitTruncates(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 150; i++ {
		sb.WriteString(strings.Repeat(" ", i*4))
		sb.WriteString("- item\n")
	}
	doc, diags := txxt.Parse(sb.String())

	var sawLimit bool
	for _, d := range diags {
		if strings.Contains(d.Message, "recursion limit") {
			sawLimit = true
		}
	}
	assert.True(t, sawLimit, "expected a recursion-limit diagnostic for deeply nested input")
	assert.NotNil(t, doc.Root)
}

func TestParse_RoundTripIsStable(t *testing.T) {
	sources := []string{
		"First paragraph line one.\nFirst paragraph line two.\n\nSecond paragraph.\n",
		"Intro\n\n    Nested line.\n",
		"- one\n- two\n- three\n",
	}
	for _, src := range sources {
		doc, diags := txxt.Parse(src)
		require.Empty(t, diags)

		var out strings.Builder
		require.NoError(t, printer.Print(&out, doc))

		reDoc, reDiags := txxt.Parse(out.String())
		require.Empty(t, reDiags)

		var reOut strings.Builder
		require.NoError(t, printer.Print(&reOut, reDoc))

		assert.Equal(t, out.String(), reOut.String(), "reformatting should be idempotent for %q", src)
	}
}
