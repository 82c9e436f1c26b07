package assembler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/txxt/assembler"
	"github.com/jcorbin/txxt/ast"
	"github.com/jcorbin/txxt/highlevel"
	"github.com/jcorbin/txxt/scanner"
)

func build(t *testing.T, src string) *ast.Document {
	t.Helper()
	toks, diags := scanner.Scan(src)
	require.Empty(t, diags)
	hl, diags := highlevel.Synthesize(toks)
	require.Empty(t, diags)
	return assembler.Assemble(hl)
}

func TestAssemble_DefinitionBodyParagraphThenList(t *testing.T) {
	doc := build(t, "Parser:\n    A component that consumes tokens.\n    - Stage one\n    - Stage two\n")
	require.Len(t, doc.Root.Blocks, 1)

	def := doc.Root.Blocks[0]
	require.Equal(t, ast.DefinitionBlockKind, def.Kind)
	require.Len(t, def.Content.Blocks, 2)
	assert.Equal(t, ast.ParagraphBlockKind, def.Content.Blocks[0].Kind)
	assert.Equal(t, ast.ListBlockKind, def.Content.Blocks[1].Kind)
}

func TestAssemble_ListRequiresTwoItems(t *testing.T) {
	doc := build(t, "- only one\n")
	require.Len(t, doc.Root.Blocks, 1)
	assert.Equal(t, ast.ParagraphBlockKind, doc.Root.Blocks[0].Kind)
}

func TestAssemble_SessionNestsSessions(t *testing.T) {
	doc := build(t, "Outer\n\n    Inner\n\n        deep paragraph\n")
	require.Len(t, doc.Root.Blocks, 1)
	outer := doc.Root.Blocks[0]
	require.Equal(t, ast.SessionBlockKind, outer.Kind)
	require.Len(t, outer.Sessions.Blocks, 1)
	inner := outer.Sessions.Blocks[0]
	assert.Equal(t, ast.SessionBlockKind, inner.Kind)
}

func TestAssemble_RecursionLimitEmitsDiagnostic(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 150; i++ {
		sb.WriteString(strings.Repeat(" ", i*4))
		sb.WriteString("- item\n")
	}
	toks, diags := scanner.Scan(sb.String())
	require.Empty(t, diags)
	hl, diags := highlevel.Synthesize(toks)
	require.Empty(t, diags)

	doc := assembler.Assemble(hl)
	var sawLimit bool
	for _, d := range doc.Diagnostics {
		if strings.Contains(d.Message, "recursion limit") {
			sawLimit = true
		}
	}
	assert.True(t, sawLimit)
}
