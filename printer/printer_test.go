package printer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcorbin/txxt"
	"github.com/jcorbin/txxt/printer"
)

func printSource(t *testing.T, src string) string {
	t.Helper()
	doc, diags := txxt.Parse(src)
	require.Empty(t, diags)
	var out strings.Builder
	require.NoError(t, printer.Print(&out, doc))
	return out.String()
}

func TestPrint_Paragraph(t *testing.T) {
	got := printSource(t, "hello world\n")
	assert.Equal(t, "hello world\n", got)
}

func TestPrint_Session(t *testing.T) {
	got := printSource(t, "Intro\n\n    Nested line.\n")
	assert.Equal(t, "Intro\n\n    Nested line.\n", got)
}

func TestPrint_List(t *testing.T) {
	got := printSource(t, "- one\n- two\n")
	assert.Equal(t, "- one\n- two\n", got)
}

func TestPrint_VerbatimPreservesContent(t *testing.T) {
	src := ":: note :: Important follows.\nexample:\n    line 1\n    line 2\n:: python\n"
	got := printSource(t, src)
	assert.Contains(t, got, "line 1\n")
	assert.Contains(t, got, "line 2\n")
	assert.Contains(t, got, ":: python")
	assert.NotContains(t, got, "        line 1")
}

func TestPrint_EmptyDocument(t *testing.T) {
	got := printSource(t, "")
	assert.Equal(t, "", got)
}
