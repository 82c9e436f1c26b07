// Package txxt is the single external entry point wiring the four pipeline
// layers together: verbatim pre-scan + scanning (scanner), high-level token
// synthesis (highlevel), and block assembly + AST construction (assembler).
// It owns no global state — every call to Parse is independent, matching
// the concurrency model's parallelism requirement (spec §5).
package txxt

import (
	"strings"

	"github.com/jcorbin/txxt/assembler"
	"github.com/jcorbin/txxt/ast"
	"github.com/jcorbin/txxt/highlevel"
	"github.com/jcorbin/txxt/scanner"
	"github.com/jcorbin/txxt/token"
)

// Parse runs the full pipeline over source, producing a Document rooted at a
// SessionContainer plus every diagnostic accumulated across all three stages
// (spec §6 "External Interfaces"). Parsing is total: malformed input never
// aborts, it only accumulates diagnostics alongside a best-effort AST.
func Parse(source string) (*ast.Document, []token.Diagnostic) {
	source = normalizeNewlines(source)

	scanToks, scanDiags := scanner.Scan(source)
	hlToks, hlDiags := highlevel.Synthesize(scanToks)
	doc := assembler.Assemble(hlToks)

	diags := make([]token.Diagnostic, 0, len(scanDiags)+len(hlDiags)+len(doc.Diagnostics))
	diags = append(diags, scanDiags...)
	diags = append(diags, hlDiags...)
	diags = append(diags, doc.Diagnostics...)
	doc.Diagnostics = diags

	return doc, diags
}

// normalizeNewlines collapses CRLF to LF before any layer sees the source,
// per spec §6: "CRLF is normalized to LF for span computation."
func normalizeNewlines(source string) string {
	if !strings.Contains(source, "\r") {
		return source
	}
	source = strings.ReplaceAll(source, "\r\n", "\n")
	return strings.ReplaceAll(source, "\r", "\n")
}
