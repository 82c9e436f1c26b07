// Package printer implements the canonical, format-preserving pretty-printer
// (spec §4.6): it reserializes a *ast.Document back into txxt source text,
// walking the container tree depth-first and writing each block's canonical
// form, the way scandown.Block.Format walks block state for debug printing
// but targeting real source reconstruction instead of an fmt.State.
package printer

import (
	"fmt"
	"io"
	"strings"

	"github.com/jcorbin/txxt/ast"
	"github.com/jcorbin/txxt/token"
)

// Print writes doc's canonical txxt source form to w. It does not fail on a
// well-formed AST; callers drive it only with values produced by
// assembler.Assemble (spec §4.6 failure semantics).
func Print(w io.Writer, doc *ast.Document) error {
	buf := &lineBuffer{to: w}
	p := &printer{buf: buf}
	if doc != nil && doc.Root != nil {
		p.writeBlocks(doc.Root.Blocks, 0)
	}
	return buf.flush()
}

type printer struct {
	buf *lineBuffer
}

func (p *printer) indent(col int) {
	if col > 0 {
		p.buf.WriteString(strings.Repeat(" ", col))
	}
}

func (p *printer) line(col int, s string) {
	p.indent(col)
	p.buf.WriteString(s)
	p.buf.WriteString("\n")
	p.buf.maybeFlush()
}

func (p *printer) blank() {
	p.buf.WriteString("\n")
	p.buf.maybeFlush()
}

// writeBlocks writes a container's direct children at indentation column
// col, inserting a blank line between every pair of siblings. A blank
// separator is always safe here (it never prevents reparse from recovering
// the same blocks) and is required before every non-leading SessionBlock and
// between any two same-kind gathering blocks (paragraphs, lists) that would
// otherwise merge back into one on reparse.
func (p *printer) writeBlocks(blocks []*ast.Block, col int) {
	for i, b := range blocks {
		if i > 0 {
			p.blank()
		}
		p.writeBlock(b, col)
	}
}

func (p *printer) writeBlock(b *ast.Block, col int) {
	switch b.Kind {
	case ast.ParagraphBlockKind:
		p.writeParagraph(b, col)
	case ast.ListBlockKind:
		p.writeList(b, col)
	case ast.DefinitionBlockKind:
		p.writeDefinition(b, col)
	case ast.AnnotationBlockKind:
		p.writeAnnotation(b, col)
	case ast.VerbatimBlockKind:
		p.writeVerbatim(b, col)
	case ast.SessionBlockKind:
		p.writeSession(b, col)
	case ast.BlankLineKind:
		p.blank()
	default:
		p.line(col, fmt.Sprintf("<!-- unknown block %v -->", b.Kind))
	}
}

func (p *printer) writeParagraph(b *ast.Block, col int) {
	for _, ln := range b.Lines {
		p.line(col, renderSpans(ln.Spans))
	}
}

func (p *printer) writeList(b *ast.Block, col int) {
	for _, item := range b.Items {
		p.line(col, item.Marker.Raw.Original+" "+renderSpans(item.Content))
		if item.Nested != nil && len(item.Nested.Blocks) > 0 {
			p.writeBlocks(item.Nested.Blocks, col+4)
		}
	}
}

func (p *printer) writeDefinition(b *ast.Block, col int) {
	p.line(col, renderSpans(b.Term)+":")
	if b.Content != nil {
		p.writeBlocks(b.Content.Blocks, col+4)
	}
}

func (p *printer) writeAnnotation(b *ast.Block, col int) {
	head := b.Label
	if len(b.Namespace) > 0 {
		head = strings.Join(b.Namespace, ".") + "." + b.Label
	}
	if s := renderParameters(b.Parameters); s != "" {
		head += " " + s
	}
	line := ":: " + head + " ::"
	if len(b.Inline) > 0 {
		line += " " + renderSpans(b.Inline)
	}
	p.line(col, line)
	if b.HasBody && b.Body != nil {
		p.writeBlocks(b.Body.Blocks, col+4)
	}
}

func (p *printer) writeVerbatim(b *ast.Block, col int) {
	p.line(col, b.VerbatimTitle+":")

	contentCol := col + 4
	if b.VerbatimType == token.WallStretched {
		contentCol = 0
	}
	if b.VerbatimType != token.WallEmpty {
		for _, ln := range b.VerbatimLines {
			if ln == "" {
				p.blank()
				continue
			}
			p.line(contentCol, ln)
		}
	}

	term := ":: " + b.VerbatimLabel
	if s := renderParameters(b.Parameters); s != "" {
		term += " " + s
	}
	p.line(col, term)
}

func (p *printer) writeSession(b *ast.Block, col int) {
	p.line(col, renderSpans(b.Title))
	p.blank()
	if b.Sessions != nil {
		p.writeBlocks(b.Sessions.Blocks, col+4)
	}
}

// renderParameters reconstructs a label's trailing "key=value, key2" text
// from its parsed Parameters (spec §4.3 point 6), quoting any value that
// itself contains whitespace or a comma.
func renderParameters(params ast.Parameters) string {
	keys := params.Keys()
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v, _ := params.Get(k)
		if v == "true" {
			parts = append(parts, k)
			continue
		}
		if strings.ContainsAny(v, " \t,\"") {
			v = `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(v) + `"`
		}
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ", ")
}

// escapable mirrors token.isEscapable's set (spec §3.1, §6): the
// characters whose special meaning a leading backslash suppresses.
const escapable = "*_`#[]-\\"

// renderSpans reconstructs a line's inline markup from its parsed spans,
// inverting inline.Parse. Plain text runs are re-escaped so that any of the
// delimiter-like characters they contain survive a reparse as literal text
// rather than being reinterpreted as markup.
func renderSpans(spans []ast.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		renderSpan(&sb, s)
	}
	return sb.String()
}

func renderSpan(sb *strings.Builder, s ast.Span) {
	switch s.Kind {
	case ast.TextSpanKind:
		sb.WriteString(escapeText(s.Text))
	case ast.BoldSpan:
		sb.WriteByte('*')
		for _, c := range s.Children {
			renderSpan(sb, c)
		}
		sb.WriteByte('*')
	case ast.ItalicSpan:
		sb.WriteByte('_')
		for _, c := range s.Children {
			renderSpan(sb, c)
		}
		sb.WriteByte('_')
	case ast.CodeSpan:
		sb.WriteByte('`')
		sb.WriteString(s.Text)
		sb.WriteByte('`')
	case ast.MathSpan:
		sb.WriteByte('#')
		sb.WriteString(s.Text)
		sb.WriteByte('#')
	case ast.CitationSpan:
		fmt.Fprintf(sb, "[@%s]", s.Target)
	case ast.FootnoteSpan:
		if s.Footnote == token.FootnoteLabelled {
			fmt.Fprintf(sb, "[^%s]", s.Target)
		} else {
			fmt.Fprintf(sb, "[%s]", s.Target)
		}
	case ast.SectionSpan:
		fmt.Fprintf(sb, "[#%s]", s.Target)
	default: // UrlSpan, FileSpan, TKSpan, UnresolvedSpan
		fmt.Fprintf(sb, "[%s]", s.Target)
	}
}

func escapeText(s string) string {
	if !strings.ContainsAny(s, escapable) {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(escapable, c) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	return sb.String()
}
