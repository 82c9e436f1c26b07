// Package assembler implements the context-gated recursive-descent block
// assembler (spec §4.4): it consumes a flat high-level token stream and
// builds a typed AST, resolving nesting by re-entering itself on the tokens
// enclosed by each Indent/Dedent pair.
package assembler

import (
	"fmt"

	"github.com/jcorbin/txxt/ast"
	"github.com/jcorbin/txxt/highlevel"
	"github.com/jcorbin/txxt/inline"
	"github.com/jcorbin/txxt/token"
)

// Context is one of the four parsing contexts named in spec §4.4; it
// determines which element patterns are recognized at the current position.
type Context int

// Context values, one per context in spec §4.4's table (DocumentRoot,
// SessionContainer, ContentContainer, ListContent).
const (
	DocumentRoot Context = iota
	SessionContext
	ContentContext
	ListContentContext
)

const maxRecursionDepth = 100

type state struct {
	diags []token.Diagnostic
}

// Assemble runs the block assembler over a high-level token stream,
// producing a Document rooted at a SessionContainer.
func Assemble(toks []highlevel.Token) *ast.Document {
	s := &state{}
	root := &ast.SessionContainer{}
	for _, b := range s.assembleBlocks(toks, DocumentRoot, 0) {
		root.Add(b)
	}
	return &ast.Document{Root: root, Diagnostics: s.diags}
}

func (s *state) errf(span token.SourceSpan, format string, args ...any) {
	s.diags = append(s.diags, token.Diagnostic{
		Severity: token.Error,
		Span:     span,
		Message:  fmt.Sprintf(format, args...),
	})
}

func sessionAllowed(ctx Context) bool {
	return ctx == DocumentRoot || ctx == SessionContext
}

func definitionAllowed(ctx Context) bool {
	return ctx != ListContentContext
}

// consumeIndentBlock returns the tokens strictly between toks[pos] (an
// Indent) and its matching Dedent, plus the index just past that Dedent.
// Nested Indent/Dedent pairs inside are tracked so they don't prematurely
// terminate the enclosing container (spec §4.4).
func consumeIndentBlock(toks []highlevel.Token, pos int) ([]highlevel.Token, int) {
	depth := 1
	start := pos + 1
	i := start
	for i < len(toks) {
		switch toks[i].Kind {
		case highlevel.Indent:
			depth++
		case highlevel.Dedent:
			depth--
			if depth == 0 {
				return toks[start:i], i + 1
			}
		}
		i++
	}
	return toks[start:], len(toks)
}

func isTitleLine(t highlevel.Token) bool {
	return t.Kind == highlevel.PlainTextLine || t.Kind == highlevel.SequenceTextLine
}

// assembleBlocks is the top-level pattern loop (spec §4.4): at each
// position it tries the fixed-precedence patterns in order, falling through
// to the next on mismatch, and always makes forward progress.
func (s *state) assembleBlocks(toks []highlevel.Token, ctx Context, depth int) []*ast.Block {
	if depth > maxRecursionDepth {
		s.errf(token.SourceSpan{}, "recursion limit exceeded (depth > %d); subtree truncated", maxRecursionDepth)
		return nil
	}

	var blocks []*ast.Block
	atStart := true
	i, n := 0, len(toks)

	for i < n {
		t := toks[i]

		// 1. Annotation
		if t.Kind == highlevel.Annotation {
			b, consumed := s.buildAnnotation(toks[i:], depth)
			blocks = append(blocks, b)
			i += consumed
			atStart = false
			continue
		}

		// 2. VerbatimBlock
		if t.Kind == highlevel.VerbatimBlock {
			blocks = append(blocks, buildVerbatim(t))
			i++
			atStart = false
			continue
		}

		// 3. Definition: "Definition … Indent … Dedent"
		if t.Kind == highlevel.Definition && definitionAllowed(ctx) && i+1 < n && toks[i+1].Kind == highlevel.Indent {
			inner, after := consumeIndentBlock(toks, i+1)
			body := s.assembleSimple(inner, depth+1)
			blocks = append(blocks, buildDefinition(t, body))
			i = after
			atStart = false
			continue
		}

		// 4. Session: "(start) Title BlankLine Indent…Dedent" or
		//    "BlankLine Title BlankLine Indent…Dedent"
		if sessionAllowed(ctx) {
			if atStart && isTitleLine(t) && i+2 < n &&
				toks[i+1].Kind == highlevel.BlankLine && toks[i+2].Kind == highlevel.Indent {
				inner, after := consumeIndentBlock(toks, i+2)
				body := s.assembleSession(inner, depth+1)
				blocks = append(blocks, buildSession(t, body))
				i = after
				atStart = false
				continue
			}
			if t.Kind == highlevel.BlankLine && i+3 < n &&
				isTitleLine(toks[i+1]) && toks[i+2].Kind == highlevel.BlankLine && toks[i+3].Kind == highlevel.Indent {
				inner, after := consumeIndentBlock(toks, i+3)
				body := s.assembleSession(inner, depth+1)
				blocks = append(blocks, buildSession(toks[i+1], body))
				i = after
				atStart = false
				continue
			}
		}

		// 5. List: two or more consecutive SequenceTextLine tokens.
		if t.Kind == highlevel.SequenceTextLine {
			items, consumed := s.gatherListItems(toks[i:], depth)
			if len(items) >= 2 {
				blocks = append(blocks, buildList(items))
				i += consumed
				atStart = false
				continue
			}
			// Single isolated SequenceTextLine: treated as a paragraph whose
			// content is marker+content, preserving round-trip semantics
			// (spec §4.4 "Single-line blocks become paragraphs"). Any
			// nested content it gathered is flattened into the enclosing
			// container rather than discarded.
			lone := t.Tokens
			if t.IndentationChars != "" {
				lone = lone[1:]
			}
			blocks = append(blocks, buildParagraphFromTokens(lone))
			if nested := items[0].Nested; nested != nil {
				blocks = append(blocks, nested.Blocks...)
			}
			i += consumed
			atStart = false
			continue
		}

		// 6. Standalone BlankLine: skip.
		if t.Kind == highlevel.BlankLine {
			i++
			atStart = false
			continue
		}

		// 7. Paragraph: one or more consecutive PlainTextLine tokens.
		if t.Kind == highlevel.PlainTextLine {
			lines, consumed := gatherParagraphLines(toks[i:])
			blocks = append(blocks, buildParagraph(lines))
			i += consumed
			atStart = false
			continue
		}

		// No rule matched: advance one token to guarantee termination
		// (spec §4.4 failure semantics).
		i++
		atStart = false
	}

	return blocks
}

// assembleSession recurses with SessionContext into a SessionContainer.
func (s *state) assembleSession(toks []highlevel.Token, depth int) *ast.SessionContainer {
	c := &ast.SessionContainer{}
	for _, b := range s.assembleBlocks(toks, SessionContext, depth) {
		c.Add(b)
	}
	return c
}

// assembleContent recurses with ContentContext into a ContentContainer
// (used for list-item nested content).
func (s *state) assembleContent(toks []highlevel.Token, depth int) *ast.ContentContainer {
	c := &ast.ContentContainer{}
	for _, b := range s.assembleBlocks(toks, ContentContext, depth) {
		if err := c.Add(b); err != nil {
			s.errf(b.Span, "%v", err)
		}
	}
	return c
}

// assembleSimple recurses with ListContentContext into a SimpleContainer
// (used for definition and annotation bodies).
func (s *state) assembleSimple(toks []highlevel.Token, depth int) *ast.SimpleContainer {
	c := &ast.SimpleContainer{}
	for _, b := range s.assembleBlocks(toks, ListContentContext, depth) {
		if err := c.Add(b); err != nil {
			s.errf(b.Span, "%v", err)
		}
	}
	return c
}

func gatherParagraphLines(toks []highlevel.Token) ([]highlevel.Token, int) {
	i := 0
	for i < len(toks) && toks[i].Kind == highlevel.PlainTextLine {
		i++
	}
	if i == 0 {
		return nil, 0
	}
	return toks[:i], i
}

func buildParagraph(lines []highlevel.Token) *ast.Block {
	var (
		textLines []ast.TextLine
		full      token.TokenSequence
	)
	for _, ln := range lines {
		full = append(full, ln.Tokens...)
		textLines = append(textLines, ast.TextLine{
			Span:   ln.Span,
			Tokens: ln.Tokens,
			Spans:  inline.Parse(ln.Content.Tokens),
		})
	}
	return &ast.Block{Kind: ast.ParagraphBlockKind, Span: full.Span(), Tokens: full, Lines: textLines}
}

func buildParagraphFromTokens(toks token.TokenSequence) *ast.Block {
	return &ast.Block{
		Kind:   ast.ParagraphBlockKind,
		Span:   toks.Span(),
		Tokens: toks,
		Lines: []ast.TextLine{{
			Span:   toks.Span(),
			Tokens: toks,
			Spans:  inline.Parse(toks),
		}},
	}
}

func buildDefinition(t highlevel.Token, body *ast.SimpleContainer) *ast.Block {
	return &ast.Block{
		Kind:       ast.DefinitionBlockKind,
		Span:       t.Span,
		Tokens:     t.Tokens,
		Parameters: t.Parameters,
		Term:       inline.Parse(t.Term.Tokens),
		Content:    body,
	}
}

func buildSession(title highlevel.Token, body *ast.SessionContainer) *ast.Block {
	spans := inline.Parse(title.Content.Tokens)
	text := title.Content.Content
	if title.Kind == highlevel.SequenceTextLine {
		text = title.Marker.Raw.Original + " " + title.Content.Content
	}
	return &ast.Block{
		Kind:     ast.SessionBlockKind,
		Span:     title.Span,
		Tokens:   title.Tokens,
		Title:    spans,
		Slug:     ast.SlugForTitle(text),
		Sessions: body,
	}
}

func buildVerbatim(t highlevel.Token) *ast.Block {
	lines := make([]string, len(t.VerbatimContent))
	for i, ln := range t.VerbatimContent {
		if ln.Kind == highlevel.IgnoreLine {
			lines[i] = ln.Content.Content
		}
	}
	return &ast.Block{
		Kind:          ast.VerbatimBlockKind,
		Span:          t.Span,
		Tokens:        t.Tokens,
		Parameters:    t.Parameters,
		VerbatimTitle: t.Title,
		VerbatimType:  t.WallType,
		VerbatimLines: lines,
		VerbatimLabel: t.VerbatimLabel.Text,
	}
}

func (s *state) buildAnnotation(toks []highlevel.Token, depth int) (*ast.Block, int) {
	t := toks[0]
	b := &ast.Block{
		Kind:       ast.AnnotationBlockKind,
		Span:       t.Span,
		Tokens:     t.Tokens,
		Parameters: t.Parameters,
		Label:      t.Label.Text,
		Namespace:  t.Label.Namespaces,
	}
	if t.HasInline {
		b.Inline = inline.Parse(t.InlineContent.Tokens)
	}
	consumed := 1
	if consumed < len(toks) && toks[consumed].Kind == highlevel.Indent {
		inner, after := consumeIndentBlock(toks, consumed)
		b.Body = s.assembleSimple(inner, depth+1)
		b.HasBody = true
		consumed = after
	}
	return b, consumed
}

func (s *state) gatherListItems(toks []highlevel.Token, depth int) ([]ast.ListItem, int) {
	var items []ast.ListItem
	i, n := 0, len(toks)
	for i < n && toks[i].Kind == highlevel.SequenceTextLine {
		line := toks[i]
		i++
		item := ast.ListItem{
			Marker:  line.Marker,
			Span:    line.Span,
			Tokens:  line.Tokens,
			Content: inline.Parse(line.Content.Tokens),
		}
		if i < n && toks[i].Kind == highlevel.Indent {
			inner, after := consumeIndentBlock(toks, i)
			item.Nested = s.assembleContent(inner, depth+1)
			i = after
		}
		items = append(items, item)
	}
	return items, i
}

func buildList(items []ast.ListItem) *ast.Block {
	var full token.TokenSequence
	for _, it := range items {
		full = append(full, it.Tokens...)
	}
	style, form := items[0].Marker.Style, items[0].Marker.Form
	return &ast.Block{
		Kind:       ast.ListBlockKind,
		Span:       full.Span(),
		Tokens:     full,
		Decoration: ast.ListDecoration{Style: style, Form: form},
		Items:      items,
	}
}
