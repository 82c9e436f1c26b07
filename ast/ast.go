// Package ast defines the closed sum types that make up a parsed txxt
// document: span elements, line elements, block elements, and the three
// container kinds (SessionContainer, ContentContainer, SimpleContainer)
// whose child restrictions are enforced at construction time rather than by
// an interface hierarchy per element kind. There is no separate container
// for verbatim content; a VerbatimBlock holds its lines directly.
package ast

import (
	"fmt"

	sanitizedanchorname "github.com/shurcooL/sanitized_anchor_name"

	"github.com/jcorbin/txxt/highlevel"
	"github.com/jcorbin/txxt/token"
)

// Parameters is the AST-level parameter map, carried over verbatim from the
// high-level layer's parsed label parameters.
type Parameters = highlevel.Parameters

// SpanKind tags a Span's variant.
type SpanKind int

// SpanKind values (spec §3.4).
const (
	noSpanKind SpanKind = iota
	TextSpanKind
	BoldSpan
	ItalicSpan
	CodeSpan
	MathSpan
	CitationSpan
	FootnoteSpan
	SectionSpan
	UrlSpan
	FileSpan
	TKSpan
	UnresolvedSpan
)

var spanKindNames = map[SpanKind]string{
	TextSpanKind: "Text", BoldSpan: "Bold", ItalicSpan: "Italic", CodeSpan: "Code", MathSpan: "Math",
	CitationSpan: "Citation", FootnoteSpan: "Footnote", SectionSpan: "Section",
	UrlSpan: "Url", FileSpan: "File", TKSpan: "TK", UnresolvedSpan: "Unresolved",
}

// String implements fmt.Stringer.
func (k SpanKind) String() string {
	if s, ok := spanKindNames[k]; ok {
		return s
	}
	return "SpanKind?"
}

// Span is a single inline element with no newlines (spec §3.4 "Span
// elements"). Bold/Italic carry nested Children; Code/Math carry literal
// Text; the reference kinds carry a classified Target.
type Span struct {
	Kind     SpanKind
	Span     token.SourceSpan
	Tokens   token.TokenSequence
	Text     string  // TextSpanKind, CodeSpan, MathSpan
	Children []Span  // BoldSpan, ItalicSpan
	Target   string  // reference kinds: the content between [ and ], minus the leading @, ^ or # of citations, labelled footnotes and sections
	Footnote token.FootnoteKind
}

// Format implements fmt.Formatter for debug/test readability.
func (s Span) Format(f fmt.State, verb rune) {
	switch s.Kind {
	case TextSpanKind, CodeSpan, MathSpan:
		fmt.Fprintf(f, "%v(%q)", s.Kind, s.Text)
	case BoldSpan, ItalicSpan:
		fmt.Fprintf(f, "%v(%v)", s.Kind, s.Children)
	case CitationSpan, FootnoteSpan, SectionSpan, UrlSpan, FileSpan, TKSpan, UnresolvedSpan:
		fmt.Fprintf(f, "%v(%q)", s.Kind, s.Target)
	default:
		fmt.Fprintf(f, "%v", s.Kind)
	}
}

// TextLine is a line element: a source line reduced to its inline spans.
type TextLine struct {
	Span   token.SourceSpan
	Tokens token.TokenSequence
	Spans  []Span
}

// BlockKind tags a Block's variant.
type BlockKind int

// BlockKind values (spec §3.4 "Block elements").
const (
	noBlockKind BlockKind = iota
	ParagraphBlockKind
	ListBlockKind
	DefinitionBlockKind
	AnnotationBlockKind
	VerbatimBlockKind
	SessionBlockKind
	BlankLineKind
)

var blockKindNames = map[BlockKind]string{
	ParagraphBlockKind: "ParagraphBlock", ListBlockKind: "ListBlock",
	DefinitionBlockKind: "DefinitionBlock", AnnotationBlockKind: "AnnotationBlock",
	VerbatimBlockKind: "VerbatimBlock", SessionBlockKind: "SessionBlock",
	BlankLineKind: "BlankLine",
}

// String implements fmt.Stringer.
func (k BlockKind) String() string {
	if s, ok := blockKindNames[k]; ok {
		return s
	}
	return "BlockKind?"
}

// NumberingStyle is a ListBlock's marker family (spec §3.5).
type NumberingStyle = token.MarkerStyle

// NumberingForm is a ListBlock's dotted depth (spec §3.5).
type NumberingForm = highlevel.MarkerForm

// ListDecoration names a list's marker family and dotted form, determined by
// its first item.
type ListDecoration struct {
	Style NumberingStyle
	Form  NumberingForm
}

// ListItem is one entry of a ListBlock.
type ListItem struct {
	Marker      highlevel.SequenceMarker
	Span        token.SourceSpan
	Tokens      token.TokenSequence
	Content     []Span
	Nested      *ContentContainer
	Parameters  Parameters
	Annotations []*Block
}

// Block is the tagged union of every AST block kind (spec §3.4). As with
// token.Token and highlevel.Token, one struct's fields are reinterpreted per
// Kind.
type Block struct {
	Kind   BlockKind
	Span   token.SourceSpan
	Tokens token.TokenSequence

	Parameters  Parameters
	Annotations []*Block // AnnotationBlockKind children, in source order

	// ParagraphBlock
	Lines []TextLine

	// ListBlock
	Decoration ListDecoration
	Items      []ListItem

	// DefinitionBlock
	Term    []Span
	Content *SimpleContainer

	// AnnotationBlock
	Label     string
	Namespace []string
	Inline    []Span
	Body      *SimpleContainer
	HasBody   bool

	// VerbatimBlock
	VerbatimTitle string
	VerbatimType  token.WallType
	VerbatimLines []string
	VerbatimLabel string

	// SessionBlock
	Title    []Span
	Slug     string
	Sessions *SessionContainer
}

// SessionContainer may hold any block, including nested sessions.
type SessionContainer struct {
	Blocks []*Block
}

// Add appends a block, accepting any kind.
func (c *SessionContainer) Add(b *Block) { c.Blocks = append(c.Blocks, b) }

// ContentContainer may hold any block except SessionBlock.
type ContentContainer struct {
	Blocks []*Block
}

// Add appends b, returning an error if b is a SessionBlock.
func (c *ContentContainer) Add(b *Block) error {
	if b.Kind == SessionBlockKind {
		return fmt.Errorf("ast: ContentContainer cannot hold a SessionBlock")
	}
	c.Blocks = append(c.Blocks, b)
	return nil
}

// SimpleContainer holds only ParagraphBlock, ListBlock, VerbatimBlock, and
// BlankLine — used as the body of definitions and annotations to forbid
// recursive definitions/annotations and session nesting.
type SimpleContainer struct {
	Blocks []*Block
}

// Add appends b, returning an error if b's kind is not one of the four
// permitted simple kinds.
func (c *SimpleContainer) Add(b *Block) error {
	switch b.Kind {
	case ParagraphBlockKind, ListBlockKind, VerbatimBlockKind, BlankLineKind:
		c.Blocks = append(c.Blocks, b)
		return nil
	default:
		return fmt.Errorf("ast: SimpleContainer cannot hold a %v", b.Kind)
	}
}

// Document is the parse result: a SessionContainer rooted at the document,
// plus the diagnostics accumulated across every pipeline stage.
type Document struct {
	Root        *SessionContainer
	Diagnostics []token.Diagnostic
}

// SlugForTitle computes a SessionBlock's anchor slug from its title text,
// using the same markdown-heading-anchor library repointed to txxt session
// anchors: stable, URL-safe anchors from free text.
func SlugForTitle(title string) string {
	return sanitizedanchorname.Create(title)
}
