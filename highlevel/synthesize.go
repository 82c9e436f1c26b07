package highlevel

import (
	"strings"

	"github.com/jcorbin/txxt/token"
)

// Synthesize groups a flat scanner token stream into line-level and
// composite high-level tokens (spec §4.3), applying the wall discipline:
// leading Whitespace following an Indent/Dedent/BlankLine/start-of-file is
// captured as IndentationChars and stripped from every line variant's
// Content.
func Synthesize(toks []token.Token) ([]Token, []token.Diagnostic) {
	var (
		out []Token
		// diags stays empty: L2 grouping never itself rejects a token
		// sequence, so it has nothing to report; it's carried in the
		// signature so every pipeline stage has a uniform diagnostic return.
		diags      []token.Diagnostic
		afterBreak = true
	)

	i := 0
	n := len(toks)
	for i < n {
		t := toks[i]
		switch t.Kind {
		case token.Indent:
			out = append(out, Token{Kind: Indent, Span: t.Span, Tokens: token.TokenSequence{t}})
			i++
			afterBreak = true

		case token.Dedent:
			out = append(out, Token{Kind: Dedent, Span: t.Span, Tokens: token.TokenSequence{t}})
			i++
			afterBreak = true

		case token.BlankLine:
			lineToks, consumed := lineExtent(toks[i:])
			seq := token.TokenSequence(lineToks)
			out = append(out, Token{Kind: BlankLine, Span: seq.Span(), Tokens: seq})
			i += consumed
			afterBreak = true

		case token.VerbatimBlockStart:
			vb, consumed := synthesizeVerbatimBlock(toks[i:])
			out = append(out, vb)
			i += consumed
			afterBreak = true

		case token.Eof:
			i++

		default:
			ln, consumed := classifyLine(toks[i:], afterBreak)
			out = append(out, ln)
			i += consumed
			afterBreak = true
		}
	}

	return out, diags
}

// lineExtent returns the tokens of one logical line, inclusive of its
// terminating Newline/Eof.
func lineExtent(toks []token.Token) ([]token.Token, int) {
	for i, t := range toks {
		if t.Kind == token.Newline || t.Kind == token.Eof {
			return toks[:i+1], i + 1
		}
	}
	return toks, len(toks)
}

func trimLeadingWhitespace(toks []token.Token) []token.Token {
	if len(toks) > 0 && toks[0].Kind == token.Whitespace {
		return toks[1:]
	}
	return toks
}

func peekNext(rest []token.Token, consumed int) (token.Token, bool) {
	if consumed < len(rest) {
		return rest[consumed], true
	}
	return token.Token{}, false
}

func findSecondTxxtMarker(content []token.Token) int {
	for i := 1; i < len(content); i++ {
		if content[i].Kind == token.TxxtMarker {
			return i
		}
	}
	return -1
}

func classifyMarker(m token.SequenceMarker) (token.MarkerStyle, MarkerForm) {
	form := FormRegular
	if strings.Count(m.Original, ".") > 1 {
		form = FormExtended
	}
	return m.Style, form
}

func span(toks []token.Token) token.TokenSequence { return token.TokenSequence(toks) }

// classifyLine recognizes one of Annotation, Definition, SequenceTextLine,
// or PlainTextLine at toks[0:], per spec §4.3's line classification rules,
// and returns how many scanner tokens it consumed.
func classifyLine(toks []token.Token, afterBreak bool) (Token, int) {
	lineToks, consumed := lineExtent(toks)
	content := lineToks[:len(lineToks)-1]

	var indentationChars string
	if afterBreak && len(content) > 0 && content[0].Kind == token.Whitespace {
		indentationChars = content[0].Text
		content = content[1:]
	}

	full := span(lineToks)
	lineSpan := full.Span()

	if len(content) > 0 && content[0].Kind == token.TxxtMarker {
		if k := findSecondTxxtMarker(content); k > 0 {
			labelRaw := span(content[1:k]).Text()
			label, params, hasParams := ParseLabel(labelRaw)

			tail := trimLeadingWhitespace(content[k+1:])
			tok := Token{
				Kind: Annotation, Span: lineSpan, Tokens: full,
				IndentationChars: indentationChars,
				Label:            label, Parameters: params, HasParameters: hasParams,
			}
			if len(tail) > 0 {
				tailSeq := span(tail)
				tok.HasInline = true
				tok.InlineContent = TextSpan{Content: tailSeq.Text(), Tokens: tailSeq, Span: tailSeq.Span()}
			}
			return tok, consumed
		}
	}

	if k := len(content); k > 0 && content[k-1].Kind == token.Colon {
		if next, ok := peekNext(toks, consumed); ok && next.Kind == token.Indent {
			termSeq := span(content[:k-1])
			return Token{
				Kind: Definition, Span: lineSpan, Tokens: full,
				IndentationChars: indentationChars,
				Term:             TextSpan{Content: termSeq.Text(), Tokens: termSeq, Span: termSeq.Span()},
			}, consumed
		}
	}

	if len(content) > 0 && content[0].Kind == token.SequenceMarker {
		marker := content[0]
		rem := span(trimLeadingWhitespace(content[1:]))
		style, form := classifyMarker(marker.Marker)
		return Token{
			Kind: SequenceTextLine, Span: lineSpan, Tokens: full,
			IndentationChars: indentationChars,
			Marker:           SequenceMarker{Style: style, Form: form, Raw: marker.Marker},
			Content:          TextSpan{Content: rem.Text(), Tokens: rem, Span: rem.Span()},
		}, consumed
	}

	contentSeq := span(content)
	return Token{
		Kind: PlainTextLine, Span: lineSpan, Tokens: full,
		IndentationChars: indentationChars,
		Content:          TextSpan{Content: contentSeq.Text(), Tokens: contentSeq, Span: contentSeq.Span()},
	}, consumed
}

// synthesizeVerbatimBlock assembles the VerbatimBlock composite starting at
// rest[0] (a VerbatimBlockStart token), consuming through its
// VerbatimBlockEnd terminator (spec §4.3).
func synthesizeVerbatimBlock(rest []token.Token) (Token, int) {
	startTok := rest[0]
	i := 1
	if i < len(rest) && (rest[i].Kind == token.Newline || rest[i].Kind == token.Eof) {
		i++
	}

	var content []Token
	for i < len(rest) {
		t := rest[i]
		lineToks, consumedLine := lineExtent(rest[i:])

		switch t.Kind {
		case token.VerbatimContentLine:
			seq := span(lineToks)
			content = append(content, Token{
				Kind: IgnoreLine, Span: seq.Span(), Tokens: seq,
				Content: TextSpan{Content: t.Text, Tokens: token.TokenSequence{t}, Span: t.Span},
			})
			i += consumedLine

		case token.BlankLine:
			seq := span(lineToks)
			i += consumedLine
			if len(content) == 0 {
				// blank lines between the title and the first content line
				// are not content (the pre-scanner's ContentStart skips them)
				continue
			}
			content = append(content, Token{Kind: BlankLine, Span: seq.Span(), Tokens: seq})

		case token.VerbatimBlockEnd:
			i += consumedLine
			label, params, hasParams := ParseLabel(t.Text)
			full := span(rest[:i])
			return Token{
				Kind: VerbatimBlock, Span: full.Span(), Tokens: full,
				Title: startTok.Text, WallType: startTok.Wall,
				VerbatimContent: content,
				VerbatimLabel:   label, Parameters: params, HasParameters: hasParams,
			}, i

		default:
			full := span(rest[:i])
			return Token{
				Kind: VerbatimBlock, Span: full.Span(), Tokens: full,
				Title: startTok.Text, WallType: startTok.Wall,
				VerbatimContent: content,
			}, i
		}
	}

	full := span(rest[:i])
	return Token{
		Kind: VerbatimBlock, Span: full.Span(), Tokens: full,
		Title: startTok.Text, WallType: startTok.Wall,
		VerbatimContent: content,
	}, i
}
