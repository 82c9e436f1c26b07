package scanner

import (
	"strings"
	"unicode/utf8"

	"github.com/jcorbin/txxt/token"
)

// Scan runs the full L1 pipeline (verbatim pre-scan, then character-level
// tokenization) over source, producing a flat token stream with exact spans
// plus any diagnostics raised along the way (spec §4.1, §4.2).
//
// source must already have CRLF normalized to LF; txxt.Parse does that once
// for the whole document before calling Scan.
func Scan(source string) ([]token.Token, []token.Diagnostic) {
	if source == "" {
		return []token.Token{{Kind: token.Eof, Span: lineSpan(0, 0, 0)}}, nil
	}
	ranges, diags := PreScanVerbatim(source)
	lines, trailingNewline := splitLines(source)

	s := &scanState{
		lines:           lines,
		trailingNewline: trailingNewline,
		ranges:          ranges,
		stack:           []int{0},
	}
	s.run()

	return s.toks, append(diags, s.diags...)
}

type scanState struct {
	lines           []string
	trailingNewline bool
	ranges          []VerbatimRange
	rangeIdx        int

	stack []int

	toks  []token.Token
	diags []token.Diagnostic
}

func (s *scanState) emit(t token.Token) { s.toks = append(s.toks, t) }

func lineSpan(row, startCol, endCol int) token.SourceSpan {
	return token.SourceSpan{
		Start: token.Position{Row: row, Column: startCol},
		End:   token.Position{Row: row, Column: endCol},
	}
}

func (s *scanState) run() {
	n := len(s.lines)
	for i := 0; i < n; i++ {
		atEOF := i == n-1 && !s.trailingNewline
		s.scanLine(i, atEOF)
	}

	eofRow, eofCol := n, 0
	if !s.trailingNewline {
		eofRow, eofCol = n-1, len(s.lines[n-1])
	}
	for len(s.stack) > 1 {
		s.stack = s.stack[:len(s.stack)-1]
		s.emit(token.Token{Kind: token.Dedent, Span: lineSpan(eofRow, eofCol, eofCol)})
	}
	if s.trailingNewline {
		s.emit(token.Token{Kind: token.Eof, Span: lineSpan(eofRow, eofCol, eofCol)})
	}
}

// currentVerbatimRange returns the VerbatimRange covering row i, if any,
// advancing past any ranges whose terminator has already been passed.
func (s *scanState) currentVerbatimRange(i int) *VerbatimRange {
	for s.rangeIdx < len(s.ranges) && s.ranges[s.rangeIdx].TerminatorLine < i {
		s.rangeIdx++
	}
	if s.rangeIdx < len(s.ranges) {
		r := &s.ranges[s.rangeIdx]
		if r.TitleLine <= i && i <= r.TerminatorLine {
			return r
		}
	}
	return nil
}

// applyIndent pushes/pops the indentation stack for a structural (non-opaque)
// line, emitting Indent/Dedent tokens as needed (spec §4.2).
func (s *scanState) applyIndent(row int, width int) {
	top := s.stack[len(s.stack)-1]
	switch {
	case width > top:
		s.stack = append(s.stack, width)
		s.emit(token.Token{Kind: token.Indent, Span: lineSpan(row, 0, 0)})
	case width < top:
		for len(s.stack) > 1 && width < s.stack[len(s.stack)-1] {
			s.stack = s.stack[:len(s.stack)-1]
			s.emit(token.Token{Kind: token.Dedent, Span: lineSpan(row, 0, 0)})
		}
		if s.stack[len(s.stack)-1] != width {
			s.diags = append(s.diags, token.Diagnostic{
				Severity: token.Error,
				Span:     lineSpan(row, 0, 0),
				Message:  "indentation does not match any enclosing level",
			})
			s.stack = append(s.stack, width)
			s.emit(token.Token{Kind: token.Indent, Span: lineSpan(row, 0, 0)})
		}
	}
}

func (s *scanState) scanLine(i int, atEOF bool) {
	line := s.lines[i]
	vr := s.currentVerbatimRange(i)

	switch {
	case vr != nil && i == vr.TitleLine:
		_, off := indentWidth(line)
		s.applyIndent(i, off)
		title := strings.TrimRight(line[off:], " \t")
		title = strings.TrimSuffix(title, ":")
		s.emit(token.Token{
			Kind: token.VerbatimBlockStart,
			Span: lineSpan(i, off, len(line)),
			Text: strings.TrimSpace(title),
			Wall: vr.Type,
		})
		s.emitLineEnd(i, len(line), atEOF)

	case vr != nil && vr.ContentStart >= 0 && i >= vr.ContentStart && i <= vr.ContentEnd:
		if isBlankLine(line) {
			s.emit(token.Token{Kind: token.BlankLine, Span: lineSpan(i, 0, len(line)), Text: line})
			s.emitLineEnd(i, len(line), atEOF)
			return
		}
		indent, _ := indentWidth(line)
		wallWidth := 0
		if vr.Type == token.WallInFlow {
			wallWidth = vr.TitleIndent + 4
		}
		content := line
		if wallWidth <= len(line) {
			content = line[wallWidth:]
		}
		s.emit(token.Token{
			Kind:   token.VerbatimContentLine,
			Span:   lineSpan(i, 0, len(line)),
			Text:   content,
			Indent: indent,
		})
		s.emitLineEnd(i, len(line), atEOF)

	case vr != nil && i == vr.TerminatorLine:
		_, off := indentWidth(line)
		s.applyIndent(i, off)
		s.emit(token.Token{
			Kind: token.VerbatimBlockEnd,
			Span: lineSpan(i, off, len(line)),
			Text: vr.LabelRaw,
		})
		s.emitLineEnd(i, len(line), atEOF)

	case isBlankLine(line):
		s.emit(token.Token{Kind: token.BlankLine, Span: lineSpan(i, 0, len(line)), Text: line})
		s.emitLineEnd(i, len(line), atEOF)

	default:
		width, off := indentWidth(line)
		s.applyIndent(i, width)
		if off > 0 {
			s.emit(token.Token{Kind: token.Whitespace, Span: lineSpan(i, 0, off), Text: line[:off]})
		}
		s.tokenizeContent(i, line, off)
		s.emitLineEnd(i, len(line), atEOF)
	}
}

func (s *scanState) emitLineEnd(row, col int, atEOF bool) {
	if atEOF {
		s.emit(token.Token{Kind: token.Eof, Span: lineSpan(row, col, col)})
		return
	}
	s.emit(token.Token{Kind: token.Newline, Span: lineSpan(row, col, col+1)})
}

// isIdentStart/isIdentCont define the identifier grammar used for annotation
// labels and ordinary words (spec §3.2, §6): a leading letter or underscore,
// continuing with letters, digits, '_', '-', or an internal '.' namespace
// separator. Sequence markers are recognized separately by trySequenceMarker.
func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '-'
}

// scanIdentifier consumes a maximal identifier run starting at rest[0],
// allowing single internal '.' separators (not a leading or trailing one),
// and returns its byte length. A '_' that ends the word is left out, so it
// is scanned as a closing ItalicDelimiter.
func scanIdentifier(rest string) int {
	n := 1
	for n < len(rest) {
		c := rest[n]
		if c == '_' && (n+1 == len(rest) || !isIdentCont(rest[n+1])) {
			break
		}
		if isIdentCont(c) {
			n++
			continue
		}
		if c == '.' && n+1 < len(rest) && isIdentCont(rest[n+1]) {
			n++
			continue
		}
		break
	}
	return n
}

// trySequenceMarker recognizes a line-leading sequence marker (spec §3.2,
// §4.3): "- ", "N. "/"N) " (including dotted forms such as "1.2. "),
// "a. "/"A. ", or "i. "/"I. ", each followed by
// whitespace or end of line. Returns the matched token and its byte length,
// or ok=false.
func trySequenceMarker(rest string) (token.SequenceMarker, int, bool) {
	if rest == "" {
		return token.SequenceMarker{}, 0, false
	}
	if rest[0] == '-' && (len(rest) == 1 || rest[1] == ' ' || rest[1] == '\t') {
		return token.SequenceMarker{Style: token.MarkerPlain, Original: "-"}, 1, true
	}

	n := 0
	for n < len(rest) && rest[n] >= '0' && rest[n] <= '9' {
		n++
		// a '.' followed by another digit continues a dotted marker like "1.2."
		if n+1 < len(rest) && rest[n] == '.' && rest[n+1] >= '0' && rest[n+1] <= '9' {
			n++
		}
	}
	if n > 0 && n < len(rest) && (rest[n] == '.' || rest[n] == ')') {
		end := n + 1
		if end == len(rest) || rest[end] == ' ' || rest[end] == '\t' {
			var num uint64
			for _, c := range rest[:n] {
				if c == '.' {
					num = 0 // Numeric holds the last component of a dotted marker
					continue
				}
				num = num*10 + uint64(c-'0')
			}
			return token.SequenceMarker{Style: token.MarkerNumerical, Original: rest[:end], Numeric: num}, end, true
		}
	}

	if isRomanNumeral(rest[0]) {
		n := 1
		for n < len(rest) && isRomanNumeral(rest[n]) {
			n++
		}
		if n < len(rest) && (rest[n] == '.' || rest[n] == ')') {
			end := n + 1
			if end == len(rest) || rest[end] == ' ' || rest[end] == '\t' {
				return token.SequenceMarker{Style: token.MarkerRoman, Original: rest[:end], Numeric: romanValue(rest[:n])}, end, true
			}
		}
	}

	if c := rest[0]; (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
		if len(rest) > 1 && (rest[1] == '.' || rest[1] == ')') {
			end := 2
			if end == len(rest) || rest[end] == ' ' || rest[end] == '\t' {
				return token.SequenceMarker{Style: token.MarkerAlphabetical, Original: rest[:end], Alpha: rune(strings.ToLower(string(c))[0])}, end, true
			}
		}
	}

	return token.SequenceMarker{}, 0, false
}

func isRomanNumeral(c byte) bool {
	switch c {
	case 'i', 'v', 'x', 'l', 'c', 'd', 'm', 'I', 'V', 'X', 'L', 'C', 'D', 'M':
		return true
	}
	return false
}

var romanDigitValues = map[byte]uint64{
	'i': 1, 'v': 5, 'x': 10, 'l': 50, 'c': 100, 'd': 500, 'm': 1000,
}

// romanValue converts a roman numeral (case-insensitive) to its integer
// value using the standard subtractive-pair rule.
func romanValue(s string) uint64 {
	s = strings.ToLower(s)
	var total uint64
	for i := 0; i < len(s); i++ {
		v := romanDigitValues[s[i]]
		if i+1 < len(s) && v < romanDigitValues[s[i+1]] {
			total -= v
		} else {
			total += v
		}
	}
	return total
}

// tokenizeContent scans line[off:] left to right, emitting scanner tokens
// per spec §3.2/§4.3. off is the byte offset at which non-whitespace content
// begins (already emitted as a Whitespace token by the caller, if non-zero).
func (s *scanState) tokenizeContent(row int, line string, off int) {
	col := off
	atLineStart := true

	for col < len(line) {
		rest := line[col:]

		if atLineStart {
			if m, n, ok := trySequenceMarker(rest); ok {
				s.emit(token.Token{Kind: token.SequenceMarker, Span: lineSpan(row, col, col+n), Marker: m})
				col += n
				atLineStart = false
				continue
			}
		}
		atLineStart = false

		c := rest[0]
		switch {
		case c == ' ' || c == '\t':
			n := 1
			for n < len(rest) && (rest[n] == ' ' || rest[n] == '\t') {
				n++
			}
			s.emit(token.Token{Kind: token.Whitespace, Span: lineSpan(row, col, col+n), Text: rest[:n]})
			col += n

		case c == ':':
			if len(rest) > 1 && rest[1] == ':' {
				s.emit(token.Token{Kind: token.TxxtMarker, Span: lineSpan(row, col, col+2)})
				col += 2
			} else {
				s.emit(token.Token{Kind: token.Colon, Span: lineSpan(row, col, col+1)})
				col++
			}

		case c == '=':
			s.emit(token.Token{Kind: token.Equals, Span: lineSpan(row, col, col+1)})
			col++

		case c == ',':
			s.emit(token.Token{Kind: token.Comma, Span: lineSpan(row, col, col+1)})
			col++

		case c == '-':
			s.emit(token.Token{Kind: token.Dash, Span: lineSpan(row, col, col+1)})
			col++

		case c == '.':
			s.emit(token.Token{Kind: token.Period, Span: lineSpan(row, col, col+1)})
			col++

		case c == '[':
			if kind, text, fk, n, ok := tryReference(rest); ok {
				s.emit(token.Token{Kind: kind, Span: lineSpan(row, col, col+n), Text: text, Footnote: fk})
				col += n
			} else {
				s.emit(token.Token{Kind: token.LeftBracket, Span: lineSpan(row, col, col+1)})
				col++
			}

		case c == ']':
			s.emit(token.Token{Kind: token.RightBracket, Span: lineSpan(row, col, col+1)})
			col++

		case c == '(':
			s.emit(token.Token{Kind: token.LeftParen, Span: lineSpan(row, col, col+1)})
			col++

		case c == ')':
			s.emit(token.Token{Kind: token.RightParen, Span: lineSpan(row, col, col+1)})
			col++

		case c == '@':
			s.emit(token.Token{Kind: token.AtSign, Span: lineSpan(row, col, col+1)})
			col++

		case c == '*':
			s.emit(token.Token{Kind: token.BoldDelimiter, Span: lineSpan(row, col, col+1)})
			col++

		case c == '_':
			s.emit(token.Token{Kind: token.ItalicDelimiter, Span: lineSpan(row, col, col+1)})
			col++

		case c == '`':
			s.emit(token.Token{Kind: token.CodeDelimiter, Span: lineSpan(row, col, col+1)})
			col++

		case c == '#':
			s.emit(token.Token{Kind: token.MathDelimiter, Span: lineSpan(row, col, col+1)})
			col++

		case c == '"':
			if n, ok := scanQuotedString(rest); ok {
				s.emit(token.Token{Kind: token.QuotedString, Span: lineSpan(row, col, col+n), Text: rest[1 : n-1]})
				col += n
				continue
			}
			n := scanText(rest)
			s.emit(token.Token{Kind: token.Text, Span: lineSpan(row, col, col+n), Text: rest[:n]})
			col += n

		case c == '\\' && len(rest) > 1 && isEscapableByte(rest[1]):
			s.emit(token.Token{Kind: token.Text, Span: lineSpan(row, col, col+2), Text: rest[:2]})
			col += 2

		case isIdentStart(c):
			n := scanIdentifier(rest)
			s.emit(token.Token{Kind: token.Identifier, Span: lineSpan(row, col, col+n), Text: rest[:n]})
			col += n

		default:
			n := scanText(rest)
			s.emit(token.Token{Kind: token.Text, Span: lineSpan(row, col, col+n), Text: rest[:n]})
			col += n
		}
	}
}

func isEscapableByte(c byte) bool {
	switch c {
	case '*', '_', '`', '#', '[', ']', '-', '\\':
		return true
	}
	return false
}

// scanText consumes a maximal run of bytes that none of the other
// recognizers above claim, used as the fallback "plain prose" token.
func scanText(rest string) int {
	stop := func(c byte) bool {
		switch c {
		case ' ', '\t', ':', '=', ',', '-', '.', '[', ']', '(', ')', '@',
			'*', '_', '`', '#', '"', '\\':
			return true
		}
		return false
	}
	n := 1
	for n < len(rest) {
		c := rest[n]
		if c < utf8.RuneSelf {
			if stop(c) || isIdentStart(c) {
				break
			}
			n++
			continue
		}
		_, size := utf8.DecodeRuneInString(rest[n:])
		n += size
	}
	return n
}

// scanQuotedString recognizes a double-quoted string that does not cross a
// line boundary (spec §6: quoted strings are used for labelled parameter
// values and never span lines).
func scanQuotedString(rest string) (int, bool) {
	if rest == "" || rest[0] != '"' {
		return 0, false
	}
	for i := 1; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			if i+1 < len(rest) {
				i++
			}
		case '"':
			return i + 1, true
		}
	}
	return 0, false
}

// tryReference recognizes a bracketed reference marker per spec §3.2: a
// leading '@' is a citation, a leading '^' is a labelled footnote, a leading
// '#' is a section reference, a purely-numeric body is a numeric footnote,
// a "p<digits>" body is a page reference, and anything else recognizably
// bracketed is left as a generic RefMarker for the inline pipeline (§4.5) to
// classify into Url/File/TK/Unresolved. References never cross line
// boundaries, matching the original implementation's reference scanning.
func tryReference(rest string) (kind token.Kind, text string, fk token.FootnoteKind, n int, ok bool) {
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return 0, "", 0, 0, false
	}
	body := rest[1:end]
	total := end + 1

	switch {
	case strings.HasPrefix(body, "@"):
		return token.CitationRef, body[1:], 0, total, true
	case strings.HasPrefix(body, "^"):
		return token.FootnoteRef, body[1:], token.FootnoteLabelled, total, true
	case strings.HasPrefix(body, "#"):
		return token.SessionRef, body[1:], 0, total, true
	case isAllDigits(body):
		return token.FootnoteRef, body, token.FootnoteNumeric, total, true
	case len(body) > 1 && body[0] == 'p' && isAllDigits(body[1:]):
		return token.PageRef, body[1:], 0, total, true
	case body != "":
		return token.RefMarker, body, 0, total, true
	}
	return 0, "", 0, 0, false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
