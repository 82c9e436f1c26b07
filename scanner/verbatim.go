package scanner

import (
	"regexp"
	"strings"

	"github.com/jcorbin/txxt/token"
)

// Ported from original_source/src/lexer/verbatim_scanning.rs: the two fixed
// anchored patterns the original scans with a regex engine, kept as regexes
// here for the same reason the Rust original does (small, fixed,
// whitespace-sensitive patterns beat a hand-rolled matcher in clarity).
var (
	annotationLineRe = regexp.MustCompile(`::\s*\S.*::`)
	terminatorLineRe = regexp.MustCompile(`^::\s+([A-Za-z_][A-Za-z0-9._-]*)(.*)$`)
)

// VerbatimRange describes one verbatim block's line extent, as discovered by
// PreScanVerbatim ahead of character-level tokenization (spec §4.1). Lines
// are 0-based, inclusive.
type VerbatimRange struct {
	TitleLine      int
	TitleIndent    int
	Type           token.WallType
	ContentStart   int // -1 when Type == WallEmpty
	ContentEnd     int // -1 when Type == WallEmpty
	TerminatorLine int
	LabelRaw       string
}

// verbatimScanState is the pre-scanner's state machine, named identically to
// spec §4.1: ScanningNormal, FoundPotentialStart, InVerbatimNormal,
// InVerbatimStretched.
type verbatimScanState int

const (
	scanningNormal verbatimScanState = iota
	foundPotentialStart
	inVerbatimNormal
	inVerbatimStretched
)

// PreScanVerbatim identifies verbatim block line ranges ahead of
// tokenization, per spec §4.1. It never raises an error: an unterminated
// candidate degrades to a diagnostic and its lines are left for normal
// scanning.
func PreScanVerbatim(source string) ([]VerbatimRange, []token.Diagnostic) {
	lines, _ := splitLines(source)
	var (
		blocks []VerbatimRange
		diags  []token.Diagnostic

		state       = scanningNormal
		titleLine   int
		titleIndent int

		contentStart   int
		expectedIndent int
	)

	lineSpan := func(n int) token.SourceSpan {
		if n < 0 || n >= len(lines) {
			return token.SourceSpan{}
		}
		return token.SourceSpan{
			Start: token.Position{Row: n, Column: 0},
			End:   token.Position{Row: n, Column: len(lines[n])},
		}
	}

	i := 0
	for i < len(lines) {
		line := lines[i]
		switch state {
		case scanningNormal:
			if !isBlankLine(line) && isCandidateTitle(line) {
				titleLine = i
				titleIndent, _ = indentWidth(line)
				state = foundPotentialStart
			}
			i++

		case foundPotentialStart:
			if isBlankLine(line) {
				i++
				continue
			}
			indent, _ := indentWidth(line)
			if indent == titleIndent {
				if label, ok := matchTerminator(line); ok {
					blocks = append(blocks, VerbatimRange{
						TitleLine: titleLine, TitleIndent: titleIndent,
						Type:           token.WallEmpty,
						ContentStart:   -1,
						ContentEnd:     -1,
						TerminatorLine: i,
						LabelRaw:       label,
					})
					state = scanningNormal
					i++
					continue
				}
			}
			switch {
			case indent == 0:
				contentStart = i
				state = inVerbatimStretched
			case indent == titleIndent+4:
				contentStart = i
				expectedIndent = indent
				state = inVerbatimNormal
			default:
				// false alarm: resume from right after the failed title
				state = scanningNormal
				i = titleLine + 1
				continue
			}

		case inVerbatimNormal:
			if isBlankLine(line) {
				i++
				continue
			}
			indent, _ := indentWidth(line)
			if indent == titleIndent {
				if label, ok := matchTerminator(line); ok {
					blocks = append(blocks, VerbatimRange{
						TitleLine: titleLine, TitleIndent: titleIndent,
						Type:           token.WallInFlow,
						ContentStart:   contentStart,
						ContentEnd:     i - 1,
						TerminatorLine: i,
						LabelRaw:       label,
					})
					state = scanningNormal
					i++
					continue
				}
			}
			if indent < expectedIndent {
				diags = append(diags, token.Diagnostic{
					Severity: token.Warning,
					Span:     lineSpan(titleLine),
					Message:  "unterminated verbatim block: content dedented before a terminator was found",
				})
				state = scanningNormal
				i = titleLine + 1
				continue
			}
			i++

		case inVerbatimStretched:
			if isBlankLine(line) {
				i++
				continue
			}
			indent, _ := indentWidth(line)
			if indent == titleIndent {
				if label, ok := matchTerminator(line); ok {
					blocks = append(blocks, VerbatimRange{
						TitleLine: titleLine, TitleIndent: titleIndent,
						Type:           token.WallStretched,
						ContentStart:   contentStart,
						ContentEnd:     i - 1,
						TerminatorLine: i,
						LabelRaw:       label,
					})
					state = scanningNormal
					i++
					continue
				}
			}
			if indent != 0 {
				diags = append(diags, token.Diagnostic{
					Severity: token.Warning,
					Span:     lineSpan(titleLine),
					Message:  "unterminated verbatim block: content indented before a terminator was found",
				})
				state = scanningNormal
				i = titleLine + 1
				continue
			}
			i++
		}
	}

	if state != scanningNormal {
		diags = append(diags, token.Diagnostic{
			Severity: token.Warning,
			Span:     lineSpan(titleLine),
			Message:  "unterminated verbatim block: reached end of document before a terminator",
		})
	}

	return blocks, diags
}

// isCandidateTitle reports whether line is a non-blank line ending in a
// single ':' that is neither a definition-style "::" ending nor an
// annotation line, per spec §4.1.
func isCandidateTitle(line string) bool {
	trimmed := strings.TrimRight(line, " \t")
	if trimmed == "" || !strings.HasSuffix(trimmed, ":") {
		return false
	}
	if strings.HasSuffix(trimmed, "::") {
		return false
	}
	if annotationLineRe.MatchString(line) {
		return false
	}
	return true
}

// matchTerminator reports whether line, once its own leading indentation is
// stripped, is a valid verbatim terminator ":: label" or ":: label:params",
// returning the raw (unparsed) label+params text for the unified label
// parser (spec §4.3) to later split.
func matchTerminator(line string) (labelRaw string, ok bool) {
	_, off := indentWidth(line)
	trimmed := strings.TrimRight(line[off:], " \t")
	m := terminatorLineRe.FindStringSubmatch(trimmed)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1] + m[2]), true
}
