package scanner

import "strings"

// splitLines splits a (CRLF-already-normalized) source string into lines,
// each without its terminating '\n'. trailingNewline reports whether the
// source's final byte was '\n' — when true, end-of-file sits one virtual row
// past the last returned line; when false, end-of-file sits at the end of
// the last returned line.
func splitLines(source string) (lines []string, trailingNewline bool) {
	if source == "" {
		return []string{""}, false
	}
	start := 0
	for {
		i := strings.IndexByte(source[start:], '\n')
		if i < 0 {
			lines = append(lines, source[start:])
			return lines, false
		}
		lines = append(lines, source[start:start+i])
		start += i + 1
		if start == len(source) {
			return lines, true
		}
	}
}

// indentWidth measures leading indentation in columns (space=1, tab=4, per
// spec §6), returning the column width and the byte offset of the first
// non-whitespace byte (or len(line) if the line is all whitespace).
func indentWidth(line string) (width int, contentOffset int) {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case ' ':
			width++
		case '\t':
			width += 4
		default:
			return width, i
		}
	}
	return width, len(line)
}

func isBlankLine(line string) bool {
	return strings.TrimSpace(line) == ""
}
