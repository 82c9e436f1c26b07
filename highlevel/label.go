package highlevel

import "strings"

// reservedLabels and reservedPrefixes are flagged (not rejected) per spec
// §4.3 point 5.
var reservedLabels = map[string]bool{
	"txxt": true, "meta": true, "system": true, "text": true, "image": true,
}

var reservedPrefixes = []string{"txxt.", "iana.", "rfc.", "iso."}

// ParseLabel implements the unified label parser (spec §4.3): both
// annotation labels (pre-tokenized by the scanner) and verbatim terminator
// labels (supplied as a raw string) go through this one function, producing
// a Label and optional Parameters.
func ParseLabel(raw string) (Label, Parameters, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Label{}, Parameters{}, false
	}

	if looksLikeBareParameters(raw) {
		params := parseParameters(raw)
		return Label{}, params, true
	}

	// the label ends at the first whitespace or ':' ("label params" or
	// "label:params")
	labelText := raw
	rest := ""
	if i := strings.IndexAny(raw, " \t:"); i >= 0 {
		labelText = raw[:i]
		rest = strings.TrimSpace(raw[i+1:])
	}

	label := validateLabel(labelText)

	var params Parameters
	hasParams := false
	if rest != "" {
		params = parseParameters(rest)
		hasParams = true
	}
	return label, params, hasParams
}

// looksLikeBareParameters reports whether raw opens with "identifier=" before
// any whitespace, meaning the whole string is a labelless parameter list.
func looksLikeBareParameters(raw string) bool {
	i := indexWhitespace(raw)
	head := raw
	if i >= 0 {
		head = raw[:i]
	}
	eq := strings.IndexByte(head, '=')
	if eq <= 0 {
		return false
	}
	return isIdentifierText(head[:eq])
}

func indexWhitespace(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == ' ' || s[i] == '\t' {
			return i
		}
	}
	return -1
}

func isIdentifierText(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		ok := c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !ok {
			return false
		}
	}
	return true
}

// validateLabel splits text on '.' namespace separators and validates each
// segment, per spec §4.3 point 4: starts with a letter, '.' never doubled or
// terminal.
func validateLabel(text string) Label {
	namespaces := strings.Split(text, ".")
	valid := len(namespaces) > 0
	for _, seg := range namespaces {
		if seg == "" || !isLabelSegment(seg) {
			valid = false
			break
		}
	}
	label := Label{Text: text}
	if valid && len(namespaces) > 1 {
		label.Namespaces = namespaces[:len(namespaces)-1]
		label.Text = namespaces[len(namespaces)-1]
	}
	label.Reserved = reservedLabels[text]
	for _, prefix := range reservedPrefixes {
		if strings.HasPrefix(text, prefix) {
			label.Reserved = true
			break
		}
	}
	return label
}

func isLabelSegment(seg string) bool {
	if seg == "" {
		return false
	}
	c := seg[0]
	if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
		return false
	}
	for i := 1; i < len(seg); i++ {
		c := seg[i]
		ok := c == '_' || c == '-' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !ok {
			return false
		}
	}
	return true
}

// parseParameters scans a comma-separated "key[=value]" list, per spec §4.3
// point 6: bare keys mean key=true; values may be double-quoted (with \" and
// \\ escapes) or unquoted (no whitespace or comma).
func parseParameters(s string) Parameters {
	var params Parameters
	for _, part := range splitParameterList(s) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			params.Set(part, "true")
			continue
		}
		key := strings.TrimSpace(part[:eq])
		val := strings.TrimSpace(part[eq+1:])
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = unquoteParamValue(val[1 : len(val)-1])
		}
		params.Set(key, val)
	}
	return params
}

// splitParameterList splits on top-level commas, respecting double-quoted
// spans so a comma inside a quoted value doesn't split the list.
func splitParameterList(s string) []string {
	var parts []string
	start := 0
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if inQuote && i+1 < len(s) {
				i++
			}
		case '"':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

func unquoteParamValue(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var out []byte
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			out = append(out, s[i+1])
			i++
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
