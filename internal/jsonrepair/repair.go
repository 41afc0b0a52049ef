// Package jsonrepair recovers parseable JSON from noisy generative-model
// output: markdown fences, chatter around the object, typographic quotes,
// truncated structures, and quotes embedded inside string values.
//
// The repair is best-effort and heuristic, not a general JSON grammar
// repair. It is kept isolated here so the individual passes can be tested
// against a fixture corpus of known-bad model outputs.
package jsonrepair

import (
	"encoding/json"
	"regexp"
	"strings"
)

var trailingCommaRe = regexp.MustCompile(`,\s*([}\]])`)

// Recover runs the full recovery pipeline over raw model output and parses
// the result into a loosely-typed record.
func Recover(raw string) (map[string]any, error) {
	cleaned, err := Clean(raw)
	if err != nil {
		return nil, err
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(cleaned), &record); err != nil {
		return nil, malformed(cleaned, err)
	}
	return record, nil
}

// Clean applies every recovery pass short of parsing and returns the
// repaired JSON text.
func Clean(raw string) (string, error) {
	s := StripFences(raw)

	s, err := SliceObject(s)
	if err != nil {
		return "", err
	}

	s = stripControlChars(s)
	s = normalizeQuotes(s)
	s = RepairBrackets(s)
	s = EscapeEmbeddedQuotes(s)
	s = RemoveTrailingCommas(s)
	return s, nil
}

// StripFences removes leading/trailing markdown code-fence markers.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// SliceObject cuts the text down to the span between the first '{' and the
// last '}'. Returns ErrNoJSON when either brace is absent.
func SliceObject(s string) (string, error) {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}

// stripControlChars drops non-printable control characters, keeping newlines,
// carriage returns and tabs.
func stripControlChars(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// quoteReplacer maps typographic quotes to their straight equivalents.
var quoteReplacer = strings.NewReplacer(
	"“", `"`, // left double
	"”", `"`, // right double
	"„", `"`, // low double
	"‘", "'", // left single
	"’", "'", // right single
)

func normalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}

// RepairBrackets closes truncated structures. It scans maintaining a stack of
// expected closers for every opener; a closer pops only when it matches the
// top of the stack, so stray closers are tolerated rather than corrected.
// Whatever remains on the stack is appended in LIFO order.
//
// The scan is deliberately string-unaware: it runs before embedded quotes
// are escaped, when string boundaries cannot yet be trusted.
func RepairBrackets(s string) string {
	var stack []byte
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if len(stack) > 0 && stack[len(stack)-1] == s[i] {
				stack = stack[:len(stack)-1]
			}
		}
	}
	if len(stack) == 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + len(stack))
	b.WriteString(s)
	for i := len(stack) - 1; i >= 0; i-- {
		b.WriteByte(stack[i])
	}
	return b.String()
}

// EscapeEmbeddedQuotes rewrites unescaped double quotes that appear inside
// string values as single quotes, preventing one quoted phrase in the model
// output from cascading into a parse failure.
//
// A quote inside a string is treated as the real terminator only when the
// next non-space character is structural (comma, colon, closing brace or
// bracket, or end of input).
func EscapeEmbeddedQuotes(s string) string {
	b := []byte(s)
	inString := false
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c == '\\' && inString {
			i++ // skip escaped character
			continue
		}
		if c != '"' {
			continue
		}
		if !inString {
			inString = true
			continue
		}
		if isTerminatorAhead(b, i+1) {
			inString = false
		} else {
			b[i] = '\''
		}
	}
	return string(b)
}

// isTerminatorAhead reports whether the first non-whitespace byte at or after
// pos is a structural JSON character, meaning the quote before it legitimately
// ends a string.
func isTerminatorAhead(b []byte, pos int) bool {
	for i := pos; i < len(b); i++ {
		switch b[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case ',', ':', '}', ']':
			return true
		default:
			return false
		}
	}
	return true // end of input
}

// RemoveTrailingCommas drops commas that directly precede a closing brace or
// bracket.
func RemoveTrailingCommas(s string) string {
	return trailingCommaRe.ReplaceAllString(s, "$1")
}

// malformed builds a MalformedOutputError with a +/-50 character window
// around the reported parse offset.
func malformed(cleaned string, err error) error {
	var offset int64 = -1
	if syn, ok := err.(*json.SyntaxError); ok {
		offset = syn.Offset
	} else if ute, ok := err.(*json.UnmarshalTypeError); ok {
		offset = ute.Offset
	}

	window := ""
	if offset >= 0 {
		start := int(offset) - 50
		if start < 0 {
			start = 0
		}
		end := int(offset) + 50
		if end > len(cleaned) {
			end = len(cleaned)
		}
		window = cleaned[start:end]
	}

	return &MalformedOutputError{Offset: offset, Window: window, Cause: err}
}
