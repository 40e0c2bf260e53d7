package repair

import (
	"encoding/json"
	"strings"
)

// JSON repairs the syntax faults models commonly produce:
//   - trailing commas before a closing bracket or brace
//   - unescaped double quotes and raw newlines inside string values
//   - unterminated strings and unbalanced brackets from truncated output
//   - a dangling key or colon at the end of truncated output
//
// It never invents content: values are only closed, dropped or escaped.
// The result is returned only when it is valid JSON.
func JSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", &Error{Message: "empty input"}
	}

	repaired := closeOpen(scan(text))
	if json.Valid([]byte(repaired)) {
		return repaired, nil
	}

	// Truncated output often ends mid-member; drop the incomplete tail.
	if cut, ok := cutToLastComma(repaired); ok {
		candidate := closeOpen(scan(cut))
		if json.Valid([]byte(candidate)) {
			return candidate, nil
		}
	}

	var target any
	err := json.Unmarshal([]byte(repaired), &target)
	return "", &Error{Message: "output is not valid JSON after repair", Cause: err}
}

// scanState is the result of a scan: text with in-string faults fixed plus
// whatever is still open at the end of input
type scanState struct {
	out      strings.Builder
	stack    []byte
	inString bool
}

func scan(text string) *scanState {
	s := &scanState{}
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if s.inString {
			switch {
			case escaped:
				escaped = false
				s.out.WriteByte(c)
			case c == '\\':
				escaped = true
				s.out.WriteByte(c)
			case c == '"':
				if closesString(text, i+1, s.top()) {
					s.inString = false
					s.out.WriteByte(c)
				} else {
					s.out.WriteString(`\"`)
				}
			case c == '\n':
				s.out.WriteString(`\n`)
			case c == '\r':
				s.out.WriteString(`\r`)
			case c == '\t':
				s.out.WriteString(`\t`)
			default:
				s.out.WriteByte(c)
			}
			continue
		}

		switch c {
		case '"':
			s.inString = true
			s.out.WriteByte(c)
		case '{', '[':
			s.stack = append(s.stack, c)
			s.out.WriteByte(c)
		case '}', ']':
			s.closeContainer(c)
		case ',':
			if next := nextSignificant(text, i+1); next == '}' || next == ']' || next == 0 {
				continue
			}
			s.out.WriteByte(c)
		default:
			s.out.WriteByte(c)
		}
	}

	return s
}

// top returns the innermost open container, or 0 at the top level
func (s *scanState) top() byte {
	if len(s.stack) == 0 {
		return 0
	}
	return s.stack[len(s.stack)-1]
}

// closeContainer emits closer c, first closing any inner containers it skips over.
// A closer with no matching opener is dropped.
func (s *scanState) closeContainer(c byte) {
	want := opener(c)
	idx := -1
	for j := len(s.stack) - 1; j >= 0; j-- {
		if s.stack[j] == want {
			idx = j
			break
		}
	}
	if idx < 0 {
		return
	}
	for j := len(s.stack) - 1; j > idx; j-- {
		s.out.WriteByte(closer(s.stack[j]))
	}
	s.stack = s.stack[:idx]
	s.out.WriteByte(c)
}

// closeOpen terminates an open string, removes a dangling separator and closes every open container.
func closeOpen(s *scanState) string {
	text := s.out.String()
	if s.inString {
		text += `"`
	}

	text = strings.TrimRight(text, " \t\r\n")
	switch {
	case strings.HasSuffix(text, ":"):
		text += "null"
	case strings.HasSuffix(text, ","):
		text = strings.TrimSuffix(text, ",")
	}

	var sb strings.Builder
	sb.WriteString(text)
	for j := len(s.stack) - 1; j >= 0; j-- {
		sb.WriteByte(closer(s.stack[j]))
	}
	return sb.String()
}

// closesString decides whether a quote at position i-1 ends the string, judging by what follows.
// A comma only ends the string when the text after it starts the next member of container,
// so `"Led "Project X", a migration"` keeps its inner quotes as content.
func closesString(text string, i int, container byte) bool {
	j := skipSpace(text, i)
	if j == len(text) {
		return true
	}
	switch text[j] {
	case '}', ']', ':':
		return true
	case ',':
		return startsMember(text, j+1, container)
	default:
		return false
	}
}

// startsMember reports whether text at i begins an object key or, inside an array, any value.
func startsMember(text string, i int, container byte) bool {
	j := skipSpace(text, i)
	if j == len(text) {
		return true
	}
	switch c := text[j]; {
	case c == '"', c == '}', c == ']':
		return true
	case container == '{':
		return false
	case c == '{', c == '[', c == '-', c >= '0' && c <= '9':
		return true
	default:
		rest := text[j:]
		return strings.HasPrefix(rest, "true") || strings.HasPrefix(rest, "false") || strings.HasPrefix(rest, "null")
	}
}

func skipSpace(text string, i int) int {
	for ; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return i
		}
	}
	return len(text)
}

func nextSignificant(text string, i int) byte {
	for ; i < len(text); i++ {
		switch text[i] {
		case ' ', '\t', '\r', '\n':
			continue
		default:
			return text[i]
		}
	}
	return 0
}

// cutToLastComma truncates text at the last separator outside a string.
func cutToLastComma(text string) (string, bool) {
	last := -1
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case !inString && c == ',':
			last = i
		}
	}
	if last < 0 {
		return "", false
	}
	return text[:last], true
}

func opener(c byte) byte {
	if c == '}' {
		return '{'
	}
	return '['
}

func closer(c byte) byte {
	if c == '{' {
		return '}'
	}
	return ']'
}
