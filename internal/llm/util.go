// Package llm - util.go provides shared utilities for LLM response processing.
package llm

import (
	"encoding/json"
	"strings"
)

// CleanJSONBlock removes markdown code block wrappers and conversational text around JSON.
// LLMs often wrap JSON in ```json ... ``` blocks or add a preamble even when instructed not to.
// The first candidate that is valid JSON wins. Otherwise the largest candidate is returned so
// that a repair pass can still fix it; prose such as "[3 items]" loses to the real payload.
func CleanJSONBlock(text string) string {
	candidates := JSONCandidates(text)
	if len(candidates) == 0 {
		return stripFence(strings.TrimSpace(text))
	}
	for _, c := range candidates {
		if json.Valid([]byte(c)) {
			return c
		}
	}
	largest := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) > len(largest) {
			largest = c
		}
	}
	return largest
}

// JSONCandidates returns the top-level JSON-looking values in text, left to right.
// A balanced value is skipped as a whole, so nested values are never separate candidates.
// An unbalanced value runs to the end of the text and is the last candidate.
func JSONCandidates(text string) []string {
	text = stripFence(strings.TrimSpace(text))

	var candidates []string
	start := strings.IndexAny(text, "{[")
	for start >= 0 {
		candidate := extractJSONValue(text[start:])
		if candidate == "" {
			return append(candidates, strings.TrimSpace(text[start:]))
		}
		candidates = append(candidates, candidate)
		end := start + len(candidate)
		next := strings.IndexAny(text[end:], "{[")
		if next < 0 {
			break
		}
		start = end + next
	}
	return candidates
}

func stripFence(text string) string {
	// Handle ```json ... ``` blocks
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	// Handle generic ``` ... ``` blocks
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Skip potential language identifier on first line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			firstLine := text[:idx]
			if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.Contains(firstLine, "{") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}

	return text
}

func extractJSONValue(text string) string {
	if text == "" {
		return ""
	}
	switch text[0] {
	case '{':
		return extractJSONObject(text)
	case '[':
		return extractJSONArray(text)
	}
	return ""
}

// extractJSONObject returns the balanced object at the start of text, or "" if there is none
func extractJSONObject(text string) string {
	return extractBalanced(text, '{', '}')
}

// extractJSONArray returns the balanced array at the start of text, or "" if there is none
func extractJSONArray(text string) string {
	return extractBalanced(text, '[', ']')
}

func extractBalanced(text string, open, closer byte) string {
	if text == "" || text[0] != open {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		if inString {
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return text[:i+1]
			}
		}
	}
	return ""
}
