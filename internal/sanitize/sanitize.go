// Package sanitize neutralizes untrusted user text before it is embedded in a model prompt.
// Every function here is pure and idempotent: applying it twice yields the same result as once.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/resume-ai/internal/types"
)

// Default length caps
const (
	MaxUserInputLength = 500
	MaxPromptLength    = 5000
	MaxMultilineLength = 10000
)

var (
	tagPattern         = regexp.MustCompile(`<[^>]*>`)
	angleBracketChars  = regexp.MustCompile(`[<>]`)
	controlChars       = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
	anyWhitespaceRun   = regexp.MustCompile(`\s+`)
	horizontalSpaceRun = regexp.MustCompile(`[ \t]+`)
	multiSpaceRun      = regexp.MustCompile(`\s{2,}`)
	excessBlankLines   = regexp.MustCompile(`\n{3,}`)
	crlf               = regexp.MustCompile(`\r\n?`)
	tripleQuoteRun     = regexp.MustCompile(`"{3,}`)

	// controlMarkers are chat-template tokens that some models treat as role switches
	controlMarkers = regexp.MustCompile(`(?i)\[/?INST\]|<</?SYS>>|\[/?SYSTEM\]`)

	delimiterTags = regexp.MustCompile(`(?i)<(/?)(user_data|system|assistant)>`)
)

// UserInput sanitizes a short single-line field such as a profession or a job title.
// Markup and angle brackets are removed, whitespace is collapsed and the result is capped at 500 runes.
func UserInput(raw string) string {
	if raw == "" {
		return ""
	}
	text := strings.ToValidUTF8(raw, "")
	text = untilStable(text, func(s string) string {
		s = removeControlMarkers(s)
		s = tagPattern.ReplaceAllString(s, "")
		s = angleBracketChars.ReplaceAllString(s, "")
		return controlChars.ReplaceAllString(s, "")
	})
	text = anyWhitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(truncateRunes(text, MaxUserInputLength))
}

// ForPrompt sanitizes a long free-text field that is embedded in a prompt.
// A maxLen of zero or less uses MaxPromptLength.
func ForPrompt(raw string, maxLen int) string {
	if raw == "" {
		return ""
	}
	if maxLen <= 0 {
		maxLen = MaxPromptLength
	}

	text := strings.ToValidUTF8(raw, "")
	text = untilStable(text, func(s string) string {
		s = removeControlMarkers(s)
		s = tagPattern.ReplaceAllString(s, "")
		s = EscapeDelimiters(s)
		s = crlf.ReplaceAllString(s, "\n")
		s = controlChars.ReplaceAllString(s, "")
		s = horizontalSpaceRun.ReplaceAllString(s, " ")
		return excessBlankLines.ReplaceAllString(s, "\n\n")
	})

	return strings.TrimSpace(truncateRunes(strings.TrimSpace(text), maxLen))
}

// UserMultiline sanitizes pasted structured content (LinkedIn sections, bullet lists)
// while keeping its line breaks. A maxLen of zero or less uses MaxMultilineLength.
func UserMultiline(raw string, maxLen int) string {
	if raw == "" {
		return ""
	}
	if maxLen <= 0 {
		maxLen = MaxMultilineLength
	}

	text := strings.ToValidUTF8(raw, "")
	text = untilStable(text, func(s string) string {
		s = tagPattern.ReplaceAllString(s, "")
		return angleBracketChars.ReplaceAllString(s, "")
	})
	text = crlf.ReplaceAllString(text, "\n")
	text = controlChars.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpaceRun.ReplaceAllString(line, " "))
	}
	text = strings.TrimSpace(strings.Join(lines, "\n"))

	return strings.TrimSpace(truncateRunes(text, maxLen))
}

// EscapeDelimiters rewrites sequences that could close or forge the delimiters used to fence user data.
func EscapeDelimiters(text string) string {
	text = tripleQuoteRun.ReplaceAllStringFunc(text, func(run string) string {
		return strings.Repeat(`\"`, len(run))
	})
	text = delimiterTags.ReplaceAllString(text, "[$1$2]")
	text = strings.ReplaceAll(text, "<|", "[|")
	return strings.ReplaceAll(text, "|>", "|]")
}

// SectionType returns the canonical section type for raw, or false when it is not a known section.
func SectionType(raw string) (types.SectionType, bool) {
	normalized := types.SectionType(strings.ToLower(strings.TrimSpace(raw)))
	for _, st := range types.SectionTypes {
		if st == normalized {
			return st, true
		}
	}
	return "", false
}

// Language returns en or es; anything else defaults to es.
func Language(raw string) types.Language {
	if strings.ToLower(strings.TrimSpace(raw)) == string(types.LanguageEN) {
		return types.LanguageEN
	}
	return types.LanguageES
}

func removeControlMarkers(text string) string {
	return controlMarkers.ReplaceAllString(text, "")
}

// untilStable applies fn until its output stops changing.
// Removing one token can splice its neighbours into a new one, so a single pass is not enough.
// fn must reach a fixed point: every rewrite either shortens the text or produces text it leaves alone.
func untilStable(text string, fn func(string) string) string {
	for {
		next := fn(text)
		if next == text {
			return next
		}
		text = next
	}
}

func truncateRunes(text string, maxLen int) string {
	if utf8.RuneCountInString(text) <= maxLen {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLen])
}
