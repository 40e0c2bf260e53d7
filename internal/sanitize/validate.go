package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Rejection reasons returned by ValidateInput
const (
	ReasonTooLong   = "Input exceeds maximum length"
	ReasonDangerous = "Input contains potentially dangerous content"
)

// maxRepeatedTokens is the longest run of one identical word accepted in a single input
const maxRepeatedTokens = 10

// Result is the verdict of a local input check
type Result struct {
	Valid  bool
	Reason string
}

// dangerousPatterns are local heuristics for prompt injection and script injection.
var dangerousPatterns = []*regexp.Regexp{
	// role override
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?previous\s+instructions`),
	regexp.MustCompile(`(?i)ignore\s+the\s+above`),
	regexp.MustCompile(`(?i)disregard\s+(your\s+)?instructions`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?previous`),
	regexp.MustCompile(`(?i)override\s+(your\s+)?instructions`),
	regexp.MustCompile(`(?i)forget\s+(everything|all|your)`),
	regexp.MustCompile(`(?i)you\s+are\s+now`),
	regexp.MustCompile(`(?i)you\s+must\s+now`),
	regexp.MustCompile(`(?i)act\s+as\s+if`),
	regexp.MustCompile(`(?i)pretend\s+to\s+be`),
	regexp.MustCompile(`(?i)roleplay\s+as`),
	regexp.MustCompile(`(?i)from\s+now\s+on`),
	regexp.MustCompile(`(?i)new\s+instructions?`),
	regexp.MustCompile(`\bDAN\b`),
	regexp.MustCompile(`(?i)do\s+anything\s+now`),
	regexp.MustCompile(`(?i)out\s+of\s+character`),

	// role and system markers
	regexp.MustCompile(`(?i)system\s*:`),
	regexp.MustCompile(`(?i)assistant\s*:`),
	regexp.MustCompile(`(?i)user\s*:`),
	regexp.MustCompile(`(?i)\binstructions?\s*:`),
	regexp.MustCompile(`(?i)\bprompt\s*:`),
	regexp.MustCompile(`(?i)\brole\s*:`),
	regexp.MustCompile(`(?i)\bcontext\s*:`),

	// special tokens and fences
	regexp.MustCompile(`<\|.*?\|>`),
	regexp.MustCompile("(?s)```.*?```"),
	regexp.MustCompile(`(?i)\[/?INST\]`),
	regexp.MustCompile(`(?i)<</?SYS>>`),
	regexp.MustCompile(`(?i)<\|(endoftext|im_start|im_end)\|>`),

	// jailbreak vocabulary
	regexp.MustCompile(`(?i)jailbreak`),
	regexp.MustCompile(`(?i)prompt\s+injection`),
	regexp.MustCompile(`(?i)bypass\s+(the\s+)?(filter|restriction)`),
	regexp.MustCompile(`(?i)escape\s+(the\s+)?sandbox`),
	regexp.MustCompile(`(?i)reveal\s+(your\s+)?instructions`),
	regexp.MustCompile(`(?i)show\s+(me\s+)?(your\s+)?system\s+prompt`),
	regexp.MustCompile(`(?i)what\s+are\s+your\s+instructions`),

	// script injection
	regexp.MustCompile(`(?i)<script`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)onerror\s*=`),
	regexp.MustCompile(`(?i)onload\s*=`),
	regexp.MustCompile(`(?i)eval\s*\(`),
	regexp.MustCompile(`(?i)function\s*\(`),
	regexp.MustCompile(`(?i)alert\s*\(`),
	regexp.MustCompile(`(?i)document\.`),
	regexp.MustCompile(`(?i)window\.`),
	regexp.MustCompile(`(?i)constructor\s*\[`),
	regexp.MustCompile(`__proto__`),
}

// ValidateInput rejects short user input that matches known injection heuristics.
// An empty string is valid and means "no content".
func ValidateInput(text string) Result {
	if text == "" {
		return Result{Valid: true}
	}
	if utf8.RuneCountInString(text) > MaxUserInputLength {
		return Result{Valid: false, Reason: ReasonTooLong}
	}
	if ContainsDangerousContent(text) {
		return Result{Valid: false, Reason: ReasonDangerous}
	}
	return Result{Valid: true}
}

// ValidateInputLarge checks only the length of a large multiline block.
func ValidateInputLarge(text string, maxLen int) Result {
	if maxLen <= 0 {
		maxLen = MaxMultilineLength
	}
	if utf8.RuneCountInString(text) > maxLen {
		return Result{Valid: false, Reason: ReasonTooLong}
	}
	return Result{Valid: true}
}

// ContainsDangerousContent reports whether text matches any injection heuristic,
// including an excessive run of one repeated word.
func ContainsDangerousContent(text string) bool {
	for _, pattern := range dangerousPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return hasExcessiveRepetition(text)
}

func hasExcessiveRepetition(text string) bool {
	words := strings.Fields(strings.ToLower(text))
	run := 1
	for i := 1; i < len(words); i++ {
		if words[i] == words[i-1] {
			run++
			if run > maxRepeatedTokens {
				return true
			}
			continue
		}
		run = 1
	}
	return false
}
