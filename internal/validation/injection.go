package validation

import (
	"regexp"
)

// outputInjectionPatterns match text a hijacked model tends to emit: echoed role
// markers, chat-template tokens and disclosures of its own instructions.
var outputInjectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+previous\s+instructions`),
	regexp.MustCompile(`(?i)ignore\s+all\s+previous`),
	regexp.MustCompile(`(?i)disregard\s+(your\s+)?instructions`),
	regexp.MustCompile(`(?i)override\s+(your\s+)?instructions`),

	regexp.MustCompile(`(?i)system\s*:`),
	regexp.MustCompile(`(?i)assistant\s*:`),
	regexp.MustCompile(`(?i)user\s*:`),
	regexp.MustCompile(`(?i)instructions\s*:`),

	regexp.MustCompile(`<\|.*?\|>`),
	regexp.MustCompile(`(?i)endoftext`),
	regexp.MustCompile(`(?i)im_start`),
	regexp.MustCompile(`(?i)im_end`),
	regexp.MustCompile(`(?i)<\|pad\|>`),
	regexp.MustCompile(`(?i)\[/?INST\]`),
	regexp.MustCompile(`(?i)<</?SYS>>`),
	regexp.MustCompile(`(?i)\[/?SYSTEM\]`),

	regexp.MustCompile("(?i)```\\s*system"),
	regexp.MustCompile("(?i)```\\s*instruction"),
	regexp.MustCompile("(?i)```\\s*prompt"),

	regexp.MustCompile(`(?i)\bDAN\s+mode`),
	regexp.MustCompile(`(?i)do\s+anything\s+now`),
	regexp.MustCompile(`(?i)jailbreak\s+(successful|enabled|activated)`),

	regexp.MustCompile(`(?i)my\s+(system\s+)?instructions\s+are`),
	regexp.MustCompile(`(?i)here\s+are\s+my\s+instructions`),
	regexp.MustCompile(`(?i)my\s+prompt\s+is`),
	regexp.MustCompile(`(?i)i\s+was\s+instructed\s+to`),
}

// numberPattern matches figures such as 40%, 1,200, 3.5x or $2M
var numberPattern = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// DetectOutputInjection rejects model output that carries role markers,
// special tokens or echoes of its own instructions.
func DetectOutputInjection(text string) Result {
	for _, pattern := range outputInjectionPatterns {
		if pattern.MatchString(text) {
			return reject(ReasonOutputInjection)
		}
	}
	return valid()
}

// NoFabricatedMetrics rejects output that contains a figure absent from every source text.
func NoFabricatedMetrics(output string, sources ...string) Result {
	known := make(map[string]struct{})
	for _, source := range sources {
		for _, n := range numberPattern.FindAllString(source, -1) {
			known[n] = struct{}{}
		}
	}

	for _, n := range numberPattern.FindAllString(output, -1) {
		if _, ok := known[n]; !ok {
			return reject(ReasonFabricatedMetrics)
		}
	}
	return valid()
}
