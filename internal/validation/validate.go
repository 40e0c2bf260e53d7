// Package validation checks model output before it replaces user-authored text.
// A rejection is a Result value, never an error: callers fall back to the original text.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxTextLength is the hard ceiling for a single improved text
const MaxTextLength = 2000

// Rejection reasons
const (
	ReasonImprovedRequired  = "Improved text is required"
	ReasonOriginalRequired  = "Original text is required"
	ReasonTooLong           = "Improved text is too long"
	ReasonExceedsMaximum    = "Improved text exceeds maximum length"
	ReasonDangerousCode     = "Improved text contains potentially dangerous code"
	ReasonEmpty             = "Improved text cannot be empty"
	ReasonTooShort          = "Improved text is too short"
	ReasonTooDifferent      = "Improved text seems too different from original"
	ReasonInappropriate     = "Improved text contains inappropriate content"
	ReasonOutputInjection   = "Output contains injection attempts or system markers"
	ReasonFabricatedMetrics = "Improved text introduces figures not present in the original"
)

// Result is the verdict of an output check
type Result struct {
	Valid  bool
	Reason string
}

func valid() Result { return Result{Valid: true} }

func reject(reason string) Result { return Result{Valid: false, Reason: reason} }

// Options tunes ImprovedText
type Options struct {
	// AllowSubstantialRewrite skips the keyword overlap check, used when the user supplied
	// extra context that is expected to change the wording
	AllowSubstantialRewrite bool
	// MaxLength overrides MaxTextLength when positive
	MaxLength int
}

const (
	growthFactorImproved   = 10
	growthFactorMechanical = 5
	minKeywordOverlap      = 0.2
	minKeywordCount        = 5
	minKeywordLength       = 3
	minShrinkRatio         = 0.1
	minLengthForShrinkRule = 40
)

var (
	scriptPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)onerror\s*=`),
		regexp.MustCompile(`(?i)onload\s*=`),
		regexp.MustCompile(`(?i)eval\s*\(`),
		regexp.MustCompile(`(?i)function\s*\(`),
		regexp.MustCompile(`(?i)alert\s*\(`),
		regexp.MustCompile(`(?i)document\.`),
		regexp.MustCompile(`(?i)window\.`),
		regexp.MustCompile(`(?i)console\.`),
		regexp.MustCompile(`(?i)setTimeout`),
		regexp.MustCompile(`(?i)setInterval`),
		regexp.MustCompile(`(?i)XMLHttpRequest`),
		regexp.MustCompile(`(?i)fetch\s*\(`),
	}

	// word boundaries keep "skills" or "Sussex" from matching
	inappropriatePattern = regexp.MustCompile(`(?i)\b(fuck|shit|damn|murder|death|porn|nude|cocaine|heroin|terrorist|bomb)\b`)
)

// ImprovedText validates a free-form improvement of original.
// Text identical to the original is always valid.
func ImprovedText(improved, original string, opts Options) Result {
	if improved == "" {
		return reject(ReasonImprovedRequired)
	}
	if original == "" {
		return reject(ReasonOriginalRequired)
	}

	improvedLen := utf8.RuneCountInString(improved)
	if improvedLen > utf8.RuneCountInString(original)*growthFactorImproved {
		return reject(ReasonTooLong)
	}
	if !TextLength(improved, opts.MaxLength) {
		return reject(ReasonExceedsMaximum)
	}
	if containsScript(improved) {
		return reject(ReasonDangerousCode)
	}

	trimmedImproved := strings.TrimSpace(improved)
	trimmedOriginal := strings.TrimSpace(original)
	if trimmedImproved == "" {
		return reject(ReasonEmpty)
	}
	if trimmedImproved == trimmedOriginal {
		return valid()
	}
	if tooShort(trimmedImproved, trimmedOriginal, minLengthForShrinkRule) {
		return reject(ReasonTooShort)
	}

	if !opts.AllowSubstantialRewrite && keywordOverlapTooLow(improved, original) {
		return reject(ReasonTooDifferent)
	}

	if inappropriatePattern.MatchString(improved) {
		return reject(ReasonInappropriate)
	}

	return DetectOutputInjection(improved)
}

// MechanicalEnhancement validates a deterministic fix such as removing first-person pronouns.
// Larger rewrites are expected, so there is no keyword overlap check.
func MechanicalEnhancement(improved, original string) Result {
	if improved == "" {
		return reject(ReasonImprovedRequired)
	}
	if original == "" {
		return reject(ReasonOriginalRequired)
	}
	if utf8.RuneCountInString(improved) > utf8.RuneCountInString(original)*growthFactorMechanical {
		return reject(ReasonTooLong)
	}
	if !TextLength(improved, 0) {
		return reject(ReasonExceedsMaximum)
	}
	if containsScript(improved) {
		return reject(ReasonDangerousCode)
	}

	trimmedImproved := strings.TrimSpace(improved)
	if trimmedImproved == "" {
		return reject(ReasonEmpty)
	}
	if tooShort(trimmedImproved, strings.TrimSpace(original), 0) {
		return reject(ReasonTooShort)
	}

	if inappropriatePattern.MatchString(improved) {
		return reject(ReasonInappropriate)
	}

	return DetectOutputInjection(improved)
}

// TextLength reports whether text fits within maxLength runes.
// A maxLength of zero or less uses MaxTextLength.
func TextLength(text string, maxLength int) bool {
	if maxLength <= 0 {
		maxLength = MaxTextLength
	}
	return utf8.RuneCountInString(text) <= maxLength
}

func containsScript(text string) bool {
	for _, pattern := range scriptPatterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

// tooShort reports whether improved kept less than a tenth of original.
// Originals shorter than minOriginal runes are exempt.
func tooShort(improved, original string, minOriginal int) bool {
	originalLen := utf8.RuneCountInString(original)
	if originalLen < minOriginal {
		return false
	}
	return float64(utf8.RuneCountInString(improved)) < float64(originalLen)*minShrinkRatio
}

func keywordOverlapTooLow(improved, original string) bool {
	originalWords := keywords(original)
	if len(originalWords) <= minKeywordCount {
		return false
	}

	improvedSet := make(map[string]struct{})
	for _, w := range keywords(improved) {
		improvedSet[w] = struct{}{}
	}

	common := 0
	for _, w := range originalWords {
		if _, ok := improvedSet[w]; ok {
			common++
		}
	}

	return float64(common)/float64(len(originalWords)) < minKeywordOverlap
}

func keywords(text string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		if utf8.RuneCountInString(w) > minKeywordLength {
			words = append(words, w)
		}
	}
	return words
}
