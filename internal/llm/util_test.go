package llm

import (
	"reflect"
	"testing"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"summary\": \"Backend engineer\"}\n```",
			expected: `{"summary": "Backend engineer"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"summary\": \"Backend engineer\"}\n```",
			expected: `{"summary": "Backend engineer"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n[\"Go\", \"SQL\"]\n```",
			expected: `["Go", "SQL"]`,
		},
		{
			name:     "plain JSON",
			input:    `{"isValid": true}`,
			expected: `{"isValid": true}`,
		},
		{
			name:     "plain text is returned trimmed",
			input:    "  Led a team of engineers.  ",
			expected: "Led a team of engineers.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanJSONBlock_PreambleText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before JSON object",
			input:    "Here is the resume you asked for:\n{\"professionalSummary\": \"Engineer\"}",
			expected: `{"professionalSummary": "Engineer"}`,
		},
		{
			name:     "preamble before JSON array",
			input:    "Suggestions:\n[\"Reduced latency\", \"Shipped v2\"]",
			expected: `["Reduced latency", "Shipped v2"]`,
		},
		{
			name:     "JSON with trailing text",
			input:    "{\"isValid\": false}\n\nLet me know if you need anything else!",
			expected: `{"isValid": false}`,
		},
		{
			name:     "JSON with escaped quotes",
			input:    "Result: {\"text\": \"Known as \\\"the fixer\\\"\"}",
			expected: `{"text": "Known as \"the fixer\""}`,
		},
		{
			name:     "braces inside strings",
			input:    "Output: {\"template\": \"Hello {name}!\"}",
			expected: `{"template": "Hello {name}!"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanJSONBlock_BrokenJSONIsKeptForRepair(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "truncated object is returned from its first brace",
			input:    "Sure: {\"skills\": {\"technical\": [\"Go\"]}, \"summary\": \"Eng",
			expected: "{\"skills\": {\"technical\": [\"Go\"]}, \"summary\": \"Eng",
		},
		{
			name:     "balanced but invalid object is not replaced by a nested value",
			input:    "{\"a\": {\"b\": 1},}",
			expected: "{\"a\": {\"b\": 1},}",
		},
		{
			name:     "bracketed prose loses to the larger payload",
			input:    "Here are the achievements [3 items]:\n[{\"title\": \"X\", \"description\": \"Y\",}]",
			expected: "[{\"title\": \"X\", \"description\": \"Y\",}]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple object", `{"key": "value"}`, `{"key": "value"}`},
		{"nested objects", `{"outer": {"inner": "value"}}`, `{"outer": {"inner": "value"}}`},
		{"object with array", `{"items": [1, 2, 3]}`, `{"items": [1, 2, 3]}`},
		{"object with trailing text", `{"key": "value"} and some more text`, `{"key": "value"}`},
		{"unbalanced", `{"key": "value"`, ""},
		{"empty input", "", ""},
		{"not starting with brace", "not json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONObject(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONObject() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestExtractJSONArray(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple array", `["a", "b", "c"]`, `["a", "b", "c"]`},
		{"nested arrays", `[[1, 2], [3, 4]]`, `[[1, 2], [3, 4]]`},
		{"array of objects", `[{"id": 1}, {"id": 2}]`, `[{"id": 1}, {"id": 2}]`},
		{"bracket inside string", `["a]b", "c"] tail`, `["a]b", "c"]`},
		{"empty input", "", ""},
		{"not starting with bracket", "not array", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := extractJSONArray(tt.input)
			if result != tt.expected {
				t.Errorf("extractJSONArray() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestJSONCandidates(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"no JSON", "nothing here", nil},
		{"prose then array", "See [note]: [1, 2]", []string{"[note]", "[1, 2]"}},
		{"nested values are not separate", `{"a": [1]} and {"b": 2}`, []string{`{"a": [1]}`, `{"b": 2}`}},
		{"unbalanced tail", `[x] then {"a": [1`, []string{"[x]", `{"a": [1`}},
		{"fenced", "```json\n{\"a\": 1}\n```", []string{`{"a": 1}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JSONCandidates(tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("JSONCandidates() = %q, want %q", got, tt.expected)
			}
		})
	}
}
