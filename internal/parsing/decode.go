// Package parsing turns raw model output into typed task results: code fences and prose are
// stripped, JSON gets a single repair pass, the result is checked against the task schema and
// missing optional values are defaulted. Parsing is deterministic for a given input.
package parsing

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/jonathan/resume-ai/internal/llm"
	"github.com/jonathan/resume-ai/internal/repair"
	"github.com/jonathan/resume-ai/internal/schemas"
	"github.com/jonathan/resume-ai/internal/tasks"
)

// clean extracts the JSON value from raw and repairs it once when it does not parse.
// When nothing parses as is, candidates are repaired largest first and the first success wins.
func clean(task tasks.Task, raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", &ParseError{Task: task, Message: "empty response"}
	}

	candidates := llm.JSONCandidates(raw)
	if len(candidates) == 0 {
		candidates = []string{llm.CleanJSONBlock(raw)}
	}
	for _, c := range candidates {
		if json.Valid([]byte(c)) {
			return c, nil
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return len(candidates[i]) > len(candidates[j]) })
	var firstErr error
	for _, c := range candidates {
		repaired, err := repair.JSON(c)
		if err == nil {
			return repaired, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return "", &ParseError{Task: task, Message: "response is not valid JSON", Cause: firstErr}
}

// validateAndDecode checks doc against the schema and unmarshals it into target
func validateAndDecode(task tasks.Task, schema schemas.Name, doc string, target any) error {
	if err := schemas.Validate(schema, doc); err != nil {
		return &ParseError{Task: task, Message: "response does not match the expected shape", Cause: err}
	}
	if err := json.Unmarshal([]byte(doc), target); err != nil {
		return &ParseError{Task: task, Message: "failed to decode response", Cause: err}
	}
	return nil
}

// decode runs the full JSON path for a task: clean, repair, validate, unmarshal
func decode(task tasks.Task, schema schemas.Name, raw string, target any) error {
	doc, err := clean(task, raw)
	if err != nil {
		return err
	}
	return validateAndDecode(task, schema, doc, target)
}

// decodeArray is decode for tasks whose contract is a top-level array.
// Models in JSON object mode wrap the array in an object such as {"suggestions": [...]};
// an object holding exactly one array is unwrapped.
func decodeArray(task tasks.Task, schema schemas.Name, raw string, target any) error {
	doc, err := clean(task, raw)
	if err != nil {
		return err
	}
	return validateAndDecode(task, schema, unwrapArray(doc), target)
}

func unwrapArray(doc string) string {
	result := gjson.Parse(doc)
	if !result.IsObject() {
		return doc
	}

	var arrays []gjson.Result
	result.ForEach(func(_, value gjson.Result) bool {
		if value.IsArray() {
			arrays = append(arrays, value)
		}
		return true
	})
	if len(arrays) != 1 {
		return doc
	}
	return arrays[0].Raw
}

// wrappingQuotes are the opening and closing pairs stripped from plain-text responses
var wrappingQuotes = [][2]string{
	{`"`, `"`},
	{`'`, `'`},
	{"“", "”"},
	{"«", "»"},
	{"`", "`"},
}

// Text decodes a plain-text response: the text is trimmed and one layer of wrapping quotes removed.
func Text(task tasks.Task, raw string) (string, error) {
	text := strings.TrimSpace(raw)
	for _, q := range wrappingQuotes {
		if len(text) >= len(q[0])+len(q[1]) && strings.HasPrefix(text, q[0]) && strings.HasSuffix(text, q[1]) {
			text = strings.TrimSpace(text[len(q[0]) : len(text)-len(q[1])])
			break
		}
	}
	if text == "" {
		return "", &ParseError{Task: task, Message: "empty response"}
	}
	return text, nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func orEmpty[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}
