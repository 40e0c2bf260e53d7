// Package prompts builds the model prompt for every generation task.
// Templates are stored as JSON files, embedded at compile time and filled with sanitized user values.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// catalog maps file name to its templates. It is read once and never mutated afterwards.
var (
	catalog     map[string]map[string]string
	catalogErr  error
	catalogOnce sync.Once
)

func loadCatalog() (map[string]map[string]string, error) {
	catalogOnce.Do(func() {
		names, err := fs.Glob(promptFiles, "*.json")
		if err != nil {
			catalogErr = err
			return
		}
		catalog = make(map[string]map[string]string, len(names))
		for _, name := range names {
			data, err := promptFiles.ReadFile(name)
			if err != nil {
				catalogErr = fmt.Errorf("read prompt file %s: %w", name, err)
				return
			}
			var templates map[string]string
			if err := json.Unmarshal(data, &templates); err != nil {
				catalogErr = fmt.Errorf("parse prompt file %s: %w", name, err)
				return
			}
			catalog[name] = templates
		}
	})
	return catalog, catalogErr
}

// Get returns the template stored under key in file (e.g. "improvement.json").
func Get(file, key string) (string, error) {
	templates, err := templatesIn(file)
	if err != nil {
		return "", err
	}
	template, ok := templates[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, file)
	}
	return template, nil
}

// MustGet is Get for templates the builders cannot work without.
func MustGet(file, key string) string {
	template, err := Get(file, key)
	if err != nil {
		panic(fmt.Sprintf("prompts: %v", err))
	}
	return template
}

// List returns the template keys of file in sorted order.
func List(file string) ([]string, error) {
	templates, err := templatesIn(file)
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(templates))
	for key := range templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func templatesIn(file string) (map[string]string, error) {
	all, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	templates, ok := all[file]
	if !ok {
		return nil, fmt.Errorf("unknown prompt file %s", file)
	}
	return templates, nil
}

var placeholderPattern = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Format substitutes {{.Key}} placeholders with values from data.
// Replacement is a single pass, so placeholders inside substituted values are left as typed.
// Placeholders without a value are kept.
func Format(template string, data map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(template, func(placeholder string) string {
		key := placeholderPattern.FindStringSubmatch(placeholder)[1]
		if value, ok := data[key]; ok {
			return value
		}
		return placeholder
	})
}

// Placeholders lists the distinct placeholder names of template in order of first use.
func Placeholders(template string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(template, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
