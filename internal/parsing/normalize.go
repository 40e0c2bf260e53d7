package parsing

import (
	"strings"
)

// skillAliases maps common spellings of technical skills to their canonical names
var skillAliases = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"ms excel":   "Excel",
}

// NormalizeSkillName trims a skill and replaces known aliases by their canonical name.
// Other skills keep the model's spelling.
func NormalizeSkillName(skill string) string {
	trimmed := strings.Join(strings.Fields(skill), " ")
	if canonical, ok := skillAliases[strings.ToLower(trimmed)]; ok {
		return canonical
	}
	return trimmed
}

// NormalizeSkills merges skill lists in order, normalizing names and dropping empty entries and
// case-insensitive duplicates. The first spelling of a duplicate wins.
func NormalizeSkills(lists ...[]string) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, list := range lists {
		for _, raw := range list {
			skill := NormalizeSkillName(raw)
			if skill == "" {
				continue
			}
			key := strings.ToLower(skill)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, skill)
		}
	}
	return out
}
