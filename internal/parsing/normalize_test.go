package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"golang alias", "Golang", "Go"},
		{"uppercase alias", "GOLANG", "Go"},
		{"multi-word alias", "go  lang", "Go"},
		{"js alias", "JS", "JavaScript"},
		{"k8s alias", "k8s", "Kubernetes"},
		{"postgres alias", "postgres", "PostgreSQL"},
		{"unknown skill keeps spelling", "liderazgo", "liderazgo"},
		{"collapses whitespace", "  Distributed   Systems ", "Distributed Systems"},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSkillName(tt.input))
		})
	}
}

func TestNormalizeSkills(t *testing.T) {
	got := NormalizeSkills(
		[]string{"Golang", "SQL", " ", "Trabajo en equipo"},
		[]string{"go", "sql", "Docker", "trabajo en equipo"},
	)
	assert.Equal(t, []string{"Go", "SQL", "Trabajo en equipo", "Docker"}, got)

	assert.Equal(t, []string{}, NormalizeSkills(nil, []string{""}))
}
