package prompts

import (
	"fmt"
	"strings"
)

// Shape is the top-level JSON shape a task must return
type Shape int

const (
	// ShapeObject is a single JSON object
	ShapeObject Shape = iota
	// ShapeArray is a JSON array of objects
	ShapeArray
	// ShapeStringArray is a JSON array of strings
	ShapeStringArray
)

// OutputContract describes the JSON a model must return for a task.
type OutputContract struct {
	Name   string
	Shape  Shape
	Fields []ContractField
	// Example is used for ShapeStringArray to show the expected items
	Example []string
}

// ContractField defines a single field in the contract.
type ContractField struct {
	Name        string // JSON field name
	Type        string // Type hint such as "string", "boolean", ["string"]
	Description string
	Required    bool
}

// String renders the contract as an instruction block.
func (c OutputContract) String() string {
	var sb strings.Builder

	switch c.Shape {
	case ShapeStringArray:
		sb.WriteString("OUTPUT CONTRACT:\nReturn ONLY a valid JSON array of strings with exactly this structure:\n[\n")
		for i, item := range c.Example {
			sb.WriteString(fmt.Sprintf("  %q", item))
			if i < len(c.Example)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString("]\n")
	case ShapeArray:
		sb.WriteString("OUTPUT CONTRACT:\nReturn ONLY a valid JSON array where every element matches this exact structure:\n[\n")
		writeFields(&sb, c.Fields, "  ")
		sb.WriteString("]\n")
	default:
		sb.WriteString("OUTPUT CONTRACT:\nReturn ONLY valid JSON matching this exact structure:\n")
		writeFields(&sb, c.Fields, "")
	}

	sb.WriteString("Return ONLY the JSON, no markdown, no explanation, no code blocks.")
	return sb.String()
}

func writeFields(sb *strings.Builder, fields []ContractField, indent string) {
	sb.WriteString(indent + "{\n")
	for i, field := range fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = `"string"`
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("%s  \"%s\": %s%s", indent, field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(indent + "}\n")
}

// --- Task contracts ---

// AchievementsContract is the contract of the achievement suggestions task.
func AchievementsContract() OutputContract {
	return OutputContract{
		Name:  "AchievementSuggestions",
		Shape: ShapeArray,
		Fields: []ContractField{
			{Name: "title", Type: `"string"`, Description: "Short achievement title", Required: true},
			{Name: "description", Type: `"string"`, Description: "One or two sentences with qualitative impact", Required: true},
		},
	}
}

// SummaryContract is the contract of the summary suggestions task.
func SummaryContract() OutputContract {
	return OutputContract{
		Name:    "SummarySuggestions",
		Shape:   ShapeStringArray,
		Example: []string{"Suggestion 1", "Suggestion 2", "Suggestion 3"},
	}
}

// JobTitleAchievementsContract is the contract of the job-title achievements task.
func JobTitleAchievementsContract() OutputContract {
	return OutputContract{
		Name:    "JobTitleAchievements",
		Shape:   ShapeStringArray,
		Example: []string{"Achievement 1", "Achievement 2", "Achievement 3", "Achievement 4", "Achievement 5"},
	}
}

// ProfessionValidationContract is the contract of the profession validation task.
func ProfessionValidationContract() OutputContract {
	return OutputContract{
		Name:  "ProfessionValidation",
		Shape: ShapeObject,
		Fields: []ContractField{
			{Name: "isValid", Type: "boolean", Description: "true only for a real profession, job title or career field", Required: true},
			{Name: "message", Type: `"string"`, Description: "Empty when valid, a short reason when invalid"},
		},
	}
}

// EnhancementQuestionsContract is the contract of the enhancement questions task.
func EnhancementQuestionsContract() OutputContract {
	return OutputContract{
		Name:  "EnhancementQuestions",
		Shape: ShapeObject,
		Fields: []ContractField{
			{
				Name:        "questions",
				Type:        `[{"id": "q1", "question": "string", "category": "quantifiable-metrics | impact | context | skills | achievements", "required": true}]`,
				Description: "3-7 questions with ids q1, q2, ...",
				Required:    true,
			},
		},
	}
}
