package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSON(t *testing.T) {
	schemaFiles := []string{
		"resume.schema.json",
		"achievements.schema.json",
		"string_list.schema.json",
		"profession_validation.schema.json",
		"profession_skills.schema.json",
		"enhancement_questions.schema.json",
		"linkedin.schema.json",
	}

	for _, schemaFile := range schemaFiles {
		t.Run(schemaFile, func(t *testing.T) {
			data, err := Files.ReadFile(schemaFile)
			require.NoError(t, err, "should be able to read schema file")

			var v map[string]interface{}
			err = json.Unmarshal(data, &v)
			assert.NoError(t, err, "schema file should be valid JSON: %s", schemaFile)
			assert.Contains(t, v, "$schema")
			assert.Contains(t, v, "type")
		})
	}
}
