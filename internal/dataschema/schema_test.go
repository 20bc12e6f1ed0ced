package dataschema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSchema = `{
  "name": "questionnaire_cleaned",
  "version": "1.0",
  "schema": {
    "fields": [
      {"name": "id", "type": "integer", "required": true},
      {"name": "age", "type": "integer", "min": 18, "max": 70},
      {"name": "department", "type": "categorical", "allowed_values": ["1", "2", "3", "4", "5"]},
      {"name": "benefit_insurance", "type": "binary"},
      {"name": "submit_time", "type": "datetime"}
    ]
  },
  "quality_rules": [
    {"name": "age_range", "expression": "age == -99 || (age >= 18 && age <= 70)", "severity": "error"}
  ],
  "transformations": [
    {"name": "benefits_split", "source_fields": ["benefits"], "target_fields": ["benefit_insurance"]}
  ]
}`

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questionnaire_schema.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	doc, err := Load(writeSchema(t, sampleSchema))
	require.NoError(t, err)

	assert.Equal(t, "questionnaire_cleaned", doc.Name)
	assert.Equal(t, "1.0", doc.Version)
	assert.Equal(t, []string{"id", "age", "department", "benefit_insurance", "submit_time"}, doc.FieldNames())
	require.Len(t, doc.QualityRules, 1)
	require.Len(t, doc.Transformations, 1)

	age, ok := doc.Field("age")
	require.True(t, ok)
	require.NotNil(t, age.Min)
	assert.Equal(t, 18.0, *age.Min)

	_, ok = doc.Field("absent")
	assert.False(t, ok)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = Load(writeSchema(t, "{not json"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("valid document", func(t *testing.T) {
		doc, err := Load(writeSchema(t, sampleSchema))
		require.NoError(t, err)
		assert.Empty(t, doc.Validate())
	})

	t.Run("collects structural violations", func(t *testing.T) {
		doc := &Document{
			Schema: Definition{Fields: []Field{
				{Name: "age", Type: "number"},
				{Name: "age", Type: "integer"},
				{Name: "", Type: "string"},
				{Name: "note"},
			}},
			QualityRules: []QualityRule{{Name: "incomplete"}},
		}

		issues := doc.Validate()
		assert.Contains(t, issues, "schema is missing required field: name")
		assert.Contains(t, issues, "schema is missing required field: version")
		assert.Contains(t, issues, `field "age" has invalid type "number"`)
		assert.Contains(t, issues, `duplicate field "age"`)
		assert.Contains(t, issues, "field with empty name")
		assert.Contains(t, issues, `field "note" is missing a type`)
		assert.Contains(t, issues, `quality rule "incomplete" must have a name and an expression`)
	})

	t.Run("empty fields list", func(t *testing.T) {
		doc := &Document{Name: "x", Version: "1.0"}
		assert.Contains(t, doc.Validate(), "schema.fields must not be empty")
	})
}
