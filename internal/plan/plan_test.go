package plan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePlan = `# Questionnaire Cleaning Plan

## Data Model

| Field | Type | Min | Max | Allowed | Description |
|-------|------|-----|-----|---------|-------------|
| id | integer | | | | Submission id |
| age | integer | 18 | 70 | | Age in years |
| tenure_years | float | 0 | 50 | | Years at the company |
| department | categorical | | | 1,2,3,4,5 | Department code |
| satisfaction | integer | 1 | 5 | | Overall satisfaction |

## Processing Flow

1. Drop test submissions.
2. Split multi-select benefits into binary columns.
3. Encode missing values as -99.
`

func writePlan(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questionnaire_cleaning_plan.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	p, err := Load(writePlan(t, samplePlan))
	require.NoError(t, err)

	assert.Equal(t, "Questionnaire Cleaning Plan", p.Title)
	assert.True(t, p.HasSection("Data Model"))
	assert.True(t, p.HasSection("Processing Flow"))
	assert.Empty(t, p.MissingSections())
	assert.Equal(t, []string{"id", "age", "tenure_years", "department", "satisfaction"}, p.FieldNames())
}

func TestFieldDefinitions(t *testing.T) {
	p, err := Load(writePlan(t, samplePlan))
	require.NoError(t, err)

	age, ok := p.Field("age")
	require.True(t, ok)
	assert.Equal(t, "integer", age.Type)
	require.NotNil(t, age.Min)
	require.NotNil(t, age.Max)
	assert.Equal(t, 18.0, *age.Min)
	assert.Equal(t, 70.0, *age.Max)
	assert.Empty(t, age.Allowed)
	assert.Equal(t, "Age in years", age.Description)

	dept, ok := p.Field("department")
	require.True(t, ok)
	assert.Nil(t, dept.Min)
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, dept.Allowed)

	_, ok = p.Field("unknown")
	assert.False(t, ok)
}

func TestMissingSections(t *testing.T) {
	p, err := Load(writePlan(t, "# Bare Plan\n\n## Data Model\n\ntext only\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Processing Flow"}, p.MissingSections())
	assert.Empty(t, p.Fields)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)

	bad := "## Data Model\n\n| Field | Type | Min |\n|---|---|---|\n| age | integer | not-a-number |\n"
	_, err = Load(writePlan(t, bad))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid min")
}
