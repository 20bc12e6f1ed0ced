package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleReport = `# Questionnaire Cleaning Report

## Overview

The raw questionnaire dataset was cleaned according to the plan; all quality
checks passed.

## Data Overview

19 raw submissions, 19 cleaned records, 18 unique respondents.

## Transformations

| Transformation | Source | Target |
|---|---|---|
| benefits_split | benefits | benefit_insurance, benefit_vacation, benefit_medical |

## Statistics

| Field | Missing | Distinct |
|---|---|---|
| age | 2 | 14 |

## Quality Checks

Missing values are encoded uniformly:

| Field | Missing Code |
|---|---|
| age | -99 |

Deliverables: the cleaned dataset, its schema, and the cleaning recipe.
`

func writeReport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questionnaire_cleaning_report.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	r, err := Load(writeReport(t, sampleReport))
	require.NoError(t, err)

	assert.Equal(t, []string{"Overview", "Data Overview", "Transformations", "Statistics", "Quality Checks"}, r.Sections)
	assert.True(t, r.HasSection("overview")) // case-insensitive
	assert.False(t, r.HasSection("Recommendations"))
}

func TestLoadError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}

func TestTableAndMentionLookups(t *testing.T) {
	r, err := Load(writeReport(t, sampleReport))
	require.NoError(t, err)

	assert.True(t, r.HasTableWith("field"))
	assert.True(t, r.HasTableWith("transformation"))
	assert.True(t, r.HasTableWith("missing"))
	assert.False(t, r.HasTableWith("checksum"))

	assert.True(t, r.Mentions("recipe"))
	assert.False(t, r.Mentions("parquet"))
}

func TestCheck(t *testing.T) {
	t.Run("complete report passes", func(t *testing.T) {
		r, err := Load(writeReport(t, sampleReport))
		require.NoError(t, err)
		assert.Empty(t, r.Check())
	})

	t.Run("bare report collects violations", func(t *testing.T) {
		r, err := Load(writeReport(t, "# Report\n\nSome prose without sections.\n"))
		require.NoError(t, err)

		issues := r.Check()
		assert.Contains(t, issues, `report is missing section "Overview"`)
		assert.Contains(t, issues, `report is missing section "Quality Checks"`)
		assert.Contains(t, issues, "report is missing a field-definition table")
		assert.Contains(t, issues, "report is missing a transformation-mapping table")
		assert.Contains(t, issues, "report is missing a missing-value handling table")
		assert.Contains(t, issues, `report does not mention deliverable "dataset"`)
	})
}
