// Package manifest models the factory manifests: JSON documents that record
// what a cleaning run produced, column-level statistics of the cleaned
// dataset, and the quality-assurance outcome of the inspector.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// RequiredComponents that a dataset manifest must reference.
var RequiredComponents = []string{"plan", "schema", "record_cleaned"}

// ColumnStats summarizes one column of the cleaned dataset.
type ColumnStats struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Missing  int    `json:"missing"`
	Distinct int    `json:"distinct"`
}

// Stats summarizes the cleaned dataset.
type Stats struct {
	RowCount    int           `json:"row_count"`
	ColumnCount int           `json:"column_count"`
	Columns     []ColumnStats `json:"columns"`
}

// QualityAssurance records the inspector outcome per validation surface.
type QualityAssurance struct {
	SchemaCompliance string `json:"schema_compliance"`
	DataQuality      string `json:"data_quality"`
	BusinessRules    string `json:"business_rules"`
}

// Manifest is a factory manifest document.
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	CreatedAt        time.Time         `json:"created_at"`
	RunID            string            `json:"run_id,omitempty"`
	Components       map[string]string `json:"components,omitempty"`
	Stats            Stats             `json:"stats"`
	QualityAssurance QualityAssurance  `json:"quality_assurance"`
}

// Load reads and parses a manifest JSON file.
func Load(path string) (*Manifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading manifest file: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("error parsing manifest %s: %w", path, err)
	}

	return &m, nil
}

// Write serializes the manifest to path with indentation, matching the
// hand-maintained manifests in the workspace.
func (m *Manifest) Write(path string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializing manifest: %w", err)
	}

	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("error writing manifest %s: %w", path, err)
	}
	return nil
}

// Validate checks the structural rules of a manifest document.
func (m *Manifest) Validate() []string {
	var issues []string

	if m.Name == "" {
		issues = append(issues, "manifest is missing required field: name")
	}
	if m.Version == "" {
		issues = append(issues, "manifest is missing required field: version")
	}
	if m.CreatedAt.IsZero() {
		issues = append(issues, "manifest is missing required field: created_at")
	}
	if len(m.Stats.Columns) == 0 {
		issues = append(issues, "manifest.stats.columns must not be empty")
	}

	qa := map[string]string{
		"schema_compliance": m.QualityAssurance.SchemaCompliance,
		"data_quality":      m.QualityAssurance.DataQuality,
		"business_rules":    m.QualityAssurance.BusinessRules,
	}
	for field, value := range qa {
		if value == "" {
			issues = append(issues, fmt.Sprintf("quality_assurance is missing %s", field))
		}
	}

	return issues
}

// MissingComponents returns required component references the manifest lacks.
func (m *Manifest) MissingComponents() []string {
	var missing []string
	for _, c := range RequiredComponents {
		if m.Components[c] == "" {
			missing = append(missing, c)
		}
	}
	return missing
}
