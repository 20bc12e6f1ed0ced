// Package contract models the YAML data contracts stored under
// catelog/contract. A contract declares one or more datasets with their
// column definitions; records are validated against the first dataset.
package contract

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"qtdata.quanttide.cn/internal/record"
)

// Contract is a parsed data contract file.
type Contract struct {
	Name    string    `yaml:"name,omitempty"`
	Version string    `yaml:"version,omitempty"`
	Dataset []Dataset `yaml:"dataset"`
}

// Dataset describes one dataset covered by the contract.
type Dataset struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	Columns     []Column `yaml:"columns"`
}

// Column is a single column definition inside a dataset.
type Column struct {
	Name        string      `yaml:"name"`
	Type        string      `yaml:"type"`
	Description string      `yaml:"description,omitempty"`
	Constraints Constraints `yaml:"constraints,omitempty"`
}

// Constraints carries the value constraints declared for a column.
type Constraints struct {
	Min     *float64 `yaml:"min,omitempty"`
	Max     *float64 `yaml:"max,omitempty"`
	NotNull bool     `yaml:"not_null,omitempty"`
}

// Load reads and parses a contract YAML file.
func Load(path string) (*Contract, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading contract file: %w", err)
	}

	var c Contract
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("error parsing contract %s: %w", path, err)
	}

	return &c, nil
}

// Columns returns the column definitions of the first dataset, following the
// convention that a contract file's primary dataset comes first.
func (c *Contract) Columns() []Column {
	if len(c.Dataset) == 0 {
		return nil
	}
	return c.Dataset[0].Columns
}

// ValidateTable checks a record table against the contract's primary dataset:
// every declared column must be present, not_null columns must have no
// missing cells, and numeric cells must respect declared min/max bounds.
func (c *Contract) ValidateTable(t *record.Table) []string {
	var issues []string

	columns := c.Columns()
	if len(columns) == 0 {
		issues = append(issues, "contract declares no datasets or columns")
		return issues
	}

	for _, col := range columns {
		if !t.HasColumn(col.Name) {
			issues = append(issues, fmt.Sprintf("missing column %q", col.Name))
			continue
		}
		if col.Constraints.NotNull && t.MissingCount(col.Name) > 0 {
			issues = append(issues, fmt.Sprintf("column %q is not_null but has %d missing values",
				col.Name, t.MissingCount(col.Name)))
		}
		if out := countOutOfBounds(t, col); out > 0 {
			issues = append(issues, fmt.Sprintf("column %q has %d values outside [%s, %s]",
				col.Name, out, boundString(col.Constraints.Min), boundString(col.Constraints.Max)))
		}
	}

	return issues
}

func countOutOfBounds(t *record.Table, col Column) int {
	if col.Constraints.Min == nil && col.Constraints.Max == nil {
		return 0
	}

	out := 0
	for _, cell := range t.Column(col.Name) {
		if record.IsMissing(cell) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			continue
		}
		if col.Constraints.Min != nil && v < *col.Constraints.Min {
			out++
		} else if col.Constraints.Max != nil && v > *col.Constraints.Max {
			out++
		}
	}
	return out
}

func boundString(b *float64) string {
	if b == nil {
		return "-"
	}
	return strconv.FormatFloat(*b, 'g', -1, 64)
}
