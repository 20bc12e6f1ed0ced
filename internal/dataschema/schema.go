// Package dataschema models the schema documents stored under
// catelog/schema. A schema document describes the cleaned dataset: its
// fields, the quality rules records must satisfy, and the transformations
// that produced it from the raw records.
package dataschema

import (
	"encoding/json"
	"fmt"
	"os"
)

// ValidFieldTypes is the closed set of types a schema field may declare.
var ValidFieldTypes = map[string]bool{
	"string":      true,
	"integer":     true,
	"float":       true,
	"binary":      true,
	"datetime":    true,
	"categorical": true,
	"text":        true,
}

// Document is a parsed schema file.
type Document struct {
	Name            string           `json:"name"`
	Version         string           `json:"version"`
	Description     string           `json:"description,omitempty"`
	Schema          Definition       `json:"schema"`
	QualityRules    []QualityRule    `json:"quality_rules"`
	Transformations []Transformation `json:"transformations"`
}

// Definition holds the field list of the cleaned dataset.
type Definition struct {
	Fields []Field `json:"fields"`
}

// Field describes one column of the cleaned dataset.
type Field struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Min         *float64 `json:"min,omitempty"`
	Max         *float64 `json:"max,omitempty"`
	Allowed     []string `json:"allowed_values,omitempty"`
}

// QualityRule is a record-level predicate evaluated by the inspector.
// Expression uses expr-lang syntax over the record's typed fields.
type QualityRule struct {
	Name        string `json:"name"`
	Expression  string `json:"expression"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description,omitempty"`
}

// Transformation documents one cleaning step applied to the raw records.
type Transformation struct {
	Name         string   `json:"name"`
	SourceFields []string `json:"source_fields,omitempty"`
	TargetFields []string `json:"target_fields,omitempty"`
	Condition    string   `json:"condition,omitempty"`
	Description  string   `json:"description,omitempty"`
}

// Load reads and parses a schema JSON file.
func Load(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading schema file: %w", err)
	}

	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("error parsing schema %s: %w", path, err)
	}

	return &doc, nil
}

// Validate checks the structural rules every schema document must satisfy
// and returns one message per violation.
func (d *Document) Validate() []string {
	var issues []string

	if d.Name == "" {
		issues = append(issues, "schema is missing required field: name")
	}
	if d.Version == "" {
		issues = append(issues, "schema is missing required field: version")
	}
	if len(d.Schema.Fields) == 0 {
		issues = append(issues, "schema.fields must not be empty")
	}

	seen := make(map[string]bool)
	for _, f := range d.Schema.Fields {
		if f.Name == "" {
			issues = append(issues, "field with empty name")
			continue
		}
		if seen[f.Name] {
			issues = append(issues, fmt.Sprintf("duplicate field %q", f.Name))
		}
		seen[f.Name] = true

		if f.Type == "" {
			issues = append(issues, fmt.Sprintf("field %q is missing a type", f.Name))
		} else if !ValidFieldTypes[f.Type] {
			issues = append(issues, fmt.Sprintf("field %q has invalid type %q", f.Name, f.Type))
		}
	}

	for _, r := range d.QualityRules {
		if r.Name == "" || r.Expression == "" {
			issues = append(issues, fmt.Sprintf("quality rule %q must have a name and an expression", r.Name))
		}
	}

	for _, tr := range d.Transformations {
		if tr.Name == "" {
			issues = append(issues, "transformation with empty name")
		}
	}

	return issues
}

// FieldNames returns the declared field names in order.
func (d *Document) FieldNames() []string {
	names := make([]string, len(d.Schema.Fields))
	for i, f := range d.Schema.Fields {
		names[i] = f.Name
	}
	return names
}

// Field returns the definition of a named field, if declared.
func (d *Document) Field(name string) (Field, bool) {
	for _, f := range d.Schema.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}
