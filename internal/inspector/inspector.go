// Package inspector validates cleaned record tables against the plan's
// field definitions and the schema's quality rules. It mirrors the three
// validation surfaces of a cleaning blueprint: schema compliance, data
// quality, and business rules.
package inspector

import (
	"fmt"

	"qtdata.quanttide.cn/internal/dataschema"
	"qtdata.quanttide.cn/internal/plan"
	"qtdata.quanttide.cn/internal/record"
	"qtdata.quanttide.cn/internal/utils"
)

const (
	StatusPassed = "passed"
	StatusFailed = "failed"
)

// Issue is one problem found during validation.
type Issue struct {
	Check  string `json:"check"`
	Field  string `json:"field,omitempty"`
	Row    int    `json:"row,omitempty"` // 1-based data row, 0 when table-level
	Detail string `json:"detail"`
}

// Result is the outcome of one validation surface.
type Result struct {
	Status       string  `json:"status"`
	Issues       []Issue `json:"issues"`
	QualityScore float64 `json:"quality_score,omitempty"`
}

// Inspector validates record tables for one cleaning blueprint.
type Inspector struct {
	plan   *plan.Plan
	schema *dataschema.Document
	engine *Engine
}

// New creates an Inspector from a parsed plan and schema document.
func New(p *plan.Plan, s *dataschema.Document) *Inspector {
	return &Inspector{
		plan:   p,
		schema: s,
		engine: NewEngine(),
	}
}

// FieldDefinitions returns the plan's parsed field-definition table.
func (ins *Inspector) FieldDefinitions() []plan.FieldDefinition {
	return ins.plan.Fields
}

// ValidateSchemaCompliance checks that the table carries exactly the fields
// the schema declares and that every non-missing cell conforms to its
// declared type.
func (ins *Inspector) ValidateSchemaCompliance(t *record.Table) Result {
	var issues []Issue

	declared := make(map[string]bool)
	for _, f := range ins.schema.Schema.Fields {
		declared[f.Name] = true
		if !t.HasColumn(f.Name) {
			issues = append(issues, Issue{
				Check:  "field_present",
				Field:  f.Name,
				Detail: fmt.Sprintf("schema field %q is missing from the data", f.Name),
			})
		}
	}
	for _, col := range t.Columns() {
		if !declared[col] {
			issues = append(issues, Issue{
				Check:  "field_declared",
				Field:  col,
				Detail: fmt.Sprintf("data column %q is not declared in the schema", col),
			})
		}
	}

	for _, f := range ins.schema.Schema.Fields {
		if !t.HasColumn(f.Name) {
			continue
		}
		issues = append(issues, ins.checkColumnType(t, f)...)
	}

	return resultFor(issues, 0)
}

func (ins *Inspector) checkColumnType(t *record.Table, f dataschema.Field) []Issue {
	var issues []Issue
	for i, cell := range t.Column(f.Name) {
		if record.IsMissing(cell) {
			continue
		}
		if err := checkCellType(cell, f.Type); err != nil {
			issues = append(issues, Issue{
				Check:  "field_type",
				Field:  f.Name,
				Row:    i + 1,
				Detail: err.Error(),
			})
		}
	}
	return issues
}

func checkCellType(cell, fieldType string) error {
	switch fieldType {
	case "integer":
		if _, err := record.ParseInt(cell); err != nil {
			return fmt.Errorf("value %q is not an integer", cell)
		}
	case "float":
		if _, err := record.ParseFloat(cell); err != nil {
			return fmt.Errorf("value %q is not numeric", cell)
		}
	case "binary":
		if cell != "0" && cell != "1" {
			return fmt.Errorf("value %q is not binary (0/1)", cell)
		}
	case "datetime":
		if err := validateTimestampCell(cell); err != nil {
			return err
		}
	}
	// string, categorical and text accept any value
	return nil
}

func validateTimestampCell(cell string) error {
	if err := utils.ValidateTimestamp(cell); err != nil {
		return fmt.Errorf("value %q is not a YYYY-MM-DD HH:MM:SS timestamp", cell)
	}
	return nil
}

// ValidateDataQuality checks table-level quality: non-empty, duplicate key
// rows, fully missing columns. The quality score is the share of non-missing
// cells.
func (ins *Inspector) ValidateDataQuality(t *record.Table) Result {
	var issues []Issue

	if t.RowCount() == 0 {
		issues = append(issues, Issue{Check: "row_count", Detail: "table has no data rows"})
		return resultFor(issues, 0)
	}

	if key := ins.keyField(); key != "" && t.HasColumn(key) {
		if dups := t.DuplicateCount([]string{key}); dups > 0 {
			issues = append(issues, Issue{
				Check:  "duplicates",
				Field:  key,
				Detail: fmt.Sprintf("%d duplicate rows on key %q", dups, key),
			})
		}
	}

	totalCells := 0
	missingCells := 0
	for _, col := range t.Columns() {
		missing := t.MissingCount(col)
		totalCells += t.RowCount()
		missingCells += missing
		if missing == t.RowCount() {
			issues = append(issues, Issue{
				Check:  "column_missing",
				Field:  col,
				Detail: fmt.Sprintf("column %q has no observed values", col),
			})
		}
	}

	score := 1.0
	if totalCells > 0 {
		score = 1.0 - float64(missingCells)/float64(totalCells)
	}

	return resultFor(issues, score)
}

// ValidateBusinessRules evaluates each schema quality rule against every
// record. Rules with severity "warning" report issues without failing the
// result.
func (ins *Inspector) ValidateBusinessRules(t *record.Table) Result {
	var issues []Issue
	blocking := 0

	for _, rule := range ins.schema.QualityRules {
		for i := 0; i < t.RowCount(); i++ {
			env := ins.recordEnv(t, i)
			ok, err := ins.engine.Evaluate(rule.Expression, env)
			if err != nil {
				issues = append(issues, Issue{
					Check:  rule.Name,
					Row:    i + 1,
					Detail: fmt.Sprintf("rule evaluation failed: %v", err),
				})
				blocking++
				continue
			}
			if !ok {
				issues = append(issues, Issue{
					Check:  rule.Name,
					Row:    i + 1,
					Detail: fmt.Sprintf("record violates rule %q", rule.Name),
				})
				if rule.Severity != "warning" {
					blocking++
				}
			}
		}
	}

	result := Result{Status: StatusPassed, Issues: issues}
	if blocking > 0 {
		result.Status = StatusFailed
	}
	return result
}

// EvaluateCondition evaluates an expr predicate against one record of the
// table, using the same typed environment as the quality rules.
func (ins *Inspector) EvaluateCondition(t *record.Table, row int, expression string) (bool, error) {
	return ins.engine.Evaluate(expression, ins.recordEnv(t, row))
}

// recordEnv converts a row into a typed environment for rule evaluation.
// Missing numeric cells become -99 so rules can test for them explicitly.
func (ins *Inspector) recordEnv(t *record.Table, row int) map[string]interface{} {
	env := make(map[string]interface{}, len(t.Columns()))
	for _, col := range t.Columns() {
		cell, _ := t.Cell(row, col)
		env[col] = ins.typedValue(col, cell)
	}
	return env
}

func (ins *Inspector) typedValue(column, cell string) interface{} {
	fieldType := "string"
	if f, ok := ins.schema.Field(column); ok {
		fieldType = f.Type
	}

	switch fieldType {
	case "integer", "binary":
		if record.IsMissing(cell) {
			return -99
		}
		if v, err := record.ParseInt(cell); err == nil {
			return int(v)
		}
		return cell
	case "float":
		if record.IsMissing(cell) {
			return -99.0
		}
		if v, err := record.ParseFloat(cell); err == nil {
			return v
		}
		return cell
	default:
		return cell
	}
}

func (ins *Inspector) keyField() string {
	for _, f := range ins.schema.Schema.Fields {
		if f.Required {
			return f.Name
		}
	}
	return ""
}

func resultFor(issues []Issue, score float64) Result {
	status := StatusPassed
	if len(issues) > 0 {
		status = StatusFailed
	}
	return Result{Status: status, Issues: issues, QualityScore: score}
}
