package suite

import (
	"fmt"

	"qtdata.quanttide.cn/internal/plan"
	"qtdata.quanttide.cn/internal/record"
	"qtdata.quanttide.cn/internal/workspace"
)

// runConsistency checks every cleaned cell against the constraints the plan's
// field-definition table declares: numeric ranges, allowed value sets, binary
// encoding. Missing cells are exempt.
func runConsistency(m *workspace.Manager) *Result {
	r := &Result{}

	p, err := m.Plan()
	if err != nil {
		r.fail("plan_load", err.Error())
		return r
	}
	cleaned, err := m.CleanedRecords()
	if err != nil {
		r.fail("cleaned_load", err.Error())
		return r
	}

	for _, f := range p.Fields {
		if !cleaned.HasColumn(f.Name) {
			r.fail("field_present", fmt.Sprintf("plan field %q is missing from the cleaned data", f.Name))
			continue
		}
		checkFieldConstraints(r, cleaned, f)
	}

	return r
}

func checkFieldConstraints(r *Result, t *record.Table, f plan.FieldDefinition) {
	if f.Min != nil || f.Max != nil {
		checkRange(r, t, f)
	}
	if len(f.Allowed) > 0 {
		checkAllowed(r, t, f)
	}
	if f.Type == "binary" {
		checkBinary(r, t, f.Name)
	}
}

func checkRange(r *Result, t *record.Table, f plan.FieldDefinition) {
	name := "range_" + f.Name
	violations := 0
	for i, cell := range t.Column(f.Name) {
		if record.IsMissing(cell) {
			continue
		}
		v, err := record.ParseFloat(cell)
		if err != nil {
			r.fail(name, fmt.Sprintf("row %d: value %q is not numeric", i+1, cell))
			violations++
			continue
		}
		if (f.Min != nil && v < *f.Min) || (f.Max != nil && v > *f.Max) {
			r.fail(name, fmt.Sprintf("row %d: value %v outside range", i+1, v))
			violations++
		}
	}
	if violations == 0 {
		r.pass(name, fmt.Sprintf("all values within %s range", f.Name))
	}
}

func checkAllowed(r *Result, t *record.Table, f plan.FieldDefinition) {
	name := "allowed_" + f.Name
	allowed := toSet(f.Allowed)
	violations := 0
	for i, cell := range t.Column(f.Name) {
		if record.IsMissing(cell) {
			continue
		}
		if !allowed[cell] {
			r.fail(name, fmt.Sprintf("row %d: value %q not in allowed set %v", i+1, cell, f.Allowed))
			violations++
		}
	}
	if violations == 0 {
		r.pass(name, fmt.Sprintf("all %s values in the allowed set", f.Name))
	}
}

func checkBinary(r *Result, t *record.Table, column string) {
	name := "binary_" + column
	violations := 0
	for i, cell := range t.Column(column) {
		if record.IsMissing(cell) {
			continue
		}
		if cell != "0" && cell != "1" {
			r.fail(name, fmt.Sprintf("row %d: value %q is not binary", i+1, cell))
			violations++
		}
	}
	if violations == 0 {
		r.pass(name, fmt.Sprintf("all %s values binary", column))
	}
}
