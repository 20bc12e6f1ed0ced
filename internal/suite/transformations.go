package suite

import (
	"fmt"

	"qtdata.quanttide.cn/internal/record"
	"qtdata.quanttide.cn/internal/workspace"
)

// runTransformations verifies the cleaned data reflects the transformations
// the schema declares: target fields exist, and conditional transformations
// left their target cleared wherever the condition held.
func runTransformations(m *workspace.Manager) *Result {
	r := &Result{}

	doc, err := m.Schema()
	if err != nil {
		r.fail("schema_load", err.Error())
		return r
	}
	cleaned, err := m.CleanedRecords()
	if err != nil {
		r.fail("cleaned_load", err.Error())
		return r
	}

	if len(doc.Transformations) == 0 {
		r.fail("transformations_declared", "schema declares no transformations")
		return r
	}
	r.pass("transformations_declared", fmt.Sprintf("%d transformations declared", len(doc.Transformations)))

	for _, tr := range doc.Transformations {
		checkTargetFields(r, cleaned, tr.Name, tr.TargetFields)
	}

	ins, err := m.Inspector()
	if err != nil {
		r.fail("conditional_transformations", err.Error())
		return r
	}

	for _, tr := range doc.Transformations {
		if tr.Condition == "" || len(tr.TargetFields) != 1 {
			continue
		}
		name := "conditional_" + tr.Name
		target := tr.TargetFields[0]
		violations := 0
		for i := 0; i < cleaned.RowCount(); i++ {
			cleared, err := ins.EvaluateCondition(cleaned, i, tr.Condition)
			if err != nil {
				r.fail(name, fmt.Sprintf("row %d: condition evaluation failed: %v", i+1, err))
				violations++
				continue
			}
			cell, _ := cleaned.Cell(i, target)
			if cleared && !record.IsMissing(cell) {
				r.fail(name, fmt.Sprintf("row %d: %q should be cleared but holds %q", i+1, target, cell))
				violations++
			}
		}
		if violations == 0 {
			r.pass(name, fmt.Sprintf("target %q cleared wherever the condition held", target))
		}
	}

	return r
}

func checkTargetFields(r *Result, t *record.Table, transformation string, targets []string) {
	name := "targets_" + transformation
	missing := 0
	for _, field := range targets {
		if !t.HasColumn(field) {
			r.fail(name, fmt.Sprintf("target field %q is missing from the cleaned data", field))
			missing++
		}
	}
	if missing == 0 && len(targets) > 0 {
		r.pass(name, "all target fields present")
	}
}
