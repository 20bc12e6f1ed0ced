package suite

import (
	"fmt"

	"qtdata.quanttide.cn/internal/dataschema"
	"qtdata.quanttide.cn/internal/report"
	"qtdata.quanttide.cn/internal/workspace"
)

func runPlan(m *workspace.Manager) *Result {
	r := &Result{}

	p, err := m.Plan()
	if err != nil {
		r.fail("plan_load", err.Error())
		return r
	}
	r.pass("plan_load", p.Path)

	if missing := p.MissingSections(); len(missing) > 0 {
		for _, s := range missing {
			r.fail("plan_sections", fmt.Sprintf("plan is missing section %q", s))
		}
	} else {
		r.pass("plan_sections", "all required sections present")
	}

	if len(p.Fields) == 0 {
		r.fail("plan_fields", "plan has no field-definition table")
		return r
	}
	r.pass("plan_fields", fmt.Sprintf("%d fields defined", len(p.Fields)))

	typesOK := true
	for _, f := range p.Fields {
		if !dataschema.ValidFieldTypes[f.Type] {
			r.fail("plan_field_types", fmt.Sprintf("field %q has unknown type %q", f.Name, f.Type))
			typesOK = false
		}
		if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
			r.fail("plan_field_ranges", fmt.Sprintf("field %q has min %v above max %v", f.Name, *f.Min, *f.Max))
		}
	}
	if typesOK {
		r.pass("plan_field_types", "all field types valid")
	}

	return r
}

func runSchema(m *workspace.Manager) *Result {
	r := &Result{}

	doc, err := m.Schema()
	if err != nil {
		r.fail("schema_load", err.Error())
		return r
	}
	r.pass("schema_load", fmt.Sprintf("%s %s", doc.Name, doc.Version))

	if issues := doc.Validate(); len(issues) > 0 {
		r.failAll("schema_structure", issues)
	} else {
		r.pass("schema_structure", "schema document is well formed")
	}

	p, err := m.Plan()
	if err != nil {
		r.skip("schema_matches_plan", "no plan to compare against")
		return r
	}

	planFields := toSet(p.FieldNames())
	schemaFields := toSet(doc.FieldNames())
	mismatch := false
	for name := range planFields {
		if !schemaFields[name] {
			r.fail("schema_matches_plan", fmt.Sprintf("plan field %q is not declared in the schema", name))
			mismatch = true
		}
	}
	for name := range schemaFields {
		if !planFields[name] {
			r.fail("schema_matches_plan", fmt.Sprintf("schema field %q is not defined in the plan", name))
			mismatch = true
		}
	}
	if !mismatch {
		r.pass("schema_matches_plan", "plan and schema declare the same fields")
	}

	return r
}

func runReport(m *workspace.Manager) *Result {
	r := &Result{}

	path, err := m.ReportPath()
	if err != nil {
		r.fail("report_load", err.Error())
		return r
	}
	rep, err := report.Load(path)
	if err != nil {
		r.fail("report_load", err.Error())
		return r
	}
	r.pass("report_load", rep.Path)

	if issues := rep.Check(); len(issues) > 0 {
		r.failAll("report_content", issues)
	} else {
		r.pass("report_content", "report carries all required sections and tables")
	}

	return r
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
