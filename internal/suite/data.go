package suite

import (
	"fmt"
	"strings"

	"qtdata.quanttide.cn/internal/contract"
	"qtdata.quanttide.cn/internal/dataschema"
	"qtdata.quanttide.cn/internal/record"
	"qtdata.quanttide.cn/internal/workspace"
)

func runData(m *workspace.Manager) *Result {
	r := &Result{}

	raw, err := m.RawRecords()
	if err != nil {
		r.fail("raw_load", err.Error())
	} else if raw.RowCount() == 0 {
		r.fail("raw_load", "raw record file has no data rows")
	} else {
		r.pass("raw_load", fmt.Sprintf("%d raw rows", raw.RowCount()))
	}

	cleaned, err := m.CleanedRecords()
	if err != nil {
		r.fail("cleaned_load", err.Error())
		return r
	}
	if cleaned.RowCount() == 0 {
		r.fail("cleaned_load", "cleaned record file has no data rows")
		return r
	}
	r.pass("cleaned_load", fmt.Sprintf("%d cleaned rows", cleaned.RowCount()))

	if doc, err := m.Schema(); err == nil {
		declared := doc.FieldNames()
		if fieldsMatch(declared, cleaned.Columns()) {
			r.pass("cleaned_columns", "cleaned columns match the schema")
		} else {
			r.fail("cleaned_columns", fmt.Sprintf(
				"cleaned columns %v do not match schema fields %v",
				cleaned.Columns(), declared))
		}

		checkMissingCodes(r, cleaned, doc)
	} else {
		r.skip("cleaned_columns", "no schema to compare against")
	}

	checkContracts(r, m, raw)

	return r
}

// checkMissingCodes verifies numeric columns carry no bare empty or NaN
// cells: cleaned records encode missing numerics with the uniform code.
func checkMissingCodes(r *Result, cleaned *record.Table, doc *dataschema.Document) {
	violations := 0
	for _, f := range numericFields(doc) {
		if !cleaned.HasColumn(f) {
			continue
		}
		for i, cell := range cleaned.Column(f) {
			trimmed := strings.TrimSpace(cell)
			if trimmed == record.MissingCode {
				continue
			}
			if record.IsMissing(cell) {
				r.fail("missing_code_uniformity", fmt.Sprintf(
					"column %q row %d: missing value not encoded as %s", f, i+1, record.MissingCode))
				violations++
			}
		}
	}
	if violations == 0 {
		r.pass("missing_code_uniformity", "numeric missing values use the uniform code")
	}
}

func checkContracts(r *Result, m *workspace.Manager, raw *record.Table) {
	paths := m.ContractPaths()
	if len(paths) == 0 {
		r.skip("source_contracts", "workspace declares no source contracts")
		return
	}
	if raw == nil {
		r.fail("source_contracts", "no raw records to validate against contracts")
		return
	}

	for _, path := range paths {
		c, err := contract.Load(path)
		if err != nil {
			r.fail("source_contracts", err.Error())
			continue
		}
		if issues := c.ValidateTable(raw); len(issues) > 0 {
			r.failAll("source_contracts", issues)
		} else {
			r.pass("source_contracts", fmt.Sprintf("raw records satisfy %s", c.Name))
		}
	}
}

func numericFields(doc *dataschema.Document) []string {
	var fields []string
	for _, f := range doc.Schema.Fields {
		switch f.Type {
		case "integer", "float", "binary":
			fields = append(fields, f.Name)
		}
	}
	return fields
}

func fieldsMatch(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := toSet(a)
	for _, name := range b {
		if !set[name] {
			return false
		}
	}
	return true
}
