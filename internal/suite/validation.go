package suite

import (
	"fmt"
	"os"
	"path/filepath"

	"qtdata.quanttide.cn/internal/inspector"
	"qtdata.quanttide.cn/internal/workspace"
)

func runInspector(m *workspace.Manager) *Result {
	r := &Result{}

	ins, err := m.Inspector()
	if err != nil {
		r.fail("inspector_build", err.Error())
		return r
	}
	cleaned, err := m.CleanedRecords()
	if err != nil {
		r.fail("cleaned_load", err.Error())
		return r
	}

	surfaces := []struct {
		name string
		run  func() inspector.Result
	}{
		{"schema_compliance", func() inspector.Result { return ins.ValidateSchemaCompliance(cleaned) }},
		{"data_quality", func() inspector.Result { return ins.ValidateDataQuality(cleaned) }},
		{"business_rules", func() inspector.Result { return ins.ValidateBusinessRules(cleaned) }},
	}

	for _, surface := range surfaces {
		res := surface.run()
		if res.Status == inspector.StatusPassed {
			detail := "no issues"
			if surface.name == "data_quality" {
				detail = fmt.Sprintf("quality score %.3f", res.QualityScore)
			}
			r.pass(surface.name, detail)
			continue
		}
		for _, issue := range res.Issues {
			r.fail(surface.name, issue.Detail)
		}
	}

	return r
}

func runManifest(m *workspace.Manager) *Result {
	r := &Result{}

	mf, err := m.DatasetManifest()
	if err != nil {
		r.fail("manifest_load", err.Error())
		return r
	}
	r.pass("manifest_load", fmt.Sprintf("%s %s", mf.Name, mf.Version))

	if issues := mf.Validate(); len(issues) > 0 {
		r.failAll("manifest_structure", issues)
	} else {
		r.pass("manifest_structure", "manifest document is well formed")
	}

	if missing := mf.MissingComponents(); len(missing) > 0 {
		for _, c := range missing {
			r.fail("manifest_components", fmt.Sprintf("manifest does not reference component %q", c))
		}
	} else {
		r.pass("manifest_components", "all required components referenced")
	}

	// Component paths are workspace-relative.
	broken := 0
	for component, rel := range mf.Components {
		if rel == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(m.Root(), rel)); err != nil {
			r.fail("component_paths", fmt.Sprintf("component %q points to missing file %s", component, rel))
			broken++
		}
	}
	if broken == 0 {
		r.pass("component_paths", "all referenced components exist")
	}

	if cleaned, err := m.CleanedRecords(); err == nil {
		if mf.Stats.RowCount != cleaned.RowCount() {
			r.fail("manifest_stats", fmt.Sprintf(
				"manifest records %d rows but the cleaned dataset has %d",
				mf.Stats.RowCount, cleaned.RowCount()))
		} else if mf.Stats.ColumnCount != len(cleaned.Columns()) {
			r.fail("manifest_stats", fmt.Sprintf(
				"manifest records %d columns but the cleaned dataset has %d",
				mf.Stats.ColumnCount, len(cleaned.Columns())))
		} else {
			r.pass("manifest_stats", "manifest stats match the cleaned dataset")
		}
	}

	return r
}
