package manifest

import (
	"time"

	"github.com/google/uuid"

	"qtdata.quanttide.cn/internal/dataschema"
	"qtdata.quanttide.cn/internal/record"
)

// Build assembles a manifest for a cleaned table. Column statistics are
// computed from the table; types come from the schema document.
func Build(name, version string, t *record.Table, schema *dataschema.Document,
	components map[string]string, qa QualityAssurance) *Manifest {

	columns := make([]ColumnStats, 0, len(t.Columns()))
	for _, col := range t.Columns() {
		fieldType := "string"
		if f, ok := schema.Field(col); ok {
			fieldType = f.Type
		}
		columns = append(columns, ColumnStats{
			Name:     col,
			Type:     fieldType,
			Missing:  t.MissingCount(col),
			Distinct: t.DistinctCount(col),
		})
	}

	return &Manifest{
		Name:       name,
		Version:    version,
		CreatedAt:  time.Now().UTC(),
		RunID:      uuid.NewString(),
		Components: components,
		Stats: Stats{
			RowCount:    t.RowCount(),
			ColumnCount: len(t.Columns()),
			Columns:     columns,
		},
		QualityAssurance: qa,
	}
}
