package record

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `id,age,department,monthly_income
1,34,2,8500.50
2,-99,1,7200
3,51,5,-99
4,29,2,8500.50
4,29,2,8500.50
`

func loadSample(t *testing.T) *Table {
	t.Helper()
	table, err := FromReader(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	return table
}

func TestFromReader(t *testing.T) {
	table := loadSample(t)

	assert.Equal(t, []string{"id", "age", "department", "monthly_income"}, table.Columns())
	assert.Equal(t, 5, table.RowCount())
	assert.True(t, table.HasColumn("age"))
	assert.False(t, table.HasColumn("tenure_years"))
}

func TestFromReaderEmpty(t *testing.T) {
	_, err := FromReader(strings.NewReader(""))
	assert.Error(t, err)
}

func TestCellAndColumn(t *testing.T) {
	table := loadSample(t)

	cell, ok := table.Cell(0, "age")
	require.True(t, ok)
	assert.Equal(t, "34", cell)

	_, ok = table.Cell(0, "nope")
	assert.False(t, ok)

	_, ok = table.Cell(99, "age")
	assert.False(t, ok)

	assert.Equal(t, []string{"34", "-99", "51", "29", "29"}, table.Column("age"))
	assert.Nil(t, table.Column("nope"))
}

func TestRecord(t *testing.T) {
	table := loadSample(t)

	rec := table.Record(2)
	require.NotNil(t, rec)
	assert.Equal(t, "51", rec["age"])
	assert.Equal(t, "-99", rec["monthly_income"])

	assert.Nil(t, table.Record(-1))
	assert.Nil(t, table.Record(5))
}

func TestIsMissing(t *testing.T) {
	assert.True(t, IsMissing(""))
	assert.True(t, IsMissing("-99"))
	assert.True(t, IsMissing(" -99 "))
	assert.True(t, IsMissing("nan"))
	assert.True(t, IsMissing("NaN"))
	assert.False(t, IsMissing("0"))
	assert.False(t, IsMissing("-98"))
}

func TestNumericColumn(t *testing.T) {
	table := loadSample(t)

	values, err := table.NumericColumn("age")
	require.NoError(t, err)
	assert.Equal(t, []float64{34, 51, 29, 29}, values)

	_, err = table.NumericColumn("nope")
	assert.Error(t, err)
}

func TestNumericColumnRejectsText(t *testing.T) {
	table, err := FromReader(strings.NewReader("age\nforty\n"))
	require.NoError(t, err)

	_, err = table.NumericColumn("age")
	assert.Error(t, err)
}

func TestMissingAndDistinctCounts(t *testing.T) {
	table := loadSample(t)

	assert.Equal(t, 1, table.MissingCount("age"))
	assert.Equal(t, 1, table.MissingCount("monthly_income"))
	assert.Equal(t, 3, table.DistinctCount("age"))
	assert.Equal(t, 3, table.DistinctCount("department"))
}

func TestDuplicateCount(t *testing.T) {
	table := loadSample(t)

	assert.Equal(t, 1, table.DuplicateCount([]string{"id"}))
	assert.Equal(t, 1, table.DuplicateCount([]string{"id", "age", "department", "monthly_income"}))
	// rows 1 and 4 share an income with the true duplicate row
	assert.Equal(t, 2, table.DuplicateCount([]string{"monthly_income"}))
}
