// Package record loads CSV record files from the workspace catalog and
// provides typed access to their cells. Cleaned records use a uniform
// missing-value code rather than empty cells, so numeric checks filter
// through IsMissing before parsing.
package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MissingCode is the uniform encoding for missing values in cleaned records.
const MissingCode = "-99"

// Table is an in-memory CSV record file: a header plus data rows.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// LoadCSV reads a CSV file into a Table.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening record file: %w", err)
	}
	defer f.Close() // nolint:errcheck

	t, err := FromReader(f)
	if err != nil {
		return nil, fmt.Errorf("error reading record file %s: %w", path, err)
	}
	return t, nil
}

// FromReader parses CSV content into a Table. The first row is the header.
func FromReader(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("record file is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("error reading header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		header[i] = strings.TrimSpace(col)
		index[header[i]] = i
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, row)
	}

	return &Table{columns: header, index: index, rows: rows}, nil
}

// Columns returns the header column names in file order.
func (t *Table) Columns() []string {
	return t.columns
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.rows)
}

// HasColumn reports whether the table has a column with the given name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the value at the given row for the named column.
func (t *Table) Cell(row int, column string) (string, bool) {
	col, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.rows) {
		return "", false
	}
	if col >= len(t.rows[row]) {
		return "", false
	}
	return t.rows[row][col], true
}

// Column returns all values for the named column, nil if it does not exist.
func (t *Table) Column(name string) []string {
	col, ok := t.index[name]
	if !ok {
		return nil
	}
	values := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		if col < len(row) {
			values = append(values, row[col])
		} else {
			values = append(values, "")
		}
	}
	return values
}

// Record returns the row at index i as a column-name keyed map.
func (t *Table) Record(i int) map[string]string {
	if i < 0 || i >= len(t.rows) {
		return nil
	}
	rec := make(map[string]string, len(t.columns))
	for name, col := range t.index {
		if col < len(t.rows[i]) {
			rec[name] = t.rows[i][col]
		} else {
			rec[name] = ""
		}
	}
	return rec
}

// IsMissing reports whether a raw cell value encodes a missing value.
func IsMissing(value string) bool {
	v := strings.TrimSpace(value)
	return v == "" || v == MissingCode || strings.EqualFold(v, "nan")
}

// ParseInt parses an integer cell. Missing values are not integers.
func ParseInt(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// ParseFloat parses a numeric cell.
func ParseFloat(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(value), 64)
}

// NumericColumn returns the parsed values of a column, skipping missing cells.
func (t *Table) NumericColumn(name string) ([]float64, error) {
	raw := t.Column(name)
	if raw == nil {
		return nil, fmt.Errorf("no such column: %s", name)
	}

	values := make([]float64, 0, len(raw))
	for i, cell := range raw {
		if IsMissing(cell) {
			continue
		}
		v, err := ParseFloat(cell)
		if err != nil {
			return nil, fmt.Errorf("row %d: column %s is not numeric: %w", i+2, name, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// MissingCount returns how many cells of a column are missing.
func (t *Table) MissingCount(name string) int {
	count := 0
	for _, cell := range t.Column(name) {
		if IsMissing(cell) {
			count++
		}
	}
	return count
}

// DistinctCount returns the number of distinct non-missing values in a column.
func (t *Table) DistinctCount(name string) int {
	seen := make(map[string]struct{})
	for _, cell := range t.Column(name) {
		if IsMissing(cell) {
			continue
		}
		seen[strings.TrimSpace(cell)] = struct{}{}
	}
	return len(seen)
}

// DuplicateCount returns the number of rows whose key columns repeat an
// earlier row. Used for duplicate-record quality checks.
func (t *Table) DuplicateCount(keyColumns []string) int {
	seen := make(map[string]int)
	duplicates := 0
	for i := range t.rows {
		parts := make([]string, 0, len(keyColumns))
		for _, col := range keyColumns {
			cell, _ := t.Cell(i, col)
			parts = append(parts, strings.TrimSpace(cell))
		}
		key := strings.Join(parts, "\x1f")
		if _, ok := seen[key]; ok {
			duplicates++
		}
		seen[key]++
	}
	return duplicates
}
