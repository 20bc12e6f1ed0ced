// Package plan parses the cleaning plan documents stored under
// blueprint/plan. A plan is a markdown file with a Data Model section that
// carries the field-definition table, and a Processing Flow section that
// describes the cleaning steps. The inspector derives its field checks from
// the parsed table.
package plan

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"qtdata.quanttide.cn/internal/record"
)

// Sections every plan must carry.
var RequiredSections = []string{"Data Model", "Processing Flow"}

// FieldDefinition is one row of the plan's field-definition table.
type FieldDefinition struct {
	Name        string
	Type        string
	Min         *float64
	Max         *float64
	Allowed     []string
	Description string
}

// Plan is a parsed cleaning plan document.
type Plan struct {
	Path     string
	Title    string
	Sections []string
	Fields   []FieldDefinition

	content string
}

// Load reads and parses a plan markdown file.
func Load(path string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading plan file: %w", err)
	}

	p := &Plan{Path: path, content: string(b)}
	if err := p.parse(); err != nil {
		return nil, fmt.Errorf("error parsing plan %s: %w", path, err)
	}

	return p, nil
}

// HasSection reports whether the plan contains a "## <name>" heading.
func (p *Plan) HasSection(name string) bool {
	for _, s := range p.Sections {
		if s == name {
			return true
		}
	}
	return false
}

// MissingSections returns the required sections the plan does not carry.
func (p *Plan) MissingSections() []string {
	var missing []string
	for _, s := range RequiredSections {
		if !p.HasSection(s) {
			missing = append(missing, s)
		}
	}
	return missing
}

// Field returns the definition for a named field, if present.
func (p *Plan) Field(name string) (FieldDefinition, bool) {
	for _, f := range p.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// FieldNames returns the names of all defined fields in table order.
func (p *Plan) FieldNames() []string {
	names := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		names[i] = f.Name
	}
	return names
}

func (p *Plan) parse() error {
	scanner := bufio.NewScanner(strings.NewReader(p.content))

	inDataModel := false
	tableRowsSeen := 0

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "# ") && p.Title == "":
			p.Title = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		case strings.HasPrefix(line, "## "):
			section := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			p.Sections = append(p.Sections, section)
			inDataModel = section == "Data Model"
			tableRowsSeen = 0
		case inDataModel && strings.HasPrefix(line, "|"):
			tableRowsSeen++
			// Row 1 is the header, row 2 the separator
			if tableRowsSeen <= 2 {
				continue
			}
			field, err := parseFieldRow(line)
			if err != nil {
				return err
			}
			p.Fields = append(p.Fields, field)
		}
	}

	return scanner.Err()
}

// parseFieldRow parses one markdown table row of the form
// | name | type | min | max | allowed | description |
func parseFieldRow(line string) (FieldDefinition, error) {
	cells := splitTableRow(line)
	if len(cells) < 2 {
		return FieldDefinition{}, fmt.Errorf("malformed field table row: %s", line)
	}

	field := FieldDefinition{
		Name: cells[0],
		Type: strings.ToLower(cells[1]),
	}

	if len(cells) > 2 && cells[2] != "" {
		v, err := record.ParseFloat(cells[2])
		if err != nil {
			return FieldDefinition{}, fmt.Errorf("field %s: invalid min %q", field.Name, cells[2])
		}
		field.Min = &v
	}
	if len(cells) > 3 && cells[3] != "" {
		v, err := record.ParseFloat(cells[3])
		if err != nil {
			return FieldDefinition{}, fmt.Errorf("field %s: invalid max %q", field.Name, cells[3])
		}
		field.Max = &v
	}
	if len(cells) > 4 && cells[4] != "" {
		for _, v := range strings.Split(cells[4], ",") {
			field.Allowed = append(field.Allowed, strings.TrimSpace(v))
		}
	}
	if len(cells) > 5 {
		field.Description = cells[5]
	}

	return field, nil
}

func splitTableRow(line string) []string {
	trimmed := strings.Trim(line, "|")
	parts := strings.Split(trimmed, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}
