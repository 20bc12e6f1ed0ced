// Package report checks the cleaning report documents stored under
// factory/report. A report is the human-readable deliverable of a cleaning
// run; the checks verify it carries the sections and tables a reader needs
// to trust the cleaned dataset.
package report

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// RequiredSections every cleaning report must carry.
var RequiredSections = []string{
	"Overview",
	"Data Overview",
	"Transformations",
	"Statistics",
	"Quality Checks",
}

// Deliverables the report must mention.
var RequiredDeliverables = []string{"dataset", "schema", "recipe"}

// Report is a loaded cleaning report document.
type Report struct {
	Path     string
	Sections []string

	content string
	lower   string
}

// Load reads a report markdown file and indexes its sections.
func Load(path string) (*Report, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading report file: %w", err)
	}

	r := &Report{
		Path:    path,
		content: string(b),
		lower:   strings.ToLower(string(b)),
	}

	scanner := bufio.NewScanner(strings.NewReader(r.content))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "## ") {
			r.Sections = append(r.Sections, strings.TrimSpace(strings.TrimPrefix(line, "## ")))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning report %s: %w", path, err)
	}

	return r, nil
}

// HasSection reports whether the report contains a "## <name>" heading.
func (r *Report) HasSection(name string) bool {
	for _, s := range r.Sections {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// HasTableWith reports whether any markdown table row mentions the keyword.
func (r *Report) HasTableWith(keyword string) bool {
	keyword = strings.ToLower(keyword)
	for _, line := range strings.Split(r.lower, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "|") && strings.Contains(trimmed, keyword) {
			return true
		}
	}
	return false
}

// Mentions reports whether the report text contains the keyword anywhere.
func (r *Report) Mentions(keyword string) bool {
	return strings.Contains(r.lower, strings.ToLower(keyword))
}

// Check runs the full set of report checks and returns one message per
// violation.
func (r *Report) Check() []string {
	var issues []string

	for _, section := range RequiredSections {
		if !r.HasSection(section) {
			issues = append(issues, fmt.Sprintf("report is missing section %q", section))
		}
	}

	if !r.HasTableWith("field") {
		issues = append(issues, "report is missing a field-definition table")
	}
	if !r.HasTableWith("transformation") && !r.HasTableWith("mapping") {
		issues = append(issues, "report is missing a transformation-mapping table")
	}
	if !r.HasTableWith("missing") {
		issues = append(issues, "report is missing a missing-value handling table")
	}

	for _, d := range RequiredDeliverables {
		if !r.Mentions(d) {
			issues = append(issues, fmt.Sprintf("report does not mention deliverable %q", d))
		}
	}

	return issues
}
