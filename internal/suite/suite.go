// Package suite implements the fixture validation suites: named groups of
// checks that run against a workspace and report pass/fail per check. The
// task runner maps its test targets onto these suites.
package suite

import (
	"fmt"
	"time"

	"qtdata.quanttide.cn/internal/workspace"
)

const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusSkip = "skip"
)

// CheckResult is the outcome of one check within a suite.
type CheckResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Result is the outcome of one suite run.
type Result struct {
	Suite    string        `json:"suite"`
	Checks   []CheckResult `json:"checks"`
	Duration time.Duration `json:"duration"`
}

// Status reports the overall suite status: fail if any check failed.
func (r *Result) Status() string {
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			return StatusFail
		}
	}
	return StatusPass
}

// Failed returns the failing checks.
func (r *Result) Failed() []CheckResult {
	var failed []CheckResult
	for _, c := range r.Checks {
		if c.Status == StatusFail {
			failed = append(failed, c)
		}
	}
	return failed
}

func (r *Result) pass(name, detail string) {
	r.Checks = append(r.Checks, CheckResult{Name: name, Status: StatusPass, Detail: detail})
}

func (r *Result) fail(name, detail string) {
	r.Checks = append(r.Checks, CheckResult{Name: name, Status: StatusFail, Detail: detail})
}

func (r *Result) skip(name, detail string) {
	r.Checks = append(r.Checks, CheckResult{Name: name, Status: StatusSkip, Detail: detail})
}

// failAll records one failing check per issue message.
func (r *Result) failAll(name string, issues []string) {
	for _, issue := range issues {
		r.fail(name, issue)
	}
}

// Suite is one named validation suite.
type Suite struct {
	Name        string
	Description string
	Run         func(m *workspace.Manager) *Result
}

// All lists every suite in execution order.
var All = []Suite{
	{"structure", "workspace directory layout", runStructure},
	{"plan", "cleaning plan document", runPlan},
	{"schema", "schema document", runSchema},
	{"data", "record files and contracts", runData},
	{"inspector", "inspector validation surfaces", runInspector},
	{"manifest", "factory manifests", runManifest},
	{"consistency", "cleaned data against plan constraints", runConsistency},
	{"transformations", "declared transformations against cleaned data", runTransformations},
	{"report", "cleaning report document", runReport},
	{"registry", "published archive integrity", runRegistry},
}

// ByName returns the named suite.
func ByName(name string) (Suite, bool) {
	for _, s := range All {
		if s.Name == name {
			return s, true
		}
	}
	return Suite{}, false
}

// Names returns every suite name in execution order.
func Names() []string {
	names := make([]string, len(All))
	for i, s := range All {
		names[i] = s.Name
	}
	return names
}

// RunAll executes every suite against the workspace.
func RunAll(m *workspace.Manager) []*Result {
	results := make([]*Result, 0, len(All))
	for _, s := range All {
		results = append(results, timed(s, m))
	}
	return results
}

func timed(s Suite, m *workspace.Manager) *Result {
	start := time.Now()
	r := s.Run(m)
	r.Suite = s.Name
	r.Duration = time.Since(start)
	return r
}

// RunByName executes one suite against the workspace.
func RunByName(name string, m *workspace.Manager) (*Result, error) {
	s, ok := ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown suite: %s", name)
	}
	return timed(s, m), nil
}
