// Package runner dispatches the qtdata task targets: validation suites
// against the workspace, external submodule test commands, cache cleanup,
// and the target listing. Every target returns a process exit code.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"qtdata.quanttide.cn/catalogdb"
	"qtdata.quanttide.cn/internal/logging"
	"qtdata.quanttide.cn/internal/suite"
	"qtdata.quanttide.cn/internal/workspace"
)

// Runner executes task targets against one workspace.
type Runner struct {
	Workspace *workspace.Manager
	Catalog   *catalogdb.Client // optional; check runs are recorded when set
	Logger    *slog.Logger
	Out       io.Writer

	// BaseDir is where external command targets and clean operate.
	// Defaults to the current directory.
	BaseDir string
}

// Target is one dispatchable task.
type Target struct {
	Name        string
	Description string
	run         func(ctx context.Context, r *Runner) int
}

// Targets returns every registered target in listing order.
func Targets() []Target {
	targets := []Target{
		{"install", "install Python test dependencies", runInstall},
		{"test", "run every validation suite", runAllSuites},
		{"test-fixtures", "run every validation suite", runAllSuites},
	}

	for _, s := range suite.All {
		s := s
		targets = append(targets, Target{
			Name:        "test-" + s.Name,
			Description: "validate " + s.Description,
			run: func(ctx context.Context, r *Runner) int {
				return r.runSuites(ctx, false, s)
			},
		})
	}

	targets = append(targets,
		Target{"test-provider", "run the data provider test suite", externalTarget("src/provider", "uv", "run", "pytest")},
		Target{"test-sdk", "run the Python SDK test suite", externalTarget("src/python_sdk", "uv", "run", "pytest")},
		Target{"test-studio", "run the Studio widget tests", externalTarget("src/studio", "flutter", "test")},
		Target{"test-coverage", "run every suite with per-check detail and a pass-rate summary", runCoverage},
		Target{"clean", "remove test caches and generated artifacts", runClean},
		Target{"help", "list available targets", runHelp},
	)

	return targets
}

// Lookup returns the named target.
func Lookup(name string) (Target, bool) {
	for _, t := range Targets() {
		if t.Name == name {
			return t, true
		}
	}
	return Target{}, false
}

// Run dispatches one target by name and returns its exit code.
func (r *Runner) Run(ctx context.Context, name string) int {
	target, ok := Lookup(name)
	if !ok {
		fmt.Fprintf(r.Out, "unknown target: %s\n\n", name)
		runHelp(ctx, r)
		return 2
	}

	start := time.Now()
	code := target.run(ctx, r)
	logging.LogTargetRun(r.Logger, name, code, float64(time.Since(start).Milliseconds()))
	return code
}

func runAllSuites(ctx context.Context, r *Runner) int {
	return r.runSuites(ctx, false, suite.All...)
}

func runCoverage(ctx context.Context, r *Runner) int {
	return r.runSuites(ctx, true, suite.All...)
}

// runSuites executes the given suites, prints their results, records them in
// the catalog, and returns 0 iff no check failed.
func (r *Runner) runSuites(ctx context.Context, verbose bool, suites ...suite.Suite) int {
	totalChecks := 0
	failedChecks := 0

	for _, s := range suites {
		result, err := suite.RunByName(s.Name, r.Workspace)
		if err != nil {
			fmt.Fprintf(r.Out, "%s: %v\n", s.Name, err)
			return 1
		}

		r.printResult(result, verbose)
		r.recordResult(ctx, result)

		totalChecks += len(result.Checks)
		failedChecks += len(result.Failed())
	}

	if verbose && totalChecks > 0 {
		rate := 100 * float64(totalChecks-failedChecks) / float64(totalChecks)
		fmt.Fprintf(r.Out, "\n%d/%d checks passed (%.1f%%)\n", totalChecks-failedChecks, totalChecks, rate)
	}

	if failedChecks > 0 {
		return 1
	}
	return 0
}

func (r *Runner) printResult(result *suite.Result, verbose bool) {
	fmt.Fprintf(r.Out, "%-16s %s (%d checks, %s)\n",
		result.Suite, result.Status(), len(result.Checks), result.Duration.Round(time.Millisecond))

	checks := result.Checks
	if !verbose {
		checks = result.Failed()
	}
	for _, c := range checks {
		fmt.Fprintf(r.Out, "  %-4s %s: %s\n", c.Status, c.Name, c.Detail)
	}
}

func (r *Runner) recordResult(ctx context.Context, result *suite.Result) {
	if r.Catalog == nil {
		return
	}

	_, err := r.Catalog.Queries.InsertCheckRun(ctx, catalogdb.CheckRun{
		Suite:        result.Suite,
		Status:       result.Status(),
		ChecksTotal:  int64(len(result.Checks)),
		ChecksFailed: int64(len(result.Failed())),
		Workspace:    r.Workspace.Root(),
		StartedAt:    time.Now().UTC(),
		DurationMs:   result.Duration.Milliseconds(),
	})
	if err != nil {
		logging.LogError(r.Logger, "failed to record check run", err,
			slog.String("suite", result.Suite))
	}
}

func runHelp(_ context.Context, r *Runner) int {
	fmt.Fprintln(r.Out, "Available targets:")
	for _, t := range Targets() {
		fmt.Fprintf(r.Out, "  %-22s %s\n", t.Name, t.Description)
	}
	return 0
}
