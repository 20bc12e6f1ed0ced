package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// externalTarget builds a target that runs a fixed command inside a
// subdirectory of the base dir. When the directory is absent the target
// prints a notice and succeeds, so a repository without that submodule
// checked out still passes.
func externalTarget(dir, name string, args ...string) func(ctx context.Context, r *Runner) int {
	return func(ctx context.Context, r *Runner) int {
		workdir := filepath.Join(r.baseDir(), dir)
		if info, err := os.Stat(workdir); err != nil || !info.IsDir() {
			fmt.Fprintf(r.Out, "%s not found, skipping\n", dir)
			return 0
		}
		return r.execute(ctx, workdir, name, args...)
	}
}

func runInstall(ctx context.Context, r *Runner) int {
	if code := r.execute(ctx, r.baseDir(), "python3", "-m", "pip", "install", "--upgrade", "pip"); code != 0 {
		return code
	}
	return r.execute(ctx, r.baseDir(), "python3", "-m", "pip", "install", "pytest", "pandas")
}

func (r *Runner) baseDir() string {
	if r.BaseDir == "" {
		return "."
	}
	return r.BaseDir
}

// execute runs a command and returns its exit code unmodified. A command
// that cannot be started at all exits 1.
func (r *Runner) execute(ctx context.Context, workdir, name string, args ...string) int {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = workdir
	cmd.Stdout = r.Out
	cmd.Stderr = r.Out

	err := cmd.Run()
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}

	fmt.Fprintf(r.Out, "failed to run %s: %v\n", name, err)
	return 1
}
