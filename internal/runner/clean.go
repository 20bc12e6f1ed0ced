package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Cache directories and file patterns removed by the clean target.
var (
	cleanDirs  = []string{"__pycache__", ".pytest_cache", "htmlcov", ".qtdata-cache"}
	cleanFiles = []string{".coverage"}
	cleanExts  = []string{".pyc"}
)

// runClean removes test caches and generated artifacts under the base dir.
// Running it twice is a no-op the second time.
func runClean(_ context.Context, r *Runner) int {
	removed := 0

	err := filepath.WalkDir(r.baseDir(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// A path may vanish while walking if its parent was removed.
			return nil
		}

		if d.IsDir() && contains(cleanDirs, d.Name()) {
			if rmErr := os.RemoveAll(path); rmErr == nil {
				removed++
			}
			return filepath.SkipDir
		}

		if !d.IsDir() && shouldRemoveFile(d.Name()) {
			if rmErr := os.Remove(path); rmErr == nil {
				removed++
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(r.Out, "clean: %v\n", err)
		return 1
	}

	fmt.Fprintf(r.Out, "clean: removed %d entries\n", removed)
	return 0
}

func shouldRemoveFile(name string) bool {
	if contains(cleanFiles, name) {
		return true
	}
	for _, ext := range cleanExts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
