// Package workspace manages a data-engineering fixture workspace: the
// directory tree holding the cleaning blueprint, the data catalog, the
// factory outputs and the publication registry for one dataset.
package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"qtdata.quanttide.cn/internal/appconf"
	"qtdata.quanttide.cn/internal/dataschema"
	"qtdata.quanttide.cn/internal/inspector"
	"qtdata.quanttide.cn/internal/manifest"
	"qtdata.quanttide.cn/internal/plan"
	"qtdata.quanttide.cn/internal/record"
)

// Top-level workspace directories. "catelog" is the historical spelling used
// by existing workspaces; it is part of the on-disk contract.
const (
	BlueprintDirName = "blueprint"
	CatelogDirName   = "catelog"
	FactoryDirName   = "factory"
	RegistryDirName  = "registry"
)

// RequiredLayout maps each top-level directory to its required children.
var RequiredLayout = map[string][]string{
	BlueprintDirName: {"plan", "spec", "processor", "inspector"},
	CatelogDirName:   {"schema", "record"},
	FactoryDirName:   {"manifest", "report"},
	RegistryDirName:  {"dataset", "recipe"},
}

// Config holds the settings for a workspace Manager.
type Config struct {
	Root    string
	Env     appconf.Environment
	Verbose bool
}

// Manager provides access to the parsed components of one workspace.
// Components are loaded lazily and cached.
type Manager struct {
	config Config

	mu              sync.Mutex
	plan            *plan.Plan
	schema          *dataschema.Document
	raw             *record.Table
	cleaned         *record.Table
	datasetManifest *manifest.Manifest
}

// InitManager creates a Manager rooted at config.Root. The root directory
// must exist; everything below it is validated by the structure suite, not
// here.
func InitManager(config Config) (*Manager, error) {
	info, err := os.Stat(config.Root)
	if err != nil {
		return nil, fmt.Errorf("workspace root does not exist: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", config.Root)
	}

	return &Manager{config: config}, nil
}

// Root returns the workspace root directory.
func (m *Manager) Root() string {
	return m.config.Root
}

func (m *Manager) BlueprintDir() string { return filepath.Join(m.config.Root, BlueprintDirName) }
func (m *Manager) CatelogDir() string   { return filepath.Join(m.config.Root, CatelogDirName) }
func (m *Manager) FactoryDir() string   { return filepath.Join(m.config.Root, FactoryDirName) }
func (m *Manager) RegistryDir() string  { return filepath.Join(m.config.Root, RegistryDirName) }

// MissingDirectories returns the required directories the workspace lacks,
// as workspace-relative paths in stable order.
func (m *Manager) MissingDirectories() []string {
	var missing []string

	tops := make([]string, 0, len(RequiredLayout))
	for top := range RequiredLayout {
		tops = append(tops, top)
	}
	sort.Strings(tops)

	for _, top := range tops {
		topPath := filepath.Join(m.config.Root, top)
		if !isDir(topPath) {
			missing = append(missing, top)
			continue
		}
		for _, child := range RequiredLayout[top] {
			if !isDir(filepath.Join(topPath, child)) {
				missing = append(missing, filepath.Join(top, child))
			}
		}
	}

	return missing
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// findOne returns the first (sorted) path matching pattern under the
// workspace, or an error naming what was expected.
func (m *Manager) findOne(pattern, what string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(m.config.Root, pattern))
	if err != nil {
		return "", fmt.Errorf("error searching for %s: %w", what, err)
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("workspace has no %s (expected %s)", what, pattern)
	}
	sort.Strings(matches)
	return matches[0], nil
}

func (m *Manager) PlanPath() (string, error) {
	return m.findOne(filepath.Join(BlueprintDirName, "plan", "*_plan.md"), "cleaning plan")
}

func (m *Manager) SchemaPath() (string, error) {
	return m.findOne(filepath.Join(CatelogDirName, "schema", "*_schema.json"), "schema document")
}

func (m *Manager) RawRecordPath() (string, error) {
	return m.findOne(filepath.Join(CatelogDirName, "record", "*_raw.csv"), "raw records")
}

func (m *Manager) CleanedRecordPath() (string, error) {
	return m.findOne(filepath.Join(CatelogDirName, "record", "*_cleaned.csv"), "cleaned records")
}

func (m *Manager) ReportPath() (string, error) {
	return m.findOne(filepath.Join(FactoryDirName, "report", "*_report.md"), "cleaning report")
}

func (m *Manager) DatasetManifestPath() (string, error) {
	return m.findOne(filepath.Join(FactoryDirName, "manifest", "*_dataset_manifest.json"), "dataset manifest")
}

// ManifestPaths returns every factory manifest, sorted.
func (m *Manager) ManifestPaths() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.FactoryDir(), "manifest", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("error listing manifests: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// ContractPaths returns the data contract files, if the workspace has any.
func (m *Manager) ContractPaths() []string {
	matches, _ := filepath.Glob(filepath.Join(m.CatelogDir(), "contract", "*.yaml"))
	sort.Strings(matches)
	return matches
}

// Plan returns the parsed cleaning plan, loading it on first use.
func (m *Manager) Plan() (*plan.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.plan != nil {
		return m.plan, nil
	}
	path, err := m.PlanPath()
	if err != nil {
		return nil, err
	}
	p, err := plan.Load(path)
	if err != nil {
		return nil, err
	}
	m.plan = p
	return p, nil
}

// Schema returns the parsed schema document, loading it on first use.
func (m *Manager) Schema() (*dataschema.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.schema != nil {
		return m.schema, nil
	}
	path, err := m.SchemaPath()
	if err != nil {
		return nil, err
	}
	doc, err := dataschema.Load(path)
	if err != nil {
		return nil, err
	}
	m.schema = doc
	return doc, nil
}

// RawRecords returns the raw record table, loading it on first use.
func (m *Manager) RawRecords() (*record.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.raw != nil {
		return m.raw, nil
	}
	path, err := m.RawRecordPath()
	if err != nil {
		return nil, err
	}
	t, err := record.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	m.raw = t
	return t, nil
}

// CleanedRecords returns the cleaned record table, loading it on first use.
func (m *Manager) CleanedRecords() (*record.Table, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cleaned != nil {
		return m.cleaned, nil
	}
	path, err := m.CleanedRecordPath()
	if err != nil {
		return nil, err
	}
	t, err := record.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	m.cleaned = t
	return t, nil
}

// DatasetManifest returns the parsed dataset manifest, loading it on first use.
func (m *Manager) DatasetManifest() (*manifest.Manifest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.datasetManifest != nil {
		return m.datasetManifest, nil
	}
	path, err := m.DatasetManifestPath()
	if err != nil {
		return nil, err
	}
	mf, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	m.datasetManifest = mf
	return mf, nil
}

// Inspector builds an inspector from the workspace plan and schema.
func (m *Manager) Inspector() (*inspector.Inspector, error) {
	p, err := m.Plan()
	if err != nil {
		return nil, err
	}
	s, err := m.Schema()
	if err != nil {
		return nil, err
	}
	return inspector.New(p, s), nil
}

// Summary counts the workspace components, for status reporting.
type Summary struct {
	Root            string `json:"root"`
	Plans           int    `json:"plans"`
	Schemas         int    `json:"schemas"`
	RecordFiles     int    `json:"record_files"`
	Manifests       int    `json:"manifests"`
	Reports         int    `json:"reports"`
	DatasetArchives int    `json:"dataset_archives"`
	RecipeArchives  int    `json:"recipe_archives"`
	MissingDirs     int    `json:"missing_dirs"`
}

// Statistics scans the workspace and counts its components.
func (m *Manager) Statistics() Summary {
	count := func(pattern string) int {
		matches, _ := filepath.Glob(filepath.Join(m.config.Root, pattern))
		return len(matches)
	}

	return Summary{
		Root:            m.config.Root,
		Plans:           count(filepath.Join(BlueprintDirName, "plan", "*_plan.md")),
		Schemas:         count(filepath.Join(CatelogDirName, "schema", "*_schema.json")),
		RecordFiles:     count(filepath.Join(CatelogDirName, "record", "*.csv")),
		Manifests:       count(filepath.Join(FactoryDirName, "manifest", "*.json")),
		Reports:         count(filepath.Join(FactoryDirName, "report", "*_report.md")),
		DatasetArchives: count(filepath.Join(RegistryDirName, "dataset", "*.zip")),
		RecipeArchives:  count(filepath.Join(RegistryDirName, "recipe", "*.zip")),
		MissingDirs:     len(m.MissingDirectories()),
	}
}

// PrintStatistics logs the workspace summary.
func (m *Manager) PrintStatistics(logger *slog.Logger) {
	s := m.Statistics()
	logger.Info("workspace statistics",
		slog.String("root", s.Root),
		slog.Int("plans", s.Plans),
		slog.Int("schemas", s.Schemas),
		slog.Int("record_files", s.RecordFiles),
		slog.Int("manifests", s.Manifests),
		slog.Int("reports", s.Reports),
		slog.Int("dataset_archives", s.DatasetArchives),
		slog.Int("recipe_archives", s.RecipeArchives),
		slog.Int("missing_dirs", s.MissingDirs),
	)
}
