package suite

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtdata.quanttide.cn/internal/appconf"
	"qtdata.quanttide.cn/internal/registry"
	"qtdata.quanttide.cn/internal/workspace"
)

func fixtureManager(t *testing.T) *workspace.Manager {
	t.Helper()

	m, err := workspace.InitManager(workspace.Config{
		Root: filepath.Join("..", "..", "testdata", "workspace"),
		Env:  appconf.Test,
	})
	require.NoError(t, err)
	return m
}

// copiedManager clones the fixture workspace into a temp dir so tests can
// tamper with it.
func copiedManager(t *testing.T) (*workspace.Manager, string) {
	t.Helper()

	root := t.TempDir()
	src := filepath.Join("..", "..", "testdata", "workspace")
	require.NoError(t, os.CopyFS(root, os.DirFS(src)))

	m, err := workspace.InitManager(workspace.Config{Root: root, Env: appconf.Test})
	require.NoError(t, err)
	return m, root
}

func rewriteCell(t *testing.T, path, old, new string) {
	t.Helper()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), old)
	require.NoError(t, os.WriteFile(path, []byte(strings.Replace(string(b), old, new, 1)), 0o644))
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{
		"structure", "plan", "schema", "data", "inspector",
		"manifest", "consistency", "transformations", "report", "registry",
	}, Names())
}

func TestByName(t *testing.T) {
	s, ok := ByName("inspector")
	require.True(t, ok)
	assert.Equal(t, "inspector", s.Name)

	_, ok = ByName("nonexistent")
	assert.False(t, ok)
}

func TestRunAllOnFixtureWorkspace(t *testing.T) {
	results := RunAll(fixtureManager(t))
	require.Len(t, results, len(All))

	for _, r := range results {
		assert.Equalf(t, StatusPass, r.Status(), "suite %s failed: %+v", r.Suite, r.Failed())
		assert.NotEmpty(t, r.Checks, "suite %s ran no checks", r.Suite)
	}
}

func TestRunByNameUnknownSuite(t *testing.T) {
	_, err := RunByName("nonexistent", fixtureManager(t))
	assert.Error(t, err)
}

func TestStructureSuiteReportsMissingDirectories(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blueprint", "plan"), 0o755))

	m, err := workspace.InitManager(workspace.Config{Root: root})
	require.NoError(t, err)

	r, err := RunByName("structure", m)
	require.NoError(t, err)
	assert.Equal(t, StatusFail, r.Status())
	assert.NotEmpty(t, r.Failed())
}

func TestConsistencySuiteCatchesRangeViolation(t *testing.T) {
	m, root := copiedManager(t)
	rewriteCell(t, filepath.Join(root, "catelog", "record", "questionnaire_cleaned.csv"),
		"7,62,30", "7,150,30")

	r, err := RunByName("consistency", m)
	require.NoError(t, err)

	require.Equal(t, StatusFail, r.Status())
	failed := r.Failed()
	require.NotEmpty(t, failed)
	assert.Equal(t, "range_age", failed[0].Name)
}

func TestInspectorSuiteCatchesRuleViolation(t *testing.T) {
	m, root := copiedManager(t)
	rewriteCell(t, filepath.Join(root, "catelog", "record", "questionnaire_cleaned.csv"),
		"7,62,30", "7,150,30")

	r, err := RunByName("inspector", m)
	require.NoError(t, err)
	assert.Equal(t, StatusFail, r.Status())
}

func TestTransformationsSuiteCatchesUnclearedTarget(t *testing.T) {
	m, root := copiedManager(t)
	rewriteCell(t, filepath.Join(root, "catelog", "record", "questionnaire_cleaned.csv"),
		"2024-03-04 09:00:00,", "2024-03-04 09:00:00,Leftover Text")

	r, err := RunByName("transformations", m)
	require.NoError(t, err)

	require.Equal(t, StatusFail, r.Status())
	failed := r.Failed()
	require.NotEmpty(t, failed)
	assert.Contains(t, failed[0].Name, "conditional_")
}

func TestDataSuiteCatchesColumnMismatch(t *testing.T) {
	m, root := copiedManager(t)
	rewriteCell(t, filepath.Join(root, "catelog", "record", "questionnaire_cleaned.csv"),
		"benefit_medical,submit_time", "benefit_medical,submitted")

	r, err := RunByName("data", m)
	require.NoError(t, err)
	assert.Equal(t, StatusFail, r.Status())
}

func TestManifestSuiteCatchesStatsDrift(t *testing.T) {
	m, root := copiedManager(t)
	rewriteCell(t, filepath.Join(root, "factory", "manifest", "questionnaire_dataset_manifest.json"),
		`"row_count": 8`, `"row_count": 99`)

	r, err := RunByName("manifest", m)
	require.NoError(t, err)

	require.Equal(t, StatusFail, r.Status())
	failed := r.Failed()
	require.NotEmpty(t, failed)
	assert.Equal(t, "manifest_stats", failed[0].Name)
}

func TestRegistrySuiteSkipsWhenNothingPublished(t *testing.T) {
	r, err := RunByName("registry", fixtureManager(t))
	require.NoError(t, err)

	assert.Equal(t, StatusPass, r.Status())
	for _, c := range r.Checks {
		assert.Equal(t, StatusSkip, c.Status)
	}
}

func TestRegistrySuiteVerifiesPublishedArchives(t *testing.T) {
	m, root := copiedManager(t)

	pub := registry.NewPublisher(filepath.Join(root, "registry"), nil)
	_, err := pub.Publish(context.Background(), registry.KindDataset, "questionnaire", "1.0.0",
		[]string{filepath.Join(root, "catelog", "record", "questionnaire_cleaned.csv")})
	require.NoError(t, err)

	r, err := RunByName("registry", m)
	require.NoError(t, err)

	require.Equal(t, StatusPass, r.Status())
	var datasetCheck *CheckResult
	for i := range r.Checks {
		if r.Checks[i].Name == "dataset_archives" {
			datasetCheck = &r.Checks[i]
		}
	}
	require.NotNil(t, datasetCheck)
	assert.Equal(t, StatusPass, datasetCheck.Status)
}
