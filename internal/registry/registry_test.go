package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtdata.quanttide.cn/catalogdb"
	"qtdata.quanttide.cn/internal/appconf"
)

func writeSourceFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func publishSample(t *testing.T, registryDir string, catalog *catalogdb.Client) *ArchiveManifest {
	t.Helper()
	srcDir := t.TempDir()
	csv := writeSourceFile(t, srcDir, "questionnaire_cleaned.csv", "id,age\n1,30\n")
	schema := writeSourceFile(t, srcDir, "questionnaire_schema.json", `{"name":"q","version":"1.0"}`)

	p := NewPublisher(registryDir, catalog)
	m, err := p.Publish(context.Background(), KindDataset, "questionnaire_cleaning", "1.0", []string{csv, schema})
	require.NoError(t, err)
	return m
}

func TestPublish(t *testing.T) {
	registryDir := t.TempDir()
	m := publishSample(t, registryDir, nil)

	assert.Equal(t, "questionnaire_cleaning_1.0.zip", m.Archive)
	assert.Equal(t, KindDataset, m.Kind)
	assert.Len(t, m.Files, 2)
	assert.NotEmpty(t, m.ArchiveChecksum)
	assert.Positive(t, m.ArchiveSize)

	archivePath := filepath.Join(registryDir, "dataset", m.Archive)
	assert.FileExists(t, archivePath)
	assert.FileExists(t, archivePath+"_manifest.json")

	// The sidecar manifest round-trips
	loaded, err := LoadManifest(archivePath + "_manifest.json")
	require.NoError(t, err)
	assert.Equal(t, m.ArchiveChecksum, loaded.ArchiveChecksum)

	// And the recorded checksum matches the archive on disk
	checksum, size, err := ChecksumFile(archivePath)
	require.NoError(t, err)
	assert.Equal(t, m.ArchiveChecksum, checksum)
	assert.Equal(t, m.ArchiveSize, size)
}

func TestPublishValidation(t *testing.T) {
	p := NewPublisher(t.TempDir(), nil)

	_, err := p.Publish(context.Background(), "container", "x", "1.0", []string{"a"})
	assert.Error(t, err)

	_, err = p.Publish(context.Background(), KindDataset, "bad name", "1.0", []string{"a"})
	assert.Error(t, err)

	_, err = p.Publish(context.Background(), KindDataset, "x", "latest", []string{"a"})
	assert.Error(t, err)

	_, err = p.Publish(context.Background(), KindDataset, "x", "1.0", nil)
	assert.Error(t, err)

	_, err = p.Publish(context.Background(), KindDataset, "x", "1.0", []string{"does/not/exist.csv"})
	assert.Error(t, err)
}

func TestPublishIndexesArtifact(t *testing.T) {
	catalog, err := catalogdb.NewClient(catalogdb.NewConfig(":memory:", appconf.Test, false))
	require.NoError(t, err)
	defer catalog.Close() // nolint:errcheck

	registryDir := t.TempDir()
	m := publishSample(t, registryDir, catalog)

	artifact, err := catalog.Queries.GetArtifact(context.Background(), KindDataset, "questionnaire_cleaning", "1.0")
	require.NoError(t, err)
	assert.Equal(t, m.ArchiveChecksum, artifact.Checksum)
	assert.Equal(t, m.ArchiveSize, artifact.SizeBytes)
}

func TestVerify(t *testing.T) {
	t.Run("published archives verify clean", func(t *testing.T) {
		registryDir := t.TempDir()
		publishSample(t, registryDir, nil)

		issues, err := Verify(registryDir, KindDataset)
		require.NoError(t, err)
		assert.Empty(t, issues)
	})

	t.Run("tampered archive fails checksum", func(t *testing.T) {
		registryDir := t.TempDir()
		m := publishSample(t, registryDir, nil)

		archivePath := filepath.Join(registryDir, "dataset", m.Archive)
		require.NoError(t, os.WriteFile(archivePath, []byte("tampered"), 0o644))

		issues, err := Verify(registryDir, KindDataset)
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0], "checksum mismatch")
	})

	t.Run("archive without manifest is flagged", func(t *testing.T) {
		registryDir := t.TempDir()
		kindDir := filepath.Join(registryDir, "dataset")
		require.NoError(t, os.MkdirAll(kindDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(kindDir, "orphan_1.0.zip"), []byte("zip"), 0o644))

		issues, err := Verify(registryDir, KindDataset)
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0], "orphan_1.0.zip")
	})

	t.Run("empty kind directory reports no archives", func(t *testing.T) {
		registryDir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(registryDir, "recipe"), 0o755))

		issues, err := Verify(registryDir, KindRecipe)
		require.NoError(t, err)
		require.Len(t, issues, 1)
		assert.Contains(t, issues[0], "no recipe archives published")
	})

	t.Run("missing kind directory is an error", func(t *testing.T) {
		_, err := Verify(t.TempDir(), KindDataset)
		assert.Error(t, err)
	})
}
