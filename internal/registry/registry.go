// Package registry publishes finished cleaning artifacts. A published
// artifact is a zip archive under registry/dataset or registry/recipe with a
// sibling <archive>_manifest.json recording sha256 checksums, and an entry in
// the catalog index.
package registry

import (
	"archive/zip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"qtdata.quanttide.cn/catalogdb"
	"qtdata.quanttide.cn/internal/utils"
)

const (
	KindDataset = "dataset"
	KindRecipe  = "recipe"

	manifestSuffix = "_manifest.json"
)

// ArchiveFile records one file inside a published archive.
type ArchiveFile struct {
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Size     int64  `json:"size"`
}

// ArchiveManifest is the sidecar manifest written next to each archive.
type ArchiveManifest struct {
	Name            string        `json:"name"`
	Version         string        `json:"version"`
	Kind            string        `json:"kind"`
	CreatedAt       time.Time     `json:"created_at"`
	Archive         string        `json:"archive"`
	ArchiveChecksum string        `json:"archive_checksum"`
	ArchiveSize     int64         `json:"archive_size"`
	Files           []ArchiveFile `json:"files"`
}

// Publisher writes archives into a registry directory and records them in the
// catalog index.
type Publisher struct {
	registryDir string
	catalog     *catalogdb.Client
}

// NewPublisher creates a Publisher rooted at the workspace registry
// directory. The catalog client may be nil; publication then skips indexing.
func NewPublisher(registryDir string, catalog *catalogdb.Client) *Publisher {
	return &Publisher{registryDir: registryDir, catalog: catalog}
}

// Publish bundles the given files into a zip archive named
// <name>_<version>.zip under the kind's directory, writes the checksum
// manifest next to it, and indexes the artifact.
func (p *Publisher) Publish(ctx context.Context, kind, name, version string, files []string) (*ArchiveManifest, error) {
	if kind != KindDataset && kind != KindRecipe {
		return nil, fmt.Errorf("unknown artifact kind %q", kind)
	}
	if err := utils.ValidateName(name); err != nil {
		return nil, fmt.Errorf("invalid artifact name %q: %w", name, err)
	}
	if err := utils.ValidateVersion(version); err != nil {
		return nil, fmt.Errorf("invalid artifact version %q: %w", version, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("nothing to publish for %s %s", kind, name)
	}

	kindDir := filepath.Join(p.registryDir, kind)
	if err := os.MkdirAll(kindDir, 0o755); err != nil {
		return nil, fmt.Errorf("error creating registry directory: %w", err)
	}

	archiveName := fmt.Sprintf("%s_%s.zip", name, version)
	archivePath := filepath.Join(kindDir, archiveName)

	fileEntries, err := writeArchive(archivePath, files)
	if err != nil {
		return nil, err
	}

	checksum, size, err := ChecksumFile(archivePath)
	if err != nil {
		return nil, err
	}

	m := &ArchiveManifest{
		Name:            name,
		Version:         version,
		Kind:            kind,
		CreatedAt:       time.Now().UTC(),
		Archive:         archiveName,
		ArchiveChecksum: checksum,
		ArchiveSize:     size,
		Files:           fileEntries,
	}

	manifestPath := archivePath + manifestSuffix
	if err := writeManifest(manifestPath, m); err != nil {
		return nil, err
	}

	if p.catalog != nil {
		_, err := p.catalog.Queries.InsertArtifact(ctx, catalogdb.Artifact{
			Kind:        kind,
			Name:        name,
			Version:     version,
			ArchivePath: archivePath,
			Checksum:    checksum,
			SizeBytes:   size,
			PublishedAt: m.CreatedAt,
		})
		if err != nil {
			return nil, fmt.Errorf("error indexing artifact: %w", err)
		}
	}

	return m, nil
}

func writeArchive(archivePath string, files []string) ([]ArchiveFile, error) {
	out, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("error creating archive: %w", err)
	}
	defer out.Close() // nolint:errcheck

	w := zip.NewWriter(out)

	var entries []ArchiveFile
	for _, file := range files {
		entry, err := addArchiveFile(w, file)
		if err != nil {
			w.Close() // nolint:errcheck
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("error finalizing archive: %w", err)
	}
	if err := out.Close(); err != nil {
		return nil, fmt.Errorf("error closing archive: %w", err)
	}
	return entries, nil
}

func addArchiveFile(w *zip.Writer, file string) (ArchiveFile, error) {
	b, err := os.ReadFile(file)
	if err != nil {
		return ArchiveFile{}, fmt.Errorf("error reading %s: %w", file, err)
	}

	name := filepath.Base(file)
	fw, err := w.Create(name)
	if err != nil {
		return ArchiveFile{}, fmt.Errorf("error adding %s to archive: %w", name, err)
	}
	if _, err := fw.Write(b); err != nil {
		return ArchiveFile{}, fmt.Errorf("error writing %s to archive: %w", name, err)
	}

	sum := sha256.Sum256(b)
	return ArchiveFile{
		Path:     name,
		Checksum: hex.EncodeToString(sum[:]),
		Size:     int64(len(b)),
	}, nil
}

func writeManifest(path string, m *ArchiveManifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializing archive manifest: %w", err)
	}
	if err := os.WriteFile(path, append(b, '\n'), 0o644); err != nil {
		return fmt.Errorf("error writing archive manifest: %w", err)
	}
	return nil
}

// LoadManifest reads an archive sidecar manifest.
func LoadManifest(path string) (*ArchiveManifest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading archive manifest: %w", err)
	}

	var m ArchiveManifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("error parsing archive manifest %s: %w", path, err)
	}
	return &m, nil
}

// ChecksumFile returns the sha256 hex digest and size of a file.
func ChecksumFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close() // nolint:errcheck

	h := sha256.New()
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, fmt.Errorf("error hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}

// Verify checks every archive in a kind directory: each zip must have a valid
// sidecar manifest whose checksum matches the archive on disk. Returns one
// message per violation.
func Verify(registryDir, kind string) ([]string, error) {
	kindDir := filepath.Join(registryDir, kind)
	entries, err := os.ReadDir(kindDir)
	if err != nil {
		return nil, fmt.Errorf("error reading registry directory: %w", err)
	}

	var issues []string
	archives := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
			continue
		}
		archives++
		issues = append(issues, verifyArchive(kindDir, entry.Name())...)
	}

	if archives == 0 {
		issues = append(issues, fmt.Sprintf("no %s archives published", kind))
	}
	return issues, nil
}

func verifyArchive(kindDir, archiveName string) []string {
	var issues []string

	archivePath := filepath.Join(kindDir, archiveName)
	manifestPath := archivePath + manifestSuffix

	m, err := LoadManifest(manifestPath)
	if err != nil {
		return []string{fmt.Sprintf("archive %s: %v", archiveName, err)}
	}

	if m.ArchiveChecksum == "" {
		issues = append(issues, fmt.Sprintf("archive %s: manifest is missing archive_checksum", archiveName))
	}
	if m.Name == "" || m.Version == "" {
		issues = append(issues, fmt.Sprintf("archive %s: manifest is missing name or version", archiveName))
	}

	checksum, _, err := ChecksumFile(archivePath)
	if err != nil {
		issues = append(issues, fmt.Sprintf("archive %s: %v", archiveName, err))
	} else if m.ArchiveChecksum != "" && checksum != m.ArchiveChecksum {
		issues = append(issues, fmt.Sprintf("archive %s: checksum mismatch", archiveName))
	}

	return issues
}
