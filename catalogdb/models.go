package catalogdb

import "time"

// Artifact is a published dataset or recipe archive indexed by the catalog
type Artifact struct {
	ID          int64     // id
	Kind        string    // kind ('dataset' or 'recipe')
	Name        string    // name
	Version     string    // version
	ArchivePath string    // archive_path
	Checksum    string    // checksum (sha256, hex)
	SizeBytes   int64     // size_bytes
	PublishedAt time.Time // published_at
}

// CheckRun records one validation-suite execution against a workspace
type CheckRun struct {
	ID           int64     // id
	Suite        string    // suite
	Status       string    // status ('pass' or 'fail')
	ChecksTotal  int64     // checks_total
	ChecksFailed int64     // checks_failed
	Workspace    string    // workspace
	StartedAt    time.Time // started_at
	DurationMs   int64     // duration_ms
}
