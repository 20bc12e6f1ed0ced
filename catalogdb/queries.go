package catalogdb

import (
	"context"
	"database/sql"
)

// DBTX is the subset of database/sql used by Queries, so queries run against
// either a *sql.DB or a *sql.Tx
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to a transaction
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const insertArtifact = `
INSERT OR REPLACE INTO artifacts (
	kind, name, version, archive_path, checksum, size_bytes, published_at
) VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertArtifact(ctx context.Context, a Artifact) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertArtifact,
		a.Kind, a.Name, a.Version, a.ArchivePath, a.Checksum, a.SizeBytes, a.PublishedAt)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const getArtifact = `
SELECT id, kind, name, version, archive_path, checksum, size_bytes, published_at
FROM artifacts
WHERE kind = ? AND name = ? AND version = ?
`

func (q *Queries) GetArtifact(ctx context.Context, kind, name, version string) (Artifact, error) {
	row := q.db.QueryRowContext(ctx, getArtifact, kind, name, version)
	var a Artifact
	err := row.Scan(&a.ID, &a.Kind, &a.Name, &a.Version, &a.ArchivePath,
		&a.Checksum, &a.SizeBytes, &a.PublishedAt)
	return a, err
}

const listArtifacts = `
SELECT id, kind, name, version, archive_path, checksum, size_bytes, published_at
FROM artifacts
WHERE kind = ?
ORDER BY name, version
`

func (q *Queries) ListArtifacts(ctx context.Context, kind string) ([]Artifact, error) {
	rows, err := q.db.QueryContext(ctx, listArtifacts, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.Kind, &a.Name, &a.Version, &a.ArchivePath,
			&a.Checksum, &a.SizeBytes, &a.PublishedAt); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

const listAllArtifacts = `
SELECT id, kind, name, version, archive_path, checksum, size_bytes, published_at
FROM artifacts
ORDER BY kind, name, version
`

func (q *Queries) ListAllArtifacts(ctx context.Context) ([]Artifact, error) {
	rows, err := q.db.QueryContext(ctx, listAllArtifacts)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.Kind, &a.Name, &a.Version, &a.ArchivePath,
			&a.Checksum, &a.SizeBytes, &a.PublishedAt); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

const insertCheckRun = `
INSERT INTO check_runs (
	suite, status, checks_total, checks_failed, workspace, started_at, duration_ms
) VALUES (?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) InsertCheckRun(ctx context.Context, r CheckRun) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertCheckRun,
		r.Suite, r.Status, r.ChecksTotal, r.ChecksFailed, r.Workspace, r.StartedAt, r.DurationMs)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

const latestCheckRun = `
SELECT id, suite, status, checks_total, checks_failed, workspace, started_at, duration_ms
FROM check_runs
WHERE suite = ?
ORDER BY started_at DESC, id DESC
LIMIT 1
`

func (q *Queries) LatestCheckRun(ctx context.Context, suite string) (CheckRun, error) {
	row := q.db.QueryRowContext(ctx, latestCheckRun, suite)
	var r CheckRun
	err := row.Scan(&r.ID, &r.Suite, &r.Status, &r.ChecksTotal, &r.ChecksFailed,
		&r.Workspace, &r.StartedAt, &r.DurationMs)
	return r, err
}

const listCheckRuns = `
SELECT id, suite, status, checks_total, checks_failed, workspace, started_at, duration_ms
FROM check_runs
WHERE suite = ?
ORDER BY started_at DESC, id DESC
`

func (q *Queries) ListCheckRuns(ctx context.Context, suite string) ([]CheckRun, error) {
	rows, err := q.db.QueryContext(ctx, listCheckRuns, suite)
	if err != nil {
		return nil, err
	}
	defer rows.Close() // nolint:errcheck

	var runs []CheckRun
	for rows.Next() {
		var r CheckRun
		if err := rows.Scan(&r.ID, &r.Suite, &r.Status, &r.ChecksTotal, &r.ChecksFailed,
			&r.Workspace, &r.StartedAt, &r.DurationMs); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
