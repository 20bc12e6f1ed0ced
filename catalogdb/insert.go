package catalogdb

import (
	"database/sql"
	"fmt"
)

// InsertArtifactBatch adds published artifacts to the catalog in one transaction
func InsertArtifactBatch(db *sql.DB, artifacts []Artifact) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO artifacts (
			kind, name, version, archive_path, checksum, size_bytes, published_at
		) VALUES (?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		tx.Rollback() // nolint:errcheck
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer stmt.Close() // nolint:errcheck

	for _, a := range artifacts {
		_, err := stmt.Exec(
			a.Kind, a.Name, a.Version, a.ArchivePath, a.Checksum, a.SizeBytes, a.PublishedAt,
		)
		if err != nil {
			tx.Rollback() // nolint:errcheck
			return fmt.Errorf("error inserting artifact: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	return nil
}
