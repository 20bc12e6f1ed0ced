// Package catalogdb is the SQLite-backed catalog index: it records which
// dataset and recipe archives have been published to the workspace registry
// and the history of validation-suite runs.
package catalogdb

import (
	"database/sql"
	"log/slog"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Client is the main entry point for the catalog index
type Client struct {
	config  Config
	DB      *sql.DB
	Queries *Queries
}

// NewClient creates a new Client with the provided configuration
func NewClient(config Config) (*Client, error) {
	db, err := createDB(config)
	if err != nil {
		return nil, err
	}

	if config.verbose {
		slog.Info("catalog database ready", "path", config.DBPath)
	}

	client := &Client{
		config:  config,
		DB:      db,
		Queries: New(db),
	}
	return client, nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}
