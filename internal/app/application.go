// Package app wires the application dependencies together for the HTTP
// handlers, helpers, and middleware.
package app

import (
	"log/slog"

	"qtdata.quanttide.cn/catalogdb"
	"qtdata.quanttide.cn/internal/appconf"
	"qtdata.quanttide.cn/internal/workspace"
)

// Application holds the dependencies shared by the HTTP surface: the
// configuration, a logger, the workspace manager, and the catalog index.
// The catalog may be nil when no database path is configured.
type Application struct {
	Config    appconf.Config
	Logger    *slog.Logger
	Workspace *workspace.Manager
	Catalog   *catalogdb.Client
}
