package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"qtdata.quanttide.cn/catalogdb"
	"qtdata.quanttide.cn/internal/app"
	"qtdata.quanttide.cn/internal/appconf"
	"qtdata.quanttide.cn/internal/logging"
	"qtdata.quanttide.cn/internal/restapi"
	"qtdata.quanttide.cn/internal/runner"
	"qtdata.quanttide.cn/internal/webui"
	"qtdata.quanttide.cn/internal/workspace"
)

func main() {
	os.Exit(run())
}

func run() int {
	// A .env file may provide defaults; missing files are fine.
	_ = godotenv.Load()

	var (
		workspaceRoot string
		envFlag       string
		apiKeysFlag   string
		catalogPath   string
		baseDir       string
		cfg           appconf.Config
	)

	flag.StringVar(&workspaceRoot, "workspace", envOr("QTDATA_WORKSPACE", "testdata/workspace"), "Workspace root directory")
	flag.StringVar(&envFlag, "env", envOr("QTDATA_ENV", "development"), "Environment (development|test|production)")
	flag.IntVar(&cfg.Port, "port", 4000, "API server port")
	flag.StringVar(&apiKeysFlag, "api-keys", envOr("QTDATA_API_KEYS", "test"), "Comma Separated API Keys (test, etc)")
	flag.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second allowed per API key")
	flag.StringVar(&catalogPath, "catalog-db", envOr("QTDATA_CATALOG_DB", ""), "SQLite catalog database path (empty disables the catalog)")
	flag.StringVar(&baseDir, "base-dir", ".", "Base directory for external commands and clean")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Verbose logging")
	flag.Parse()

	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)
	if apiKeysFlag != "" {
		cfg.ApiKeys = strings.Split(apiKeysFlag, ",")
		for i := range cfg.ApiKeys {
			cfg.ApiKeys[i] = strings.TrimSpace(cfg.ApiKeys[i])
		}
	}

	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := logging.NewStructuredLogger(os.Stdout, level)

	target := flag.Arg(0)
	if target == "" {
		target = "help"
	}

	manager, err := workspace.InitManager(workspace.Config{
		Root:    workspaceRoot,
		Env:     cfg.Env,
		Verbose: cfg.Verbose,
	})
	if err != nil {
		logging.LogError(logger, "failed to open workspace", err,
			slog.String("root", workspaceRoot))
		return 1
	}

	var catalog *catalogdb.Client
	if catalogPath != "" {
		catalog, err = catalogdb.NewClient(catalogdb.NewConfig(catalogPath, cfg.Env, cfg.Verbose))
		if err != nil {
			logging.LogError(logger, "failed to open catalog database", err,
				slog.String("path", catalogPath))
			return 1
		}
		defer logging.SafeCloseWithLogging(catalog, logger, "catalog database")
	}

	if target == "serve" {
		return serve(cfg, logger, manager, catalog)
	}

	r := &runner.Runner{
		Workspace: manager,
		Catalog:   catalog,
		Logger:    logger,
		Out:       os.Stdout,
		BaseDir:   baseDir,
	}
	return r.Run(context.Background(), target)
}

func serve(cfg appconf.Config, logger *slog.Logger, manager *workspace.Manager, catalog *catalogdb.Client) int {
	application := &app.Application{
		Config:    cfg,
		Logger:    logger,
		Workspace: manager,
		Catalog:   catalog,
	}

	manager.PrintStatistics(logger)

	api := restapi.NewRestAPI(application)
	mux := http.NewServeMux()
	mux.Handle("/api/", api.Router())
	webui.SetWebUIRoutes(mux, &webui.WebUI{Workspace: manager})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      mux,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	logger.Info("starting server", "addr", srv.Addr, "env", cfg.Env.String())
	err := srv.ListenAndServe()
	logger.Error(err.Error())
	return 1
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
