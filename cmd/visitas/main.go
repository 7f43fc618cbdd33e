// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/olegiv/visitas-go/internal/config"
	"github.com/olegiv/visitas-go/internal/handler"
	"github.com/olegiv/visitas-go/internal/i18n"
	"github.com/olegiv/visitas-go/internal/logging"
	"github.com/olegiv/visitas-go/internal/middleware"
	"github.com/olegiv/visitas-go/internal/render"
	"github.com/olegiv/visitas-go/internal/session"
	"github.com/olegiv/visitas-go/internal/store"
	"github.com/olegiv/visitas-go/internal/version"
	"github.com/olegiv/visitas-go/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func buildInfo() version.Info {
	return version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "visitas - church visitor registry\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_DATABASE_URL         sqlite://path or postgres:// URL (default: sqlite://./data/visitas.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_SESSION_SECRET       CSRF/session key (required in production, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_SERVER_HOST          Listen host (default: localhost)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_SERVER_PORT          Listen port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_ENV                  development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_LOG_LEVEL            debug|info|warn|error (default: info)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_SESSION_LIFETIME     Staff session lifetime (default: 60m)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_REDIS_URL            Redis URL for the session store (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_PASTOR_PASSWORD      Seed password for the pastor account\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_SECRETARY_PASSWORD   Seed password for the secretary account\n")
		_, _ = fmt.Fprintf(os.Stderr, "  VISITAS_ASSISTANT_PASSWORD   Seed password for the assistant account\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(buildInfo())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := logging.New(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	slog.SetDefault(logger)
	slog.Info("starting visitas", buildInfo().LogAttrs()...)

	if err := i18n.Init(logger); err != nil {
		return fmt.Errorf("initializing i18n: %w", err)
	}
	slog.Info("i18n system initialized", "languages", i18n.SupportedLanguages)

	dialect, target, err := store.ParseDSN(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("parsing database url: %w", err)
	}
	if dialect == store.DialectSQLite {
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return fmt.Errorf("creating data directory: %w", err)
		}
	}

	slog.Info("initializing database", "dialect", dialect)
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}()

	ctx := context.Background()

	slog.Info("running database migrations")
	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if err := store.SeedStaff(ctx, db, cfg.StaffPasswords()); err != nil {
		return fmt.Errorf("seeding staff accounts: %w", err)
	}
	slog.Info("database ready")

	sessionOpts := session.Options{
		DB:       db.DB,
		Postgres: db.Dialect == store.DialectPostgres,
		IsDev:    cfg.IsDevelopment(),
	}
	if cfg.UseRedisSessions() {
		client, err := session.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("initializing redis sessions: %w", err)
		}
		defer func() { _ = client.Close() }()
		sessionOpts.Redis = client
		slog.Info("using redis session store")
	}
	sessionManager := session.New(sessionOpts)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("loading templates: %w", err)
	}
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("loading static files: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	defer loginProtection.Stop()

	r := handler.NewRouter(handler.RouterConfig{
		DB:              db,
		Renderer:        renderer,
		Sessions:        sessionManager,
		LoginProtection: loginProtection,
		SessionLifetime: cfg.SessionLifetime,
		CSRF:            middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerPort),
		IsDev:           cfg.IsDevelopment(),
		Static:          staticFS,
		AccessLog:       true,
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
