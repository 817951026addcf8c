package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql (migrations)
	"github.com/pressly/goose/v3"

	"github.com/jhapy/app-i18n-server/internal/adapter/postgres"
	actionrepo "github.com/jhapy/app-i18n-server/internal/adapter/postgres/action"
	elementrepo "github.com/jhapy/app-i18n-server/internal/adapter/postgres/element"
	messagerepo "github.com/jhapy/app-i18n-server/internal/adapter/postgres/message"
	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/revision"
	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/version"
	"github.com/jhapy/app-i18n-server/internal/config"
	i18nsvc "github.com/jhapy/app-i18n-server/internal/service/i18n"
	"github.com/jhapy/app-i18n-server/internal/transport/rest"
	"github.com/jhapy/app-i18n-server/migrations"
	"github.com/jhapy/app-i18n-server/pkg/ctxutil"
)

// Run is the application entry point. It loads configuration, initializes
// the logger, connects to the database, applies migrations, wires the
// repositories and services, optionally imports a bootstrap catalog, and
// serves the REST API until the context is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting i18n server",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
	)

	if cfg.Database.MigrateOnStart {
		if err := migrate(ctx, cfg.Database.DSN, logger); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	actions := actionrepo.New(pool)
	actionTrls := actionrepo.NewTrl(pool)
	elements := elementrepo.New(pool)
	elementTrls := elementrepo.NewTrl(pool)
	messages := messagerepo.New(pool)
	messageTrls := messagerepo.NewTrl(pool)
	versions := version.New(pool)
	revisions := revision.New(pool)
	txManager := postgres.NewTxManager(pool)

	catalog := i18nsvc.NewService(logger,
		actions, actionTrls,
		elements, elementTrls,
		messages, messageTrls,
		versions, txManager,
	)

	if cfg.Bootstrap.Enabled {
		if err := bootstrapImport(ctx, cfg.Bootstrap.File, catalog, logger); err != nil {
			return fmt.Errorf("bootstrap import: %w", err)
		}
	}

	i18nHandler := rest.NewI18NHandler(
		actions, actionTrls,
		elements, elementTrls,
		messages, messageTrls,
		catalog,
		revisions,
		cfg.I18N.DefaultLanguage,
		cfg.I18N.RevisionLimit,
		logger,
	)
	healthHandler := rest.NewHealthHandler(pool, BuildVersion())
	router := rest.NewRouter(i18nHandler, healthHandler, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

// migrate applies the embedded goose migrations. goose requires a *sql.DB,
// so a separate short-lived connection is opened via the pgx stdlib driver.
func migrate(ctx context.Context, dsn string, logger *slog.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("goose new provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	if len(results) > 0 {
		logger.Info("migrations applied", slog.Int("count", len(results)))
	}

	return nil
}

// bootstrapImport loads the catalog CSV named in the bootstrap config.
// Import is idempotent, so running it on every start is safe.
func bootstrapImport(ctx context.Context, path string, catalog *i18nsvc.Service, logger *slog.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open bootstrap file: %w", err)
	}
	defer f.Close()

	start := time.Now()

	stats, err := catalog.Import(ctxutil.WithActor(ctx, "bootstrap"), f)
	if err != nil {
		return err
	}

	logger.Info("bootstrap catalog imported",
		slog.String("file", path),
		slog.Int("lookups", stats.Lookups),
		slog.Int("translations", stats.Translations),
		slog.Int("updated", stats.Updated),
		slog.Int("skipped", stats.Skipped),
		slog.Duration("took", time.Since(start)),
	)

	return nil
}
