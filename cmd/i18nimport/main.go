// Command i18nimport loads a translation catalog CSV into the database.
// Existing rows are overwritten when the CSV value differs and skipped when
// it matches, so re-running the same file is safe.
//
// Usage:
//
//	i18nimport --file=catalog.csv [--actor=import]
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jhapy/app-i18n-server/internal/adapter/postgres"
	actionrepo "github.com/jhapy/app-i18n-server/internal/adapter/postgres/action"
	elementrepo "github.com/jhapy/app-i18n-server/internal/adapter/postgres/element"
	messagerepo "github.com/jhapy/app-i18n-server/internal/adapter/postgres/message"
	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/version"
	"github.com/jhapy/app-i18n-server/internal/app"
	"github.com/jhapy/app-i18n-server/internal/config"
	i18nsvc "github.com/jhapy/app-i18n-server/internal/service/i18n"
	"github.com/jhapy/app-i18n-server/pkg/ctxutil"
)

func main() {
	file := flag.String("file", "", "path to catalog CSV file")
	actor := flag.String("actor", "import", "audit username recorded on created rows")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: i18nimport --file=catalog.csv")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	catalog := i18nsvc.NewService(logger,
		actionrepo.New(pool), actionrepo.NewTrl(pool),
		elementrepo.New(pool), elementrepo.NewTrl(pool),
		messagerepo.New(pool), messagerepo.NewTrl(pool),
		version.New(pool), postgres.NewTxManager(pool),
	)

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("open catalog file", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer f.Close()

	stats, err := catalog.Import(ctxutil.WithActor(ctx, *actor), f)
	if err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import completed",
		slog.String("file", *file),
		slog.Int("lookups", stats.Lookups),
		slog.Int("translations", stats.Translations),
		slog.Int("updated", stats.Updated),
		slog.Int("skipped", stats.Skipped),
	)
}
