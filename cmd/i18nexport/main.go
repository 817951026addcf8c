// Command i18nexport writes the full translation catalog as CSV, in the
// same column layout i18nimport accepts. Inactive rows are excluded.
//
// Usage:
//
//	i18nexport [--out=catalog.csv]
//
// Without --out the catalog is written to stdout.
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"io"
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
)

func main() {
	out := flag.String("out", "", "output file path (default: stdout)")
	flag.Parse()

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

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Error("create output file", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer f.Close()
		w = f
	}

	if err := catalog.Export(ctx, w); err != nil {
		logger.Error("export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *out != "" {
		logger.Info("export completed", slog.String("file", *out))
	}
}
