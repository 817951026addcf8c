// Command i18nreset clears the is_translated flag on every translation row,
// marking the whole catalog for re-verification by translators. It is
// intended to be run after a bulk change to the source language texts.
//
// Usage:
//
//	i18nreset [--kind=action|element|message]
//
// Without --kind all three families are reset.
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
	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/revision"
	"github.com/jhapy/app-i18n-server/internal/adapter/postgres/version"
	"github.com/jhapy/app-i18n-server/internal/app"
	"github.com/jhapy/app-i18n-server/internal/config"
	"github.com/jhapy/app-i18n-server/internal/domain"
	actionsvc "github.com/jhapy/app-i18n-server/internal/service/action"
	elementsvc "github.com/jhapy/app-i18n-server/internal/service/element"
	messagesvc "github.com/jhapy/app-i18n-server/internal/service/message"
	"github.com/jhapy/app-i18n-server/pkg/ctxutil"
)

func main() {
	kind := flag.String("kind", "", "limit reset to one family: action, element or message")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = ctxutil.WithActor(ctx, "reset")

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	versions := version.New(pool)
	revisions := revision.New(pool)
	tx := postgres.NewTxManager(pool)

	resets := map[domain.Kind]func(context.Context) (int64, error){
		domain.KindAction:  actionsvc.NewService(logger, actionrepo.New(pool), actionrepo.NewTrl(pool), versions, revisions, tx).Reset,
		domain.KindElement: elementsvc.NewService(logger, elementrepo.New(pool), elementrepo.NewTrl(pool), versions, revisions, tx).Reset,
		domain.KindMessage: messagesvc.NewService(logger, messagerepo.New(pool), messagerepo.NewTrl(pool), versions, revisions, tx).Reset,
	}

	if *kind != "" {
		if _, ok := resets[domain.Kind(*kind)]; !ok {
			fmt.Fprintf(os.Stderr, "unknown kind %q (want action, element or message)\n", *kind)
			os.Exit(1)
		}
	}

	var total int64
	for _, k := range domain.Kinds() {
		if *kind != "" && k != domain.Kind(*kind) {
			continue
		}
		n, err := resets[k](ctx)
		if err != nil {
			logger.Error("reset failed",
				slog.String("kind", string(k)),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		total += n
	}

	logger.Info("reset completed", slog.Int64("rows", total))
}
