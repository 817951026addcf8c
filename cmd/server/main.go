// Command server runs the i18n catalog HTTP server.
//
// Configuration is read from CONFIG_PATH (YAML) and environment variables;
// DATABASE_DSN is required. The server shuts down gracefully on SIGINT or
// SIGTERM.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jhapy/app-i18n-server/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
