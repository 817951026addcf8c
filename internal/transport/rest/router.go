package rest

import (
	"log/slog"
	"net/http"

	"github.com/jhapy/app-i18n-server/internal/transport/middleware"
)

// NewRouter assembles the HTTP routes and the shared middleware chain.
func NewRouter(i18n *I18NHandler, health *HealthHandler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /health/live", health.Live)
	mux.HandleFunc("GET /health/ready", health.Ready)

	mux.HandleFunc("GET /api/languages", i18n.Languages)
	mux.HandleFunc("GET /api/versions", i18n.TableVersions)
	mux.HandleFunc("GET /api/{kind}/translations", i18n.ListTranslations)
	mux.HandleFunc("GET /api/{kind}/{name}", i18n.GetTranslation)
	mux.HandleFunc("GET /api/{kind}/{name}/history", i18n.History)

	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Recovery(logger),
	)
	return chain(mux)
}
