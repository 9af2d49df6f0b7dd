// internal/api/router.go
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kasho-dev/WorkFlow-Pay/internal/api/handler"
	appmiddleware "github.com/kasho-dev/WorkFlow-Pay/internal/api/middleware"
	"github.com/kasho-dev/WorkFlow-Pay/internal/config"
)

// NewRouter sets up and returns a new HTTP router.
func NewRouter(trackerHandler *handler.TrackerHandler, cfg *config.AppConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(handler.DefaultTimeout))
	r.Use(appmiddleware.CORS(cfg.AllowedOrigins))
	r.Use(appmiddleware.BodyLimit(cfg.MaxBodyBytes))

	// Unknown routes and wrong methods still answer with well-formed JSON.
	r.NotFound(jsonError(http.StatusNotFound, "Not Found"))
	r.MethodNotAllowed(jsonError(http.StatusMethodNotAllowed, "Method Not Allowed"))

	// Health check endpoint, outside the rate-limited API surface
	r.Get("/health", trackerHandler.Health)

	// Dashboard API routes
	r.Route("/api", func(r chi.Router) {
		r.Use(appmiddleware.RateLimit(cfg.RateLimitPerMinute))

		r.Get("/user/{id}", trackerHandler.GetUser)
		r.Post("/user", trackerHandler.UpsertUser)
		r.Post("/keystrokes", trackerHandler.RecordKeystrokes)
		r.Get("/keystrokes/{userID}", trackerHandler.ListKeystrokes)
		r.Get("/weekly-summary/{userID}", trackerHandler.WeeklySummary)
		r.Get("/monthly-analytics/{userID}", trackerHandler.MonthlyAnalytics)
		r.Post("/import-keystrokes/{userID}", trackerHandler.ImportKeystrokes)
		r.Get("/memo/{userID}", trackerHandler.GetMemo)
		r.Put("/memo/{userID}", trackerHandler.SaveMemo)
	})

	return r
}

func jsonError(code int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
	}
}
