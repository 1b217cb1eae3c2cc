package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"portintel/pkg/portintel"
)

// NewRouter builds the HTTP API router.
func NewRouter(core *portintel.Core, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLoggingMiddleware(logger))
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: core}

	r.Get("/api/health", h.health)

	// Analysis
	r.Post("/api/analyze", h.analyze)

	// Portfolios
	r.Get("/api/portfolios", h.listPortfolios)
	r.Post("/api/portfolios", h.savePortfolio)
	r.Get("/api/portfolios/{name}", h.getPortfolio)
	r.Post("/api/portfolios/{name}/analyze", h.analyzePortfolio)
	r.Get("/api/portfolios/{name}/report", h.downloadReport)

	// Prices
	r.Get("/api/prices/{symbol}", h.getPrice)

	// AI advice
	r.Post("/api/advice/ai", h.aiAdvice)

	return r
}

type handler struct {
	core *portintel.Core
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
