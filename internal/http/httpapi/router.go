package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"campaigngen/internal/http/handlers"
	"campaigngen/internal/middleware"
)

func NewRouter(app *handlers.App, logger zerolog.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		middleware.Logger(logger),
		chimw.Recoverer,
		middleware.CORS(allowedOrigins),
	)

	r.Get("/", app.Root)
	r.Get("/health", app.Health)
	r.Get("/service-status", app.ServiceStatus)

	r.Post("/generate-message", app.GenerateMessage)
	r.Post("/generate-multiple-messages", app.GenerateMultipleMessages)
	r.Post("/analyze-message", app.AnalyzeMessage)

	r.Get("/stats/summary", app.StatsSummary)

	r.Get("/docs", app.OpenAPIDocs)
	r.Get("/openapi.json", app.OpenAPIJSON)

	return r
}
