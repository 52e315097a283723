package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"jewelry-studio/internal/http/handlers"
	"jewelry-studio/internal/middleware"
)

const downloadsPrefix = "/downloads/"

// NewRouter wires every route of the service onto a chi router.
func NewRouter(app *handlers.App) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger),
		middleware.CORS(app.Config.CORSOrigins, handlers.HeaderInputTokens, handlers.HeaderOutputTokens),
	)

	// Health
	r.Get("/", app.Root)
	r.Get("/v1/healthz", app.Health)
	r.Method(http.MethodGet, "/metrics", app.Metrics())

	r.Handle(downloadsPrefix+"*", app.Downloads(downloadsPrefix))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute))
		r.Post("/analyze-reference", app.AnalyzeReference)
		r.Post("/generate", app.Generate)
	})

	return r
}
