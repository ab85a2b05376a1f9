package transporthttp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/swaggo/swag"

	"github.com/LucianBellevue/ba-website/internal/http/handlers"
	"github.com/LucianBellevue/ba-website/internal/middleware"
	"github.com/LucianBellevue/ba-website/pkg/problem"
)

type Deps struct {
	Log    *slog.Logger
	Health http.Handler

	// Public handlers mount under /api; Admin under /api/admin behind APIKey.
	Public []handlers.Mountable
	Admin  []handlers.Mountable
	APIKey string

	AllowedOrigins []string
	RateLimiter    *middleware.RateLimiter // optional, all /api routes
	RequestTimeout time.Duration
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	if d.RequestTimeout > 0 {
		r.Use(chimw.Timeout(d.RequestTimeout))
	}
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(d.AllowedOrigins))

	if d.Health != nil {
		r.Handle("/health", d.Health)
		r.Handle("/readyz", d.Health)
	}
	r.Get("/swagger/doc.json", swaggerDoc(d.Log))

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.LimitRequestBody(middleware.MaxBodySize))
		r.Use(middleware.SetJSONContentType)
		if d.RateLimiter != nil {
			r.Use(d.RateLimiter.Middleware)
		}

		for _, m := range d.Public {
			m.Mount(r)
		}

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.APIKey(d.APIKey))
			for _, m := range d.Admin {
				m.Mount(r)
			}
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		problem.Write(w, http.StatusNotFound, "Not Found", "No such route.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		problem.Write(w, http.StatusMethodNotAllowed, "Method Not Allowed", "")
	})

	return r
}

func swaggerDoc(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		doc, err := swag.ReadDoc()
		if err != nil {
			log.Error("swagger doc unavailable", "err", err)
			problem.Write(w, http.StatusNotFound, "Not Found", "API document is not registered.")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(doc))
	}
}
