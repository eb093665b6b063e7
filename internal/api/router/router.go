package router

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/refinesurgery/clinic-platform/internal/analytics"
	"github.com/refinesurgery/clinic-platform/internal/appointments"
	"github.com/refinesurgery/clinic-platform/internal/auth"
	"github.com/refinesurgery/clinic-platform/internal/blog"
	"github.com/refinesurgery/clinic-platform/internal/gallery"
	httpmiddleware "github.com/refinesurgery/clinic-platform/internal/http/middleware"
	"github.com/refinesurgery/clinic-platform/internal/team"
	"github.com/refinesurgery/clinic-platform/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger *logging.Logger

	AppointmentsHandler *appointments.Handler
	BlogHandler         *blog.Handler
	GalleryHandler      *gallery.Handler
	TeamHandler         *team.Handler
	AuthHandler         *auth.Handler
	AnalyticsHandler    *analytics.Handler
	DashboardHandler    *analytics.DashboardHandler

	// AppointmentEmail is the public send-appointment-email endpoint.
	AppointmentEmail http.Handler

	// SessionBroadcaster streams admin session changes over websocket.
	SessionBroadcaster *auth.Broadcaster

	// Verifier guards the /admin subtree. Nil rejects everything.
	Verifier httpmiddleware.SessionVerifier

	MetricsHandler     http.Handler
	CORSAllowedOrigins []string

	// Admin API rate limit, requests per second per IP.
	AdminRatePerSec float64
	AdminBurst      int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	// Public endpoints
	r.Group(func(public chi.Router) {
		public.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		})
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		if cfg.AppointmentEmail != nil {
			// The handler does its own origin check and CORS headers.
			public.Handle("/functions/send-appointment-email", cfg.AppointmentEmail)
		}
		if cfg.AuthHandler != nil {
			public.Post("/auth/sign-in", cfg.AuthHandler.SignIn)
			public.Post("/auth/sign-out", cfg.AuthHandler.SignOut)
		}
		if cfg.SessionBroadcaster != nil {
			public.Get("/auth/session-stream", sessionStream(cfg.Verifier, cfg.SessionBroadcaster))
		}
	})

	// Admin endpoints (token-guarded, rate limited per IP)
	r.Route("/admin", func(admin chi.Router) {
		admin.Use(httpmiddleware.AdminAuth(cfg.Verifier))
		if cfg.AdminRatePerSec > 0 {
			admin.Use(httpmiddleware.RateLimit(cfg.AdminRatePerSec, cfg.AdminBurst))
		}

		if h := cfg.AppointmentsHandler; h != nil {
			admin.Route("/appointments", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Get("/export", h.ExportCSV)
				r.Patch("/{id}", h.Update)
				r.Patch("/{id}/status", h.UpdateStatus)
				r.Delete("/{id}", h.Delete)
			})
		}
		if h := cfg.BlogHandler; h != nil {
			admin.Route("/blog", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Patch("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
			})
		}
		if h := cfg.GalleryHandler; h != nil {
			admin.Route("/gallery", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Delete("/{id}", h.Delete)
			})
		}
		if h := cfg.TeamHandler; h != nil {
			admin.Route("/team", func(r chi.Router) {
				r.Get("/", h.List)
				r.Post("/", h.Create)
				r.Patch("/{id}", h.Update)
				r.Delete("/{id}", h.Delete)
			})
		}
		if cfg.DashboardHandler != nil {
			admin.Get("/dashboard", cfg.DashboardHandler.Dashboard)
		}
		if cfg.AnalyticsHandler != nil {
			admin.Get("/analytics", cfg.AnalyticsHandler.Report)
		}
	})

	return r
}

// sessionStream verifies the session token before upgrading to a
// websocket. Browsers cannot set headers on websocket requests, so the
// token is also accepted as a query parameter.
func sessionStream(verifier httpmiddleware.SessionVerifier, b *auth.Broadcaster) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				token = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if verifier == nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := verifier.Verify(token); err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		b.StreamHandler(w, r)
	}
}
