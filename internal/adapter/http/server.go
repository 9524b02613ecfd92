// Package adapthttp implements the HTTP adapter for the application.
package adapthttp

import (
	"net/http"

	"caltrack/internal/app"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	auth    *app.AuthService
	daily   *app.DailyService
	profile *app.ProfileService
	tokens  *app.TokenService
}

// New creates a Server wired to the given application services.
func New(auth *app.AuthService, daily *app.DailyService, profile *app.ProfileService, tokens *app.TokenService) *Server {
	return &Server{auth: auth, daily: daily, profile: profile, tokens: tokens}
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/refresh", s.handleRefresh)

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Post("/auth/logout", s.handleLogout)
			r.Delete("/auth/delete-account", s.handleDeleteAccount)

			r.Post("/activity", s.handleLogActivity)
			r.Post("/meal", s.handleLogMeal)

			r.Post("/daily/calculate-target", s.handleCalculateTarget)
			r.Get("/daily/status", s.handleStatus)
			r.Get("/daily/macros", s.handleMacros)
			r.Get("/daily/weekly", s.handleWeekly)

			r.Get("/profile", s.handleGetProfile)
			r.Put("/profile", s.handleUpdateProfile)
		})
	})

	return r
}
