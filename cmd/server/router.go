package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/forgo/notes/api/internal/handler"
	"github.com/forgo/notes/api/internal/metrics"
	"github.com/forgo/notes/api/internal/middleware"
	"github.com/forgo/notes/api/internal/model"
)

// routerDeps is everything the HTTP surface needs
type routerDeps struct {
	Notes   *handler.NoteHandler
	Users   *handler.UserHandler
	Auth    *handler.AuthHandler
	Health  *handler.HealthHandler
	Metrics *metrics.Collector
	Limiter *middleware.LoginLimiter

	// Tokens guards /notes and /users; nil leaves them open
	Tokens         middleware.TokenValidator
	AllowedOrigins []string
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics(d.Metrics))
	r.Use(chimw.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handler.WriteError(w, model.NewNotFoundError("Route"))
	})

	r.Get("/health", d.Health.Health)
	r.Handle("/metrics", d.Metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.With(d.Limiter.Middleware).Post("/", d.Auth.Login)
		r.Get("/refresh", d.Auth.Refresh)
		r.Post("/logout", d.Auth.Logout)
	})

	r.Group(func(r chi.Router) {
		if d.Tokens != nil {
			r.Use(middleware.VerifyJWT(d.Tokens))
		}

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", d.Notes.List)
			r.Post("/", d.Notes.Create)
			r.Patch("/", d.Notes.Update)
			r.Delete("/", d.Notes.Delete)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", d.Users.List)
			r.Post("/", d.Users.Create)
			r.Patch("/", d.Users.Update)
			r.Delete("/", d.Users.Delete)
		})
	})

	return r
}
