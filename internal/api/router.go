package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type"},
	}))

	r.Get("/ping", PingHandler)

	r.Route("/api/captures", func(r chi.Router) {
		r.Post("/", app.CaptureHandler)
		r.Get("/", app.ListCapturesHandler)
		r.Delete("/", app.ClearCapturesHandler)
		r.Post("/reprocess", app.ReprocessHandler)
		r.Get("/{id}", app.GetCaptureHandler)
		r.Get("/{id}/media", app.StreamMediaHandler)
		r.Delete("/{id}", app.DeleteCaptureHandler)
	})

	return r
}
