package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.HealthHandler)
		r.Get("/products", app.ListProductsHandler)
		r.Get("/products/{id}", app.GetProductHandler)
		r.Get("/judgments", app.ListJudgmentsHandler)
		r.Get("/snapshots/{folder}", app.ListSnapshotsHandler)
		r.Post("/snapshots/{folder}", app.UploadSnapshotHandler)

		r.Post("/judge", app.JudgeHandler)
		r.Post("/test", app.TestJudgeHandler)
		r.Post("/simulate", app.SimulateHandler)
	})

	return r
}
