package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(apiHandler *APIHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)       // Basic request logging
	r.Use(middleware.Recoverer)    // Recover from panics
	r.Use(middleware.StripSlashes) // Ensure consistent path handling

	// All API routes will be under /api
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{"status":"ok"}`))
		})
		r.Get("/models", apiHandler.ListModelsHandler)

		r.Post("/sessions", apiHandler.CreateSessionHandler)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", apiHandler.GetSessionHandler)
			r.Post("/files", apiHandler.UploadFilesHandler)
			r.Post("/ask", apiHandler.AskHandler)
			r.Post("/reset", apiHandler.ClearHistoryHandler)
			r.Delete("/index", apiHandler.DeleteIndexHandler)
			r.Get("/history", apiHandler.ExportHistoryHandler)
			r.Get("/log", apiHandler.GetLogHandler)
			r.Put("/log", apiHandler.SetLogVisibleHandler)
			r.Post("/log/reset", apiHandler.ResetLogHandler)
		})
	})

	return r
}
