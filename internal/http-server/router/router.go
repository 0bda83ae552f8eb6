package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"watermark-service/internal/http-server/handler/watermark"
	"watermark-service/internal/http-server/middleware"
)

type Handler struct {
	WatermarkHandler *watermark.WatermarkHandler
}

func SetupRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RecoveryMiddleware)
	r.Use(middleware.LoggingMiddleware)

	// Object-transformation entry point; trailing slash kept for
	// compatibility with existing proxy configurations.
	r.Post("/generate", h.WatermarkHandler.Generate)
	r.Post("/generate/", h.WatermarkHandler.Generate)

	r.Route("/api", func(r chi.Router) {
		r.Post("/watermark", h.WatermarkHandler.Watermark)
		r.Get("/archives/{id}", h.WatermarkHandler.GetArchive)

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		})
	})

	return r
}
