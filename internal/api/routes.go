package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/neuroprofile/internal/errors"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(bodyLimitMiddleware(s.MaxUploadBytes))

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Post("/upload", s.handleUpload)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Get("/sessions", s.handleListSessions)
		r.Get("/sessions/{id}", s.handleGetSession)
		r.Get("/sessions/{id}/epochs", s.handleSessionEpochs)
		r.Delete("/sessions/{id}", s.handleDeleteSession)
		r.Get("/stats/labels", s.handleLabelTotals)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, errors.NewNotFoundError("route", r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		handleError(w, r, &errors.AppError{
			Code:    errors.ErrCodeBadRequest,
			Message: "method not allowed",
			Status:  http.StatusMethodNotAllowed,
		})
	})
	return r
}
