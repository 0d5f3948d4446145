package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vytor/neuroprofile/internal/logger"
	"github.com/vytor/neuroprofile/internal/models"
)

type sessionListResponse struct {
	Sessions []models.Session `json:"sessions"`
	Total    int              `json:"total"`
	Limit    int              `json:"limit"`
	Offset   int              `json:"offset"`
}

type epochListResponse struct {
	SessionID string               `json:"session_id"`
	Epochs    []models.EpochResult `json:"epochs"`
}

// handleUpload analyses a session synchronously and answers with the bare
// summary record.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	rec, err := readRecording(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	session, err := s.AnalysisService.Analyze(r.Context(), rec)
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("X-Session-ID", session.ID)
	writeJSON(w, r, http.StatusOK, session.Summary)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	rec, err := readRecording(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if rec.Rescaled {
		log.Debug("input amplitudes treated as microvolts")
	}

	if queryBool(r.URL.Query().Get("async")) {
		session, err := s.AnalysisService.Submit(r.Context(), rec)
		if err != nil {
			handleError(w, r, err)
			return
		}
		w.Header().Set("Location", "/api/sessions/"+session.ID)
		writeJSON(w, r, http.StatusAccepted, session)
		return
	}

	session, err := s.AnalysisService.Analyze(r.Context(), rec)
	if err != nil {
		handleError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+session.ID)
	writeJSON(w, r, http.StatusCreated, session)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSessionFilter(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	sessions, total, err := s.SessionService.List(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sessionListResponse{
		Sessions: sessions,
		Total:    total,
		Limit:    filter.Limit,
		Offset:   filter.Offset,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.SessionService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, session)
}

func (s *Server) handleSessionEpochs(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	epochs, err := s.SessionService.Epochs(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, epochListResponse{SessionID: id, Epochs: epochs})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.SessionService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleLabelTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.SessionService.LabelTotals(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"labels": totals})
}
