package api

import (
	"net/http"

	"github.com/vytor/neuroprofile/internal/logger"
)

// handleHealth is the liveness probe and always returns 200 OK.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// handleReady returns 503 when the database cannot be reached or the analysis
// pool is not accepting work.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if s.Database != nil {
		if err := s.Database.Ready(ctx); err != nil {
			log.Warn("readiness check failed - database: %v", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("Database unavailable"))
			return
		}
	}

	if s.AnalysisPool != nil && !s.AnalysisPool.IsRunning() {
		log.Warn("readiness check failed - analysis pool stopped")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("Analysis workers unavailable"))
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Ready"))
}
