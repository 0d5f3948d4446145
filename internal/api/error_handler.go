package api

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/vytor/neuroprofile/internal/errors"
	"github.com/vytor/neuroprofile/internal/logger"
)

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var appErr *errors.AppError
	var tooLarge *http.MaxBytesError
	switch {
	case stderrors.As(err, &appErr):
	case stderrors.As(err, &tooLarge):
		appErr = errors.NewPayloadTooLargeError(tooLarge.Limit)
	default:
		appErr = errors.FromAnalysis(err)
	}

	if appErr.Status >= 500 {
		log.Error("server error: %v", appErr)
	} else if appErr.Status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.Status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
