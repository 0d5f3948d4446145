package api

import (
	"context"

	"github.com/vytor/neuroprofile/internal/services"
	"github.com/vytor/neuroprofile/internal/worker"
)

// ReadinessChecker reports whether a dependency can serve traffic.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

type Server struct {
	AnalysisService services.AnalysisService
	SessionService  services.SessionService
	Database        ReadinessChecker
	AnalysisPool    *worker.Pool
	MaxUploadBytes  int64
}
