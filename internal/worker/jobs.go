package worker

import (
	"context"

	"github.com/vytor/neuroprofile/internal/logger"
	"github.com/vytor/neuroprofile/internal/models"
)

type AnalyzeSessionJob struct {
	Runner    SessionRunner
	SessionID string
	Recording models.Recording
}

func (j *AnalyzeSessionJob) Name() string { return "analyze_session" }

func (j *AnalyzeSessionJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": j.SessionID,
		"epochs":     len(j.Recording.Epochs),
	})
	return j.Runner.Run(logger.NewContext(ctx, log), j.SessionID, j.Recording)
}
