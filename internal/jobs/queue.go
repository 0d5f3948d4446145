package jobs

import "github.com/vytor/neuroprofile/internal/models"

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueueAnalysis(sessionID string, rec models.Recording) error
}
