package jobs

import (
	"errors"

	"github.com/vytor/neuroprofile/internal/models"
	"github.com/vytor/neuroprofile/internal/worker"
)

var ErrNoRunner = errors.New("no session runner bound to the queue")

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	analysisPool *worker.Pool
	runner       worker.SessionRunner
}

// NewWorkerQueue creates a queue on top of pool. The runner is bound later
// with Bind because the analysis service itself depends on the queue.
func NewWorkerQueue(analysisPool *worker.Pool) *WorkerQueue {
	return &WorkerQueue{analysisPool: analysisPool}
}

func (q *WorkerQueue) Bind(runner worker.SessionRunner) {
	q.runner = runner
}

func (q *WorkerQueue) EnqueueAnalysis(sessionID string, rec models.Recording) error {
	if q.runner == nil {
		return ErrNoRunner
	}
	return q.analysisPool.Submit(&worker.AnalyzeSessionJob{
		Runner:    q.runner,
		SessionID: sessionID,
		Recording: rec,
	})
}
