package repository

import (
	"context"
	"time"

	"github.com/vytor/neuroprofile/internal/models"
)

// SessionRepository handles session data access. Lookups of unknown ids return
// sql.ErrNoRows.
type SessionRepository interface {
	Insert(ctx context.Context, session models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, error)
	Count(ctx context.Context, filter models.SessionFilter) (int, error)
	UpdateStatus(ctx context.Context, id string, status string) error
	Complete(ctx context.Context, id string, summary models.SessionSummary, completedAt time.Time) error
	Fail(ctx context.Context, id string, reason string) error
	MarkInterrupted(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
}

// EpochResultRepository handles per-epoch classification rows
type EpochResultRepository interface {
	InsertBatch(ctx context.Context, results []models.EpochResult) error
	ListForSession(ctx context.Context, sessionID string) ([]models.EpochResult, error)
	LabelCounts(ctx context.Context) ([]models.LabelTotal, error)
}
