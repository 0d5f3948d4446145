package worker

import (
	"context"

	"github.com/vytor/neuroprofile/internal/models"
)

// SessionRunner analyses a session that was already stored as pending.
// This avoids import cycles by not importing the services package
type SessionRunner interface {
	Run(ctx context.Context, sessionID string, rec models.Recording) error
}
