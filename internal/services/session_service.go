package services

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/vytor/neuroprofile/internal/errors"
	"github.com/vytor/neuroprofile/internal/logger"
	"github.com/vytor/neuroprofile/internal/models"
	"github.com/vytor/neuroprofile/internal/repository"
)

// SessionService handles reads over stored sessions
type SessionService interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error)
	Epochs(ctx context.Context, id string) ([]models.EpochResult, error)
	LabelTotals(ctx context.Context) ([]models.LabelTotal, error)
	Delete(ctx context.Context, id string) error
}

type sessionService struct {
	sessionRepo repository.SessionRepository
	epochRepo   repository.EpochResultRepository
}

// NewSessionService creates a new SessionService
func NewSessionService(sessionRepo repository.SessionRepository, epochRepo repository.EpochResultRepository) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		epochRepo:   epochRepo,
	}
}

func (s *sessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting session: id=%s", id)

	session, err := s.sessionRepo.Get(ctx, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NewNotFoundError("session", id)
		}
		log.Error("failed to get session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return session, nil
}

func (s *sessionService) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing sessions: status=%q limit=%d offset=%d", filter.Status, filter.Limit, filter.Offset)

	switch filter.Status {
	case "", models.SessionStatusPending, models.SessionStatusProcessing,
		models.SessionStatusCompleted, models.SessionStatusFailed:
	default:
		return nil, 0, errors.NewValidationError("status", "must be one of pending, processing, completed, failed")
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, 0, errors.NewValidationError("limit", "limit and offset cannot be negative")
	}

	sessions, err := s.sessionRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.sessionRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count sessions: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	if sessions == nil {
		sessions = []models.Session{}
	}
	return sessions, total, nil
}

func (s *sessionService) Epochs(ctx context.Context, id string) ([]models.EpochResult, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	rows, err := s.epochRepo.ListForSession(ctx, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list epoch results: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if rows == nil {
		rows = []models.EpochResult{}
	}
	return rows, nil
}

func (s *sessionService) LabelTotals(ctx context.Context) ([]models.LabelTotal, error) {
	totals, err := s.epochRepo.LabelCounts(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to count labels: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if totals == nil {
		totals = []models.LabelTotal{}
	}
	return totals, nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx)
	if err := s.sessionRepo.Delete(ctx, id); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return errors.NewNotFoundError("session", id)
		}
		log.Error("failed to delete session: %v", err)
		return errors.NewInternalError(err)
	}
	log.Info("deleted session %s", id)
	return nil
}
