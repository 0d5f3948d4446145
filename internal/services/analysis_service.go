package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vytor/neuroprofile/internal/analysis"
	"github.com/vytor/neuroprofile/internal/errors"
	"github.com/vytor/neuroprofile/internal/jobs"
	"github.com/vytor/neuroprofile/internal/logger"
	"github.com/vytor/neuroprofile/internal/models"
	"github.com/vytor/neuroprofile/internal/repository"
)

// AnalysisService handles session analysis business logic
type AnalysisService interface {
	// Analyze runs the pipeline inline and returns the completed session.
	Analyze(ctx context.Context, rec models.Recording) (*models.Session, error)
	// Submit stores a pending session and queues it for a background worker.
	Submit(ctx context.Context, rec models.Recording) (*models.Session, error)
	// Run analyses a session previously created by Submit.
	Run(ctx context.Context, sessionID string, rec models.Recording) error
}

type analysisService struct {
	sessionRepo repository.SessionRepository
	epochRepo   repository.EpochResultRepository
	processor   *analysis.Processor
	jobQueue    jobs.JobQueue
	now         func() time.Time
}

// NewAnalysisService creates a new AnalysisService
func NewAnalysisService(
	sessionRepo repository.SessionRepository,
	epochRepo repository.EpochResultRepository,
	processor *analysis.Processor,
	jobQueue jobs.JobQueue,
) AnalysisService {
	return &analysisService{
		sessionRepo: sessionRepo,
		epochRepo:   epochRepo,
		processor:   processor,
		jobQueue:    jobQueue,
		now:         time.Now,
	}
}

func (s *analysisService) newSession(rec models.Recording, status string) models.Session {
	cfg := s.processor.Config()
	session := models.Session{
		ID:            uuid.NewString(),
		Name:          rec.Name,
		Status:        status,
		SamplingRate:  cfg.SamplingRate,
		WindowSeconds: cfg.WindowSeconds,
		EpochCount:    len(rec.Epochs),
		CreatedAt:     s.now().UTC(),
	}
	if rec.SamplingRate > 0 {
		session.SamplingRate = rec.SamplingRate
	}
	if rec.WindowSeconds > 0 {
		session.WindowSeconds = rec.WindowSeconds
	}
	return session
}

func (s *analysisService) Analyze(ctx context.Context, rec models.Recording) (*models.Session, error) {
	session := s.newSession(rec, models.SessionStatusProcessing)
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"session_id": session.ID,
		"epochs":     len(rec.Epochs),
	})
	log.Info("analyzing session %q", rec.Name)

	if err := s.sessionRepo.Insert(ctx, session); err != nil {
		log.Error("failed to insert session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	completed, err := s.execute(logger.NewContext(ctx, log), session, rec)
	if err != nil {
		return nil, err
	}
	return completed, nil
}

func (s *analysisService) Submit(ctx context.Context, rec models.Recording) (*models.Session, error) {
	session := s.newSession(rec, models.SessionStatusPending)
	log := logger.FromContext(ctx).WithField("session_id", session.ID)

	if err := s.sessionRepo.Insert(ctx, session); err != nil {
		log.Error("failed to insert session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if err := s.jobQueue.EnqueueAnalysis(session.ID, rec); err != nil {
		log.Warn("failed to enqueue analysis: %v", err)
		if failErr := s.sessionRepo.Fail(ctx, session.ID, "not queued: "+err.Error()); failErr != nil {
			log.Error("failed to mark session failed: %v", failErr)
		}
		return nil, errors.NewUnavailableError("analysis queue is unavailable, retry later", err)
	}

	log.Info("queued session %q with %d epochs", rec.Name, len(rec.Epochs))
	return &session, nil
}

func (s *analysisService) Run(ctx context.Context, sessionID string, rec models.Recording) error {
	log := logger.FromContext(ctx)

	session, err := s.sessionRepo.Get(ctx, sessionID)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return err
	}
	if session.Status == models.SessionStatusCompleted {
		log.Debug("session already analyzed, skipping")
		return nil
	}

	log.Debug("updating session status to processing")
	if err := s.sessionRepo.UpdateStatus(ctx, sessionID, models.SessionStatusProcessing); err != nil {
		log.Error("failed to update session status: %v", err)
		return err
	}
	session.Status = models.SessionStatusProcessing

	_, err = s.execute(ctx, *session, rec)
	return err
}

// execute runs the processor for a stored session and records the outcome.
// Failures are persisted on the session row before being returned.
func (s *analysisService) execute(ctx context.Context, session models.Session, rec models.Recording) (*models.Session, error) {
	log := logger.FromContext(ctx)

	result, err := s.processor.Run(ctx, rec)
	if err != nil {
		log.WithError(err).Warn("analysis failed")
		s.fail(ctx, session.ID, err)
		return nil, errors.FromAnalysis(err)
	}

	rows := make([]models.EpochResult, len(result.Epochs))
	for i, res := range result.Epochs {
		diag := result.Diagnostics[i]
		rows[i] = models.EpochResult{
			SessionID:   session.ID,
			EpochIndex:  diag.Index,
			Label:       res.Label,
			Scores:      res.Scores,
			Noisy:       diag.Noisy,
			BadChannels: diag.BadChannels,
		}
	}
	if err := s.epochRepo.InsertBatch(ctx, rows); err != nil {
		log.WithError(err).Error("failed to store epoch results")
		s.fail(ctx, session.ID, err)
		return nil, errors.NewInternalError(err)
	}

	completedAt := s.now().UTC()
	if err := s.sessionRepo.Complete(ctx, session.ID, result.Summary, completedAt); err != nil {
		log.WithError(err).Error("failed to complete session")
		s.fail(ctx, session.ID, err)
		return nil, errors.NewInternalError(err)
	}

	summary := result.Summary
	session.Status = models.SessionStatusCompleted
	session.Summary = &summary
	session.EpochCount = summary.Metadata.Windows
	session.WindowSeconds = summary.Metadata.WindowSizeSec
	session.QualityWarning = summary.Metadata.QualityWarning
	session.CompletedAt = &completedAt

	log.Info("session completed: windows=%d quality_warning=%t", summary.Metadata.Windows, summary.Metadata.QualityWarning)
	return &session, nil
}

func (s *analysisService) fail(ctx context.Context, id string, cause error) {
	// the request context may already be cancelled; the failure must still land
	ctx = context.WithoutCancel(ctx)
	if err := s.sessionRepo.Fail(ctx, id, cause.Error()); err != nil {
		logger.FromContext(ctx).WithError(err).WithField("cause", cause.Error()).Error("failed to mark session failed")
	}
}
