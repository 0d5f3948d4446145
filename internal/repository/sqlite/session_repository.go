package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/neuroprofile/internal/logger"
	"github.com/vytor/neuroprofile/internal/models"
	"github.com/vytor/neuroprofile/internal/repository"
)

const interruptedReason = "interrupted: server stopped before the analysis finished"

var sessionColumns = []string{
	"id", "name", "status", "sampling_rate", "window_seconds", "epoch_count",
	"quality_warning", "error", "created_at", "completed_at",
}

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Insert(ctx context.Context, s models.Session) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("inserting session: id=%s, status=%s", s.ID, s.Status)

	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	query, args, err := sqlBuilder.Insert("sessions").
		Columns("id", "name", "status", "sampling_rate", "window_seconds", "epoch_count", "quality_warning", "error", "created_at").
		Values(s.ID, s.Name, s.Status, s.SamplingRate, s.WindowSeconds, s.EpochCount, boolInt(s.QualityWarning), s.Error, s.CreatedAt).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert session: %v", err)
		return err
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: id=%s", id)

	query, args, err := sqlBuilder.Select(append(sessionColumns, "summary_json")...).
		From("sessions").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var summary sql.NullString
	s, err := scanSession(r.db.QueryRowContext(ctx, query, args...), &summary)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found: id=%s", id)
		} else {
			log.Error("failed to get session: %v", err)
		}
		return nil, err
	}
	if summary.Valid && summary.String != "" {
		var sum models.SessionSummary
		if err := json.Unmarshal([]byte(summary.String), &sum); err != nil {
			log.Error("corrupt summary for session %s: %v", id, err)
			return nil, err
		}
		s.Summary = &sum
	}
	return s, nil
}

func (r *sessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.Session, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("listing sessions with filter: status=%s, limit=%d, offset=%d", filter.Status, filter.Limit, filter.Offset)

	query := applySessionFilter(sqlBuilder.Select(sessionColumns...).From("sessions"), filter)

	orderDir := "DESC"
	if filter.OrderDir == "ASC" {
		orderDir = "ASC"
	}
	query = query.OrderBy("created_at "+orderDir, "id "+orderDir)

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	q, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to list sessions: %v", err)
		return nil, err
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		s, err := scanSession(rows, nil)
		if err != nil {
			log.Error("failed to scan session row: %v", err)
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	log.Debug("found %d sessions", len(sessions))
	return sessions, rows.Err()
}

func (r *sessionRepository) Count(ctx context.Context, filter models.SessionFilter) (int, error) {
	q, args, err := applySessionFilter(sqlBuilder.Select("COUNT(*)").From("sessions"), filter).ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		logger.FromContext(ctx).WithPrefix("session_repo").Error("failed to count sessions: %v", err)
		return 0, err
	}
	return n, nil
}

func (r *sessionRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	logger.FromContext(ctx).WithPrefix("session_repo").Debug("session %s -> %s", id, status)
	return exec(ctx, r.db, sqlBuilder.Update("sessions").
		Set("status", status).
		Where(squirrel.Eq{"id": id}))
}

func (r *sessionRepository) Complete(ctx context.Context, id string, summary models.SessionSummary, completedAt time.Time) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return exec(ctx, r.db, sqlBuilder.Update("sessions").
		Set("status", models.SessionStatusCompleted).
		Set("summary_json", string(raw)).
		Set("epoch_count", summary.Metadata.Windows).
		Set("window_seconds", summary.Metadata.WindowSizeSec).
		Set("quality_warning", boolInt(summary.Metadata.QualityWarning)).
		Set("error", "").
		Set("completed_at", completedAt.UTC()).
		Where(squirrel.Eq{"id": id}))
}

func (r *sessionRepository) Fail(ctx context.Context, id string, reason string) error {
	return exec(ctx, r.db, sqlBuilder.Update("sessions").
		Set("status", models.SessionStatusFailed).
		Set("error", reason).
		Set("completed_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}))
}

// MarkInterrupted fails every session a previous process left unfinished.
func (r *sessionRepository) MarkInterrupted(ctx context.Context) (int64, error) {
	q, args, err := sqlBuilder.Update("sessions").
		Set("status", models.SessionStatusFailed).
		Set("error", interruptedReason).
		Where(squirrel.Eq{"status": []string{models.SessionStatusPending, models.SessionStatusProcessing}}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	logger.FromContext(ctx).WithPrefix("session_repo").Debug("deleting session: id=%s", id)
	return exec(ctx, r.db, sqlBuilder.Delete("sessions").Where(squirrel.Eq{"id": id}))
}

func applySessionFilter(q squirrel.SelectBuilder, f models.SessionFilter) squirrel.SelectBuilder {
	if f.Status != "" {
		q = q.Where(squirrel.Eq{"status": f.Status})
	}
	return q
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner, summary *sql.NullString) (*models.Session, error) {
	var s models.Session
	var warning int
	var completed sql.NullTime
	dest := []any{
		&s.ID, &s.Name, &s.Status, &s.SamplingRate, &s.WindowSeconds, &s.EpochCount,
		&warning, &s.Error, &s.CreatedAt, &completed,
	}
	if summary != nil {
		dest = append(dest, summary)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	s.QualityWarning = warning != 0
	if completed.Valid {
		t := completed.Time
		s.CompletedAt = &t
	}
	return &s, nil
}
