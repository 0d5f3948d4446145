package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/Masterminds/squirrel"

	"github.com/vytor/neuroprofile/internal/logger"
	"github.com/vytor/neuroprofile/internal/models"
	"github.com/vytor/neuroprofile/internal/repository"
)

type epochResultRepository struct {
	db *sql.DB
}

// NewEpochResultRepository creates a new EpochResultRepository implementation
func NewEpochResultRepository(db *sql.DB) repository.EpochResultRepository {
	return &epochResultRepository{db: db}
}

// InsertBatch writes all rows in one transaction, replacing earlier rows for
// the same (session, epoch).
func (r *epochResultRepository) InsertBatch(ctx context.Context, results []models.EpochResult) error {
	log := logger.FromContext(ctx).WithPrefix("epoch_repo")
	if len(results) == 0 {
		return nil
	}
	log.Debug("inserting %d epoch results", len(results))

	return tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT OR REPLACE INTO epoch_results
  (session_id, epoch_index, label, drowsiness_score, arousal_score, focus_score, mind_wandering_score, noisy, bad_channels)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, e := range results {
			bad, err := json.Marshal(nonNil(e.BadChannels))
			if err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				e.SessionID, e.EpochIndex, string(e.Label),
				e.Scores.Drowsiness, e.Scores.Arousal, e.Scores.Focus, e.Scores.MindWandering,
				boolInt(e.Noisy), string(bad),
			); err != nil {
				log.Error("failed to insert epoch %d: %v", e.EpochIndex, err)
				return err
			}
		}
		return nil
	})
}

func (r *epochResultRepository) ListForSession(ctx context.Context, sessionID string) ([]models.EpochResult, error) {
	log := logger.FromContext(ctx).WithPrefix("epoch_repo")

	q, args, err := sqlBuilder.Select(
		"session_id", "epoch_index", "label",
		"drowsiness_score", "arousal_score", "focus_score", "mind_wandering_score",
		"noisy", "bad_channels",
	).From("epoch_results").
		Where(squirrel.Eq{"session_id": sessionID}).
		OrderBy("epoch_index ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		log.Error("failed to list epoch results: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.EpochResult{}
	for rows.Next() {
		var e models.EpochResult
		var noisy int
		var bad string
		if err := rows.Scan(&e.SessionID, &e.EpochIndex, &e.Label,
			&e.Scores.Drowsiness, &e.Scores.Arousal, &e.Scores.Focus, &e.Scores.MindWandering,
			&noisy, &bad); err != nil {
			return nil, err
		}
		e.Noisy = noisy != 0
		if err := json.Unmarshal([]byte(bad), &e.BadChannels); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// LabelCounts totals epochs per label over completed sessions.
func (r *epochResultRepository) LabelCounts(ctx context.Context) ([]models.LabelTotal, error) {
	q, args, err := sqlBuilder.Select("e.label", "COUNT(*)").
		From("epoch_results e").
		Join("sessions s ON s.id = e.session_id").
		Where(squirrel.Eq{"s.status": models.SessionStatusCompleted}).
		GroupBy("e.label").
		OrderBy("e.label ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("epoch_repo").Error("failed to count labels: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []models.LabelTotal{}
	for rows.Next() {
		var t models.LabelTotal
		if err := rows.Scan(&t.Label, &t.Epochs); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
