package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pressradar/signal-engine/internal/domain"
)

const maxSignalRows = 500

// SignalRepository stores detector output. The composite unique key
// (article_id, signal_type, entity_key) makes every write idempotent: a
// re-run detector silently hits DO NOTHING instead of erroring.
type SignalRepository struct {
	db *sqlx.DB
}

// NewSignalRepository creates a new signal repository.
func NewSignalRepository(db *sqlx.DB) *SignalRepository {
	return &SignalRepository{db: db}
}

type signalRow struct {
	ID         int64     `db:"id"`
	ArticleID  string    `db:"article_id"`
	SignalType string    `db:"signal_type"`
	Label      string    `db:"label"`
	EntityName string    `db:"entity_name"`
	Confidence float64   `db:"confidence"`
	Metadata   []byte    `db:"metadata"`
	DetectedAt time.Time `db:"detected_at"`
}

func (row *signalRow) toDomain() (*domain.Signal, error) {
	s := &domain.Signal{
		ID:         row.ID,
		ArticleID:  row.ArticleID,
		SignalType: row.SignalType,
		Label:      row.Label,
		EntityName: row.EntityName,
		Confidence: row.Confidence,
		DetectedAt: row.DetectedAt,
	}
	if len(row.Metadata) > 0 {
		if err := json.Unmarshal(row.Metadata, &s.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode signal metadata: %w", err)
		}
	}
	return s, nil
}

// Upsert stores a signal, ignoring duplicates. Returns true when a new row
// was written.
func (r *SignalRepository) Upsert(ctx context.Context, s *domain.Signal) (bool, error) {
	metadata, err := json.Marshal(s.Metadata)
	if err != nil {
		return false, fmt.Errorf("failed to encode signal metadata: %w", err)
	}

	query := `
		INSERT INTO signals (
			article_id, signal_type, label, entity_name, entity_key,
			confidence, metadata, detected_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (article_id, signal_type, entity_key) DO NOTHING
	`

	res, err := r.db.ExecContext(ctx, query,
		s.ArticleID,
		s.SignalType,
		s.Label,
		s.EntityName,
		strings.ToLower(s.EntityName),
		s.Confidence,
		metadata,
		s.DetectedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to upsert signal %s/%s: %w", s.ArticleID, s.SignalType, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, nil
	}
	return n > 0, nil
}

// ListByArticle returns all signals for one article.
func (r *SignalRepository) ListByArticle(ctx context.Context, articleID string) ([]*domain.Signal, error) {
	var rows []signalRow
	query := `
		SELECT id, article_id, signal_type, label, entity_name,
		       confidence, metadata, detected_at
		FROM signals
		WHERE article_id = $1
		ORDER BY confidence DESC
	`

	if err := r.db.SelectContext(ctx, &rows, query, articleID); err != nil {
		return nil, fmt.Errorf("failed to list signals for article %s: %w", articleID, err)
	}

	return rowsToDomain(rows)
}

// ListRecent returns signals detected since the given time, optionally
// filtered by signal type.
func (r *SignalRepository) ListRecent(ctx context.Context, since time.Time, signalType string, limit int) ([]*domain.Signal, error) {
	if limit <= 0 || limit > maxSignalRows {
		limit = maxSignalRows
	}

	var rows []signalRow
	var err error
	if signalType != "" {
		query := `
			SELECT id, article_id, signal_type, label, entity_name,
			       confidence, metadata, detected_at
			FROM signals
			WHERE detected_at >= $1 AND signal_type = $2
			ORDER BY detected_at DESC
			LIMIT $3
		`
		err = r.db.SelectContext(ctx, &rows, query, since, signalType, limit)
	} else {
		query := `
			SELECT id, article_id, signal_type, label, entity_name,
			       confidence, metadata, detected_at
			FROM signals
			WHERE detected_at >= $1
			ORDER BY detected_at DESC
			LIMIT $2
		`
		err = r.db.SelectContext(ctx, &rows, query, since, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list recent signals: %w", err)
	}

	return rowsToDomain(rows)
}

// Count returns the total number of signal rows.
func (r *SignalRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM signals`); err != nil {
		return 0, fmt.Errorf("failed to count signals: %w", err)
	}
	return count, nil
}

func rowsToDomain(rows []signalRow) ([]*domain.Signal, error) {
	signals := make([]*domain.Signal, 0, len(rows))
	for i := range rows {
		s, err := rows[i].toDomain()
		if err != nil {
			return nil, err
		}
		signals = append(signals, s)
	}
	return signals, nil
}
