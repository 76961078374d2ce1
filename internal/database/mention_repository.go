package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pressradar/signal-engine/internal/domain"
)

// Row limits keep every history query's cost predictable.
const (
	maxMentionRows     = 2000
	defaultMentionRows = 500
)

// MentionRepository handles the append-only entity mention history.
// Uniqueness is (article_id, lower(entity_name)); duplicate inserts are
// no-ops so the pipeline can safely re-run over the same batch.
type MentionRepository struct {
	db *sqlx.DB
}

// NewMentionRepository creates a new mention repository.
func NewMentionRepository(db *sqlx.DB) *MentionRepository {
	return &MentionRepository{db: db}
}

// excludeList coalesces a nil or empty exclusion list to an empty array.
// pq.Array of a nil slice binds SQL NULL, and `x <> ALL(NULL)` is never
// true, which would turn "exclude nothing" into "match nothing".
func excludeList(ids []string) pq.StringArray {
	if len(ids) == 0 {
		return pq.StringArray{}
	}
	return pq.StringArray(ids)
}

// InsertBatch upserts mention rows with ignore-duplicates semantics and
// returns how many were actually inserted.
func (r *MentionRepository) InsertBatch(ctx context.Context, mentions []domain.EntityMention) (int, error) {
	if len(mentions) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO entity_mentions (
			entity_name, entity_key, entity_type, article_id,
			source_tier, source_name, sentiment_label, sentiment_score, detected_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (article_id, entity_key) DO NOTHING
	`

	inserted := 0
	for i := range mentions {
		m := &mentions[i]
		res, err := r.db.ExecContext(ctx, query,
			m.EntityName,
			strings.ToLower(m.EntityName),
			m.EntityType,
			m.ArticleID,
			m.SourceTier,
			m.SourceName,
			m.SentimentLabel,
			m.SentimentScore,
			m.DetectedAt,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert mention %s/%s: %w", m.ArticleID, m.EntityName, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	return inserted, nil
}

// HasPriorMention reports whether the entity has any history row outside the
// given article IDs.
func (r *MentionRepository) HasPriorMention(ctx context.Context, entityKey string, excludeArticleIDs []string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM entity_mentions
			WHERE entity_key = $1
			  AND article_id <> ALL($2)
		)
	`

	err := r.db.GetContext(ctx, &exists, query, strings.ToLower(entityKey), excludeList(excludeArticleIDs))
	if err != nil {
		return false, fmt.Errorf("failed to check prior mentions for %s: %w", entityKey, err)
	}

	return exists, nil
}

// MentionsForEntity returns the entity's mention rows since the given time,
// excluding the listed article IDs, newest first.
func (r *MentionRepository) MentionsForEntity(
	ctx context.Context,
	entityKey string,
	since time.Time,
	excludeArticleIDs []string,
	limit int,
) ([]domain.EntityMention, error) {
	limit = clampLimit(limit)

	var rows []domain.EntityMention
	query := `
		SELECT id, entity_name, entity_type, article_id, source_tier,
		       source_name, sentiment_label, sentiment_score, detected_at
		FROM entity_mentions
		WHERE entity_key = $1
		  AND detected_at >= $2
		  AND article_id <> ALL($3)
		ORDER BY detected_at DESC
		LIMIT $4
	`

	err := r.db.SelectContext(ctx, &rows, query,
		strings.ToLower(entityKey), since, excludeList(excludeArticleIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query mentions for %s: %w", entityKey, err)
	}

	return rows, nil
}

// MentionsByTier returns mention rows from the given source tiers since the
// given time, excluding the listed article IDs.
func (r *MentionRepository) MentionsByTier(
	ctx context.Context,
	tiers []int,
	since time.Time,
	excludeArticleIDs []string,
	limit int,
) ([]domain.EntityMention, error) {
	limit = clampLimit(limit)

	var rows []domain.EntityMention
	query := `
		SELECT id, entity_name, entity_type, article_id, source_tier,
		       source_name, sentiment_label, sentiment_score, detected_at
		FROM entity_mentions
		WHERE source_tier = ANY($1)
		  AND detected_at >= $2
		  AND article_id <> ALL($3)
		ORDER BY detected_at DESC
		LIMIT $4
	`

	err := r.db.SelectContext(ctx, &rows, query,
		pq.Array(tiers), since, excludeList(excludeArticleIDs), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tier mentions: %w", err)
	}

	return rows, nil
}

// LatestMention returns the most recent mention row for an entity, or nil.
func (r *MentionRepository) LatestMention(ctx context.Context, entityKey string) (*domain.EntityMention, error) {
	var row domain.EntityMention
	query := `
		SELECT id, entity_name, entity_type, article_id, source_tier,
		       source_name, sentiment_label, sentiment_score, detected_at
		FROM entity_mentions
		WHERE entity_key = $1
		ORDER BY detected_at DESC
		LIMIT 1
	`

	err := r.db.GetContext(ctx, &row, query, strings.ToLower(entityKey))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest mention for %s: %w", entityKey, err)
	}

	return &row, nil
}

// Count returns the total number of mention rows.
func (r *MentionRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM entity_mentions`); err != nil {
		return 0, fmt.Errorf("failed to count mentions: %w", err)
	}
	return count, nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultMentionRows
	case limit > maxMentionRows:
		return maxMentionRows
	default:
		return limit
	}
}
