package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/pressradar/signal-engine/internal/domain"
)

const maxRankingRows = 500

// RankingRepository stores ranking results. Rankings are a derived
// projection, not a log: re-scoring the same article overwrites the row.
type RankingRepository struct {
	db *sqlx.DB
}

// NewRankingRepository creates a new ranking repository.
func NewRankingRepository(db *sqlx.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

type rankingRow struct {
	ArticleID       string    `db:"article_id"`
	Score           float64   `db:"score"`
	SourceAuthority float64   `db:"source_authority"`
	Magnitude       float64   `db:"magnitude"`
	AuthorityVoice  float64   `db:"authority_voice"`
	StayingPower    float64   `db:"staying_power"`
	FirstReport     float64   `db:"first_report"`
	Title           string    `db:"title"`
	URL             string    `db:"url"`
	Topic           string    `db:"topic"`
	SourceName      string    `db:"source_name"`
	SourceTier      int       `db:"source_tier"`
	PublishedAt     time.Time `db:"published_at"`
	ScoredAt        time.Time `db:"scored_at"`
}

func (row *rankingRow) toDomain() *domain.RankingResult {
	return &domain.RankingResult{
		ArticleID: row.ArticleID,
		Score:     row.Score,
		Breakdown: domain.ScoreBreakdown{
			SourceAuthority: row.SourceAuthority,
			Magnitude:       row.Magnitude,
			AuthorityVoice:  row.AuthorityVoice,
			StayingPower:    row.StayingPower,
			FirstReport:     row.FirstReport,
		},
		Title:       row.Title,
		URL:         row.URL,
		Topic:       row.Topic,
		SourceName:  row.SourceName,
		SourceTier:  row.SourceTier,
		PublishedAt: row.PublishedAt,
		ScoredAt:    row.ScoredAt,
	}
}

// Upsert stores a ranking result, overwriting any previous score for the
// same article.
func (r *RankingRepository) Upsert(ctx context.Context, result *domain.RankingResult) error {
	query := `
		INSERT INTO ranking_results (
			article_id, score, source_authority, magnitude, authority_voice,
			staying_power, first_report, title, url, topic, source_name,
			source_tier, published_at, scored_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (article_id) DO UPDATE SET
			score = EXCLUDED.score,
			source_authority = EXCLUDED.source_authority,
			magnitude = EXCLUDED.magnitude,
			authority_voice = EXCLUDED.authority_voice,
			staying_power = EXCLUDED.staying_power,
			first_report = EXCLUDED.first_report,
			title = EXCLUDED.title,
			topic = EXCLUDED.topic,
			scored_at = EXCLUDED.scored_at
	`

	_, err := r.db.ExecContext(ctx, query,
		result.ArticleID,
		result.Score,
		result.Breakdown.SourceAuthority,
		result.Breakdown.Magnitude,
		result.Breakdown.AuthorityVoice,
		result.Breakdown.StayingPower,
		result.Breakdown.FirstReport,
		result.Title,
		result.URL,
		result.Topic,
		result.SourceName,
		result.SourceTier,
		result.PublishedAt,
		result.ScoredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ranking for article %s: %w", result.ArticleID, err)
	}

	return nil
}

// GetByArticle returns the stored ranking for one article, or nil.
func (r *RankingRepository) GetByArticle(ctx context.Context, articleID string) (*domain.RankingResult, error) {
	var row rankingRow
	query := `
		SELECT article_id, score, source_authority, magnitude, authority_voice,
		       staying_power, first_report, title, url, topic, source_name,
		       source_tier, published_at, scored_at
		FROM ranking_results
		WHERE article_id = $1
	`

	err := r.db.GetContext(ctx, &row, query, articleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get ranking for article %s: %w", articleID, err)
	}

	return row.toDomain(), nil
}

// TopSince returns scored articles published since the given time, ordered
// by score descending with recency as the tie-break. The diversity selector
// applies the per-publication and per-topic caps on top of this.
func (r *RankingRepository) TopSince(ctx context.Context, since time.Time, limit int) ([]*domain.RankingResult, error) {
	if limit <= 0 || limit > maxRankingRows {
		limit = maxRankingRows
	}

	var rows []rankingRow
	query := `
		SELECT article_id, score, source_authority, magnitude, authority_voice,
		       staying_power, first_report, title, url, topic, source_name,
		       source_tier, published_at, scored_at
		FROM ranking_results
		WHERE published_at >= $1
		ORDER BY score DESC, published_at DESC
		LIMIT $2
	`

	if err := r.db.SelectContext(ctx, &rows, query, since, limit); err != nil {
		return nil, fmt.Errorf("failed to query top rankings: %w", err)
	}

	results := make([]*domain.RankingResult, 0, len(rows))
	for i := range rows {
		results = append(results, rows[i].toDomain())
	}
	return results, nil
}

// Count returns the total number of ranking rows.
func (r *RankingRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM ranking_results`); err != nil {
		return 0, fmt.Errorf("failed to count rankings: %w", err)
	}
	return count, nil
}
