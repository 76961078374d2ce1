package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pressradar/signal-engine/internal/domain"
)

// WatchlistRepository reads user-defined watch terms. The table is owned by
// the preference collaborator; this engine only ever reads it.
type WatchlistRepository struct {
	db *sqlx.DB
}

// NewWatchlistRepository creates a new watchlist repository.
func NewWatchlistRepository(db *sqlx.DB) *WatchlistRepository {
	return &WatchlistRepository{db: db}
}

type watchRow struct {
	Name       string `db:"name"`
	EntityType string `db:"entity_type"`
}

// ListWatchEntities returns all enabled watch terms. When the enabled column
// is missing (older schema), the query is retried without the filter rather
// than failing the batch.
func (r *WatchlistRepository) ListWatchEntities(ctx context.Context) ([]domain.Entity, error) {
	var rows []watchRow

	query := `SELECT name, entity_type FROM watch_entities WHERE enabled ORDER BY name`
	err := r.db.SelectContext(ctx, &rows, query)
	if err != nil {
		// Reduced query shape for schemas without the enabled flag.
		fallback := `SELECT name, entity_type FROM watch_entities ORDER BY name`
		if fbErr := r.db.SelectContext(ctx, &rows, fallback); fbErr != nil {
			return nil, fmt.Errorf("failed to list watch entities: %w", err)
		}
	}

	entities := make([]domain.Entity, 0, len(rows))
	for _, row := range rows {
		entityType := row.EntityType
		if entityType == "" {
			entityType = domain.EntityTypeKeyword
		}
		entities = append(entities, domain.Entity{Name: row.Name, Type: entityType})
	}

	return entities, nil
}
