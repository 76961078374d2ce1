package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressradar/signal-engine/internal/database"
)

func newMockRepo(t *testing.T) (*database.MentionRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return database.NewMentionRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func mentionColumns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "entity_name", "entity_type", "article_id", "source_tier",
		"source_name", "sentiment_label", "sentiment_score", "detected_at",
	})
}

// A nil exclusion list must bind an empty array, not SQL NULL:
// `article_id <> ALL(NULL)` is never true, so a NULL bind would silently
// turn "exclude nothing" into "match nothing".
func TestMentionRepository_NilExclusionBindsEmptyArray(t *testing.T) {
	repo, mock := newMockRepo(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM entity_mentions").
		WithArgs("nvidia", since, "{}", 500).
		WillReturnRows(mentionColumns().
			AddRow(1, "Nvidia", "company", "a1", 1, "Reuters", "neutral", 0.0, since))

	rows, err := repo.MentionsForEntity(context.Background(), "Nvidia", since, nil, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Nvidia", rows[0].EntityName)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMentionRepository_MentionsForEntityExclusions(t *testing.T) {
	repo, mock := newMockRepo(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM entity_mentions").
		WithArgs("nvidia", since, `{"a1","a2"}`, 500).
		WillReturnRows(mentionColumns())

	rows, err := repo.MentionsForEntity(context.Background(), "Nvidia", since, []string{"a1", "a2"}, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMentionRepository_HasPriorMentionNilExclusion(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("tesla", "{}").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	seen, err := repo.HasPriorMention(context.Background(), "Tesla", nil)
	require.NoError(t, err)
	assert.True(t, seen)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMentionRepository_MentionsByTierNilExclusion(t *testing.T) {
	repo, mock := newMockRepo(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM entity_mentions").
		WithArgs("{1}", since, "{}", 500).
		WillReturnRows(mentionColumns().
			AddRow(1, "OpenAI", "company", "a1", 1, "The Information", "neutral", 0.0, since))

	rows, err := repo.MentionsByTier(context.Background(), []int{1}, since, nil, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMentionRepository_LimitClamped(t *testing.T) {
	repo, mock := newMockRepo(t)
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM entity_mentions").
		WithArgs("nvidia", since, "{}", 2000).
		WillReturnRows(mentionColumns())

	_, err := repo.MentionsForEntity(context.Background(), "Nvidia", since, nil, 5000)
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
