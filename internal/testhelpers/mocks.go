// Package testhelpers provides in-memory store implementations shared by
// the engine's tests.
package testhelpers

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pressradar/signal-engine/internal/domain"
)

// MemoryHistoryStore is an in-memory mention history implementing both the
// recorder's write side and the detectors' read side.
type MemoryHistoryStore struct {
	mu       sync.RWMutex
	mentions []domain.EntityMention
	nextID   int64

	// Err, when set, is returned by every call.
	Err error
}

// NewMemoryHistoryStore creates an empty history store.
func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{nextID: 1}
}

// Seed adds mentions directly, bypassing dedup. Test setup only.
func (m *MemoryHistoryStore) Seed(mentions ...domain.EntityMention) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, mention := range mentions {
		mention.ID = m.nextID
		m.nextID++
		m.mentions = append(m.mentions, mention)
	}
}

// InsertBatch inserts mentions, skipping (article, entity) duplicates.
func (m *MemoryHistoryStore) InsertBatch(_ context.Context, mentions []domain.EntityMention) (int, error) {
	if m.Err != nil {
		return 0, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for _, mention := range mentions {
		if m.exists(mention.ArticleID, mention.EntityKey()) {
			continue
		}
		mention.ID = m.nextID
		m.nextID++
		m.mentions = append(m.mentions, mention)
		inserted++
	}
	return inserted, nil
}

func (m *MemoryHistoryStore) exists(articleID, entityKey string) bool {
	for i := range m.mentions {
		if m.mentions[i].ArticleID == articleID && m.mentions[i].EntityKey() == entityKey {
			return true
		}
	}
	return false
}

// HasPriorMention reports whether the entity appears outside the excluded
// articles.
func (m *MemoryHistoryStore) HasPriorMention(_ context.Context, entityKey string, excludeArticleIDs []string) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	excluded := toSet(excludeArticleIDs)
	for i := range m.mentions {
		mention := &m.mentions[i]
		if mention.EntityKey() != strings.ToLower(entityKey) {
			continue
		}
		if _, skip := excluded[mention.ArticleID]; skip {
			continue
		}
		return true, nil
	}
	return false, nil
}

// MentionsForEntity returns the entity's mentions since the given time.
func (m *MemoryHistoryStore) MentionsForEntity(_ context.Context, entityKey string, since time.Time, excludeArticleIDs []string, limit int) ([]domain.EntityMention, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	excluded := toSet(excludeArticleIDs)
	var out []domain.EntityMention
	for i := range m.mentions {
		mention := m.mentions[i]
		if mention.EntityKey() != strings.ToLower(entityKey) {
			continue
		}
		if mention.DetectedAt.Before(since) {
			continue
		}
		if _, skip := excluded[mention.ArticleID]; skip {
			continue
		}
		out = append(out, mention)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// MentionsByTier returns mentions from the given source tiers since the
// given time.
func (m *MemoryHistoryStore) MentionsByTier(_ context.Context, tiers []int, since time.Time, excludeArticleIDs []string, limit int) ([]domain.EntityMention, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	tierSet := make(map[int]struct{}, len(tiers))
	for _, t := range tiers {
		tierSet[t] = struct{}{}
	}

	excluded := toSet(excludeArticleIDs)
	var out []domain.EntityMention
	for i := range m.mentions {
		mention := m.mentions[i]
		if _, ok := tierSet[mention.SourceTier]; !ok {
			continue
		}
		if mention.DetectedAt.Before(since) {
			continue
		}
		if _, skip := excluded[mention.ArticleID]; skip {
			continue
		}
		out = append(out, mention)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of stored mentions.
func (m *MemoryHistoryStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.mentions), nil
}

func toSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}

// MemorySignalStore is an in-memory idempotent signal store.
type MemorySignalStore struct {
	mu      sync.RWMutex
	signals []*domain.Signal

	Err error
}

// NewMemorySignalStore creates an empty signal store.
func NewMemorySignalStore() *MemorySignalStore {
	return &MemorySignalStore{}
}

// Upsert stores the signal unless the (article, type, entity) key exists.
func (m *MemorySignalStore) Upsert(_ context.Context, s *domain.Signal) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.signals {
		if existing.ArticleID == s.ArticleID &&
			existing.SignalType == s.SignalType &&
			strings.EqualFold(existing.EntityName, s.EntityName) {
			return false, nil
		}
	}

	stored := *s
	m.signals = append(m.signals, &stored)
	return true, nil
}

// All returns every stored signal.
func (m *MemorySignalStore) All() []*domain.Signal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Signal, len(m.signals))
	copy(out, m.signals)
	return out
}

// ByType returns stored signals of one type.
func (m *MemorySignalStore) ByType(signalType string) []*domain.Signal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Signal
	for _, s := range m.signals {
		if s.SignalType == signalType {
			out = append(out, s)
		}
	}
	return out
}

// MemoryRankingStore is an in-memory ranking result store.
type MemoryRankingStore struct {
	mu      sync.RWMutex
	results map[string]*domain.RankingResult

	Err error
}

// NewMemoryRankingStore creates an empty ranking store.
func NewMemoryRankingStore() *MemoryRankingStore {
	return &MemoryRankingStore{results: make(map[string]*domain.RankingResult)}
}

// Upsert overwrites the article's stored result.
func (m *MemoryRankingStore) Upsert(_ context.Context, result *domain.RankingResult) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *result
	m.results[result.ArticleID] = &stored
	return nil
}

// Get returns the stored result for one article, or nil.
func (m *MemoryRankingStore) Get(articleID string) *domain.RankingResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.results[articleID]
}

// Len returns the number of stored results.
func (m *MemoryRankingStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}

// StaticFilingStore returns canned filing counts per company.
type StaticFilingStore struct {
	Counts map[string]int
	Err    error
}

// CountRecentFilings returns the canned count for the company.
func (s *StaticFilingStore) CountRecentFilings(_ context.Context, company string, _ time.Time) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Counts[company], nil
}

// StaticWatchlistStore returns a fixed watch-entity list.
type StaticWatchlistStore struct {
	Entities []domain.Entity
	Err      error
}

// ListWatchEntities returns the fixed list.
func (s *StaticWatchlistStore) ListWatchEntities(_ context.Context) ([]domain.Entity, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Entities, nil
}
