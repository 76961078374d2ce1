// Package entity implements the entity dictionary and the entity/sentiment
// extraction pipeline. Matching is deterministic keyword work, not NLP: the
// whole pipeline runs with zero external API calls.
package entity

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
)

// WatchlistStore loads user-defined watch terms from the persistence layer.
type WatchlistStore interface {
	ListWatchEntities(ctx context.Context) ([]domain.Entity, error)
}

// Dictionary is the per-batch set of recognized entities, split into two
// buckets: simple entries matched by substring containment, and boundary
// entries whose names are ordinary English words and need word-boundary
// regexes to avoid matching inside unrelated words.
type Dictionary struct {
	Simple   map[string]domain.Entity
	Boundary map[string]domain.Entity

	simpleKeys []string
	matcher    *ahocorasick.Matcher
	boundary   map[string]*regexp.Regexp
}

// Size returns the total number of dictionary entries.
func (d *Dictionary) Size() int {
	return len(d.Simple) + len(d.Boundary)
}

// Builder assembles the dictionary once per batch from the static curated
// list plus persisted watch terms.
type Builder struct {
	watchlist WatchlistStore
	log       logger.Logger
}

// NewBuilder creates a dictionary builder. watchlist may be nil, in which
// case only the curated list is used.
func NewBuilder(watchlist WatchlistStore, log logger.Logger) *Builder {
	return &Builder{watchlist: watchlist, log: log}
}

// Build assembles the dictionary. A failing watch-list fetch degrades to the
// static list: the engine never refuses to run a batch over it.
func (b *Builder) Build(ctx context.Context) *Dictionary {
	d := &Dictionary{
		Simple:   make(map[string]domain.Entity),
		Boundary: make(map[string]domain.Entity),
		boundary: make(map[string]*regexp.Regexp),
	}

	for _, e := range curatedEntities {
		d.add(e)
	}

	if b.watchlist != nil {
		watched, err := b.watchlist.ListWatchEntities(ctx)
		if err != nil {
			b.log.Warn("watchlist fetch failed, using curated entities only",
				logger.Error(err))
		} else {
			for _, e := range watched {
				d.add(e)
			}
		}
	}

	d.compile()

	b.log.Debug("entity dictionary built",
		logger.Int("simple", len(d.Simple)),
		logger.Int("boundary", len(d.Boundary)))

	return d
}

func (d *Dictionary) add(e domain.Entity) {
	key := e.Key()
	if key == "" {
		return
	}
	if needsBoundaryMatch(key) {
		if _, exists := d.Boundary[key]; !exists {
			d.Boundary[key] = e
		}
		return
	}
	if _, exists := d.Simple[key]; !exists {
		d.Simple[key] = e
	}
}

// compile builds the Aho-Corasick automaton over the simple entries and the
// per-entry boundary regexes. Called once after all entries are added.
func (d *Dictionary) compile() {
	d.simpleKeys = make([]string, 0, len(d.Simple))
	for key := range d.Simple {
		d.simpleKeys = append(d.simpleKeys, key)
	}
	if len(d.simpleKeys) > 0 {
		d.matcher = ahocorasick.NewStringMatcher(d.simpleKeys)
	}

	for key := range d.Boundary {
		d.boundary[key] = regexp.MustCompile(
			fmt.Sprintf(`\b%s\b`, regexp.QuoteMeta(key)))
	}
}

// needsBoundaryMatch applies the word-boundary heuristic: single-word names
// that are common English words, or short enough to show up inside longer
// tokens, get boundary regexes. Multi-word and distinctive names use
// containment.
func needsBoundaryMatch(key string) bool {
	if strings.ContainsRune(key, ' ') {
		return false
	}
	return commonWordNames[key] || len(key) <= 4
}
