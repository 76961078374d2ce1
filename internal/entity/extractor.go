package entity

import (
	"sort"
	"strings"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
)

// maxContentChars bounds how much article body is scanned, keeping
// extraction cost flat on very long articles.
const maxContentChars = 2000

// Extractor finds dictionary entities in article text. It is an interface so
// a model-based implementation could replace the keyword one without touching
// the detectors or the scorer.
type Extractor interface {
	Extract(title, content string, dict *Dictionary) []domain.EntityWithSentiment
}

// KeywordExtractor is the deterministic dictionary implementation.
type KeywordExtractor struct {
	sentiment Scorer
	log       logger.Logger
}

// NewKeywordExtractor creates an extractor with the keyword sentiment scorer.
func NewKeywordExtractor(log logger.Logger) *KeywordExtractor {
	return &KeywordExtractor{sentiment: NewKeywordScorer(), log: log}
}

// Extract scans title plus the first maxContentChars of content for
// dictionary entities. Each entity is reported at most once per article
// regardless of mention count.
func (x *KeywordExtractor) Extract(title, content string, dict *Dictionary) []domain.EntityWithSentiment {
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	text := strings.ToLower(title + " " + content)

	matched := make(map[string]domain.Entity)

	if dict.matcher != nil {
		for _, hit := range dict.matcher.Match([]byte(text)) {
			if hit < 0 || hit >= len(dict.simpleKeys) {
				continue
			}
			key := dict.simpleKeys[hit]
			matched[key] = dict.Simple[key]
		}
	}

	for key, re := range dict.boundary {
		if re.MatchString(text) {
			matched[key] = dict.Boundary[key]
		}
	}

	if len(matched) == 0 {
		return nil
	}

	keys := make([]string, 0, len(matched))
	for key := range matched {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	results := make([]domain.EntityWithSentiment, 0, len(keys))
	for _, key := range keys {
		score, label := x.sentiment.Score(text, key)
		results = append(results, domain.EntityWithSentiment{
			Entity:         matched[key],
			SentimentLabel: label,
			SentimentScore: score,
		})
	}

	return results
}
