package entity

import (
	"strings"
	"unicode"

	"github.com/pressradar/signal-engine/internal/domain"
)

const (
	// Characters taken on each side of the entity's first occurrence.
	sentimentWindow = 150
	// Window used when the entity index cannot be located in the text.
	fallbackWindow = 500

	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// Scorer computes a sentiment score for an entity mention in text. Pluggable
// for the same reason Extractor is.
type Scorer interface {
	// Score returns a score in -1..1 and the corresponding label.
	Score(text, entityKey string) (float64, string)
}

// KeywordScorer counts curated positive and negative words in a window
// around the entity mention. Cheap and explainable, deliberately not a model.
type KeywordScorer struct {
	positive map[string]bool
	negative map[string]bool
}

// NewKeywordScorer creates a scorer over the curated sentiment word sets.
func NewKeywordScorer() *KeywordScorer {
	return &KeywordScorer{positive: positiveWords, negative: negativeWords}
}

// Score takes a ±sentimentWindow character window around the entity's first
// occurrence (or the leading fallbackWindow characters when the entity
// cannot be located) and scores it by keyword counts.
func (s *KeywordScorer) Score(text, entityKey string) (float64, string) {
	window := s.window(text, entityKey)

	var pos, neg int
	for _, token := range tokenize(window) {
		switch {
		case s.positive[token]:
			pos++
		case s.negative[token]:
			neg++
		}
	}

	if pos+neg == 0 {
		return 0, domain.SentimentNeutral
	}

	score := float64(pos-neg) / float64(pos+neg)
	return score, Label(score)
}

func (s *KeywordScorer) window(text, entityKey string) string {
	idx := strings.Index(text, strings.ToLower(entityKey))
	if idx < 0 {
		if len(text) > fallbackWindow {
			return text[:fallbackWindow]
		}
		return text
	}

	start := idx - sentimentWindow
	if start < 0 {
		start = 0
	}
	end := idx + len(entityKey) + sentimentWindow
	if end > len(text) {
		end = len(text)
	}
	return text[start:end]
}

// Label maps a continuous score onto the three sentiment labels.
func Label(score float64) string {
	switch {
	case score > positiveThreshold:
		return domain.SentimentPositive
	case score < negativeThreshold:
		return domain.SentimentNegative
	default:
		return domain.SentimentNeutral
	}
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
