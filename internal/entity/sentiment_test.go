//nolint:testpackage // Testing scorer internals requires same package access
package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pressradar/signal-engine/internal/domain"
)

func TestKeywordScorer_Score(t *testing.T) {
	s := NewKeywordScorer()

	tests := []struct {
		name      string
		text      string
		entity    string
		wantScore float64
		wantLabel string
	}{
		{
			name:      "all positive",
			text:      "nvidia shares surge on strong growth",
			entity:    "nvidia",
			wantScore: 1.0,
			wantLabel: domain.SentimentPositive,
		},
		{
			name:      "all negative",
			text:      "tesla shares plunge after recall and lawsuit",
			entity:    "tesla",
			wantScore: -1.0,
			wantLabel: domain.SentimentNegative,
		},
		{
			name:      "no sentiment words",
			text:      "apple announced a new product today",
			entity:    "apple",
			wantScore: 0,
			wantLabel: domain.SentimentNeutral,
		},
		{
			name:      "mixed words lean negative",
			text:      "intel warns of weak demand despite gains",
			entity:    "intel",
			wantScore: -1.0 / 3.0,
			wantLabel: domain.SentimentNegative,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, label := s.Score(tt.text, tt.entity)
			assert.InDelta(t, tt.wantScore, score, 1e-9)
			assert.Equal(t, tt.wantLabel, label)
		})
	}
}

func TestKeywordScorer_WindowIsLocal(t *testing.T) {
	s := NewKeywordScorer()

	// Negative words sit far outside the 150-char window around the entity.
	text := "nvidia shares surge on record results " +
		strings.Repeat("neutral padding words ", 20) +
		"meanwhile other stocks crash plunge collapse in a broad slump"

	score, label := s.Score(text, "nvidia")
	assert.Positive(t, score)
	assert.Equal(t, domain.SentimentPositive, label)
}

func TestKeywordScorer_FallbackWindow(t *testing.T) {
	s := NewKeywordScorer()

	// Entity not present in the text: the leading fallback window is used
	// rather than failing.
	text := "markets rally on strong earnings " + strings.Repeat("x", 600) + " plunge"
	score, label := s.Score(text, "notfound")
	assert.Positive(t, score)
	assert.Equal(t, domain.SentimentPositive, label)
}

func TestLabel_Thresholds(t *testing.T) {
	assert.Equal(t, domain.SentimentPositive, Label(0.21))
	assert.Equal(t, domain.SentimentNeutral, Label(0.2))
	assert.Equal(t, domain.SentimentNeutral, Label(0))
	assert.Equal(t, domain.SentimentNeutral, Label(-0.2))
	assert.Equal(t, domain.SentimentNegative, Label(-0.21))
}
