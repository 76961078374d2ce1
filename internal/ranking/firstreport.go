package ranking

import (
	"strings"

	"github.com/pressradar/signal-engine/internal/domain"
)

const (
	titleSimilarityThreshold = 0.4
	uniquenessBonus          = 5.0
	nonEdgeFirstFactor       = 0.7
)

// firstReportScore rewards being earliest among similar coverage in the
// batch. Nothing similar means the story isn't competing with anything and
// earns a flat uniqueness bonus.
func firstReportScore(article *domain.Article, batch []*domain.Article) float64 {
	words := titleWords(article.Title)
	if len(words) == 0 {
		return 0
	}

	var foundSimilar, earliest bool
	earliest = true
	for _, other := range batch {
		if other.ID == article.ID {
			continue
		}
		if titleSimilarity(words, titleWords(other.Title)) < titleSimilarityThreshold {
			continue
		}
		foundSimilar = true
		if other.PublishedAt.Before(article.PublishedAt) {
			earliest = false
		}
	}

	if !foundSimilar {
		return uniquenessBonus
	}
	if !earliest {
		return 0
	}
	if article.Tier() == domain.TierEdge {
		return weightFirstReport
	}
	return weightFirstReport * nonEdgeFirstFactor
}

// titleWords lowercases and splits a title, dropping words too short to
// carry meaning.
func titleWords(title string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(title)) {
		w = strings.Trim(w, `.,!?:;"'()[]$`)
		if len(w) <= 2 {
			continue
		}
		out[w] = struct{}{}
	}
	return out
}

// titleSimilarity is the word-overlap ratio against the smaller set.
func titleSimilarity(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	overlap := 0
	for w := range small {
		if _, ok := large[w]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(small))
}
