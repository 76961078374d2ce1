package ranking

import (
	"sort"

	"github.com/pressradar/signal-engine/internal/domain"
)

// SelectTop picks up to k results while capping how many come from any one
// publication or topic. Candidates are scanned in score order, recency
// breaking ties, so the caps skip lower-ranked duplicates rather than
// shuffling the order.
func SelectTop(results []*domain.RankingResult, k, maxPerPublication, maxPerTopic int) []*domain.RankingResult {
	if k <= 0 || len(results) == 0 {
		return nil
	}

	sorted := make([]*domain.RankingResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].PublishedAt.After(sorted[j].PublishedAt)
	})

	perPublication := make(map[string]int)
	perTopic := make(map[string]int)
	out := make([]*domain.RankingResult, 0, k)

	for _, r := range sorted {
		pub := r.Publication()
		if maxPerPublication > 0 && perPublication[pub] >= maxPerPublication {
			continue
		}
		if maxPerTopic > 0 && r.Topic != "" && perTopic[r.Topic] >= maxPerTopic {
			continue
		}

		out = append(out, r)
		perPublication[pub]++
		if r.Topic != "" {
			perTopic[r.Topic]++
		}
		if len(out) == k {
			break
		}
	}

	return out
}
