package signals

import (
	"context"
	"fmt"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
)

// First-mention confidence depends on whether the entity is a known major
// company or person: genuinely new coverage of a major name is a stronger
// signal than a first sighting of an obscure watch term.
const (
	firstMentionMajorConfidence = 0.9
	firstMentionConfidence      = 0.7
)

// FirstMentionDetector flags entities with no history rows at all outside
// the current batch: "genuinely new to the radar", not merely "first time
// this batch".
type FirstMentionDetector struct {
	history HistoryStore
	log     logger.Logger
}

// NewFirstMentionDetector creates the detector.
func NewFirstMentionDetector(history HistoryStore, log logger.Logger) *FirstMentionDetector {
	return &FirstMentionDetector{history: history, log: log}
}

// Name returns the signal type this detector emits.
func (d *FirstMentionDetector) Name() string { return domain.SignalFirstMention }

// Detect emits one signal per (article, entity) pair for entities with no
// prior history.
func (d *FirstMentionDetector) Detect(ctx context.Context, batch *Batch) ([]*domain.Signal, error) {
	excludeIDs := batch.ArticleIDs()

	var out []*domain.Signal
	for _, e := range batch.UniqueEntities() {
		seen, err := d.history.HasPriorMention(ctx, e.Key(), excludeIDs)
		if err != nil {
			return nil, fmt.Errorf("first mention check for %s: %w", e.Name, err)
		}
		if seen {
			continue
		}

		confidence := firstMentionConfidence
		if e.Major {
			confidence = firstMentionMajorConfidence
		}

		// One signal per article mentioning the entity, not one globally.
		for _, article := range batch.ArticlesMentioning(e.Key()) {
			out = append(out, &domain.Signal{
				ArticleID:  article.ID,
				SignalType: domain.SignalFirstMention,
				Label:      fmt.Sprintf("First mention of %s", e.Name),
				EntityName: e.Name,
				Confidence: confidence,
				Metadata: map[string]any{
					"entity_type": e.Type,
					"major":       e.Major,
				},
				DetectedAt: batch.Now,
			})
		}
	}

	return out, nil
}
