package signals

import (
	"context"
	"fmt"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
)

const tierLeadConfidence = 0.85

// TierLeadDetector flags entities covered by a tier-1 article in the current
// batch that have no tier-2/tier-3 mention in the last 48 hours: an edge
// source is ahead of the pack.
type TierLeadDetector struct {
	history HistoryStore
	log     logger.Logger
}

// NewTierLeadDetector creates the detector.
func NewTierLeadDetector(history HistoryStore, log logger.Logger) *TierLeadDetector {
	return &TierLeadDetector{history: history, log: log}
}

// Name returns the signal type this detector emits.
func (d *TierLeadDetector) Name() string { return domain.SignalTierLead }

// Detect collects entities from tier-1 batch articles and checks them
// against recent mainstream coverage.
func (d *TierLeadDetector) Detect(ctx context.Context, batch *Batch) ([]*domain.Signal, error) {
	// Entities covered by tier-1 articles in this batch.
	type candidate struct {
		entity   domain.EntityWithSentiment
		articles []*domain.Article
	}
	candidates := make(map[string]*candidate)
	for _, article := range batch.Articles {
		if article.Tier() != domain.TierEdge {
			continue
		}
		for _, e := range batch.Entities[article.ID] {
			c, ok := candidates[e.Key()]
			if !ok {
				c = &candidate{entity: e}
				candidates[e.Key()] = c
			}
			c.articles = append(c.articles, article)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	since := batch.Now.Add(-mainstreamWindow)
	mainstream, err := d.history.MentionsByTier(ctx,
		[]int{domain.TierQuality, domain.TierMainstream},
		since, batch.ArticleIDs(), 0)
	if err != nil {
		return nil, fmt.Errorf("mainstream coverage query: %w", err)
	}

	covered := make(map[string]bool, len(mainstream))
	for i := range mainstream {
		covered[mainstream[i].EntityKey()] = true
	}

	var out []*domain.Signal
	for key, c := range candidates {
		if covered[key] {
			continue
		}
		for _, article := range c.articles {
			out = append(out, &domain.Signal{
				ArticleID:  article.ID,
				SignalType: domain.SignalTierLead,
				Label:      fmt.Sprintf("%s covered before mainstream", c.entity.Name),
				EntityName: c.entity.Name,
				Confidence: tierLeadConfidence,
				Metadata: map[string]any{
					"source":       article.SourceName,
					"window_hours": int(mainstreamWindow.Hours()),
				},
				DetectedAt: batch.Now,
			})
		}
	}

	return out, nil
}
