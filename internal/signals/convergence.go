package signals

import (
	"context"
	"fmt"
	"sort"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
)

const (
	// Distinct tier-1 sources required before coverage counts as converging.
	convergenceMinSources = 3
	// Source count at which confidence saturates.
	convergenceFullSources = 5
)

// ConvergenceDetector flags entities that multiple distinct tier-1 sources
// covered independently within the window. Convergence is the strongest
// early signal the engine has: independent edge sources rarely align by
// accident.
type ConvergenceDetector struct {
	history HistoryStore
	log     logger.Logger
}

// NewConvergenceDetector creates the detector.
func NewConvergenceDetector(history HistoryStore, log logger.Logger) *ConvergenceDetector {
	return &ConvergenceDetector{history: history, log: log}
}

// Name returns the signal type this detector emits.
func (d *ConvergenceDetector) Name() string { return domain.SignalConvergence }

// Detect groups all tier-1 mentions in the window by entity (the current
// batch included, its rows were just recorded) and counts distinct sources.
func (d *ConvergenceDetector) Detect(ctx context.Context, batch *Batch) ([]*domain.Signal, error) {
	since := batch.Now.Add(-convergenceWindow)
	mentions, err := d.history.MentionsByTier(ctx, []int{domain.TierEdge}, since, nil, 0)
	if err != nil {
		return nil, fmt.Errorf("tier-1 mention query: %w", err)
	}

	sources := make(map[string]map[string]bool) // entity key -> distinct source names
	names := make(map[string]string)
	for i := range mentions {
		m := &mentions[i]
		key := m.EntityKey()
		if sources[key] == nil {
			sources[key] = make(map[string]bool)
			names[key] = m.EntityName
		}
		sources[key][m.SourceName] = true
	}

	var out []*domain.Signal
	for key, srcs := range sources {
		if len(srcs) < convergenceMinSources {
			continue
		}

		confidence := float64(len(srcs)) / convergenceFullSources
		if confidence > 1.0 {
			confidence = 1.0
		}

		sourceList := make([]string, 0, len(srcs))
		for name := range srcs {
			sourceList = append(sourceList, name)
		}
		sort.Strings(sourceList)

		for _, article := range batch.ArticlesMentioning(key) {
			out = append(out, &domain.Signal{
				ArticleID:  article.ID,
				SignalType: domain.SignalConvergence,
				Label:      fmt.Sprintf("%d tier-1 sources covering %s", len(srcs), names[key]),
				EntityName: names[key],
				Confidence: confidence,
				Metadata: map[string]any{
					"sources":      sourceList,
					"source_count": len(srcs),
					"window_hours": int(convergenceWindow.Hours()),
				},
				DetectedAt: batch.Now,
			})
		}
	}

	return out, nil
}
