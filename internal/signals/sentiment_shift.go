package signals

import (
	"context"
	"fmt"
	"math"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
)

const (
	shiftThreshold       = 0.4
	shiftMinHistoryCount = 3
)

// SentimentShiftDetector compares each mention's sentiment against the
// entity's trailing seven-day average and flags reversals of at least 0.4.
type SentimentShiftDetector struct {
	history HistoryStore
	log     logger.Logger
}

func NewSentimentShiftDetector(history HistoryStore, log logger.Logger) *SentimentShiftDetector {
	return &SentimentShiftDetector{history: history, log: log}
}

// Name returns the signal type this detector emits.
func (d *SentimentShiftDetector) Name() string { return domain.SignalSentimentShift }

// Detect checks every entity in the batch with enough sentiment history.
func (d *SentimentShiftDetector) Detect(ctx context.Context, batch *Batch) ([]*domain.Signal, error) {
	var out []*domain.Signal

	for _, e := range batch.UniqueEntities() {
		since := batch.Now.Add(-sentimentWindow)
		// Exclude the batch itself so the baseline is purely historical.
		prior, err := d.history.MentionsForEntity(ctx, e.Key(), since, batch.ArticleIDs(), 0)
		if err != nil {
			return nil, fmt.Errorf("sentiment history for %s: %w", e.Name, err)
		}
		if len(prior) < shiftMinHistoryCount {
			continue
		}

		var sum float64
		for i := range prior {
			sum += prior[i].SentimentScore
		}
		histAvg := sum / float64(len(prior))

		for _, article := range batch.ArticlesMentioning(e.Key()) {
			current, ok := sentimentFor(batch.Entities[article.ID], e.Key())
			if !ok {
				continue
			}

			shift := current.SentimentScore - histAvg
			if math.Abs(shift) < shiftThreshold {
				continue
			}

			direction := shiftDirection(histAvg, shift)
			confidence := math.Min(1.0, math.Abs(shift))

			out = append(out, &domain.Signal{
				ArticleID:  article.ID,
				SignalType: domain.SignalSentimentShift,
				Label:      fmt.Sprintf("Sentiment shift on %s (%s)", e.Name, direction),
				EntityName: e.Name,
				Confidence: confidence,
				Metadata: map[string]any{
					"direction":       direction,
					"current_score":   current.SentimentScore,
					"historical_avg":  histAvg,
					"shift":           shift,
					"history_samples": len(prior),
				},
				DetectedAt: batch.Now,
			})
		}
	}

	return out, nil
}

func sentimentFor(entities []domain.EntityWithSentiment, key string) (domain.EntityWithSentiment, bool) {
	for _, e := range entities {
		if e.Key() == key {
			return e, true
		}
	}
	return domain.EntityWithSentiment{}, false
}

// shiftDirection categorizes the reversal by where the history sat and which
// way the batch moved.
func shiftDirection(histAvg, shift float64) string {
	histLabel := domain.SentimentNeutral
	switch {
	case histAvg >= 0.2:
		histLabel = domain.SentimentPositive
	case histAvg <= -0.2:
		histLabel = domain.SentimentNegative
	}

	if shift > 0 {
		if histLabel == domain.SentimentNegative {
			return "negative_to_positive"
		}
		return "neutral_to_positive"
	}
	if histLabel == domain.SentimentPositive {
		return "positive_to_negative"
	}
	return "neutral_to_negative"
}
