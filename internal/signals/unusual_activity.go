package signals

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
)

const (
	weekendFilingConfidence = 0.9
	filingBurstConfidence   = 0.7
	filingBurstThreshold    = 3

	spikeMinTodayCount   = 3
	spikeMinBaselineDays = 3
	spikeStddevFactor    = 2.0
)

// FilingStore counts recent regulatory filings per company. Backed by the
// article store, since filings are articles, not mention rows.
type FilingStore interface {
	CountRecentFilings(ctx context.Context, company string, since time.Time) (int, error)
}

// UnusualActivityDetector runs three independent anomaly checks per batch:
// weekend filings, filing bursts from one company, and statistical mention
// spikes against a 14-day baseline. Any of them may fire per article; each
// carries its own reason in the metadata so consumers can explain the flag.
type UnusualActivityDetector struct {
	history HistoryStore
	filings FilingStore
	log     logger.Logger
}

// NewUnusualActivityDetector creates the detector. filings may be nil, which
// disables the filing-burst check.
func NewUnusualActivityDetector(history HistoryStore, filings FilingStore, log logger.Logger) *UnusualActivityDetector {
	return &UnusualActivityDetector{history: history, filings: filings, log: log}
}

// Name returns the signal type this detector emits.
func (d *UnusualActivityDetector) Name() string { return domain.SignalUnusualActivity }

// Detect runs all three checks over the batch.
func (d *UnusualActivityDetector) Detect(ctx context.Context, batch *Batch) ([]*domain.Signal, error) {
	var out []*domain.Signal

	for _, article := range batch.Articles {
		if s := d.checkWeekendFiling(article, batch.Now); s != nil {
			out = append(out, s)
		}

		s, err := d.checkFilingBurst(ctx, article, batch)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out = append(out, s)
		}
	}

	spikes, err := d.checkMentionSpikes(ctx, batch)
	if err != nil {
		return nil, err
	}
	out = append(out, spikes...)

	return out, nil
}

// checkWeekendFiling flags filings published on a Saturday or Sunday.
// Companies file bad news when nobody is watching.
func (d *UnusualActivityDetector) checkWeekendFiling(article *domain.Article, now time.Time) *domain.Signal {
	if !article.IsFiling() {
		return nil
	}
	day := article.PublishedAt.Weekday()
	if day != time.Saturday && day != time.Sunday {
		return nil
	}

	return &domain.Signal{
		ArticleID:  article.ID,
		SignalType: domain.SignalUnusualActivity,
		Label:      fmt.Sprintf("Weekend %s filing", article.DocumentType),
		Confidence: weekendFilingConfidence,
		Metadata: map[string]any{
			"reason":        "weekend_filing",
			"document_type": article.DocumentType,
			"weekday":       day.String(),
		},
		DetectedAt: now,
	}
}

// checkFilingBurst flags a company with three or more filings inside the
// trailing seven days.
func (d *UnusualActivityDetector) checkFilingBurst(ctx context.Context, article *domain.Article, batch *Batch) (*domain.Signal, error) {
	if d.filings == nil || !article.IsFiling() {
		return nil, nil
	}

	company := filerCompany(article, batch.Entities[article.ID])
	if company == "" {
		return nil, nil
	}

	since := batch.Now.Add(-filingWindow)
	count, err := d.filings.CountRecentFilings(ctx, company, since)
	if err != nil {
		return nil, fmt.Errorf("filing count for %s: %w", company, err)
	}
	if count < filingBurstThreshold {
		return nil, nil
	}

	return &domain.Signal{
		ArticleID:  article.ID,
		SignalType: domain.SignalUnusualActivity,
		Label:      fmt.Sprintf("%d filings from %s in 7 days", count, company),
		EntityName: company,
		Confidence: filingBurstConfidence,
		Metadata: map[string]any{
			"reason":       "filing_burst",
			"filing_count": count,
			"window_days":  int(filingWindow.Hours() / 24),
		},
		DetectedAt: batch.Now,
	}, nil
}

// checkMentionSpikes flags entities whose mention count today sits more than
// two standard deviations above their 14-day daily baseline.
func (d *UnusualActivityDetector) checkMentionSpikes(ctx context.Context, batch *Batch) ([]*domain.Signal, error) {
	var out []*domain.Signal

	for _, e := range batch.UniqueEntities() {
		since := batch.Now.Add(-spikeWindow)
		// The batch's own rows are included: they are today's activity.
		mentions, err := d.history.MentionsForEntity(ctx, e.Key(), since, nil, 0)
		if err != nil {
			return nil, fmt.Errorf("spike history for %s: %w", e.Name, err)
		}

		today, mean, stddev, baselineDays := dailyBaseline(mentions, batch.Now)
		if baselineDays < spikeMinBaselineDays {
			continue
		}
		if today < spikeMinTodayCount || float64(today) <= mean+spikeStddevFactor*stddev {
			continue
		}

		confidence := 1.0
		if mean > 0 {
			confidence = float64(today) / (3 * mean)
			if confidence > 1.0 {
				confidence = 1.0
			}
		}

		for _, article := range batch.ArticlesMentioning(e.Key()) {
			out = append(out, &domain.Signal{
				ArticleID:  article.ID,
				SignalType: domain.SignalUnusualActivity,
				Label:      fmt.Sprintf("Mention spike for %s", e.Name),
				EntityName: e.Name,
				Confidence: confidence,
				Metadata: map[string]any{
					"reason":         "mention_spike",
					"today_count":    today,
					"baseline_mean":  mean,
					"baseline_stdev": stddev,
					"baseline_days":  baselineDays,
				},
				DetectedAt: batch.Now,
			})
		}
	}

	return out, nil
}

// dailyBaseline buckets mentions into days, splits off today's count, and
// returns mean and standard deviation over the zero-filled baseline days
// plus how many baseline days actually carried data.
func dailyBaseline(mentions []domain.EntityMention, now time.Time) (today int, mean, stddev float64, baselineDays int) {
	counts := make(map[string]int)
	for i := range mentions {
		counts[mentions[i].DetectedAt.UTC().Format("2006-01-02")]++
	}

	todayKey := now.UTC().Format("2006-01-02")
	today = counts[todayKey]

	days := int(spikeWindow.Hours()/24) - 1
	baseline := make([]float64, 0, days)
	for i := 1; i <= days; i++ {
		key := now.UTC().AddDate(0, 0, -i).Format("2006-01-02")
		c := counts[key]
		if c > 0 {
			baselineDays++
		}
		baseline = append(baseline, float64(c))
	}

	var sum float64
	for _, c := range baseline {
		sum += c
	}
	mean = sum / float64(len(baseline))

	var varSum float64
	for _, c := range baseline {
		varSum += (c - mean) * (c - mean)
	}
	stddev = math.Sqrt(varSum / float64(len(baseline)))

	return today, mean, stddev, baselineDays
}

// filerCompany derives the filing company: the first company entity found in
// the article, falling back to the title prefix before a dash or colon.
func filerCompany(article *domain.Article, entities []domain.EntityWithSentiment) string {
	for _, e := range entities {
		if e.Type == domain.EntityTypeCompany {
			return e.Name
		}
	}

	title := article.Title
	for _, sep := range []string{" - ", " – ", ": "} {
		if i := strings.Index(title, sep); i > 0 {
			title = title[:i]
			break
		}
	}
	title = strings.TrimSpace(title)
	if title == "" || len(strings.Fields(title)) > 5 {
		return ""
	}
	return title
}
