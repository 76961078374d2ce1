// Package processor orchestrates batch runs: authority backfill, entity
// extraction and mention recording, then signal detection and ranking.
package processor

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pressradar/signal-engine/internal/authority"
	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/entity"
	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/ranking"
	"github.com/pressradar/signal-engine/internal/recorder"
	"github.com/pressradar/signal-engine/internal/signals"
	"github.com/pressradar/signal-engine/internal/telemetry"
)

// RunReport summarizes one batch run for logging and the stats endpoint.
type RunReport struct {
	RunID            string         `json:"run_id"`
	Articles         int            `json:"articles"`
	MentionsRecorded int            `json:"mentions_recorded"`
	MentionErrors    int            `json:"mention_errors"`
	SignalsDetected  int            `json:"signals_detected"`
	SignalsStored    int            `json:"signals_stored"`
	SignalsByType    map[string]int `json:"signals_by_type"`
	DetectorFailures int            `json:"detector_failures"`
	ScoreErrors      int            `json:"score_errors"`
	StartedAt        time.Time      `json:"started_at"`
	Duration         time.Duration  `json:"duration"`
}

// Pipeline wires the stages of one batch run. The recorder must finish
// before the detectors start because every detector reads the per-article
// entity map it produces; the scorer has no such dependency and runs in
// parallel with the whole signal side.
type Pipeline struct {
	classifier *authority.Classifier
	dict       *entity.Builder
	recorder   *recorder.Recorder
	runner     *signals.Runner
	scorer     *ranking.Scorer
	telemetry  *telemetry.Provider
	log        logger.Logger
}

// NewPipeline creates a pipeline. telemetry may be nil.
func NewPipeline(
	classifier *authority.Classifier,
	dict *entity.Builder,
	rec *recorder.Recorder,
	runner *signals.Runner,
	scorer *ranking.Scorer,
	tel *telemetry.Provider,
	log logger.Logger,
) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		dict:       dict,
		recorder:   rec,
		runner:     runner,
		scorer:     scorer,
		telemetry:  tel,
		log:        log,
	}
}

// Run processes one batch of articles end to end. It never returns an
// error: every stage degrades to counters in the report, because a failure
// to enrich one batch must not block the feed.
func (p *Pipeline) Run(ctx context.Context, articles []*domain.Article) *RunReport {
	now := time.Now().UTC()
	report := &RunReport{
		RunID:     uuid.NewString(),
		Articles:  len(articles),
		StartedAt: now,
	}

	if len(articles) == 0 {
		return report
	}

	p.log.Info("batch run starting",
		logger.String("run_id", report.RunID),
		logger.Int("articles", len(articles)))

	// Articles arriving without a tier get one from the classifier so every
	// downstream stage sees a value in {1,2,3}.
	for _, a := range articles {
		if a.SourceTier == 0 {
			a.SourceTier = p.classifier.ClassifyArticle(a)
		}
	}

	dict := p.dict.Build(ctx)

	recResult := p.recorder.Record(ctx, articles, dict)
	report.MentionsRecorded = recResult.Recorded
	report.MentionErrors = recResult.Errors
	if p.telemetry != nil {
		p.telemetry.RecordMentions(recResult.Recorded, recResult.Errors)
	}

	batch := &signals.Batch{
		Articles: articles,
		Entities: recResult.PerArticle,
		Now:      now,
	}

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		stats := p.runner.Run(ctx, batch)
		report.SignalsDetected = stats.Detected
		report.SignalsStored = stats.Stored
		report.SignalsByType = stats.ByType
		report.DetectorFailures = len(stats.Failures)
	}()

	go func() {
		defer wg.Done()
		results, errCount := p.scorer.Score(ctx, articles, now)
		report.ScoreErrors = errCount
		if p.telemetry != nil {
			for _, r := range results {
				p.telemetry.RecordScore(r.Score)
			}
		}
	}()

	wg.Wait()
	report.Duration = time.Since(now)

	if p.telemetry != nil {
		p.telemetry.RecordBatch(len(articles), report.MentionErrors+report.ScoreErrors, report.Duration)
	}

	p.log.Info("batch run complete",
		logger.String("run_id", report.RunID),
		logger.Int("articles", report.Articles),
		logger.Int("mentions", report.MentionsRecorded),
		logger.Int("signals_stored", report.SignalsStored),
		logger.Int("detector_failures", report.DetectorFailures),
		logger.Duration("duration", report.Duration))

	return report
}
