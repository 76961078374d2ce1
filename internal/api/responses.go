package api

import (
	"time"

	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/processor"
)

// FeedItemResponse is one ranked article in the top feed.
type FeedItemResponse struct {
	ArticleID   string                `json:"article_id"`
	Title       string                `json:"title"`
	URL         string                `json:"url"`
	Topic       string                `json:"topic,omitempty"`
	SourceName  string                `json:"source_name"`
	SourceTier  int                   `json:"source_tier"`
	Score       float64               `json:"score"`
	Breakdown   domain.ScoreBreakdown `json:"breakdown"`
	PublishedAt time.Time             `json:"published_at"`
}

// FeedResponse is the diversity-capped top feed.
type FeedResponse struct {
	Items       []FeedItemResponse `json:"items"`
	Total       int                `json:"total"`
	WindowHours int                `json:"window_hours"`
}

// SignalResponse is one stored signal.
type SignalResponse struct {
	SignalType string         `json:"signal_type"`
	Label      string         `json:"label"`
	EntityName string         `json:"entity_name,omitempty"`
	Confidence float64        `json:"confidence"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	DetectedAt time.Time      `json:"detected_at"`
}

// SignalsResponse lists an article's signals.
type SignalsResponse struct {
	ArticleID string           `json:"article_id"`
	Signals   []SignalResponse `json:"signals"`
	Total     int              `json:"total"`
}

// RecentSignalsResponse lists recently detected signals across articles.
type RecentSignalsResponse struct {
	Signals []SignalResponse `json:"signals"`
	Total   int              `json:"total"`
}

// RankingResponse is one article's composite score with its breakdown.
type RankingResponse struct {
	ArticleID   string                `json:"article_id"`
	Score       float64               `json:"score"`
	Breakdown   domain.ScoreBreakdown `json:"breakdown"`
	SourceTier  int                   `json:"source_tier"`
	PublishedAt time.Time             `json:"published_at"`
	ScoredAt    time.Time             `json:"scored_at"`
}

// MentionResponse is one mention history row.
type MentionResponse struct {
	ArticleID      string    `json:"article_id"`
	SourceName     string    `json:"source_name"`
	SourceTier     int       `json:"source_tier"`
	SentimentLabel string    `json:"sentiment_label"`
	SentimentScore float64   `json:"sentiment_score"`
	DetectedAt     time.Time `json:"detected_at"`
}

// MentionsResponse lists an entity's mention history.
type MentionsResponse struct {
	Entity   string            `json:"entity"`
	Mentions []MentionResponse `json:"mentions"`
	Total    int               `json:"total"`
}

// StatsResponse summarizes stored volumes and the last batch run.
type StatsResponse struct {
	Mentions      int                  `json:"mentions"`
	Signals       int                  `json:"signals"`
	Rankings      int                  `json:"rankings"`
	PollerRunning bool                 `json:"poller_running"`
	LastRun       *processor.RunReport `json:"last_run,omitempty"`
}

func toFeedResponse(results []*domain.RankingResult, windowHours int) FeedResponse {
	items := make([]FeedItemResponse, 0, len(results))
	for _, r := range results {
		items = append(items, FeedItemResponse{
			ArticleID:   r.ArticleID,
			Title:       r.Title,
			URL:         r.URL,
			Topic:       r.Topic,
			SourceName:  r.SourceName,
			SourceTier:  r.SourceTier,
			Score:       r.Score,
			Breakdown:   r.Breakdown,
			PublishedAt: r.PublishedAt,
		})
	}
	return FeedResponse{Items: items, Total: len(items), WindowHours: windowHours}
}

func toSignalResponses(sigs []*domain.Signal) []SignalResponse {
	out := make([]SignalResponse, 0, len(sigs))
	for _, s := range sigs {
		out = append(out, SignalResponse{
			SignalType: s.SignalType,
			Label:      s.Label,
			EntityName: s.EntityName,
			Confidence: s.Confidence,
			Metadata:   s.Metadata,
			DetectedAt: s.DetectedAt,
		})
	}
	return out
}

func toRankingResponse(r *domain.RankingResult) RankingResponse {
	return RankingResponse{
		ArticleID:   r.ArticleID,
		Score:       r.Score,
		Breakdown:   r.Breakdown,
		SourceTier:  r.SourceTier,
		PublishedAt: r.PublishedAt,
		ScoredAt:    r.ScoredAt,
	}
}

func toMentionResponses(mentions []domain.EntityMention) []MentionResponse {
	out := make([]MentionResponse, 0, len(mentions))
	for i := range mentions {
		m := &mentions[i]
		out = append(out, MentionResponse{
			ArticleID:      m.ArticleID,
			SourceName:     m.SourceName,
			SourceTier:     m.SourceTier,
			SentimentLabel: m.SentimentLabel,
			SentimentScore: m.SentimentScore,
			DetectedAt:     m.DetectedAt,
		})
	}
	return out
}
