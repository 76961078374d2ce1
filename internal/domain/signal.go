package domain

import "time"

// Signal types, one per detector.
const (
	SignalFirstMention    = "first_mention"
	SignalTierLead        = "tier1_before_mainstream"
	SignalConvergence     = "convergence"
	SignalUnusualActivity = "unusual_activity"
	SignalSentimentShift  = "sentiment_shift"
)

// Signal is a typed, confidence-scored flag on an (article, entity) pair.
// Uniqueness is (article_id, signal_type, entity_name): a detector may fire
// once per entity per article.
type Signal struct {
	ID         int64          `db:"id"          json:"id"`
	ArticleID  string         `db:"article_id"  json:"article_id"`
	SignalType string         `db:"signal_type" json:"signal_type"`
	Label      string         `db:"label"       json:"label"`
	EntityName string         `db:"entity_name" json:"entity_name,omitempty"`
	Confidence float64        `db:"confidence"  json:"confidence"` // 0..1
	Metadata   map[string]any `db:"-"           json:"metadata,omitempty"`
	DetectedAt time.Time      `db:"detected_at" json:"detected_at"`
}
