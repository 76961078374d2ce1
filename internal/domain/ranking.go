package domain

import "time"

// ScoreBreakdown holds the five pre-multiplier sub-scores. Kept for
// explainability: the raw score is the sum of the five components.
type ScoreBreakdown struct {
	SourceAuthority float64 `json:"source_authority"` // 0-30
	Magnitude       float64 `json:"magnitude"`        // 0-25
	AuthorityVoice  float64 `json:"authority_voice"`  // 0-20
	StayingPower    float64 `json:"staying_power"`    // 0-15
	FirstReport     float64 `json:"first_report"`     // 0-10
}

// Sum returns the raw score before the significance multiplier.
func (b ScoreBreakdown) Sum() float64 {
	return b.SourceAuthority + b.Magnitude + b.AuthorityVoice + b.StayingPower + b.FirstReport
}

// RankingResult is a derived, idempotent projection: re-scoring the same
// article overwrites the stored row. Article metadata is denormalized so the
// top-K selector can apply diversity caps from a single table.
type RankingResult struct {
	ArticleID string         `db:"article_id" json:"article_id"`
	Score     float64        `db:"score"      json:"score"` // 0-100, clamped
	Breakdown ScoreBreakdown `db:"-"          json:"breakdown"`

	Title       string    `db:"title"        json:"title"`
	URL         string    `db:"url"          json:"url"`
	Topic       string    `db:"topic"        json:"topic,omitempty"`
	SourceName  string    `db:"source_name"  json:"source_name"`
	SourceTier  int       `db:"source_tier"  json:"source_tier"`
	PublishedAt time.Time `db:"published_at" json:"published_at"`
	ScoredAt    time.Time `db:"scored_at"    json:"scored_at"`
}

// Publication derives the outlet identity for diversity capping.
func (r *RankingResult) Publication() string {
	a := Article{URL: r.URL, SourceName: r.SourceName}
	return a.PublicationKey()
}
