package domain

import (
	"strings"
	"time"
)

// Entity types tracked by the dictionary.
const (
	EntityTypeCompany      = "company"
	EntityTypePerson       = "person"
	EntityTypeFund         = "fund"
	EntityTypeKeyword      = "keyword"
	EntityTypeOrganization = "organization"
)

// Sentiment labels.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// Entity is a dictionary entry: something the engine knows how to spot in
// article text.
type Entity struct {
	Name string `json:"name"` // canonical display form
	Type string `json:"type"`

	// Major entities get higher first-mention confidence; set for the
	// curated company/person list, not for user watch terms.
	Major bool `json:"major,omitempty"`
}

// Key returns the lowercase form used for dedup and history lookups.
func (e Entity) Key() string {
	return strings.ToLower(e.Name)
}

// EntityWithSentiment is one extracted entity occurrence for one article,
// carrying the windowed sentiment around its first mention.
type EntityWithSentiment struct {
	Entity
	SentimentLabel string  `json:"sentiment_label"`
	SentimentScore float64 `json:"sentiment_score"` // -1..1
}

// EntityMention is one append-only history row: entity E was mentioned by
// article A. DetectedAt is the article's publish time, not insertion time,
// so every time-windowed history query reasons over publication order.
type EntityMention struct {
	ID             int64     `db:"id"              json:"id"`
	EntityName     string    `db:"entity_name"     json:"entity_name"`
	EntityType     string    `db:"entity_type"     json:"entity_type"`
	ArticleID      string    `db:"article_id"      json:"article_id"`
	SourceTier     int       `db:"source_tier"     json:"source_tier"`
	SourceName     string    `db:"source_name"     json:"source_name"`
	SentimentLabel string    `db:"sentiment_label" json:"sentiment_label"`
	SentimentScore float64   `db:"sentiment_score" json:"sentiment_score"`
	DetectedAt     time.Time `db:"detected_at"     json:"detected_at"`
}

// EntityKey returns the lowercase entity name for grouping.
func (m *EntityMention) EntityKey() string {
	return strings.ToLower(m.EntityName)
}
