// Package domain defines the core data model shared across the engine.
package domain

import (
	"net/url"
	"strings"
	"time"
)

// Source tiers. Lower is more authoritative in the "breaks news first" sense:
// tier 1 sources originate stories, tier 3 sources aggregate them.
const (
	TierEdge       = 1
	TierQuality    = 2
	TierMainstream = 3
)

// Signal processing lifecycle states for an article in the article store.
const (
	SignalStatusPending   = "pending"
	SignalStatusProcessed = "processed"
)

// Story types assigned by the external summarization collaborator.
const (
	StoryTypeBreaking   = "breaking"
	StoryTypeDeveloping = "developing"
	StoryTypeAnalysis   = "analysis"
	StoryTypeFeature    = "feature"
	StoryTypeOpinion    = "opinion"
	StoryTypeUpdate     = "update"
)

// Article is a normalized article record handed to the engine by the
// ingestion collaborator. The engine never mutates articles; rankings and
// signals live in separate derived tables.
type Article struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content,omitempty"`
	URL          string    `json:"url"`
	Topic        string    `json:"topic,omitempty"`
	SourceName   string    `json:"source_name"`
	SourceTier   int       `json:"source_tier"`
	PublishedAt  time.Time `json:"published_at"`
	DocumentType string    `json:"document_type,omitempty"` // regulatory filing category, e.g. "8-K"

	// Optional enrichment from the summarization collaborator.
	SignificanceScore int    `json:"significance_score,omitempty"` // 1-10, 0 when absent
	StoryType         string `json:"story_type,omitempty"`

	SignalStatus string `json:"signal_status,omitempty"`
}

// Tier returns the article's source tier, defaulting to mainstream when the
// stored value is out of range. Unknown is treated as unverified.
func (a *Article) Tier() int {
	if a.SourceTier >= TierEdge && a.SourceTier <= TierMainstream {
		return a.SourceTier
	}
	return TierMainstream
}

// IsFiling reports whether the article is a regulatory filing.
func (a *Article) IsFiling() bool {
	return a.DocumentType != ""
}

// Subdomain prefixes that do not identify a distinct publication.
var publicationPrefixes = []string{"www.", "feeds.", "rss.", "news."}

// PublicationKey derives a publication identity from the article URL host,
// stripping common feed/CDN subdomain prefixes so feeds.example.com and
// www.example.com count as the same outlet. Falls back to the source name
// when the URL does not parse.
func (a *Article) PublicationKey() string {
	u, err := url.Parse(a.URL)
	if err != nil || u.Host == "" {
		return strings.ToLower(a.SourceName)
	}
	host := strings.ToLower(u.Host)
	for _, prefix := range publicationPrefixes {
		host = strings.TrimPrefix(host, prefix)
	}
	return host
}
