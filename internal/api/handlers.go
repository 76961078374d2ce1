package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pressradar/signal-engine/internal/config"
	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
	"github.com/pressradar/signal-engine/internal/processor"
	"github.com/pressradar/signal-engine/internal/ranking"
)

const (
	defaultRecentHours = 24
	maxWindowHours     = 24 * 14
)

// MentionReader is the read side of the mention history used by the API.
type MentionReader interface {
	MentionsForEntity(ctx context.Context, entityKey string, since time.Time, excludeArticleIDs []string, limit int) ([]domain.EntityMention, error)
	Count(ctx context.Context) (int, error)
}

// SignalReader reads stored signals.
type SignalReader interface {
	ListByArticle(ctx context.Context, articleID string) ([]*domain.Signal, error)
	ListRecent(ctx context.Context, since time.Time, signalType string, limit int) ([]*domain.Signal, error)
	Count(ctx context.Context) (int, error)
}

// RankingReader reads stored ranking results.
type RankingReader interface {
	GetByArticle(ctx context.Context, articleID string) (*domain.RankingResult, error)
	TopSince(ctx context.Context, since time.Time, limit int) ([]*domain.RankingResult, error)
	Count(ctx context.Context) (int, error)
}

// RunReporter exposes the most recent batch run.
type RunReporter interface {
	LastReport() *processor.RunReport
	IsRunning() bool
}

// Handler handles HTTP requests for the engine's read API.
type Handler struct {
	mentions MentionReader
	signals  SignalReader
	rankings RankingReader
	runs     RunReporter
	feed     config.FeedConfig
	log      logger.Logger
}

// NewHandler creates an API handler. runs may be nil when the service runs
// without an embedded poller.
func NewHandler(
	mentions MentionReader,
	signals SignalReader,
	rankings RankingReader,
	runs RunReporter,
	feed config.FeedConfig,
	log logger.Logger,
) *Handler {
	return &Handler{
		mentions: mentions,
		signals:  signals,
		rankings: rankings,
		runs:     runs,
		feed:     feed,
		log:      log,
	}
}

// HealthCheck handles GET /healthz
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ReadyCheck handles GET /ready
func (h *Handler) ReadyCheck(c *gin.Context) {
	if _, err := h.rankings.Count(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// GetTopFeed handles GET /api/v1/feed/top
// Query params: limit, window_hours, max_per_publication, max_per_topic.
func (h *Handler) GetTopFeed(c *gin.Context) {
	limit := queryInt(c, "limit", h.feed.Size)
	windowHours := clampHours(queryInt(c, "window_hours", h.feed.WindowHours))
	maxPerPub := queryInt(c, "max_per_publication", h.feed.MaxPerPublication)
	maxPerTopic := queryInt(c, "max_per_topic", h.feed.MaxPerTopic)

	since := time.Now().UTC().Add(-time.Duration(windowHours) * time.Hour)

	// Over-fetch so the diversity caps have candidates to skip past.
	candidates, err := h.rankings.TopSince(c.Request.Context(), since, limit*10)
	if err != nil {
		h.log.Error("Failed to load feed candidates", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load feed"})
		return
	}

	selected := ranking.SelectTop(candidates, limit, maxPerPub, maxPerTopic)
	c.JSON(http.StatusOK, toFeedResponse(selected, windowHours))
}

// GetArticleSignals handles GET /api/v1/articles/:id/signals
func (h *Handler) GetArticleSignals(c *gin.Context) {
	articleID := c.Param("id")

	sigs, err := h.signals.ListByArticle(c.Request.Context(), articleID)
	if err != nil {
		h.log.Error("Failed to load article signals",
			logger.String("article_id", articleID),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load signals"})
		return
	}

	c.JSON(http.StatusOK, SignalsResponse{
		ArticleID: articleID,
		Signals:   toSignalResponses(sigs),
		Total:     len(sigs),
	})
}

// GetArticleRanking handles GET /api/v1/articles/:id/ranking
func (h *Handler) GetArticleRanking(c *gin.Context) {
	articleID := c.Param("id")

	result, err := h.rankings.GetByArticle(c.Request.Context(), articleID)
	if err != nil {
		h.log.Error("Failed to load article ranking",
			logger.String("article_id", articleID),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load ranking"})
		return
	}
	if result == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "article not ranked"})
		return
	}

	c.JSON(http.StatusOK, toRankingResponse(result))
}

// GetEntityMentions handles GET /api/v1/entities/:name/mentions
// Query params: since_hours, limit.
func (h *Handler) GetEntityMentions(c *gin.Context) {
	name := c.Param("name")
	sinceHours := clampHours(queryInt(c, "since_hours", defaultRecentHours))
	limit := queryInt(c, "limit", 100)

	since := time.Now().UTC().Add(-time.Duration(sinceHours) * time.Hour)

	mentions, err := h.mentions.MentionsForEntity(c.Request.Context(), name, since, nil, limit)
	if err != nil {
		h.log.Error("Failed to load entity mentions",
			logger.String("entity", name),
			logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load mentions"})
		return
	}

	c.JSON(http.StatusOK, MentionsResponse{
		Entity:   name,
		Mentions: toMentionResponses(mentions),
		Total:    len(mentions),
	})
}

// GetRecentSignals handles GET /api/v1/signals/recent
// Query params: type, since_hours, limit.
func (h *Handler) GetRecentSignals(c *gin.Context) {
	signalType := c.Query("type")
	sinceHours := clampHours(queryInt(c, "since_hours", defaultRecentHours))
	limit := queryInt(c, "limit", 50)

	since := time.Now().UTC().Add(-time.Duration(sinceHours) * time.Hour)

	sigs, err := h.signals.ListRecent(c.Request.Context(), since, signalType, limit)
	if err != nil {
		h.log.Error("Failed to load recent signals", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load signals"})
		return
	}

	c.JSON(http.StatusOK, RecentSignalsResponse{
		Signals: toSignalResponses(sigs),
		Total:   len(sigs),
	})
}

// GetStats handles GET /api/v1/stats
func (h *Handler) GetStats(c *gin.Context) {
	ctx := c.Request.Context()

	mentionCount, err := h.mentions.Count(ctx)
	if err != nil {
		h.log.Warn("Failed to count mentions", logger.Error(err))
	}
	signalCount, err := h.signals.Count(ctx)
	if err != nil {
		h.log.Warn("Failed to count signals", logger.Error(err))
	}
	rankingCount, err := h.rankings.Count(ctx)
	if err != nil {
		h.log.Warn("Failed to count rankings", logger.Error(err))
	}

	resp := StatsResponse{
		Mentions: mentionCount,
		Signals:  signalCount,
		Rankings: rankingCount,
	}
	if h.runs != nil {
		resp.PollerRunning = h.runs.IsRunning()
		resp.LastRun = h.runs.LastReport()
	}

	c.JSON(http.StatusOK, resp)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func clampHours(hours int) int {
	if hours <= 0 {
		return defaultRecentHours
	}
	if hours > maxWindowHours {
		return maxWindowHours
	}
	return hours
}
