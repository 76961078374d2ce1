// Package events publishes detected-signal events for downstream consumers
// (UI badges, notification workers).
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/pressradar/signal-engine/internal/config"
	"github.com/pressradar/signal-engine/internal/domain"
	"github.com/pressradar/signal-engine/internal/logger"
)

// SignalEvent is the wire payload published per newly detected signal.
// Re-detected signals that hit the idempotent upsert are never re-published.
type SignalEvent struct {
	ArticleID  string  `json:"article_id"`
	SignalType string  `json:"signal_type"`
	Label      string  `json:"label"`
	EntityName string  `json:"entity_name,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Publisher publishes signal events to a Redis pub/sub channel.
type Publisher struct {
	client  *redis.Client
	channel string
	log     logger.Logger
}

// NewPublisher creates a publisher. Returns nil when redis is disabled;
// callers treat a nil publisher as a no-op.
func NewPublisher(cfg config.RedisConfig, log logger.Logger) (*Publisher, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.URL,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	return &Publisher{
		client:  client,
		channel: cfg.SignalChannel,
		log:     log,
	}, nil
}

// PublishSignal sends one signal event to the channel.
func (p *Publisher) PublishSignal(ctx context.Context, signal *domain.Signal) error {
	if p == nil || p.client == nil {
		return nil
	}

	event := SignalEvent{
		ArticleID:  signal.ArticleID,
		SignalType: signal.SignalType,
		Label:      signal.Label,
		EntityName: signal.EntityName,
		Confidence: signal.Confidence,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal signal event: %w", err)
	}

	if err := p.client.Publish(ctx, p.channel, payload).Err(); err != nil {
		p.log.Error("Failed to publish signal event",
			logger.String("signal_type", signal.SignalType),
			logger.String("article_id", signal.ArticleID),
			logger.Error(err),
		)
		return fmt.Errorf("publish signal event: %w", err)
	}

	p.log.Debug("Published signal event",
		logger.String("signal_type", signal.SignalType),
		logger.String("article_id", signal.ArticleID),
	)

	return nil
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	if p == nil || p.client == nil {
		return nil
	}
	return p.client.Close()
}
