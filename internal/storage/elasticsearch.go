package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"

	"github.com/pressradar/signal-engine/internal/config"
	"github.com/pressradar/signal-engine/internal/domain"
)

// ArticleStore reads articles out of the ingestion pipeline's Elasticsearch
// index and flips their signal status once a batch run has processed them.
// The ingestion collaborator owns the article documents; this store only
// touches the signal_status and signal_processed_at fields.
type ArticleStore struct {
	client *es.Client
	index  string
}

// NewClient builds an Elasticsearch client from config and verifies the
// connection with a ping.
func NewClient(ctx context.Context, cfg config.ElasticsearchConfig) (*es.Client, error) {
	url := cfg.URL
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "http://" + url
	}

	client, err := es.NewClient(es.Config{
		Addresses: []string{url},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &http.Transport{ResponseHeaderTimeout: cfg.Timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	res, err := client.Ping(client.Ping.WithContext(pingCtx))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error response from Elasticsearch: %s", res.String())
	}

	return client, nil
}

// NewArticleStore creates an article store over the given index.
func NewArticleStore(client *es.Client, index string) *ArticleStore {
	return &ArticleStore{client: client, index: index}
}

// QueryPendingArticles returns up to batchSize articles awaiting signal
// processing, oldest first.
func (s *ArticleStore) QueryPendingArticles(ctx context.Context, batchSize int) ([]*domain.Article, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"should": []map[string]any{
					{"term": map[string]any{"signal_status": domain.SignalStatusPending}},
					{"bool": map[string]any{
						"must_not": map[string]any{"exists": map[string]any{"field": "signal_status"}},
					}},
				},
				"minimum_should_match": 1,
			},
		},
		"size": batchSize,
		"sort": []map[string]any{
			{"published_at": map[string]any{"order": "asc"}},
		},
	}

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(queryBytes)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("error searching: %s", res.String())
	}

	var searchResult struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source domain.Article `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}

	if err := json.NewDecoder(res.Body).Decode(&searchResult); err != nil {
		return nil, fmt.Errorf("error decoding response: %w", err)
	}

	articles := make([]*domain.Article, 0, len(searchResult.Hits.Hits))
	for _, hit := range searchResult.Hits.Hits {
		article := hit.Source
		if article.ID == "" {
			article.ID = hit.ID
		}
		articles = append(articles, &article)
	}

	return articles, nil
}

// MarkProcessed updates signal_status on the given article documents.
// Failures on individual documents are collected, not fatal: the next run
// re-picks the article and every downstream write is an upsert.
func (s *ArticleStore) MarkProcessed(ctx context.Context, articleIDs []string, processedAt time.Time) error {
	update := map[string]any{
		"doc": map[string]any{
			"signal_status":       domain.SignalStatusProcessed,
			"signal_processed_at": processedAt,
		},
	}

	updateBytes, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("failed to marshal update: %w", err)
	}

	var lastErr error
	failed := 0
	for _, id := range articleIDs {
		res, err := s.client.Update(
			s.index,
			id,
			bytes.NewReader(updateBytes),
			s.client.Update.WithContext(ctx),
		)
		if err != nil {
			failed++
			lastErr = err
			continue
		}
		if res.IsError() {
			failed++
			lastErr = fmt.Errorf("error updating document %s: %s", id, res.String())
		}
		res.Body.Close()
	}

	if lastErr != nil {
		return fmt.Errorf("failed to mark %d of %d articles processed: %w", failed, len(articleIDs), lastErr)
	}
	return nil
}

// CountRecentFilings counts filing documents from one company since the
// given time. Filings are articles carrying a document_type, so the count
// lives here rather than in the mention history.
func (s *ArticleStore) CountRecentFilings(ctx context.Context, company string, since time.Time) (int, error) {
	query := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{
				"filter": []map[string]any{
					{"exists": map[string]any{"field": "document_type"}},
					{"range": map[string]any{"published_at": map[string]any{"gte": since}}},
				},
				"must": []map[string]any{
					{"match_phrase": map[string]any{"title": company}},
				},
			},
		},
	}

	queryBytes, err := json.Marshal(query)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.client.Count(
		s.client.Count.WithContext(ctx),
		s.client.Count.WithIndex(s.index),
		s.client.Count.WithBody(bytes.NewReader(queryBytes)),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to count filings: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, fmt.Errorf("error counting filings: %s", res.String())
	}

	var result struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return 0, fmt.Errorf("error decoding count response: %w", err)
	}

	return result.Count, nil
}

// TestConnection verifies the cluster is reachable.
func (s *ArticleStore) TestConnection(ctx context.Context) error {
	res, err := s.client.Info(s.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to connect to Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("error response from Elasticsearch: %s", res.String())
	}

	return nil
}
