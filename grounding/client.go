package grounding

import (
	"context"
	"log/slog"
	"time"

	"github.com/c360studio/vibeshift/metric"
)

// DefaultTopK is the retrieval cap when the caller passes no limit.
const DefaultTopK = 5

// defaultRetrieveTimeout bounds how long a retrieval may hold up prompt
// assembly before grounding is skipped.
const defaultRetrieveTimeout = 2 * time.Second

// Client is the pipeline's view of the document store. It never returns
// an error: any store failure or timeout yields an empty result that is
// logged and counted, so grounding degrades silently.
type Client struct {
	store   Store
	logger  *slog.Logger
	metrics *metric.Recorder
	timeout time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metric.Recorder) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRetrieveTimeout sets the per-retrieval timeout.
func WithRetrieveTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient wraps a store in the best-effort retrieval contract.
func NewClient(store Store, opts ...ClientOption) *Client {
	c := &Client{
		store:   store,
		logger:  slog.Default(),
		timeout: defaultRetrieveTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Retrieve returns up to topK guidance documents for the query, ordered
// by relevance descending. Absence of grounding must not change
// correctness, so every failure path returns nil.
func (c *Client) Retrieve(ctx context.Context, query, platform, userID string, topK int) []Document {
	if c == nil || c.store == nil {
		return nil
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	docs, err := c.store.Retrieve(ctx, Query{
		Text:     query,
		Platform: platform,
		UserID:   userID,
		TopK:     topK,
	})
	if err != nil {
		c.logger.Warn("Grounding retrieval failed, continuing without grounding",
			"platform", platform,
			"error", err)
		c.metrics.GroundingFailure()
		return nil
	}

	if len(docs) > topK {
		docs = docs[:topK]
	}
	return docs
}
