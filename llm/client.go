// Package llm provides a provider-agnostic client for chat-completion
// services plus helpers for decoding the JSON payloads they return.
//
// The client performs a single attempt against a single configured
// endpoint. Resilience lives one layer up: the rewrite orchestrator and
// the ranker walk an ordered model chain and treat every failure here as
// a signal to advance to the next tier.
package llm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/c360studio/vibeshift/model"
)

// maxResponseSize limits the response body to prevent memory exhaustion.
const maxResponseSize = 10 * 1024 * 1024 // 10MB

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`    // "system", "user", or "assistant"
	Content string `json:"content"` // Message content
}

// Request defines a completion request against one configured endpoint.
type Request struct {
	// Model is the endpoint name in the registry (not the provider's
	// model identifier; the endpoint config carries that).
	Model string

	// Messages is the chat history to send.
	Messages []Message

	// Temperature controls randomness. nil uses endpoint default, 0 is
	// deterministic.
	Temperature *float64

	// MaxTokens limits response length. 0 uses endpoint default.
	MaxTokens int
}

// TokenUsage represents token consumption details for a call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response contains the completion result.
type Response struct {
	// Content is the generated text.
	Content string

	// Model is the actual model that was used.
	Model string

	// Usage contains token consumption metrics when the provider
	// reports them.
	Usage TokenUsage

	// FinishReason indicates why generation stopped.
	FinishReason string
}

// Completer is the capability the pipeline stages depend on. *Client
// implements it; tests substitute testutil.MockCompleter.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Client resolves endpoint names through a model registry and executes
// one HTTP request per Complete call.
type Client struct {
	registry   *model.Registry
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(client *Client) {
		client.logger = logger
	}
}

// NewClient creates a new client backed by the given model registry.
func NewClient(registry *model.Registry, opts ...ClientOption) *Client {
	c := &Client{
		registry: registry,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Complete sends a single completion request to the named endpoint.
// There is no retry: the caller's tier cascade is the recovery path.
// All transport, auth, and HTTP-status failures come back wrapped in
// *ProviderError.
func (c *Client) Complete(ctx context.Context, req Request) (*Response, error) {
	if req.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("at least one message is required")
	}

	ep := c.registry.GetEndpoint(req.Model)
	if ep == nil {
		return nil, &ProviderError{Model: req.Model, Err: fmt.Errorf("no endpoint configured")}
	}

	provider := GetProvider(ep.Provider)
	if provider == nil {
		return nil, &ProviderError{Provider: ep.Provider, Model: req.Model, Err: fmt.Errorf("unknown provider")}
	}

	url := provider.BuildURL(ep.URL, ep.Model)

	body, err := provider.BuildRequestBody(ep.Model, req.Messages, req.Temperature, req.MaxTokens)
	if err != nil {
		return nil, &ProviderError{Provider: ep.Provider, Model: req.Model, Err: fmt.Errorf("build request body: %w", err)}
	}

	c.logger.Debug("Sending completion request",
		"provider", ep.Provider,
		"model", ep.Model,
		"url", url,
		"messages", len(req.Messages))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: ep.Provider, Model: req.Model, Err: fmt.Errorf("create HTTP request: %w", err)}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	provider.SetHeaders(httpReq)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &ProviderError{Provider: ep.Provider, Model: req.Model, Err: fmt.Errorf("HTTP request failed: %w", err)}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, &ProviderError{Provider: ep.Provider, Model: req.Model, Err: fmt.Errorf("read response body: %w", err)}
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			Provider:   ep.Provider,
			Model:      req.Model,
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("API error (status %d): %s", httpResp.StatusCode, previewBody(respBody)),
		}
	}

	resp, err := provider.ParseResponse(respBody, ep.Model)
	if err != nil {
		return nil, &ProviderError{Provider: ep.Provider, Model: req.Model, Err: err}
	}
	return resp, nil
}

// previewBody truncates an error body for log-safe error messages.
func previewBody(body []byte) string {
	s := string(body)
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
