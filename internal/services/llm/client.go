package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ghostwood/internal/generation"
)

const (
	defaultHTTPTimeout    = 60 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryAttempts  = 3
	defaultBaseURL        = "https://openrouter.ai/api/v1/chat/completions"

	// ProviderName identifies this backend in logs.
	ProviderName = "openrouter"

	defaultSystemPrompt = "You are the bench engineer at a boutique hand-wound pickup workshop. " +
		"Answer with precise, physically plausible values. When a response schema is supplied, respond with JSON only."
)

// Config captures the runtime settings required to talk to OpenRouter.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	SystemPrompt   string
}

// Client wraps the OpenRouter chat completion API and implements
// generation.Service.
type Client struct {
	cfg        Config
	httpClient *http.Client

	retryMaxAttempts int
	retryBaseDelay   time.Duration
	retryMaxDelay    time.Duration
	sleeper          func(time.Duration)
}

var _ generation.Service = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithRetryMaxAttempts overrides the default retry count (defaults to 3).
func WithRetryMaxAttempts(attempts int) Option {
	return func(c *Client) {
		c.retryMaxAttempts = attempts
	}
}

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed (useful for tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// NewClient constructs a client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg: Config{
			APIKey:         strings.TrimSpace(cfg.APIKey),
			BaseURL:        strings.TrimSpace(cfg.BaseURL),
			Model:          strings.TrimSpace(cfg.Model),
			Referer:        strings.TrimSpace(cfg.Referer),
			Title:          strings.TrimSpace(cfg.Title),
			TimeoutSeconds: cfg.TimeoutSeconds,
			SystemPrompt:   strings.TrimSpace(cfg.SystemPrompt),
		},
		httpClient:       &http.Client{Timeout: timeout},
		retryMaxAttempts: defaultRetryAttempts,
		retryBaseDelay:   defaultRetryBaseDelay,
		retryMaxDelay:    defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.cfg.BaseURL == "" {
		client.cfg.BaseURL = defaultBaseURL
	}
	if client.cfg.SystemPrompt == "" {
		client.cfg.SystemPrompt = defaultSystemPrompt
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Name identifies the provider.
func (c *Client) Name() string { return ProviderName }

// Generate issues a chat completion for req. With a schema the request asks
// for json_schema structured output; without one it asks for a JSON object.
func (c *Client) Generate(ctx context.Context, req generation.Request) (string, error) {
	op := "openrouter " + opName(req.Op)
	payload, err := c.buildPayload(req, op)
	if err != nil {
		return "", err
	}
	if payload.ResponseFormat == nil {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}
	content, err := c.completionWithRetry(ctx, payload, op)
	if err != nil {
		return "", err
	}
	return content.Text, nil
}

// SearchGrounded issues the request with the web search plugin enabled and
// returns the cited URLs from the message annotations.
func (c *Client) SearchGrounded(ctx context.Context, req generation.Request) (generation.Grounded, error) {
	op := "openrouter " + opName(req.Op) + " (grounded)"
	payload, err := c.buildPayload(req, op)
	if err != nil {
		return generation.Grounded{}, err
	}
	payload.Plugins = []plugin{{ID: "web"}}
	content, err := c.completionWithRetry(ctx, payload, op)
	if err != nil {
		return generation.Grounded{}, err
	}
	return generation.Grounded{Text: content.Text, Links: content.Links}, nil
}

// HealthCheck issues a fast ping to verify the API key and model are usable.
func (c *Client) HealthCheck(ctx context.Context) error {
	payload, err := c.buildPayload(generation.Request{
		Op:     generation.OpHealth,
		Prompt: `Respond with {"ok":true}`,
	}, "openrouter health")
	if err != nil {
		return err
	}
	payload.ResponseFormat = &responseFormat{Type: "json_object"}
	content, err := c.completionWithRetry(ctx, payload, "openrouter health")
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := generation.DecodeJSON(content.Text, nil, &parsed); err != nil {
		return fmt.Errorf("openrouter health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("openrouter health: unexpected response")
	}
	return nil
}

func (c *Client) buildPayload(req generation.Request, op string) (chatCompletionRequest, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return chatCompletionRequest{}, fmt.Errorf("%s: prompt required", op)
	}
	if c.cfg.APIKey == "" {
		return chatCompletionRequest{}, fmt.Errorf("%s: api key required", op)
	}
	payload := chatCompletionRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: c.cfg.SystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.4,
	}
	if req.Schema != nil {
		payload.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   schemaName(req.Op),
				Strict: false,
				Schema: req.Schema,
			},
		}
	}
	return payload, nil
}

func opName(op string) string {
	if op == "" {
		return "complete"
	}
	return op
}

func schemaName(op string) string {
	return "ghostwood_" + strings.ReplaceAll(opName(op), "-", "_")
}
