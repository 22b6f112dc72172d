package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"ghostwood/internal/generation"
)

const (
	defaultModel          = "gemini-3-flash-preview"
	defaultTimeout        = 60 * time.Second
	defaultRetryAttempts  = 3
	defaultRetryBaseDelay = 1 * time.Second
	defaultRetryMaxDelay  = 10 * time.Second

	// ProviderName identifies this backend in logs.
	ProviderName = "gemini"

	defaultSystemPrompt = "You are the bench engineer at a boutique hand-wound pickup workshop. " +
		"Answer with precise, physically plausible values."
)

// Config captures the settings required to talk to the Gemini API.
type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	SystemPrompt   string
	TimeoutSeconds int
	RetryAttempts  int
	HTTPClient     *http.Client
}

// Client implements generation.Service on top of the genai SDK.
type Client struct {
	models *genai.Models
	cfg    Config

	retryBaseDelay time.Duration
	retryMaxDelay  time.Duration
	sleeper        func(time.Duration)
}

var _ generation.Service = (*Client)(nil)

// Option customizes the client.
type Option func(*Client)

// WithRetryBackoff overrides the retry backoff delays.
func WithRetryBackoff(baseDelay, maxDelay time.Duration) Option {
	return func(c *Client) {
		c.retryBaseDelay = baseDelay
		c.retryMaxDelay = maxDelay
	}
}

// WithSleeper overrides how retry sleeps are performed.
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		c.sleeper = sleeper
	}
}

// New builds a Gemini API client. The API key is required; the SDK would
// otherwise fall back to the environment, which hides misconfiguration.
func New(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.Model = strings.TrimSpace(cfg.Model)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.SystemPrompt = strings.TrimSpace(cfg.SystemPrompt)
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key required")
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.RetryAttempts <= 0 {
		cfg.RetryAttempts = defaultRetryAttempts
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := defaultTimeout
		if cfg.TimeoutSeconds > 0 {
			timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}

	c := &Client{
		models:         client.Models,
		cfg:            cfg,
		retryBaseDelay: defaultRetryBaseDelay,
		retryMaxDelay:  defaultRetryMaxDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name identifies the provider.
func (c *Client) Name() string { return ProviderName }

// Generate asks for application/json output, constrained by req.Schema when set.
func (c *Client) Generate(ctx context.Context, req generation.Request) (string, error) {
	op := "gemini " + opName(req.Op)
	config := c.baseConfig()
	config.ResponseMIMEType = "application/json"
	if req.Schema != nil {
		config.ResponseSchema = toSchema(req.Schema)
	}
	resp, err := c.generate(ctx, op, req.Prompt, config)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("%s: empty content", op)
	}
	return text, nil
}

// SearchGrounded enables the Google Search tool and returns the grounding
// chunks' web sources in response order. A schema, when present, is
// requested the same way Generate requests it.
func (c *Client) SearchGrounded(ctx context.Context, req generation.Request) (generation.Grounded, error) {
	op := "gemini " + opName(req.Op) + " (grounded)"
	config := c.baseConfig()
	config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	if req.Schema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = toSchema(req.Schema)
	}
	resp, err := c.generate(ctx, op, req.Prompt, config)
	if err != nil {
		return generation.Grounded{}, err
	}
	return generation.Grounded{Text: strings.TrimSpace(resp.Text()), Links: groundingLinks(resp)}, nil
}

// HealthCheck issues a tiny request to verify the key and model.
func (c *Client) HealthCheck(ctx context.Context) error {
	content, err := c.Generate(ctx, generation.Request{
		Op:     generation.OpHealth,
		Prompt: `Respond with {"ok":true}`,
		Schema: generation.Object(generation.Prop("ok", &generation.Schema{Type: generation.TypeBoolean})),
	})
	if err != nil {
		return err
	}
	var parsed struct {
		OK bool `json:"ok"`
	}
	if err := generation.DecodeJSON(content, nil, &parsed); err != nil {
		return fmt.Errorf("gemini health: parse payload: %w", err)
	}
	if !parsed.OK {
		return errors.New("gemini health: unexpected response")
	}
	return nil
}

func (c *Client) baseConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.cfg.SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.4),
	}
}

func (c *Client) generate(ctx context.Context, op, prompt string, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, fmt.Errorf("%s: prompt required", op)
	}
	var lastErr error
	for attempt := 1; attempt <= c.cfg.RetryAttempts; attempt++ {
		resp, err := c.models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), config)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if !c.retryable(ctx, err) || attempt == c.cfg.RetryAttempts {
			break
		}
		if err := c.sleep(ctx, c.backoffDelay(attempt)); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

func (c *Client) retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusRequestTimeout ||
			apiErr.Code == http.StatusTooManyRequests ||
			apiErr.Code >= http.StatusInternalServerError
	}
	return false
}

func (c *Client) backoffDelay(attempt int) time.Duration {
	if c.retryBaseDelay <= 0 {
		return 0
	}
	delay := c.retryBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if c.retryMaxDelay > 0 && delay >= c.retryMaxDelay {
			return c.retryMaxDelay
		}
	}
	return delay
}

func (c *Client) sleep(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	if c.sleeper != nil {
		c.sleeper(delay)
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func opName(op string) string {
	if op == "" {
		return "generate"
	}
	return op
}
