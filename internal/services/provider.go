package services

import (
	"context"
	"log/slog"
	"time"

	"ghostwood/internal/config"
	"ghostwood/internal/generation"
	"ghostwood/internal/logging"
	"ghostwood/internal/services/gemini"
	"ghostwood/internal/services/llm"
)

// NewProvider constructs the provider selected by cfg.LLM.Provider, wrapped
// with call logging.
func NewProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (generation.Service, error) {
	if cfg == nil {
		return nil, Wrap(ErrConfiguration, "", "select provider", "config required", nil)
	}
	if err := cfg.RequireProviderKey(); err != nil {
		return nil, Wrap(ErrConfiguration, cfg.LLM.Provider, "select provider", "", err)
	}
	llmCfg := cfg.GetLLM()
	var svc generation.Service
	switch llmCfg.Provider {
	case config.ProviderGemini:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:         llmCfg.APIKey,
			Model:          llmCfg.Model,
			TimeoutSeconds: llmCfg.TimeoutSeconds,
			RetryAttempts:  llmCfg.RetryAttempts,
		})
		if err != nil {
			return nil, Wrap(ErrConfiguration, gemini.ProviderName, "new client", "", err)
		}
		svc = client
	default:
		svc = llm.NewClient(llm.Config{
			APIKey:         llmCfg.APIKey,
			BaseURL:        llmCfg.BaseURL,
			Model:          llmCfg.Model,
			Referer:        llmCfg.Referer,
			Title:          llmCfg.Title,
			TimeoutSeconds: llmCfg.TimeoutSeconds,
		}, llm.WithRetryMaxAttempts(llmCfg.RetryAttempts))
	}
	return WithLogging(svc, logger), nil
}

// Logged decorates a provider with per-call logging.
type Logged struct {
	next   generation.Service
	logger *slog.Logger
}

var _ generation.Service = (*Logged)(nil)

// WithLogging wraps svc so every call logs its shape, duration and outcome.
func WithLogging(svc generation.Service, logger *slog.Logger) *Logged {
	return &Logged{
		next:   svc,
		logger: logging.NewComponentLogger(logger, "generation").With(logging.String(logging.FieldProvider, svc.Name())),
	}
}

func (l *Logged) Name() string { return l.next.Name() }

func (l *Logged) Generate(ctx context.Context, req generation.Request) (string, error) {
	start := time.Now()
	out, err := l.next.Generate(ctx, req)
	l.record(ctx, req.Op, false, start, err)
	return out, err
}

func (l *Logged) SearchGrounded(ctx context.Context, req generation.Request) (generation.Grounded, error) {
	start := time.Now()
	out, err := l.next.SearchGrounded(ctx, req)
	l.record(ctx, req.Op, true, start, err, logging.Int("links", len(out.Links)))
	return out, err
}

// HealthCheck forwards to the wrapped provider when it supports one.
func (l *Logged) HealthCheck(ctx context.Context) error {
	hc, ok := l.next.(generation.HealthChecker)
	if !ok {
		return nil
	}
	return hc.HealthCheck(ctx)
}

func (l *Logged) record(ctx context.Context, op string, grounded bool, start time.Time, err error, extra ...logging.Attr) {
	attrs := []logging.Attr{
		logging.String(logging.FieldOp, op),
		logging.Bool("grounded", grounded),
		logging.Duration("elapsed", time.Since(start)),
	}
	attrs = append(attrs, extra...)
	logger := logging.WithContext(ctx, l.logger)
	if err != nil {
		logger.Warn("generation call failed", logging.Args(append(attrs, logging.Error(err))...)...)
		return
	}
	logger.Debug("generation call completed", logging.Args(attrs...)...)
}
