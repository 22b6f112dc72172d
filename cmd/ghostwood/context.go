package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ghostwood/internal/config"
	"ghostwood/internal/generation"
	"ghostwood/internal/history"
	"ghostwood/internal/logging"
	"ghostwood/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

// cliLogger is the quiet logger used by one-shot commands: warnings and
// errors only, on stderr.
func (c *commandContext) cliLogger() *slog.Logger {
	format := "console"
	if cfg := c.configValue(); cfg != nil {
		format = cfg.Logging.Format
	}
	logger, err := logging.New(logging.Options{Level: "warn", Format: format})
	if err != nil {
		return logging.NewNop()
	}
	return logger
}

// withHistory opens the configured history store for the duration of fn.
// An unreadable slot is a hard error here; only the server degrades to an
// in-memory history.
func (c *commandContext) withHistory(ctx context.Context, fn func(*history.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	store, err := history.OpenFromConfig(ctx, cfg, c.cliLogger())
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return fmt.Errorf("open design history: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func (c *commandContext) provider(ctx context.Context) (generation.Service, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return services.NewProvider(ctx, cfg, c.cliLogger())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
