package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLLM(); err != nil {
		return err
	}
	if err := c.validateHistory(); err != nil {
		return err
	}
	if err := c.validateCheckout(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

// RequireProviderKey reports whether the active provider has credentials.
// Commands that only read history do not call it.
func (c *Config) RequireProviderKey() error {
	llm := c.GetLLM()
	if llm.APIKey != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/ghostwood/config.toml"
	}
	switch llm.Provider {
	case ProviderGemini:
		return fmt.Errorf("gemini.api_key is required. Set GEMINI_API_KEY env var or edit %s (create with 'ghostwood config init')", defaultPath)
	default:
		return fmt.Errorf("llm.api_key is required. Set GHOSTWOOD_LLM_API_KEY env var or edit %s (create with 'ghostwood config init')", defaultPath)
	}
}

func (c *Config) validateLLM() error {
	switch c.LLM.Provider {
	case ProviderOpenRouter, ProviderGemini:
	default:
		return fmt.Errorf("llm.provider: unsupported value %q (want %q or %q)", c.LLM.Provider, ProviderOpenRouter, ProviderGemini)
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return errors.New("llm.timeout_seconds must be positive")
	}
	if c.LLM.RetryAttempts <= 0 {
		return errors.New("llm.retry_attempts must be positive")
	}
	return nil
}

func (c *Config) validateHistory() error {
	switch c.History.Backend {
	case HistoryBackendSQLite, HistoryBackendFile:
	default:
		return fmt.Errorf("history.backend: unsupported value %q (want %q or %q)", c.History.Backend, HistoryBackendSQLite, HistoryBackendFile)
	}
	if c.History.MaxEntries < 1 || c.History.MaxEntries > defaultHistoryMaxEntries {
		return fmt.Errorf("history.max_entries must be between 1 and %d", defaultHistoryMaxEntries)
	}
	return nil
}

func (c *Config) validateCheckout() error {
	if c.Checkout.PriceCents < 0 {
		return errors.New("checkout.price_cents must not be negative")
	}
	if len(c.Checkout.Currency) != 3 {
		return fmt.Errorf("checkout.currency: expected ISO 4217 code, got %q", c.Checkout.Currency)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
