package preflight

import (
	"context"

	"ghostwood/internal/config"
	"ghostwood/internal/generation"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// CheckDirectories checks the data and log directories.
func CheckDirectories(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
}

// Run executes every check: directories, the history slot and, when a
// provider is supplied, its health call. A nil provider is reported as a
// failed check carrying the missing-key message.
func Run(ctx context.Context, cfg *config.Config, provider generation.HealthChecker) []Result {
	if cfg == nil {
		return nil
	}

	results := CheckDirectories(cfg)
	results = append(results, CheckHistory(ctx, cfg))

	name := "Generation provider (" + cfg.LLM.Provider + ")"
	if provider == nil {
		detail := "provider not configured"
		if err := cfg.RequireProviderKey(); err != nil {
			detail = err.Error()
		}
		results = append(results, Result{Name: name, Detail: detail})
		return results
	}
	results = append(results, CheckProvider(ctx, name, provider))
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}
