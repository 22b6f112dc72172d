// Package config loads, normalizes, and validates Ghostwood configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GHOSTWOOD_LLM_API_KEY and GEMINI_API_KEY. Provider credentials are not
// required at load time so history-only commands work offline; callers that
// generate call RequireProviderKey first.
package config
