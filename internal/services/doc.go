// Package services builds the generation provider named by the config and
// carries the error markers shared by provider wiring.
//
// NewProvider selects OpenRouter (services/llm) or Gemini (services/gemini)
// and wraps the result with call logging. Provider packages never import
// this one.
package services
