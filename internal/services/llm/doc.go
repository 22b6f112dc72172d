// Package llm provides the OpenRouter chat-completions provider for
// generation.Service.
//
// # Call Shapes
//
// Generate sends the prompt with a json_schema response_format when the
// request carries a schema (spec, recalculation, comparison) and json_object
// otherwise. SearchGrounded enables OpenRouter's web plugin and returns the
// url_citation annotations as grounding links (heritage, demos).
//
// # Configuration
//
// Requires api_key and model, optionally base_url, referer, title, timeout.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions and
// network timeouts with exponential backoff (base 1s, max 10s, 3 attempts by
// default), honouring Retry-After. Context cancellation aborts retries
// immediately.
package llm
