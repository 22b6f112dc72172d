// Package generation defines the provider-neutral boundary to hosted
// generative models.
//
// A Service turns a prompt, optionally paired with a JSON Schema, into raw
// text, or runs a search-grounded prompt that also returns cited links.
// Callers decode with DecodeJSON, which validates the payload against the
// schema before anything is applied. Failures are reported as
// GenerationError (customer-facing, retry eligible) or LookupError
// (background discovery, logged only).
package generation
