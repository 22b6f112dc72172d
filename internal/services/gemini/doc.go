// Package gemini provides the Google Gemini provider for generation.Service
// using the google.golang.org/genai SDK.
//
// Generate requests application/json output with the translated response
// schema. SearchGrounded attaches the Google Search tool and returns the web
// sources from the grounding metadata. Transient API errors (408, 429, 5xx)
// are retried with exponential backoff.
package gemini
