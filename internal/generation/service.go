package generation

import "context"

// Call shapes, used for logging and error reporting.
const (
	OpSpec     = "spec"
	OpRecalc   = "recalc"
	OpCompare  = "compare"
	OpHeritage = "heritage"
	OpDemos    = "demos"
	OpHealth   = "health"
)

// Request is a single prompt sent to a provider. Schema, when set, asks the
// provider for structured JSON output conforming to it.
type Request struct {
	Op     string
	Prompt string
	Schema *Schema
}

// Link is a source surfaced by a search-grounded call.
type Link struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Grounded is the result of a search-grounded call: the model's text (JSON
// when the request carried a schema) and the web sources it cited.
type Grounded struct {
	Text  string
	Links []Link
}

// Service is the capability boundary to a hosted generative model. Providers
// return raw text; callers decode and validate it.
type Service interface {
	// Generate returns the model's JSON text for req.
	Generate(ctx context.Context, req Request) (string, error)
	// SearchGrounded runs req with web search enabled and returns the text
	// plus the cited links in provider order.
	SearchGrounded(ctx context.Context, req Request) (Grounded, error)
	// Name identifies the provider in logs.
	Name() string
}

// HealthChecker is implemented by providers that can verify credentials cheaply.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
