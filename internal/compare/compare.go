package compare

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"ghostwood/internal/design"
	"ghostwood/internal/generation"
	"ghostwood/internal/logging"
	"ghostwood/internal/prompts"
)

// Row is one line of the side-by-side table.
type Row struct {
	Label string `json:"label"`
	A     string `json:"a"`
	B     string `json:"b"`
}

// Differs reports whether the two sides disagree.
func (r Row) Differs() bool { return r.A != r.B }

// Table lays two designs side by side. It is computed locally and never
// depends on the analysis call.
func Table(a, b design.Final) []Row {
	return []Row{
		{Label: "Type", A: a.Pickup.Type, B: b.Pickup.Type},
		{Label: "Magnet", A: a.Pickup.MagnetType, B: b.Pickup.MagnetType},
		{Label: "Wind Style", A: a.Pickup.WindStyle, B: b.Pickup.WindStyle},
		{Label: "Resistance", A: a.Pickup.DCResistance, B: b.Pickup.DCResistance},
	}
}

// Analysis is the generated tonal comparison.
type Analysis struct {
	TonalDifference   string `json:"tonalDifference"`
	PlayingExperience string `json:"playingExperience"`
	Recommendation    string `json:"recommendation"`
}

func analysisSchema() *generation.Schema {
	return generation.Object(
		generation.Prop("tonalDifference", generation.String()),
		generation.Prop("playingExperience", generation.String()),
		generation.Prop("recommendation", generation.String()),
	)
}

// Engine produces generated comparisons.
type Engine struct {
	svc     generation.Service
	brand   string
	prompts *prompts.Library
	logger  *slog.Logger
}

// NewEngine builds an Engine over svc. A nil lib uses the embedded prompts.
func NewEngine(svc generation.Service, brand string, lib *prompts.Library, logger *slog.Logger) *Engine {
	if strings.TrimSpace(brand) == "" {
		brand = "Ghostwood"
	}
	if lib == nil {
		lib = prompts.Default()
	}
	return &Engine{svc: svc, brand: brand, prompts: lib, logger: logging.NewComponentLogger(logger, "compare")}
}

// Analyze explains the tonal difference between a and b. Failures are
// returned as *generation.GenerationError.
func (e *Engine) Analyze(ctx context.Context, a, b design.Final) (Analysis, error) {
	if e.svc == nil {
		return Analysis{}, generation.Fail(generation.OpCompare, errors.New("no generation provider configured"))
	}
	prompt, err := e.prompts.Render(prompts.Compare, map[string]any{
		"Brand": e.brand,
		"A":     a.Pickup,
		"B":     b.Pickup,
	})
	if err != nil {
		return Analysis{}, generation.Fail(generation.OpCompare, err)
	}
	content, err := e.svc.Generate(ctx, generation.Request{
		Op:     generation.OpCompare,
		Prompt: prompt,
		Schema: analysisSchema(),
	})
	if err != nil {
		e.logger.Warn("comparison request failed",
			logging.String("design_a", a.ID),
			logging.String("design_b", b.ID),
			logging.Error(err),
		)
		return Analysis{}, generation.Fail(generation.OpCompare, err)
	}
	var analysis Analysis
	if err := generation.DecodeJSON(content, analysisSchema(), &analysis); err != nil {
		e.logger.Warn("comparison response rejected", logging.Error(err))
		return Analysis{}, generation.Fail(generation.OpCompare, err)
	}
	return analysis, nil
}
