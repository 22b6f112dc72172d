package specgen

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"ghostwood/internal/catalog"
	"ghostwood/internal/generation"
	"ghostwood/internal/intake"
	"ghostwood/internal/logging"
	"ghostwood/internal/pickup"
	"ghostwood/internal/prompts"
)

// Options configures a Generator.
type Options struct {
	// Brand names the shop in prompts.
	Brand string
	// FallbackContext is used when no researched brand context is available.
	FallbackContext string
	Prompts         *prompts.Library
	Logger          *slog.Logger
}

// Generator turns intakes into pickup specs and recalculates specs after a
// manual adjustment.
type Generator struct {
	svc      generation.Service
	brand    string
	fallback string
	prompts  *prompts.Library
	logger   *slog.Logger
}

const (
	defaultBrand   = "Ghostwood"
	defaultContext = "Boutique hand-wound builder focusing on clarity and physics."
)

// New builds a Generator over svc.
func New(svc generation.Service, opts Options) *Generator {
	g := &Generator{
		svc:      svc,
		brand:    strings.TrimSpace(opts.Brand),
		fallback: strings.TrimSpace(opts.FallbackContext),
		prompts:  opts.Prompts,
		logger:   logging.NewComponentLogger(opts.Logger, "specgen"),
	}
	if g.brand == "" {
		g.brand = defaultBrand
	}
	if g.fallback == "" {
		g.fallback = defaultContext
	}
	if g.prompts == nil {
		g.prompts = prompts.Default()
	}
	return g
}

type specPrompt struct {
	Intake       intake.Record
	Brand        string
	BrandContext string
	Magnets      []string
}

type recalcPrompt struct {
	Spec   pickup.Spec
	Intake intake.Record
	Rhodes bool
}

// Generate asks the provider for a spec matching rec. brandContext is the
// researched brand summary; when blank the configured fallback is used.
// Any failure, including a payload that breaks the schema or the category
// rules, is returned as a *generation.GenerationError.
func (g *Generator) Generate(ctx context.Context, rec intake.Record, brandContext string) (pickup.Spec, error) {
	rec = rec.Normalized()
	category := rec.Category
	name := prompts.SpecGuitar
	if category.IsRhodes() {
		name = prompts.SpecRhodes
	}
	if strings.TrimSpace(brandContext) == "" {
		brandContext = g.fallback
	}
	prompt, err := g.prompts.Render(name, specPrompt{
		Intake:       rec,
		Brand:        g.brand,
		BrandContext: strings.TrimSpace(brandContext),
		Magnets:      catalog.MagnetTypes.Labels(),
	})
	if err != nil {
		return pickup.Spec{}, generation.Fail(generation.OpSpec, err)
	}
	return g.request(ctx, generation.OpSpec, prompt, category)
}

// Recalculate asks the provider to refresh the derived values of spec
// (resistance, wind count, frequency response) after a manual adjustment.
func (g *Generator) Recalculate(ctx context.Context, spec pickup.Spec, rec intake.Record) (pickup.Spec, error) {
	rec = rec.Normalized()
	prompt, err := g.prompts.Render(prompts.Recalc, recalcPrompt{
		Spec:   spec,
		Intake: rec,
		Rhodes: rec.Category.IsRhodes(),
	})
	if err != nil {
		return pickup.Spec{}, generation.Fail(generation.OpRecalc, err)
	}
	return g.request(ctx, generation.OpRecalc, prompt, rec.Category)
}

func (g *Generator) request(ctx context.Context, op, prompt string, category catalog.Category) (pickup.Spec, error) {
	if g.svc == nil {
		return pickup.Spec{}, generation.Fail(op, errors.New("no generation provider configured"))
	}
	logger := logging.WithContext(ctx, g.logger).With(
		logging.String(logging.FieldOp, op),
		logging.String(logging.FieldCategory, string(category)),
		logging.String(logging.FieldProvider, g.svc.Name()),
	)
	content, err := g.svc.Generate(ctx, generation.Request{
		Op:     op,
		Prompt: prompt,
		Schema: pickup.SchemaFor(category),
	})
	if err != nil {
		logger.Warn("generation request failed", logging.Error(err))
		return pickup.Spec{}, generation.Fail(op, err)
	}
	spec, err := pickup.Decode(content, category)
	if err != nil {
		logger.Warn("generated spec rejected",
			logging.Error(err),
			logging.String("response_snippet", generation.Snippet(content)),
		)
		return pickup.Spec{}, generation.Fail(op, err)
	}
	logger.Debug("spec generated",
		logging.String("type", spec.Type),
		logging.String("dc_resistance", spec.DCResistance),
	)
	return spec, nil
}
