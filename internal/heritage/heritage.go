package heritage

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"ghostwood/internal/generation"
	"ghostwood/internal/logging"
	"ghostwood/internal/prompts"
)

// Default link titles when the search result has none.
const (
	DefaultLinkTitle = "External Resource"
	DefaultDemoTitle = "Workshop Recording"
)

// Persona holds the brand-voiced UI strings.
type Persona struct {
	HeroTitle        string `json:"heroTitle"`
	HeroSubtitle     string `json:"heroSubtitle"`
	LoadingMessage   string `json:"loadingMessage"`
	SummaryTitle     string `json:"summaryTitle"`
	ManifestTitle    string `json:"manifestTitle"`
	ManifestSubtitle string `json:"manifestSubtitle"`
}

// DefaultPersona is shown until research completes, and whenever it fails.
func DefaultPersona() Persona {
	return Persona{
		HeroTitle:        "Tell us about your sound.",
		HeroSubtitle:     "No hype, just physics and intent.",
		LoadingMessage:   "Engineering magnetic parameters...",
		SummaryTitle:     "Build Sheet",
		ManifestTitle:    "Workshop Manifest",
		ManifestSubtitle: "A transparent guide to the materials, physics, and labor that define a Ghostwood build.",
	}
}

// Heritage is the researched brand identity.
type Heritage struct {
	Summary string            `json:"summary"`
	Links   []generation.Link `json:"links"`
	Persona Persona           `json:"persona"`
}

// Startup is the combined result of the startup lookups. Either half falls
// back independently.
type Startup struct {
	Heritage *Heritage         `json:"heritage,omitempty"`
	Demos    []generation.Link `json:"demos"`
}

// PersonaOrDefault returns the researched persona or the defaults.
func (s Startup) PersonaOrDefault() Persona {
	if s.Heritage == nil {
		return DefaultPersona()
	}
	return s.Heritage.Persona
}

// BrandContext returns the researched summary, empty when research failed.
func (s Startup) BrandContext() string {
	if s.Heritage == nil {
		return ""
	}
	return s.Heritage.Summary
}

// Options configures a Service.
type Options struct {
	Brand        string
	Query        string
	Channel      string
	DemoPatterns []string
	Prompts      *prompts.Library
	Logger       *slog.Logger
}

// Service runs the search-grounded brand lookups.
type Service struct {
	svc      generation.Service
	brand    string
	query    string
	channel  string
	patterns []string
	prompts  *prompts.Library
	logger   *slog.Logger
}

// New builds a Service over svc.
func New(svc generation.Service, opts Options) *Service {
	s := &Service{
		svc:     svc,
		brand:   strings.TrimSpace(opts.Brand),
		query:   strings.TrimSpace(opts.Query),
		channel: strings.TrimSpace(opts.Channel),
		prompts: opts.Prompts,
		logger:  logging.NewComponentLogger(opts.Logger, "heritage"),
	}
	if s.brand == "" {
		s.brand = "Ghostwood"
	}
	if s.query == "" {
		s.query = s.brand + " Musical Instrument Pickups"
	}
	if s.channel == "" {
		s.channel = "@catfishbisque"
	}
	for _, p := range opts.DemoPatterns {
		if p = strings.ToLower(strings.TrimSpace(p)); p != "" {
			s.patterns = append(s.patterns, p)
		}
	}
	if len(s.patterns) == 0 {
		s.patterns = []string{"youtube.com/watch", "youtube.com/shorts"}
	}
	if s.prompts == nil {
		s.prompts = prompts.Default()
	}
	return s
}

func heritageSchema() *generation.Schema {
	return generation.Object(
		generation.Prop("summary", generation.String()),
		generation.Prop("persona", generation.Object(
			generation.Prop("heroTitle", generation.String()),
			generation.Prop("heroSubtitle", generation.String()),
			generation.Prop("loadingMessage", generation.String()),
			generation.Prop("summaryTitle", generation.String()),
			generation.Prop("manifestTitle", generation.String()),
			generation.Prop("manifestSubtitle", generation.String()),
		)),
	)
}

// Heritage researches the brand and returns its summary, sources and
// persona strings. Failures are returned as *generation.LookupError.
func (s *Service) Heritage(ctx context.Context) (Heritage, error) {
	prompt, err := s.prompts.Render(prompts.Heritage, map[string]string{"Query": s.query})
	if err != nil {
		return Heritage{}, &generation.LookupError{Op: generation.OpHeritage, Err: err}
	}
	grounded, err := s.svc.SearchGrounded(ctx, generation.Request{
		Op:     generation.OpHeritage,
		Prompt: prompt,
		Schema: heritageSchema(),
	})
	if err != nil {
		return Heritage{}, &generation.LookupError{Op: generation.OpHeritage, Err: err}
	}
	var parsed struct {
		Summary string  `json:"summary"`
		Persona Persona `json:"persona"`
	}
	if err := generation.DecodeJSON(grounded.Text, heritageSchema(), &parsed); err != nil {
		return Heritage{}, &generation.LookupError{Op: generation.OpHeritage, Err: err}
	}
	links := make([]generation.Link, 0, len(grounded.Links))
	for _, link := range grounded.Links {
		if link.Title == "" {
			link.Title = DefaultLinkTitle
		}
		links = append(links, link)
	}
	return Heritage{Summary: parsed.Summary, Links: links, Persona: parsed.Persona}, nil
}

// Demos searches the shop's video channel and returns playable demo links.
func (s *Service) Demos(ctx context.Context) ([]generation.Link, error) {
	prompt, err := s.prompts.Render(prompts.Demos, map[string]string{"Channel": s.channel, "Brand": s.brand})
	if err != nil {
		return nil, &generation.LookupError{Op: generation.OpDemos, Err: err}
	}
	grounded, err := s.svc.SearchGrounded(ctx, generation.Request{Op: generation.OpDemos, Prompt: prompt})
	if err != nil {
		return nil, &generation.LookupError{Op: generation.OpDemos, Err: err}
	}
	return FilterDemos(grounded.Links, s.patterns), nil
}

// FilterDemos keeps links whose URI contains one of patterns and defaults
// missing titles. Channel chrome whose title mentions "about" or "subscribe"
// is dropped per entry, so a chrome copy never hides a real link to the
// same URI. Among the remaining duplicates the first wins.
func FilterDemos(links []generation.Link, patterns []string) []generation.Link {
	seen := make(map[string]struct{}, len(links))
	out := make([]generation.Link, 0, len(links))
	for _, link := range links {
		if !matchesAny(link.URI, patterns) {
			continue
		}
		if link.Title == "" {
			link.Title = DefaultDemoTitle
		}
		title := strings.ToLower(link.Title)
		if strings.Contains(title, "about") || strings.Contains(title, "subscribe") {
			continue
		}
		if _, dup := seen[link.URI]; dup {
			continue
		}
		seen[link.URI] = struct{}{}
		out = append(out, link)
	}
	return out
}

func matchesAny(uri string, patterns []string) bool {
	lower := strings.ToLower(uri)
	for _, p := range patterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// LoadStartup runs both lookups concurrently. A failure in one never blocks
// or cancels the other; each is logged and replaced by its fallback.
func (s *Service) LoadStartup(ctx context.Context) Startup {
	var result Startup
	var g errgroup.Group
	g.Go(func() error {
		h, err := s.Heritage(ctx)
		if err != nil {
			s.logger.Warn("brand heritage lookup failed", logging.Error(err))
			return nil
		}
		result.Heritage = &h
		return nil
	})
	g.Go(func() error {
		demos, err := s.Demos(ctx)
		if err != nil {
			s.logger.Warn("demo lookup failed", logging.Error(err))
			return nil
		}
		result.Demos = demos
		return nil
	})
	_ = g.Wait()
	if result.Demos == nil {
		result.Demos = []generation.Link{}
	}
	s.logger.Info("startup lookups finished",
		logging.Bool("heritage", result.Heritage != nil),
		logging.Int("demos", len(result.Demos)),
	)
	return result
}
