package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"ghostwood/internal/compare"
	"ghostwood/internal/design"
	"ghostwood/internal/generation"
	"ghostwood/internal/intake"
	"ghostwood/internal/logging"
	"ghostwood/internal/pickup"
)

// SpecGenerator produces and recalculates pickup specs.
type SpecGenerator interface {
	Generate(ctx context.Context, rec intake.Record, brandContext string) (pickup.Spec, error)
	Recalculate(ctx context.Context, spec pickup.Spec, rec intake.Record) (pickup.Spec, error)
}

// Analyzer explains the difference between two designs.
type Analyzer interface {
	Analyze(ctx context.Context, a, b design.Final) (compare.Analysis, error)
}

// History is the saved design list the controller reads and writes.
type History interface {
	Save(ctx context.Context, d design.Final) error
	Find(id string) (design.Final, error)
}

// Deps wires a Controller.
type Deps struct {
	Generator SpecGenerator
	Analyzer  Analyzer
	History   History
	// BrandContext returns the researched brand summary; it may return "".
	BrandContext func() string
	Factory      design.Factory
	Pricing      Pricing
	Logger       *slog.Logger
}

// Comparison is the state of the comparison view. The table is always
// present; the analysis arrives separately and may fail on its own.
type Comparison struct {
	A               string            `json:"a"`
	B               string            `json:"b"`
	Table           []compare.Row     `json:"table"`
	AnalysisLoading bool              `json:"analysisLoading"`
	Analysis        *compare.Analysis `json:"analysis,omitempty"`
	AnalysisError   string            `json:"analysisError,omitempty"`
}

// Snapshot is a copy of the controller state.
type Snapshot struct {
	Step         Step           `json:"step"`
	View         View           `json:"view"`
	Draft        intake.Record  `json:"draft"`
	Intake       *intake.Record `json:"intake,omitempty"`
	Spec         *pickup.Spec   `json:"spec,omitempty"`
	Design       *design.Final  `json:"design,omitempty"`
	LeadTimeDays int            `json:"leadTimeDays,omitempty"`
	Loading      bool           `json:"loading"`
	Updating     bool           `json:"updating"`
	Error        string         `json:"error,omitempty"`
	Selected     []string       `json:"selected"`
	Comparison   *Comparison    `json:"comparison,omitempty"`
	Checkout     *CheckoutState `json:"checkout,omitempty"`
}

// Controller is the per-session wizard state machine. All methods are safe
// for concurrent use; state changes are serialized, while provider calls run
// outside the lock so the optimistic state stays observable.
type Controller struct {
	mu   sync.Mutex
	deps Deps

	step     Step
	view     View
	draft    intake.Record
	intake   *intake.Record
	spec     *pickup.Spec
	current  *design.Final
	loading  bool
	updating int
	errMsg   string

	selection  compare.Selection
	comparison *Comparison
	checkout   *CheckoutState

	// epoch changes whenever the working spec is replaced wholesale, so that
	// responses for an abandoned spec are dropped.
	epoch  uint64
	logger *slog.Logger
}

// New returns a controller at Discovery with a default intake draft.
func New(deps Deps) *Controller {
	return &Controller{
		deps:   deps,
		step:   Discovery,
		view:   ViewWizard,
		draft:  intake.New(),
		logger: logging.NewComponentLogger(deps.Logger, "wizard"),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	snap := Snapshot{
		Step:     c.step,
		View:     c.view,
		Draft:    c.draft.Clone(),
		Loading:  c.loading,
		Updating: c.updating > 0,
		Error:    c.errMsg,
		Selected: c.selection.IDs(),
	}
	if snap.Selected == nil {
		snap.Selected = []string{}
	}
	if c.intake != nil {
		rec := c.intake.Clone()
		snap.Intake = &rec
	}
	if c.spec != nil {
		spec := c.spec.Clone()
		snap.Spec = &spec
	}
	if c.current != nil {
		d := c.current.Clone()
		snap.Design = &d
		snap.LeadTimeDays = d.Intake.EffectiveCategory().LeadTimeDays()
	}
	if c.comparison != nil {
		cmp := *c.comparison
		snap.Comparison = &cmp
	}
	if c.checkout != nil {
		co := *c.checkout
		snap.Checkout = &co
	}
	return snap
}

// UpdateDraft replaces the intake draft being edited at Discovery.
func (c *Controller) UpdateDraft(rec intake.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != Discovery {
		return transitionErr("update intake", c.step, c.view)
	}
	if !rec.Category.Valid() {
		rec.Category = rec.EffectiveCategory()
	}
	c.draft = rec.Clone()
	return nil
}

// Draft returns a copy of the intake draft.
func (c *Controller) Draft() intake.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft.Clone()
}

// EditDraft applies fn to the draft at Discovery.
func (c *Controller) EditDraft(fn func(*intake.Record)) (intake.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != Discovery {
		return intake.Record{}, transitionErr("update intake", c.step, c.view)
	}
	fn(&c.draft)
	return c.draft.Clone(), nil
}

// CompleteIntake validates the draft and moves to Engineering. An intake
// that is not Ready is refused with ErrIntakeIncomplete and the step does
// not change.
func (c *Controller) CompleteIntake() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != Discovery || c.view != ViewWizard {
		return transitionErr("complete intake", c.step, c.view)
	}
	if !c.draft.Ready() {
		return ErrIntakeIncomplete
	}
	rec := c.draft.Normalized()
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrIntakeIncomplete, err)
	}
	c.intake = &rec
	c.spec = nil
	c.current = nil
	c.errMsg = ""
	c.epoch++
	c.step = Engineering
	c.logger.Info("intake completed", logging.String(logging.FieldCategory, string(rec.Category)))
	return nil
}

// Generate requests a spec for the completed intake. On failure the busy
// message is recorded for display, nothing is applied, and the error is
// returned as a *generation.GenerationError.
func (c *Controller) Generate(ctx context.Context) (pickup.Spec, error) {
	c.mu.Lock()
	if c.step != Engineering || c.intake == nil {
		err := transitionErr("generate", c.step, c.view)
		c.mu.Unlock()
		return pickup.Spec{}, err
	}
	if c.loading {
		c.mu.Unlock()
		return pickup.Spec{}, transitionErr("generate while generating", c.step, c.view)
	}
	rec := c.intake.Clone()
	c.loading = true
	c.errMsg = ""
	c.epoch++
	epoch := c.epoch
	c.mu.Unlock()

	brandContext := ""
	if c.deps.BrandContext != nil {
		brandContext = c.deps.BrandContext()
	}
	var spec pickup.Spec
	var err error
	if c.deps.Generator == nil {
		err = generation.Fail(generation.OpSpec, errors.New("no generator configured"))
	} else {
		spec, err = c.deps.Generator.Generate(ctx, rec, brandContext)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return pickup.Spec{}, transitionErr("generate (superseded)", c.step, c.view)
	}
	c.loading = false
	if err != nil {
		c.errMsg = generation.BusyMessage
		c.logger.Warn("spec generation failed", logging.Error(err))
		return pickup.Spec{}, generation.Fail(generation.OpSpec, err)
	}
	c.spec = &spec
	return spec.Clone(), nil
}

// AdjustSpec applies a manual override immediately, then asks for a
// recalculation. A successful recalculation replaces the spec wholesale. A
// failed one is logged and swallowed: the overridden spec stays, with its
// previous derived values, and no error is returned. Competing adjustments
// are not coalesced; the last response to arrive wins.
func (c *Controller) AdjustSpec(ctx context.Context, o pickup.Override) (pickup.Spec, error) {
	if err := o.Validate(); err != nil {
		return pickup.Spec{}, err
	}
	c.mu.Lock()
	if c.step != Engineering || c.spec == nil || c.intake == nil {
		err := transitionErr("adjust spec", c.step, c.view)
		c.mu.Unlock()
		return pickup.Spec{}, err
	}
	optimistic := o.Apply(*c.spec)
	c.spec = &optimistic
	rec := c.intake.Clone()
	epoch := c.epoch
	c.updating++
	c.mu.Unlock()

	var recalculated pickup.Spec
	var err error
	if c.deps.Generator == nil {
		err = errors.New("no generator configured")
	} else {
		recalculated, err = c.deps.Generator.Recalculate(ctx, optimistic.Clone(), rec)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.updating--
	if c.epoch != epoch || c.spec == nil {
		return optimistic, nil
	}
	if err != nil {
		c.logger.Warn("recalculation failed; keeping manual override", logging.Error(err))
		return c.spec.Clone(), nil
	}
	c.spec = &recalculated
	return recalculated.Clone(), nil
}

// ConfirmPickup turns the working spec into a Final Design and moves to
// MasterPlan.
func (c *Controller) ConfirmPickup() (design.Final, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != Engineering || c.spec == nil || c.intake == nil || c.loading {
		return design.Final{}, transitionErr("confirm pickup", c.step, c.view)
	}
	d := c.deps.Factory.New(*c.intake, *c.spec)
	c.current = &d
	c.step = MasterPlan
	c.logger.Info("pickup confirmed", logging.String(logging.FieldDesignID, d.ID))
	return d.Clone(), nil
}

// Save stores the current design. Storage failures are returned, but the
// design is still listed for the rest of the process lifetime.
func (c *Controller) Save(ctx context.Context) (design.Final, error) {
	c.mu.Lock()
	if c.current == nil || c.step < MasterPlan {
		err := transitionErr("save", c.step, c.view)
		c.mu.Unlock()
		return design.Final{}, err
	}
	d := c.current.Clone()
	c.mu.Unlock()
	if c.deps.History == nil {
		return d, errors.New("no design history configured")
	}
	return d, c.deps.History.Save(ctx, d)
}

// Checkout moves from MasterPlan to Fulfillment.
func (c *Controller) Checkout() (CheckoutState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != MasterPlan || c.current == nil || c.view != ViewWizard {
		return CheckoutState{}, transitionErr("checkout", c.step, c.view)
	}
	c.step = Fulfillment
	c.checkout = &CheckoutState{
		Price:    FormatPrice(c.deps.Pricing.Cents, c.deps.Pricing.Currency),
		LeadTime: c.deps.Pricing.LeadTime,
	}
	return *c.checkout, nil
}

// SelectPaymentMethod records the chosen simulated payment method.
func (c *Controller) SelectPaymentMethod(id string) (CheckoutState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != Fulfillment || c.checkout == nil || c.checkout.Complete {
		return CheckoutState{}, transitionErr("select payment", c.step, c.view)
	}
	if _, ok := LookupPaymentMethod(id); !ok {
		return CheckoutState{}, fmt.Errorf("unknown payment method %q", id)
	}
	c.checkout.Method = id
	return *c.checkout, nil
}

// ConfirmPayment completes the simulated payment. Afterwards the only
// available action is Reset.
func (c *Controller) ConfirmPayment() (CheckoutState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != Fulfillment || c.checkout == nil || c.checkout.Complete || c.checkout.Method == "" {
		return CheckoutState{}, transitionErr("confirm payment", c.step, c.view)
	}
	c.checkout.Complete = true
	c.checkout.Message = CompletionMessage
	c.logger.Info("commission logged",
		logging.String(logging.FieldDesignID, c.current.ID),
		logging.String("payment_method", c.checkout.Method),
	)
	return *c.checkout, nil
}

// Back steps backwards: Engineering to Discovery (keeping the draft),
// Fulfillment to MasterPlan before payment, and the comparison view back to
// the history view.
func (c *Controller) Back() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.view == ViewComparison {
		c.view = ViewHistory
		return nil
	}
	if c.view != ViewWizard {
		return transitionErr("back", c.step, c.view)
	}
	switch c.step {
	case Engineering:
		if c.intake != nil {
			c.draft = c.intake.Clone()
		}
		c.intake = nil
		c.spec = nil
		c.loading = false
		c.errMsg = ""
		c.epoch++
		c.step = Discovery
	case Fulfillment:
		if c.checkout != nil && c.checkout.Complete {
			return transitionErr("back after payment", c.step, c.view)
		}
		c.checkout = nil
		c.step = MasterPlan
	default:
		return transitionErr("back", c.step, c.view)
	}
	return nil
}

// Reset returns to Discovery in the wizard view and clears the intake,
// spec, current design and checkout. Saved designs are untouched.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = Discovery
	c.view = ViewWizard
	c.draft = intake.New()
	c.intake = nil
	c.spec = nil
	c.current = nil
	c.loading = false
	c.errMsg = ""
	c.checkout = nil
	c.epoch++
}

// SetView switches the view. The comparison view needs a comparison.
func (c *Controller) SetView(v View) error {
	if _, err := ParseView(string(v)); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if v == ViewComparison && c.comparison == nil {
		return transitionErr("open comparison", c.step, c.view)
	}
	c.view = v
	return nil
}

// OpenDesign loads a saved design and jumps to MasterPlan in the wizard view.
func (c *Controller) OpenDesign(id string) (design.Final, error) {
	if c.deps.History == nil {
		return design.Final{}, errors.New("no design history configured")
	}
	d, err := c.deps.History.Find(id)
	if err != nil {
		return design.Final{}, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := d.Intake.Clone()
	spec := d.Pickup.Clone()
	current := d.Clone()
	c.intake = &rec
	c.spec = &spec
	c.current = &current
	c.draft = rec.Clone()
	c.loading = false
	c.errMsg = ""
	c.checkout = nil
	c.epoch++
	c.step = MasterPlan
	c.view = ViewWizard
	return d, nil
}

// ToggleCompare adds or removes a saved design from the comparison pair.
func (c *Controller) ToggleCompare(id string) ([]string, error) {
	if c.deps.History == nil {
		return nil, errors.New("no design history configured")
	}
	c.mu.Lock()
	selected := c.selection.Contains(id)
	c.mu.Unlock()
	if !selected {
		if _, err := c.deps.History.Find(id); err != nil {
			return nil, err
		}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selection.Toggle(id)
	return c.selection.IDs(), nil
}

// Compare builds the table for the selected pair, switches to the
// comparison view and requests the analysis. An analysis failure is
// recorded on the comparison and does not fail the call.
func (c *Controller) Compare(ctx context.Context) (Comparison, error) {
	if c.deps.History == nil {
		return Comparison{}, errors.New("no design history configured")
	}
	c.mu.Lock()
	idA, idB, ok := c.selection.Pair()
	c.mu.Unlock()
	if !ok {
		return Comparison{}, fmt.Errorf("%w: select two designs to compare", ErrTransition)
	}
	a, err := c.deps.History.Find(idA)
	if err != nil {
		return Comparison{}, err
	}
	b, err := c.deps.History.Find(idB)
	if err != nil {
		return Comparison{}, err
	}

	cmp := &Comparison{A: a.ID, B: b.ID, Table: compare.Table(a, b), AnalysisLoading: true}
	c.mu.Lock()
	c.comparison = cmp
	c.view = ViewComparison
	c.mu.Unlock()

	var analysis compare.Analysis
	if c.deps.Analyzer == nil {
		err = generation.Fail(generation.OpCompare, errors.New("no analyzer configured"))
	} else {
		analysis, err = c.deps.Analyzer.Analyze(ctx, a, b)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	next := *cmp
	next.AnalysisLoading = false
	if c.comparison != cmp {
		return next, nil
	}
	if err != nil {
		c.logger.Warn("comparison analysis failed", logging.Error(err))
		next.AnalysisError = generation.BusyMessage
	} else {
		next.Analysis = &analysis
	}
	c.comparison = &next
	return next, nil
}
