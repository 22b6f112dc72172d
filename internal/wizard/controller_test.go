package wizard

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"ghostwood/internal/catalog"
	"ghostwood/internal/compare"
	"ghostwood/internal/design"
	"ghostwood/internal/generation"
	"ghostwood/internal/generation/generationtest"
	"ghostwood/internal/history"
	"ghostwood/internal/intake"
	"ghostwood/internal/pickup"
	"ghostwood/internal/specgen"
)

const specJSON = `{
  "type": "Single Coil",
  "magnetType": "Alnico 5",
  "wireGauge": "42 AWG",
  "windApproach": "Scatter wound",
  "dcResistance": "6.2k",
  "windStyle": "Standard",
  "windCount": "8,200 turns",
  "magnetPolarity": "North Up",
  "potting": "Light",
  "frequencyResponse": [{"freq": "100Hz", "value": 40}],
  "luthierNote": "Clear.",
  "realityCheck": "Honest."
}`

const recalcJSON = `{
  "type": "Single Coil",
  "magnetType": "Alnico 2",
  "wireGauge": "42 AWG",
  "windApproach": "Scatter wound",
  "dcResistance": "5.8k",
  "windStyle": "Standard",
  "windCount": "7,900 turns",
  "magnetPolarity": "North Up",
  "potting": "Light",
  "frequencyResponse": [{"freq": "100Hz", "value": 38}],
  "luthierNote": "Softer attack.",
  "realityCheck": "Honest."
}`

type fixture struct {
	fake    *generationtest.Fake
	history *history.Store
	ctl     *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	fake := generationtest.New()
	store := history.Open(context.Background(), nil, history.Options{})
	next := 0
	ctl := New(Deps{
		Generator:    specgen.New(fake, specgen.Options{}),
		Analyzer:     compare.NewEngine(fake, "", nil, nil),
		History:      store,
		BrandContext: func() string { return "Researched voice." },
		Factory: design.Factory{
			Now:  func() time.Time { return time.UnixMilli(1700000000000) },
			Rand: func(int) int { next++; return next },
		},
		Pricing: Pricing{Cents: 18500, Currency: "USD", LeadTime: "3 weeks"},
	})
	return &fixture{fake: fake, history: store, ctl: ctl}
}

func readyDraft() intake.Record {
	rec := intake.New()
	rec.Style = "Surf"
	rec.ToneGoals = []string{"Sparkle"}
	return rec
}

func (f *fixture) toEngineering(t *testing.T) {
	t.Helper()
	if err := f.ctl.UpdateDraft(readyDraft()); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}
	if err := f.ctl.CompleteIntake(); err != nil {
		t.Fatalf("CompleteIntake: %v", err)
	}
}

func (f *fixture) toMasterPlan(t *testing.T) design.Final {
	t.Helper()
	f.fake.Reply(generation.OpSpec, specJSON)
	f.toEngineering(t)
	if _, err := f.ctl.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	d, err := f.ctl.ConfirmPickup()
	if err != nil {
		t.Fatalf("ConfirmPickup: %v", err)
	}
	return d
}

func TestEmptyToneGoalsNeverReachEngineering(t *testing.T) {
	f := newFixture(t)
	rec := readyDraft()
	rec.ToneGoals = nil
	_ = f.ctl.UpdateDraft(rec)
	if err := f.ctl.CompleteIntake(); !errors.Is(err, ErrIntakeIncomplete) {
		t.Fatalf("expected ErrIntakeIncomplete, got %v", err)
	}
	if got := f.ctl.Snapshot().Step; got != Discovery {
		t.Fatalf("step = %s, want discovery", got)
	}
}

func TestStyleRequiredUnlessRhodes(t *testing.T) {
	f := newFixture(t)
	rec := readyDraft()
	rec.Style = "  "
	_ = f.ctl.UpdateDraft(rec)
	if err := f.ctl.CompleteIntake(); !errors.Is(err, ErrIntakeIncomplete) {
		t.Fatalf("blank style should block a guitar intake, got %v", err)
	}

	_, _ = f.ctl.EditDraft(func(r *intake.Record) { r.SetCategory(catalog.RhodesPiano) })
	if err := f.ctl.CompleteIntake(); err != nil {
		t.Fatalf("rhodes intake without style should complete: %v", err)
	}
	snap := f.ctl.Snapshot()
	if snap.Step != Engineering || snap.Intake == nil || snap.Intake.PianoYear == "" {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestCategorySwitchResetsDefaults(t *testing.T) {
	f := newFixture(t)
	before := f.ctl.Draft()
	if before.ScaleLength != `25.5"` || before.CurrentRouting != "Single Coil (Standard)" {
		t.Fatalf("unexpected defaults %+v", before)
	}
	after, err := f.ctl.EditDraft(func(r *intake.Record) { r.SetCategory(catalog.BassGuitar) })
	if err != nil {
		t.Fatalf("EditDraft: %v", err)
	}
	if after.ScaleLength != `34"` || after.CurrentRouting != "Split-Coil (P-Bass)" {
		t.Fatalf("bass defaults not applied: %+v", after)
	}
}

func TestGenerateFailureShowsBusyMessageAndRetries(t *testing.T) {
	f := newFixture(t)
	f.fake.On(generation.OpSpec,
		generationtest.Response{Err: errors.New("503")},
		generationtest.Response{Text: specJSON},
	)
	f.toEngineering(t)

	_, err := f.ctl.Generate(context.Background())
	if !errors.Is(err, generation.ErrGeneration) {
		t.Fatalf("expected generation error, got %v", err)
	}
	snap := f.ctl.Snapshot()
	if snap.Error != generation.BusyMessage || snap.Spec != nil || snap.Loading {
		t.Fatalf("unexpected failure snapshot %+v", snap)
	}
	if _, err := f.ctl.ConfirmPickup(); !errors.Is(err, ErrTransition) {
		t.Fatalf("confirm without a spec should fail, got %v", err)
	}

	spec, err := f.ctl.Generate(context.Background())
	if err != nil {
		t.Fatalf("retry Generate: %v", err)
	}
	if spec.Type != "Single Coil" || f.ctl.Snapshot().Error != "" {
		t.Fatalf("retry should clear the error, spec=%+v", spec)
	}
	if !strings.Contains(f.fake.LastPrompt(generation.OpSpec), "Researched voice.") {
		t.Fatal("generation should use the researched brand context")
	}
}

func TestRecalculationFailureKeepsOverride(t *testing.T) {
	f := newFixture(t)
	f.fake.Reply(generation.OpSpec, specJSON).Fail(generation.OpRecalc, errors.New("timeout"))
	f.toEngineering(t)
	if _, err := f.ctl.Generate(context.Background()); err != nil {
		t.Fatalf("Generate: %v", err)
	}

	magnet := "Alnico 2"
	got, err := f.ctl.AdjustSpec(context.Background(), pickup.Override{MagnetType: &magnet})
	if err != nil {
		t.Fatalf("AdjustSpec should swallow recalculation failures, got %v", err)
	}
	snap := f.ctl.Snapshot()
	for _, spec := range []pickup.Spec{got, *snap.Spec} {
		if spec.MagnetType != "Alnico 2" {
			t.Fatalf("override not shown: %q", spec.MagnetType)
		}
		if spec.DCResistance != "6.2k" || spec.WindCount != "8,200 turns" {
			t.Fatalf("derived values should be untouched: %q %q", spec.DCResistance, spec.WindCount)
		}
	}
	if snap.Error != "" || snap.Step != Engineering {
		t.Fatalf("recalculation failure must not surface: %+v", snap)
	}
}

func TestRecalculationReplacesSpec(t *testing.T) {
	f := newFixture(t)
	f.fake.Reply(generation.OpSpec, specJSON).Reply(generation.OpRecalc, recalcJSON)
	f.toEngineering(t)
	_, _ = f.ctl.Generate(context.Background())

	magnet := "Alnico 2"
	got, err := f.ctl.AdjustSpec(context.Background(), pickup.Override{MagnetType: &magnet})
	if err != nil {
		t.Fatalf("AdjustSpec: %v", err)
	}
	if got.DCResistance != "5.8k" || f.ctl.Snapshot().Spec.LuthierNote != "Softer attack." {
		t.Fatalf("recalculated spec should replace the working spec: %+v", got)
	}
}

func TestOverrideVisibleWhileRecalculating(t *testing.T) {
	f := newFixture(t)
	f.fake.Reply(generation.OpSpec, specJSON).Reply(generation.OpRecalc, recalcJSON)
	f.toEngineering(t)
	_, _ = f.ctl.Generate(context.Background())

	f.fake.Block = make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		wind := pickup.WindHot
		_, _ = f.ctl.AdjustSpec(context.Background(), pickup.Override{WindStyle: &wind})
	}()

	deadline := time.After(2 * time.Second)
	for f.fake.Calls(generation.OpRecalc) == 0 {
		select {
		case <-deadline:
			t.Fatal("recalculation never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	snap := f.ctl.Snapshot()
	if !snap.Updating || snap.Spec.WindStyle != pickup.WindHot || snap.Spec.DCResistance != "6.2k" {
		t.Fatalf("optimistic state not visible: updating=%v spec=%+v", snap.Updating, snap.Spec)
	}
	close(f.fake.Block)
	<-done
	if f.ctl.Snapshot().Updating {
		t.Fatal("updating flag should clear")
	}
}

func TestAdjustRejectsInvalidOverride(t *testing.T) {
	f := newFixture(t)
	bad := "Sideways"
	if _, err := f.ctl.AdjustSpec(context.Background(), pickup.Override{WindStyle: &bad}); err == nil {
		t.Fatal("expected invalid override error")
	}
}

func TestConfirmCreatesDesign(t *testing.T) {
	f := newFixture(t)
	d := f.toMasterPlan(t)
	if !design.ValidID(d.ID) || d.Timestamp != 1700000000000 {
		t.Fatalf("unexpected design identity %s %d", d.ID, d.Timestamp)
	}
	snap := f.ctl.Snapshot()
	if snap.Step != MasterPlan || snap.Design == nil || snap.Design.ID != d.ID || snap.LeadTimeDays != 21 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
}

func TestCheckoutFlow(t *testing.T) {
	f := newFixture(t)
	f.toMasterPlan(t)

	if _, err := f.ctl.ConfirmPayment(); !errors.Is(err, ErrTransition) {
		t.Fatalf("payment before checkout should fail, got %v", err)
	}
	co, err := f.ctl.Checkout()
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if co.Price != "$185.00" || co.LeadTime != "3 weeks" {
		t.Fatalf("unexpected checkout %+v", co)
	}
	if _, err := f.ctl.ConfirmPayment(); !errors.Is(err, ErrTransition) {
		t.Fatalf("payment without a method should fail, got %v", err)
	}
	if _, err := f.ctl.SelectPaymentMethod("bitcoin"); err == nil {
		t.Fatal("unknown method should be rejected")
	}
	if _, err := f.ctl.SelectPaymentMethod("venmo"); err != nil {
		t.Fatalf("SelectPaymentMethod: %v", err)
	}
	if err := f.ctl.Back(); err != nil {
		t.Fatalf("Back from fulfillment: %v", err)
	}
	if f.ctl.Snapshot().Step != MasterPlan {
		t.Fatal("back should return to master plan")
	}
	_, _ = f.ctl.Checkout()
	_, _ = f.ctl.SelectPaymentMethod("apple")
	co, err = f.ctl.ConfirmPayment()
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if !co.Complete || co.Message != CompletionMessage {
		t.Fatalf("unexpected completion %+v", co)
	}
	if err := f.ctl.Back(); !errors.Is(err, ErrTransition) {
		t.Fatalf("back after payment should fail, got %v", err)
	}
}

func TestResetKeepsHistory(t *testing.T) {
	f := newFixture(t)
	f.toMasterPlan(t)
	if _, err := f.ctl.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f.ctl.Reset()
	snap := f.ctl.Snapshot()
	if snap.Step != Discovery || snap.View != ViewWizard || snap.Intake != nil || snap.Spec != nil || snap.Design != nil {
		t.Fatalf("reset should clear working state: %+v", snap)
	}
	if f.history.Len() != 1 {
		t.Fatalf("reset must not touch saved designs, got %d", f.history.Len())
	}
}

func TestOpenDesignJumpsToMasterPlan(t *testing.T) {
	f := newFixture(t)
	d := f.toMasterPlan(t)
	_, _ = f.ctl.Save(context.Background())
	f.ctl.Reset()
	_ = f.ctl.SetView(ViewHistory)

	opened, err := f.ctl.OpenDesign(d.ID)
	if err != nil {
		t.Fatalf("OpenDesign: %v", err)
	}
	snap := f.ctl.Snapshot()
	if snap.Step != MasterPlan || snap.View != ViewWizard {
		t.Fatalf("expected master plan in wizard view, got %s/%s", snap.Step, snap.View)
	}
	if diff := cmp.Diff(opened, *snap.Design); diff != "" {
		t.Fatalf("design mismatch (-want +got):\n%s", diff)
	}
	if _, err := f.ctl.OpenDesign("GW-0000"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBackFromEngineeringKeepsDraft(t *testing.T) {
	f := newFixture(t)
	f.toEngineering(t)
	if err := f.ctl.Back(); err != nil {
		t.Fatalf("Back: %v", err)
	}
	snap := f.ctl.Snapshot()
	if snap.Step != Discovery || snap.Draft.Style != "Surf" {
		t.Fatalf("draft should survive going back: %+v", snap)
	}
	if err := f.ctl.Back(); !errors.Is(err, ErrTransition) {
		t.Fatalf("back at discovery should fail, got %v", err)
	}
}

func TestCompareKeepsTableWhenAnalysisFails(t *testing.T) {
	f := newFixture(t)
	first := f.toMasterPlan(t)
	_, _ = f.ctl.Save(context.Background())
	f.ctl.Reset()
	second := f.toMasterPlan(t)
	_, _ = f.ctl.Save(context.Background())

	if _, err := f.ctl.Compare(context.Background()); !errors.Is(err, ErrTransition) {
		t.Fatalf("compare without a pair should fail, got %v", err)
	}
	if _, err := f.ctl.ToggleCompare("GW-4242"); !errors.Is(err, history.ErrNotFound) {
		t.Fatalf("toggling an unknown id should fail, got %v", err)
	}
	_, _ = f.ctl.ToggleCompare(first.ID)
	selected, _ := f.ctl.ToggleCompare(second.ID)
	if diff := cmp.Diff([]string{first.ID, second.ID}, selected); diff != "" {
		t.Fatalf("selection mismatch (-want +got):\n%s", diff)
	}

	f.fake.Fail(generation.OpCompare, errors.New("quota"))
	result, err := f.ctl.Compare(context.Background())
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(result.Table) != 4 || result.Analysis != nil || result.AnalysisError != generation.BusyMessage {
		t.Fatalf("unexpected comparison %+v", result)
	}
	if f.ctl.Snapshot().View != ViewComparison {
		t.Fatal("compare should open the comparison view")
	}
	if err := f.ctl.Back(); err != nil || f.ctl.Snapshot().View != ViewHistory {
		t.Fatalf("back from comparison should open history, err=%v", err)
	}
}

func TestComparisonTableVisibleWhileAnalyzing(t *testing.T) {
	f := newFixture(t)
	first := f.toMasterPlan(t)
	_, _ = f.ctl.Save(context.Background())
	f.ctl.Reset()
	second := f.toMasterPlan(t)
	_, _ = f.ctl.Save(context.Background())
	_, _ = f.ctl.ToggleCompare(first.ID)
	_, _ = f.ctl.ToggleCompare(second.ID)

	f.fake.Reply(generation.OpCompare,
		`{"tonalDifference":"A is glassier","playingExperience":"B compresses","recommendation":"A for clean"}`)
	f.fake.Block = make(chan struct{})
	done := make(chan Comparison, 1)
	go func() {
		result, _ := f.ctl.Compare(context.Background())
		done <- result
	}()

	deadline := time.After(2 * time.Second)
	for f.fake.Calls(generation.OpCompare) == 0 {
		select {
		case <-deadline:
			t.Fatal("analysis never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	snap := f.ctl.Snapshot()
	if snap.View != ViewComparison || snap.Comparison == nil {
		t.Fatalf("comparison view not open during analysis: %+v", snap)
	}
	if len(snap.Comparison.Table) != 4 || !snap.Comparison.AnalysisLoading || snap.Comparison.Analysis != nil {
		t.Fatalf("unexpected in-flight comparison %+v", snap.Comparison)
	}

	close(f.fake.Block)
	result := <-done
	if result.AnalysisLoading || result.Analysis == nil || result.Analysis.Recommendation != "A for clean" {
		t.Fatalf("unexpected finished comparison %+v", result)
	}
	if got := f.ctl.Snapshot().Comparison; got == nil || got.AnalysisLoading {
		t.Fatalf("loading flag should clear, got %+v", got)
	}
}

func TestSetViewGuardsComparison(t *testing.T) {
	f := newFixture(t)
	if err := f.ctl.SetView(ViewComparison); !errors.Is(err, ErrTransition) {
		t.Fatalf("expected ErrTransition, got %v", err)
	}
	if err := f.ctl.SetView("attic"); err == nil {
		t.Fatal("unknown view should fail")
	}
	if err := f.ctl.SetView(ViewGallery); err != nil {
		t.Fatalf("SetView: %v", err)
	}
}

func TestFormatPrice(t *testing.T) {
	cases := map[string]struct {
		cents int64
		code  string
		want  string
	}{
		"commission": {18500, "USD", "$185.00"},
		"thousands":  {123450, "USD", "$1,234.50"},
		"unknown":    {500, "XQQ", "XQQ 5.00"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if got := FormatPrice(tc.cents, tc.code); got != tc.want {
				t.Fatalf("FormatPrice = %q, want %q", got, tc.want)
			}
		})
	}
}
