package design_test

import (
	"testing"
	"time"

	"ghostwood/internal/design"
	"ghostwood/internal/intake"
	"ghostwood/internal/pickup"
)

func TestFactoryNew(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := design.Factory{
		Now:  func() time.Time { return at },
		Rand: func(n int) int { return n - 1 },
	}
	rec := intake.New()
	rec.ToneGoals = []string{"Warmth"}
	d := f.New(rec, pickup.Spec{Type: "Ghostwood P90"})

	if d.ID != "GW-9999" {
		t.Fatalf("id = %q, want GW-9999", d.ID)
	}
	if d.Timestamp != at.UnixMilli() || !d.CreatedAt().Equal(at) {
		t.Fatalf("timestamp = %d", d.Timestamp)
	}
	rec.ToneGoals[0] = "Bite"
	if d.Intake.ToneGoals[0] != "Warmth" {
		t.Fatal("design must not alias the intake")
	}
	if err := d.Check(); err != nil {
		t.Fatalf("Check returned error: %v", err)
	}
}

func TestNewIDShape(t *testing.T) {
	for i := 0; i < 200; i++ {
		id := design.DefaultFactory.NewID()
		if !design.ValidID(id) {
			t.Fatalf("unexpected id %q", id)
		}
	}
	low := design.Factory{Rand: func(int) int { return 0 }}.NewID()
	if low != "GW-1000" {
		t.Fatalf("lowest id = %q", low)
	}
}

func TestCheckRejectsIncomplete(t *testing.T) {
	if err := (design.Final{}).Check(); err == nil {
		t.Fatal("expected error for empty design")
	}
	if err := (design.Final{ID: "GW-1234", Timestamp: 1}).Check(); err == nil {
		t.Fatal("expected error without pickup")
	}
}
