package catalog_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ghostwood/internal/catalog"
)

func TestParseCategoryAliases(t *testing.T) {
	tests := []struct {
		in   string
		want catalog.Category
	}{
		{"Electric Guitar", catalog.ElectricGuitar},
		{"guitar", catalog.ElectricGuitar},
		{" BASS ", catalog.BassGuitar},
		{"Rhodes Electric Piano", catalog.RhodesPiano},
		{"rhodes", catalog.RhodesPiano},
	}
	for _, tt := range tests {
		got, err := catalog.ParseCategory(tt.in)
		if err != nil {
			t.Fatalf("ParseCategory(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if _, err := catalog.ParseCategory("theremin"); err == nil {
		t.Fatal("expected error for unknown category")
	}
}

func TestFilterPedalsByTag(t *testing.T) {
	tests := []struct {
		category catalog.Category
		want     []string
	}{
		{catalog.RhodesPiano, []string{
			"None / Straight into Amp", "Ambient / Multi-FX", "Rhodes Chorus / Phaser", "Rhodes Wah-Wah",
		}},
		{catalog.BassGuitar, []string{
			"None / Straight into Amp", "Digital Modeler centric (Helix/Fractal)", "Bass Preamp / DI", "Bass Compressor",
		}},
		{catalog.ElectricGuitar, []string{
			"None / Straight into Amp", "Transparent Overdrive", "Heavy Distortion / Fuzz", "High-Gain Preamp Pedals",
			"Ambient / Multi-FX", "Digital Modeler centric (Helix/Fractal)", "Vintage Boost only",
		}},
	}
	for _, tt := range tests {
		got := catalog.Pedals.Filter(tt.category).Labels()
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Fatalf("pedals for %s mismatch (-want +got):\n%s", tt.category, diff)
		}
	}
}

func TestFilterAmpsByTag(t *testing.T) {
	got := catalog.Amps.Filter(catalog.BassGuitar).Labels()
	want := []string{
		"Solid State / Pedal Platform", "Digital Modeler (Profiling/IRs)", "High-Headroom Bass Head", "Vintage Tube Bass Amp",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("bass amps mismatch (-want +got):\n%s", diff)
	}

	rhodes := catalog.Amps.Filter(catalog.RhodesPiano).Labels()
	wantRhodes := []string{
		"Clean Tube (Class A/Blackface)", "Digital Modeler (Profiling/IRs)", "Rhodes Suitcase Amp / Preamp",
	}
	if diff := cmp.Diff(wantRhodes, rhodes); diff != "" {
		t.Fatalf("rhodes amps mismatch (-want +got):\n%s", diff)
	}
}

func TestRoutesPartitionByCategory(t *testing.T) {
	total := 0
	for _, c := range catalog.Categories {
		total += len(catalog.Routes.Filter(c).Options)
	}
	if total != len(catalog.Routes.Options) {
		t.Fatalf("routes should belong to exactly one category: %d filtered vs %d total", total, len(catalog.Routes.Options))
	}
	if got := catalog.Routes.Filter(catalog.RhodesPiano).Labels(); !cmp.Equal(got, []string{"Rhodes Standard Coil"}) {
		t.Fatalf("unexpected rhodes routes: %v", got)
	}
	if !catalog.Routes.Allows("Split-Coil (P-Bass)", catalog.BassGuitar) {
		t.Fatal("expected P-Bass route for bass")
	}
	if catalog.Routes.Allows("Split-Coil (P-Bass)", catalog.ElectricGuitar) {
		t.Fatal("P-Bass route should not be offered for guitar")
	}
}

func TestMagnetWhitelist(t *testing.T) {
	want := []string{"Alnico 2", "Alnico 3", "Alnico 4", "Alnico 5", "Alnico 8", "Ceramic"}
	if diff := cmp.Diff(want, catalog.MagnetTypes.Labels()); diff != "" {
		t.Fatalf("magnet whitelist mismatch (-want +got):\n%s", diff)
	}
}

func TestForCategoryDropsEmptyLists(t *testing.T) {
	for _, l := range catalog.ForCategory(catalog.RhodesPiano) {
		if l.Name == "magnet_types" || l.Name == "woods" {
			t.Fatalf("rhodes catalog should not include %s", l.Name)
		}
	}
	guitar := catalog.ForCategory(catalog.ElectricGuitar)
	for _, l := range guitar {
		if l.Name == "rhodes_eras" {
			t.Fatal("guitar catalog should not include rhodes eras")
		}
	}
}

func TestCategorySetJSON(t *testing.T) {
	data, err := json.Marshal(catalog.Option{Label: "Clean", Categories: catalog.Set(catalog.ElectricGuitar, catalog.RhodesPiano)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"label":"Clean","categories":"guitar,rhodes"}` {
		t.Fatalf("unexpected json: %s", data)
	}
}

func TestLeadTimes(t *testing.T) {
	if catalog.RhodesPiano.LeadTimeDays() != 28 || catalog.BassGuitar.LeadTimeDays() != 21 {
		t.Fatal("unexpected lead times")
	}
}
