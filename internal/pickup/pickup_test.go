package pickup_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ghostwood/internal/catalog"
	"ghostwood/internal/pickup"
)

func sampleSpec() pickup.Spec {
	return pickup.Spec{
		Type:           "Ghostwood '59 Single",
		MagnetType:     "Alnico 5",
		WireGauge:      "42 AWG",
		WindApproach:   "Scatter wound, medium tension",
		DCResistance:   "6.2 kΩ",
		WindStyle:      pickup.WindStandard,
		WindCount:      "8,200 turns",
		MagnetPolarity: pickup.PolarityNorthUp,
		Potting:        pickup.PottingLight,
		FrequencyResponse: []pickup.FrequencyPoint{
			{Freq: "100Hz", Value: 60}, {Freq: "1kHz", Value: 75}, {Freq: "5kHz", Value: 82},
		},
		LuthierNote:  "Glassy but never brittle.",
		RealityCheck: "Your amp still matters.",
	}
}

func encode(t *testing.T, spec any) string {
	t.Helper()
	data, err := json.Marshal(spec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func TestDecodeAcceptsConformingGuitarSpec(t *testing.T) {
	want := sampleSpec()
	got, err := pickup.Decode(encode(t, want), catalog.ElectricGuitar)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("spec mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeRejectsNonConformingPayloads(t *testing.T) {
	tests := []struct {
		name     string
		category catalog.Category
		mutate   func(map[string]any)
		wantErr  string
	}{
		{"missing field", catalog.ElectricGuitar, func(m map[string]any) { delete(m, "windCount") }, "windCount is missing"},
		{"bad wind style", catalog.BassGuitar, func(m map[string]any) { m["windStyle"] = "Scatter" }, "windStyle"},
		{"bad polarity", catalog.ElectricGuitar, func(m map[string]any) { m["magnetPolarity"] = "East Up" }, "magnetPolarity"},
		{"bad potting", catalog.ElectricGuitar, func(m map[string]any) { m["potting"] = "Soaked" }, "potting"},
		{"magnet outside whitelist", catalog.ElectricGuitar, func(m map[string]any) { m["magnetType"] = "Neodymium" }, "magnetType"},
		{"curve value not numeric", catalog.ElectricGuitar, func(m map[string]any) {
			m["frequencyResponse"] = []any{map[string]any{"freq": "1kHz", "value": "loud"}}
		}, "frequencyResponse[0].value"},
		{"rhodes in kilohms", catalog.RhodesPiano, func(m map[string]any) { m["dcResistance"] = "6.2 kΩ" }, "must be given in ohms"},
		{"rhodes out of range", catalog.RhodesPiano, func(m map[string]any) { m["dcResistance"] = "320 Ω" }, "outside 150-260 ohms"},
		{"rhodes unparseable", catalog.RhodesPiano, func(m map[string]any) { m["dcResistance"] = "vintage" }, "dcResistance"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m map[string]any
			if err := json.Unmarshal([]byte(encode(t, sampleSpec())), &m); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			tt.mutate(m)
			_, err := pickup.Decode(encode(t, m), tt.category)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestDecodeRhodesAcceptsOhmicRange(t *testing.T) {
	spec := sampleSpec()
	spec.MagnetType = "Rhodes ceramic bar"
	spec.WireGauge = "38 AWG"
	spec.DCResistance = "~190 Ω"
	got, err := pickup.Decode(encode(t, spec), catalog.RhodesPiano)
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	ohms, err := pickup.ParseResistanceOhms(got.DCResistance)
	if err != nil || ohms < 150 || ohms > 260 {
		t.Fatalf("rhodes resistance %v (%v) outside range", ohms, err)
	}

	for _, kilohms := range []string{"0.19 kOhms", "0.2k", "0.00019M"} {
		spec.DCResistance = kilohms
		if _, err := pickup.Decode(encode(t, spec), catalog.RhodesPiano); err == nil {
			t.Errorf("rhodes resistance %q in kilohms should be rejected", kilohms)
		}
		if err := spec.Check(pickup.ConstraintsFor(catalog.RhodesPiano)); err == nil {
			t.Errorf("Check accepted %q for rhodes", kilohms)
		}
	}

	guitar := sampleSpec()
	guitar.DCResistance = "7.8k"
	if err := guitar.Check(pickup.ConstraintsFor(catalog.ElectricGuitar)); err != nil {
		t.Fatalf("guitar kilohms should pass: %v", err)
	}
}

func TestSchemaForNarrowsMagnets(t *testing.T) {
	guitar := pickup.SchemaFor(catalog.ElectricGuitar)
	if diff := cmp.Diff(catalog.MagnetTypes.Labels(), guitar.Properties["magnetType"].Enum); diff != "" {
		t.Fatalf("guitar magnet enum mismatch (-want +got):\n%s", diff)
	}
	if enum := pickup.SchemaFor(catalog.RhodesPiano).Properties["magnetType"].Enum; len(enum) != 0 {
		t.Fatalf("rhodes magnet should be unconstrained, got %v", enum)
	}
	if len(pickup.Schema().Required) != 12 {
		t.Fatalf("expected 12 required fields, got %d", len(pickup.Schema().Required))
	}
}

func TestParseResistanceOhms(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"195 Ω", 195},
		{"~180-200 Ohms", 180},
		{"8,200 ohms", 8200},
		{"7.8k", 7800},
		{"6.2 kOhm", 6200},
		{"DCR: 1.1 MΩ", 1_100_000},
	}
	for _, tt := range tests {
		got, err := pickup.ParseResistanceOhms(tt.in)
		if err != nil {
			t.Fatalf("ParseResistanceOhms(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseResistanceOhms(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	if _, err := pickup.ParseResistanceOhms("hot"); err == nil {
		t.Fatal("expected error without digits")
	}
}

func TestOverrideApplyKeepsDerivedFields(t *testing.T) {
	base := sampleSpec()
	magnet := "Alnico 2"
	o := pickup.Override{MagnetType: &magnet}
	if err := o.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
	got := o.Apply(base)
	if got.MagnetType != "Alnico 2" {
		t.Fatalf("magnet not applied: %q", got.MagnetType)
	}
	if got.DCResistance != base.DCResistance || got.WindCount != base.WindCount {
		t.Fatal("derived fields must be untouched by an override")
	}
	got.FrequencyResponse[0].Value = 0
	if base.FrequencyResponse[0].Value == 0 {
		t.Fatal("Apply must not alias the response curve")
	}
}

func TestOverrideValidate(t *testing.T) {
	blank := " "
	hot := "Hot"
	bad := "Scatter"
	if err := (pickup.Override{}).Validate(); err == nil {
		t.Fatal("expected error for empty override")
	}
	if err := (pickup.Override{MagnetType: &blank}).Validate(); err == nil {
		t.Fatal("expected error for blank magnet")
	}
	if err := (pickup.Override{WindStyle: &bad}).Validate(); err == nil {
		t.Fatal("expected error for unknown wind style")
	}
	if err := (pickup.Override{WindStyle: &hot}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWindStyleFromLabel(t *testing.T) {
	for _, label := range catalog.WindStyles.Labels() {
		got := pickup.WindStyleFromLabel(label)
		found := false
		for _, ws := range pickup.WindStyles {
			if ws == got {
				found = true
			}
		}
		if !found {
			t.Fatalf("label %q mapped to unknown wind style %q", label, got)
		}
	}
}
