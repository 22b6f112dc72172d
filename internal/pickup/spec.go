package pickup

import (
	"slices"

	"ghostwood/internal/generation"
)

// Wind styles.
const (
	WindUnderwound = "Underwound"
	WindStandard   = "Standard"
	WindOverwound  = "Overwound"
	WindHot        = "Hot"
)

// Magnet polarities.
const (
	PolarityNorthUp = "North Up"
	PolaritySouthUp = "South Up"
	PolarityRWRP    = "RWRP"
)

// Potting levels.
const (
	PottingNone  = "None"
	PottingLight = "Light"
	PottingHeavy = "Heavy"
)

var (
	WindStyles = []string{WindUnderwound, WindStandard, WindOverwound, WindHot}
	Polarities = []string{PolarityNorthUp, PolaritySouthUp, PolarityRWRP}
	Pottings   = []string{PottingNone, PottingLight, PottingHeavy}
)

// FrequencyPoint is one display sample of the response curve.
type FrequencyPoint struct {
	Freq  string  `json:"freq"`
	Value float64 `json:"value"`
}

// Spec is a generated pickup specification. Every field comes from the
// model; nothing here is computed locally.
type Spec struct {
	Type              string           `json:"type"`
	MagnetType        string           `json:"magnetType"`
	WireGauge         string           `json:"wireGauge"`
	WindApproach      string           `json:"windApproach"`
	DCResistance      string           `json:"dcResistance"`
	WindStyle         string           `json:"windStyle"`
	WindCount         string           `json:"windCount"`
	MagnetPolarity    string           `json:"magnetPolarity"`
	Potting           string           `json:"potting"`
	FrequencyResponse []FrequencyPoint `json:"frequencyResponse"`
	LuthierNote       string           `json:"luthierNote"`
	RealityCheck      string           `json:"realityCheck"`
}

// Clone returns a deep copy.
func (s Spec) Clone() Spec {
	s.FrequencyResponse = slices.Clone(s.FrequencyResponse)
	return s
}

// Schema is the structured-output schema requested from providers.
func Schema() *generation.Schema {
	return generation.Object(
		generation.Prop("type", generation.String()),
		generation.Prop("magnetType", generation.String()),
		generation.Prop("wireGauge", generation.String()),
		generation.Prop("windApproach", generation.String()),
		generation.Prop("dcResistance", generation.String()),
		generation.Prop("windStyle", generation.String(WindStyles...)),
		generation.Prop("windCount", generation.String().Describe("Total number of turns, e.g., '8,200 turns'")),
		generation.Prop("magnetPolarity", generation.String(Polarities...)),
		generation.Prop("potting", generation.String(Pottings...)),
		generation.Prop("frequencyResponse", generation.ArrayOf(generation.Object(
			generation.Prop("freq", generation.String()),
			generation.Prop("value", generation.Number()),
		))),
		generation.Prop("luthierNote", generation.String()),
		generation.Prop("realityCheck", generation.String()),
	)
}
