package intake

import (
	"slices"
	"strings"

	"ghostwood/internal/catalog"
)

// Category switch defaults.
const (
	GuitarScale   = `25.5"`
	BassScale     = `34"`
	RhodesScale   = "N/A"
	GuitarRouting = "Single Coil (Standard)"
	BassRouting   = "Split-Coil (P-Bass)"
	RhodesRouting = "Rhodes Standard Coil"
	DefaultBrand  = "Fender"
	RhodesBrand   = "Rhodes / Fender Rhodes"
)

// Record describes the player, the instrument and its context.
type Record struct {
	Category        catalog.Category `json:"category"`
	Style           string           `json:"style"`
	Dynamics        string           `json:"dynamics"`
	ToneGoals       []string         `json:"toneGoals"`
	GuitarType      string           `json:"guitarType"`
	BodyWood        string           `json:"bodyWood"`
	ScaleLength     string           `json:"scaleLength"`
	CurrentIssues   string           `json:"currentIssues"`
	CurrentRouting  string           `json:"currentRouting"`
	PedalType       string           `json:"pedalType"`
	AmpType         string           `json:"ampType"`
	GuitarBrand     string           `json:"guitarBrand"`
	GuitarModel     string           `json:"guitarModel"`
	PerformanceType string           `json:"performanceType"`

	// Rhodes only.
	PianoYear         string `json:"pianoYear,omitempty"`
	RhodesFailureInfo string `json:"rhodesFailureInfo,omitempty"`
	PackSize          string `json:"packSize,omitempty"`
}

// New returns an Electric Guitar intake populated with form defaults.
func New() Record {
	return Record{
		Category:        catalog.ElectricGuitar,
		Dynamics:        "Medium",
		ToneGoals:       []string{},
		GuitarType:      catalog.BodyShapes.First(),
		BodyWood:        catalog.Woods.First(),
		ScaleLength:     GuitarScale,
		CurrentRouting:  GuitarRouting,
		PedalType:       catalog.Pedals.First(),
		AmpType:         catalog.Amps.First(),
		GuitarBrand:     DefaultBrand,
		PerformanceType: catalog.PerformanceTypes.First(),
	}
}

// Clone returns a deep copy.
func (r Record) Clone() Record {
	r.ToneGoals = slices.Clone(r.ToneGoals)
	if r.ToneGoals == nil {
		r.ToneGoals = []string{}
	}
	return r
}

// SetCategory switches the instrument category and resets the dependent
// defaults: scale length, routing and brand. Selections the new category's
// catalogs no longer offer snap to the first available option; everything
// else is left as it was.
func (r *Record) SetCategory(c catalog.Category) {
	r.Category = c
	switch c {
	case catalog.BassGuitar:
		r.ScaleLength = BassScale
		r.CurrentRouting = BassRouting
		r.GuitarBrand = DefaultBrand
	case catalog.RhodesPiano:
		r.ScaleLength = RhodesScale
		r.CurrentRouting = RhodesRouting
		r.GuitarBrand = RhodesBrand
		if r.PianoYear == "" {
			r.PianoYear = catalog.RhodesEras.First()
		}
		if r.RhodesFailureInfo == "" {
			r.RhodesFailureInfo = catalog.RhodesFailureModes.First()
		}
		if r.PackSize == "" {
			r.PackSize = catalog.RhodesPackSizes.First()
		}
	default:
		r.ScaleLength = GuitarScale
		r.CurrentRouting = GuitarRouting
		r.GuitarBrand = DefaultBrand
	}

	r.GuitarType = snap(catalog.BodyShapes, r.GuitarType, c)
	r.PedalType = snap(catalog.Pedals, r.PedalType, c)
	r.AmpType = snap(catalog.Amps, r.AmpType, c)
}

func snap(list catalog.List, current string, c catalog.Category) string {
	if list.Allows(current, c) {
		return current
	}
	return list.Filter(c).First()
}

// ToggleToneGoal adds goal when absent and removes it when present.
func (r *Record) ToggleToneGoal(goal string) {
	if i := slices.Index(r.ToneGoals, goal); i >= 0 {
		r.ToneGoals = slices.Delete(slices.Clone(r.ToneGoals), i, i+1)
		return
	}
	r.ToneGoals = append(slices.Clone(r.ToneGoals), goal)
}

// Ready reports whether the intake may complete: at least one tone goal, and
// style text unless the instrument is a Rhodes.
func (r Record) Ready() bool {
	if len(r.ToneGoals) == 0 {
		return false
	}
	return r.EffectiveCategory().IsRhodes() || strings.TrimSpace(r.Style) != ""
}

// IsRhodes reports whether the record takes the Rhodes restoration branch.
func (r Record) IsRhodes() bool { return r.EffectiveCategory().IsRhodes() }

// EffectiveCategory returns the explicit category, inferring one for records
// saved without it: a Rhodes brand means Rhodes, a bass route means Bass.
func (r Record) EffectiveCategory() catalog.Category {
	if r.Category.Valid() {
		return r.Category
	}
	if strings.Contains(strings.ToLower(r.GuitarBrand), "rhodes") {
		return catalog.RhodesPiano
	}
	if catalog.Routes.Allows(r.CurrentRouting, catalog.BassGuitar) {
		return catalog.BassGuitar
	}
	return catalog.ElectricGuitar
}

// Normalized returns a copy with the category made explicit and Rhodes-only
// fields cleared when the instrument is not a Rhodes.
func (r Record) Normalized() Record {
	out := r.Clone()
	out.Category = r.EffectiveCategory()
	out.Style = strings.TrimSpace(out.Style)
	if !out.Category.IsRhodes() {
		out.PianoYear = ""
		out.RhodesFailureInfo = ""
		out.PackSize = ""
	}
	return out
}
