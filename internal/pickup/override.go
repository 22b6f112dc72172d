package pickup

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Override is a manual workshop adjustment. Nil fields are left unchanged.
type Override struct {
	MagnetType     *string `json:"magnetType,omitempty"`
	WindStyle      *string `json:"windStyle,omitempty"`
	WireGauge      *string `json:"wireGauge,omitempty"`
	Potting        *string `json:"potting,omitempty"`
	MagnetPolarity *string `json:"magnetPolarity,omitempty"`
}

// Empty reports whether o changes nothing.
func (o Override) Empty() bool {
	return o.MagnetType == nil && o.WindStyle == nil && o.WireGauge == nil &&
		o.Potting == nil && o.MagnetPolarity == nil
}

// Validate checks the enum-backed fields and rejects blank values.
func (o Override) Validate() error {
	if o.Empty() {
		return errors.New("override changes nothing")
	}
	for name, v := range map[string]*string{"magnetType": o.MagnetType, "wireGauge": o.WireGauge} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return fmt.Errorf("override %s is blank", name)
		}
	}
	if o.WindStyle != nil && !slices.Contains(WindStyles, *o.WindStyle) {
		return fmt.Errorf("override windStyle %q is not one of %v", *o.WindStyle, WindStyles)
	}
	if o.Potting != nil && !slices.Contains(Pottings, *o.Potting) {
		return fmt.Errorf("override potting %q is not one of %v", *o.Potting, Pottings)
	}
	if o.MagnetPolarity != nil && !slices.Contains(Polarities, *o.MagnetPolarity) {
		return fmt.Errorf("override magnetPolarity %q is not one of %v", *o.MagnetPolarity, Polarities)
	}
	return nil
}

// Apply returns a copy of s with the override's fields merged in. Derived
// fields (resistance, turns, response curve) are left as they were.
func (o Override) Apply(s Spec) Spec {
	out := s.Clone()
	if o.MagnetType != nil {
		out.MagnetType = *o.MagnetType
	}
	if o.WindStyle != nil {
		out.WindStyle = *o.WindStyle
	}
	if o.WireGauge != nil {
		out.WireGauge = *o.WireGauge
	}
	if o.Potting != nil {
		out.Potting = *o.Potting
	}
	if o.MagnetPolarity != nil {
		out.MagnetPolarity = *o.MagnetPolarity
	}
	return out
}

// WindStyleFromLabel maps a catalog wind style label such as
// "Overwound (+5%)" to its spec value.
func WindStyleFromLabel(label string) string {
	if i := strings.Index(label, " ("); i >= 0 {
		label = label[:i]
	}
	return strings.TrimSpace(label)
}
