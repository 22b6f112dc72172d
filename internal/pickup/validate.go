package pickup

import (
	"fmt"
	"slices"

	"ghostwood/internal/catalog"
	"ghostwood/internal/generation"
)

// Rhodes coils are specified in ohms, never kilohms.
const (
	RhodesMinOhms = 150
	RhodesMaxOhms = 260
)

// Constraints are the category rules a generated spec must satisfy on top of
// the structured-output schema.
type Constraints struct {
	// Magnets, when non-empty, is the whitelist for magnetType.
	Magnets []string
	// MinOhms and MaxOhms, when MaxOhms > 0, bound the parsed dcResistance.
	MinOhms float64
	MaxOhms float64
	// OhmsOnly rejects resistances written with a k or M prefix.
	OhmsOnly bool
}

// ConstraintsFor returns the rules for category: the magnet whitelist for
// guitar and bass, the ohmic range for Rhodes.
func ConstraintsFor(category catalog.Category) Constraints {
	if category.IsRhodes() {
		return Constraints{MinOhms: RhodesMinOhms, MaxOhms: RhodesMaxOhms, OhmsOnly: true}
	}
	return Constraints{Magnets: catalog.MagnetTypes.Labels()}
}

// SchemaFor narrows Schema to category: guitar and bass specs constrain
// magnetType to the whitelist.
func SchemaFor(category catalog.Category) *generation.Schema {
	s := Schema()
	if c := ConstraintsFor(category); len(c.Magnets) > 0 {
		s.Properties["magnetType"] = generation.String(c.Magnets...)
	}
	return s
}

// Decode parses a provider payload into a Spec, rejecting anything that does
// not strictly conform to the schema and category constraints.
func Decode(content string, category catalog.Category) (Spec, error) {
	var spec Spec
	if err := generation.DecodeJSON(content, SchemaFor(category), &spec); err != nil {
		return Spec{}, err
	}
	if err := spec.Check(ConstraintsFor(category)); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// Validate checks enum fields and the category constraints on an already
// decoded spec.
func (s Spec) Validate(category catalog.Category) error {
	if !slices.Contains(WindStyles, s.WindStyle) {
		return fmt.Errorf("windStyle %q is not one of %v", s.WindStyle, WindStyles)
	}
	if !slices.Contains(Polarities, s.MagnetPolarity) {
		return fmt.Errorf("magnetPolarity %q is not one of %v", s.MagnetPolarity, Polarities)
	}
	if !slices.Contains(Pottings, s.Potting) {
		return fmt.Errorf("potting %q is not one of %v", s.Potting, Pottings)
	}
	return s.Check(ConstraintsFor(category))
}

// Check applies c to s.
func (s Spec) Check(c Constraints) error {
	if len(c.Magnets) > 0 && !slices.Contains(c.Magnets, s.MagnetType) {
		return fmt.Errorf("magnetType %q is not a standard magnet", s.MagnetType)
	}
	if c.MaxOhms > 0 || c.OhmsOnly {
		r, err := ParseResistance(s.DCResistance)
		if err != nil {
			return fmt.Errorf("dcResistance: %w", err)
		}
		if c.OhmsOnly && r.Scaled() {
			return fmt.Errorf("dcResistance %q must be given in ohms, not %sOhms", s.DCResistance, r.Multiplier)
		}
		if c.MaxOhms > 0 && (r.Ohms < c.MinOhms || r.Ohms > c.MaxOhms) {
			return fmt.Errorf("dcResistance %q is outside %.0f-%.0f ohms", s.DCResistance, c.MinOhms, c.MaxOhms)
		}
	}
	return nil
}
