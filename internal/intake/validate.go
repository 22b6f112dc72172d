package intake

import (
	"errors"
	"fmt"

	"ghostwood/internal/catalog"
)

// FieldError reports a catalog field holding a value the category does not offer.
type FieldError struct {
	Field string
	Value string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("intake %s: %q is not an available option", e.Field, e.Value)
}

// Validate checks every populated catalog-backed field against the options
// offered for the record's category. Free-text fields are not checked, and
// guitar/bass chassis fields are ignored for Rhodes.
func (r Record) Validate() error {
	category := r.EffectiveCategory()
	var errs []error

	check := func(field string, list catalog.List, value string) {
		if value == "" {
			return
		}
		if !list.Allows(value, category) {
			errs = append(errs, &FieldError{Field: field, Value: value})
		}
	}

	for _, goal := range r.ToneGoals {
		check("toneGoals", catalog.ToneGoals, goal)
	}
	check("pedalType", catalog.Pedals, r.PedalType)
	check("ampType", catalog.Amps, r.AmpType)
	check("performanceType", catalog.PerformanceTypes, r.PerformanceType)

	if category.IsRhodes() {
		check("pianoYear", catalog.RhodesEras, r.PianoYear)
		check("rhodesFailureInfo", catalog.RhodesFailureModes, r.RhodesFailureInfo)
		check("packSize", catalog.RhodesPackSizes, r.PackSize)
	} else {
		check("dynamics", catalog.Dynamics, r.Dynamics)
		check("guitarType", catalog.BodyShapes, r.GuitarType)
		check("bodyWood", catalog.Woods, r.BodyWood)
		check("currentRouting", catalog.Routes, r.CurrentRouting)
		check("guitarBrand", catalog.Brands, r.GuitarBrand)
	}

	return errors.Join(errs...)
}
