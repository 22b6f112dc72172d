package wizard

import (
	"errors"
	"fmt"
)

// Step is a position in the build sequence.
type Step int

const (
	Discovery Step = iota
	Engineering
	MasterPlan
	Fulfillment
)

var stepNames = [...]string{"discovery", "engineering", "master_plan", "fulfillment"}

func (s Step) String() string {
	if s < Discovery || s > Fulfillment {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// MarshalText renders the step name.
func (s Step) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// View is the screen shown over the step sequence.
type View string

const (
	ViewWizard     View = "wizard"
	ViewHistory    View = "history"
	ViewComparison View = "comparison"
	ViewManifest   View = "manifest"
	ViewCatalog    View = "catalog"
	ViewGallery    View = "gallery"
)

// Views lists every view.
var Views = []View{ViewWizard, ViewHistory, ViewComparison, ViewManifest, ViewCatalog, ViewGallery}

// ParseView validates a view name.
func ParseView(value string) (View, error) {
	for _, v := range Views {
		if string(v) == value {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown view %q", value)
}

var (
	// ErrTransition reports an action that is not valid in the current state.
	ErrTransition = errors.New("invalid transition")
	// ErrIntakeIncomplete reports a completion attempt without tone goals, or
	// without style text for a guitar or bass.
	ErrIntakeIncomplete = errors.New("intake incomplete")
)

func transitionErr(action string, step Step, view View) error {
	return fmt.Errorf("%w: %s not allowed at step %s in %s view", ErrTransition, action, step, view)
}
