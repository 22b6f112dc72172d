package generation

import (
	"errors"
	"fmt"
)

var (
	// ErrGeneration matches every GenerationError via errors.Is.
	ErrGeneration = errors.New("generation failed")
	// ErrLookup matches every LookupError via errors.Is.
	ErrLookup = errors.New("lookup failed")
)

// BusyMessage is the retry prompt shown when generation fails.
const BusyMessage = "The workshop is currently busy. Please try again."

// GenerationError reports that a provider call failed or returned a payload
// that does not conform to the requested shape. Nothing from a failed call is
// applied.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("generation %s failed", e.Op)
	}
	return fmt.Sprintf("generation %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// UserMessage is the retry-eligible text safe to show a customer.
func (e *GenerationError) UserMessage() string { return BusyMessage }

// Fail wraps err as a GenerationError for op, leaving existing ones intact.
func Fail(op string, err error) error {
	if err == nil {
		return nil
	}
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return err
	}
	return &GenerationError{Op: op, Err: err}
}

// LookupError reports a failed heritage or demo discovery call. It is never
// surfaced to the customer; the affected panel falls back to defaults.
type LookupError struct {
	Op  string
	Err error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("lookup %s: %v", e.Op, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

func (e *LookupError) Is(target error) bool { return target == ErrLookup }
