// Package design assembles a confirmed commission: identity, creation time,
// the intake it came from and the pickup spec it produced.
package design

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"

	"ghostwood/internal/intake"
	"ghostwood/internal/pickup"
)

// IDPrefix starts every workshop id.
const IDPrefix = "GW-"

var idPattern = regexp.MustCompile(`^GW-\d{4}$`)

// Final is a confirmed design. It is immutable once created; changes are
// made by replacing the whole value.
type Final struct {
	ID        string        `json:"id"`
	Timestamp int64         `json:"timestamp"`
	Intake    intake.Record `json:"intake"`
	Pickup    pickup.Spec   `json:"pickup"`
}

// Factory mints designs from an injectable clock and random source.
type Factory struct {
	Now  func() time.Time
	Rand func(n int) int
}

// DefaultFactory uses wall-clock time and math/rand.
var DefaultFactory = Factory{Now: time.Now, Rand: rand.IntN}

// New builds a Final from a confirmed spec using DefaultFactory.
func New(rec intake.Record, spec pickup.Spec) Final {
	return DefaultFactory.New(rec, spec)
}

// New builds a Final with a fresh id and the current time in milliseconds.
func (f Factory) New(rec intake.Record, spec pickup.Spec) Final {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	return Final{
		ID:        f.NewID(),
		Timestamp: now().UnixMilli(),
		Intake:    rec.Clone(),
		Pickup:    spec.Clone(),
	}
}

// NewID returns "GW-" followed by a number in [1000, 9999].
func (f Factory) NewID() string {
	intn := rand.IntN
	if f.Rand != nil {
		intn = f.Rand
	}
	return fmt.Sprintf("%s%d", IDPrefix, 1000+intn(9000))
}

// ValidID reports whether id has the workshop id shape.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// CreatedAt returns the timestamp as a time.Time.
func (d Final) CreatedAt() time.Time {
	return time.UnixMilli(d.Timestamp)
}

// Clone returns a deep copy.
func (d Final) Clone() Final {
	d.Intake = d.Intake.Clone()
	d.Pickup = d.Pickup.Clone()
	return d
}

// Check verifies the design is complete enough to store.
func (d Final) Check() error {
	if strings.TrimSpace(d.ID) == "" {
		return errors.New("design id required")
	}
	if d.Timestamp <= 0 {
		return fmt.Errorf("design %s: timestamp required", d.ID)
	}
	if strings.TrimSpace(d.Pickup.Type) == "" {
		return fmt.Errorf("design %s: pickup spec required", d.ID)
	}
	return nil
}
