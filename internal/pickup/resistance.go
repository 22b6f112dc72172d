package pickup

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var resistancePattern = regexp.MustCompile(`(\d[\d,]*(?:\.\d+)?)\s*([kKM])?`)

// Resistance is a parsed display resistance. Multiplier is "" for plain
// ohms, "k" or "M" when the string used a metric prefix.
type Resistance struct {
	Ohms       float64
	Multiplier string
}

// Scaled reports whether the value was written with a k or M prefix.
func (r Resistance) Scaled() bool { return r.Multiplier != "" }

// ParseResistance reads the first resistance in a display string such as
// "195 Ω", "~7.8k", "8,200 ohms" or "6.2 kOhm".
func ParseResistance(value string) (Resistance, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Resistance{}, errors.New("empty resistance")
	}
	match := resistancePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return Resistance{}, fmt.Errorf("no numeric resistance in %q", value)
	}
	number, err := strconv.ParseFloat(strings.ReplaceAll(match[1], ",", ""), 64)
	if err != nil {
		return Resistance{}, fmt.Errorf("parse resistance %q: %w", value, err)
	}
	r := Resistance{Ohms: number}
	switch match[2] {
	case "k", "K":
		r.Ohms *= 1_000
		r.Multiplier = "k"
	case "M":
		r.Ohms *= 1_000_000
		r.Multiplier = "M"
	}
	return r, nil
}

// ParseResistanceOhms is ParseResistance reduced to ohms.
func ParseResistanceOhms(value string) (float64, error) {
	r, err := ParseResistance(value)
	return r.Ohms, err
}
