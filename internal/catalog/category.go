package catalog

import (
	"fmt"
	"strings"
)

// Category identifies the instrument a commission is for.
type Category string

const (
	ElectricGuitar Category = "Electric Guitar"
	BassGuitar     Category = "Bass Guitar"
	RhodesPiano    Category = "Rhodes Electric Piano"
)

// Categories lists every instrument category in display order.
var Categories = []Category{ElectricGuitar, BassGuitar, RhodesPiano}

// ParseCategory accepts the display name or a short alias (guitar, bass, rhodes).
func ParseCategory(value string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "electric guitar", "guitar", "electric":
		return ElectricGuitar, nil
	case "bass guitar", "bass":
		return BassGuitar, nil
	case "rhodes electric piano", "rhodes", "piano":
		return RhodesPiano, nil
	default:
		return "", fmt.Errorf("unknown instrument category %q", value)
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryBits[c]
	return ok
}

// IsRhodes reports whether the category selects the Rhodes restoration branch.
func (c Category) IsRhodes() bool { return c == RhodesPiano }

// Slug is the short lowercase alias used by the CLI and query strings.
func (c Category) Slug() string {
	switch c {
	case ElectricGuitar:
		return "guitar"
	case BassGuitar:
		return "bass"
	case RhodesPiano:
		return "rhodes"
	default:
		return ""
	}
}

// LeadTimeDays is the bench lead time quoted on the build sheet.
func (c Category) LeadTimeDays() int {
	if c.IsRhodes() {
		return 28
	}
	return 21
}

// CategorySet is the set of categories an option applies to.
type CategorySet uint8

var categoryBits = map[Category]CategorySet{
	ElectricGuitar: 1 << 0,
	BassGuitar:     1 << 1,
	RhodesPiano:    1 << 2,
}

// Set builds a CategorySet from the given categories.
func Set(categories ...Category) CategorySet {
	var s CategorySet
	for _, c := range categories {
		s |= categoryBits[c]
	}
	return s
}

var (
	guitarOnly = Set(ElectricGuitar)
	bassOnly   = Set(BassGuitar)
	rhodesOnly = Set(RhodesPiano)
	stringed   = Set(ElectricGuitar, BassGuitar)
	everywhere = Set(ElectricGuitar, BassGuitar, RhodesPiano)
)

// Has reports whether c is a member of the set.
func (s CategorySet) Has(c Category) bool {
	bit, ok := categoryBits[c]
	return ok && s&bit != 0
}

// Members returns the set's categories in display order.
func (s CategorySet) Members() []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s CategorySet) String() string {
	members := s.Members()
	parts := make([]string, len(members))
	for i, c := range members {
		parts[i] = c.Slug()
	}
	return strings.Join(parts, ",")
}

// MarshalText renders the set as comma separated slugs.
func (s CategorySet) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
