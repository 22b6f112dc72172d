package compare

import "slices"

// MaxSelected is the size of a comparison pair.
const MaxSelected = 2

// Selection is the rolling set of design ids picked for comparison. The zero
// value is empty and ready to use.
type Selection struct {
	ids []string
}

// Toggle removes id when selected. Otherwise it adds id, evicting the
// earliest selection when the pair is already full.
func (s *Selection) Toggle(id string) {
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
		return
	}
	if len(s.ids) < MaxSelected {
		s.ids = append(s.ids, id)
		return
	}
	s.ids = []string{s.ids[len(s.ids)-1], id}
}

// IDs returns the selected ids in selection order.
func (s *Selection) IDs() []string { return slices.Clone(s.ids) }

// Contains reports whether id is selected.
func (s *Selection) Contains(id string) bool { return slices.Contains(s.ids, id) }

// Complete reports whether exactly two designs are selected.
func (s *Selection) Complete() bool { return len(s.ids) == MaxSelected }

// Pair returns the two selected ids.
func (s *Selection) Pair() (string, string, bool) {
	if !s.Complete() {
		return "", "", false
	}
	return s.ids[0], s.ids[1], true
}

// Retain drops ids for which keep returns false.
func (s *Selection) Retain(keep func(id string) bool) {
	s.ids = slices.DeleteFunc(s.ids, func(id string) bool { return !keep(id) })
}

// Clear empties the selection.
func (s *Selection) Clear() { s.ids = nil }
