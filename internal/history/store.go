package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"ghostwood/internal/design"
	"ghostwood/internal/logging"
)

// DefaultMaxEntries caps the saved list.
const DefaultMaxEntries = 10

// ErrNotFound is returned by Find for unknown ids.
var ErrNotFound = errors.New("design not found")

// Options configures a Store.
type Options struct {
	MaxEntries int
	Logger     *slog.Logger
}

// Store is the capped, newest-first list of saved designs, mirrored to a
// durable Slot. The in-memory list is authoritative for the process.
type Store struct {
	mu      sync.RWMutex
	slot    Slot
	max     int
	designs []design.Final
	logger  *slog.Logger
}

// Open loads the list from slot. An absent value yields an empty list; an
// unreadable or corrupt value is logged and also yields an empty list.
func Open(ctx context.Context, slot Slot, opts Options) *Store {
	s := &Store{
		slot:   slot,
		max:    opts.MaxEntries,
		logger: logging.NewComponentLogger(opts.Logger, "history"),
	}
	if s.max <= 0 {
		s.max = DefaultMaxEntries
	}
	s.designs = s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) []design.Final {
	if s.slot == nil {
		return nil
	}
	raw, err := s.slot.Read(ctx)
	if err != nil {
		s.logger.Warn("design history unreadable; starting empty",
			logging.Error(&StorageError{Op: "read", Err: err}))
		return nil
	}
	if len(raw) == 0 {
		return nil
	}
	designs, err := decode(raw)
	if err != nil {
		s.logger.Warn("design history corrupt; starting empty",
			logging.Error(&StorageError{Op: "decode", Err: err}))
		return nil
	}
	if len(designs) > s.max {
		designs = designs[:s.max]
	}
	s.logger.Debug("design history loaded", logging.Int("count", len(designs)))
	return designs
}

// decode parses the stored list, skipping individual entries that are not
// usable designs.
func decode(raw []byte) ([]design.Final, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	designs := make([]design.Final, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		var d design.Final
		if err := json.Unmarshal(entry, &d); err != nil {
			continue
		}
		if d.Check() != nil {
			continue
		}
		if _, dup := seen[d.ID]; dup {
			continue
		}
		seen[d.ID] = struct{}{}
		designs = append(designs, d)
	}
	return designs, nil
}

// Save puts d at the front, removing any earlier entry with the same id and
// trimming the list to the cap, then persists the whole list. A write
// failure is returned as a *StorageError; the in-memory list keeps the change.
func (s *Store) Save(ctx context.Context, d design.Final) error {
	if err := d.Check(); err != nil {
		return fmt.Errorf("save design: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]design.Final, 0, min(len(s.designs)+1, s.max))
	next = append(next, d.Clone())
	for _, existing := range s.designs {
		if existing.ID == d.ID {
			continue
		}
		if len(next) == s.max {
			break
		}
		next = append(next, existing)
	}
	s.designs = next
	s.logger.Info("design saved",
		logging.String(logging.FieldDesignID, d.ID),
		logging.Int("count", len(next)),
	)
	return s.persist(ctx)
}

// Delete removes the design with id. Unknown ids return ErrNotFound.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.designs, func(d design.Final) bool { return d.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	s.designs = slices.Delete(slices.Clone(s.designs), i, i+1)
	return s.persist(ctx)
}

// Clear empties the list and the slot.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.designs = nil
	return s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) error {
	if s.slot == nil {
		return nil
	}
	list := s.designs
	if list == nil {
		list = []design.Final{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return &StorageError{Op: "encode", Err: err}
	}
	if err := s.slot.Write(ctx, data); err != nil {
		storageErr := &StorageError{Op: "write", Err: err}
		s.logger.Warn("design history write failed", logging.Error(storageErr))
		return storageErr
	}
	return nil
}

// List returns the designs newest first.
func (s *Store) List() []design.Final {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]design.Final, len(s.designs))
	for i, d := range s.designs {
		out[i] = d.Clone()
	}
	return out
}

// Find returns the design with id.
func (s *Store) Find(id string) (design.Final, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.designs {
		if d.ID == id {
			return d.Clone(), nil
		}
	}
	return design.Final{}, fmt.Errorf("%w: %s", ErrNotFound, id)
}

// Has reports whether id is saved.
func (s *Store) Has(id string) bool {
	_, err := s.Find(id)
	return err == nil
}

// Len returns the number of saved designs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.designs)
}

// Close closes the slot.
func (s *Store) Close() error {
	if s.slot == nil {
		return nil
	}
	return s.slot.Close()
}
