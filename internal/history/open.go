package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"ghostwood/internal/config"
)

// OpenSlot opens the slot selected by history.backend and returns it with
// its path.
func OpenSlot(ctx context.Context, cfg *config.Config) (Slot, string, error) {
	if cfg == nil {
		return nil, "", errors.New("history: config required")
	}
	switch cfg.History.Backend {
	case config.HistoryBackendFile:
		path := cfg.HistoryFilePath()
		slot, err := NewFileSlot(path)
		if err != nil {
			return nil, path, err
		}
		return slot, path, nil
	case config.HistoryBackendSQLite, "":
		path := cfg.HistoryDBPath()
		slot, err := OpenSQLite(ctx, path)
		if err != nil {
			return nil, path, err
		}
		return slot, path, nil
	default:
		return nil, "", fmt.Errorf("history: unsupported backend %q", cfg.History.Backend)
	}
}

// OpenFromConfig opens the configured slot and loads the store. A slot that
// cannot be opened leaves the store in memory only; the error is returned
// alongside the usable store so callers can warn.
func OpenFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	opts := Options{Logger: logger}
	if cfg != nil {
		opts.MaxEntries = cfg.History.MaxEntries
	}
	slot, path, err := OpenSlot(ctx, cfg)
	if err != nil {
		return Open(ctx, nil, opts), &StorageError{Op: "open " + path, Err: err}
	}
	return Open(ctx, slot, opts), nil
}
