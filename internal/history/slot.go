package history

import (
	"context"
	"fmt"
)

// SlotKey names the single record holding the saved design list.
const SlotKey = "ghostwood_designs"

// Slot is a single durable value. Read returns nil bytes when nothing has
// been written yet.
type Slot interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, value []byte) error
	Close() error
}

// StorageError reports a failed slot read or write. Reads fail open; write
// failures leave the in-memory list updated.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("history %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
