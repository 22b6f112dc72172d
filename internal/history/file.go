package history

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// FileSlot keeps the slot value in a JSON file. Writers take an exclusive
// flock on a sidecar lock file and replace the file by atomic rename, so
// readers never observe a partial write.
type FileSlot struct {
	path string
	lock *flock.Flock
}

// NewFileSlot returns a slot stored at path.
func NewFileSlot(path string) (*FileSlot, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}
	return &FileSlot{path: path, lock: flock.New(path + ".lock")}, nil
}

// Path returns the data file location.
func (f *FileSlot) Path() string { return f.path }

// Read returns the file contents, or nil when the file does not exist.
func (f *FileSlot) Read(ctx context.Context) ([]byte, error) {
	ok, err := f.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("lock %s: %w", f.lock.Path(), err)
	}
	if !ok {
		return nil, fmt.Errorf("lock %s: not acquired", f.lock.Path())
	}
	defer func() { _ = f.lock.Unlock() }()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return data, nil
}

// Write replaces the file contents.
func (f *FileSlot) Write(ctx context.Context, value []byte) error {
	ok, err := f.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("lock %s: %w", f.lock.Path(), err)
	}
	if !ok {
		return fmt.Errorf("lock %s: not acquired", f.lock.Path())
	}
	defer func() { _ = f.lock.Unlock() }()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("replace %s: %w", f.path, err)
	}
	return nil
}

// Close releases the lock file handle.
func (f *FileSlot) Close() error {
	return f.lock.Close()
}
