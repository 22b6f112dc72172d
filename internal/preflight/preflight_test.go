package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ghostwood/internal/config"
)

type healthStub struct {
	err   error
	calls int
}

func (h *healthStub) HealthCheck(context.Context) error {
	h.calls++
	return h.err
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckProvider(t *testing.T) {
	ok := &healthStub{}
	if result := CheckProvider(context.Background(), "provider", ok); !result.Passed || ok.calls != 1 {
		t.Fatalf("expected pass, got %+v", result)
	}

	bad := &healthStub{err: errors.New("http 401: unauthorized")}
	result := CheckProvider(context.Background(), "provider", bad)
	if result.Passed || !strings.Contains(result.Detail, "401") {
		t.Fatalf("expected failure with detail, got %+v", result)
	}

	slow := &healthStub{err: context.DeadlineExceeded}
	if result := CheckProvider(context.Background(), "provider", slow); !strings.Contains(result.Detail, "timed out") {
		t.Fatalf("expected timeout summary, got %+v", result)
	}

	if result := CheckProvider(context.Background(), "provider", nil); result.Passed {
		t.Fatal("expected failure for nil provider")
	}
}

func TestRun_NilConfig(t *testing.T) {
	if results := Run(context.Background(), nil, nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRun_AllPassing(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = t.TempDir()

	results := Run(context.Background(), &cfg, &healthStub{})
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
}

func TestRun_MissingProviderReportsKeyHint(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.DataDir = t.TempDir()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "missing")

	results := Run(context.Background(), &cfg, nil)
	failed := Failed(results)
	if len(failed) != 2 {
		t.Fatalf("expected log dir and provider failures, got %+v", failed)
	}
	if !strings.Contains(failed[1].Detail, "api_key") {
		t.Fatalf("expected key hint, got %q", failed[1].Detail)
	}
}
