package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"path/filepath"
	"strings"
	"testing"

	apperrors "daytodo/internal/errors"
)

func TestSQLiteBackendRoundTrip(t *testing.T) {
	backend := newTestSQLite(t)
	ctx := context.Background()

	if _, found, err := backend.Get(ctx, SlotTasks); err != nil || found {
		t.Fatalf("expected empty slot, got found=%v err=%v", found, err)
	}

	if err := backend.Set(ctx, SlotTasks, []byte(`{"2024-03-01":[]}`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := backend.Set(ctx, SlotTasks, []byte(`{}`)); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	blob, found, err := backend.Get(ctx, SlotTasks)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !found || string(blob) != `{}` {
		t.Fatalf("expected overwritten blob, got found=%v blob=%q", found, blob)
	}

	if err := backend.Remove(ctx, SlotTasks); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, found, _ := backend.Get(ctx, SlotTasks); found {
		t.Fatalf("expected slot to be removed")
	}
	if err := backend.Remove(ctx, SlotTasks); err != nil {
		t.Fatalf("removing a missing slot should succeed: %v", err)
	}
}

func TestSQLiteBackendSlotsAreIndependent(t *testing.T) {
	backend := newTestSQLite(t)
	ctx := context.Background()

	if err := backend.Set(ctx, SlotTheme, []byte("true")); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if err := backend.Set(ctx, SlotWeather, []byte("{}")); err != nil {
		t.Fatalf("set weather: %v", err)
	}
	if err := backend.Remove(ctx, SlotTheme); err != nil {
		t.Fatalf("remove theme: %v", err)
	}
	if _, found, _ := backend.Get(ctx, SlotWeather); !found {
		t.Fatalf("expected weather slot to survive theme removal")
	}
}

func TestSQLiteBackendPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "todo.db")
	ctx := context.Background()

	first, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := first.Set(ctx, SlotTheme, []byte("true")); err != nil {
		t.Fatalf("set: %v", err)
	}
	_ = first.Close()

	second, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	blob, found, err := second.Get(ctx, SlotTheme)
	if err != nil || !found || string(blob) != "true" {
		t.Fatalf("expected persisted theme, got %q found=%v err=%v", blob, found, err)
	}
}

func TestOpenSQLiteRejectsEmptyPath(t *testing.T) {
	if _, err := OpenSQLite(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN("file:custom.db?mode=ro"); got != "file:custom.db?mode=ro" {
		t.Fatalf("expected file: DSN to pass through, got %s", got)
	}
	got := sqliteDSN(filepath.Join(t.TempDir(), "todo.db"))
	if !strings.HasPrefix(got, "file://") || !strings.Contains(got, "mode=rwc") {
		t.Fatalf("unexpected dsn %s", got)
	}
}

func TestAdapterLogsAndWrapsFailures(t *testing.T) {
	var buf bytes.Buffer
	backend := NewMemoryBackend()
	adapter := NewAdapter(backend, log.New(&buf, "", 0))
	backend.Fail(errors.New("quota exceeded"))

	err := adapter.Set(context.Background(), SlotTasks, []byte("{}"))
	if !apperrors.IsPersistence(err) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if !strings.Contains(buf.String(), "set tasks: quota exceeded") {
		t.Fatalf("expected failure to be logged, got %q", buf.String())
	}
}

func TestAdapterJSON(t *testing.T) {
	adapter := NewAdapter(NewMemoryBackend(), log.New(io.Discard, "", 0))
	ctx := context.Background()

	var dark bool
	found, err := adapter.LoadJSON(ctx, SlotTheme, &dark)
	if err != nil || found {
		t.Fatalf("expected absent slot, got found=%v err=%v", found, err)
	}

	if err := adapter.SaveJSON(ctx, SlotTheme, true); err != nil {
		t.Fatalf("save: %v", err)
	}
	found, err = adapter.LoadJSON(ctx, SlotTheme, &dark)
	if err != nil || !found || !dark {
		t.Fatalf("expected dark=true, got found=%v dark=%v err=%v", found, dark, err)
	}

	if err := adapter.Set(ctx, SlotTheme, []byte("not json")); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, err := adapter.LoadJSON(ctx, SlotTheme, &dark); !apperrors.IsPersistence(err) {
		t.Fatalf("expected decode failure to be a persistence error, got %v", err)
	}
}

func TestAdapterRemoveAll(t *testing.T) {
	backend := NewMemoryBackend()
	adapter := NewAdapter(backend, log.New(io.Discard, "", 0))
	ctx := context.Background()
	for _, slot := range Slots() {
		if err := adapter.Set(ctx, slot, []byte("1")); err != nil {
			t.Fatalf("set %s: %v", slot, err)
		}
	}
	if err := adapter.RemoveAll(ctx); err != nil {
		t.Fatalf("remove all: %v", err)
	}
	for _, slot := range Slots() {
		if _, found, _ := backend.Get(ctx, slot); found {
			t.Fatalf("expected %s to be removed", slot)
		}
	}
}

func TestRedisKey(t *testing.T) {
	backend := NewRedisBackend(nil, "")
	if got := backend.key(SlotWeather); got != "daytodo:weather-cache" {
		t.Fatalf("unexpected key %s", got)
	}
	backend = NewRedisBackend(nil, "alice")
	if got := backend.key(SlotTasks); got != "alice:tasks" {
		t.Fatalf("unexpected key %s", got)
	}
}

func newTestSQLite(t *testing.T) *SQLiteBackend {
	t.Helper()
	backend, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() {
		_ = backend.Close()
	})
	return backend
}
