package prefs

import (
	"context"
	"sync"

	"daytodo/internal/storage"
)

// Theme holds the dark-mode preference. It is persisted as a JSON boolean.
type Theme struct {
	mu   sync.RWMutex
	dark bool
}

func NewTheme() *Theme {
	return &Theme{}
}

func (t *Theme) Dark() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.dark
}

// Set reports whether the value changed.
func (t *Theme) Set(dark bool) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	changed := t.dark != dark
	t.dark = dark
	return changed
}

func (t *Theme) Reset() {
	t.Set(false)
}

// Load reads the persisted preference. An absent or unreadable slot means light mode.
func (t *Theme) Load(ctx context.Context, adapter *storage.Adapter) error {
	var dark bool
	found, err := adapter.LoadJSON(ctx, storage.SlotTheme, &dark)
	if err != nil || !found {
		t.Reset()
		return err
	}
	t.Set(dark)
	return nil
}

func (t *Theme) Save(ctx context.Context, adapter *storage.Adapter) error {
	return adapter.SaveJSON(ctx, storage.SlotTheme, t.Dark())
}
