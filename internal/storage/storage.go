package storage

import (
	"context"
	"encoding/json"
	"log"

	apperrors "daytodo/internal/errors"
)

type Slot string

const (
	SlotTasks   Slot = "tasks"
	SlotTheme   Slot = "theme"
	SlotWeather Slot = "weather-cache"
)

func Slots() []Slot {
	return []Slot{SlotTasks, SlotTheme, SlotWeather}
}

// Backend stores opaque blobs under named slots. A missing slot is reported with found=false.
type Backend interface {
	Get(ctx context.Context, slot Slot) (blob []byte, found bool, err error)
	Set(ctx context.Context, slot Slot, blob []byte) error
	Remove(ctx context.Context, slot Slot) error
	Close() error
}

// Adapter wraps a Backend so that every failure is logged and returned as a persistence
// exception. Callers keep their in-memory state regardless of the outcome.
type Adapter struct {
	backend Backend
	logger  *log.Logger
}

func NewAdapter(backend Backend, logger *log.Logger) *Adapter {
	if logger == nil {
		logger = log.Default()
	}
	return &Adapter{backend: backend, logger: logger}
}

func (a *Adapter) Get(ctx context.Context, slot Slot) ([]byte, bool, error) {
	blob, found, err := a.backend.Get(ctx, slot)
	if err != nil {
		return nil, false, a.fail("get", slot, err)
	}
	return blob, found, nil
}

func (a *Adapter) Set(ctx context.Context, slot Slot, blob []byte) error {
	if err := a.backend.Set(ctx, slot, blob); err != nil {
		return a.fail("set", slot, err)
	}
	return nil
}

func (a *Adapter) Remove(ctx context.Context, slot Slot) error {
	if err := a.backend.Remove(ctx, slot); err != nil {
		return a.fail("remove", slot, err)
	}
	return nil
}

// RemoveAll removes every slot, continuing past failures. The first failure is returned.
func (a *Adapter) RemoveAll(ctx context.Context) error {
	var first error
	for _, slot := range Slots() {
		if err := a.Remove(ctx, slot); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *Adapter) SaveJSON(ctx context.Context, slot Slot, value any) error {
	blob, err := json.Marshal(value)
	if err != nil {
		return a.fail("encode", slot, err)
	}
	return a.Set(ctx, slot, blob)
}

// LoadJSON decodes the slot into dst. found is false when the slot was never saved.
func (a *Adapter) LoadJSON(ctx context.Context, slot Slot, dst any) (bool, error) {
	blob, found, err := a.Get(ctx, slot)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(blob, dst); err != nil {
		return false, a.fail("decode", slot, err)
	}
	return true, nil
}

func (a *Adapter) Close() error {
	return a.backend.Close()
}

func (a *Adapter) fail(op string, slot Slot, err error) error {
	exc := apperrors.Persistence(op, string(slot), err)
	a.logger.Printf("storage: %v", exc)
	return exc
}
