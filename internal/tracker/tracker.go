package tracker

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	apperrors "daytodo/internal/errors"
	"daytodo/internal/model"
	"daytodo/internal/prefs"
	"daytodo/internal/storage"
	"daytodo/internal/tasks"
	"daytodo/internal/views"
	"daytodo/internal/weather"
)

// Tracker is the single owner of the task store, the preference and the weather cache.
// Front ends call only its methods.
type Tracker struct {
	adapter *storage.Adapter
	store   *tasks.Store
	theme   *prefs.Theme
	weather *weather.Cache
	fetcher weather.Fetcher
	logger  *log.Logger
	now     func() time.Time
	writer  *writer

	mu        sync.RWMutex
	selected  string
	filter    views.Filter
	lastSaved time.Time
}

type Options struct {
	Fetcher weather.Fetcher
	Logger  *log.Logger
	Clock   func() time.Time
	// Store overrides the task store, mainly for deterministic ids in tests.
	Store *tasks.Store
}

func New(adapter *storage.Adapter, opts Options) *Tracker {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	store := opts.Store
	if store == nil {
		store = tasks.NewStore(tasks.WithClock(now))
	}
	cache := weather.NewCache(adapter, logger)
	cache.SetClock(now)

	t := &Tracker{
		adapter:  adapter,
		store:    store,
		theme:    prefs.NewTheme(),
		weather:  cache,
		fetcher:  opts.Fetcher,
		logger:   logger,
		now:      now,
		selected: model.DateKey(now()),
		filter:   views.DefaultFilter(),
	}
	t.writer = newWriter(t.persist)
	return t
}

// Load restores tasks, theme and a fresh weather record from storage. Failures are logged,
// the affected part starts empty, and the joined errors are returned for display.
func (t *Tracker) Load(ctx context.Context) error {
	var errs []error

	var days model.Days
	found, err := t.adapter.LoadJSON(ctx, storage.SlotTasks, &days)
	if err != nil {
		errs = append(errs, err)
	}
	if found {
		t.store.Replace(days)
	}

	if err := t.theme.Load(ctx, t.adapter); err != nil {
		errs = append(errs, err)
	}
	if _, err := t.weather.Load(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (t *Tracker) AddTask(date string, draft model.Draft) (model.Task, error) {
	task, err := t.store.Add(date, draft)
	if err != nil {
		return model.Task{}, err
	}
	t.logger.Printf("tracker: added task %s on %s", task.ID, date)
	t.writer.mark(batch{tasks: true})
	return task, nil
}

func (t *Tracker) ToggleTask(date, id string) (model.Task, error) {
	task, err := t.store.Toggle(date, id)
	if err != nil {
		return model.Task{}, err
	}
	t.writer.mark(batch{tasks: true})
	return task, nil
}

// EditTask reports whether the text changed. Unchanged text is a no-op and is not persisted.
func (t *Tracker) EditTask(date, id, text string) (bool, error) {
	_, changed, err := t.store.Edit(date, id, text)
	if err != nil || !changed {
		return false, err
	}
	t.writer.mark(batch{tasks: true})
	return true, nil
}

// DeleteTask removes a task without asking; confirmation belongs to the caller.
func (t *Tracker) DeleteTask(date, id string) error {
	if err := t.store.Delete(date, id); err != nil {
		return err
	}
	t.logger.Printf("tracker: deleted task %s on %s", id, date)
	t.writer.mark(batch{tasks: true})
	return nil
}

// ClearAll wipes tasks, the preference and the weather cache, and removes every persisted
// slot. It cannot be undone.
func (t *Tracker) ClearAll() {
	t.store.Clear()
	t.theme.Reset()
	t.weather.Reset()

	t.mu.Lock()
	t.lastSaved = time.Time{}
	t.mu.Unlock()

	t.logger.Printf("tracker: cleared all data")
	t.writer.mark(batch{clear: true})
}

func (t *Tracker) SetFilter(kind views.FilterKind, value string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	next, err := t.filter.With(kind, value)
	if err != nil {
		return err
	}
	t.filter = next
	return nil
}

func (t *Tracker) Filter() views.Filter {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.filter
}

func (t *Tracker) SelectDate(date string) error {
	if !model.ValidDate(date) {
		return apperrors.ErrInvalidDate
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selected = date
	return nil
}

func (t *Tracker) SelectedDate() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.selected
}

// FilteredTasks lists the selected day's tasks under the active filter.
func (t *Tracker) FilteredTasks() []model.Task {
	t.mu.RLock()
	date, filter := t.selected, t.filter
	t.mu.RUnlock()
	return views.FilteredTasks(t.store.Snapshot(), date, filter)
}

func (t *Tracker) FilteredTasksFor(date string, filter views.Filter) []model.Task {
	return views.FilteredTasks(t.store.Snapshot(), date, filter)
}

func (t *Tracker) CalendarMarkers() map[string]views.Marker {
	return views.CalendarMarkers(t.store.Snapshot(), t.SelectedDate())
}

func (t *Tracker) GlobalStats() views.Stats {
	return views.GlobalStats(t.store.Snapshot())
}

func (t *Tracker) DayStats(date string) views.DayStats {
	return views.Day(t.store.Snapshot(), date)
}

func (t *Tracker) Snapshot() model.Days {
	return t.store.Snapshot()
}

// RefreshExternalData fetches a new weather record. Failures leave the previous record in
// place and are returned for display only.
func (t *Tracker) RefreshExternalData(ctx context.Context) (model.Weather, error) {
	return t.weather.Refresh(ctx, t.fetcher)
}

func (t *Tracker) Weather() (model.Weather, time.Time, bool) {
	return t.weather.Current()
}

func (t *Tracker) WeatherStale() bool {
	return t.weather.Stale()
}

func (t *Tracker) SetPreference(dark bool) {
	if t.theme.Set(dark) {
		t.writer.mark(batch{theme: true})
	}
}

func (t *Tracker) Preference() bool {
	return t.theme.Dark()
}

// LastSaved is when tasks were last written successfully; zero if never in this session.
func (t *Tracker) LastSaved() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastSaved
}

// Flush blocks until pending writes reach storage.
func (t *Tracker) Flush(ctx context.Context) error {
	return t.writer.flush(ctx)
}

func (t *Tracker) Close(ctx context.Context) error {
	return t.writer.close(ctx)
}

func (t *Tracker) persist(ctx context.Context, b batch) {
	if b.clear {
		_ = t.adapter.RemoveAll(ctx)
	}
	if b.tasks {
		t.saveTasks(ctx, b.clear)
	}
	if b.theme {
		_ = t.theme.Save(ctx, t.adapter)
	}
}

// saveTasks writes the current mapping. Right after a clear an empty mapping is left unsaved
// so the slot stays absent.
func (t *Tracker) saveTasks(ctx context.Context, afterClear bool) {
	days := t.store.Snapshot()
	if afterClear && len(days) == 0 {
		return
	}
	if err := t.adapter.SaveJSON(ctx, storage.SlotTasks, days); err != nil {
		return
	}
	t.mu.Lock()
	t.lastSaved = t.now()
	t.mu.Unlock()
}
