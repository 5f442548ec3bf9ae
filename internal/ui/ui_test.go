package ui

import (
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"daytodo/internal/config"
	"daytodo/internal/model"
	"daytodo/internal/storage"
	"daytodo/internal/tracker"
	"daytodo/internal/weather"
)

var fixedNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestAddTaskWithCycledPriority(t *testing.T) {
	m := newTestModel(t)

	m = press(t, m, "a")
	if m.mode != modeAdd {
		t.Fatalf("expected add mode")
	}
	m = typeText(t, m, "Buy milk")
	m = press(t, m, "tab")
	m = press(t, m, "enter")

	if m.mode != modeList {
		t.Fatalf("expected list mode after add, got %v", m.mode)
	}
	if len(m.tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(m.tasks))
	}
	task := m.tasks[0]
	if task.Text != "Buy milk" || task.Priority != model.PriorityLow || task.Category != model.CategoryPersonal {
		t.Fatalf("unexpected task %+v", task)
	}
}

func TestAddEmptyTextStaysInAddMode(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "a")
	m = typeText(t, m, "   ")
	m = press(t, m, "enter")
	if m.mode != modeAdd {
		t.Fatalf("expected to stay in add mode")
	}
	if m.status != "Text cannot be empty" {
		t.Fatalf("unexpected status %q", m.status)
	}
	m = press(t, m, "esc")
	if m.mode != modeList || len(m.tasks) != 0 {
		t.Fatalf("expected cancel with no tasks")
	}
}

func TestToggleEditAndDelete(t *testing.T) {
	m := newTestModel(t)
	m = addTask(t, m, "Write report")

	m = press(t, m, " ")
	if !m.tasks[0].Completed {
		t.Fatalf("expected task to be completed")
	}

	m = press(t, m, "e")
	if m.mode != modeEdit || m.input.Value() != "Write report" {
		t.Fatalf("expected edit mode with current text, got %q", m.input.Value())
	}
	m = typeText(t, m, "!")
	m = press(t, m, "enter")
	if m.tasks[0].Text != "Write report!" {
		t.Fatalf("expected edited text, got %q", m.tasks[0].Text)
	}

	m = press(t, m, "d")
	if m.mode != modeConfirmDelete {
		t.Fatalf("expected delete confirmation")
	}
	m = press(t, m, "n")
	if len(m.tasks) != 1 {
		t.Fatalf("expected task to survive a declined delete")
	}
	m = press(t, m, "d")
	m = press(t, m, "y")
	if len(m.tasks) != 0 || m.mode != modeList {
		t.Fatalf("expected task deleted, got %d", len(m.tasks))
	}
}

func TestFilterCycling(t *testing.T) {
	m := newTestModel(t)
	m = addTask(t, m, "Normal one")

	m = press(t, m, "p")
	if got := m.tracker.Filter().Priority; got != "high" {
		t.Fatalf("expected high filter, got %s", got)
	}
	if len(m.tasks) != 0 {
		t.Fatalf("expected normal task to be filtered out")
	}
	m = press(t, m, "p")
	if len(m.tasks) != 1 {
		t.Fatalf("expected normal task under normal filter")
	}

	m = press(t, m, "c")
	if got := m.tracker.Filter().Category; got != "work" {
		t.Fatalf("expected work filter, got %s", got)
	}
}

func TestDayNavigation(t *testing.T) {
	m := newTestModel(t)
	m = addTask(t, m, "Today")

	m = press(t, m, "l")
	if got := m.tracker.SelectedDate(); got != "2024-03-02" {
		t.Fatalf("expected next day, got %s", got)
	}
	if len(m.tasks) != 0 {
		t.Fatalf("expected no tasks on the next day")
	}
	m = press(t, m, "h")
	if len(m.tasks) != 1 {
		t.Fatalf("expected task back on the first day")
	}
}

func TestThemeToggleAndClearAll(t *testing.T) {
	m := newTestModel(t)
	m = addTask(t, m, "Something")

	m = press(t, m, "m")
	if !m.tracker.Preference() {
		t.Fatalf("expected dark theme")
	}

	m = press(t, m, "X")
	if m.mode != modeConfirmClear {
		t.Fatalf("expected clear confirmation")
	}
	m = press(t, m, "y")
	if len(m.tasks) != 0 || m.tracker.Preference() {
		t.Fatalf("expected everything cleared")
	}
	if m.tracker.GlobalStats().Total != 0 {
		t.Fatalf("expected empty store")
	}
}

func TestWeatherRefreshCommand(t *testing.T) {
	m := newTestModel(t)
	if m.Init() == nil {
		t.Fatalf("expected refresh on start with an empty cache")
	}

	next, cmd := m.Update(keyMsg("w"))
	m = next.(Model)
	if cmd == nil || !m.refreshing {
		t.Fatalf("expected a refresh command")
	}
	next, _ = m.Update(cmd())
	m = next.(Model)
	if m.refreshing || m.status != "Weather updated" {
		t.Fatalf("unexpected state refreshing=%v status=%q", m.refreshing, m.status)
	}
	if !strings.Contains(m.View(), "맑음") {
		t.Fatalf("expected weather in view")
	}
	if m.Init() != nil {
		t.Fatalf("expected no refresh with a fresh record")
	}
}

func TestViewShowsTasksAndStats(t *testing.T) {
	m := newTestModel(t)
	m = addTask(t, m, "Read book")
	view := m.View()
	for _, want := range []string{"Read book", "day 0/1 done", "2024-03-01"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
}

func TestNextOption(t *testing.T) {
	opts := []string{"all", "high", "normal", "low"}
	if got := nextOption(opts, "low"); got != "all" {
		t.Fatalf("expected wrap to all, got %s", got)
	}
	if got := nextOption(opts, "bogus"); got != "all" {
		t.Fatalf("expected unknown to restart, got %s", got)
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	adapter := storage.NewAdapter(storage.NewMemoryBackend(), logger)
	fetcher := weather.FetcherFunc(func(context.Context) (model.Weather, error) {
		return model.Weather{Location: "창원시", Temperature: 18, Condition: "맑음", Icon: "☀️", Humidity: 50, WindSpeed: 2.4}, nil
	})
	tr := tracker.New(adapter, tracker.Options{
		Fetcher: fetcher,
		Logger:  logger,
		Clock:   func() time.Time { return fixedNow },
	})
	t.Cleanup(func() { _ = tr.Close(context.Background()) })
	return New(tr, config.Default())
}

func addTask(t *testing.T, m Model, text string) Model {
	t.Helper()
	m = press(t, m, "a")
	m = typeText(t, m, text)
	return press(t, m, "enter")
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m = press(t, m, string(r))
	}
	return m
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	next, _ := m.Update(keyMsg(key))
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", next)
	}
	return out
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}
