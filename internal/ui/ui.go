package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"daytodo/internal/config"
	apperrors "daytodo/internal/errors"
	"daytodo/internal/model"
	"daytodo/internal/tracker"
	"daytodo/internal/views"
)

const refreshTimeout = 10 * time.Second

type mode int

const (
	modeList mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
	modeConfirmClear
)

type weatherMsg struct {
	weather model.Weather
	err     error
}

type Model struct {
	tracker    *tracker.Tracker
	cfg        config.Config
	tasks      []model.Task
	cursor     int
	mode       mode
	input      textinput.Model
	status     string
	pendingDel *model.Task
	editID     string
	draft      model.Draft
	refreshing bool
	width      int
	styles     styles
}

func New(t *tracker.Tracker, cfg config.Config) Model {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 256
	ti.Width = 40

	m := Model{
		tracker: t,
		cfg:     cfg,
		input:   ti,
		mode:    modeList,
		status:  fmt.Sprintf("Press '%s' to add, space to toggle, '%s' to delete.", cfg.Keys.Add, cfg.Keys.Delete),
		styles:  newStyles(t.Preference()),
	}
	m.reload()
	return m
}

func Run(t *tracker.Tracker, cfg config.Config) error {
	program := tea.NewProgram(New(t, cfg), tea.WithAltScreen())
	_, err := program.Run()
	return err
}

// Init kicks off a weather refresh when the cached record is missing or older than an hour.
func (m Model) Init() tea.Cmd {
	if m.tracker.WeatherStale() {
		return m.refreshWeather()
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.mode {
		case modeConfirmDelete:
			return m.updateDeleteConfirm(msg.String())
		case modeConfirmClear:
			return m.updateClearConfirm(msg.String())
		case modeAdd:
			return m.updateAddMode(msg.String(), msg)
		case modeEdit:
			return m.updateEditMode(msg.String(), msg)
		}
		return m.updateListMode(msg.String())
	case weatherMsg:
		m.refreshing = false
		switch {
		case errors.Is(msg.err, apperrors.ErrRefreshInProgress):
			m.status = "Weather refresh already running"
		case msg.err != nil:
			m.status = fmt.Sprintf("weather refresh failed: %v", msg.err)
		case msg.weather != (model.Weather{}):
			m.status = "Weather updated"
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-10, 10)
	}
	return m, nil
}

func (m Model) refreshWeather() tea.Cmd {
	t := m.tracker
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		w, err := t.RefreshExternalData(ctx)
		return weatherMsg{weather: w, err: err}
	}
}

func (m Model) updateListMode(key string) (tea.Model, tea.Cmd) {
	keys := m.cfg.Keys
	switch key {
	case "ctrl+c", keys.Quit:
		return m, tea.Quit
	case keys.Down, "down":
		if len(m.tasks) > 0 {
			m.cursor = clampCursor(m.cursor+1, len(m.tasks))
		}
	case keys.Up, "up":
		if m.cursor > 0 {
			m.cursor = clampCursor(m.cursor-1, len(m.tasks))
		}
	case keys.PrevDay, "left":
		m.selectDate(model.ShiftDate(m.tracker.SelectedDate(), -1))
	case keys.NextDay, "right":
		m.selectDate(model.ShiftDate(m.tracker.SelectedDate(), 1))
	case keys.Today:
		m.selectDate(model.Today())
	case keys.Add:
		m.mode = modeAdd
		m.draft = model.Draft{
			Priority: model.Priority(m.cfg.DefaultPriority),
			Category: model.Category(m.cfg.DefaultCategory),
		}
		m.input.SetValue("")
		m.input.Placeholder = "What needs doing?"
		m.input.Focus()
		m.status = m.addPrompt()
	case keys.Toggle:
		task, ok := m.current()
		if !ok {
			return m, nil
		}
		if _, err := m.tracker.ToggleTask(m.tracker.SelectedDate(), task.ID); err != nil {
			m.status = fmt.Sprintf("toggle failed: %v", err)
			return m, nil
		}
		m.reload()
		m.status = "Toggled task"
	case keys.Delete:
		task, ok := m.current()
		if !ok {
			return m, nil
		}
		m.pendingDel = &task
		m.mode = modeConfirmDelete
		m.status = fmt.Sprintf("Delete \"%s\"? y/n", task.Text)
	case keys.Edit:
		task, ok := m.current()
		if !ok {
			m.status = "No tasks to edit"
			return m, nil
		}
		m.mode = modeEdit
		m.editID = task.ID
		m.input.SetValue(task.Text)
		m.input.CursorEnd()
		m.input.Focus()
		m.status = "Edit text: enter to save, esc to cancel"
	case keys.FilterPriority:
		f := m.tracker.Filter()
		m.setFilter(views.FilterPriority, nextOption(views.PriorityOptions(), f.Priority))
	case keys.FilterCategory:
		f := m.tracker.Filter()
		m.setFilter(views.FilterCategory, nextOption(views.CategoryOptions(), f.Category))
	case keys.Weather:
		if m.refreshing {
			m.status = "Weather refresh already running"
			return m, nil
		}
		m.refreshing = true
		m.status = "Refreshing weather..."
		return m, m.refreshWeather()
	case keys.Theme:
		dark := !m.tracker.Preference()
		m.tracker.SetPreference(dark)
		m.styles = newStyles(dark)
		m.status = "Theme: " + themeName(dark)
	case keys.ClearAll:
		m.mode = modeConfirmClear
		m.status = "Clear ALL tasks, theme and weather? This cannot be undone. y/n"
	}
	return m, nil
}

func (m Model) updateAddMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.leaveInput()
		m.status = "Cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		m.draft.Text = m.input.Value()
		if _, err := m.tracker.AddTask(m.tracker.SelectedDate(), m.draft); err != nil {
			m.status = inputError("add", err)
			return m, nil
		}
		m.leaveInput()
		m.reload()
		m.cursor = clampCursor(len(m.tasks)-1, len(m.tasks))
		m.status = "Added task"
		return m, nil
	case m.cfg.Keys.CyclePriority:
		m.draft.Priority = model.Priority(nextOption(priorityNames(), string(m.draft.Priority)))
		m.status = m.addPrompt()
		return m, nil
	case m.cfg.Keys.CycleCategory:
		m.draft.Category = model.Category(nextOption(categoryNames(), string(m.draft.Category)))
		m.status = m.addPrompt()
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateEditMode(key string, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key {
	case m.cfg.Keys.Cancel:
		m.leaveInput()
		m.status = "Edit cancelled"
		return m, nil
	case m.cfg.Keys.Confirm:
		changed, err := m.tracker.EditTask(m.tracker.SelectedDate(), m.editID, m.input.Value())
		if err != nil {
			m.status = inputError("edit", err)
			return m, nil
		}
		m.leaveInput()
		m.reload()
		if changed {
			m.status = "Task updated"
		} else {
			m.status = "No changes"
		}
		return m, nil
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m Model) updateDeleteConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Delete cancelled"
	case "y", "Y":
		if m.pendingDel == nil {
			m.status = "Nothing to delete"
			break
		}
		if err := m.tracker.DeleteTask(m.tracker.SelectedDate(), m.pendingDel.ID); err != nil {
			m.status = fmt.Sprintf("delete failed: %v", err)
			break
		}
		m.reload()
		m.status = "Deleted task"
	default:
		return m, nil
	}
	m.mode = modeList
	m.pendingDel = nil
	return m, nil
}

func (m Model) updateClearConfirm(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "y", "Y":
		m.tracker.ClearAll()
		m.styles = newStyles(m.tracker.Preference())
		m.reload()
		m.status = "All data cleared"
	case "n", "N", m.cfg.Keys.Cancel:
		m.status = "Clear cancelled"
	default:
		return m, nil
	}
	m.mode = modeList
	return m, nil
}

func (m *Model) selectDate(date string) {
	if err := m.tracker.SelectDate(date); err != nil {
		m.status = fmt.Sprintf("select failed: %v", err)
		return
	}
	m.cursor = 0
	m.reload()
	m.status = date
}

func (m *Model) setFilter(kind views.FilterKind, value string) {
	if err := m.tracker.SetFilter(kind, value); err != nil {
		m.status = fmt.Sprintf("filter failed: %v", err)
		return
	}
	m.cursor = 0
	m.reload()
	m.status = fmt.Sprintf("Filter %s: %s", kind, value)
}

func (m *Model) leaveInput() {
	m.mode = modeList
	m.editID = ""
	m.input.SetValue("")
	m.input.Blur()
}

func (m *Model) reload() {
	m.tasks = m.tracker.FilteredTasks()
	m.cursor = clampCursor(m.cursor, len(m.tasks))
}

func (m Model) current() (model.Task, bool) {
	if len(m.tasks) == 0 {
		return model.Task{}, false
	}
	return m.tasks[clampCursor(m.cursor, len(m.tasks))], true
}

func (m Model) addPrompt() string {
	return fmt.Sprintf("Add to %s • priority:%s (%s) • category:%s (%s) • enter to save, %s to cancel",
		m.tracker.SelectedDate(), m.draft.Priority, m.cfg.Keys.CyclePriority,
		m.draft.Category, m.cfg.Keys.CycleCategory, m.cfg.Keys.Cancel)
}

func inputError(op string, err error) string {
	if errors.Is(err, apperrors.ErrEmptyText) {
		return "Text cannot be empty"
	}
	return fmt.Sprintf("%s failed: %v", op, err)
}

func priorityNames() []string {
	names := make([]string, 0, 3)
	for _, p := range model.Priorities() {
		names = append(names, string(p))
	}
	return names
}

func categoryNames() []string {
	names := make([]string, 0, 6)
	for _, c := range model.Categories() {
		names = append(names, string(c))
	}
	return names
}

// nextOption returns the option after current, wrapping around. Unknown values start over.
func nextOption(options []string, current string) string {
	for i, opt := range options {
		if opt == current {
			return options[wrapIndex(i+1, len(options))]
		}
	}
	return options[0]
}

func wrapIndex(idx, n int) int {
	if n <= 0 {
		return 0
	}
	idx %= n
	if idx < 0 {
		idx += n
	}
	return idx
}

func clampCursor(cur, n int) int {
	if n <= 0 {
		return 0
	}
	if cur < 0 {
		return 0
	}
	if cur >= n {
		return n - 1
	}
	return cur
}

func themeName(dark bool) string {
	if dark {
		return "dark"
	}
	return "light"
}
