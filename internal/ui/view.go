package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"daytodo/internal/config"
	"daytodo/internal/model"
	"daytodo/internal/views"
	"daytodo/internal/weather"
)

type styles struct {
	title    lipgloss.Style
	muted    lipgloss.Style
	cursor   lipgloss.Style
	done     lipgloss.Style
	status   lipgloss.Style
	selected lipgloss.Style
	box      lipgloss.Style
	priority map[model.Priority]lipgloss.Style
}

func newStyles(dark bool) styles {
	fg, muted, border := lipgloss.Color("#212121"), lipgloss.Color("#757575"), lipgloss.Color("#BDBDBD")
	if dark {
		fg, muted, border = lipgloss.Color("#ECEFF1"), lipgloss.Color("#90A4AE"), lipgloss.Color("#455A64")
	}
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(fg),
		muted:    lipgloss.NewStyle().Foreground(muted),
		cursor:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(views.SelectedColor)),
		done:     lipgloss.NewStyle().Strikethrough(true).Foreground(muted),
		status:   lipgloss.NewStyle().Italic(true).Foreground(muted),
		selected: lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(views.SelectedColor)),
		box:      lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(border).Padding(0, 1),
		priority: map[model.Priority]lipgloss.Style{
			model.PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("#F44336")),
			model.PriorityNormal: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9800")),
			model.PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50")),
		},
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("Daily Todo"))
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("  %s • %s theme", m.tracker.SelectedDate(), themeName(m.tracker.Preference()))))
	b.WriteString("\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n\n")
	b.WriteString(m.renderWeek())
	b.WriteString("\n")
	b.WriteString(m.renderWeather())
	b.WriteString("\n\n")

	f := m.tracker.Filter()
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("priority:%s • category:%s", f.Priority, f.Category)))
	b.WriteString("\n")
	if len(m.tasks) == 0 {
		b.WriteString(m.styles.box.Render(fmt.Sprintf("No tasks. Press '%s' to add one.", m.cfg.Keys.Add)))
	} else {
		b.WriteString(m.styles.box.Render(strings.TrimRight(m.renderTaskList(), "\n")))
	}
	b.WriteString("\n")

	if m.mode == modeAdd || m.mode == modeEdit {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(m.savedLine()))
	b.WriteString("\n")
	b.WriteString(m.styles.muted.Render(renderHelp(m.cfg.Keys)))
	return b.String()
}

func (m Model) renderStats() string {
	day := m.tracker.DayStats(m.tracker.SelectedDate())
	all := m.tracker.GlobalStats()
	return fmt.Sprintf("day %d/%d done, %d left • all %d/%d (%.0f%%) across %d days",
		day.Completed, day.Total, day.Remaining(),
		all.Completed, all.Total, all.CompletionRate*100, all.ActiveDayCount)
}

// renderWeek draws Monday to Sunday of the selected week, coloured by completion.
func (m Model) renderWeek() string {
	selected := m.tracker.SelectedDate()
	markers := m.tracker.CalendarMarkers()
	start := selected
	if parsed, ok := model.ParseDate(selected); ok {
		offset := (int(parsed.Weekday()) + 6) % 7
		start = model.ShiftDate(selected, -offset)
	}

	cells := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		date := model.ShiftDate(start, i)
		parsed, _ := model.ParseDate(date)
		label := fmt.Sprintf("%s %02d", parsed.Weekday().String()[:2], parsed.Day())
		marker, ok := markers[date]
		style := lipgloss.NewStyle()
		if ok && marker.HasTasks {
			style = style.Foreground(lipgloss.Color(marker.Status.Color()))
			label = fmt.Sprintf("%s %d/%d", label, marker.Completed, marker.Total)
		}
		if ok && marker.Selected {
			style = m.styles.selected.Inherit(style)
		}
		cells = append(cells, style.Render(label))
	}
	return strings.Join(cells, "  ")
}

func (m Model) renderWeather() string {
	w, fetchedAt, ok := m.tracker.Weather()
	if !ok {
		if m.refreshing {
			return m.styles.muted.Render("weather: loading...")
		}
		return m.styles.muted.Render(fmt.Sprintf("weather: none (press '%s')", m.cfg.Keys.Weather))
	}
	line := fmt.Sprintf("%s %s %d°C • humidity %d%% • wind %.1fm/s • %s",
		w.Icon, w.Condition, w.Temperature, w.Humidity, w.WindSpeed, w.Location)
	out := lipgloss.NewStyle().Foreground(lipgloss.Color(weather.ConditionColor(w.Condition))).Render(line)
	suffix := " (" + fetchedAt.Format("15:04") + ")"
	if m.tracker.WeatherStale() {
		suffix += " stale"
	}
	if m.refreshing {
		suffix += " refreshing..."
	}
	return out + m.styles.muted.Render(suffix)
}

func (m Model) renderTaskList() string {
	var b strings.Builder
	for i, t := range m.tasks {
		cursor := " "
		if m.cursor == i && m.mode == modeList {
			cursor = m.styles.cursor.Render(">")
		}

		checkbox := "[ ]"
		text := t.Text
		if t.Completed {
			checkbox = "[x]"
			text = m.styles.done.Render(text)
		}

		badge := m.styles.priority[t.Priority].Render(fmt.Sprintf("%-6s", t.Priority))
		body := fmt.Sprintf("%s %s %s %s %s", cursor, checkbox, badge, m.styles.muted.Render(fmt.Sprintf("%-8s", t.Category)), text)
		if t.Time != "" {
			body += m.styles.muted.Render(" @" + t.Time)
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) savedLine() string {
	saved := m.tracker.LastSaved()
	if saved.IsZero() {
		return "not saved yet"
	}
	return "last saved " + saved.Format("15:04:05")
}

func renderHelp(k config.Keymap) string {
	return fmt.Sprintf("%s/%s move • %s/%s day • %s today • %s add • space toggle • %s edit • %s delete • %s/%s filter • %s weather • %s theme • %s clear • %s quit",
		k.Up, k.Down, k.PrevDay, k.NextDay, k.Today, k.Add, k.Edit, k.Delete,
		k.FilterPriority, k.FilterCategory, k.Weather, k.Theme, k.ClearAll, k.Quit)
}
