package views

import (
	"sort"
	"strings"

	apperrors "daytodo/internal/errors"
	"daytodo/internal/model"
)

const All = "all"

type FilterKind string

const (
	FilterPriority FilterKind = "priority"
	FilterCategory FilterKind = "category"
)

// Filter narrows a day's tasks. Empty fields behave like All.
type Filter struct {
	Priority string
	Category string
}

func DefaultFilter() Filter {
	return Filter{Priority: All, Category: All}
}

// With returns a copy of f with kind set to value after validating it.
func (f Filter) With(kind FilterKind, value string) (Filter, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		value = All
	}
	switch kind {
	case FilterPriority:
		if value != All && !model.Priority(value).Valid() {
			return f, apperrors.ErrInvalidPriority
		}
		f.Priority = value
	case FilterCategory:
		if value != All && !model.Category(value).Valid() {
			return f, apperrors.ErrInvalidCategory
		}
		f.Category = value
	default:
		return f, apperrors.ErrInvalidFilter
	}
	return f, nil
}

func (f Filter) Match(t model.Task) bool {
	return matches(f.Priority, string(t.Priority)) && matches(f.Category, string(t.Category))
}

func matches(want, got string) bool {
	return want == "" || want == All || want == got
}

// PriorityOptions and CategoryOptions list filter values in display order, All first.
func PriorityOptions() []string {
	options := []string{All}
	for _, p := range model.Priorities() {
		options = append(options, string(p))
	}
	return options
}

func CategoryOptions() []string {
	options := []string{All}
	for _, c := range model.Categories() {
		options = append(options, string(c))
	}
	return options
}

// FilteredTasks returns the date's tasks that match f, highest priority first. Ties keep
// insertion order.
func FilteredTasks(days model.Days, date string, f Filter) []model.Task {
	list := days[date]
	out := make([]model.Task, 0, len(list))
	for _, t := range list {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.Rank() > out[j].Priority.Rank()
	})
	return out
}

type Completion string

const (
	CompletionNone     Completion = "none"
	CompletionPartial  Completion = "partial"
	CompletionComplete Completion = "allComplete"
)

var completionColors = map[Completion]string{
	CompletionNone:     "#ff4757",
	CompletionPartial:  "#ffa502",
	CompletionComplete: "#2ed573",
}

const SelectedColor = "#2196F3"

func (c Completion) Color() string {
	return completionColors[c]
}

// Marker describes how a calendar day is drawn. HasTasks is false for a selected day with no
// tasks, in which case only the selection applies.
type Marker struct {
	Date      string
	HasTasks  bool
	Completed int
	Total     int
	Status    Completion
	Selected  bool
}

func CalendarMarkers(days model.Days, selected string) map[string]Marker {
	markers := make(map[string]Marker, len(days)+1)
	for date, list := range days {
		if len(list) == 0 {
			continue
		}
		stats := countDay(list)
		markers[date] = Marker{
			Date:      date,
			HasTasks:  true,
			Completed: stats.Completed,
			Total:     stats.Total,
			Status:    completion(stats.Completed, stats.Total),
		}
	}
	if selected != "" {
		m := markers[selected]
		m.Date = selected
		m.Selected = true
		markers[selected] = m
	}
	return markers
}

func completion(completed, total int) Completion {
	switch {
	case completed == 0:
		return CompletionNone
	case completed == total:
		return CompletionComplete
	default:
		return CompletionPartial
	}
}

type DayStats struct {
	Total     int
	Completed int
}

func (d DayStats) Remaining() int {
	return d.Total - d.Completed
}

func Day(days model.Days, date string) DayStats {
	return countDay(days[date])
}

func countDay(list []model.Task) DayStats {
	stats := DayStats{Total: len(list)}
	for _, t := range list {
		if t.Completed {
			stats.Completed++
		}
	}
	return stats
}

type Stats struct {
	Total          int
	Completed      int
	CompletionRate float64
	ActiveDayCount int
}

func GlobalStats(days model.Days) Stats {
	var stats Stats
	for _, list := range days {
		day := countDay(list)
		stats.Total += day.Total
		stats.Completed += day.Completed
		if day.Total > 0 {
			stats.ActiveDayCount++
		}
	}
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}
	return stats
}

// SortedDates returns the marker keys in calendar order.
func SortedDates(markers map[string]Marker) []string {
	dates := make([]string, 0, len(markers))
	for date := range markers {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}
