package views

import (
	"errors"
	"testing"
	"time"

	apperrors "daytodo/internal/errors"
	"daytodo/internal/model"
)

const day = "2024-03-01"

func sampleDays() model.Days {
	done := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return model.Days{
		day: {
			{ID: "1", Text: "low work", Priority: model.PriorityLow, Category: model.CategoryWork},
			{ID: "2", Text: "normal personal", Priority: model.PriorityNormal, Category: model.CategoryPersonal, Completed: true, CompletedAt: &done},
			{ID: "3", Text: "high shopping", Priority: model.PriorityHigh, Category: model.CategoryShopping},
			{ID: "4", Text: "normal work", Priority: model.PriorityNormal, Category: model.CategoryWork},
			{ID: "5", Text: "high work", Priority: model.PriorityHigh, Category: model.CategoryWork},
		},
		"2024-03-02": {
			{ID: "6", Text: "done", Priority: model.PriorityLow, Category: model.CategoryHealth, Completed: true, CompletedAt: &done},
		},
		"2024-03-03": {},
	}
}

func ids(list []model.Task) []string {
	out := make([]string, 0, len(list))
	for _, t := range list {
		out = append(out, t.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilteredTasks(t *testing.T) {
	cases := []struct {
		name   string
		date   string
		filter Filter
		want   []string
	}{
		{"all sorted stable", day, DefaultFilter(), []string{"3", "5", "2", "4", "1"}},
		{"zero filter matches all", day, Filter{}, []string{"3", "5", "2", "4", "1"}},
		{"priority only", day, Filter{Priority: "normal", Category: All}, []string{"2", "4"}},
		{"category only", day, Filter{Priority: All, Category: "work"}, []string{"5", "4", "1"}},
		{"both", day, Filter{Priority: "high", Category: "work"}, []string{"5"}},
		{"no match", day, Filter{Priority: "low", Category: "hobby"}, []string{}},
		{"absent date", "2030-01-01", DefaultFilter(), []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ids(FilteredTasks(sampleDays(), tc.date, tc.filter))
			if !equal(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestFilteredTasksIsSubsetAndDoesNotMutate(t *testing.T) {
	days := sampleDays()
	before := ids(days[day])
	got := FilteredTasks(days, day, Filter{Priority: All, Category: "work"})

	members := map[string]bool{}
	for _, id := range before {
		members[id] = true
	}
	for _, task := range got {
		if !members[task.ID] {
			t.Fatalf("task %s not in the day's sequence", task.ID)
		}
	}
	if !equal(ids(days[day]), before) {
		t.Fatalf("expected source order untouched")
	}
}

func TestFilterWith(t *testing.T) {
	f, err := DefaultFilter().With(FilterPriority, " HIGH ")
	if err != nil || f.Priority != "high" || f.Category != All {
		t.Fatalf("unexpected filter %+v err=%v", f, err)
	}
	f, err = f.With(FilterCategory, "")
	if err != nil || f.Category != All {
		t.Fatalf("expected empty value to mean all, got %+v err=%v", f, err)
	}
	if _, err := f.With(FilterPriority, "urgent"); !errors.Is(err, apperrors.ErrInvalidPriority) {
		t.Fatalf("expected invalid priority, got %v", err)
	}
	if _, err := f.With(FilterCategory, "travel"); !errors.Is(err, apperrors.ErrInvalidCategory) {
		t.Fatalf("expected invalid category, got %v", err)
	}
	if _, err := f.With("colour", "red"); !errors.Is(err, apperrors.ErrInvalidFilter) {
		t.Fatalf("expected invalid filter, got %v", err)
	}
}

func TestCalendarMarkers(t *testing.T) {
	days := sampleDays()
	days["2024-03-04"] = []model.Task{{ID: "7", Priority: model.PriorityLow, Category: model.CategoryHobby}}

	markers := CalendarMarkers(days, "2024-03-02")

	if _, ok := markers["2024-03-03"]; ok {
		t.Fatalf("expected empty day to have no marker")
	}
	first := markers[day]
	if first.Status != CompletionPartial || first.Completed != 1 || first.Total != 5 || first.Selected {
		t.Fatalf("unexpected marker %+v", first)
	}
	selected := markers["2024-03-02"]
	if selected.Status != CompletionComplete || !selected.Selected || !selected.HasTasks {
		t.Fatalf("expected selection layered on allComplete, got %+v", selected)
	}
	if markers["2024-03-04"].Status != CompletionNone {
		t.Fatalf("expected none status, got %+v", markers["2024-03-04"])
	}
	if CompletionNone.Color() != "#ff4757" || CompletionComplete.Color() != "#2ed573" {
		t.Fatalf("unexpected marker colors")
	}
}

func TestCalendarMarkersSelectsEmptyDate(t *testing.T) {
	markers := CalendarMarkers(model.Days{}, "2024-05-05")
	m, ok := markers["2024-05-05"]
	if !ok || !m.Selected || m.HasTasks {
		t.Fatalf("expected selection-only marker, got %+v", m)
	}
	if got := SortedDates(CalendarMarkers(sampleDays(), "2024-01-01")); !equal(got, []string{"2024-01-01", day, "2024-03-02"}) {
		t.Fatalf("unexpected sorted dates %v", got)
	}
}

func TestGlobalStats(t *testing.T) {
	stats := GlobalStats(sampleDays())
	if stats.Total != 6 || stats.Completed != 2 || stats.ActiveDayCount != 2 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.CompletionRate < 0.333 || stats.CompletionRate > 0.334 {
		t.Fatalf("unexpected rate %v", stats.CompletionRate)
	}

	empty := GlobalStats(model.Days{"2024-03-03": {}})
	if empty.Total != 0 || empty.CompletionRate != 0 || empty.ActiveDayCount != 0 {
		t.Fatalf("expected zero stats, got %+v", empty)
	}
}

func TestDayStats(t *testing.T) {
	stats := Day(sampleDays(), day)
	if stats.Total != 5 || stats.Completed != 1 || stats.Remaining() != 4 {
		t.Fatalf("unexpected day stats %+v", stats)
	}
	if Day(sampleDays(), "2030-01-01").Total != 0 {
		t.Fatalf("expected absent day to be empty")
	}
}
