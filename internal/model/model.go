package model

import (
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
	PriorityLow    Priority = "low"
)

// Priorities lists priorities from highest to lowest rank.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityNormal, PriorityLow}
}

func (p Priority) Valid() bool {
	return p.Rank() > 0
}

// Rank orders priorities for display: high=3, normal=2, low=1.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityNormal:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

type Category string

const (
	CategoryWork     Category = "work"
	CategoryPersonal Category = "personal"
	CategoryHealth   Category = "health"
	CategoryShopping Category = "shopping"
	CategoryStudy    Category = "study"
	CategoryHobby    Category = "hobby"
)

func Categories() []Category {
	return []Category{CategoryWork, CategoryPersonal, CategoryHealth, CategoryShopping, CategoryStudy, CategoryHobby}
}

func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

const (
	DefaultPriority = PriorityNormal
	DefaultCategory = CategoryPersonal
)

type Task struct {
	ID          string     `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	Category    Category   `json:"category"`
	Time        string     `json:"time"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt"`
}

// Draft carries the caller-supplied fields of a new task. Zero values take the defaults.
type Draft struct {
	Text     string
	Priority Priority
	Category Category
	Time     string
}

// Days maps a date key to the tasks recorded for that day, in insertion order.
type Days map[string][]Task

// Clone returns a deep copy; tasks and their CompletedAt pointers are not shared.
func (d Days) Clone() Days {
	out := make(Days, len(d))
	for date, list := range d {
		copied := make([]Task, len(list))
		for i, t := range list {
			if t.CompletedAt != nil {
				at := *t.CompletedAt
				t.CompletedAt = &at
			}
			copied[i] = t
		}
		out[date] = copied
	}
	return out
}

// Weather is the record produced by an external data source.
type Weather struct {
	Location    string  `json:"location"`
	Temperature int     `json:"temperature"`
	Condition   string  `json:"condition"`
	Icon        string  `json:"icon"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

func ParseDate(value string) (time.Time, bool) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// ValidDate reports whether value is a canonical YYYY-MM-DD key.
func ValidDate(value string) bool {
	parsed, ok := ParseDate(value)
	return ok && parsed.Format(DateLayout) == value
}

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func Today() string {
	return DateKey(time.Now())
}

// ShiftDate moves a date key by days; malformed keys are returned unchanged.
func ShiftDate(date string, days int) string {
	parsed, ok := ParseDate(date)
	if !ok {
		return date
	}
	return DateKey(parsed.AddDate(0, 0, days))
}
