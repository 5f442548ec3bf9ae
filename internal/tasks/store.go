package tasks

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	apperrors "daytodo/internal/errors"
	"daytodo/internal/model"
)

// Store owns the date -> tasks mapping. All mutations are serialized and either apply fully
// or not at all.
type Store struct {
	mu    sync.RWMutex
	days  model.Days
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		days:  make(model.Days),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Add(date string, draft model.Draft) (model.Task, error) {
	if !model.ValidDate(date) {
		return model.Task{}, apperrors.ErrInvalidDate
	}
	text := strings.TrimSpace(draft.Text)
	if text == "" {
		return model.Task{}, apperrors.ErrEmptyText
	}
	priority, err := normalizePriority(draft.Priority)
	if err != nil {
		return model.Task{}, err
	}
	category, err := normalizeCategory(draft.Category)
	if err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := model.Task{
		ID:        s.uniqueID(),
		Text:      text,
		Priority:  priority,
		Category:  category,
		Time:      draft.Time,
		CreatedAt: s.now(),
	}
	s.days[date] = append(s.days[date], task)
	return task, nil
}

func (s *Store) Toggle(date, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.locate(date, id)
	if err != nil {
		return model.Task{}, err
	}
	task := &s.days[date][idx]
	task.Completed = !task.Completed
	if task.Completed {
		at := s.now()
		task.CompletedAt = &at
	} else {
		task.CompletedAt = nil
	}
	return cloneTask(*task), nil
}

// Edit replaces the task text. changed is false when the trimmed text equals the current one.
func (s *Store) Edit(date, id, newText string) (task model.Task, changed bool, err error) {
	text := strings.TrimSpace(newText)
	if text == "" {
		return model.Task{}, false, apperrors.ErrEmptyText
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.locate(date, id)
	if err != nil {
		return model.Task{}, false, err
	}
	current := &s.days[date][idx]
	if current.Text == text {
		return cloneTask(*current), false, nil
	}
	current.Text = text
	return cloneTask(*current), true, nil
}

// Delete removes the task. The date key stays in the mapping even when its list becomes empty.
func (s *Store) Delete(date, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.locate(date, id)
	if err != nil {
		return err
	}
	list := s.days[date]
	remaining := make([]model.Task, 0, len(list)-1)
	remaining = append(remaining, list[:idx]...)
	remaining = append(remaining, list[idx+1:]...)
	s.days[date] = remaining
	return nil
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = make(model.Days)
}

func (s *Store) Snapshot() model.Days {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.days.Clone()
}

// Replace installs a previously persisted mapping, repairing tasks whose completion fields
// disagree. It is used at load time.
func (s *Store) Replace(days model.Days) {
	restored := make(model.Days, len(days))
	for date, list := range days {
		tasks := make([]model.Task, 0, len(list))
		for _, t := range list {
			tasks = append(tasks, repair(t))
		}
		restored[date] = tasks
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.days = restored
}

func (s *Store) Get(date, id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx, err := s.locate(date, id)
	if err != nil {
		return model.Task{}, false
	}
	return cloneTask(s.days[date][idx]), true
}

func (s *Store) Len(date string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.days[date])
}

func (s *Store) locate(date, id string) (int, error) {
	list, ok := s.days[date]
	if !ok {
		return -1, apperrors.ErrDateNotFound
	}
	for i, t := range list {
		if t.ID == id {
			return i, nil
		}
	}
	return -1, apperrors.ErrTaskNotFound
}

// uniqueID draws ids until one is unused. Callers hold the write lock.
func (s *Store) uniqueID() string {
	for {
		id := s.newID()
		if !s.hasID(id) {
			return id
		}
	}
}

func (s *Store) hasID(id string) bool {
	for _, list := range s.days {
		for _, t := range list {
			if t.ID == id {
				return true
			}
		}
	}
	return false
}

func normalizePriority(p model.Priority) (model.Priority, error) {
	p = model.Priority(strings.ToLower(strings.TrimSpace(string(p))))
	if p == "" {
		return model.DefaultPriority, nil
	}
	if !p.Valid() {
		return "", apperrors.ErrInvalidPriority
	}
	return p, nil
}

func normalizeCategory(c model.Category) (model.Category, error) {
	c = model.Category(strings.ToLower(strings.TrimSpace(string(c))))
	if c == "" {
		return model.DefaultCategory, nil
	}
	if !c.Valid() {
		return "", apperrors.ErrInvalidCategory
	}
	return c, nil
}

// repair restores the completed/completedAt pairing and fills missing enum values on tasks
// read back from storage.
func repair(t model.Task) model.Task {
	if !t.Priority.Valid() {
		t.Priority = model.DefaultPriority
	}
	if !t.Category.Valid() {
		t.Category = model.DefaultCategory
	}
	switch {
	case t.Completed && t.CompletedAt == nil:
		at := t.CreatedAt
		t.CompletedAt = &at
	case !t.Completed && t.CompletedAt != nil:
		t.CompletedAt = nil
	}
	return cloneTask(t)
}

func cloneTask(t model.Task) model.Task {
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		t.CompletedAt = &at
	}
	return t
}
