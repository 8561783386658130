// Package manager owns the in-memory todo list and every mutating operation
// on it. A Manager is driven from a single event loop and is not safe for
// concurrent use.
package manager

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/view"
)

// Validation failures. The matching user-facing message is also available
// from Validation() until the next successful add or edit.
var (
	ErrEmptyText      = errors.New("todo text is empty")
	ErrTextTooLong    = fmt.Errorf("todo text exceeds %d characters", model.MaxTextLen)
	ErrInvalidDueDate = errors.New("due date must be YYYY-MM-DD")
)

const (
	msgEmptyAdd  = "Please enter a todo"
	msgEmptyEdit = "Todo cannot be empty"
)

// Persister is the part of the store the manager writes through.
type Persister interface {
	Load() []model.Todo
	Save([]model.Todo) error
}

var _ Persister = (*store.Store)(nil)

type Manager struct {
	store Persister
	log   *log.Logger
	now   func() time.Time

	todos      []model.Todo
	filter     model.Filter
	selected   map[int64]bool
	editingID  int64
	editing    bool
	draggedID  int64
	dragging   bool
	validation string

	renderers []view.Renderer
}

type Option func(*Manager)

func WithLogger(l *log.Logger) Option { return func(m *Manager) { m.log = l } }

func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithRenderer registers r to receive a fresh view after every state change.
func WithRenderer(r view.Renderer) Option {
	return func(m *Manager) { m.renderers = append(m.renderers, r) }
}

// New loads the collection from s and returns a manager showing all todos.
func New(s Persister, opts ...Option) *Manager {
	m := &Manager{
		store:    s,
		log:      log.New(io.Discard),
		now:      time.Now,
		filter:   model.FilterAll,
		selected: map[int64]bool{},
	}
	for _, o := range opts {
		o(m)
	}
	m.todos = s.Load()
	return m
}

// Subscribe adds a renderer after construction.
func (m *Manager) Subscribe(r view.Renderer) { m.renderers = append(m.renderers, r) }

// Todos returns a copy of the full collection in list order.
func (m *Manager) Todos() []model.Todo {
	return append([]model.Todo(nil), m.todos...)
}

// Filter returns the current filter.
func (m *Manager) Filter() model.Filter { return m.filter }

// SetFilter switches the visible subset. Selection is left untouched.
func (m *Manager) SetFilter(f model.Filter) {
	m.filter = f
	m.render()
}

// Filtered returns the todos visible under the current filter.
func (m *Manager) Filtered() []model.Todo { return m.filter.Apply(m.todos) }

// Validation returns the pending validation message, if any.
func (m *Manager) Validation() string { return m.validation }

// ClearValidation drops the pending validation message.
func (m *Manager) ClearValidation() {
	if m.validation == "" {
		return
	}
	m.validation = ""
	m.render()
}

// Stats summarizes the full collection.
func (m *Manager) Stats() model.Stats { return model.Summarize(m.todos) }

// Reload replaces the in-memory list with the persisted one. Used when the
// slot changed outside this process. Ids are kept as stored; edit and drag
// state are dropped and the selection is pruned to ids that still exist.
func (m *Manager) Reload() {
	m.todos = m.store.Load()
	m.editing, m.dragging = false, false
	for id := range m.selected {
		if m.index(id) < 0 {
			delete(m.selected, id)
		}
	}
	m.render()
}

// Add prepends a new todo. Empty text is a no-op that only sets the
// validation message; nothing is persisted.
func (m *Manager) Add(text string, priority model.Priority, dueDate string) (model.Todo, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		m.fail(msgEmptyAdd)
		return model.Todo{}, ErrEmptyText
	}
	if utf8.RuneCountInString(trimmed) > model.MaxTextLen {
		m.fail(fmt.Sprintf("Todo must be at most %d characters", model.MaxTextLen))
		return model.Todo{}, ErrTextTooLong
	}
	due, err := model.ParseDate(strings.TrimSpace(dueDate))
	if err != nil {
		m.fail("Due date must be YYYY-MM-DD")
		return model.Todo{}, ErrInvalidDueDate
	}

	now := m.now().UTC().Truncate(time.Millisecond)
	t := model.Todo{
		ID:        m.nextID(now.UnixMilli()),
		Text:      trimmed,
		CreatedAt: now,
		Priority:  model.PriorityOrDefault(string(priority)),
		DueDate:   due,
		Order:     m.nextOrder(),
	}
	m.todos = append([]model.Todo{t}, m.todos...)
	m.validation = ""
	return t, m.commit()
}

// Toggle flips completion of id. Unknown ids are ignored.
func (m *Manager) Toggle(id int64) error {
	i := m.index(id)
	if i < 0 {
		return nil
	}
	m.todos[i].Completed = !m.todos[i].Completed
	return m.commit()
}

// Delete removes id and drops it from the selection. Unknown ids are ignored.
func (m *Manager) Delete(id int64) error {
	i := m.index(id)
	if i < 0 {
		return nil
	}
	m.todos = append(m.todos[:i], m.todos[i+1:]...)
	delete(m.selected, id)
	if m.editing && m.editingID == id {
		m.editing = false
	}
	return m.commit()
}

// BulkComplete marks every selected todo completed. It never un-completes.
// It returns the number of selected todos found.
func (m *Manager) BulkComplete() (int, error) {
	if len(m.selected) == 0 {
		return 0, nil
	}
	n := 0
	for i := range m.todos {
		if m.selected[m.todos[i].ID] {
			m.todos[i].Completed = true
			n++
		}
	}
	return n, m.commit()
}

// BulkDelete removes every selected todo and clears the selection.
func (m *Manager) BulkDelete() (int, error) {
	if len(m.selected) == 0 {
		return 0, nil
	}
	kept := m.todos[:0]
	n := 0
	for _, t := range m.todos {
		if m.selected[t.ID] {
			n++
			continue
		}
		kept = append(kept, t)
	}
	m.todos = kept
	clear(m.selected)
	return n, m.commit()
}

// commit persists the full list and re-renders. The in-memory list stays the
// source of truth when the write fails.
func (m *Manager) commit() error {
	defer m.render()
	if err := m.store.Save(m.todos); err != nil {
		m.log.Error("save failed", "err", err)
		return fmt.Errorf("save todos: %w", err)
	}
	return nil
}

func (m *Manager) fail(msg string) {
	m.validation = msg
	m.render()
}

func (m *Manager) render() {
	if len(m.renderers) == 0 {
		return
	}
	v := m.View(m.now())
	for _, r := range m.renderers {
		r.Render(v)
	}
}

func (m *Manager) index(id int64) int {
	for i, t := range m.todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// nextID returns candidate, bumped past the largest existing id so ids stay
// unique and increase with creation even when two adds share a millisecond.
func (m *Manager) nextID(candidate int64) int64 {
	for _, t := range m.todos {
		if t.ID >= candidate {
			candidate = t.ID + 1
		}
	}
	return candidate
}

func (m *Manager) nextOrder() int {
	if len(m.todos) == 0 {
		return 0
	}
	max := m.todos[0].Order
	for _, t := range m.todos[1:] {
		if t.Order > max {
			max = t.Order
		}
	}
	return max + 1
}
