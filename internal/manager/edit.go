package manager

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Makepad-fr/tada/internal/model"
)

// StartEdit puts id into editing mode. Any other todo being edited returns to
// viewing without saving its in-progress text.
func (m *Manager) StartEdit(id int64) {
	if m.index(id) < 0 {
		return
	}
	for i := range m.todos {
		m.todos[i].Editing = m.todos[i].ID == id
	}
	m.editingID, m.editing = id, true
	m.render()
}

// Editing returns the id being edited, if any.
func (m *Manager) Editing() (int64, bool) { return m.editingID, m.editing }

// SaveEdit commits text to id. Empty text keeps the todo in editing mode and
// sets the validation message; nothing is committed or discarded.
func (m *Manager) SaveEdit(id int64, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		m.fail(msgEmptyEdit)
		return ErrEmptyText
	}
	if utf8.RuneCountInString(trimmed) > model.MaxTextLen {
		m.fail(fmt.Sprintf("Todo must be at most %d characters", model.MaxTextLen))
		return ErrTextTooLong
	}
	i := m.index(id)
	m.exitEditing()
	if i < 0 {
		m.render()
		return nil
	}
	m.todos[i].Text = trimmed
	m.validation = ""
	return m.commit()
}

// CancelEdit leaves editing mode without committing or persisting.
func (m *Manager) CancelEdit() {
	m.exitEditing()
	m.render()
}

func (m *Manager) exitEditing() {
	for i := range m.todos {
		m.todos[i].Editing = false
	}
	m.editingID, m.editing = 0, false
}
