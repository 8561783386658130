package manager

import (
	"slices"

	"github.com/Makepad-fr/tada/internal/model"
)

// Reorder moves draggedID to targetID's position: the dragged todo is removed
// and re-inserted at the index the target had before the removal. Order
// values are then reassigned densely from the new positions. Missing or equal
// ids are a no-op.
func (m *Manager) Reorder(draggedID, targetID int64) error {
	if draggedID == targetID {
		return nil
	}
	from, to := m.index(draggedID), m.index(targetID)
	if from < 0 || to < 0 {
		return nil
	}
	moved := m.todos[from]
	out := make([]model.Todo, 0, len(m.todos))
	out = append(out, m.todos[:from]...)
	out = append(out, m.todos[from+1:]...)
	out = slices.Insert(out, to, moved)
	m.todos = out
	for i := range m.todos {
		m.todos[i].Order = i
	}
	return m.commit()
}

// BeginDrag picks up id as the drag source.
func (m *Manager) BeginDrag(id int64) {
	if m.index(id) < 0 {
		return
	}
	m.draggedID, m.dragging = id, true
	m.render()
}

// Dragging returns the picked-up id, if any.
func (m *Manager) Dragging() (int64, bool) { return m.draggedID, m.dragging }

// DropOn reorders the dragged todo onto targetID and ends the drag.
func (m *Manager) DropOn(targetID int64) error {
	if !m.dragging {
		return nil
	}
	dragged := m.draggedID
	m.draggedID, m.dragging = 0, false
	if dragged == targetID {
		m.render()
		return nil
	}
	return m.Reorder(dragged, targetID)
}

// EndDrag abandons a drag without moving anything.
func (m *Manager) EndDrag() {
	if !m.dragging {
		return
	}
	m.draggedID, m.dragging = 0, false
	m.render()
}
