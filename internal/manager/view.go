package manager

import (
	"time"

	"github.com/Makepad-fr/tada/internal/view"
)

// View derives the current frame: one row per visible todo in list order,
// with badges computed against today.
func (m *Manager) View(today time.Time) view.View {
	visible := m.Filtered()
	rows := make([]view.Row, 0, len(visible))
	for _, t := range visible {
		r := view.NewRow(t, m.selected[t.ID], today)
		r.Dragging = m.dragging && m.draggedID == t.ID
		rows = append(rows, r)
	}
	return view.View{
		Rows:       rows,
		Filter:     m.filter,
		SelectAll:  m.SelectAllState(),
		Selected:   len(m.selected),
		CountLabel: view.CountLabel(len(visible)),
		Validation: m.validation,
		Stats:      m.Stats(),
	}
}
