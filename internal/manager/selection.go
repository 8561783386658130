package manager

import "sort"

// ToggleSelect adds or removes id from the selection. Selection is never
// persisted.
func (m *Manager) ToggleSelect(id int64, included bool) {
	if m.index(id) < 0 {
		return
	}
	if included {
		m.selected[id] = true
	} else {
		delete(m.selected, id)
	}
	m.render()
}

// ToggleSelectAll applies included to the currently filtered todos only.
func (m *Manager) ToggleSelectAll(included bool) {
	for _, t := range m.Filtered() {
		if included {
			m.selected[t.ID] = true
		} else {
			delete(m.selected, t.ID)
		}
	}
	m.render()
}

// IsSelected reports whether id is in the selection.
func (m *Manager) IsSelected(id int64) bool { return m.selected[id] }

// Selected returns the selected ids in ascending order.
func (m *Manager) Selected() []int64 {
	ids := make([]int64, 0, len(m.selected))
	for id := range m.selected {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SelectAllState is the "select all" checkbox: checked iff the filtered view
// is non-empty and every visible todo is selected.
func (m *Manager) SelectAllState() bool {
	visible := m.Filtered()
	if len(visible) == 0 {
		return false
	}
	for _, t := range visible {
		if !m.selected[t.ID] {
			return false
		}
	}
	return true
}
