package model

import (
	"strings"
	"time"
)

// MaxTextLen is the longest todo text accepted at the add/edit boundary, in runes.
const MaxTextLen = 200

// Todo is the domain model for a list entry.
type Todo struct {
	ID        int64
	Text      string
	Completed bool
	CreatedAt time.Time
	Priority  Priority
	DueDate   Date // zero value means no due date
	Order     int

	// Editing is UI state only; it is never persisted and is reset on load.
	Editing bool
}

// Priority ranks a todo. Unknown values are coerced to PriorityMedium.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the valid priorities in cycling order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// ParsePriority reports whether s names a known priority.
func ParsePriority(s string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityLow:
		return PriorityLow, true
	case PriorityMedium:
		return PriorityMedium, true
	case PriorityHigh:
		return PriorityHigh, true
	}
	return PriorityMedium, false
}

// PriorityOrDefault coerces s to a priority, falling back to medium.
func PriorityOrDefault(s string) Priority {
	p, _ := ParsePriority(s)
	return p
}

// Label is the human form shown on badges.
func (p Priority) Label() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityLow:
		return "Low"
	default:
		return "Medium"
	}
}

// Class is the badge class used by markup renderers.
func (p Priority) Class() string {
	return "priority-" + string(PriorityOrDefault(string(p)))
}

// Next cycles low -> medium -> high -> low.
func (p Priority) Next() Priority {
	for i, q := range Priorities {
		if q == p {
			return Priorities[(i+1)%len(Priorities)]
		}
	}
	return PriorityMedium
}

// Filter is a view predicate over the full collection.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

var filters = []Filter{FilterAll, FilterActive, FilterCompleted}

// ParseFilter reports whether s names a known filter; unknown input yields FilterAll.
func ParseFilter(s string) (Filter, bool) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range filters {
		if f == known {
			return f, true
		}
	}
	return FilterAll, false
}

// Next cycles all -> active -> completed -> all.
func (f Filter) Next() Filter {
	for i, known := range filters {
		if known == f {
			return filters[(i+1)%len(filters)]
		}
	}
	return FilterAll
}

// Match reports whether t is visible under f.
func (f Filter) Match(t Todo) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Apply returns the todos visible under f, preserving order.
func (f Filter) Apply(todos []Todo) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// FilterTodos is f.Apply(todos).
func FilterTodos(todos []Todo, f Filter) []Todo { return f.Apply(todos) }
