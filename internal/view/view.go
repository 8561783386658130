// Package view is the rendering boundary: a retained view-model the manager
// emits and renderers (TUI, CLI panel, HTML export) consume.
package view

import (
	"fmt"
	"time"

	"github.com/Makepad-fr/tada/internal/model"
)

// Row is one visible todo with its computed badges.
type Row struct {
	ID        int64
	Text      string // raw user text; renderers escape it for their medium
	Completed bool
	Selected  bool
	Editing   bool
	Dragging  bool

	Priority      model.Priority
	PriorityLabel string
	PriorityClass string

	DueDate  string
	DueLabel string // empty when there is no due date
	DueClass string
}

// View is everything a renderer needs for one frame.
type View struct {
	Rows       []Row
	Filter     model.Filter
	SelectAll  bool // checked iff Rows is non-empty and every row is selected
	Selected   int  // size of the selection set across all todos
	CountLabel string
	Validation string
	Stats      model.Stats
}

// Empty reports whether nothing is visible under the current filter.
func (v View) Empty() bool { return len(v.Rows) == 0 }

// Renderer consumes views.
type Renderer interface {
	Render(View)
}

// RendererFunc adapts a func to Renderer.
type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }

// NewRow computes the display badges for t.
func NewRow(t model.Todo, selected bool, today time.Time) Row {
	r := Row{
		ID:            t.ID,
		Text:          t.Text,
		Completed:     t.Completed,
		Selected:      selected,
		Editing:       t.Editing,
		Priority:      t.Priority,
		PriorityLabel: t.Priority.Label(),
		PriorityClass: t.Priority.Class(),
		DueDate:       t.DueDate.String(),
	}
	if due, ok := model.DueStatusOf(t.DueDate, today); ok {
		r.DueLabel, r.DueClass = due.Label, due.Class
	}
	return r
}

// CountLabel renders "1 todo" / "N todos".
func CountLabel(n int) string {
	if n == 1 {
		return "1 todo"
	}
	return fmt.Sprintf("%d todos", n)
}
