package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/internal/view"
)

// rowItem adapts a view.Row to bubbles/list.Item.
type rowItem struct{ row view.Row }

func (i rowItem) FilterValue() string { return i.row.Text }

// rowDelegate renders one todo per line:
//
//	> * ☐ Buy milk  High  due tomorrow
type rowDelegate struct{ theme ui.Theme }

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(rowItem)
	if !ok {
		return
	}
	fmt.Fprintln(w, d.line(it.row, index == m.Index(), m.Width()))
}

func (d rowDelegate) line(r view.Row, focused bool, width int) string {
	t := d.theme

	cursor := "  "
	if focused {
		cursor = t.Selected.Render(">") + " "
	}
	mark := " "
	if r.Selected {
		mark = t.Accent.Render("*")
	}
	box := t.Muted.Render(t.BoxUnchecked)
	text := ui.Sanitize(r.Text)
	if r.Completed {
		box = t.Success.Render(t.BoxChecked)
		text = t.Done.Render(text)
	}
	if r.Dragging {
		text = t.Dragging.Render("⇅ " + text)
	}

	badges := []string{t.PriorityStyle(r.PriorityClass).Render(r.PriorityLabel)}
	if r.DueLabel != "" {
		badges = append(badges, t.DueStyle(r.DueClass).Render(r.DueLabel))
	}

	line := fmt.Sprintf("%s%s %s %s  %s", cursor, mark, box, text, strings.Join(badges, "  "))
	if width > 0 {
		line = ui.Truncate(line, width)
	}
	return line
}
