package cli

import (
	"fmt"
	"io"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
	"github.com/Makepad-fr/tada/internal/view"
)

const maxTextWidth = 60

// renderList prints the framed list: header with counts, progress bar,
// rows, then the count label and a tip. Positions shown are 1-based
// indexes into the full list, matching what refs resolve against.
func renderList(w io.Writer, v view.View, all []model.Todo, group bool) {
	t := ui.Current()
	s := v.Stats
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), s.Completed,
		t.Pending.Render(t.SymPending), s.Pending,
		t.Accent.Render("Total"), s.Total,
	)

	pos := make(map[int64]int, len(all))
	for i, td := range all {
		pos[td.ID] = i + 1
	}

	lines := []string{header, t.Muted.Render(ui.ProgressBar(s.Completed, s.Total, 28)), ""}
	if group {
		lines = append(lines, groupLines(v.Rows, pos)...)
	} else {
		lines = append(lines, flatLines(v.Rows, pos)...)
	}
	lines = append(lines, "", t.Muted.Render(fmt.Sprintf("%s · filter: %s", v.CountLabel, v.Filter)))
	if s.Total == 0 {
		lines = append(lines, t.Muted.Render("Tip: add with `tada add \"Buy milk\"`"))
	}
	ui.Panel(w, lines)
}

func flatLines(rows []view.Row, pos map[int64]int) []string {
	t := ui.Current()
	if len(rows) == 0 {
		return []string{t.Muted.Render("no todos")}
	}
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		box := t.Muted.Render(t.BoxUnchecked)
		text := ui.Truncate(ui.Sanitize(r.Text), maxTextWidth)
		if r.Completed {
			box = t.Success.Render(t.BoxChecked)
			text = t.Done.Render(text)
		}
		line := fmt.Sprintf("%s %s %s  %s",
			t.Muted.Render(fmt.Sprintf("%2d.", pos[r.ID])), box, text,
			t.PriorityStyle(r.PriorityClass).Render(r.PriorityLabel))
		if r.DueLabel != "" {
			line += "  " + t.DueStyle(r.DueClass).Render(r.DueLabel)
		}
		line += "  " + t.Muted.Render(fmt.Sprintf("#%d", r.ID))
		out = append(out, line)
	}
	return out
}

func groupLines(rows []view.Row, pos map[int64]int) []string {
	t := ui.Current()
	var pend, done []view.Row
	for _, r := range rows {
		if r.Completed {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	section := func(title string, rs []view.Row) []string {
		lines := []string{t.Accent.Render(title)}
		if len(rs) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, flatLines(rs, pos)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}

func renderStats(w io.Writer, s model.Stats) {
	t := ui.Current()
	ui.Panel(w, []string{
		t.Title.Render("Todo stats"),
		fmt.Sprintf("%s %d completed   %s %d pending   %s %d total",
			t.Success.Render(t.SymDone), s.Completed,
			t.Pending.Render(t.SymPending), s.Pending,
			t.Accent.Render("Total"), s.Total),
		ui.ProgressBar(s.Completed, s.Total, 28),
	})
}
