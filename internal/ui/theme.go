package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme bundles palette, symbols and box borders.
// The CLI renderers pull from `current`; the TUI takes a Theme value.
type Theme struct {
	Name string

	Title, Muted, Accent, Success, Error, Pending lipgloss.Style
	Selected, Done, Help, Dragging                lipgloss.Style

	PriorityHigh, PriorityMedium, PriorityLow lipgloss.Style
	DueToday, DueOverdue, DueSoon             lipgloss.Style

	Border      lipgloss.Border
	BorderColor lipgloss.TerminalColor

	BoxUnchecked, BoxChecked string
	SymDone, SymPending      string
	SymOK, SymFail           string
}

var current = ThemeByName("classic")

// SetTheme switches the theme used by Panel, OK and Fail.
func SetTheme(name string) { current = ThemeByName(name) }

func Current() Theme { return current }

// ThemeByName returns the named theme. Unknown names get classic.
func ThemeByName(name string) Theme {
	switch strings.ToLower(name) {
	case "neon":
		return Theme{
			Name:           "neon",
			Title:          lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Muted:          lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
			Accent:         lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Success:        lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:        lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			Selected:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
			Done:           lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Help:           lipgloss.NewStyle().Faint(true),
			Dragging:       lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("14")),
			PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
			PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
			DueToday:       lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
			DueOverdue:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			DueSoon:        lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
			Border:         lipgloss.RoundedBorder(),
			BorderColor:    lipgloss.Color("13"),
			BoxUnchecked:   "◻", BoxChecked: "◼",
			SymDone: "✔", SymPending: "•",
			SymOK: "✔", SymFail: "✖",
		}
	case "mono":
		plain := lipgloss.NewStyle()
		return Theme{
			Name:  "mono",
			Title: plain.Bold(true), Muted: plain, Accent: plain, Success: plain,
			Error: plain, Pending: plain, Selected: plain.Reverse(true),
			Done: plain.Strikethrough(true), Help: plain, Dragging: plain.Underline(true),
			PriorityHigh: plain, PriorityMedium: plain, PriorityLow: plain,
			DueToday: plain, DueOverdue: plain.Bold(true), DueSoon: plain,
			Border:       lipgloss.NormalBorder(),
			BorderColor:  lipgloss.NoColor{},
			BoxUnchecked: "[ ]", BoxChecked: "[x]",
			SymDone: "x", SymPending: "-",
			SymOK: "ok", SymFail: "error:",
		}
	default:
		return Theme{
			Name:           "classic",
			Title:          lipgloss.NewStyle().Bold(true),
			Muted:          lipgloss.NewStyle().Faint(true),
			Accent:         lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Success:        lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			Error:          lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			Pending:        lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			Selected:       lipgloss.NewStyle().Bold(true).Reverse(true),
			Done:           lipgloss.NewStyle().Faint(true).Strikethrough(true),
			Help:           lipgloss.NewStyle().Faint(true),
			Dragging:       lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("12")),
			PriorityHigh:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
			PriorityMedium: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
			PriorityLow:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
			DueToday:       lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			DueOverdue:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
			DueSoon:        lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
			Border:         lipgloss.RoundedBorder(),
			BorderColor:    lipgloss.Color("8"),
			BoxUnchecked:   "☐", BoxChecked: "☑",
			SymDone: "✔", SymPending: "•",
			SymOK: "✔", SymFail: "✖",
		}
	}
}

// PriorityStyle picks the badge style for a priority class such as
// "priority-high".
func (t Theme) PriorityStyle(class string) lipgloss.Style {
	switch class {
	case "priority-high":
		return t.PriorityHigh
	case "priority-low":
		return t.PriorityLow
	}
	return t.PriorityMedium
}

// DueStyle picks the badge style for a due class such as "due-overdue".
func (t Theme) DueStyle(class string) lipgloss.Style {
	switch class {
	case "due-today":
		return t.DueToday
	case "due-overdue":
		return t.DueOverdue
	}
	return t.DueSoon
}
