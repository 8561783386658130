package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/ui"
)

// StatsSource reports the persisted counts; *store.Store satisfies it.
type StatsSource interface {
	CurrentStats() model.Stats
}

type tickMsg time.Time

// StatsModel re-reads the counts on every tick so writes made by any
// process show up within one interval.
type StatsModel struct {
	src      StatsSource
	theme    ui.Theme
	interval time.Duration
	stats    model.Stats
}

func NewStats(src StatsSource, opts Options) StatsModel {
	opts = opts.withDefaults()
	return StatsModel{
		src:      src,
		theme:    opts.Theme,
		interval: opts.StatsInterval,
		stats:    src.CurrentStats(),
	}
}

func (m StatsModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m StatsModel) Init() tea.Cmd { return m.tick() }

func (m StatsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.stats = m.src.CurrentStats()
		return m, m.tick()
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m StatsModel) View() string {
	t := m.theme
	s := m.stats
	return t.PanelString(fmt.Sprintf("%s\n%s %d completed   %s %d pending   %s %d total\n%s\n%s",
		t.Title.Render("Todo stats"),
		t.Success.Render(t.SymDone), s.Completed,
		t.Pending.Render(t.SymPending), s.Pending,
		t.Accent.Render("Σ"), s.Total,
		ui.ProgressBar(s.Completed, s.Total, 28),
		t.Help.Render("q to quit"),
	))
}
