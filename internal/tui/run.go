package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/tada/internal/manager"
	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/kv"
)

// Run starts the list manager and blocks until the user quits. Every change
// is persisted as it happens; writes from other processes reload the list.
func Run(ctx context.Context, mgr *manager.Manager, st *store.Store, logger *log.Logger, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(New(mgr, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	err := st.OnExternalChange(ctx, func() { p.Send(ExternalChangeMsg{}) })
	switch {
	case errors.Is(err, kv.ErrWatchUnsupported):
		logger.Debug("backend cannot watch; external changes show on restart")
	case err != nil:
		logger.Warn("watch for external changes", "err", err)
	}

	_, err = p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// RunStats shows the live stats panel until the user quits.
func RunStats(ctx context.Context, src StatsSource, opts Options) error {
	_, err := tea.NewProgram(NewStats(src, opts), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
