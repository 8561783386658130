package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Makepad-fr/tada/internal/export"
	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/tui"
	"github.com/Makepad-fr/tada/internal/ui"
)

func (a *app) addCmd() *cobra.Command {
	var priority, due string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a todo at the top of the list",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := model.ParsePriority(priority)
			if !ok {
				return usagef("unknown priority %q (want low, medium or high)", priority)
			}
			t, err := a.mgr.Add(strings.Join(args, " "), p, due)
			if err != nil {
				if v := a.mgr.Validation(); v != "" {
					return fmt.Errorf("%s: %w", v, err)
				}
				return err
			}
			ui.OK(a.stdout, fmt.Sprintf("added #%d", t.ID))
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", string(model.PriorityMedium), "low|medium|high")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	return cmd
}

func (a *app) lsCmd() *cobra.Command {
	var filter string
	var group bool
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List todos",
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, ok := model.ParseFilter(filter)
			if !ok {
				return usagef("unknown filter %q (want all, active or completed)", filter)
			}
			a.mgr.SetFilter(f)
			renderList(a.stdout, a.mgr.View(a.now()), a.mgr.Todos(), group)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", string(model.FilterAll), "all|active|completed")
	cmd.Flags().BoolVar(&group, "group", false, "group output by pending/done")
	return cmd
}

func (a *app) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <ref>",
		Short: "Toggle completion of a todo",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.mgr.Toggle(id); err != nil {
				return err
			}
			ui.OK(a.stdout, "toggled")
			return nil
		},
	}
}

func (a *app) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <ref>",
		Short: "Delete a todo",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			if err := a.mgr.Delete(id); err != nil {
				return err
			}
			ui.OK(a.stdout, "removed")
			return nil
		},
	}
}

func (a *app) editCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <ref> <text...>",
		Short: "Replace the text of a todo",
		Args:  usageArgs(cobra.MinimumNArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.resolve(args[0])
			if err != nil {
				return err
			}
			a.mgr.StartEdit(id)
			if err := a.mgr.SaveEdit(id, strings.Join(args[1:], " ")); err != nil {
				if v := a.mgr.Validation(); v != "" {
					return fmt.Errorf("%s: %w", v, err)
				}
				return err
			}
			ui.OK(a.stdout, "updated")
			return nil
		},
	}
}

func (a *app) mvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv <ref> <target-ref>",
		Short: "Move a todo to another todo's position",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := a.resolveAll(args)
			if err != nil {
				return err
			}
			if err := a.mgr.Reorder(ids[0], ids[1]); err != nil {
				return err
			}
			ui.OK(a.stdout, "moved")
			return nil
		},
	}
}

func (a *app) completeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <ref...>",
		Short: "Mark several todos completed",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.selectRefs(args); err != nil {
				return err
			}
			n, err := a.mgr.BulkComplete()
			if err != nil {
				return err
			}
			ui.OK(a.stdout, fmt.Sprintf("completed %d", n))
			return nil
		},
	}
}

func (a *app) purgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "purge <ref...>",
		Short: "Delete several todos",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.selectRefs(args); err != nil {
				return err
			}
			n, err := a.mgr.BulkDelete()
			if err != nil {
				return err
			}
			ui.OK(a.stdout, fmt.Sprintf("deleted %d", n))
			return nil
		},
	}
}

// selectRefs resolves every ref before touching the selection so a bad ref
// leaves nothing half-applied.
func (a *app) selectRefs(refs []string) error {
	ids, err := a.resolveAll(refs)
	if err != nil {
		return err
	}
	for _, id := range ids {
		a.mgr.ToggleSelect(id, true)
	}
	return nil
}

func (a *app) statsCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show completion counts",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				return tui.RunStats(cmd.Context(), a.store, a.tuiOptions())
			}
			renderStats(a.stdout, a.store.CurrentStats())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep refreshing until q is pressed")
	return cmd
}

func (a *app) exportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all todos as json, yaml or html",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return usageError{err}
			}
			w := a.stdout
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}
			if err := export.Write(w, f, a.mgr.Todos(), a.now()); err != nil {
				return err
			}
			if w != a.stdout {
				ui.OK(a.stdout, "wrote "+output)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "o", string(export.FormatJSON), "json|yaml|html")
	cmd.Flags().StringVar(&output, "output", "", "file to write (default stdout)")
	return cmd
}

func (a *app) doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the stored todos against the data schema",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			violations, err := a.store.Diagnose()
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "backend %s, dir %s, key %s\n", a.cfg.Backend, a.cfg.Dir, a.cfg.Key)
			if len(violations) == 0 {
				ui.OK(a.stdout, "stored todos match the schema")
				return nil
			}
			for _, v := range violations {
				fmt.Fprintln(a.stdout, "  "+v.String())
			}
			return fmt.Errorf("%d schema violation(s); they are repaired on the next save", len(violations))
		},
	}
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive list",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTUI(cmd.Context())
		},
	}
}
