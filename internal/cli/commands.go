package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/idilsaglam/tasks/internal/ctxlog"
	"github.com/idilsaglam/tasks/internal/registry"
	"github.com/idilsaglam/tasks/internal/tui"
	"github.com/idilsaglam/tasks/internal/ui"
)

func minArgs(n int, usage string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("usage: %s", usage)
		}
		return nil
	}
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usagef("%s: unexpected argument %q", cmd.Name(), args[0])
	}
	return nil
}

// -------------- add / ls / find ----------------

func (a *app) addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <description...>",
		Short: "Add a new task (description can be multiple words)",
		Args:  minArgs(1, "tasks add <description...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, err := a.registry(ctx)
			if err != nil {
				return err
			}
			t, err := reg.Add(strings.TrimSpace(strings.Join(args, " ")))
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			if err := a.save(ctx, reg); err != nil {
				return err
			}
			ctxlog.FromContext(ctx).Info("task added", "id", t.ID)
			ui.OK(cmd.OutOrStdout(), "added "+t.ID.String())
			return nil
		},
	}
}

func (a *app) lsCmd() *cobra.Command {
	var showIDs bool
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List tasks",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry(cmd.Context())
			if err != nil {
				return err
			}
			lines := ui.Summary("Tasks", reg.List(), a.cfg.Group, showIDs)
			lines = append(lines, "", ui.Current().Muted.Render("Tip: add with `tasks add \"Buy milk\"`"))
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showIDs, "ids", false, "show task ids")
	return cmd
}

func (a *app) findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find <description...>",
		Short: "Show every task with exactly this description",
		Args:  minArgs(1, "tasks find <description...>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.registry(cmd.Context())
			if err != nil {
				return err
			}
			desc := strings.TrimSpace(strings.Join(args, " "))
			found, err := reg.Find(desc)
			if err != nil {
				return fmt.Errorf("find: %w", err)
			}
			lines := []string{ui.Header(fmt.Sprintf("Matches for %q", desc), found), ""}
			if len(found) == 0 {
				lines = append(lines, ui.Current().Muted.Render("no matching tasks"))
			} else {
				lines = append(lines, ui.TaskLines(found, true)...)
			}
			ui.Panel(cmd.OutOrStdout(), lines)
			return nil
		},
	}
}

// -------------- done / rm ----------------

// target is a description (first match), an id, or a 1-based position
// as printed by ls.
type target struct {
	desc  string
	id    uuid.UUID
	index int
}

func (t target) String() string {
	switch {
	case t.desc != "":
		return fmt.Sprintf("%q", t.desc)
	case t.index > 0:
		return fmt.Sprintf("#%d", t.index)
	}
	return t.id.String()
}

func parseTarget(verb, idFlag string, index int, args []string) (target, error) {
	selectors := 0
	if idFlag != "" {
		selectors++
	}
	if index != 0 {
		selectors++
	}
	if len(args) > 0 {
		selectors++
	}
	switch {
	case selectors == 0:
		return target{}, usagef("usage: tasks %s <description...> | --id <uuid> | --index <n>", verb)
	case selectors > 1:
		return target{}, usagef("%s: give one of --id, --index or a description", verb)
	case idFlag != "":
		id, err := uuid.Parse(idFlag)
		if err != nil {
			return target{}, usagef("%s: not a task id: %s", verb, idFlag)
		}
		return target{id: id}, nil
	case index != 0:
		if index < 0 {
			return target{}, usagef("%s: index must be positive, got %d", verb, index)
		}
		return target{index: index}, nil
	}
	desc := strings.TrimSpace(strings.Join(args, " "))
	if desc == "" {
		return target{}, usagef("%s: empty description", verb)
	}
	return target{desc: desc}, nil
}

// resolve turns an index target into an id target against the current list.
func (t target) resolve(reg *registry.Registry, errOut io.Writer) (target, error) {
	if t.index == 0 {
		return t, nil
	}
	tasks := reg.List()
	if t.index > len(tasks) {
		ui.Hint(errOut, "run `tasks ls` to see valid indexes")
		return t, usagef("index out of range: have %d, got %d", len(tasks), t.index)
	}
	t.id = tasks[t.index-1].ID
	return t, nil
}

// mutateCmd builds done and rm, which differ only in the registry calls.
func (a *app) mutateCmd(
	verb, short, okMsg string,
	byDesc func(*registry.Registry, string) (bool, error),
	byID func(*registry.Registry, uuid.UUID) (bool, error),
) *cobra.Command {
	var (
		idFlag string
		index  int
	)
	cmd := &cobra.Command{
		Use:   verb + " <description...> | --id <uuid> | --index <n>",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			tg, err := parseTarget(verb, idFlag, index, args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			reg, err := a.registry(ctx)
			if err != nil {
				return err
			}
			if tg, err = tg.resolve(reg, cmd.ErrOrStderr()); err != nil {
				return err
			}
			var matched bool
			if tg.desc != "" {
				matched, err = byDesc(reg, tg.desc)
			} else {
				matched, err = byID(reg, tg.id)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", verb, err)
			}
			if !matched {
				ui.Hint(cmd.ErrOrStderr(), "run `tasks ls --ids` to see tasks")
				return fmt.Errorf("%s: no task matches %s", verb, tg)
			}
			if err := a.save(ctx, reg); err != nil {
				return err
			}
			ctxlog.FromContext(ctx).Info("task "+okMsg, "target", tg.String())
			ui.OK(cmd.OutOrStdout(), okMsg)
			return nil
		},
	}
	cmd.Flags().StringVar(&idFlag, "id", "", "match by task id instead of description")
	cmd.Flags().IntVar(&index, "index", 0, "match by 1-based position in ungrouped ls order")
	return cmd
}

func (a *app) doneCmd() *cobra.Command {
	return a.mutateCmd("done", "Mark the first matching task done", "marked done",
		(*registry.Registry).MarkDone, (*registry.Registry).MarkDoneByID)
}

func (a *app) rmCmd() *cobra.Command {
	return a.mutateCmd("rm", "Remove the first matching task", "removed",
		(*registry.Registry).Remove, (*registry.Registry).RemoveByID)
}

// -------------- tui ----------------

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Browse and edit tasks interactively",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reg, err := a.registry(ctx)
			if err != nil {
				return err
			}
			changed, err := tui.Run(reg)
			if err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			if !changed {
				return nil
			}
			if err := a.save(ctx, reg); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "saved")
			return nil
		},
	}
}
