package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/taskshelf/pkg/types"
)

func newAddCmd(a *app) *cobra.Command {
	var (
		notes      string
		importance int
		due        string
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a task",
		Example: `  taskshelf add "Pay rent" --importance 1 --due 2026-11-01
  taskshelf add "Call Sam" --notes "about the lease"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := types.NewTask(strings.Join(args, " "))
			task.Notes = notes
			if err := task.SetImportance(importance); err != nil {
				return err
			}
			dueAt, err := parseDue(due)
			if err != nil {
				return err
			}
			task.DueAt = dueAt

			table, err := a.tasks()
			if err != nil {
				return err
			}
			if _, err := table.Set("", task); err != nil {
				return fmt.Errorf("add task: %w", err)
			}
			if a.flags.jsonMode {
				return writeJSON(a.out(cmd), viewOf(task))
			}
			fmt.Fprintf(a.out(cmd), "Added %s\n", task.TaskID)
			return nil
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "free-form notes")
	cmd.Flags().IntVar(&importance, "importance", types.ImportanceNone, "0 (do or die) to 3 (none)")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	return cmd
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display a task with full details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.getTask(args[0])
			if err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(a.out(cmd), viewOf(task))
			}
			writeTaskDetail(a.out(cmd), task)
			return nil
		},
	}
}

func newDoneCmd(a *app) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.getTask(args[0])
			if err != nil {
				return err
			}
			verb := "Completed"
			if undo {
				task.Reopen()
				verb = "Reopened"
			} else {
				task.Complete()
			}
			if err := a.saveTask(task); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(a.out(cmd), viewOf(task))
			}
			fmt.Fprintf(a.out(cmd), "%s %s\n", verb, task.TaskID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "reopen a completed task")
	return cmd
}

// newNotesCmd is the target of the notes row action.
func newNotesCmd(a *app) *cobra.Command {
	var clearNotes bool
	cmd := &cobra.Command{
		Use:   "notes <id> [text...]",
		Short: "Print or replace a task's notes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task, err := a.getTask(args[0])
			if err != nil {
				return err
			}
			if len(args) == 1 && !clearNotes {
				if a.flags.jsonMode {
					return writeJSON(a.out(cmd), map[string]string{"task_id": task.TaskID, "notes": task.Notes})
				}
				if task.Notes != "" {
					fmt.Fprintln(a.out(cmd), task.Notes)
				}
				return nil
			}
			if clearNotes && len(args) > 1 {
				return usageErrorf("--clear takes no text")
			}

			task.Notes = strings.Join(args[1:], " ")
			if err := a.saveTask(task); err != nil {
				return err
			}
			if a.flags.jsonMode {
				return writeJSON(a.out(cmd), viewOf(task))
			}
			fmt.Fprintf(a.out(cmd), "Updated notes of %s\n", task.TaskID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clearNotes, "clear", false, "remove the notes")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := a.tasks()
			if err != nil {
				return err
			}
			if err := table.Delete(args[0]); err != nil {
				return fmt.Errorf("delete task %s: %w", args[0], err)
			}
			if a.flags.jsonMode {
				return writeJSON(a.out(cmd), map[string]string{"deleted": args[0]})
			}
			fmt.Fprintf(a.out(cmd), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func (a *app) getTask(id string) (*types.Task, error) {
	table, err := a.tasks()
	if err != nil {
		return nil, err
	}
	task, err := table.Get(id)
	if err != nil {
		return nil, fmt.Errorf("get task %s: %w", id, err)
	}
	return task, nil
}

func (a *app) saveTask(task *types.Task) error {
	table, err := a.tasks()
	if err != nil {
		return err
	}
	if _, err := table.Set(task.TaskID, task); err != nil {
		return fmt.Errorf("save task %s: %w", task.TaskID, err)
	}
	return nil
}
