package cli

import (
	"fmt"

	"github.com/alexanderramin/leadbook/internal/cli/formatter"
	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/scheduler"
	"github.com/spf13/cobra"
)

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage follow-up tasks",
	}

	cmd.AddCommand(
		newTaskListCmd(app),
		newTaskAgendaCmd(app),
		newTaskAddCmd(app),
		newTaskEditCmd(app),
		newTaskToggleCmd(app),
		newTaskRemoveCmd(app),
	)

	return cmd
}

func newTaskListCmd(app *App) *cobra.Command {
	var filterStr string

	cmd := &cobra.Command{
		Use:   "list LEAD",
		Short: "List a lead's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			filter, err := parseFilter(filterStr)
			if err != nil {
				return err
			}
			lead, err := resolveLead(ctx, app, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.Load(ctx, lead)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskList(scheduler.VisibleTasks(tasks, filter), filter, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&filterStr, "filter", "all", "Task filter (all, pending, done, overdue)")

	return cmd
}

func newTaskAgendaCmd(app *App) *cobra.Command {
	var filterStr string

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "List tasks across all leads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter, err := parseFilter(filterStr)
			if err != nil {
				return err
			}
			tasks, err := app.Tasks.ListAll(cmd.Context(), filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAgenda(tasks, filter, app.now()))
			return nil
		},
	}

	cmd.Flags().StringVar(&filterStr, "filter", "pending", "Task filter (all, pending, done, overdue)")

	return cmd
}

func newTaskAddCmd(app *App) *cobra.Command {
	var draft domain.TaskDraft
	var typeStr string

	cmd := &cobra.Command{
		Use:   "add LEAD",
		Short: "Schedule a follow-up for a lead",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lead, err := resolveLead(ctx, app, args[0])
			if err != nil {
				return err
			}

			if typeStr != "" {
				tt, err := parseTaskType(typeStr)
				if err != nil {
					return err
				}
				draft.Type = tt
			}

			if draft.Title == "" && app.interactive() {
				if err := taskDraftForm(lead.Name, &draft).Run(); err != nil {
					return err
				}
			}

			task, err := app.Tasks.Add(ctx, lead.ID, lead.Name, draft)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskLine("Added", task))
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "Task title")
	cmd.Flags().StringVar(&draft.Due, "due", "", "Due date (YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	cmd.Flags().StringVar(&typeStr, "type", "", "Channel (call, sms, whatsapp, meeting)")
	cmd.Flags().StringVar(&draft.Note, "note", "", "Free-text note")
	cmd.Flags().BoolVar(&draft.Remind, "remind", false, "Flag the task for a reminder")

	return cmd
}

func newTaskEditCmd(app *App) *cobra.Command {
	var title, due, status, typeStr, note string
	var remind bool

	cmd := &cobra.Command{
		Use:   "edit LEAD TASK",
		Short: "Change task fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lead, err := resolveLead(ctx, app, args[0])
			if err != nil {
				return err
			}

			var patch domain.TaskPatch
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("due") {
				patch.Due = &due
			}
			if flags.Changed("status") {
				st, err := parseTaskStatus(status)
				if err != nil {
					return err
				}
				patch.Status = &st
			}
			if flags.Changed("type") {
				tt, err := parseTaskType(typeStr)
				if err != nil {
					return err
				}
				patch.Type = &tt
			}
			if flags.Changed("note") {
				patch.Note = &note
			}
			if flags.Changed("remind") {
				patch.Remind = &remind
			}
			if patch == (domain.TaskPatch{}) {
				return fmt.Errorf("nothing to change: pass at least one field flag")
			}

			task, err := app.Tasks.Edit(ctx, lead.ID, args[1], patch)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskLine("Updated", task))
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Task title")
	cmd.Flags().StringVar(&due, "due", "", "Due date")
	cmd.Flags().StringVar(&status, "status", "", "Status (pending, done, overdue)")
	cmd.Flags().StringVar(&typeStr, "type", "", "Channel (call, sms, whatsapp, meeting)")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note")
	cmd.Flags().BoolVar(&remind, "remind", false, "Flag the task for a reminder")

	return cmd
}

func newTaskToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle LEAD TASK",
		Short: "Flip a task between pending and done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lead, err := resolveLead(ctx, app, args[0])
			if err != nil {
				return err
			}
			task, err := app.Tasks.ToggleStatus(ctx, lead.ID, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTaskLine("Marked", task))
			return nil
		},
	}
}

func newTaskRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove LEAD TASK",
		Aliases: []string{"rm"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lead, err := resolveLead(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Tasks.Remove(ctx, lead.ID, args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed task %s\n", args[1])
			return nil
		},
	}
}
