package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/alexanderramin/leadbook/internal/cli/formatter"
	"github.com/alexanderramin/leadbook/internal/scheduler"
	"github.com/alexanderramin/leadbook/internal/service"
	"github.com/spf13/cobra"
)

func newLeadCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lead",
		Short: "Browse and edit leads",
	}

	cmd.AddCommand(
		newLeadListCmd(app),
		newLeadShowCmd(app),
		newLeadEditCmd(app),
		newLeadCycleCmd(app),
		newLeadDeleteCmd(app),
		newLeadSummaryCmd(app),
		newLeadExportCmd(app),
	)

	return cmd
}

func newLeadListCmd(app *App) *cobra.Command {
	var status, query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List leads in pipeline order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := service.LeadQuery{Query: query}
			if status != "" {
				st, err := parseLeadStatus(status)
				if err != nil {
					return err
				}
				q.Status = st
			}

			leads, err := app.Leads.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLeadList(leads))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Only leads with this status (cold, warm, hot, converted)")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Match name, phone or email")

	return cmd
}

func newLeadShowCmd(app *App) *cobra.Command {
	var filterStr string

	cmd := &cobra.Command{
		Use:   "show LEAD",
		Short: "Show a lead with its tasks and note",
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
			note, err := app.Notes.Load(ctx, lead)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatLeadProfile(formatter.LeadProfileData{
				Lead:   lead,
				Tasks:  scheduler.VisibleTasks(tasks, filter),
				Filter: filter,
				Note:   note,
				Region: app.Region,
				Now:    app.now(),
			}))
			return nil
		},
	}

	cmd.Flags().StringVar(&filterStr, "filter", "all", "Task filter (all, pending, done, overdue)")

	return cmd
}

var leadEditFlags = []string{"name", "phone", "email", "country", "status", "last-interaction", "value", "score"}

func newLeadEditCmd(app *App) *cobra.Command {
	var name, phoneStr, email, country, status, last string
	var value int64
	var score int

	cmd := &cobra.Command{
		Use:   "edit LEAD",
		Short: "Change lead fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !anyChanged(flags, leadEditFlags...) {
				return fmt.Errorf("nothing to change: pass at least one field flag")
			}

			ctx := cmd.Context()
			lead, err := resolveLead(ctx, app, args[0])
			if err != nil {
				return err
			}

			if flags.Changed("name") {
				lead.Name = name
			}
			if flags.Changed("phone") {
				lead.Phone = phoneStr
			}
			if flags.Changed("email") {
				lead.Email = email
			}
			if flags.Changed("country") {
				lead.Country = country
			}
			if flags.Changed("status") {
				st, err := parseLeadStatus(status)
				if err != nil {
					return err
				}
				lead.Status = st
			}
			if flags.Changed("last-interaction") {
				lead.LastInteraction = last
			}
			if flags.Changed("value") {
				lead.EstimatedValue = value
			}
			if flags.Changed("score") {
				lead.Score = score
			}

			if err := app.Leads.SaveEdit(ctx, lead); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s %s\n", formatter.Bold(lead.Name), formatter.LeadStatusPill(lead.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Lead name")
	cmd.Flags().StringVar(&phoneStr, "phone", "", "Phone number")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&country, "country", "", "Country")
	cmd.Flags().StringVar(&status, "status", "", "Status (cold, warm, hot, converted)")
	cmd.Flags().StringVar(&last, "last-interaction", "", "Last interaction label")
	cmd.Flags().Int64Var(&value, "value", 0, "Estimated value")
	cmd.Flags().IntVar(&score, "score", 0, "Score from 1 to 5")

	return cmd
}

func newLeadCycleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cycle LEAD",
		Short: "Move a lead to the next status (cold, warm, hot)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lead, err := resolveLead(ctx, app, args[0])
			if err != nil {
				return err
			}
			from := lead.Status
			updated, err := app.Leads.CycleStatus(ctx, lead.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s\n",
				formatter.Bold(updated.Name), formatter.LeadStatusPill(from), formatter.LeadStatusPill(updated.Status))
			return nil
		},
	}
}

func newLeadDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete LEAD",
		Short: "Delete a lead with its tasks and note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lead, err := resolveLead(ctx, app, args[0])
			if err != nil {
				return err
			}

			if !yes {
				if !app.interactive() {
					return fmt.Errorf("refusing to delete %s without --yes", lead.Name)
				}
				confirmed := false
				if err := confirmForm(fmt.Sprintf("Delete %s with all tasks and notes?", lead.Name), &confirmed).Run(); err != nil {
					return err
				}
				if !confirmed {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			if err := app.Leads.Delete(ctx, lead.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", formatter.Bold(lead.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")

	return cmd
}

func newLeadSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show pipeline totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.Leads.Summary(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatSummary(summary))
			return nil
		},
	}
}

func newLeadExportCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all leads as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if out == "" || out == "-" {
				_, err := app.Leads.ExportCSV(cmd.Context(), cmd.OutOrStdout())
				return err
			}
			return exportToFile(cmd.Context(), app, out, cmd)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")

	return cmd
}

func exportToFile(ctx context.Context, app *App, path string, cmd *cobra.Command) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	n, err := app.Leads.ExportCSV(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d leads to %s\n", n, path)
	return nil
}
