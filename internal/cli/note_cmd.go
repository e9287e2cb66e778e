package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/leadbook/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newNoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Read or replace a lead's note",
	}

	cmd.AddCommand(
		newNoteShowCmd(app),
		newNoteSaveCmd(app),
	)

	return cmd
}

func newNoteShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show LEAD",
		Short: "Print the current note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lead, err := resolveLead(ctx, app, args[0])
			if err != nil {
				return err
			}
			note, err := app.Notes.Load(ctx, lead)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if note.Text == "" {
				fmt.Fprintln(out, formatter.Dim("No note for "+lead.Name+"."))
				return nil
			}
			fmt.Fprintln(out, note.Text)
			if note.Timestamp != "" {
				fmt.Fprintln(out, formatter.Dim("saved "+note.Timestamp))
			}
			return nil
		},
	}
}

func newNoteSaveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "save LEAD TEXT...",
		Short: "Replace the note with TEXT",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lead, err := resolveLead(ctx, app, args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")

			stop := func() {}
			if app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Saving note...")
			}
			note, err := app.Notes.Save(ctx, lead.ID, text)
			stop()
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Saved note for %s %s\n", formatter.Bold(lead.Name), formatter.Dim(note.Timestamp))
			return nil
		},
	}
}
