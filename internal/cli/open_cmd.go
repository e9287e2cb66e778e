package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newOpenCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "open LEAD",
		Short: "Open the interactive lead profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("open needs an interactive terminal; use 'leadbook lead show' instead")
			}
			lead, err := resolveLead(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			p := tea.NewProgram(newLeadView(app, lead.ID), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}
