package cli

import (
	"fmt"

	"github.com/alexanderramin/leadbook/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Load leads, tasks and notes from a browser storage dump",
		Long: `Import reads a JSON object of browser storage keys ("crm-leads",
"crm-lead-tasks-<id>", "crm-lead-notes-<id>", "crm-tasks") and replaces the
lead collection with its contents. Nothing is written if any record is invalid.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportFile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatImportResult(result))
			return nil
		},
	}
}
