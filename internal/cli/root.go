package cli

import (
	"time"

	"github.com/alexanderramin/leadbook/internal/contact"
	"github.com/alexanderramin/leadbook/internal/service"
	"github.com/spf13/cobra"
)

// App holds the services and settings used by CLI commands.
type App struct {
	Leads   service.LeadService
	Tasks   service.TaskService
	Notes   service.NoteService
	Import  service.ImportService
	Contact *contact.Dispatcher

	// Greeting is the WhatsApp message template; {{name}} is replaced by the lead name.
	Greeting string
	// Region formats phone numbers for display.
	Region string

	// IsInteractive reports whether forms and the lead view may take over the terminal.
	IsInteractive func() bool
	// Now is the clock used for relative due dates.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// NewRootCmd creates the top-level "leadbook" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "leadbook",
		Short:         "Lead follow-ups, tasks and notes from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLeadCmd(app),
		newTaskCmd(app),
		newNoteCmd(app),
		newContactCmd(app),
		newImportCmd(app),
		newOpenCmd(app),
	)

	return root
}
