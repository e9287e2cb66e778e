package cli

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/leadbook/internal/cli/formatter"
	"github.com/alexanderramin/leadbook/internal/contact"
	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/phone"
	"github.com/spf13/cobra"
)

func newContactCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Call, text or message a lead",
	}

	cmd.AddCommand(
		newContactDispatchCmd(app, contact.ChannelCall, "Open a tel: link for the lead"),
		newContactDispatchCmd(app, contact.ChannelSMS, "Open an sms: link with an optional body"),
		newContactDispatchCmd(app, contact.ChannelWhatsApp, "Open a WhatsApp chat with a greeting"),
		newContactCopyCmd(app),
	)

	return cmd
}

// dispatch runs one outbound channel. message is ignored for calls.
func dispatch(app *App, ch contact.Channel, lead *domain.Lead, message string) (contact.Fallback, error) {
	switch ch {
	case contact.ChannelCall:
		return app.Contact.Call(lead.Phone)
	case contact.ChannelSMS:
		return app.Contact.SMS(lead.Phone, message)
	default:
		if message == "" {
			message = contact.RenderGreeting(app.Greeting, lead.Name)
		}
		return app.Contact.WhatsApp(message, lead.Phone), nil
	}
}

func newContactDispatchCmd(app *App, ch contact.Channel, short string) *cobra.Command {
	var message string
	var copyNumber bool

	cmd := &cobra.Command{
		Use:   string(ch) + " LEAD",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lead, err := resolveLead(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			fb, err := dispatch(app, ch, lead, message)
			if err != nil {
				return fmt.Errorf("%s %s: %w", ch, lead.Name, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatFallback(fb))

			if copyNumber && fb.Number != "" {
				if err := app.Contact.Copy(fb.Number); err != nil {
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.StyleYellow.Render("Copy failed: "+err.Error()))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Number copied to clipboard."))
			}
			return nil
		},
	}

	if ch != contact.ChannelCall {
		cmd.Flags().StringVarP(&message, "message", "m", "", "Message text")
	}
	cmd.Flags().BoolVar(&copyNumber, "copy", false, "Also copy the number to the clipboard")

	return cmd
}

func newContactCopyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:       "copy LEAD name|phone|email",
		Short:     "Copy a lead field to the clipboard",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"name", "phone", "email"},
		RunE: func(cmd *cobra.Command, args []string) error {
			lead, err := resolveLead(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}

			field := strings.ToLower(args[1])
			var value string
			switch field {
			case "name":
				value = lead.Name
			case "phone":
				value = phone.ToDialFormat(lead.Phone)
			case "email":
				value = lead.Email
			default:
				return fmt.Errorf("unknown field %q (name, phone, email)", args[1])
			}
			if value == "" {
				return fmt.Errorf("%s has no %s", lead.Name, field)
			}

			if err := app.Contact.Copy(value); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %s %s\n", field, formatter.Bold(value))
			return nil
		},
	}
}
