package cli

import (
	"errors"
	"strings"

	"github.com/alexanderramin/leadbook/internal/cli/formatter"
	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// leadbookHuhTheme returns a huh theme matching the formatter palette.
func leadbookHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

func validateTitle(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("title is required")
	}
	return nil
}

func validateDue(s string) error {
	if _, ok := domain.ParseDue(s); !ok {
		return errors.New("use YYYY-MM-DD or YYYY-MM-DDTHH:MM")
	}
	return nil
}

func taskTypeOptions() []huh.Option[domain.TaskType] {
	return []huh.Option[domain.TaskType]{
		huh.NewOption("Call", domain.TaskCall),
		huh.NewOption("SMS", domain.TaskSMS),
		huh.NewOption("WhatsApp", domain.TaskWhatsApp),
		huh.NewOption("Meeting", domain.TaskMeeting),
	}
}

// taskDraftForm collects a new task for leadName into draft.
func taskDraftForm(leadName string, draft *domain.TaskDraft) *huh.Form {
	if draft.Type == "" {
		draft.Type = domain.TaskCall
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Description("Follow-up for "+leadName).
				Value(&draft.Title).
				Validate(validateTitle),
			huh.NewInput().
				Title("Due").
				Placeholder("2025-06-30T10:00").
				Value(&draft.Due).
				Validate(validateDue),
			huh.NewSelect[domain.TaskType]().
				Title("Type").
				Options(taskTypeOptions()...).
				Value(&draft.Type),
			huh.NewText().
				Title("Note").
				Value(&draft.Note),
			huh.NewConfirm().
				Title("Remind me?").
				Value(&draft.Remind),
		),
	).WithTheme(leadbookHuhTheme()).WithShowHelp(false)
}

// confirmForm asks a yes/no question, defaulting to no.
func confirmForm(title string, result *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Affirmative("Yes").
				Negative("No").
				Value(result),
		),
	).WithTheme(leadbookHuhTheme()).WithShowHelp(false)
}
