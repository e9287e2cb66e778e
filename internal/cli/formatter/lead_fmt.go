package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/alexanderramin/leadbook/internal/phone"
	"github.com/alexanderramin/leadbook/internal/service"
	"github.com/charmbracelet/lipgloss"
)

const summaryBarWidth = 12

// LeadProfileData holds everything shown on a lead's profile card.
type LeadProfileData struct {
	Lead   *domain.Lead
	Tasks  []domain.Task
	Filter domain.TaskFilter
	Note   domain.Note
	Region string
	Now    time.Time
}

// FormatLeadList renders leads as a table inside a bordered box.
func FormatLeadList(leads []domain.Lead) string {
	if len(leads) == 0 {
		return RenderBox("Leads", Dim("No leads match."))
	}

	headers := []string{"ID", "NAME", "PHONE", "STATUS", "SCORE", "VALUE", "LAST CONTACT"}
	rows := make([][]string, 0, len(leads))
	for _, l := range leads {
		rows = append(rows, []string{
			Dim(l.ID),
			Bold(l.Name),
			OrDash(l.Phone),
			LeadStatusPill(l.Status),
			ScoreStars(l.Score),
			FormatAmount(l.EstimatedValue),
			OrDash(l.LastInteraction),
		})
	}

	title := fmt.Sprintf("Leads (%d)", len(leads))
	return RenderBox(title, RenderTableRight(headers, rows, 5))
}

// FormatLeadProfile renders a lead card with its tasks and current note side by side.
func FormatLeadProfile(data LeadProfileData) string {
	left := buildLeadPanel(data.Lead, data.Region)
	right := buildTaskPanel(data.Tasks, data.Filter, data.Now) + "\n\n" + buildNotePanel(data.Note)

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(38).Render(left),
		"  ",
		right,
	)
	return RenderBox(data.Lead.Name, body)
}

func buildLeadPanel(l *domain.Lead, region string) string {
	var b strings.Builder
	field := func(label, value string) {
		b.WriteString(Dim(fmt.Sprintf("%-9s", label)) + " " + value + "\n")
	}

	field("ID", l.ID)
	field("Status", LeadStatusPill(l.Status))
	field("Score", ScoreStars(l.Score))
	field("Phone", OrDash(phone.Display(l.Phone, region)))
	field("Email", OrDash(l.Email))
	field("Country", OrDash(l.Country))
	field("Value", FormatAmount(l.EstimatedValue))
	field("Last", OrDash(l.LastInteraction))

	if len(l.Interactions) > 0 {
		b.WriteString("\n" + Header("History") + "\n")
		for _, in := range l.Interactions {
			b.WriteString(fmt.Sprintf("%s %s %s\n", TaskTypeBadge(in.Type), in.Text, Dim(in.Timestamp)))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func buildNotePanel(n domain.Note) string {
	var b strings.Builder
	b.WriteString(Header("Note") + "\n")
	if n.Text == "" {
		b.WriteString(Dim("No note yet."))
		return b.String()
	}
	b.WriteString(n.Text)
	if n.Timestamp != "" {
		b.WriteString("\n" + Dim("saved "+n.Timestamp))
	}
	return b.String()
}

// FormatSummary renders pipeline totals with a share bar per status.
func FormatSummary(s *service.PipelineSummary) string {
	var b strings.Builder

	statuses := []domain.LeadStatus{domain.LeadHot, domain.LeadWarm, domain.LeadCold, domain.LeadConverted}
	rows := make([][]string, 0, len(statuses))
	for _, st := range statuses {
		n := s.ByStatus[st]
		rows = append(rows, []string{
			LeadStatusPill(st),
			fmt.Sprintf("%d", n),
			RenderShare(n, s.Total, summaryBarWidth),
		})
	}
	b.WriteString(RenderTableRight([]string{"STATUS", "LEADS", "SHARE"}, rows, 1))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s %d\n", Dim("Total leads:"), s.Total))
	b.WriteString(fmt.Sprintf("%s %s\n", Dim("Hot pipeline value:"), Bold(FormatAmount(s.HotValue))))
	b.WriteString(fmt.Sprintf("%s %s", Dim("Average lead value:"), FormatAmount(s.AverageValue)))

	return RenderBox("Pipeline", b.String())
}

// FormatImportResult summarizes a legacy import.
func FormatImportResult(r *service.ImportResult) string {
	lines := []string{
		fmt.Sprintf("%s %d", Dim("Leads:"), r.LeadCount),
		fmt.Sprintf("%s %d", Dim("Lead task lists:"), r.TaskSlotCount),
		fmt.Sprintf("%s %d", Dim("Notes:"), r.NoteSlotCount),
		fmt.Sprintf("%s %d", Dim("Agenda tasks:"), r.GlobalTaskRows),
	}
	return RenderBox("Imported", strings.Join(lines, "\n"))
}
