package formatter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/leadbook/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// RelativeDateFrom returns a human-friendly relative date string from a reference time.
func RelativeDateFrom(t time.Time, now time.Time) string {
	diff := t.Sub(now)
	days := int(math.Round(diff.Hours() / 24))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days < 0 && days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days < 0 && days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueCell renders a task's due value as "2024-02-10 09:00 (In 3d)".
// Values that do not parse are shown as stored, dimmed.
func DueCell(t domain.Task, now time.Time) string {
	due, ok := domain.ParseDue(t.Due)
	if !ok {
		if t.Due == "" {
			return Dim("--")
		}
		return Dim(t.Due)
	}

	abs := due.Format("2006-01-02 15:04")
	if due.Hour() == 0 && due.Minute() == 0 {
		abs = due.Format("2006-01-02")
	}
	rel := RelativeDateFrom(due, now)
	if t.Status == domain.TaskDone {
		return Dim(abs + " (" + rel + ")")
	}

	days := int(math.Round(due.Sub(now).Hours() / 24))
	style := StyleFg
	switch {
	case days <= 2:
		style = StyleRed
	case days <= 7:
		style = StyleYellow
	}
	return abs + " " + style.Render("("+rel+")")
}

// TaskTypeBadge returns a short label for a follow-up channel.
func TaskTypeBadge(t domain.TaskType) string {
	switch t {
	case domain.TaskCall:
		return StyleGreen.Render("☎ call")
	case domain.TaskSMS:
		return StyleBlue.Render("✉ sms")
	case domain.TaskWhatsApp:
		return StyleGreen.Render("◉ whatsapp")
	case domain.TaskMeeting:
		return StylePurple.Render("◆ meeting")
	case "":
		return StyleDim.Render("--")
	default:
		return StyleDim.Render(string(t))
	}
}

// ScoreStars renders a 1..5 score as filled and empty stars.
func ScoreStars(score int) string {
	if score < 0 {
		score = 0
	}
	if score > 5 {
		score = 5
	}
	return StyleYellow.Render(strings.Repeat("★", score)) + StyleDim.Render(strings.Repeat("☆", 5-score))
}

// FormatAmount groups digits in thousands, e.g. 12500000 -> "12,500,000".
func FormatAmount(v int64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatInt(v, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}

// OrDash returns s, or a dimmed "--" when s is blank.
func OrDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return Dim("--")
	}
	return s
}
