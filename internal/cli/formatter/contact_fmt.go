package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/leadbook/internal/contact"
)

// FormatFallback renders the manual-contact card shown after every dispatch,
// whether or not the link opened.
func FormatFallback(fb contact.Fallback) string {
	var b strings.Builder

	switch {
	case fb.Opened():
		b.WriteString(StyleGreen.Render("Opened ") + Dim(fb.URL) + "\n\n")
	case fb.Attempted:
		b.WriteString(StyleYellow.Render("Could not open the link. Continue manually.") + "\n\n")
	}

	if fb.Number != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Number: "), Bold(fb.Number)))
	}
	if fb.Display != "" && fb.Display != fb.Number {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Display:"), fb.Display))
	}
	if fb.URL != "" {
		b.WriteString(fmt.Sprintf("%s %s\n", Dim("Link:   "), fb.URL))
	}
	b.WriteString(Dim("Copy the number with: leadbook contact copy LEAD phone"))

	return RenderBox(string(fb.Channel), b.String())
}
