package contact

import (
	"net/url"
	"strings"

	"github.com/alexanderramin/leadbook/internal/phone"
)

// DefaultGreeting is the WhatsApp message used when none is configured.
const DefaultGreeting = "Hi {{name}}! Just following up. Is now a good time for a quick chat?"

// escapeComponent percent-encodes s for use inside a URL query value.
// Spaces become %20 rather than "+", which some messaging apps show literally.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// CallURL returns the tel: link for raw, or "" when raw has no digits.
func CallURL(raw string) string {
	dial := phone.ToDialFormat(raw)
	if dial == "" {
		return ""
	}
	return "tel:" + dial
}

// SMSURL returns the sms: link for raw with message prefilled as the body.
func SMSURL(raw, message string) string {
	dial := phone.ToDialFormat(raw)
	if dial == "" {
		return ""
	}
	if message == "" {
		return "sms:" + dial
	}
	return "sms:" + dial + "?body=" + escapeComponent(message)
}

// WhatsAppURL returns the wa.me link for message. Without a usable number the
// link opens the contact picker instead of a chat.
func WhatsAppURL(message, raw string) string {
	text := escapeComponent(message)
	if number := phone.ToMessagingFormat(raw); number != "" {
		return "https://wa.me/" + number + "?text=" + text
	}
	return "https://wa.me/?text=" + text
}

// RenderGreeting substitutes name for every {{name}} placeholder in template.
func RenderGreeting(template, name string) string {
	if template == "" {
		template = DefaultGreeting
	}
	return strings.ReplaceAll(template, "{{name}}", name)
}
