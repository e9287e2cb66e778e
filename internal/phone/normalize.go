// Package phone converts raw lead phone numbers into the formats used by
// outgoing deep links. Numbers without a country code are treated as Iranian.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

const countryCode = "98"

// digitsOnly strips every non-digit character, including a leading "+".
func digitsOnly(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToDialFormat returns the "+98…" form used by tel: and sms: links.
// A raw value without digits yields "".
func ToDialFormat(raw string) string {
	digits := digitsOnly(raw)
	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "0"):
		return "+" + countryCode + digits[1:]
	case strings.HasPrefix(digits, countryCode):
		return "+" + digits
	default:
		return "+" + countryCode + digits
	}
}

// ToMessagingFormat returns the "98…" form, without a leading "+", used by
// wa.me links. A raw value without digits yields "".
func ToMessagingFormat(raw string) string {
	digits := digitsOnly(raw)
	switch {
	case digits == "":
		return ""
	case strings.HasPrefix(digits, "0"):
		return countryCode + digits[1:]
	case strings.HasPrefix(digits, countryCode):
		return digits
	default:
		return countryCode + digits
	}
}

// Display formats a number for people to read, e.g. "+98 912 345 6789".
// If the number does not parse as valid for region, the dial format is returned.
func Display(raw, region string) string {
	dial := ToDialFormat(raw)
	if dial == "" {
		return ""
	}

	number, err := phonenumbers.Parse(dial, region)
	if err != nil {
		return dial
	}
	if !phonenumbers.IsValidNumber(number) {
		return dial
	}
	return phonenumbers.Format(number, phonenumbers.INTERNATIONAL)
}
