package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToDialFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"local with spaces", "0912 345 6789", "+989123456789"},
		{"already dial format", "+989123456789", "+989123456789"},
		{"country code without plus", "989123456789", "+989123456789"},
		{"bare subscriber number", "9123456789", "+989123456789"},
		{"punctuation stripped", "(0912) 345-6789", "+989123456789"},
		{"double zero prefix", "00989123456789", "+980989123456789"},
		{"no digits", "n/a", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToDialFormat(tt.raw))
		})
	}
}

func TestToMessagingFormat(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"local with spaces", "0912 345 6789", "989123456789"},
		{"dial format drops plus", "+989123456789", "989123456789"},
		{"country code unchanged", "989123456789", "989123456789"},
		{"bare subscriber number", "9123456789", "989123456789"},
		{"no digits", "---", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToMessagingFormat(tt.raw))
		})
	}
}

func TestFormats_DifferOnlyByPlus(t *testing.T) {
	for _, raw := range []string{"0912 345 6789", "+98 912 345 6789", "9123456789", "98 21 1234 5678"} {
		assert.Equal(t, "+"+ToMessagingFormat(raw), ToDialFormat(raw), raw)
	}
}

func TestToDialFormat_Idempotent(t *testing.T) {
	for _, raw := range []string{"0912 345 6789", "+989123456789", "12345"} {
		once := ToDialFormat(raw)
		assert.Equal(t, once, ToDialFormat(once), raw)
	}
}

func TestDisplay(t *testing.T) {
	assert.Equal(t, "+98 912 345 6789", Display("0912 345 6789", "IR"))
	assert.Equal(t, "+9812", Display("12", "IR"), "invalid numbers fall back to dial format")
	assert.Equal(t, "", Display("", "IR"))
}
