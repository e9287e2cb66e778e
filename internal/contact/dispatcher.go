// Package contact opens outbound call, SMS and WhatsApp links for a lead.
//
// Every dispatch is fire-and-forget. Whether or not the OS manages to open
// the link, callers receive a Fallback describing the normalized number so
// the user can finish the contact by hand.
package contact

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/alexanderramin/leadbook/internal/phone"
	"github.com/atotto/clipboard"
	"github.com/pkg/browser"
)

// ErrNoPhone is returned by Call and SMS when the lead has no usable number.
var ErrNoPhone = errors.New("lead has no phone number")

// Channel identifies an outbound contact method.
type Channel string

const (
	ChannelCall     Channel = "call"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Opener hands a URL to the operating system.
type Opener interface {
	Open(url string) error
}

// Clipboard writes text to the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// BrowserOpener opens URLs with the desktop's default handler.
type BrowserOpener struct{}

func (BrowserOpener) Open(url string) error { return browser.OpenURL(url) }

// SystemClipboard is the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Fallback is what the user sees after a dispatch: the number in a form they
// can dial or copy, plus the link that was attempted.
type Fallback struct {
	Channel    Channel
	Number     string
	Display    string
	URL        string
	Attempted  bool
	AttemptErr error
}

// Opened reports whether the OS accepted the link.
func (f Fallback) Opened() bool {
	return f.Attempted && f.AttemptErr == nil
}

// Dispatcher attempts outbound contact links.
type Dispatcher struct {
	opener    Opener
	clipboard Clipboard
	logger    *slog.Logger
	region    string
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for failed attempts.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithRegion sets the region used to format numbers for display.
func WithRegion(region string) Option {
	return func(d *Dispatcher) {
		if region != "" {
			d.region = region
		}
	}
}

func NewDispatcher(opener Opener, clip Clipboard, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		opener:    opener,
		clipboard: clip,
		logger:    slog.Default(),
		region:    "IR",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Call attempts a tel: link.
func (d *Dispatcher) Call(raw string) (Fallback, error) {
	fb := d.fallback(ChannelCall, raw, phone.ToDialFormat(raw))
	if fb.Number == "" {
		return fb, ErrNoPhone
	}
	fb.URL = CallURL(raw)
	d.attempt(&fb)
	return fb, nil
}

// SMS attempts an sms: link with message as the body.
func (d *Dispatcher) SMS(raw, message string) (Fallback, error) {
	fb := d.fallback(ChannelSMS, raw, phone.ToDialFormat(raw))
	if fb.Number == "" {
		return fb, ErrNoPhone
	}
	fb.URL = SMSURL(raw, message)
	d.attempt(&fb)
	return fb, nil
}

// WhatsApp attempts a wa.me link. A missing number is not an error: the link
// then lets the user pick the recipient.
func (d *Dispatcher) WhatsApp(message, raw string) Fallback {
	fb := d.fallback(ChannelWhatsApp, raw, phone.ToMessagingFormat(raw))
	fb.URL = WhatsAppURL(message, raw)
	d.attempt(&fb)
	return fb
}

// Copy writes text to the clipboard.
func (d *Dispatcher) Copy(text string) error {
	if d.clipboard == nil {
		return errors.New("clipboard unavailable")
	}
	if err := d.clipboard.WriteAll(text); err != nil {
		d.logger.Warn("clipboard write failed", "error", err)
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	return nil
}

func (d *Dispatcher) fallback(ch Channel, raw, number string) Fallback {
	return Fallback{
		Channel: ch,
		Number:  number,
		Display: phone.Display(raw, d.region),
	}
}

// attempt never fails the dispatch. Opener errors and panics are recorded on
// the fallback and logged.
func (d *Dispatcher) attempt(fb *Fallback) {
	fb.Attempted = true
	fb.AttemptErr = d.open(fb.URL)
	if fb.AttemptErr != nil {
		d.logger.Warn("contact link not opened",
			"channel", string(fb.Channel),
			"url", fb.URL,
			"error", fb.AttemptErr,
		)
	}
}

func (d *Dispatcher) open(url string) (err error) {
	if d.opener == nil {
		return errors.New("no url opener")
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("url opener panicked: %v", r)
		}
	}()
	return d.opener.Open(url)
}
