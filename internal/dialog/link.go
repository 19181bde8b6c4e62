package dialog

import (
	"strings"

	"github.com/kobzarvs/rtedit/internal/markup"
	"github.com/kobzarvs/rtedit/internal/selection"
)

// LinkPlaceholder is the initial content of the URL field.
const LinkPlaceholder = "https://"

type LinkDialog struct {
	base
	url  string
	text string
}

func NewLink(s Surface, t *selection.Tracker) *LinkDialog {
	return &LinkDialog{base: base{surface: s, tracker: t}}
}

// Open captures the selection and resets the fields.
func (d *LinkDialog) Open() error {
	if d.state != Closed {
		return nil
	}
	if err := d.open("link"); err != nil {
		return err
	}
	d.url = LinkPlaceholder
	d.text = ""
	return nil
}

func (d *LinkDialog) URL() string      { return d.url }
func (d *LinkDialog) SetURL(v string)  { d.url = v }
func (d *LinkDialog) Text() string     { return d.text }
func (d *LinkDialog) SetText(v string) { d.text = v }

func (d *LinkDialog) CanConfirm() bool {
	if d.state != Open {
		return false
	}
	u := strings.TrimSpace(d.url)
	return u != "" && d.url != LinkPlaceholder
}

// Confirm inserts the link at the saved range. An empty text uses the URL.
func (d *LinkDialog) Confirm() error {
	if err := d.ready(); err != nil {
		return err
	}
	if !d.CanConfirm() {
		d.err = ErrEmptyURL
		return ErrEmptyURL
	}
	return d.insert(markup.LinkFragment(strings.TrimSpace(d.url), d.text))
}

// Cancel closes the dialog without touching the document.
func (d *LinkDialog) Cancel() {
	d.discard()
	d.url = ""
	d.text = ""
}
