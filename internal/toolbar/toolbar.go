// Package toolbar maps toolbar buttons to surface commands and projects the
// active format set onto a button model for the renderer.
package toolbar

import (
	"errors"
	"fmt"

	"github.com/kobzarvs/rtedit/internal/document"
	"github.com/kobzarvs/rtedit/internal/editor"
)

var ErrUnknownButton = errors.New("unknown toolbar button")

// Button names, in toolbar order.
const (
	Undo        = "undo"
	Redo        = "redo"
	Bold        = "bold"
	Italic      = "italic"
	H2          = "h2"
	H3          = "h3"
	Blockquote  = "blockquote"
	BulletList  = "ul"
	OrderedList = "ol"
	AlignLeft   = "alignLeft"
	AlignCenter = "alignCenter"
	AlignRight  = "alignRight"
	Rule        = "rule"
	Link        = "link"
	Image       = "image"
)

// Surface is what the controller needs from an editing surface.
type Surface interface {
	Focus()
	ApplyFormat(cmd, value string) error
	ActiveFormats() document.FormatSet
	Disabled() bool
	CanUndo() bool
	CanRedo() bool
}

// Opener opens the insertion dialogs behind the link and image buttons.
type Opener interface {
	OpenLink() error
	OpenImage() error
}

type Button struct {
	Name     string
	Label    string
	Title    string
	Group    int
	Active   bool
	Disabled bool
}

type buttonDef struct {
	name   string
	label  string
	title  string
	group  int
	cmd    string
	value  string
	format document.Format
	block  bool
}

var buttons = []buttonDef{
	{name: Undo, label: "↶", title: "Undo", cmd: editor.CmdUndo},
	{name: Redo, label: "↷", title: "Redo", cmd: editor.CmdRedo},
	{name: Bold, label: "B", title: "Bold (Ctrl+B)", group: 1, cmd: editor.CmdBold, format: document.FormatBold},
	{name: Italic, label: "I", title: "Italic (Ctrl+I)", group: 1, cmd: editor.CmdItalic, format: document.FormatItalic},
	{name: H2, label: "H2", title: "Heading 2", group: 2, cmd: editor.CmdFormatBlock, value: "h2", format: document.FormatH2, block: true},
	{name: H3, label: "H3", title: "Heading 3", group: 2, cmd: editor.CmdFormatBlock, value: "h3", format: document.FormatH3, block: true},
	{name: Blockquote, label: "❝", title: "Blockquote", group: 2, cmd: editor.CmdFormatBlock, value: "blockquote", format: document.FormatBlockquote, block: true},
	{name: BulletList, label: "•", title: "Bullet List", group: 3, cmd: editor.CmdUnorderedList, format: document.FormatBulletList},
	{name: OrderedList, label: "1.", title: "Numbered List", group: 3, cmd: editor.CmdOrderedList, format: document.FormatOrderedList},
	{name: AlignLeft, label: "⇤", title: "Align Left", group: 4, cmd: editor.CmdJustifyLeft, format: document.FormatJustifyLeft},
	{name: AlignCenter, label: "↔", title: "Align Center", group: 4, cmd: editor.CmdJustifyCenter, format: document.FormatJustifyCenter},
	{name: AlignRight, label: "⇥", title: "Align Right", group: 4, cmd: editor.CmdJustifyRight, format: document.FormatJustifyRight},
	{name: Rule, label: "―", title: "Horizontal Rule", group: 5, cmd: editor.CmdInsertHorizontalRule},
	{name: Link, label: "Link", title: "Insert Link", group: 5},
	{name: Image, label: "Img", title: "Insert Image into content", group: 6},
}

// Names returns every button name in toolbar order.
func Names() []string {
	out := make([]string, len(buttons))
	for i, b := range buttons {
		out[i] = b.name
	}
	return out
}

type Controller struct {
	surface Surface
	opener  Opener
	formats document.FormatSet
}

func New(s Surface, o Opener) *Controller {
	c := &Controller{surface: s, opener: o}
	c.Refresh()
	return c
}

// Exec runs the button called name. Buttons are ignored while the surface is
// disabled.
func (c *Controller) Exec(name string) error {
	b, ok := lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownButton, name)
	}
	if c.surface.Disabled() {
		return nil
	}
	switch name {
	case Link:
		if c.opener == nil {
			return nil
		}
		return c.opener.OpenLink()
	case Image:
		if c.opener == nil {
			return nil
		}
		return c.opener.OpenImage()
	}
	value := b.value
	if b.block && c.surface.ActiveFormats().Has(b.format) {
		value = "p"
	}
	c.surface.Focus()
	err := c.surface.ApplyFormat(b.cmd, value)
	c.Refresh()
	return err
}

// Refresh re-reads the active format set from the surface.
func (c *Controller) Refresh() {
	c.formats = c.surface.ActiveFormats()
}

// Active reports whether the button called name is lit.
func (c *Controller) Active(name string) bool {
	b, ok := lookup(name)
	if !ok || b.format == "" {
		return false
	}
	return c.formats.Has(b.format)
}

func (c *Controller) Buttons() []Button {
	disabled := c.surface.Disabled()
	out := make([]Button, 0, len(buttons))
	for _, b := range buttons {
		btn := Button{
			Name:     b.name,
			Label:    b.label,
			Title:    b.title,
			Group:    b.group,
			Active:   b.format != "" && c.formats.Has(b.format),
			Disabled: disabled,
		}
		switch b.name {
		case Undo:
			btn.Disabled = disabled || !c.surface.CanUndo()
		case Redo:
			btn.Disabled = disabled || !c.surface.CanRedo()
		}
		out = append(out, btn)
	}
	return out
}

func lookup(name string) (buttonDef, bool) {
	for _, b := range buttons {
		if b.name == name {
			return b, true
		}
	}
	return buttonDef{}, false
}
