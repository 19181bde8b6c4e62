// Package dialog implements the image and link insertion dialogs as small
// state machines over an editing surface. Both dialogs share one selection
// tracker so only one of them can hold the saved range at a time.
package dialog

import (
	"errors"
	"fmt"

	"github.com/kobzarvs/rtedit/internal/editor"
	"github.com/kobzarvs/rtedit/internal/logger"
	"github.com/kobzarvs/rtedit/internal/selection"
)

var (
	ErrBusy          = errors.New("another dialog is open")
	ErrNotOpen       = errors.New("dialog is not open")
	ErrSubmitting    = errors.New("dialog is submitting")
	ErrEmptyURL      = errors.New("url is empty")
	ErrNoFile        = errors.New("no file selected")
	ErrNotImage      = errors.New("please select an image file")
	ErrTooLarge      = errors.New("image must be less than 5MB")
	ErrUploadTimeout = errors.New("upload timed out")
	ErrUploadFailed  = errors.New("failed to upload image")
)

type State int

const (
	Closed State = iota
	Open
	Submitting
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	}
	return "closed"
}

// Surface is the editing surface a dialog inserts into.
type Surface interface {
	selection.Provider
	Focus()
	Blur()
	ApplyFormat(cmd, value string) error
}

type base struct {
	surface Surface
	tracker *selection.Tracker
	state   State
	err     error
}

func (b *base) State() State {
	return b.state
}

// Err returns the last error shown in the dialog, if any.
func (b *base) Err() error {
	return b.err
}

func (b *base) open(name string) error {
	if b.state != Closed {
		return nil
	}
	if err := b.tracker.Capture(); err != nil {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	b.surface.Blur()
	b.state = Open
	b.err = nil
	logger.Debug("dialog opened", "dialog", name)
	return nil
}

func (b *base) ready() error {
	switch b.state {
	case Closed:
		return ErrNotOpen
	case Submitting:
		return ErrSubmitting
	}
	return nil
}

// insert puts the saved range back and injects the fragment there.
func (b *base) insert(fragment string) error {
	b.tracker.Restore()
	b.surface.Focus()
	b.state = Closed
	b.err = nil
	return b.surface.ApplyFormat(editor.CmdInsertFragment, fragment)
}

func (b *base) discard() {
	b.tracker.Discard()
	b.state = Closed
	b.err = nil
}
