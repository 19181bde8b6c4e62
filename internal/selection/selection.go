// Package selection keeps a single-slot snapshot of the surface selection
// so it can be put back after focus moved to a dialog.
package selection

import (
	"errors"

	"github.com/kobzarvs/rtedit/internal/document"
)

var ErrRangeHeld = errors.New("a selection snapshot is already held")

// Provider is the selection capability of an editing surface.
type Provider interface {
	Range() (document.Range, bool)
	SetRange(document.Range)
	End() document.Pos
}

// FormatSource exposes the formatting state at the selection.
type FormatSource interface {
	ActiveFormats() document.FormatSet
}

type Tracker struct {
	p     Provider
	held  bool
	saved document.Range
	has   bool
}

func New(p Provider) *Tracker {
	return &Tracker{p: p}
}

// Capture records the provider's current range, if any. It fails only when
// a snapshot is already held.
func (t *Tracker) Capture() error {
	if t.held {
		return ErrRangeHeld
	}
	t.held = true
	t.saved, t.has = t.p.Range()
	return nil
}

// Held reports whether a snapshot occupies the slot.
func (t *Tracker) Held() bool {
	return t.held
}

// Restore puts the captured range back, or the caret at the document end
// when nothing was captured, and releases the slot. SetRange clamps the
// range to the current document.
func (t *Tracker) Restore() {
	if t.held && t.has {
		t.p.SetRange(t.saved)
	} else {
		t.p.SetRange(document.Caret(t.p.End()))
	}
	t.Discard()
}

// Discard releases the slot without touching the selection.
func (t *Tracker) Discard() {
	t.held = false
	t.has = false
	t.saved = document.Range{}
}
