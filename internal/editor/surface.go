// Package editor implements the editing surface: the live document, its
// selection, focus and snapshot history. It has no terminal dependency; the
// ui package draws it and feeds it input.
package editor

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/kobzarvs/rtedit/internal/document"
	"github.com/kobzarvs/rtedit/internal/logger"
	"github.com/kobzarvs/rtedit/internal/markup"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrInvalidValue   = errors.New("invalid command value")
	ErrDisabled       = errors.New("editor is disabled")
)

// Commands accepted by ApplyFormat.
const (
	CmdBold                 = "bold"
	CmdItalic               = "italic"
	CmdFormatBlock          = "formatBlock"
	CmdUnorderedList        = "insertUnorderedList"
	CmdOrderedList          = "insertOrderedList"
	CmdJustifyLeft          = "justifyLeft"
	CmdJustifyCenter        = "justifyCenter"
	CmdJustifyRight         = "justifyRight"
	CmdInsertHorizontalRule = "insertHorizontalRule"
	CmdInsertFragment       = "insertFragment"
	CmdUndo                 = "undo"
	CmdRedo                 = "redo"
)

const defaultHistoryLimit = 200

// ChangeFunc receives the serialized markup after every mutation.
type ChangeFunc func(markup string)

type Options struct {
	Placeholder  string
	HistoryLimit int
	TabWidth     int
	Disabled     bool
}

type snapshot struct {
	doc document.Document
	sel document.Range
}

type Surface struct {
	doc      document.Document
	sel      document.Range
	hasRange bool
	focused  bool
	disabled bool
	pending  *document.Marks
	formats  document.FormatSet
	onChange ChangeFunc

	undo         []snapshot
	redo         []snapshot
	historyLimit int
	typing       bool

	placeholder string
	tabWidth    int
}

func New(opts Options, onChange ChangeFunc) *Surface {
	limit := opts.HistoryLimit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	tab := opts.TabWidth
	if tab < 1 {
		tab = 4
	}
	s := &Surface{
		doc:          document.New(),
		disabled:     opts.Disabled,
		onChange:     onChange,
		historyLimit: limit,
		placeholder:  opts.Placeholder,
		tabWidth:     tab,
	}
	s.formats = document.ActiveFormats(s.doc, s.sel, nil)
	return s
}

// Document returns a copy of the live document.
func (s *Surface) Document() document.Document {
	return s.doc.Clone()
}

// Markup returns the serialized live document.
func (s *Surface) Markup() string {
	return markup.Serialize(s.doc)
}

func (s *Surface) Selection() document.Range {
	return s.sel
}

// Range reports the current selection. There is none until the surface has
// been focused or a selection was set.
func (s *Surface) Range() (document.Range, bool) {
	return s.sel, s.hasRange
}

func (s *Surface) SetRange(r document.Range) {
	s.SetSelection(r)
}

func (s *Surface) End() document.Pos {
	return s.doc.End()
}

// ActiveFormats returns the format set computed at the last selection change.
func (s *Surface) ActiveFormats() document.FormatSet {
	out := make(document.FormatSet, len(s.formats))
	for k, v := range s.formats {
		out[k] = v
	}
	return out
}

// SelectionChanged recomputes the active format set.
func (s *Surface) SelectionChanged() {
	s.formats = document.ActiveFormats(s.doc, s.sel, s.pending)
}

// Focus is a no-op on a disabled surface.
func (s *Surface) Focus() {
	if s.disabled {
		return
	}
	s.focused = true
	s.hasRange = true
}

func (s *Surface) Blur() {
	s.focused = false
	s.typing = false
}

func (s *Surface) Focused() bool {
	return s.focused
}

func (s *Surface) SetDisabled(v bool) {
	s.disabled = v
	if v {
		s.focused = false
	}
}

func (s *Surface) Disabled() bool {
	return s.disabled
}

// Placeholder returns the placeholder text to show, empty unless the
// document is empty.
func (s *Surface) Placeholder() string {
	if !s.doc.IsEmpty() {
		return ""
	}
	return s.placeholder
}

func (s *Surface) CanUndo() bool {
	return len(s.undo) > 0
}

func (s *Surface) CanRedo() bool {
	return len(s.redo) > 0
}

// SetContent replaces the document with parsed markup unless the surface
// is focused, in which case the value is ignored and false is returned. The
// change callback is not called.
func (s *Surface) SetContent(src string) (bool, error) {
	if s.focused {
		logger.Debug("ignored content replace while focused")
		return false, nil
	}
	d, err := markup.Parse(src)
	if err != nil {
		return false, fmt.Errorf("set content: %w", err)
	}
	s.doc = d
	s.sel = document.Caret(d.Clamp(s.sel.Focus))
	s.pending = nil
	s.undo = nil
	s.redo = nil
	s.typing = false
	s.SelectionChanged()
	return true, nil
}

// ApplyFormat runs a formatting command against the current selection and
// notifies the host exactly once.
func (s *Surface) ApplyFormat(cmd, value string) error {
	if s.disabled {
		return ErrDisabled
	}
	r := s.doc.ClampRange(s.sel)
	var (
		doc   document.Document
		caret *document.Pos
	)
	switch cmd {
	case CmdBold, CmdItalic:
		mark := document.MarkBold
		if cmd == CmdItalic {
			mark = document.MarkItalic
		}
		if r.Collapsed() {
			m := s.typingMarks()
			m = mark.Toggle(m)
			s.pending = &m
			s.typing = false
			logger.Debug("pending mark toggled", "command", cmd)
			s.emit()
			s.SelectionChanged()
			return nil
		}
		doc = document.ToggleMark(s.doc, r, mark)
	case CmdFormatBlock:
		kind, ok := blockKindOf(value)
		if !ok {
			return fmt.Errorf("%w: formatBlock %q", ErrInvalidValue, value)
		}
		doc = document.SetBlockKind(s.doc, r, kind)
	case CmdUnorderedList:
		doc = document.ToggleList(s.doc, r, document.ListBullet)
	case CmdOrderedList:
		doc = document.ToggleList(s.doc, r, document.ListOrdered)
	case CmdJustifyLeft:
		doc = document.SetAlign(s.doc, r, document.AlignLeft)
	case CmdJustifyCenter:
		doc = document.SetAlign(s.doc, r, document.AlignCenter)
	case CmdJustifyRight:
		doc = document.SetAlign(s.doc, r, document.AlignRight)
	case CmdInsertHorizontalRule:
		d, p := document.InsertRule(s.doc, r)
		doc, caret = d, &p
	case CmdInsertFragment:
		f, err := markup.ParseFragment(value)
		if err != nil {
			return fmt.Errorf("insert fragment: %w", err)
		}
		d, p := document.InsertFragment(s.doc, r, f)
		doc, caret = d, &p
	case CmdUndo:
		s.Undo()
		s.emit()
		s.SelectionChanged()
		return nil
	case CmdRedo:
		s.Redo()
		s.emit()
		s.SelectionChanged()
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	logger.Debug("apply format", "command", cmd, "value", value)
	s.push()
	s.typing = false
	s.doc = doc
	if caret != nil {
		s.sel = document.Caret(*caret)
		s.pending = nil
	} else {
		s.sel = doc.ClampRange(r)
	}
	s.hasRange = true
	s.emit()
	s.SelectionChanged()
	return nil
}

func blockKindOf(value string) (document.BlockKind, bool) {
	v := strings.ToLower(strings.Trim(strings.TrimSpace(value), "<>"))
	switch v {
	case "p":
		return document.Paragraph, true
	case "h2":
		return document.Heading2, true
	case "h3":
		return document.Heading3, true
	case "blockquote":
		return document.Blockquote, true
	}
	return document.Paragraph, false
}

// OnTextInput inserts typed text at the selection.
func (s *Surface) OnTextInput(text string) {
	if s.disabled || text == "" {
		return
	}
	if !s.typing {
		s.push()
	}
	s.insertPlain(text)
	s.typing = true
	s.emit()
}

// OnPaste inserts the plain text payload of a paste. Markup in the payload
// is inserted literally.
func (s *Surface) OnPaste(text string) {
	if s.disabled {
		return
	}
	clean := s.sanitize(text)
	if clean == "" {
		return
	}
	s.push()
	s.typing = false
	s.insertPlain(clean)
	s.emit()
}

// sanitize normalizes pasted text to NFC and strips control characters
// other than line breaks. Tabs become spaces.
func (s *Surface) sanitize(text string) string {
	text = norm.NFC.String(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.ReplaceAll(text, "\t", strings.Repeat(" ", s.tabWidth))
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r == '\u00a0':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, text)
}

func (s *Surface) insertPlain(text string) {
	lines := strings.Split(s.sanitize(text), "\n")
	marks := s.typingMarks()
	doc, r := s.doc, s.doc.ClampRange(s.sel)
	var p document.Pos
	for i, line := range lines {
		if i > 0 {
			doc, p = document.SplitBlock(doc, r)
			r = document.Caret(p)
		}
		doc, p = document.InsertText(doc, r, line, marks)
		r = document.Caret(p)
	}
	s.doc = doc
	s.sel = r
	s.hasRange = true
}

func (s *Surface) typingMarks() document.Marks {
	if s.pending != nil {
		return *s.pending
	}
	start, _ := s.doc.ClampRange(s.sel).Ordered()
	return document.TypingMarks(s.doc, start)
}

// Backspace deletes the selection or the grapheme before the caret.
func (s *Surface) Backspace() {
	s.edit(document.DeleteBackward)
}

// DeleteForward deletes the selection or the grapheme after the caret.
func (s *Surface) DeleteForward() {
	s.edit(document.DeleteForward)
}

// SplitBlock breaks the current block at the caret.
func (s *Surface) SplitBlock() {
	s.edit(document.SplitBlock)
}

func (s *Surface) edit(fn func(document.Document, document.Range) (document.Document, document.Pos)) {
	if s.disabled {
		return
	}
	doc, p := fn(s.doc, s.doc.ClampRange(s.sel))
	s.push()
	s.typing = false
	s.doc = doc
	s.sel = document.Caret(p)
	s.hasRange = true
	s.emit()
}

// SelectedText returns the plain text of the selection, blocks separated by
// newlines.
func (s *Surface) SelectedText() string {
	r := s.doc.ClampRange(s.sel)
	if r.Collapsed() {
		return ""
	}
	start, end := r.Ordered()
	var parts []string
	for i := start.Block; i <= end.Block; i++ {
		b := s.doc.Blocks[i]
		if b.IsAtomic() {
			continue
		}
		rs := []rune(b.Text())
		from, to := 0, len(rs)
		if i == start.Block {
			from = start.Offset
		}
		if i == end.Block {
			to = end.Offset
		}
		parts = append(parts, string(rs[from:to]))
	}
	return strings.Join(parts, "\n")
}

func (s *Surface) emit() {
	if s.onChange != nil {
		s.onChange(markup.Serialize(s.doc))
	}
}

func (s *Surface) push() {
	s.undo = append(s.undo, snapshot{doc: s.doc, sel: s.sel})
	if len(s.undo) > s.historyLimit {
		s.undo = s.undo[len(s.undo)-s.historyLimit:]
	}
	s.redo = nil
}

// Undo restores the previous snapshot. It does not notify.
func (s *Surface) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, snapshot{doc: s.doc, sel: s.sel})
	s.restore(last)
	return true
}

// Redo re-applies the last undone snapshot. It does not notify.
func (s *Surface) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	last := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, snapshot{doc: s.doc, sel: s.sel})
	s.restore(last)
	return true
}

func (s *Surface) restore(snap snapshot) {
	s.doc = snap.doc
	s.sel = snap.doc.ClampRange(snap.sel)
	s.pending = nil
	s.typing = false
}
