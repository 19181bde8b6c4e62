// Package ui draws an editing surface on a tcell screen and turns terminal
// input into surface, toolbar and dialog operations.
package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/rtedit/internal/config"
	"github.com/kobzarvs/rtedit/internal/dialog"
	"github.com/kobzarvs/rtedit/internal/document"
	"github.com/kobzarvs/rtedit/internal/editor"
	"github.com/kobzarvs/rtedit/internal/logger"
	"github.com/kobzarvs/rtedit/internal/markup"
	"github.com/kobzarvs/rtedit/internal/selection"
	"github.com/kobzarvs/rtedit/internal/toolbar"
	"github.com/kobzarvs/rtedit/internal/upload"
)

type Mode int

const (
	ModeEdit Mode = iota
	ModeCommand
	ModeLink
	ModeImage
	ModeSource
)

// Clipboard is the system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error)   { return clipboard.ReadAll() }
func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// Options configures a View.
type Options struct {
	Config    config.Config
	Path      string
	Uploader  upload.Uploader
	Clipboard Clipboard
	Disabled  bool
	// OnChange, when set, also receives every markup change.
	OnChange editor.ChangeFunc
}

// View is the terminal host of one editing surface.
type View struct {
	screen  tcell.Screen
	cfg     config.Config
	st      styles
	keymap  config.Keymap
	clip    Clipboard
	surface *editor.Surface
	tools   *toolbar.Controller
	tracker *selection.Tracker
	image   *dialog.ImageDialog
	link    *dialog.LinkDialog

	ctx    context.Context
	cancel context.CancelFunc

	path   string
	dirty  bool
	mode   Mode
	status string

	cmd        []rune
	cmdCursor  int
	history    []string
	historyIdx int

	field     int
	filePath  string
	uploading *dialog.Upload

	pasting  bool
	pasteBuf strings.Builder

	lines     []vline
	scroll    int
	srcScroll int
	viewTop   int
	viewH     int
	buttonsX  []buttonHit
}

type buttonHit struct {
	name   string
	x0, x1 int
}

func New(s tcell.Screen, opts Options) *View {
	ctx, cancel := context.WithCancel(context.Background())
	v := &View{
		screen: s,
		cfg:    opts.Config,
		st:     newStyles(opts.Config.Theme),
		keymap: opts.Config.Keymap,
		clip:   opts.Clipboard,
		path:   opts.Path,
		ctx:    ctx,
		cancel: cancel,

		historyIdx: -1,
	}
	if v.clip == nil {
		v.clip = systemClipboard{}
	}
	if v.keymap == nil {
		v.keymap = config.Default().Keymap
	}
	onChange := opts.OnChange
	v.surface = editor.New(editor.Options{
		Placeholder:  opts.Config.Editor.Placeholder,
		HistoryLimit: opts.Config.Editor.HistoryLimit,
		TabWidth:     opts.Config.Editor.TabWidth,
		Disabled:     opts.Disabled,
	}, func(m string) {
		v.dirty = true
		if onChange != nil {
			onChange(m)
		}
	})
	v.tracker = selection.New(v.surface)
	v.image = dialog.NewImage(v.surface, v.tracker, opts.Uploader, opts.Config.Editor.Timeout())
	v.link = dialog.NewLink(v.surface, v.tracker)
	v.tools = toolbar.New(v.surface, v)
	return v
}

func (v *View) Surface() *editor.Surface { return v.surface }
func (v *View) Mode() Mode               { return v.mode }
func (v *View) Status() string           { return v.status }
func (v *View) Dirty() bool              { return v.dirty }
func (v *View) Path() string             { return v.path }
func (v *View) Scroll() int              { return v.scroll }

// Load reads markup from path into the surface. A missing file starts an
// empty document.
func (v *View) Load(path string) error {
	v.path = path
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	// SetContent is ignored while the surface has focus.
	focused := v.surface.Focused()
	v.surface.Blur()
	if _, err := v.surface.SetContent(string(data)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if focused {
		v.surface.Focus()
	}
	v.dirty = false
	return nil
}

// Restore puts a saved selection and scroll offset back.
func (v *View) Restore(r document.Range, scroll int) {
	v.surface.SetSelection(r)
	v.surface.Focus()
	v.scroll = scroll
	v.tools.Refresh()
}

// Save writes the markup to path, or to the loaded file when path is empty.
func (v *View) Save(path string) error {
	if path == "" {
		if v.path == "" {
			return errors.New("no file name")
		}
		path = v.path
	}
	if err := os.WriteFile(path, []byte(v.surface.Markup()+"\n"), 0o644); err != nil {
		return err
	}
	v.path = path
	v.dirty = false
	logger.Info("document saved", "path", path)
	return nil
}

// Export writes a standalone page rendering the document.
func (v *View) Export(path string) error {
	title := strings.TrimSuffix(filepath.Base(v.path), filepath.Ext(v.path))
	page := markup.Page(title, v.surface.Markup())
	return os.WriteFile(path, []byte(page), 0o644)
}

// Close cancels background uploads.
func (v *View) Close() {
	if v.image.State() != dialog.Closed {
		v.image.Cancel()
	}
	v.cancel()
}

func (v *View) setStatus(msg string) {
	v.status = msg
}

// OpenLink and OpenImage back the toolbar's dialog buttons.
func (v *View) OpenLink() error {
	if err := v.link.Open(); err != nil {
		return err
	}
	v.mode = ModeLink
	v.field = 0
	return nil
}

func (v *View) OpenImage() error {
	if err := v.image.Open(); err != nil {
		return err
	}
	v.mode = ModeImage
	v.field = 0
	v.filePath = ""
	return nil
}

// HandleEvent processes one event and reports whether the host should quit.
func (v *View) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if v.pasting {
			v.bufferPaste(ev)
			return false
		}
		return v.HandleKey(ev)
	case *tcell.EventPaste:
		if ev.Start() {
			v.pasting = true
			v.pasteBuf.Reset()
			return false
		}
		v.pasting = false
		v.paste(v.pasteBuf.String())
	case *tcell.EventMouse:
		v.HandleMouse(ev)
	case *tcell.EventInterrupt:
		if task, ok := ev.Data().(*dialog.Upload); ok {
			v.finishUpload(task)
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false
}

func (v *View) bufferPaste(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		v.pasteBuf.WriteRune(ev.Rune())
	case tcell.KeyEnter:
		v.pasteBuf.WriteByte('\n')
	case tcell.KeyTab:
		v.pasteBuf.WriteByte('\t')
	}
}

func (v *View) paste(text string) {
	switch v.mode {
	case ModeEdit:
		v.surface.Focus()
		v.surface.OnPaste(text)
		v.afterEdit()
	case ModeCommand:
		v.insertCmd(firstLine(text))
	case ModeLink, ModeImage:
		v.typeField(firstLine(text))
	}
}

func firstLine(s string) string {
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		return s[:i]
	}
	return s
}

// HandleKey processes a key press and reports whether to quit.
func (v *View) HandleKey(ev *tcell.EventKey) bool {
	switch v.mode {
	case ModeCommand:
		return v.handleCommand(ev)
	case ModeLink, ModeImage:
		v.handleDialogKey(ev)
		return false
	case ModeSource:
		return v.handleSourceKey(ev)
	}
	if v.status != "" {
		v.status = ""
	}
	if action, ok := v.keymap[keyString(ev)]; ok {
		return v.execAction(action)
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		v.surface.Focus()
		v.surface.OnTextInput(string(ev.Rune()))
		v.afterEdit()
	}
	return false
}

// afterEdit plays the part of a key-up: the format set and toolbar catch up
// with the selection.
func (v *View) afterEdit() {
	v.surface.SelectionChanged()
	v.tools.Refresh()
}

func (v *View) execAction(action string) bool {
	s := v.surface
	s.Focus()
	switch action {
	case "move_left":
		s.MoveLeft(false)
	case "move_right":
		s.MoveRight(false)
	case "move_up":
		v.moveVertical(-1, false)
	case "move_down":
		v.moveVertical(1, false)
	case "select_left":
		s.MoveLeft(true)
	case "select_right":
		s.MoveRight(true)
	case "select_up":
		v.moveVertical(-1, true)
	case "select_down":
		v.moveVertical(1, true)
	case "line_start":
		s.MoveLineStart(false)
	case "line_end":
		s.MoveLineEnd(false)
	case "select_line_start":
		s.MoveLineStart(true)
	case "select_line_end":
		s.MoveLineEnd(true)
	case "doc_start":
		s.MoveDocumentStart(false)
	case "doc_end":
		s.MoveDocumentEnd(false)
	case "word_left":
		s.MoveWordLeft(false)
	case "word_right":
		s.MoveWordRight(false)
	case "select_word_left":
		s.MoveWordLeft(true)
	case "select_word_right":
		s.MoveWordRight(true)
	case "select_all":
		s.SelectAll()
	case "backspace":
		s.Backspace()
	case "delete":
		s.DeleteForward()
	case "newline":
		s.SplitBlock()
	case "indent":
		s.OnTextInput(strings.Repeat(" ", v.cfg.Editor.TabWidth))
	case "copy":
		v.copySelection()
	case "paste":
		text, err := v.clip.ReadAll()
		if err != nil {
			v.setStatus("clipboard unavailable")
			return false
		}
		s.OnPaste(text)
	case "save":
		if err := v.Save(""); err != nil {
			v.setStatus(err.Error())
		} else {
			v.setStatus("written")
		}
	case "quit":
		return v.execCommand("q")
	case "command":
		v.mode = ModeCommand
		v.cmd = v.cmd[:0]
		v.cmdCursor = 0
	case "source":
		v.toggleSource()
	default:
		if err := v.tools.Exec(action); err != nil {
			v.reportToolbarError(action, err)
		}
	}
	v.afterEdit()
	return false
}

func (v *View) reportToolbarError(name string, err error) {
	switch {
	case errors.Is(err, toolbar.ErrUnknownButton):
		v.setStatus("unknown action: " + name)
	case errors.Is(err, dialog.ErrBusy):
		v.setStatus("another dialog is open")
	default:
		v.setStatus(err.Error())
	}
}

func (v *View) copySelection() {
	text := v.surface.SelectedText()
	if text == "" {
		v.setStatus("nothing selected")
		return
	}
	if err := v.clip.WriteAll(text); err != nil {
		v.setStatus("clipboard unavailable")
		return
	}
	v.setStatus("copied")
}

// moveVertical moves by visual row so wrapped paragraphs are walked line by
// line.
func (v *View) moveVertical(dir int, extend bool) {
	if len(v.lines) == 0 {
		if dir < 0 {
			v.surface.MoveUp(extend)
		} else {
			v.surface.MoveDown(extend)
		}
		return
	}
	row, x := caretCell(v.lines, v.surface.Selection().Focus)
	target := row + dir
	if target < 0 {
		v.surface.MoveLineStart(extend)
		return
	}
	if target >= len(v.lines) {
		v.surface.MoveLineEnd(extend)
		return
	}
	p := posAt(v.lines, target, x)
	r := document.Caret(p)
	if extend {
		r.Anchor = v.surface.Selection().Anchor
	}
	v.surface.SetSelection(r)
}

// HandleMouse places the caret, extends on drag and presses toolbar buttons.
func (v *View) HandleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	switch ev.Buttons() {
	case tcell.WheelUp:
		v.scrollBy(-3)
		return
	case tcell.WheelDown:
		v.scrollBy(3)
		return
	case tcell.Button1:
	default:
		return
	}
	if v.mode != ModeEdit {
		return
	}
	if y == 0 {
		for _, b := range v.buttonsX {
			if x >= b.x0 && x < b.x1 {
				if err := v.tools.Exec(b.name); err != nil {
					v.reportToolbarError(b.name, err)
				}
				v.afterEdit()
				return
			}
		}
		return
	}
	if y < v.viewTop || y >= v.viewTop+v.viewH || len(v.lines) == 0 {
		return
	}
	p := posAt(v.lines, y-v.viewTop+v.scroll, x)
	v.surface.Focus()
	if ev.Modifiers()&tcell.ModShift != 0 {
		v.surface.SetSelection(document.Range{Anchor: v.surface.Selection().Anchor, Focus: p})
	} else {
		v.surface.SetSelection(document.Caret(p))
	}
	v.tools.Refresh()
}

func (v *View) scrollBy(n int) {
	if v.mode == ModeSource {
		v.srcScroll += n
		if v.srcScroll < 0 {
			v.srcScroll = 0
		}
		return
	}
	v.scroll += n
	limit := len(v.lines) - 1
	if v.scroll > limit {
		v.scroll = limit
	}
	if v.scroll < 0 {
		v.scroll = 0
	}
}
