package ui

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/rtedit/internal/markup"
)

// toggleSource switches between the document and a read-only, highlighted
// view of its markup.
func (v *View) toggleSource() {
	if v.mode == ModeSource {
		v.mode = ModeEdit
		v.surface.Focus()
		return
	}
	v.mode = ModeSource
	v.srcScroll = 0
}

// SetSourceView shows or hides the markup source.
func (v *View) SetSourceView(on bool) {
	if on != (v.mode == ModeSource) && (v.mode == ModeEdit || v.mode == ModeSource) {
		v.toggleSource()
	}
}

func (v *View) handleSourceKey(ev *tcell.EventKey) bool {
	switch keyString(ev) {
	case "ctrl+u", "esc":
		v.toggleSource()
		return false
	case "ctrl+q":
		return v.execCommand("q")
	}
	switch ev.Key() {
	case tcell.KeyUp:
		v.scrollBy(-1)
	case tcell.KeyDown:
		v.scrollBy(1)
	case tcell.KeyPgUp:
		v.scrollBy(-v.viewH)
	case tcell.KeyPgDn:
		v.scrollBy(v.viewH)
	case tcell.KeyHome:
		v.srcScroll = 0
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			v.toggleSource()
		case 'j':
			v.scrollBy(1)
		case 'k':
			v.scrollBy(-1)
		}
	}
	return false
}

func (v *View) renderSource(w int) {
	src := markup.Format(v.surface.Document())
	lines := strings.Split(src, "\n")
	if v.srcScroll > len(lines)-1 {
		v.srcScroll = len(lines) - 1
	}
	if v.srcScroll < 0 {
		v.srcScroll = 0
	}
	end := v.srcScroll + v.viewH - 1
	spans := markup.Highlights(src, v.srcScroll, end)
	for y := 0; y < v.viewH; y++ {
		li := v.srcScroll + y
		if li >= len(lines) {
			break
		}
		x := 0
		for col, r := range []rune(lines[li]) {
			rw := runewidth.RuneWidth(r)
			if rw == 0 {
				rw = 1
			}
			if x+rw > w {
				break
			}
			style := v.st.main
			for _, sp := range spans[li] {
				if col >= sp.StartCol && col < sp.EndCol {
					if st, ok := v.st.syntax[sp.Kind]; ok {
						style = st
					}
				}
			}
			v.screen.SetContent(x, v.viewTop+y, r, nil, style)
			x += rw
		}
	}
}
