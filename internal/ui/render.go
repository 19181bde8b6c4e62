package ui

import (
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/rtedit/internal/document"
)

// Render draws the toolbar, the document (or its source), the status line
// and the command line, then any open dialog on top.
func (v *View) Render() {
	s := v.screen
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	s.SetStyle(v.st.main)
	s.Clear()
	s.HideCursor()

	v.viewTop = 1
	v.viewH = h - 3
	if v.viewH < 0 {
		v.viewH = 0
	}
	v.renderToolbar(w)

	cx, cy, cursor := 0, 0, false
	if v.mode == ModeSource {
		v.renderSource(w)
	} else {
		cx, cy, cursor = v.renderDocument(w)
	}
	if h >= 3 {
		v.renderStatusline(w, h-2)
	}
	if h >= 2 {
		if x, ok := v.renderCommandline(w, h-1); ok {
			cx, cy, cursor = x, h-1, true
		}
	}
	if cursor && v.mode != ModeSource {
		if cx >= w {
			cx = w - 1
		}
		s.ShowCursor(cx, cy)
	}
	if v.mode == ModeLink || v.mode == ModeImage {
		v.drawDialog(w, h)
	}
	s.Show()
}

func (v *View) renderToolbar(w int) {
	fillRow(v.screen, 0, 0, w, v.st.toolbar)
	v.buttonsX = v.buttonsX[:0]
	x := 1
	group := 0
	for _, b := range v.tools.Buttons() {
		if b.Group != group {
			x += drawText(v.screen, x, 0, w-x, "│", v.st.toolbar.Dim(true))
			group = b.Group
		}
		style := v.st.toolbar
		switch {
		case b.Disabled:
			style = v.st.buttonDisabled
		case b.Active:
			style = v.st.buttonActive
		}
		label := " " + b.Label + " "
		x0 := x
		x += drawText(v.screen, x, 0, w-x, label, style)
		if x > x0 {
			v.buttonsX = append(v.buttonsX, buttonHit{name: b.Name, x0: x0, x1: x})
		}
		if x >= w {
			break
		}
	}
}

// renderDocument draws the laid out document and returns the caret cell.
func (v *View) renderDocument(w int) (int, int, bool) {
	doc := v.surface.Document()
	v.lines = layout(doc, w, v.st)
	sel := v.surface.Selection()
	row, col := caretCell(v.lines, sel.Focus)
	if v.surface.Focused() {
		if row < v.scroll {
			v.scroll = row
		}
		if v.viewH > 0 && row >= v.scroll+v.viewH {
			v.scroll = row - v.viewH + 1
		}
	}
	start, end := sel.Ordered()
	selected := func(p document.Pos) bool {
		return !sel.Collapsed() && document.ComparePos(start, p) <= 0 && document.ComparePos(p, end) < 0
	}

	for y := 0; y < v.viewH; y++ {
		li := v.scroll + y
		if li >= len(v.lines) {
			break
		}
		l := v.lines[li]
		sy := v.viewTop + y
		x := 0
		for _, c := range l.prefix {
			v.screen.SetContent(x, sy, c.r, nil, c.style)
			x += c.width
		}
		x = l.x
		for _, c := range l.cells {
			if x+c.width > w {
				break
			}
			style := c.style
			if c.off >= 0 && selected(document.Pos{Block: l.block, Offset: c.off}) {
				style = v.st.selection
			}
			v.screen.SetContent(x, sy, c.r, c.comb, style)
			x += c.width
		}
	}
	if ph := v.surface.Placeholder(); ph != "" && v.viewH > 0 && len(v.lines) > 0 {
		drawText(v.screen, v.lines[0].x, v.viewTop, w-v.lines[0].x, ph, v.st.placeholder)
	}
	if !v.surface.Focused() || row < v.scroll || row >= v.scroll+v.viewH {
		return 0, 0, false
	}
	return col, v.viewTop + row - v.scroll, v.mode == ModeEdit
}

func (v *View) renderStatusline(w, y int) {
	name := "[No Name]"
	if v.path != "" {
		name = filepath.Base(v.path)
	}
	if v.dirty {
		name += " [+]"
	}
	left := " " + modeLabel(v.mode) + "  " + name
	right := ""
	if v.mode != ModeSource {
		focus := v.surface.Selection().Focus
		kind := "p"
		if focus.Block < len(v.surface.Document().Blocks) {
			kind = v.surface.Document().Blocks[focus.Block].Kind.String()
		}
		right = fmt.Sprintf("%s  %d:%d ", kind, focus.Block+1, focus.Offset+1)
	}
	line := composeStatusLine(left, right, w)
	fillRow(v.screen, 0, y, w, v.st.status)
	drawText(v.screen, 0, y, w, string(line), v.st.status)
}

func modeLabel(m Mode) string {
	switch m {
	case ModeCommand:
		return "CMD"
	case ModeLink:
		return "LINK"
	case ModeImage:
		return "IMAGE"
	case ModeSource:
		return "SOURCE"
	}
	return "EDIT"
}

// renderCommandline draws the command prompt or the status message. It
// returns the prompt cursor column when the prompt is active.
func (v *View) renderCommandline(w, y int) (int, bool) {
	fillRow(v.screen, 0, y, w, v.st.command)
	if v.mode != ModeCommand {
		drawText(v.screen, 0, y, w, v.status, v.st.command)
		return 0, false
	}
	drawText(v.screen, 0, y, w, ":"+string(v.cmd), v.st.command)
	return 1 + runewidth.StringWidth(string(v.cmd[:v.cmdCursor])), true
}

// composeStatusLine pads left and right to width, trimming left first.
func composeStatusLine(left, right string, width int) []rune {
	if width <= 0 {
		return nil
	}
	leftRunes := []rune(left)
	rightRunes := []rune(right)
	if len(leftRunes)+len(rightRunes) > width {
		if len(rightRunes) >= width {
			rightRunes = rightRunes[len(rightRunes)-width:]
			leftRunes = nil
		} else {
			leftRunes = leftRunes[:width-len(rightRunes)]
		}
	}
	line := make([]rune, 0, width)
	line = append(line, leftRunes...)
	for i := len(leftRunes) + len(rightRunes); i < width; i++ {
		line = append(line, ' ')
	}
	return append(line, rightRunes...)
}

// drawText draws text from x clipped to limit cells and returns the cells used.
func drawText(s tcell.Screen, x, y, limit int, text string, style tcell.Style) int {
	used := 0
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			rw = 1
		}
		if used+rw > limit {
			break
		}
		s.SetContent(x+used, y, r, nil, style)
		used += rw
	}
	return used
}

func fillRow(s tcell.Screen, x, y, n int, style tcell.Style) {
	for i := 0; i < n; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}

func box(s tcell.Screen, x, y, w, h int, border, fill tcell.Style) {
	for row := y; row < y+h; row++ {
		fillRow(s, x, row, w, fill)
	}
	for i := x + 1; i < x+w-1; i++ {
		s.SetContent(i, y, '─', nil, border)
		s.SetContent(i, y+h-1, '─', nil, border)
	}
	for j := y + 1; j < y+h-1; j++ {
		s.SetContent(x, j, '│', nil, border)
		s.SetContent(x+w-1, j, '│', nil, border)
	}
	s.SetContent(x, y, '┌', nil, border)
	s.SetContent(x+w-1, y, '┐', nil, border)
	s.SetContent(x, y+h-1, '└', nil, border)
	s.SetContent(x+w-1, y+h-1, '┘', nil, border)
}

// tail keeps the last cells of s that fit in width.
func tail(s string, width int) string {
	rs := []rune(s)
	for runewidth.StringWidth(string(rs)) > width && len(rs) > 0 {
		rs = rs[1:]
	}
	return string(rs)
}
