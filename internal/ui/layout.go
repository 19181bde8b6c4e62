package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/rtedit/internal/document"
)

// cell is one screen cell of laid out text. Zero-width runes ride along in
// comb. off is the rune offset inside the block, -1 for decoration.
type cell struct {
	r     rune
	comb  []rune
	width int
	off   int
	style tcell.Style
}

// vline is one visual row of the document view.
type vline struct {
	block  int
	start  int
	end    int
	x      int
	prefix []cell
	cells  []cell
	last   bool
	atomic bool
}

func (l vline) width() int {
	w := 0
	for _, c := range l.cells {
		w += c.width
	}
	return w
}

// layout wraps the document into rows of at most width cells.
func layout(d document.Document, width int, st styles) []vline {
	if width < 1 {
		width = 1
	}
	var out []vline
	ordinal := 0
	for bi, b := range d.Blocks {
		if b.List == document.ListOrdered {
			ordinal++
		} else {
			ordinal = 0
		}
		switch b.Kind {
		case document.Rule:
			out = append(out, vline{
				block: bi, last: true, atomic: true,
				cells: decoration(strings.Repeat("─", width), st.rule, 0),
			})
			continue
		case document.Figure:
			text := "[image] " + b.Image.Src
			if b.Image.Alt != "" {
				text = "[image: " + b.Image.Alt + "] " + b.Image.Src
			}
			cells := truncate(decoration(text, st.figure, 0), width)
			out = append(out, vline{block: bi, last: true, atomic: true, cells: cells})
			continue
		}
		prefix, base := blockDecor(b, ordinal, st)
		pw := cellsWidth(prefix)
		avail := width - pw
		if avail < 1 {
			avail = 1
		}
		rows := wrap(textCells(b, base, st), avail)
		for i, row := range rows {
			l := vline{block: bi, cells: row, x: pw, last: i == len(rows)-1}
			if i == 0 {
				l.prefix = prefix
			} else {
				l.prefix = blank(pw, base)
			}
			if len(row) > 0 {
				l.start = row[0].off
			}
			if i+1 < len(rows) {
				l.end = rows[i+1][0].off
			} else {
				l.end = b.Len()
			}
			switch b.Align {
			case document.AlignCenter:
				l.x += (avail - l.width()) / 2
			case document.AlignRight:
				l.x += avail - l.width()
			}
			out = append(out, l)
		}
	}
	return out
}

func blockDecor(b document.Block, ordinal int, st styles) ([]cell, tcell.Style) {
	base := st.main
	var prefix string
	switch b.Kind {
	case document.Heading2:
		base, prefix = st.heading, "## "
	case document.Heading3:
		base, prefix = st.heading.Bold(false), "### "
	case document.Blockquote:
		base, prefix = st.quote, "│ "
	}
	switch b.List {
	case document.ListBullet:
		prefix = "• " + prefix
	case document.ListOrdered:
		prefix = strconv.Itoa(ordinal) + ". " + prefix
	}
	return decoration(prefix, st.rule, -1), base
}

func textCells(b document.Block, base tcell.Style, st styles) []cell {
	var out []cell
	off := 0
	for _, run := range b.Runs {
		style := base
		if run.Bold {
			style = style.Bold(true)
		}
		if run.Italic {
			style = style.Italic(true)
		}
		if run.Link != "" {
			_, bg, _ := base.Decompose()
			fg, _, _ := st.link.Decompose()
			style = style.Foreground(fg).Background(bg).Underline(true)
		}
		for _, r := range run.Text {
			w := runewidth.RuneWidth(r)
			if w == 0 && len(out) > 0 {
				prev := &out[len(out)-1]
				prev.comb = append(prev.comb, r)
				off++
				continue
			}
			if w == 0 {
				w = 1
			}
			out = append(out, cell{r: r, width: w, off: off, style: style})
			off++
		}
	}
	return out
}

// wrap breaks cells into rows no wider than avail, preferring to break
// after a space.
func wrap(cells []cell, avail int) [][]cell {
	if len(cells) == 0 {
		return [][]cell{nil}
	}
	var rows [][]cell
	start, w, lastSpace := 0, 0, -1
	for i := 0; i < len(cells); i++ {
		c := cells[i]
		if w+c.width > avail && i > start {
			brk := i
			if lastSpace >= start && lastSpace+1 < i {
				brk = lastSpace + 1
			}
			rows = append(rows, cells[start:brk])
			start, w, lastSpace = brk, 0, -1
			i = brk - 1
			continue
		}
		w += c.width
		if c.r == ' ' {
			lastSpace = i
		}
	}
	return append(rows, cells[start:])
}

func decoration(s string, style tcell.Style, off int) []cell {
	var out []cell
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			w = 1
		}
		out = append(out, cell{r: r, width: w, off: off, style: style})
	}
	return out
}

func blank(n int, style tcell.Style) []cell {
	out := make([]cell, n)
	for i := range out {
		out[i] = cell{r: ' ', width: 1, off: -1, style: style}
	}
	return out
}

func truncate(cells []cell, width int) []cell {
	w := 0
	for i, c := range cells {
		if w+c.width > width {
			return cells[:i]
		}
		w += c.width
	}
	return cells
}

func cellsWidth(cells []cell) int {
	w := 0
	for _, c := range cells {
		w += c.width
	}
	return w
}

// caretCell returns the row index and screen column of p.
func caretCell(lines []vline, p document.Pos) (int, int) {
	for i, l := range lines {
		if l.block != p.Block {
			continue
		}
		if l.atomic {
			return i, 0
		}
		if p.Offset >= l.end && !l.last {
			continue
		}
		x := l.x
		for _, c := range l.cells {
			if c.off >= p.Offset {
				break
			}
			x += c.width
		}
		return i, x
	}
	return 0, 0
}

// posAt maps a screen column on row li back to a document position.
func posAt(lines []vline, li, x int) document.Pos {
	if len(lines) == 0 {
		return document.Pos{}
	}
	if li < 0 {
		li = 0
	}
	if li >= len(lines) {
		li = len(lines) - 1
	}
	l := lines[li]
	if l.atomic {
		return document.Pos{Block: l.block}
	}
	cx := l.x
	for _, c := range l.cells {
		if x < cx+(c.width+1)/2 {
			return document.Pos{Block: l.block, Offset: c.off}
		}
		cx += c.width
	}
	if !l.last && len(l.cells) > 0 {
		return document.Pos{Block: l.block, Offset: l.cells[len(l.cells)-1].off}
	}
	return document.Pos{Block: l.block, Offset: l.end}
}
