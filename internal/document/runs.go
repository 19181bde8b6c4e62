package document

import "unicode/utf8"

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func runsLen(runs []Run) int {
	n := 0
	for _, r := range runs {
		n += runeLen(r.Text)
	}
	return n
}

func cloneRuns(runs []Run) []Run {
	if runs == nil {
		return nil
	}
	return append([]Run(nil), runs...)
}

func cloneBlocks(blocks []Block) []Block {
	out := make([]Block, len(blocks))
	for i, b := range blocks {
		out[i] = b.clone()
	}
	return out
}

func concatRuns(parts ...[]Run) []Run {
	var out []Run
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// splitRuns cuts runs at a rune offset. Both halves are fresh slices.
func splitRuns(runs []Run, offset int) ([]Run, []Run) {
	var left, right []Run
	pos := 0
	for _, r := range runs {
		n := runeLen(r.Text)
		switch {
		case pos+n <= offset:
			left = append(left, r)
		case pos >= offset:
			right = append(right, r)
		default:
			rs := []rune(r.Text)
			cut := offset - pos
			left = append(left, Run{Text: string(rs[:cut]), Marks: r.Marks})
			right = append(right, Run{Text: string(rs[cut:]), Marks: r.Marks})
		}
		pos += n
	}
	return left, right
}

// sliceRuns cuts runs into [0, from), [from, to) and [to, end).
func sliceRuns(runs []Run, from, to int) ([]Run, []Run, []Run) {
	before, rest := splitRuns(runs, from)
	mid, after := splitRuns(rest, to-from)
	return before, mid, after
}

// marksOfRune returns the marks of the rune at index i.
func marksOfRune(runs []Run, i int) (Marks, bool) {
	if i < 0 {
		return Marks{}, false
	}
	pos := 0
	for _, r := range runs {
		n := runeLen(r.Text)
		if i < pos+n {
			return r.Marks, true
		}
		pos += n
	}
	return Marks{}, false
}

// marksAt returns the marks in effect at a caret offset: those of the rune
// before the caret, or of the first rune when the caret is at the start.
func marksAt(runs []Run, offset int) Marks {
	target := offset - 1
	if target < 0 {
		target = 0
	}
	m, _ := marksOfRune(runs, target)
	return m
}

// TypingMarks returns the marks text typed at p would carry. A link is only
// continued when the caret sits strictly inside it.
func TypingMarks(d Document, p Pos) Marks {
	if p.Block < 0 || p.Block >= len(d.Blocks) {
		return Marks{}
	}
	b := d.Blocks[p.Block]
	if b.IsAtomic() {
		return Marks{}
	}
	m := marksAt(b.Runs, p.Offset)
	if m.Link != "" {
		next, ok := marksOfRune(b.Runs, p.Offset)
		if p.Offset == 0 || !ok || next.Link != m.Link {
			m.Link = ""
		}
	}
	return m
}

func insertBlocks(blocks []Block, at int, nb ...Block) []Block {
	out := make([]Block, 0, len(blocks)+len(nb))
	out = append(out, blocks[:at]...)
	out = append(out, nb...)
	out = append(out, blocks[at:]...)
	return out
}

func removeBlock(blocks []Block, at int) []Block {
	out := make([]Block, 0, len(blocks))
	out = append(out, blocks[:at]...)
	return append(out, blocks[at+1:]...)
}
