package document

type Mark int

const (
	MarkBold Mark = iota
	MarkItalic
)

func (m Mark) get(x Marks) bool {
	if m == MarkItalic {
		return x.Italic
	}
	return x.Bold
}

func (m Mark) set(x *Marks, v bool) {
	if m == MarkItalic {
		x.Italic = v
		return
	}
	x.Bold = v
}

// Toggle flips the mark on x.
func (m Mark) Toggle(x Marks) Marks {
	m.set(&x, !m.get(x))
	return x
}

// eachTextSpan calls fn for every text block touched by [start, end) with the
// block-local offsets of the covered span.
func eachTextSpan(d Document, start, end Pos, fn func(i, from, to int)) {
	for i := start.Block; i <= end.Block && i < len(d.Blocks); i++ {
		b := d.Blocks[i]
		if b.IsAtomic() {
			continue
		}
		from, to := 0, b.Len()
		if i == start.Block {
			from = start.Offset
		}
		if i == end.Block {
			to = end.Offset
		}
		fn(i, from, to)
	}
}

func allMarked(d Document, start, end Pos, pred func(Marks) bool) bool {
	seen := false
	all := true
	eachTextSpan(d, start, end, func(i, from, to int) {
		if from >= to {
			return
		}
		_, mid, _ := sliceRuns(d.Blocks[i].Runs, from, to)
		for _, r := range mid {
			if r.Text == "" {
				continue
			}
			seen = true
			if !pred(r.Marks) {
				all = false
			}
		}
	})
	return seen && all
}

// ToggleMark sets mark on every character of r, or clears it when all of
// them already carry it. A collapsed range is left untouched.
func ToggleMark(d Document, r Range, mark Mark) Document {
	if r.Collapsed() || len(d.Blocks) == 0 {
		return d
	}
	r = d.ClampRange(r)
	start, end := r.Ordered()
	value := !allMarked(d, start, end, mark.get)
	out := d.Clone()
	eachTextSpan(d, start, end, func(i, from, to int) {
		if from >= to {
			return
		}
		before, mid, after := sliceRuns(out.Blocks[i].Runs, from, to)
		for j := range mid {
			mark.set(&mid[j].Marks, value)
		}
		out.Blocks[i].Runs = concatRuns(before, mid, after)
	})
	return Normalize(out)
}

func textBlockIndexes(d Document, r Range) []int {
	if len(d.Blocks) == 0 {
		return nil
	}
	r = d.ClampRange(r)
	start, end := r.Ordered()
	var out []int
	for i := start.Block; i <= end.Block; i++ {
		if !d.Blocks[i].IsAtomic() {
			out = append(out, i)
		}
	}
	return out
}

// SetBlockKind changes the type of every text block in r. Headings and
// blockquotes leave any list.
func SetBlockKind(d Document, r Range, kind BlockKind) Document {
	if kind == Rule || kind == Figure {
		return d
	}
	out := d.Clone()
	for _, i := range textBlockIndexes(d, r) {
		out.Blocks[i].Kind = kind
		if kind != Paragraph {
			out.Blocks[i].List = ListNone
		}
	}
	return Normalize(out)
}

// ToggleList turns the text blocks of r into list items of the given kind,
// or back into paragraphs when all of them already are.
func ToggleList(d Document, r Range, list ListKind) Document {
	idx := textBlockIndexes(d, r)
	if len(idx) == 0 || list == ListNone {
		return d
	}
	all := true
	for _, i := range idx {
		if d.Blocks[i].List != list {
			all = false
			break
		}
	}
	out := d.Clone()
	for _, i := range idx {
		if all {
			out.Blocks[i].List = ListNone
			continue
		}
		out.Blocks[i].List = list
		out.Blocks[i].Kind = Paragraph
	}
	return Normalize(out)
}

// SetAlign aligns every text block of r.
func SetAlign(d Document, r Range, align Align) Document {
	out := d.Clone()
	for _, i := range textBlockIndexes(d, r) {
		out.Blocks[i].Align = align
	}
	return Normalize(out)
}
