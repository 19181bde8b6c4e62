package document

// Fragment is a piece of content ready to be injected at a position. An
// inline fragment (no blocks) is spliced into the current block; a block
// fragment splits the current block around itself.
type Fragment struct {
	Inline []Run
	Blocks []Block
}

func (f Fragment) IsInline() bool {
	return len(f.Blocks) == 0
}

// DeleteRange removes the content of r and returns the caret where it was.
// An atomic block at the end of the range is not part of it: offset 0 is the
// position before that block.
func DeleteRange(d Document, r Range) (Document, Pos) {
	if len(d.Blocks) == 0 {
		d = New()
	}
	start, end := r.Ordered()
	start, end = d.Clamp(start), d.Clamp(end)
	if start == end {
		return d, start
	}
	out := d.Clone()
	if start.Block == end.Block {
		b := &out.Blocks[start.Block]
		before, _, after := sliceRuns(b.Runs, start.Offset, end.Offset)
		b.Runs = concatRuns(before, after)
		return Normalize(out), start
	}

	sb, eb := out.Blocks[start.Block], out.Blocks[end.Block]
	caret := start
	var merged []Block
	switch {
	case eb.IsAtomic() && sb.IsAtomic():
		merged = []Block{eb}
		caret = Pos{Block: start.Block}
	case eb.IsAtomic():
		head, _ := splitRuns(sb.Runs, start.Offset)
		sb.Runs = head
		merged = []Block{sb, eb}
	case sb.IsAtomic():
		_, tail := splitRuns(eb.Runs, end.Offset)
		eb.Runs = tail
		merged = []Block{eb}
		caret = Pos{Block: start.Block}
	default:
		head, _ := splitRuns(sb.Runs, start.Offset)
		_, tail := splitRuns(eb.Runs, end.Offset)
		sb.Runs = concatRuns(head, tail)
		merged = []Block{sb}
	}
	blocks := make([]Block, 0, len(out.Blocks))
	blocks = append(blocks, out.Blocks[:start.Block]...)
	blocks = append(blocks, merged...)
	blocks = append(blocks, out.Blocks[end.Block+1:]...)
	out.Blocks = blocks
	return Normalize(out), caret
}

// InsertText replaces r with text carrying marks. text must not contain
// line breaks; use SplitBlock for those.
func InsertText(d Document, r Range, text string, marks Marks) (Document, Pos) {
	d, p := DeleteRange(d, r)
	if text == "" {
		return d, p
	}
	out := d.Clone()
	b := out.Blocks[p.Block]
	if b.IsAtomic() {
		nb := Block{Kind: Paragraph, Runs: []Run{{Text: text, Marks: marks}}}
		out.Blocks = insertBlocks(out.Blocks, p.Block+1, nb)
		return Normalize(out), Pos{Block: p.Block + 1, Offset: runeLen(text)}
	}
	before, after := splitRuns(b.Runs, p.Offset)
	b.Runs = concatRuns(before, []Run{{Text: text, Marks: marks}}, after)
	out.Blocks[p.Block] = b
	return Normalize(out), Pos{Block: p.Block, Offset: p.Offset + runeLen(text)}
}

// SplitBlock breaks the block at the caret (Enter). Splitting at the end of
// a heading continues with a paragraph; Enter in an empty list item leaves
// the list.
func SplitBlock(d Document, r Range) (Document, Pos) {
	d, p := DeleteRange(d, r)
	out := d.Clone()
	b := out.Blocks[p.Block]
	if b.IsAtomic() {
		out.Blocks = insertBlocks(out.Blocks, p.Block+1, Block{Kind: Paragraph})
		return Normalize(out), Pos{Block: p.Block + 1}
	}
	if b.List != ListNone && b.Len() == 0 {
		out.Blocks[p.Block].List = ListNone
		return Normalize(out), Pos{Block: p.Block}
	}
	head, tail := splitRuns(b.Runs, p.Offset)
	next := Block{Kind: b.Kind, List: b.List, Align: b.Align, Runs: tail}
	if (b.Kind == Heading2 || b.Kind == Heading3) && runsLen(tail) == 0 {
		next.Kind = Paragraph
	}
	b.Runs = head
	out.Blocks[p.Block] = b
	out.Blocks = insertBlocks(out.Blocks, p.Block+1, next)
	return Normalize(out), Pos{Block: p.Block + 1}
}

// DeleteBackward implements Backspace.
func DeleteBackward(d Document, r Range) (Document, Pos) {
	if !r.Collapsed() {
		return DeleteRange(d, r)
	}
	if len(d.Blocks) == 0 {
		return New(), Pos{}
	}
	p := d.Clamp(r.Focus)
	b := d.Blocks[p.Block]
	if p.Offset > 0 {
		prev := PrevGrapheme(b.Text(), p.Offset)
		return DeleteRange(d, Range{Anchor: Pos{Block: p.Block, Offset: prev}, Focus: p})
	}
	out := d.Clone()
	if b.IsAtomic() {
		out.Blocks = removeBlock(out.Blocks, p.Block)
		nd := Normalize(out)
		if p.Block == 0 {
			return nd, Pos{}
		}
		return nd, nd.Clamp(Pos{Block: p.Block - 1, Offset: nd.Blocks[p.Block-1].Len()})
	}
	if b.List != ListNone {
		out.Blocks[p.Block].List = ListNone
		return Normalize(out), p
	}
	if p.Block == 0 {
		return d, p
	}
	prev := out.Blocks[p.Block-1]
	if prev.IsAtomic() {
		out.Blocks = removeBlock(out.Blocks, p.Block-1)
		return Normalize(out), Pos{Block: p.Block - 1}
	}
	caret := Pos{Block: p.Block - 1, Offset: prev.Len()}
	prev.Runs = concatRuns(prev.Runs, b.Runs)
	out.Blocks[p.Block-1] = prev
	out.Blocks = removeBlock(out.Blocks, p.Block)
	return Normalize(out), caret
}

// DeleteForward implements Delete.
func DeleteForward(d Document, r Range) (Document, Pos) {
	if !r.Collapsed() {
		return DeleteRange(d, r)
	}
	if len(d.Blocks) == 0 {
		return New(), Pos{}
	}
	p := d.Clamp(r.Focus)
	b := d.Blocks[p.Block]
	out := d.Clone()
	if b.IsAtomic() {
		out.Blocks = removeBlock(out.Blocks, p.Block)
		nd := Normalize(out)
		return nd, nd.Clamp(Pos{Block: p.Block})
	}
	if p.Offset < b.Len() {
		next := NextGrapheme(b.Text(), p.Offset)
		return DeleteRange(d, Range{Anchor: p, Focus: Pos{Block: p.Block, Offset: next}})
	}
	if p.Block+1 >= len(d.Blocks) {
		return d, p
	}
	next := out.Blocks[p.Block+1]
	if !next.IsAtomic() {
		b.Runs = concatRuns(b.Runs, next.Runs)
		out.Blocks[p.Block] = b
	}
	out.Blocks = removeBlock(out.Blocks, p.Block+1)
	return Normalize(out), p
}

// InsertFragment replaces r with f. For block fragments the current block is
// split at the caret; an empty head is dropped and a non-empty tail takes the
// place of a trailing empty paragraph in the fragment. The returned caret is
// right after the inserted content.
func InsertFragment(d Document, r Range, f Fragment) (Document, Pos) {
	d, p := DeleteRange(d, r)
	out := d.Clone()
	b := out.Blocks[p.Block]

	if f.IsInline() {
		n := runsLen(f.Inline)
		if n == 0 {
			return d, p
		}
		if b.IsAtomic() {
			nb := Block{Kind: Paragraph, Runs: cloneRuns(f.Inline)}
			out.Blocks = insertBlocks(out.Blocks, p.Block+1, nb)
			return Normalize(out), Pos{Block: p.Block + 1, Offset: n}
		}
		before, after := splitRuns(b.Runs, p.Offset)
		b.Runs = concatRuns(before, f.Inline, after)
		out.Blocks[p.Block] = b
		return Normalize(out), Pos{Block: p.Block, Offset: p.Offset + n}
	}

	frag := cloneBlocks(f.Blocks)
	var head []Block
	var tail *Block
	if b.IsAtomic() {
		head = []Block{b}
	} else {
		hr, tr := splitRuns(b.Runs, p.Offset)
		if runsLen(hr) > 0 {
			hb := b
			hb.Runs = hr
			head = []Block{hb}
		}
		if runsLen(tr) > 0 {
			tb := b
			tb.Runs = tr
			tail = &tb
		}
	}

	mid := frag
	lastIdx := p.Block + len(head) + len(frag) - 1
	var caret Pos
	if tail != nil {
		last := mid[len(mid)-1]
		if isBlankParagraph(last) {
			mid[len(mid)-1] = *tail
			caret = Pos{Block: lastIdx}
		} else {
			mid = append(mid, *tail)
			caret = Pos{Block: lastIdx + 1}
		}
	}

	blocks := make([]Block, 0, len(out.Blocks)+len(mid)+1)
	blocks = append(blocks, out.Blocks[:p.Block]...)
	blocks = append(blocks, head...)
	blocks = append(blocks, mid...)
	blocks = append(blocks, out.Blocks[p.Block+1:]...)

	if tail == nil {
		last := blocks[lastIdx]
		switch {
		case !last.IsAtomic():
			caret = Pos{Block: lastIdx, Offset: last.Len()}
		case lastIdx+1 < len(blocks):
			caret = Pos{Block: lastIdx + 1}
		default:
			blocks = append(blocks, Block{Kind: Paragraph})
			caret = Pos{Block: lastIdx + 1}
		}
	}
	out.Blocks = blocks
	return Normalize(out), caret
}

func isBlankParagraph(b Block) bool {
	return b.Kind == Paragraph && b.List == ListNone && runsLen(b.Runs) == 0
}

// InsertRule inserts a horizontal rule at the caret.
func InsertRule(d Document, r Range) (Document, Pos) {
	return InsertFragment(d, r, Fragment{Blocks: []Block{{Kind: Rule}}})
}
