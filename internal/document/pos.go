package document

// Pos points into the document by block index and rune offset.
type Pos struct {
	Block  int
	Offset int
}

// Range is a selection. Anchor is where it started, Focus is where the caret
// is. A collapsed range is a caret.
type Range struct {
	Anchor Pos
	Focus  Pos
}

// Caret returns a collapsed range at p.
func Caret(p Pos) Range {
	return Range{Anchor: p, Focus: p}
}

func ComparePos(a, b Pos) int {
	if a.Block < b.Block {
		return -1
	}
	if a.Block > b.Block {
		return 1
	}
	if a.Offset < b.Offset {
		return -1
	}
	if a.Offset > b.Offset {
		return 1
	}
	return 0
}

func (r Range) Collapsed() bool {
	return r.Anchor == r.Focus
}

// Ordered returns the range ends in document order.
func (r Range) Ordered() (Pos, Pos) {
	if ComparePos(r.Anchor, r.Focus) <= 0 {
		return r.Anchor, r.Focus
	}
	return r.Focus, r.Anchor
}
