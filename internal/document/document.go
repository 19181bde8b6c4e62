// Package document implements the rich text document value edited by rtedit.
//
// A Document is an ordered list of blocks. Text blocks hold inline runs,
// atomic blocks (rules and figures) hold no text. Every transformation in
// this package takes a Document by value and returns a new one; the input is
// never mutated.
//
// Positions address a block by index and a rune offset inside the block's
// plain text. Atomic blocks only have offset 0.
package document

import "unicode/utf8"

type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading2
	Heading3
	Blockquote
	Rule
	Figure
)

func (k BlockKind) String() string {
	switch k {
	case Heading2:
		return "h2"
	case Heading3:
		return "h3"
	case Blockquote:
		return "blockquote"
	case Rule:
		return "hr"
	case Figure:
		return "figure"
	default:
		return "p"
	}
}

// ParseBlockKind maps a block tag name to a kind. Unknown names map to
// Paragraph.
func ParseBlockKind(name string) BlockKind {
	switch name {
	case "h2":
		return Heading2
	case "h3":
		return Heading3
	case "blockquote":
		return Blockquote
	default:
		return Paragraph
	}
}

type ListKind int

const (
	ListNone ListKind = iota
	ListBullet
	ListOrdered
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Marks is the inline formatting carried by a run.
type Marks struct {
	Bold   bool
	Italic bool
	Link   string
}

type Run struct {
	Text string
	Marks
}

type Image struct {
	Src string
	Alt string
}

type Block struct {
	Kind  BlockKind
	List  ListKind
	Align Align
	Runs  []Run
	Image Image
}

// IsAtomic reports whether the block holds no editable text.
func (b Block) IsAtomic() bool {
	return b.Kind == Rule || b.Kind == Figure
}

// Text returns the plain text of the block.
func (b Block) Text() string {
	if len(b.Runs) == 1 {
		return b.Runs[0].Text
	}
	n := 0
	for _, r := range b.Runs {
		n += len(r.Text)
	}
	buf := make([]byte, 0, n)
	for _, r := range b.Runs {
		buf = append(buf, r.Text...)
	}
	return string(buf)
}

// Len returns the length of the block text in runes.
func (b Block) Len() int {
	n := 0
	for _, r := range b.Runs {
		n += utf8.RuneCountInString(r.Text)
	}
	return n
}

func (b Block) clone() Block {
	out := b
	if b.Runs != nil {
		out.Runs = append([]Run(nil), b.Runs...)
	}
	return out
}

type Document struct {
	Blocks []Block
}

// New returns a document holding a single empty paragraph.
func New() Document {
	return Document{Blocks: []Block{{Kind: Paragraph}}}
}

// Clone returns a deep copy of d.
func (d Document) Clone() Document {
	out := Document{Blocks: make([]Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		out.Blocks[i] = b.clone()
	}
	return out
}

// IsEmpty reports whether the document is a single empty paragraph.
func (d Document) IsEmpty() bool {
	if len(d.Blocks) == 0 {
		return true
	}
	if len(d.Blocks) > 1 {
		return false
	}
	b := d.Blocks[0]
	return !b.IsAtomic() && b.List == ListNone && b.Kind == Paragraph && b.Len() == 0
}

// End returns the position after the last character of the document.
func (d Document) End() Pos {
	if len(d.Blocks) == 0 {
		return Pos{}
	}
	last := len(d.Blocks) - 1
	return Pos{Block: last, Offset: d.Blocks[last].Len()}
}

// Clamp moves p inside the document bounds.
func (d Document) Clamp(p Pos) Pos {
	if len(d.Blocks) == 0 {
		return Pos{}
	}
	if p.Block < 0 {
		return Pos{}
	}
	if p.Block >= len(d.Blocks) {
		return d.End()
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if n := d.Blocks[p.Block].Len(); p.Offset > n {
		p.Offset = n
	}
	return p
}

// ClampRange clamps both ends of r.
func (d Document) ClampRange(r Range) Range {
	return Range{Anchor: d.Clamp(r.Anchor), Focus: d.Clamp(r.Focus)}
}

// Equal reports whether two documents are structurally equivalent once
// normalized.
func Equal(a, b Document) bool {
	a = Normalize(a)
	b = Normalize(b)
	if len(a.Blocks) != len(b.Blocks) {
		return false
	}
	for i := range a.Blocks {
		x, y := a.Blocks[i], b.Blocks[i]
		if x.Kind != y.Kind || x.List != y.List || x.Align != y.Align || x.Image != y.Image {
			return false
		}
		if len(x.Runs) != len(y.Runs) {
			return false
		}
		for j := range x.Runs {
			if x.Runs[j] != y.Runs[j] {
				return false
			}
		}
	}
	return true
}

// Normalize returns the canonical form of d: at least one block, no empty
// runs, adjacent runs with equal marks merged, atomic blocks stripped of
// text attributes.
func Normalize(d Document) Document {
	if len(d.Blocks) == 0 {
		return New()
	}
	out := Document{Blocks: make([]Block, 0, len(d.Blocks))}
	for _, b := range d.Blocks {
		if b.IsAtomic() {
			nb := Block{Kind: b.Kind}
			if b.Kind == Figure {
				nb.Image = b.Image
			}
			out.Blocks = append(out.Blocks, nb)
			continue
		}
		b.Image = Image{}
		b.Runs = normalizeRuns(b.Runs)
		out.Blocks = append(out.Blocks, b)
	}
	return out
}

func normalizeRuns(runs []Run) []Run {
	var out []Run
	for _, r := range runs {
		if r.Text == "" {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Marks == r.Marks {
			out[n-1].Text += r.Text
			continue
		}
		out = append(out, r)
	}
	return out
}
