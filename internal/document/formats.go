package document

// Format names a formatting attribute a toolbar can light up.
type Format string

const (
	FormatBold          Format = "bold"
	FormatItalic        Format = "italic"
	FormatLink          Format = "link"
	FormatH2            Format = "h2"
	FormatH3            Format = "h3"
	FormatBlockquote    Format = "blockquote"
	FormatBulletList    Format = "ul"
	FormatOrderedList   Format = "ol"
	FormatJustifyLeft   Format = "justifyLeft"
	FormatJustifyCenter Format = "justifyCenter"
	FormatJustifyRight  Format = "justifyRight"
)

var AllFormats = []Format{
	FormatBold,
	FormatItalic,
	FormatLink,
	FormatH2,
	FormatH3,
	FormatBlockquote,
	FormatBulletList,
	FormatOrderedList,
	FormatJustifyLeft,
	FormatJustifyCenter,
	FormatJustifyRight,
}

// FormatSet maps every format name to whether it is in effect.
type FormatSet map[Format]bool

func (s FormatSet) Has(f Format) bool {
	return s[f]
}

// ActiveFormats derives the formats in effect for r. Block formats come from
// the block where the range starts. For a caret the inline formats are those
// of pending when it is non-nil, else of the character before the caret.
// For a non-empty range an inline format is active only when every selected
// character carries it.
func ActiveFormats(d Document, r Range, pending *Marks) FormatSet {
	set := make(FormatSet, len(AllFormats))
	for _, f := range AllFormats {
		set[f] = false
	}
	if len(d.Blocks) == 0 {
		return set
	}
	r = d.ClampRange(r)
	start, end := r.Ordered()
	b := d.Blocks[start.Block]
	if !b.IsAtomic() {
		set[FormatH2] = b.Kind == Heading2
		set[FormatH3] = b.Kind == Heading3
		set[FormatBlockquote] = b.Kind == Blockquote
		set[FormatBulletList] = b.List == ListBullet
		set[FormatOrderedList] = b.List == ListOrdered
		set[FormatJustifyLeft] = b.Align == AlignLeft
		set[FormatJustifyCenter] = b.Align == AlignCenter
		set[FormatJustifyRight] = b.Align == AlignRight
	}
	if r.Collapsed() {
		var m Marks
		if pending != nil {
			m = *pending
		} else if !b.IsAtomic() {
			m = marksAt(b.Runs, start.Offset)
		}
		set[FormatBold] = m.Bold
		set[FormatItalic] = m.Italic
		set[FormatLink] = m.Link != ""
		return set
	}
	set[FormatBold] = allMarked(d, start, end, func(m Marks) bool { return m.Bold })
	set[FormatItalic] = allMarked(d, start, end, func(m Marks) bool { return m.Italic })
	set[FormatLink] = allMarked(d, start, end, func(m Marks) bool { return m.Link != "" })
	return set
}
