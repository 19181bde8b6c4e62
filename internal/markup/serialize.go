package markup

import (
	"html"
	"strings"

	"github.com/kobzarvs/rtedit/internal/document"
)

const (
	// EmptyParagraph is the markup of a blank paragraph.
	EmptyParagraph = "<p><br></p>"

	linkAttrs = ` target="_blank" rel="noopener noreferrer"`

	nbsp = '\u00a0'
)

func escape(s string) string {
	return html.EscapeString(s)
}

// Serialize renders d as markup. The output parses back to an equal
// document.
func Serialize(d document.Document) string {
	var sb strings.Builder
	writeBlocks(&sb, document.Normalize(d).Blocks, false)
	return sb.String()
}

// Format renders d like Serialize but puts every top-level element and list
// item on its own line. Used by the source view.
func Format(d document.Document) string {
	var sb strings.Builder
	writeBlocks(&sb, document.Normalize(d).Blocks, true)
	return sb.String()
}

func writeBlocks(sb *strings.Builder, blocks []document.Block, pretty bool) {
	for i := 0; i < len(blocks); {
		if pretty && i > 0 {
			sb.WriteByte('\n')
		}
		b := blocks[i]
		if b.List != document.ListNone && !b.IsAtomic() {
			tag := "ul"
			if b.List == document.ListOrdered {
				tag = "ol"
			}
			sb.WriteString("<" + tag + ">")
			for i < len(blocks) && blocks[i].List == b.List && !blocks[i].IsAtomic() {
				if pretty {
					sb.WriteString("\n  ")
				}
				sb.WriteString("<li" + alignAttr(blocks[i].Align) + ">")
				writeInline(sb, blocks[i].Runs)
				sb.WriteString("</li>")
				i++
			}
			if pretty {
				sb.WriteByte('\n')
			}
			sb.WriteString("</" + tag + ">")
			continue
		}
		writeBlock(sb, b)
		i++
	}
}

func writeBlock(sb *strings.Builder, b document.Block) {
	switch b.Kind {
	case document.Rule:
		sb.WriteString("<hr>")
	case document.Figure:
		sb.WriteString(FigureMarkup(b.Image.Src, b.Image.Alt))
	default:
		tag := b.Kind.String()
		sb.WriteString("<" + tag + alignAttr(b.Align) + ">")
		writeInline(sb, b.Runs)
		sb.WriteString("</" + tag + ">")
	}
}

func alignAttr(a document.Align) string {
	switch a {
	case document.AlignCenter:
		return ` style="text-align: center;"`
	case document.AlignRight:
		return ` style="text-align: right;"`
	default:
		return ""
	}
}

// writeInline renders runs. Consecutive runs sharing a link target are
// grouped under one anchor with the link outermost.
func writeInline(sb *strings.Builder, runs []document.Run) {
	var total []rune
	for _, r := range runs {
		total = append(total, []rune(r.Text)...)
	}
	if len(total) == 0 {
		sb.WriteString("<br>")
		return
	}
	hard := hardSpaces(total)
	pos := 0
	for i := 0; i < len(runs); {
		link := runs[i].Link
		if link != "" {
			sb.WriteString(`<a href="` + escape(link) + `"` + linkAttrs + ">")
		}
		for i < len(runs) && runs[i].Link == link {
			n := len([]rune(runs[i].Text))
			writeRun(sb, runs[i], hard[pos:pos+n])
			pos += n
			i++
		}
		if link != "" {
			sb.WriteString("</a>")
		}
	}
}

func writeRun(sb *strings.Builder, r document.Run, hard []bool) {
	if r.Bold {
		sb.WriteString("<b>")
	}
	if r.Italic {
		sb.WriteString("<i>")
	}
	var chunk []rune
	flush := func() {
		if len(chunk) > 0 {
			sb.WriteString(escape(string(chunk)))
			chunk = chunk[:0]
		}
	}
	for i, c := range []rune(r.Text) {
		if hard[i] {
			flush()
			sb.WriteString("&nbsp;")
			continue
		}
		chunk = append(chunk, c)
	}
	flush()
	if r.Italic {
		sb.WriteString("</i>")
	}
	if r.Bold {
		sb.WriteString("</b>")
	}
}

// hardSpaces marks the spaces that whitespace collapsing would lose: those
// at either edge of the block and those following another space.
func hardSpaces(text []rune) []bool {
	hard := make([]bool, len(text))
	for i, c := range text {
		switch c {
		case nbsp:
			hard[i] = true
		case ' ':
			hard[i] = i == 0 || i == len(text)-1 || text[i-1] == ' '
		}
	}
	return hard
}

// FigureMarkup renders an image figure. The caption is omitted when alt is
// empty.
func FigureMarkup(src, alt string) string {
	var sb strings.Builder
	sb.WriteString(`<figure class="rte-figure" contenteditable="false">`)
	sb.WriteString(`<img src="` + escape(src) + `" alt="` + escape(alt) + `" class="rte-img">`)
	if alt != "" {
		sb.WriteString(`<figcaption class="rte-caption">` + escape(alt) + `</figcaption>`)
	}
	sb.WriteString("</figure>")
	return sb.String()
}

// ImageFragment is the markup inserted by the image dialog: the figure
// followed by an empty paragraph so typing can continue below it.
func ImageFragment(src, alt string) string {
	return FigureMarkup(src, alt) + EmptyParagraph
}

// LinkFragment is the markup inserted by the link dialog. Empty text falls
// back to the URL.
func LinkFragment(href, text string) string {
	if text == "" {
		text = href
	}
	return `<a href="` + escape(href) + `"` + linkAttrs + ">" + escape(text) + "</a>"
}
