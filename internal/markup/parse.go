// Package markup converts between documents and their HTML-like markup.
//
// Parsing goes through tree-sitter's HTML grammar. The grammar is lenient:
// unknown elements are treated as inline containers, script and style
// content is dropped and malformed input still yields a document.
package markup

import (
	"context"
	"fmt"
	"html"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	tshtml "github.com/smacker/go-tree-sitter/html"

	"github.com/kobzarvs/rtedit/internal/document"
)

// Parse parses markup into a normalized document.
func Parse(src string) (document.Document, error) {
	p, err := parse(src)
	if err != nil {
		return document.Document{}, err
	}
	return document.Normalize(document.Document{Blocks: p.blocks}), nil
}

// ParseFragment parses markup meant to be injected at the caret. Markup
// without any block-level element yields an inline fragment.
func ParseFragment(src string) (document.Fragment, error) {
	p, err := parse(src)
	if err != nil {
		return document.Fragment{}, err
	}
	if !p.sawBlock && len(p.blocks) <= 1 {
		var runs []document.Run
		if len(p.blocks) == 1 {
			runs = p.blocks[0].Runs
		}
		return document.Fragment{Inline: runs}, nil
	}
	d := document.Normalize(document.Document{Blocks: p.blocks})
	return document.Fragment{Blocks: d.Blocks}, nil
}

func parseTree(src []byte) (*sitter.Tree, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(tshtml.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	if tree == nil {
		return nil, fmt.Errorf("parse markup: no tree")
	}
	return tree, nil
}

func parse(src string) (*parser, error) {
	b := []byte(src)
	tree, err := parseTree(b)
	if err != nil {
		return nil, err
	}
	p := &parser{src: b}
	p.children(tree.RootNode(), 0, uint32(len(b)))
	p.close(false)
	return p, nil
}

// blockContext is what a text block opened at this point inherits from its
// enclosing elements.
type blockContext struct {
	kind  document.BlockKind
	list  document.ListKind
	align document.Align
}

type parser struct {
	src      []byte
	blocks   []document.Block
	ctx      blockContext
	marks    document.Marks
	sawBlock bool

	cur         *document.Block
	curExplicit bool
	lastSpace   bool
}

// children walks the content of n between byte offsets from and to. Source
// text between child elements is inline text.
func (p *parser) children(n *sitter.Node, from, to uint32) {
	cursor := from
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c == nil || !isStructural(c.Type()) {
			continue
		}
		if c.StartByte() > cursor {
			p.text(p.src[cursor:c.StartByte()])
		}
		p.node(c)
		if c.EndByte() > cursor {
			cursor = c.EndByte()
		}
	}
	if to > cursor {
		p.text(p.src[cursor:to])
	}
}

func isStructural(typ string) bool {
	switch typ {
	case "element", "script_element", "style_element", "comment", "doctype", "erroneous_end_tag", "ERROR":
		return true
	}
	return false
}

func (p *parser) node(n *sitter.Node) {
	switch n.Type() {
	case "element":
		p.element(n)
	case "ERROR":
		p.recover(n)
	}
}

// recover salvages elements and text from a subtree the grammar could not
// match.
func (p *parser) recover(n *sitter.Node) {
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		switch c.Type() {
		case "element", "ERROR":
			p.node(c)
		case "text", "entity":
			p.text(p.src[c.StartByte():c.EndByte()])
		}
	}
}

type tagInfo struct {
	name  string
	attrs map[string]string
}

func (p *parser) tagOf(n *sitter.Node) tagInfo {
	t := tagInfo{attrs: map[string]string{}}
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		if c.Type() != "start_tag" && c.Type() != "self_closing_tag" {
			continue
		}
		for j := 0; j < int(c.NamedChildCount()); j++ {
			a := c.NamedChild(j)
			switch a.Type() {
			case "tag_name":
				t.name = strings.ToLower(a.Content(p.src))
			case "attribute":
				name, value := p.attribute(a)
				if name != "" {
					t.attrs[name] = value
				}
			}
		}
		break
	}
	return t
}

func (p *parser) attribute(n *sitter.Node) (string, string) {
	var name, value string
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		switch c.Type() {
		case "attribute_name":
			name = strings.ToLower(c.Content(p.src))
		case "attribute_value":
			value = c.Content(p.src)
		case "quoted_attribute_value":
			raw := c.Content(p.src)
			if len(raw) >= 2 {
				raw = raw[1 : len(raw)-1]
			}
			value = raw
		}
	}
	return name, html.UnescapeString(value)
}

// contentRange returns the byte span between the start and end tags of n.
func contentRange(n *sitter.Node) (uint32, uint32) {
	from, to := n.StartByte(), n.EndByte()
	count := int(n.ChildCount())
	for i := 0; i < count; i++ {
		c := n.Child(i)
		switch c.Type() {
		case "start_tag", "self_closing_tag":
			from = c.EndByte()
		case "end_tag":
			to = c.StartByte()
		}
	}
	if to < from {
		to = from
	}
	return from, to
}

func (p *parser) element(n *sitter.Node) {
	t := p.tagOf(n)
	from, to := contentRange(n)
	switch t.name {
	case "script", "style", "head", "title", "template", "noscript":
	case "br":
		p.lineBreak()
	case "hr":
		p.atomic(document.Block{Kind: document.Rule})
	case "img":
		p.image(t.attrs["src"], t.attrs["alt"])
	case "figure":
		p.figure(n)
	case "b", "strong":
		p.inline(n, from, to, func(m *document.Marks) { m.Bold = true })
	case "i", "em":
		p.inline(n, from, to, func(m *document.Marks) { m.Italic = true })
	case "a":
		href := t.attrs["href"]
		p.inline(n, from, to, func(m *document.Marks) {
			if href != "" {
				m.Link = href
			}
		})
	case "ul", "ol":
		list := document.ListBullet
		if t.name == "ol" {
			list = document.ListOrdered
		}
		p.block(n, from, to, t, false, func(c *blockContext) {
			c.kind = document.Paragraph
			c.list = list
		})
	case "li":
		p.block(n, from, to, t, true, func(c *blockContext) {
			c.kind = document.Paragraph
			if c.list == document.ListNone {
				c.list = document.ListBullet
			}
		})
	case "h1", "h2":
		p.block(n, from, to, t, true, func(c *blockContext) {
			c.kind = document.Heading2
			c.list = document.ListNone
		})
	case "h3", "h4", "h5", "h6":
		p.block(n, from, to, t, true, func(c *blockContext) {
			c.kind = document.Heading3
			c.list = document.ListNone
		})
	case "blockquote":
		p.block(n, from, to, t, true, func(c *blockContext) {
			c.kind = document.Blockquote
			c.list = document.ListNone
		})
	case "p", "div", "pre", "address":
		p.block(n, from, to, t, true, nil)
	case "article", "section", "main", "header", "footer", "aside", "nav":
		p.block(n, from, to, t, false, nil)
	default:
		p.children(n, from, to)
	}
}

func (p *parser) inline(n *sitter.Node, from, to uint32, apply func(*document.Marks)) {
	saved := p.marks
	apply(&p.marks)
	p.children(n, from, to)
	p.marks = saved
}

// block handles a block-level element. An explicit block opens a text block
// right away so that an empty element still yields an empty block; a
// container only sets the context for what it holds.
func (p *parser) block(n *sitter.Node, from, to uint32, t tagInfo, explicit bool, apply func(*blockContext)) {
	p.sawBlock = true
	saved := p.ctx
	if apply != nil {
		apply(&p.ctx)
	}
	if a, ok := parseAlign(t.attrs); ok {
		p.ctx.align = a
	}
	p.close(false)
	if explicit {
		p.open(true)
	}
	p.children(n, from, to)
	p.close(true)
	p.ctx = saved
}

func parseAlign(attrs map[string]string) (document.Align, bool) {
	value := strings.ToLower(strings.TrimSpace(attrs["align"]))
	for _, decl := range strings.Split(attrs["style"], ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.TrimSpace(strings.ToLower(k)) == "text-align" {
			value = strings.ToLower(strings.TrimSpace(v))
		}
	}
	switch value {
	case "left", "start":
		return document.AlignLeft, true
	case "center":
		return document.AlignCenter, true
	case "right", "end":
		return document.AlignRight, true
	}
	return document.AlignLeft, false
}

func (p *parser) open(explicit bool) {
	p.cur = &document.Block{Kind: p.ctx.kind, List: p.ctx.list, Align: p.ctx.align}
	p.curExplicit = explicit
	p.lastSpace = true
}

// close commits the open text block. An empty block survives only when it
// was opened by an element and keepEmpty is set.
func (p *parser) close(keepEmpty bool) {
	if p.cur == nil {
		return
	}
	b := *p.cur
	p.cur = nil
	b.Runs = finishRuns(b.Runs)
	if len(b.Runs) == 0 && !(keepEmpty && p.curExplicit) {
		return
	}
	p.blocks = append(p.blocks, b)
}

func (p *parser) lineBreak() {
	p.sawBlock = true
	if p.cur == nil {
		p.open(false)
	}
	p.curExplicit = true
	p.close(true)
}

func (p *parser) atomic(b document.Block) {
	p.sawBlock = true
	p.close(false)
	p.blocks = append(p.blocks, b)
}

func (p *parser) image(src, alt string) {
	p.sawBlock = true
	if src == "" {
		return
	}
	p.atomic(document.Block{Kind: document.Figure, Image: document.Image{Src: src, Alt: alt}})
}

func (p *parser) figure(n *sitter.Node) {
	var src, alt, caption string
	var walk func(*sitter.Node)
	walk = func(c *sitter.Node) {
		if c.Type() == "element" {
			t := p.tagOf(c)
			switch t.name {
			case "img":
				if src == "" {
					src, alt = t.attrs["src"], t.attrs["alt"]
				}
				return
			case "figcaption":
				caption = p.textContent(c)
				return
			}
		}
		for i := 0; i < int(c.NamedChildCount()); i++ {
			walk(c.NamedChild(i))
		}
	}
	walk(n)
	if alt == "" {
		alt = caption
	}
	p.image(src, alt)
}

// textContent returns the collapsed plain text inside n.
func (p *parser) textContent(n *sitter.Node) string {
	var sb strings.Builder
	var walk func(*sitter.Node)
	walk = func(c *sitter.Node) {
		from, to := contentRange(c)
		cursor := from
		for i := 0; i < int(c.ChildCount()); i++ {
			ch := c.Child(i)
			if !isStructural(ch.Type()) {
				continue
			}
			if ch.StartByte() > cursor {
				sb.Write(p.src[cursor:ch.StartByte()])
			}
			sb.WriteByte(' ')
			if ch.Type() == "element" {
				walk(ch)
			}
			cursor = ch.EndByte()
		}
		if to > cursor {
			sb.Write(p.src[cursor:to])
		}
	}
	walk(n)
	return strings.Join(strings.Fields(html.UnescapeString(sb.String())), " ")
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// text appends raw source text to the open block, collapsing runs of ASCII
// whitespace. Non-breaking spaces are kept until the block is committed.
func (p *parser) text(raw []byte) {
	s := html.UnescapeString(string(raw))
	if s == "" {
		return
	}
	if p.cur == nil {
		if strings.TrimFunc(s, isSpace) == "" {
			return
		}
		p.open(false)
	}
	var sb strings.Builder
	for _, r := range s {
		if isSpace(r) {
			if !p.lastSpace {
				sb.WriteByte(' ')
				p.lastSpace = true
			}
			continue
		}
		sb.WriteRune(r)
		p.lastSpace = false
	}
	if sb.Len() == 0 {
		return
	}
	p.cur.Runs = append(p.cur.Runs, document.Run{Text: sb.String(), Marks: p.marks})
}

// finishRuns trims the collapsed space at the block end and turns
// non-breaking spaces into plain ones.
func finishRuns(runs []document.Run) []document.Run {
	for len(runs) > 0 {
		last := &runs[len(runs)-1]
		last.Text = strings.TrimRight(last.Text, " ")
		if last.Text != "" {
			break
		}
		runs = runs[:len(runs)-1]
	}
	for i := range runs {
		runs[i].Text = strings.ReplaceAll(runs[i].Text, string(nbsp), " ")
	}
	return runs
}
