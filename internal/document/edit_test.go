package document

import "testing"

func para(text string) Block {
	return Block{Kind: Paragraph, Runs: []Run{{Text: text}}}
}

func docOf(blocks ...Block) Document {
	return Normalize(Document{Blocks: blocks})
}

func figure(src, alt string) Block {
	return Block{Kind: Figure, Image: Image{Src: src, Alt: alt}}
}

func blockTexts(d Document) []string {
	out := make([]string, len(d.Blocks))
	for i, b := range d.Blocks {
		if b.IsAtomic() {
			out[i] = "<" + b.Kind.String() + ">"
			continue
		}
		out[i] = b.Text()
	}
	return out
}

func assertTexts(t *testing.T, d Document, want ...string) {
	t.Helper()
	got := blockTexts(d)
	if len(got) != len(want) {
		t.Fatalf("blocks = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("blocks = %q, want %q", got, want)
		}
	}
}

func TestInsertTextAtCaret(t *testing.T) {
	d := docOf(para("Helo"))
	got, caret := InsertText(d, Caret(Pos{Block: 0, Offset: 3}), "l", Marks{})
	assertTexts(t, got, "Hello")
	if caret != (Pos{Block: 0, Offset: 4}) {
		t.Fatalf("caret = %+v, want {0 4}", caret)
	}
	assertTexts(t, d, "Helo")
}

func TestInsertTextReplacesSelection(t *testing.T) {
	d := docOf(para("Hello world"))
	r := Range{Anchor: Pos{Block: 0, Offset: 11}, Focus: Pos{Block: 0, Offset: 6}}
	got, caret := InsertText(d, r, "there", Marks{})
	assertTexts(t, got, "Hello there")
	if caret.Offset != 11 {
		t.Fatalf("caret offset = %d, want 11", caret.Offset)
	}
}

func TestInsertTextCarriesMarks(t *testing.T) {
	d := docOf(para("ab"))
	got, _ := InsertText(d, Caret(Pos{Block: 0, Offset: 1}), "X", Marks{Bold: true})
	runs := got.Blocks[0].Runs
	if len(runs) != 3 {
		t.Fatalf("runs = %+v, want 3 runs", runs)
	}
	if !runs[1].Bold || runs[1].Text != "X" {
		t.Fatalf("middle run = %+v, want bold X", runs[1])
	}
}

func TestInsertTextOnFigureOpensParagraph(t *testing.T) {
	d := docOf(figure("a.png", ""))
	got, caret := InsertText(d, Caret(Pos{}), "hi", Marks{})
	assertTexts(t, got, "<figure>", "hi")
	if caret != (Pos{Block: 1, Offset: 2}) {
		t.Fatalf("caret = %+v, want {1 2}", caret)
	}
}

func TestSplitBlockAtHeadingEnd(t *testing.T) {
	d := docOf(Block{Kind: Heading2, Runs: []Run{{Text: "Title"}}})
	got, caret := SplitBlock(d, Caret(Pos{Block: 0, Offset: 5}))
	assertTexts(t, got, "Title", "")
	if got.Blocks[1].Kind != Paragraph {
		t.Fatalf("next kind = %v, want paragraph", got.Blocks[1].Kind)
	}
	if caret != (Pos{Block: 1}) {
		t.Fatalf("caret = %+v, want {1 0}", caret)
	}
}

func TestSplitBlockInsideHeadingKeepsKind(t *testing.T) {
	d := docOf(Block{Kind: Heading2, Runs: []Run{{Text: "Title"}}})
	got, _ := SplitBlock(d, Caret(Pos{Block: 0, Offset: 2}))
	assertTexts(t, got, "Ti", "tle")
	if got.Blocks[1].Kind != Heading2 {
		t.Fatalf("tail kind = %v, want h2", got.Blocks[1].Kind)
	}
}

func TestSplitEmptyListItemLeavesList(t *testing.T) {
	d := docOf(Block{Kind: Paragraph, List: ListBullet, Runs: []Run{{Text: "one"}}}, Block{List: ListBullet})
	got, caret := SplitBlock(d, Caret(Pos{Block: 1}))
	if len(got.Blocks) != 2 {
		t.Fatalf("blocks = %d, want 2", len(got.Blocks))
	}
	if got.Blocks[1].List != ListNone {
		t.Fatalf("list = %v, want none", got.Blocks[1].List)
	}
	if caret != (Pos{Block: 1}) {
		t.Fatalf("caret = %+v, want {1 0}", caret)
	}
}

func TestDeleteBackwardMergesBlocks(t *testing.T) {
	d := docOf(para("Hello"), para("World"))
	got, caret := DeleteBackward(d, Caret(Pos{Block: 1}))
	assertTexts(t, got, "HelloWorld")
	if caret != (Pos{Block: 0, Offset: 5}) {
		t.Fatalf("caret = %+v, want {0 5}", caret)
	}
}

func TestDeleteBackwardRemovesWholeGrapheme(t *testing.T) {
	d := docOf(para("ae\u0301"))
	got, caret := DeleteBackward(d, Caret(Pos{Block: 0, Offset: 3}))
	assertTexts(t, got, "a")
	if caret.Offset != 1 {
		t.Fatalf("caret offset = %d, want 1", caret.Offset)
	}
}

func TestDeleteBackwardRemovesFigureBefore(t *testing.T) {
	d := docOf(para("A"), figure("x.png", ""), para("B"))
	got, caret := DeleteBackward(d, Caret(Pos{Block: 2}))
	assertTexts(t, got, "A", "B")
	if caret != (Pos{Block: 1}) {
		t.Fatalf("caret = %+v, want {1 0}", caret)
	}
}

func TestDeleteBackwardOutdentsListItem(t *testing.T) {
	d := docOf(para("A"), Block{List: ListOrdered, Runs: []Run{{Text: "B"}}})
	got, _ := DeleteBackward(d, Caret(Pos{Block: 1}))
	assertTexts(t, got, "A", "B")
	if got.Blocks[1].List != ListNone {
		t.Fatalf("list = %v, want none", got.Blocks[1].List)
	}
}

func TestDeleteForwardMergesNext(t *testing.T) {
	d := docOf(para("Hello"), para("World"))
	got, caret := DeleteForward(d, Caret(Pos{Block: 0, Offset: 5}))
	assertTexts(t, got, "HelloWorld")
	if caret != (Pos{Block: 0, Offset: 5}) {
		t.Fatalf("caret = %+v, want {0 5}", caret)
	}
}

func TestDeleteRangeAcrossBlocks(t *testing.T) {
	d := docOf(para("Hello"), para("big"), para("World"))
	got, caret := DeleteRange(d, Range{Anchor: Pos{Block: 0, Offset: 2}, Focus: Pos{Block: 2, Offset: 3}})
	assertTexts(t, got, "Held")
	if caret != (Pos{Block: 0, Offset: 2}) {
		t.Fatalf("caret = %+v, want {0 2}", caret)
	}
}

func TestDeleteRangeKeepsTrailingFigure(t *testing.T) {
	d := docOf(para("Hello"), figure("a.png", ""))
	got, _ := DeleteRange(d, Range{Anchor: Pos{Block: 0, Offset: 1}, Focus: Pos{Block: 1}})
	assertTexts(t, got, "H", "<figure>")
}

func imageFragment() Fragment {
	return Fragment{Blocks: []Block{figure("https://x.test/a.png", "cat"), {Kind: Paragraph}}}
}

func TestInsertFragmentAfterWord(t *testing.T) {
	d := docOf(para("Hello"))
	got, caret := InsertFragment(d, Caret(Pos{Block: 0, Offset: 5}), imageFragment())
	assertTexts(t, got, "Hello", "<figure>", "")
	if got.Blocks[1].Image.Src != "https://x.test/a.png" {
		t.Fatalf("src = %q, want %q", got.Blocks[1].Image.Src, "https://x.test/a.png")
	}
	if caret != (Pos{Block: 2}) {
		t.Fatalf("caret = %+v, want {2 0}", caret)
	}
}

func TestInsertFragmentSplitsParagraph(t *testing.T) {
	d := docOf(para("HelloWorld"))
	got, caret := InsertFragment(d, Caret(Pos{Block: 0, Offset: 5}), imageFragment())
	assertTexts(t, got, "Hello", "<figure>", "World")
	if caret != (Pos{Block: 2}) {
		t.Fatalf("caret = %+v, want {2 0}", caret)
	}
}

func TestInsertFragmentIntoEmptyDocument(t *testing.T) {
	got, _ := InsertFragment(New(), Caret(Pos{}), imageFragment())
	assertTexts(t, got, "<figure>", "")
}

func TestInsertFragmentInline(t *testing.T) {
	d := docOf(para("ab"))
	link := Fragment{Inline: []Run{{Text: "site", Marks: Marks{Link: "https://x.test"}}}}
	got, caret := InsertFragment(d, Caret(Pos{Block: 0, Offset: 1}), link)
	assertTexts(t, got, "asiteb")
	if got.Blocks[0].Runs[1].Link != "https://x.test" {
		t.Fatalf("link = %q, want %q", got.Blocks[0].Runs[1].Link, "https://x.test")
	}
	if caret.Offset != 5 {
		t.Fatalf("caret offset = %d, want 5", caret.Offset)
	}
}

func TestInsertRuleAtEndAddsParagraph(t *testing.T) {
	d := docOf(para("Hi"))
	got, caret := InsertRule(d, Caret(Pos{Block: 0, Offset: 2}))
	assertTexts(t, got, "Hi", "<hr>", "")
	if caret != (Pos{Block: 2}) {
		t.Fatalf("caret = %+v, want {2 0}", caret)
	}
}
