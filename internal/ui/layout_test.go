package ui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/rtedit/internal/config"
	"github.com/kobzarvs/rtedit/internal/document"
	"github.com/kobzarvs/rtedit/internal/markup"
)

func mustDoc(t *testing.T, src string) document.Document {
	t.Helper()
	d, err := markup.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return d
}

func lineText(l vline) string {
	var sb strings.Builder
	for _, c := range l.prefix {
		sb.WriteRune(c.r)
	}
	for _, c := range l.cells {
		sb.WriteRune(c.r)
	}
	return sb.String()
}

func TestLayoutWrapsAtSpaces(t *testing.T) {
	st := newStyles(config.Default().Theme)
	lines := layout(mustDoc(t, "<p>hello big world</p>"), 10, st)
	var got []string
	for _, l := range lines {
		got = append(got, lineText(l))
	}
	want := []string{"hello big ", "world"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("rows = %q, want %q", got, want)
	}
	if lines[0].end != 10 || lines[1].start != 10 || lines[1].end != 15 {
		t.Fatalf("row offsets = %d..%d, %d..%d", lines[0].start, lines[0].end, lines[1].start, lines[1].end)
	}
}

func TestLayoutDecorations(t *testing.T) {
	st := newStyles(config.Default().Theme)
	lines := layout(mustDoc(t, "<h2>T</h2><ol><li>a</li><li>b</li></ol><blockquote>q</blockquote><hr>"), 20, st)
	var got []string
	for _, l := range lines {
		got = append(got, lineText(l))
	}
	want := []string{"## T", "1. a", "2. b", "│ q", strings.Repeat("─", 20)}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("rows = %q, want %q", got, want)
	}
	if !lines[4].atomic {
		t.Fatal("rule row not atomic")
	}
}

func TestLayoutCentersText(t *testing.T) {
	st := newStyles(config.Default().Theme)
	lines := layout(mustDoc(t, `<p style="text-align: center">ab</p>`), 10, st)
	if lines[0].x != 4 {
		t.Fatalf("centered x = %d, want 4", lines[0].x)
	}
}

func TestCaretCellAndPosAt(t *testing.T) {
	st := newStyles(config.Default().Theme)
	lines := layout(mustDoc(t, "<p>hello big world</p><ul><li>item</li></ul>"), 10, st)
	tests := []struct {
		pos    document.Pos
		row, x int
	}{
		{document.Pos{Block: 0, Offset: 0}, 0, 0},
		{document.Pos{Block: 0, Offset: 6}, 0, 6},
		{document.Pos{Block: 0, Offset: 10}, 1, 0},
		{document.Pos{Block: 0, Offset: 15}, 1, 5},
		{document.Pos{Block: 1, Offset: 2}, 2, 4},
	}
	for _, tt := range tests {
		row, x := caretCell(lines, tt.pos)
		if row != tt.row || x != tt.x {
			t.Fatalf("caretCell(%+v) = %d,%d, want %d,%d", tt.pos, row, x, tt.row, tt.x)
		}
		if got := posAt(lines, row, x); got != tt.pos {
			t.Fatalf("posAt(%d,%d) = %+v, want %+v", row, x, got, tt.pos)
		}
	}
}

func TestComposeStatusLine(t *testing.T) {
	if got := string(composeStatusLine("left", "right", 12)); got != "left   right" {
		t.Fatalf("status line = %q", got)
	}
	if got := string(composeStatusLine("left", "right", 7)); got != "leright" {
		t.Fatalf("trimmed status line = %q", got)
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), ""},
		{tcell.NewEventKey(tcell.KeyRune, '2', tcell.ModAlt), "alt+2"},
		{tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl), "ctrl+b"},
		{tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone), "tab"},
		{tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "enter"},
		{tcell.NewEventKey(tcell.KeyLeft, 0, tcell.ModShift), "shift+left"},
		{tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModAlt|tcell.ModShift), "alt+shift+right"},
		{tcell.NewEventKey(tcell.KeyHome, 0, tcell.ModCtrl), "ctrl+home"},
		{tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone), "del"},
	}
	for _, tt := range tests {
		if got := keyString(tt.ev); got != tt.want {
			t.Fatalf("keyString(%v) = %q, want %q", tt.ev.Name(), got, tt.want)
		}
	}
}

func TestDefaultKeymapActionsAreKnown(t *testing.T) {
	v, _ := newTestView(t, Options{})
	for k, action := range config.Default().Keymap {
		switch action {
		case "quit", "command", "source", "save":
			continue
		}
		if v.execAction(action) {
			t.Fatalf("%s (%s) asked to quit", k, action)
		}
		if strings.HasPrefix(v.Status(), "unknown action") {
			t.Fatalf("%s maps to unknown action %q", k, action)
		}
		if v.Mode() != ModeEdit {
			v.cancelDialog()
		}
	}
}

func TestParseColor(t *testing.T) {
	if got := parseColor("#ff0000", tcell.ColorDefault); got != tcell.NewHexColor(0xff0000) {
		t.Fatalf("parseColor(#ff0000) = %v", got)
	}
	if got := parseColor("", tcell.ColorRed); got != tcell.ColorRed {
		t.Fatalf("empty color = %v, want fallback", got)
	}
	if got := parseColor("nope", tcell.ColorBlue); got != tcell.ColorBlue {
		t.Fatalf("unknown color = %v, want fallback", got)
	}
}
