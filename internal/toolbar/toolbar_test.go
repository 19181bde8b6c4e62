package toolbar

import (
	"errors"
	"testing"

	"github.com/kobzarvs/rtedit/internal/editor"
)

type fakeOpener struct {
	links, images int
}

func (f *fakeOpener) OpenLink() error  { f.links++; return nil }
func (f *fakeOpener) OpenImage() error { f.images++; return nil }

func newTestController(t *testing.T, src string, opts editor.Options) (*Controller, *editor.Surface, *fakeOpener, *int) {
	t.Helper()
	calls := 0
	s := editor.New(opts, func(string) { calls++ })
	if _, err := s.SetContent(src); err != nil {
		t.Fatalf("SetContent error: %v", err)
	}
	o := &fakeOpener{}
	return New(s, o), s, o, &calls
}

func TestBlockButtonsToggleBackToParagraph(t *testing.T) {
	for _, name := range []string{H2, H3, Blockquote} {
		c, s, _, _ := newTestController(t, "<p>Hello</p>", editor.Options{})
		if err := c.Exec(name); err != nil {
			t.Fatalf("Exec(%s) error: %v", name, err)
		}
		want := "<" + name + ">Hello</" + name + ">"
		if got := s.Markup(); got != want {
			t.Fatalf("after %s markup = %q, want %q", name, got, want)
		}
		if !c.Active(name) {
			t.Fatalf("%s not active after applying it", name)
		}
		if err := c.Exec(name); err != nil {
			t.Fatalf("Exec(%s) again error: %v", name, err)
		}
		if got := s.Markup(); got != "<p>Hello</p>" {
			t.Fatalf("after second %s markup = %q, want paragraph", name, got)
		}
	}
}

func TestExecFocusesAndNotifiesOnce(t *testing.T) {
	c, s, _, calls := newTestController(t, "<p>Hello</p>", editor.Options{})
	if err := c.Exec(OrderedList); err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if !s.Focused() {
		t.Fatal("surface not focused after a format command")
	}
	if *calls != 1 {
		t.Fatalf("change calls = %d, want 1", *calls)
	}
	if !c.Active(OrderedList) || c.Active(BulletList) {
		t.Fatalf("ol/ul active = %v/%v, want true/false", c.Active(OrderedList), c.Active(BulletList))
	}
}

func TestCollapsedBoldLightsButton(t *testing.T) {
	c, _, _, _ := newTestController(t, "<p>Hello</p>", editor.Options{})
	if c.Active(Bold) {
		t.Fatal("bold active before toggling")
	}
	if err := c.Exec(Bold); err != nil {
		t.Fatalf("Exec error: %v", err)
	}
	if !c.Active(Bold) {
		t.Fatal("bold not active after toggling at the caret")
	}
}

func TestDialogButtonsUseOpener(t *testing.T) {
	c, s, o, calls := newTestController(t, "<p>Hello</p>", editor.Options{})
	_ = c.Exec(Link)
	_ = c.Exec(Image)
	_ = c.Exec(Image)
	if o.links != 1 || o.images != 2 {
		t.Fatalf("opener calls = %d/%d, want 1/2", o.links, o.images)
	}
	if *calls != 0 || s.Focused() {
		t.Fatalf("dialog buttons touched the surface: calls=%d focused=%v", *calls, s.Focused())
	}
}

func TestUndoButtonState(t *testing.T) {
	c, s, _, _ := newTestController(t, "<p>Hello</p>", editor.Options{})
	if b := button(t, c, Undo); !b.Disabled {
		t.Fatal("undo enabled with empty history")
	}
	_ = c.Exec(AlignCenter)
	if b := button(t, c, Undo); b.Disabled {
		t.Fatal("undo disabled after a change")
	}
	if b := button(t, c, AlignCenter); !b.Active {
		t.Fatal("alignCenter not active")
	}
	_ = c.Exec(Undo)
	if got := s.Markup(); got != "<p>Hello</p>" {
		t.Fatalf("after undo markup = %q", got)
	}
	if b := button(t, c, Redo); b.Disabled {
		t.Fatal("redo disabled after undo")
	}
}

func TestDisabledSurfaceDisablesEverything(t *testing.T) {
	c, s, o, calls := newTestController(t, "<p>Hello</p>", editor.Options{Disabled: true})
	for _, b := range c.Buttons() {
		if !b.Disabled {
			t.Fatalf("button %s enabled on a disabled surface", b.Name)
		}
	}
	for _, name := range Names() {
		if err := c.Exec(name); err != nil {
			t.Fatalf("Exec(%s) error: %v", name, err)
		}
	}
	if *calls != 0 || o.links != 0 || o.images != 0 || s.Markup() != "<p>Hello</p>" {
		t.Fatalf("disabled toolbar had effects: calls=%d opener=%+v markup=%q", *calls, o, s.Markup())
	}
}

func TestUnknownButton(t *testing.T) {
	c, _, _, _ := newTestController(t, "<p>x</p>", editor.Options{})
	if err := c.Exec("strike"); !errors.Is(err, ErrUnknownButton) {
		t.Fatalf("Exec(strike) err = %v, want ErrUnknownButton", err)
	}
}

func TestButtonsOrder(t *testing.T) {
	c, _, _, _ := newTestController(t, "<p>x</p>", editor.Options{})
	got := c.Buttons()
	if len(got) != 15 || got[0].Name != Undo || got[14].Name != Image {
		t.Fatalf("buttons = %+v", got)
	}
}

func button(t *testing.T, c *Controller, name string) Button {
	t.Helper()
	for _, b := range c.Buttons() {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("no button %q", name)
	return Button{}
}
