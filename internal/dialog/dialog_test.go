package dialog

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kobzarvs/rtedit/internal/document"
	"github.com/kobzarvs/rtedit/internal/editor"
	"github.com/kobzarvs/rtedit/internal/selection"
	"github.com/kobzarvs/rtedit/internal/upload"
)

type fixture struct {
	surface *editor.Surface
	tracker *selection.Tracker
	calls   int
}

func newFixture(t *testing.T, src string, caret document.Pos) *fixture {
	t.Helper()
	f := &fixture{}
	f.surface = editor.New(editor.Options{}, func(string) { f.calls++ })
	if _, err := f.surface.SetContent(src); err != nil {
		t.Fatalf("SetContent error: %v", err)
	}
	f.surface.Focus()
	f.surface.SetSelection(document.Caret(caret))
	f.tracker = selection.New(f.surface)
	return f
}

func countingUploader(n *int32, url string, err error) upload.Uploader {
	return upload.Func(func(context.Context, upload.File) (string, error) {
		atomic.AddInt32(n, 1)
		return url, err
	})
}

var png = upload.File{Name: "a.png", Path: "/tmp/a.png", Type: "image/png", Size: 1024}

func TestImageFromURLInsertsAtCapturedCaret(t *testing.T) {
	f := newFixture(t, "<p>Hello</p>", document.Pos{Offset: 5})
	d := NewImage(f.surface, f.tracker, nil, 0)
	if err := d.Open(); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if f.surface.Focused() {
		t.Fatal("surface still focused with the dialog open")
	}
	f.surface.SetSelection(document.Caret(document.Pos{}))

	d.SetURL("  https://x.test/a.png ")
	d.SetAlt(" cat ")
	if d.Preview() != "  https://x.test/a.png " {
		t.Fatalf("preview = %q, want the typed url", d.Preview())
	}
	task, err := d.Confirm(context.Background())
	if err != nil || task != nil {
		t.Fatalf("Confirm = %v, %v; want nil task and no error", task, err)
	}
	want := `<p>Hello</p><figure class="rte-figure" contenteditable="false">` +
		`<img src="https://x.test/a.png" alt="cat" class="rte-img">` +
		`<figcaption class="rte-caption">cat</figcaption></figure><p><br></p>`
	if got := f.surface.Markup(); got != want {
		t.Fatalf("markup = %q, want %q", got, want)
	}
	if f.calls != 1 {
		t.Fatalf("change calls = %d, want 1", f.calls)
	}
	if d.State() != Closed || f.tracker.Held() || !f.surface.Focused() {
		t.Fatalf("state=%v held=%v focused=%v after insert", d.State(), f.tracker.Held(), f.surface.Focused())
	}
}

func TestImageConfirmEmptyURL(t *testing.T) {
	f := newFixture(t, "<p>Hello</p>", document.Pos{})
	d := NewImage(f.surface, f.tracker, nil, 0)
	_ = d.Open()
	d.SetURL("   ")
	if d.CanConfirm() {
		t.Fatal("CanConfirm with a blank url")
	}
	if _, err := d.Confirm(context.Background()); !errors.Is(err, ErrEmptyURL) {
		t.Fatalf("Confirm err = %v, want ErrEmptyURL", err)
	}
	if d.State() != Open || f.calls != 0 {
		t.Fatalf("state=%v calls=%d, want open and untouched", d.State(), f.calls)
	}
}

func TestSelectFileRejectsLocally(t *testing.T) {
	var n int32
	f := newFixture(t, "<p>Hello</p>", document.Pos{})
	d := NewImage(f.surface, f.tracker, countingUploader(&n, "u", nil), 0)
	_ = d.Open()
	d.SetMode(ModeUpload)

	big := upload.File{Name: "big.png", Type: "image/png", Size: 6 << 20}
	if err := d.SelectFile(big); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("SelectFile(6MiB) err = %v, want ErrTooLarge", err)
	}
	pdf := upload.File{Name: "a.pdf", Type: "application/pdf", Size: 10}
	if err := d.SelectFile(pdf); !errors.Is(err, ErrNotImage) {
		t.Fatalf("SelectFile(pdf) err = %v, want ErrNotImage", err)
	}
	if _, ok := d.File(); ok || d.CanConfirm() {
		t.Fatal("rejected file was kept")
	}
	exact := upload.File{Name: "ok.png", Type: "image/png", Size: MaxImageSize}
	if err := d.SelectFile(exact); err != nil {
		t.Fatalf("SelectFile(5MiB) error: %v", err)
	}
	if n != 0 {
		t.Fatalf("uploader called %d times during selection", n)
	}
}

func TestSetModeClearsInputs(t *testing.T) {
	f := newFixture(t, "<p>Hello</p>", document.Pos{})
	d := NewImage(f.surface, f.tracker, countingUploader(new(int32), "u", nil), 0)
	_ = d.Open()
	d.SetURL("https://x.test/a.png")
	d.SetMode(ModeUpload)
	if d.URL() != "" || d.Preview() != "" {
		t.Fatalf("url=%q preview=%q after switching to upload", d.URL(), d.Preview())
	}
	_ = d.SelectFile(png)
	d.SetMode(ModeURL)
	if _, ok := d.File(); ok || d.Preview() != "" {
		t.Fatal("file or preview kept after switching to url")
	}
}

func TestUploadSuccess(t *testing.T) {
	var n int32
	f := newFixture(t, "<p>Hello</p>", document.Pos{Offset: 5})
	d := NewImage(f.surface, f.tracker, countingUploader(&n, "https://cdn.test/a.png\n", nil), time.Second)
	_ = d.Open()
	f.surface.SetSelection(document.Caret(document.Pos{}))
	d.SetMode(ModeUpload)
	if err := d.SelectFile(png); err != nil {
		t.Fatalf("SelectFile error: %v", err)
	}
	task, err := d.Confirm(context.Background())
	if err != nil || task == nil {
		t.Fatalf("Confirm = %v, %v; want a task", task, err)
	}
	if d.State() != Submitting || d.CanConfirm() {
		t.Fatalf("state=%v canConfirm=%v while uploading", d.State(), d.CanConfirm())
	}
	if _, err := d.Confirm(context.Background()); !errors.Is(err, ErrSubmitting) {
		t.Fatalf("second Confirm err = %v, want ErrSubmitting", err)
	}
	<-task.Done()
	if err := d.Finish(task); err != nil {
		t.Fatalf("Finish error: %v", err)
	}
	if !strings.HasPrefix(f.surface.Markup(), `<p>Hello</p><figure class="rte-figure" contenteditable="false"><img src="https://cdn.test/a.png" alt="" class="rte-img">`) {
		t.Fatalf("markup = %q, want the uploaded image", f.surface.Markup())
	}
	if n != 1 || d.State() != Closed {
		t.Fatalf("uploads=%d state=%v", n, d.State())
	}
}

func TestUploadFailureReturnsToOpen(t *testing.T) {
	f := newFixture(t, "<p>Hello</p>", document.Pos{})
	d := NewImage(f.surface, f.tracker, countingUploader(new(int32), "", errors.New("boom")), time.Second)
	_ = d.Open()
	d.SetMode(ModeUpload)
	_ = d.SelectFile(png)
	task, _ := d.Confirm(context.Background())
	err := d.Finish(task)
	if !errors.Is(err, ErrUploadFailed) || !errors.Is(d.Err(), ErrUploadFailed) {
		t.Fatalf("Finish err = %v, want ErrUploadFailed", err)
	}
	if d.State() != Open || f.calls != 0 || f.surface.Markup() != "<p>Hello</p>" {
		t.Fatalf("state=%v calls=%d markup=%q", d.State(), f.calls, f.surface.Markup())
	}
	if !d.CanConfirm() {
		t.Fatal("cannot retry after a failed upload")
	}
}

func TestUploadTimeout(t *testing.T) {
	slow := upload.Func(func(ctx context.Context, _ upload.File) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	f := newFixture(t, "<p>Hello</p>", document.Pos{})
	d := NewImage(f.surface, f.tracker, slow, 20*time.Millisecond)
	_ = d.Open()
	d.SetMode(ModeUpload)
	_ = d.SelectFile(png)
	task, _ := d.Confirm(context.Background())
	if err := d.Finish(task); !errors.Is(err, ErrUploadTimeout) {
		t.Fatalf("Finish err = %v, want ErrUploadTimeout", err)
	}
	if d.State() != Open || f.calls != 0 {
		t.Fatalf("state=%v calls=%d after timeout", d.State(), f.calls)
	}
}

func TestUploadTimeoutIgnoresDeafUploader(t *testing.T) {
	hang := make(chan struct{})
	defer close(hang)
	deaf := upload.Func(func(context.Context, upload.File) (string, error) {
		<-hang
		return "https://late.test/a.png", nil
	})
	f := newFixture(t, "<p>Hello</p>", document.Pos{})
	d := NewImage(f.surface, f.tracker, deaf, 20*time.Millisecond)
	_ = d.Open()
	d.SetMode(ModeUpload)
	_ = d.SelectFile(png)
	task, _ := d.Confirm(context.Background())
	select {
	case <-task.Done():
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("task not done after the timeout; state=%v", d.State())
	}
	if err := d.Finish(task); !errors.Is(err, ErrUploadTimeout) {
		t.Fatalf("Finish err = %v, want ErrUploadTimeout", err)
	}
	if d.State() != Open || f.calls != 0 {
		t.Fatalf("state=%v calls=%d after timeout", d.State(), f.calls)
	}
}

func TestCancelDropsInFlightUpload(t *testing.T) {
	stopped := make(chan struct{})
	slow := upload.Func(func(ctx context.Context, _ upload.File) (string, error) {
		<-ctx.Done()
		close(stopped)
		return "https://late.test/a.png", nil
	})
	f := newFixture(t, "<p>Hello</p>", document.Pos{})
	d := NewImage(f.surface, f.tracker, slow, time.Minute)
	_ = d.Open()
	d.SetMode(ModeUpload)
	_ = d.SelectFile(png)
	task, _ := d.Confirm(context.Background())
	d.Cancel()
	<-task.Done()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("upload context was not cancelled")
	}
	if err := d.Finish(task); err != nil {
		t.Fatalf("Finish(stale) error: %v", err)
	}
	if f.calls != 0 || d.State() != Closed || f.tracker.Held() {
		t.Fatalf("calls=%d state=%v held=%v after cancel", f.calls, d.State(), f.tracker.Held())
	}
}

func TestSecondDialogIsBusy(t *testing.T) {
	f := newFixture(t, "<p>Hello</p>", document.Pos{})
	img := NewImage(f.surface, f.tracker, nil, 0)
	link := NewLink(f.surface, f.tracker)
	if err := img.Open(); err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if err := link.Open(); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Open err = %v, want ErrBusy", err)
	}
	img.Cancel()
	if err := link.Open(); err != nil {
		t.Fatalf("Open after cancel error: %v", err)
	}
}

func TestLinkDialog(t *testing.T) {
	f := newFixture(t, "<p>Hello</p>", document.Pos{Offset: 5})
	d := NewLink(f.surface, f.tracker)
	if err := d.Confirm(); !errors.Is(err, ErrNotOpen) {
		t.Fatalf("Confirm on closed dialog err = %v, want ErrNotOpen", err)
	}
	_ = d.Open()
	if d.URL() != LinkPlaceholder || d.CanConfirm() {
		t.Fatalf("url = %q canConfirm=%v, want placeholder and disabled", d.URL(), d.CanConfirm())
	}
	d.SetURL("")
	if d.CanConfirm() {
		t.Fatal("CanConfirm with empty url")
	}
	d.SetURL("https://go.dev")
	if err := d.Confirm(); err != nil {
		t.Fatalf("Confirm error: %v", err)
	}
	want := `<p>Hello<a href="https://go.dev" target="_blank" rel="noopener noreferrer">https://go.dev</a></p>`
	if got := f.surface.Markup(); got != want {
		t.Fatalf("markup = %q, want %q", got, want)
	}
}

func TestLinkCancelLeavesDocument(t *testing.T) {
	f := newFixture(t, "<p>Hello</p>", document.Pos{Offset: 2})
	d := NewLink(f.surface, f.tracker)
	_ = d.Open()
	d.SetURL("https://go.dev")
	d.SetText("go")
	d.Cancel()
	if f.calls != 0 || f.surface.Markup() != "<p>Hello</p>" || f.tracker.Held() {
		t.Fatalf("cancel had effects: calls=%d markup=%q", f.calls, f.surface.Markup())
	}
	if f.surface.Selection() != document.Caret(document.Pos{Offset: 2}) {
		t.Fatalf("selection = %+v, want untouched", f.surface.Selection())
	}
}
