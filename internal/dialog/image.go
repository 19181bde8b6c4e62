package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kobzarvs/rtedit/internal/logger"
	"github.com/kobzarvs/rtedit/internal/markup"
	"github.com/kobzarvs/rtedit/internal/selection"
	"github.com/kobzarvs/rtedit/internal/upload"
)

const (
	MaxImageSize         = 5 << 20
	DefaultUploadTimeout = 30 * time.Second
)

type Mode int

const (
	ModeURL Mode = iota
	ModeUpload
)

func (m Mode) String() string {
	if m == ModeUpload {
		return "upload"
	}
	return "url"
}

// Upload is an upload running in the background. The owner waits on Done
// and hands the task back to ImageDialog.Finish.
type Upload struct {
	done   chan struct{}
	url    string
	err    error
	cancel context.CancelFunc
}

func (u *Upload) Done() <-chan struct{} {
	return u.done
}

// Result returns the uploaded URL or the error. Valid after Done is closed.
func (u *Upload) Result() (string, error) {
	return u.url, u.err
}

type ImageDialog struct {
	base
	uploader upload.Uploader
	timeout  time.Duration

	mode    Mode
	url     string
	alt     string
	file    *upload.File
	preview string
	task    *Upload
}

// NewImage returns an image dialog. A nil uploader disables upload mode.
func NewImage(s Surface, t *selection.Tracker, u upload.Uploader, timeout time.Duration) *ImageDialog {
	if timeout <= 0 {
		timeout = DefaultUploadTimeout
	}
	return &ImageDialog{
		base:     base{surface: s, tracker: t},
		uploader: u,
		timeout:  timeout,
	}
}

// Open captures the selection and resets the dialog to URL mode.
func (d *ImageDialog) Open() error {
	if d.state != Closed {
		return nil
	}
	if err := d.open("image"); err != nil {
		return err
	}
	d.reset()
	return nil
}

func (d *ImageDialog) reset() {
	d.mode = ModeURL
	d.url = ""
	d.alt = ""
	d.file = nil
	d.preview = ""
	d.task = nil
}

func (d *ImageDialog) Mode() Mode      { return d.mode }
func (d *ImageDialog) URL() string     { return d.url }
func (d *ImageDialog) Alt() string     { return d.alt }
func (d *ImageDialog) Preview() string { return d.preview }
func (d *ImageDialog) SetAlt(v string) { d.alt = v }

// CanUpload reports whether upload mode is available.
func (d *ImageDialog) CanUpload() bool {
	return d.uploader != nil
}

// File returns the selected file, if any.
func (d *ImageDialog) File() (upload.File, bool) {
	if d.file == nil {
		return upload.File{}, false
	}
	return *d.file, true
}

// SetMode switches between URL and upload input. Switching clears the URL,
// the selected file and the preview.
func (d *ImageDialog) SetMode(m Mode) {
	if d.state == Submitting || m == d.mode {
		return
	}
	d.mode = m
	d.url = ""
	d.file = nil
	d.preview = ""
	d.err = nil
}

func (d *ImageDialog) SetURL(v string) {
	if d.state == Submitting {
		return
	}
	d.url = v
	d.preview = v
}

// SelectFile validates f locally. Rejected files leave the previous choice
// in place and never reach the uploader.
func (d *ImageDialog) SelectFile(f upload.File) error {
	if err := d.ready(); err != nil {
		return err
	}
	if !f.IsImage() {
		d.err = ErrNotImage
		return ErrNotImage
	}
	if f.Size > MaxImageSize {
		d.err = ErrTooLarge
		return ErrTooLarge
	}
	d.file = &f
	d.preview = f.Path
	d.err = nil
	return nil
}

func (d *ImageDialog) CanConfirm() bool {
	if d.state != Open {
		return false
	}
	if d.mode == ModeUpload {
		return d.file != nil && d.uploader != nil
	}
	return strings.TrimSpace(d.url) != ""
}

// Confirm inserts a URL image right away and returns nil. In upload mode it
// starts the upload and returns the task; the dialog stays submitting until
// Finish is called with it.
func (d *ImageDialog) Confirm(ctx context.Context) (*Upload, error) {
	if err := d.ready(); err != nil {
		return nil, err
	}
	if d.mode == ModeURL {
		u := strings.TrimSpace(d.url)
		if u == "" {
			d.err = ErrEmptyURL
			return nil, ErrEmptyURL
		}
		return nil, d.insertImage(u)
	}
	if d.file == nil {
		d.err = ErrNoFile
		return nil, ErrNoFile
	}
	if d.uploader == nil {
		d.err = fmt.Errorf("%w: no uploader configured", ErrUploadFailed)
		return nil, d.err
	}
	d.task = d.start(ctx, *d.file)
	d.state = Submitting
	d.err = nil
	return d.task, nil
}

func (d *ImageDialog) start(parent context.Context, f upload.File) *Upload {
	ctx, cancel := context.WithTimeout(parent, d.timeout)
	task := &Upload{done: make(chan struct{}), cancel: cancel}
	logger.Info("upload started", "file", f.Name, "size", f.Size, "timeout", d.timeout)
	type result struct {
		url string
		err error
	}
	// Holds one result; a late one is dropped.
	results := make(chan result, 1)
	go func() {
		u, err := d.uploader.Upload(ctx, f)
		results <- result{u, err}
	}()
	go func() {
		defer close(task.done)
		defer cancel()
		select {
		case r := <-results:
			switch {
			case ctx.Err() != nil:
				task.err = ctxErr(ctx)
			case r.err != nil:
				task.err = r.err
			default:
				task.url = strings.TrimSpace(r.url)
			}
		case <-ctx.Done():
			task.err = ctxErr(ctx)
		}
	}()
	return task
}

func ctxErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrUploadTimeout
	}
	return ctx.Err()
}

// Finish applies the result of task. It blocks until the task is done.
// Results of a task that was cancelled or replaced are ignored.
func (d *ImageDialog) Finish(task *Upload) error {
	if task == nil || task != d.task || d.state != Submitting {
		logger.Debug("ignored stale upload result")
		return nil
	}
	<-task.Done()
	d.task = nil
	u, err := task.Result()
	if err == nil && u == "" {
		err = errors.New("empty url")
	}
	if err != nil {
		d.state = Open
		if errors.Is(err, ErrUploadTimeout) {
			d.err = ErrUploadTimeout
		} else {
			d.err = fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		logger.Warn("upload failed", "error", err)
		return d.err
	}
	logger.Info("upload finished", "url", u)
	return d.insertImage(u)
}

func (d *ImageDialog) insertImage(src string) error {
	alt := strings.TrimSpace(d.alt)
	d.reset()
	return d.insert(markup.ImageFragment(src, alt))
}

// Cancel closes the dialog without touching the document. An upload in
// flight is cancelled and its result ignored.
func (d *ImageDialog) Cancel() {
	if d.task != nil {
		d.task.cancel()
	}
	d.reset()
	d.discard()
}
