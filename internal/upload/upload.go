// Package upload holds the host side of image uploads: the file descriptor
// handed to the image dialog and the uploaders that turn a file into a URL.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/kobzarvs/rtedit/internal/logger"
)

var ErrNoURL = errors.New("upload command printed no URL")

// File describes a file picked for upload.
type File struct {
	Name string
	Path string
	Type string
	Size int64
}

// IsImage reports whether the MIME type is image/*.
func (f File) IsImage() bool {
	return strings.HasPrefix(strings.ToLower(f.Type), "image/")
}

func (f File) Open() (io.ReadCloser, error) {
	return os.Open(f.Path)
}

// FileFromPath stats path and guesses its MIME type from the extension,
// falling back to sniffing the first 512 bytes.
func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}
	f := File{Name: filepath.Base(path), Path: path, Size: info.Size()}
	f.Type = mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if f.Type == "" {
		f.Type = sniff(path)
	}
	if i := strings.IndexByte(f.Type, ';'); i >= 0 {
		f.Type = strings.TrimSpace(f.Type[:i])
	}
	return f, nil
}

func sniff(path string) string {
	fh, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer fh.Close()
	buf := make([]byte, 512)
	n, _ := io.ReadFull(fh, buf)
	return http.DetectContentType(buf[:n])
}

// Uploader stores a file and returns the URL it can be referenced by.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

// Func adapts a function to Uploader.
type Func func(ctx context.Context, f File) (string, error)

func (fn Func) Upload(ctx context.Context, f File) (string, error) {
	return fn(ctx, f)
}

// Store copies files into a media directory and returns file:// URLs.
type Store struct {
	Dir string
	now func() time.Time
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir, now: time.Now}
}

func (s *Store) Upload(ctx context.Context, f File) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	src, err := f.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := fmt.Sprintf("%d-%s", s.now().UnixNano(), cleanName(f.Name))
	target := filepath.Join(s.Dir, name)
	dst, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, &ctxReader{ctx: ctx, r: src}); err != nil {
		_ = dst.Close()
		_ = os.Remove(target)
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}
	logger.Info("stored upload", "file", f.Name, "path", target)
	return fileURL(target), nil
}

func cleanName(name string) string {
	name = filepath.Base(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "." {
		return "image"
	}
	return name
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}

func fileURL(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String()
}

// Command runs an external program with the file path appended to Args. The
// trimmed last line of its stdout is the URL.
type Command struct {
	Name string
	Args []string
}

func (c Command) Upload(ctx context.Context, f File) (string, error) {
	args := append(append([]string{}, c.Args...), f.Path)
	cmd := exec.CommandContext(ctx, c.Name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	logger.Debug("running upload command", "command", c.Name, "file", f.Path)
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("upload command: %w: %s", err, msg)
		}
		return "", fmt.Errorf("upload command: %w", err)
	}
	out := strings.TrimSpace(stdout.String())
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		out = strings.TrimSpace(out[i+1:])
	}
	if out == "" {
		return "", ErrNoURL
	}
	return out, nil
}
