package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestFileFromPath(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		data    []byte
		want    string
		isImage bool
	}{
		{"cat.png", pngHeader, "image/png", true},
		{"photo", pngHeader, "image/png", true},
		{"notes", []byte("just some text"), "text/plain", false},
	}
	for _, tt := range tests {
		path := writeFile(t, dir, tt.name, tt.data)
		f, err := FileFromPath(path)
		if err != nil {
			t.Fatalf("FileFromPath(%s) error: %v", tt.name, err)
		}
		if f.Type != tt.want || f.IsImage() != tt.isImage {
			t.Fatalf("%s: type = %q image=%v, want %q image=%v", tt.name, f.Type, f.IsImage(), tt.want, tt.isImage)
		}
		if f.Size != int64(len(tt.data)) || f.Name != tt.name {
			t.Fatalf("%s: file = %+v", tt.name, f)
		}
	}
	if _, err := FileFromPath(dir); err == nil {
		t.Fatal("FileFromPath(dir) succeeded, want error")
	}
}

func TestStoreCopiesIntoMediaDir(t *testing.T) {
	src := writeFile(t, t.TempDir(), "my cat.png", pngHeader)
	f, err := FileFromPath(src)
	if err != nil {
		t.Fatalf("FileFromPath error: %v", err)
	}
	media := filepath.Join(t.TempDir(), "media")
	s := NewStore(media)
	s.now = func() time.Time { return time.Unix(0, 42) }

	u, err := s.Upload(context.Background(), f)
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	target := filepath.Join(media, "42-my_cat.png")
	if !strings.HasPrefix(u, "file://") || !strings.HasSuffix(u, "/42-my_cat.png") {
		t.Fatalf("url = %q, want file URL of %s", u, target)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != string(pngHeader) {
		t.Fatalf("stored bytes differ")
	}
}

func TestStoreCancelled(t *testing.T) {
	src := writeFile(t, t.TempDir(), "a.png", pngHeader)
	media := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewStore(media).Upload(ctx, File{Name: "a.png", Path: src})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Upload err = %v, want context.Canceled", err)
	}
	entries, _ := os.ReadDir(media)
	if len(entries) != 0 {
		t.Fatalf("media dir has %d entries after cancel, want 0", len(entries))
	}
}

func TestFuncAdapter(t *testing.T) {
	var u Uploader = Func(func(_ context.Context, f File) (string, error) {
		return "https://cdn.test/" + f.Name, nil
	})
	got, err := u.Upload(context.Background(), File{Name: "a.png"})
	if err != nil || got != "https://cdn.test/a.png" {
		t.Fatalf("Upload = %q, %v", got, err)
	}
}

func helperCommand(mode string) Command {
	return Command{
		Name: os.Args[0],
		Args: []string{"-test.run=TestUploadCommandHelper", "--", mode},
	}
}

func TestCommandPrintsURL(t *testing.T) {
	t.Setenv("RTEDIT_UPLOAD_HELPER", "1")
	got, err := helperCommand("ok").Upload(context.Background(), File{Path: "/tmp/cat.png"})
	if err != nil {
		t.Fatalf("Upload error: %v", err)
	}
	if got != "https://cdn.test/cat.png" {
		t.Fatalf("url = %q, want https://cdn.test/cat.png", got)
	}
}

func TestCommandFailure(t *testing.T) {
	t.Setenv("RTEDIT_UPLOAD_HELPER", "1")
	_, err := helperCommand("fail").Upload(context.Background(), File{Path: "/tmp/cat.png"})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("Upload err = %v, want stderr message", err)
	}
	_, err = helperCommand("empty").Upload(context.Background(), File{Path: "/tmp/cat.png"})
	if !errors.Is(err, ErrNoURL) {
		t.Fatalf("Upload err = %v, want ErrNoURL", err)
	}
}

func TestCommandTimeout(t *testing.T) {
	t.Setenv("RTEDIT_UPLOAD_HELPER", "1")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err := helperCommand("hang").Upload(ctx, File{Path: "/tmp/cat.png"})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Upload err = %v, want deadline exceeded", err)
	}
}

func TestUploadCommandHelper(t *testing.T) {
	if os.Getenv("RTEDIT_UPLOAD_HELPER") != "1" {
		return
	}
	args := os.Args
	for i, a := range args {
		if a == "--" {
			args = args[i+1:]
			break
		}
	}
	if len(args) != 2 {
		os.Exit(2)
	}
	switch args[0] {
	case "ok":
		fmt.Println("uploading...")
		fmt.Println("https://cdn.test/" + filepath.Base(args[1]))
	case "fail":
		fmt.Fprintln(os.Stderr, "quota exceeded")
		os.Exit(1)
	case "empty":
	case "hang":
		time.Sleep(10 * time.Second)
	}
	os.Exit(0)
}
