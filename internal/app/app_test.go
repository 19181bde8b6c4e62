package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kobzarvs/rtedit/internal/config"
	"github.com/kobzarvs/rtedit/internal/upload"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args    []string
		want    options
		wantErr bool
	}{
		{nil, options{}, false},
		{[]string{"post.html"}, options{path: "post.html"}, false},
		{[]string{"-r", "post.html"}, options{path: "post.html", readonly: true}, false},
		{[]string{"--export", "out.html", "post.html"}, options{path: "post.html", export: "out.html"}, false},
		{[]string{"--export"}, options{}, true},
		{[]string{"--export", "out.html"}, options{}, true},
		{[]string{"a.html", "b.html"}, options{}, true},
	}
	for _, tt := range tests {
		got, err := parseArgs(tt.args)
		if (err != nil) != tt.wantErr {
			t.Fatalf("parseArgs(%q) err = %v, wantErr %v", tt.args, err, tt.wantErr)
		}
		if !tt.wantErr && got != tt.want {
			t.Fatalf("parseArgs(%q) = %+v, want %+v", tt.args, got, tt.want)
		}
	}
}

func TestNewUploader(t *testing.T) {
	cfg := config.Default()
	if _, ok := newUploader(cfg, "/tmp/post.html").(*upload.Store); !ok {
		t.Fatal("default uploader is not a media store")
	}
	cfg.Editor.UploadCommand = "curl"
	cfg.Editor.UploadArgs = []string{"-F"}
	u, ok := newUploader(cfg, "/tmp/post.html").(upload.Command)
	if !ok || u.Name != "curl" || len(u.Args) != 1 {
		t.Fatalf("uploader = %#v, want upload command", u)
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "notes.html")
	out := filepath.Join(dir, "notes.page.html")
	if err := os.WriteFile(in, []byte("<h2>Title</h2>\n<p>Body</p>\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := exportFile(in, out); err != nil {
		t.Fatalf("exportFile error: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	page := string(data)
	for _, want := range []string{"<title>notes</title>", "<h2>Title</h2><p>Body</p>", "prose-rte"} {
		if !strings.Contains(page, want) {
			t.Fatalf("page missing %q:\n%s", want, page)
		}
	}
}

func TestRunExportWithoutScreen(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("RTEDIT_CONFIG_HOME", dir)
	t.Setenv("RTEDIT_LOG_FILE", filepath.Join(dir, "rtedit.log"))
	in := filepath.Join(dir, "a.html")
	out := filepath.Join(dir, "a.out.html")
	if err := os.WriteFile(in, []byte("<p>x</p>"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New([]string{"--export", out, in}).Run(); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("export not written: %v", err)
	}
}
