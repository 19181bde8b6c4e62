package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/multierr"

	"github.com/kobzarvs/rtedit/internal/config"
	"github.com/kobzarvs/rtedit/internal/logger"
	"github.com/kobzarvs/rtedit/internal/markup"
	"github.com/kobzarvs/rtedit/internal/session"
	"github.com/kobzarvs/rtedit/internal/ui"
	"github.com/kobzarvs/rtedit/internal/upload"
)

const usage = "usage: rtedit [--readonly] [--export out.html] [file]"

// App is the top-level runtime for rtedit.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

type options struct {
	path     string
	readonly bool
	export   string
}

func parseArgs(args []string) (options, error) {
	var o options
	for i := 0; i < len(args); i++ {
		switch a := args[i]; a {
		case "--readonly", "-r":
			o.readonly = true
		case "--export":
			if i+1 >= len(args) {
				return o, errors.New(usage)
			}
			i++
			o.export = args[i]
		case "-h", "--help":
			return o, errors.New(usage)
		default:
			if o.path != "" {
				return o, errors.New(usage)
			}
			o.path = a
		}
	}
	if o.export != "" && o.path == "" {
		return o, errors.New("--export needs an input file")
	}
	return o, nil
}

func (a *App) Run() (err error) {
	opts, err := parseArgs(a.args)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Editor.Debug); err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, logger.Close()) }()

	if opts.export != "" {
		return exportFile(opts.path, opts.export)
	}

	runtime.LockOSThread()
	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	s.EnableMouse()
	s.EnablePaste()
	defer s.Fini()

	sm, err := session.NewManager()
	if err != nil {
		logger.Warn("session disabled", "error", err)
	}
	if sm != nil {
		defer func() { err = multierr.Append(err, sm.Stop()) }()
	}

	v := ui.New(s, ui.Options{
		Config:   cfg,
		Path:     opts.path,
		Uploader: newUploader(cfg, opts.path),
		Disabled: opts.readonly,
	})
	defer v.Close()

	absPath := ""
	if opts.path != "" {
		if err := v.Load(opts.path); err != nil {
			return err
		}
		if p, err := filepath.Abs(opts.path); err == nil {
			absPath = p
		}
	}
	v.Surface().Focus()
	if sm != nil && absPath != "" {
		if st, ok := sm.GetFileState(absPath); ok {
			v.Restore(st.Range(), st.ScrollY)
			v.SetSourceView(st.SourceView)
		}
	}

	v.Render()
	for {
		ev := s.PollEvent()
		if ev == nil {
			break
		}
		if v.HandleEvent(ev) {
			break
		}
		v.Render()
	}

	if sm != nil && absPath != "" {
		st := session.StateOf(v.Surface().Selection(), v.Scroll())
		st.SourceView = v.Mode() == ui.ModeSource
		sm.SetFileState(absPath, st)
	}
	return nil
}

// newUploader picks the external upload command when one is configured and
// falls back to copying into the media directory.
func newUploader(cfg config.Config, path string) upload.Uploader {
	if cfg.Editor.UploadCommand != "" {
		return upload.Command{Name: cfg.Editor.UploadCommand, Args: cfg.Editor.UploadArgs}
	}
	return upload.NewStore(cfg.MediaDir(path))
}

func exportFile(in, out string) error {
	data, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	doc, err := markup.Parse(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	title := filepath.Base(in)
	title = title[:len(title)-len(filepath.Ext(title))]
	page := markup.Page(title, markup.Serialize(doc))
	if err := os.WriteFile(out, []byte(page), 0o644); err != nil {
		return err
	}
	logger.Info("exported", "from", in, "to", out)
	return nil
}
