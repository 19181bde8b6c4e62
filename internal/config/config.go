package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Keymap maps key names ("ctrl+b", "alt+shift+left", "esc") to actions.
type Keymap map[string]string

type EditorOptions struct {
	Placeholder   string   `toml:"placeholder"`
	HistoryLimit  int      `toml:"history-limit"`
	TabWidth      int      `toml:"tab-width"`
	UploadTimeout string   `toml:"upload-timeout"`
	MediaDir      string   `toml:"media-dir"`
	UploadCommand string   `toml:"upload-command"`
	UploadArgs    []string `toml:"upload-args"`
	Debug         bool     `toml:"debug"`
}

// Timeout returns the parsed upload timeout.
func (o EditorOptions) Timeout() time.Duration {
	d, err := time.ParseDuration(o.UploadTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

type Theme struct {
	Theme                    string `toml:"theme"`
	Foreground               string `toml:"foreground"`
	Background               string `toml:"background"`
	ToolbarForeground        string `toml:"toolbar-foreground"`
	ToolbarBackground        string `toml:"toolbar-background"`
	ButtonActiveForeground   string `toml:"button-active-foreground"`
	ButtonActiveBackground   string `toml:"button-active-background"`
	ButtonDisabledForeground string `toml:"button-disabled-foreground"`
	StatuslineForeground     string `toml:"statusline-foreground"`
	StatuslineBackground     string `toml:"statusline-background"`
	CommandlineForeground    string `toml:"commandline-foreground"`
	CommandlineBackground    string `toml:"commandline-background"`
	SelectionForeground      string `toml:"selection-foreground"`
	SelectionBackground      string `toml:"selection-background"`
	PlaceholderForeground    string `toml:"placeholder-foreground"`
	HeadingForeground        string `toml:"heading-foreground"`
	QuoteForeground          string `toml:"quote-foreground"`
	LinkForeground           string `toml:"link-foreground"`
	RuleForeground           string `toml:"rule-foreground"`
	FigureForeground         string `toml:"figure-foreground"`
	DialogForeground         string `toml:"dialog-foreground"`
	DialogBackground         string `toml:"dialog-background"`
	DialogBorderForeground   string `toml:"dialog-border-foreground"`
	ErrorForeground          string `toml:"error-foreground"`
	SyntaxTag                string `toml:"syntax-tag"`
	SyntaxAttribute          string `toml:"syntax-attribute"`
	SyntaxString             string `toml:"syntax-string"`
	SyntaxComment            string `toml:"syntax-comment"`
	SyntaxPunctuation        string `toml:"syntax-punctuation"`
	SyntaxOperator           string `toml:"syntax-operator"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
	Keymap Keymap        `toml:"keymap"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			Placeholder:   "Write your content here...",
			HistoryLimit:  200,
			TabWidth:      4,
			UploadTimeout: "30s",
		},
		Theme: Theme{
			Foreground:               "#B3B1AD",
			Background:               "#0A0E14",
			ToolbarForeground:        "#B3B1AD",
			ToolbarBackground:        "#0F1419",
			ButtonActiveForeground:   "#0A0E14",
			ButtonActiveBackground:   "#59C2FF",
			ButtonDisabledForeground: "#3E4B59",
			StatuslineForeground:     "#B3B1AD",
			StatuslineBackground:     "#0F1419",
			CommandlineForeground:    "#B3B1AD",
			CommandlineBackground:    "#0F1419",
			SelectionForeground:      "#B3B1AD",
			SelectionBackground:      "#27425A",
			PlaceholderForeground:    "#5C6773",
			HeadingForeground:        "#FFD173",
			QuoteForeground:          "#5C6773",
			LinkForeground:           "#59C2FF",
			RuleForeground:           "#3E4B59",
			FigureForeground:         "#BAE67E",
			DialogForeground:         "#B3B1AD",
			DialogBackground:         "#0F1419",
			DialogBorderForeground:   "#3E4B59",
			ErrorForeground:          "#FF3333",
			SyntaxTag:                "#5CCFE6",
			SyntaxAttribute:          "#FFD173",
			SyntaxString:             "#BAE67E",
			SyntaxComment:            "#5C6773",
			SyntaxPunctuation:        "#C0C0C0",
			SyntaxOperator:           "#F29668",
		},
		Keymap: Keymap{
			"left":            "move_left",
			"right":           "move_right",
			"up":              "move_up",
			"down":            "move_down",
			"shift+left":      "select_left",
			"shift+right":     "select_right",
			"shift+up":        "select_up",
			"shift+down":      "select_down",
			"home":            "line_start",
			"end":             "line_end",
			"shift+home":      "select_line_start",
			"shift+end":       "select_line_end",
			"ctrl+home":       "doc_start",
			"ctrl+end":        "doc_end",
			"alt+left":        "word_left",
			"alt+right":       "word_right",
			"alt+shift+left":  "select_word_left",
			"alt+shift+right": "select_word_right",
			"backspace":       "backspace",
			"del":             "delete",
			"enter":           "newline",
			"tab":             "indent",
			"ctrl+a":          "select_all",
			"ctrl+b":          "bold",
			"ctrl+i":          "italic",
			"alt+i":           "italic",
			"ctrl+z":          "undo",
			"ctrl+y":          "redo",
			"alt+2":           "h2",
			"alt+3":           "h3",
			"alt+q":           "blockquote",
			"alt+u":           "ul",
			"alt+o":           "ol",
			"alt+l":           "alignLeft",
			"alt+e":           "alignCenter",
			"alt+r":           "alignRight",
			"alt+h":           "rule",
			"ctrl+k":          "link",
			"ctrl+g":          "image",
			"ctrl+c":          "copy",
			"ctrl+v":          "paste",
			"ctrl+s":          "save",
			"ctrl+q":          "quit",
			"ctrl+u":          "source",
			"esc":             "command",
		},
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}

	mergeEditor(&cfg.Editor, userCfg.Editor)
	if _, err := time.ParseDuration(cfg.Editor.UploadTimeout); err != nil {
		return cfg, fmt.Errorf("%s: upload-timeout: %w", path, err)
	}
	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)
	for k, v := range userCfg.Keymap {
		cfg.Keymap[k] = v
	}

	return cfg, nil
}

func mergeEditor(dst *EditorOptions, src EditorOptions) {
	str(&dst.Placeholder, src.Placeholder)
	str(&dst.UploadTimeout, src.UploadTimeout)
	str(&dst.MediaDir, src.MediaDir)
	str(&dst.UploadCommand, src.UploadCommand)
	if src.HistoryLimit > 0 {
		dst.HistoryLimit = src.HistoryLimit
	}
	if src.TabWidth > 0 {
		dst.TabWidth = src.TabWidth
	}
	if src.UploadArgs != nil {
		dst.UploadArgs = src.UploadArgs
	}
	if src.Debug {
		dst.Debug = true
	}
}

func mergeTheme(dst *Theme, src Theme) {
	str(&dst.Foreground, src.Foreground)
	str(&dst.Background, src.Background)
	str(&dst.ToolbarForeground, src.ToolbarForeground)
	str(&dst.ToolbarBackground, src.ToolbarBackground)
	str(&dst.ButtonActiveForeground, src.ButtonActiveForeground)
	str(&dst.ButtonActiveBackground, src.ButtonActiveBackground)
	str(&dst.ButtonDisabledForeground, src.ButtonDisabledForeground)
	str(&dst.StatuslineForeground, src.StatuslineForeground)
	str(&dst.StatuslineBackground, src.StatuslineBackground)
	str(&dst.CommandlineForeground, src.CommandlineForeground)
	str(&dst.CommandlineBackground, src.CommandlineBackground)
	str(&dst.SelectionForeground, src.SelectionForeground)
	str(&dst.SelectionBackground, src.SelectionBackground)
	str(&dst.PlaceholderForeground, src.PlaceholderForeground)
	str(&dst.HeadingForeground, src.HeadingForeground)
	str(&dst.QuoteForeground, src.QuoteForeground)
	str(&dst.LinkForeground, src.LinkForeground)
	str(&dst.RuleForeground, src.RuleForeground)
	str(&dst.FigureForeground, src.FigureForeground)
	str(&dst.DialogForeground, src.DialogForeground)
	str(&dst.DialogBackground, src.DialogBackground)
	str(&dst.DialogBorderForeground, src.DialogBorderForeground)
	str(&dst.ErrorForeground, src.ErrorForeground)
	str(&dst.SyntaxTag, src.SyntaxTag)
	str(&dst.SyntaxAttribute, src.SyntaxAttribute)
	str(&dst.SyntaxString, src.SyntaxString)
	str(&dst.SyntaxComment, src.SyntaxComment)
	str(&dst.SyntaxPunctuation, src.SyntaxPunctuation)
	str(&dst.SyntaxOperator, src.SyntaxOperator)
}

func str(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme reads theme/<name>.toml. The colors may sit at the top level or
// under a [theme] table.
func LoadTheme(name string) (Theme, error) {
	path, err := ThemePath(name)
	if err != nil {
		return Theme{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, err
	}
	var wrap struct {
		Theme *Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err == nil && wrap.Theme != nil {
		return *wrap.Theme, nil
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err != nil {
		return Theme{}, fmt.Errorf("theme %s: %w", name, err)
	}
	return t, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("RTEDIT_CONFIG_HOME"); v != "" {
		return filepath.Clean(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "rtedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "rtedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// MediaDir returns the configured media directory, defaulting to a media
// folder next to the edited file.
func (c Config) MediaDir(file string) string {
	if c.Editor.MediaDir != "" {
		return c.Editor.MediaDir
	}
	return filepath.Join(filepath.Dir(file), "media")
}
