package ui

import (
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/rtedit/internal/config"
)

type styles struct {
	main           tcell.Style
	toolbar        tcell.Style
	buttonActive   tcell.Style
	buttonDisabled tcell.Style
	status         tcell.Style
	command        tcell.Style
	selection      tcell.Style
	placeholder    tcell.Style
	heading        tcell.Style
	quote          tcell.Style
	link           tcell.Style
	rule           tcell.Style
	figure         tcell.Style
	dialog         tcell.Style
	dialogBorder   tcell.Style
	err            tcell.Style
	syntax         map[string]tcell.Style
}

func newStyles(t config.Theme) styles {
	bg := parseColor(t.Background, tcell.ColorDefault)
	fg := parseColor(t.Foreground, tcell.ColorDefault)
	base := tcell.StyleDefault.Background(bg).Foreground(fg)
	on := func(fgName string, bgColor tcell.Color) tcell.Style {
		return tcell.StyleDefault.Background(bgColor).Foreground(parseColor(fgName, fg))
	}
	toolbarBg := parseColor(t.ToolbarBackground, bg)
	dialogBg := parseColor(t.DialogBackground, bg)
	st := styles{
		main:           base,
		toolbar:        on(t.ToolbarForeground, toolbarBg),
		buttonActive:   on(t.ButtonActiveForeground, parseColor(t.ButtonActiveBackground, toolbarBg)).Bold(true),
		buttonDisabled: on(t.ButtonDisabledForeground, toolbarBg),
		status:         on(t.StatuslineForeground, parseColor(t.StatuslineBackground, bg)),
		command:        on(t.CommandlineForeground, parseColor(t.CommandlineBackground, bg)),
		selection:      on(t.SelectionForeground, parseColor(t.SelectionBackground, bg)),
		placeholder:    on(t.PlaceholderForeground, bg).Italic(true),
		heading:        on(t.HeadingForeground, bg).Bold(true),
		quote:          on(t.QuoteForeground, bg).Italic(true),
		link:           on(t.LinkForeground, bg).Underline(true),
		rule:           on(t.RuleForeground, bg),
		figure:         on(t.FigureForeground, bg),
		dialog:         on(t.DialogForeground, dialogBg),
		dialogBorder:   on(t.DialogBorderForeground, dialogBg),
		err:            on(t.ErrorForeground, dialogBg),
	}
	st.syntax = map[string]tcell.Style{
		"tag":         on(t.SyntaxTag, bg),
		"attribute":   on(t.SyntaxAttribute, bg),
		"string":      on(t.SyntaxString, bg),
		"comment":     on(t.SyntaxComment, bg).Italic(true),
		"punctuation": on(t.SyntaxPunctuation, bg),
		"operator":    on(t.SyntaxOperator, bg),
	}
	return st
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return tcell.NewHexColor(int32(v))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
