package ui

import (
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// keyString names a key event the way keymaps spell it: modifiers in the
// order ctrl, alt, shift followed by the key ("alt+shift+left", "ctrl+b").
// Printable runes without ctrl or alt return "".
func keyString(ev *tcell.EventKey) string {
	mods := ev.Modifiers()
	if ev.Key() == tcell.KeyRune {
		r := ev.Rune()
		switch {
		case mods&tcell.ModCtrl != 0:
			return "ctrl+" + runeName(unicode.ToLower(r))
		case mods&(tcell.ModAlt|tcell.ModMeta) != 0:
			return "alt+" + runeName(r)
		}
		return ""
	}
	// Tab is also Ctrl+I
	switch ev.Key() {
	case tcell.KeyTab:
		if mods&tcell.ModShift != 0 {
			return "shift+tab"
		}
		return "tab"
	case tcell.KeyBacktab:
		return "shift+tab"
	case tcell.KeyEnter:
		return "enter"
	case tcell.KeyEscape:
		return "esc"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if mods&tcell.ModAlt != 0 {
			return "alt+backspace"
		}
		return "backspace"
	}
	if name := ctrlKeyName(ev.Key()); name != "" {
		return name
	}
	name := ""
	switch ev.Key() {
	case tcell.KeyUp:
		name = "up"
	case tcell.KeyDown:
		name = "down"
	case tcell.KeyLeft:
		name = "left"
	case tcell.KeyRight:
		name = "right"
	case tcell.KeyPgUp:
		name = "pgup"
	case tcell.KeyPgDn:
		name = "pgdn"
	case tcell.KeyHome:
		name = "home"
	case tcell.KeyEnd:
		name = "end"
	case tcell.KeyDelete:
		name = "del"
	default:
		return ""
	}
	var parts []string
	if mods&tcell.ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if mods&(tcell.ModAlt|tcell.ModMeta) != 0 {
		parts = append(parts, "alt")
	}
	if mods&tcell.ModShift != 0 {
		parts = append(parts, "shift")
	}
	return strings.Join(append(parts, name), "+")
}

func runeName(r rune) string {
	if r == ' ' {
		return "space"
	}
	return string(r)
}

func ctrlKeyName(key tcell.Key) string {
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return "ctrl+" + string(rune('a'+int(key-tcell.KeyCtrlA)))
	}
	return ""
}
