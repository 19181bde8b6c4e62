package ui

import (
	"errors"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/rtedit/internal/toolbar"
)

var builtinCommands = []string{"w", "q", "q!", "wq", "x", "source", "export", "upload"}

func (v *View) leaveCommand() {
	v.mode = ModeEdit
	v.cmd = v.cmd[:0]
	v.cmdCursor = 0
	v.historyIdx = -1
}

func (v *View) handleCommand(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		v.leaveCommand()
		return false
	case tcell.KeyEnter:
		cmd := strings.TrimSpace(string(v.cmd))
		if cmd != "" && (len(v.history) == 0 || v.history[len(v.history)-1] != cmd) {
			v.history = append(v.history, cmd)
		}
		v.leaveCommand()
		return v.execCommand(cmd)
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if v.cmdCursor > 0 {
			v.cmd = append(v.cmd[:v.cmdCursor-1], v.cmd[v.cmdCursor:]...)
			v.cmdCursor--
		} else if len(v.cmd) == 0 {
			v.leaveCommand()
		}
	case tcell.KeyDelete:
		if v.cmdCursor < len(v.cmd) {
			v.cmd = append(v.cmd[:v.cmdCursor], v.cmd[v.cmdCursor+1:]...)
		}
	case tcell.KeyLeft, tcell.KeyCtrlB:
		if v.cmdCursor > 0 {
			v.cmdCursor--
		}
	case tcell.KeyRight, tcell.KeyCtrlF:
		if v.cmdCursor < len(v.cmd) {
			v.cmdCursor++
		}
	case tcell.KeyHome, tcell.KeyCtrlA:
		v.cmdCursor = 0
	case tcell.KeyEnd, tcell.KeyCtrlE:
		v.cmdCursor = len(v.cmd)
	case tcell.KeyUp, tcell.KeyCtrlP:
		v.historyStep(-1)
	case tcell.KeyDown, tcell.KeyCtrlN:
		v.historyStep(1)
	case tcell.KeyCtrlU:
		v.cmd = v.cmd[:0]
		v.cmdCursor = 0
	case tcell.KeyCtrlK:
		v.cmd = v.cmd[:v.cmdCursor]
	case tcell.KeyCtrlW:
		i := v.cmdCursor
		for i > 0 && v.cmd[i-1] == ' ' {
			i--
		}
		for i > 0 && v.cmd[i-1] != ' ' {
			i--
		}
		v.cmd = append(v.cmd[:i], v.cmd[v.cmdCursor:]...)
		v.cmdCursor = i
	case tcell.KeyRune:
		v.insertCmd(string(ev.Rune()))
	}
	return false
}

func (v *View) insertCmd(s string) {
	rs := []rune(s)
	if len(rs) == 0 {
		return
	}
	tail := append([]rune(nil), v.cmd[v.cmdCursor:]...)
	v.cmd = append(append(v.cmd[:v.cmdCursor], rs...), tail...)
	v.cmdCursor += len(rs)
}

func (v *View) historyStep(dir int) {
	if len(v.history) == 0 {
		return
	}
	if v.historyIdx == -1 {
		if dir > 0 {
			return
		}
		v.historyIdx = len(v.history)
	}
	v.historyIdx += dir
	if v.historyIdx < 0 {
		v.historyIdx = 0
	}
	if v.historyIdx >= len(v.history) {
		v.historyIdx = -1
		v.cmd = v.cmd[:0]
		v.cmdCursor = 0
		return
	}
	v.cmd = []rune(v.history[v.historyIdx])
	v.cmdCursor = len(v.cmd)
}

// execCommand runs a command line and reports whether to quit. Toolbar
// button names work as commands too (":h2", ":ol", ":link").
func (v *View) execCommand(cmd string) bool {
	if cmd == "" {
		return false
	}
	fields := strings.Fields(cmd)
	name := fields[0]
	arg := strings.Join(fields[1:], " ")

	switch name {
	case "w":
		if err := v.Save(arg); err != nil {
			v.setStatus(err.Error())
			return false
		}
		v.setStatus("written")
		return false
	case "q":
		if v.dirty {
			v.setStatus("unsaved changes (use :q!)")
			return false
		}
		return true
	case "q!":
		return true
	case "wq", "x":
		if err := v.Save(arg); err != nil {
			v.setStatus(err.Error())
			return false
		}
		return true
	case "source":
		v.toggleSource()
		return false
	case "export":
		if arg == "" {
			v.setStatus("usage: export <file>")
			return false
		}
		if err := v.Export(arg); err != nil {
			v.setStatus(err.Error())
			return false
		}
		v.setStatus("exported " + arg)
		return false
	case "upload":
		if err := v.OpenImage(); err != nil {
			v.reportToolbarError(toolbar.Image, err)
			return false
		}
		v.setImageMode(true)
		if arg != "" {
			v.filePath = arg
		}
		return false
	}
	if err := v.tools.Exec(name); err != nil {
		if errors.Is(err, toolbar.ErrUnknownButton) {
			v.setStatus(unknownCommand(name))
		} else {
			v.reportToolbarError(name, err)
		}
		return false
	}
	v.afterEdit()
	return false
}

func unknownCommand(name string) string {
	msg := "unknown command: " + name
	if s := suggest(name); s != "" {
		msg += " (did you mean " + s + "?)"
	}
	return msg
}

// suggest returns the known command closest to name, or "" when nothing is
// within two edits.
func suggest(name string) string {
	known := append(append([]string(nil), builtinCommands...), toolbar.Names()...)
	sort.Strings(known)
	best, bestDist := "", 3
	for _, k := range known {
		if d := levenshtein.ComputeDistance(name, k); d < bestDist {
			best, bestDist = k, d
		}
	}
	return best
}
