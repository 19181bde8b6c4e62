package ui

import (
	"errors"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/rtedit/internal/dialog"
	"github.com/kobzarvs/rtedit/internal/logger"
	"github.com/kobzarvs/rtedit/internal/upload"
)

func (v *View) handleDialogKey(ev *tcell.EventKey) {
	if v.mode == ModeImage && v.image.State() == dialog.Submitting {
		if ev.Key() == tcell.KeyEscape {
			v.cancelDialog()
			v.setStatus("upload cancelled")
		}
		return
	}
	switch keyString(ev) {
	case "ctrl+t":
		v.toggleImageMode()
		return
	case "ctrl+u":
		v.setFieldValue("")
		return
	}
	switch ev.Key() {
	case tcell.KeyEscape:
		v.cancelDialog()
	case tcell.KeyTab, tcell.KeyBacktab, tcell.KeyDown, tcell.KeyUp:
		v.field = 1 - v.field
	case tcell.KeyF2:
		v.toggleImageMode()
	case tcell.KeyEnter:
		v.confirmDialog()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		rs := []rune(v.fieldValue())
		if len(rs) > 0 {
			v.setFieldValue(string(rs[:len(rs)-1]))
		}
	case tcell.KeyRune:
		v.typeField(string(ev.Rune()))
	}
}

func (v *View) typeField(s string) {
	if s == "" {
		return
	}
	v.setFieldValue(v.fieldValue() + s)
}

func (v *View) toggleImageMode() {
	if v.mode == ModeImage {
		v.setImageMode(v.image.Mode() == dialog.ModeURL)
	}
}

// setImageMode switches the image dialog between URL and upload input.
func (v *View) setImageMode(toUpload bool) {
	if toUpload && !v.image.CanUpload() {
		v.setStatus("image upload is not configured")
		return
	}
	m := dialog.ModeURL
	if toUpload {
		m = dialog.ModeUpload
	}
	v.image.SetMode(m)
	v.filePath = ""
	v.field = 0
}

func (v *View) fieldValue() string {
	switch {
	case v.mode == ModeLink && v.field == 0:
		return v.link.URL()
	case v.mode == ModeLink:
		return v.link.Text()
	case v.field == 1:
		return v.image.Alt()
	case v.image.Mode() == dialog.ModeUpload:
		return v.filePath
	default:
		return v.image.URL()
	}
}

func (v *View) setFieldValue(s string) {
	switch {
	case v.mode == ModeLink && v.field == 0:
		v.link.SetURL(s)
	case v.mode == ModeLink:
		v.link.SetText(s)
	case v.field == 1:
		v.image.SetAlt(s)
	case v.image.Mode() == dialog.ModeUpload:
		v.filePath = s
	default:
		v.image.SetURL(s)
	}
}

func (v *View) cancelDialog() {
	if v.mode == ModeLink {
		v.link.Cancel()
	} else {
		v.image.Cancel()
		v.uploading = nil
	}
	v.filePath = ""
	v.mode = ModeEdit
	v.afterEdit()
}

func (v *View) confirmDialog() {
	if v.mode == ModeLink {
		if err := v.link.Confirm(); err != nil {
			return
		}
		v.closeDialog("link inserted")
		return
	}
	if v.image.Mode() == dialog.ModeUpload && v.filePath != "" {
		f, err := upload.FileFromPath(v.filePath)
		if err != nil {
			v.setStatus(err.Error())
			return
		}
		if err := v.image.SelectFile(f); err != nil {
			return
		}
	}
	task, err := v.image.Confirm(v.ctx)
	if err != nil {
		return
	}
	if task == nil {
		v.closeDialog("image inserted")
		return
	}
	v.uploading = task
	v.setStatus("uploading...")
	go func() {
		<-task.Done()
		if err := v.screen.PostEvent(tcell.NewEventInterrupt(task)); err != nil {
			logger.Warn("dropped upload result", "error", err)
		}
	}()
}

func (v *View) closeDialog(msg string) {
	v.mode = ModeEdit
	v.filePath = ""
	v.afterEdit()
	v.setStatus(msg)
}

// finishUpload applies a finished upload. Results for a dialog that was
// cancelled or reopened since are dropped.
func (v *View) finishUpload(task *dialog.Upload) {
	if task != v.uploading {
		return
	}
	v.uploading = nil
	if err := v.image.Finish(task); err != nil {
		if errors.Is(err, dialog.ErrUploadTimeout) {
			v.setStatus("upload timed out")
		} else {
			v.setStatus("upload failed")
		}
		return
	}
	v.closeDialog("image uploaded")
}

// drawDialog paints the open dialog as a box centered over the document.
func (v *View) drawDialog(w, h int) {
	var title, help string
	var labels [2]string
	var values [2]string
	var confirm bool
	var dlgErr error
	switch v.mode {
	case ModeLink:
		title = "Insert link"
		labels = [2]string{"URL", "Text"}
		values = [2]string{v.link.URL(), v.link.Text()}
		confirm = v.link.CanConfirm()
		dlgErr = v.link.Err()
		help = "Enter insert  Tab next field  Esc cancel"
	case ModeImage:
		title = "Insert image"
		labels = [2]string{"URL", "Alt"}
		values = [2]string{v.image.URL(), v.image.Alt()}
		if v.image.Mode() == dialog.ModeUpload {
			title = "Upload image"
			labels[0] = "File"
			values[0] = v.filePath
		}
		confirm = v.image.CanConfirm() || (v.image.Mode() == dialog.ModeUpload && v.filePath != "")
		dlgErr = v.image.Err()
		help = "Enter insert  Tab next field  ^T url/upload  Esc cancel"
		if v.image.State() == dialog.Submitting {
			help = "Uploading...  Esc cancel"
		}
	default:
		return
	}

	bw := w - 8
	if bw > 64 {
		bw = 64
	}
	if bw < 20 {
		bw = w
	}
	bh := 7
	if v.mode == ModeImage && v.image.Preview() != "" {
		bh++
	}
	x0 := (w - bw) / 2
	y0 := (h - bh) / 2
	if y0 < 1 {
		y0 = 1
	}
	box(v.screen, x0, y0, bw, bh, v.st.dialogBorder, v.st.dialog)
	drawText(v.screen, x0+2, y0, bw-4, " "+title+" ", v.st.dialogBorder.Bold(true))

	labelW := 6
	row := y0 + 1
	for i := range labels {
		style := v.st.dialog
		if i == v.field {
			style = style.Reverse(true)
		}
		drawText(v.screen, x0+2, row, labelW, labels[i], v.st.dialog)
		fw := bw - 4 - labelW
		val := values[i]
		fillRow(v.screen, x0+2+labelW, row, fw, style)
		drawText(v.screen, x0+2+labelW, row, fw, tail(val, fw-1), style)
		if i == v.field {
			v.screen.ShowCursor(x0+2+labelW+runewidth.StringWidth(tail(val, fw-1)), row)
		}
		row++
	}
	if v.mode == ModeImage && v.image.Preview() != "" {
		drawText(v.screen, x0+2, row, bw-4, "Preview: "+v.image.Preview(), v.st.figure.Background(dialogBg(v.st)))
		row++
	}
	if dlgErr != nil {
		drawText(v.screen, x0+2, row, bw-4, dlgErr.Error(), v.st.err)
	}
	row++
	state := "[ Insert ]"
	stateStyle := v.st.dialog.Dim(true)
	if confirm {
		stateStyle = v.st.dialog.Bold(true)
	}
	drawText(v.screen, x0+bw-2-len(state), row, len(state), state, stateStyle)
	row++
	drawText(v.screen, x0+2, row, bw-4, help, v.st.dialog.Dim(true))
}

func dialogBg(st styles) tcell.Color {
	_, bg, _ := st.dialog.Decompose()
	return bg
}
