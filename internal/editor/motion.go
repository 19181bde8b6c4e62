package editor

import "github.com/kobzarvs/rtedit/internal/document"

// SetSelection moves the selection to r, clamped to the document.
func (s *Surface) SetSelection(r document.Range) {
	s.moveTo(s.doc.ClampRange(r))
}

func (s *Surface) moveTo(r document.Range) {
	s.sel = r
	s.hasRange = true
	s.pending = nil
	s.typing = false
	s.SelectionChanged()
}

// move sets the focus to p, keeping the anchor when extending.
func (s *Surface) move(p document.Pos, extend bool) {
	r := document.Caret(p)
	if extend {
		r.Anchor = s.sel.Anchor
	}
	s.moveTo(r)
}

func (s *Surface) blockText(i int) string {
	if i < 0 || i >= len(s.doc.Blocks) {
		return ""
	}
	return s.doc.Blocks[i].Text()
}

func (s *Surface) MoveLeft(extend bool) {
	r := s.doc.ClampRange(s.sel)
	if !extend && !r.Collapsed() {
		start, _ := r.Ordered()
		s.move(start, false)
		return
	}
	p := r.Focus
	switch {
	case p.Offset > 0:
		p.Offset = document.PrevGrapheme(s.blockText(p.Block), p.Offset)
	case p.Block > 0:
		p.Block--
		p.Offset = s.doc.Blocks[p.Block].Len()
	}
	s.move(p, extend)
}

func (s *Surface) MoveRight(extend bool) {
	r := s.doc.ClampRange(s.sel)
	if !extend && !r.Collapsed() {
		_, end := r.Ordered()
		s.move(end, false)
		return
	}
	p := r.Focus
	switch {
	case p.Offset < s.doc.Blocks[p.Block].Len():
		p.Offset = document.NextGrapheme(s.blockText(p.Block), p.Offset)
	case p.Block < len(s.doc.Blocks)-1:
		p.Block++
		p.Offset = 0
	}
	s.move(p, extend)
}

// MoveUp moves to the previous block keeping the offset where possible.
func (s *Surface) MoveUp(extend bool) {
	p := s.doc.Clamp(s.sel.Focus)
	if p.Block == 0 {
		p.Offset = 0
	} else {
		p = s.doc.Clamp(document.Pos{Block: p.Block - 1, Offset: p.Offset})
	}
	s.move(p, extend)
}

// MoveDown moves to the next block keeping the offset where possible.
func (s *Surface) MoveDown(extend bool) {
	p := s.doc.Clamp(s.sel.Focus)
	if p.Block >= len(s.doc.Blocks)-1 {
		p.Offset = s.doc.Blocks[p.Block].Len()
	} else {
		p = s.doc.Clamp(document.Pos{Block: p.Block + 1, Offset: p.Offset})
	}
	s.move(p, extend)
}

func (s *Surface) MoveLineStart(extend bool) {
	p := s.doc.Clamp(s.sel.Focus)
	p.Offset = 0
	s.move(p, extend)
}

func (s *Surface) MoveLineEnd(extend bool) {
	p := s.doc.Clamp(s.sel.Focus)
	p.Offset = s.doc.Blocks[p.Block].Len()
	s.move(p, extend)
}

func (s *Surface) MoveWordLeft(extend bool) {
	p := s.doc.Clamp(s.sel.Focus)
	if p.Offset == 0 && p.Block > 0 {
		p.Block--
		p.Offset = s.doc.Blocks[p.Block].Len()
	} else {
		p.Offset = document.PrevWord(s.blockText(p.Block), p.Offset)
	}
	s.move(p, extend)
}

func (s *Surface) MoveWordRight(extend bool) {
	p := s.doc.Clamp(s.sel.Focus)
	if p.Offset == s.doc.Blocks[p.Block].Len() && p.Block < len(s.doc.Blocks)-1 {
		p.Block++
		p.Offset = 0
	} else {
		p.Offset = document.NextWord(s.blockText(p.Block), p.Offset)
	}
	s.move(p, extend)
}

func (s *Surface) MoveDocumentStart(extend bool) {
	s.move(document.Pos{}, extend)
}

func (s *Surface) MoveDocumentEnd(extend bool) {
	s.move(s.doc.End(), extend)
}

func (s *Surface) SelectAll() {
	s.moveTo(document.Range{Anchor: document.Pos{}, Focus: s.doc.End()})
}
