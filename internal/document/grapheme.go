package document

import (
	"unicode"

	"github.com/rivo/uniseg"
)

// graphemeStops returns the rune offsets of every grapheme cluster boundary
// in text, including 0 and the rune length.
func graphemeStops(text string) []int {
	stops := []int{0}
	if text == "" {
		return stops
	}
	g := uniseg.NewGraphemes(text)
	n := 0
	for g.Next() {
		n += len(g.Runes())
		stops = append(stops, n)
	}
	return stops
}

// PrevGrapheme returns the offset of the grapheme boundary before offset.
func PrevGrapheme(text string, offset int) int {
	stops := graphemeStops(text)
	prev := 0
	for _, s := range stops {
		if s >= offset {
			break
		}
		prev = s
	}
	return prev
}

// NextGrapheme returns the offset of the grapheme boundary after offset.
func NextGrapheme(text string, offset int) int {
	stops := graphemeStops(text)
	for _, s := range stops {
		if s > offset {
			return s
		}
	}
	return stops[len(stops)-1]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// PrevWord returns the offset of the start of the word before offset.
func PrevWord(text string, offset int) int {
	rs := []rune(text)
	if offset > len(rs) {
		offset = len(rs)
	}
	pos := offset
	for pos > 0 && !isWordRune(rs[pos-1]) {
		pos--
	}
	for pos > 0 && isWordRune(rs[pos-1]) {
		pos--
	}
	return pos
}

// NextWord returns the offset of the end of the word after offset.
func NextWord(text string, offset int) int {
	rs := []rune(text)
	pos := offset
	if pos < 0 {
		pos = 0
	}
	for pos < len(rs) && !isWordRune(rs[pos]) {
		pos++
	}
	for pos < len(rs) && isWordRune(rs[pos]) {
		pos++
	}
	return pos
}
