package markup

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	tshtml "github.com/smacker/go-tree-sitter/html"
)

// Span is a highlighted range of one source line. Columns are rune offsets;
// EndCol is exclusive.
type Span struct {
	StartCol int
	EndCol   int
	Kind     string
}

const highlightQuery = `
(tag_name) @tag
(attribute_name) @attribute
(attribute_value) @string
(quoted_attribute_value) @string
(comment) @comment
(doctype) @comment
["<" ">" "</" "/>"] @punctuation
"=" @operator
`

var (
	queryOnce sync.Once
	query     *sitter.Query
)

func highlightsQuery() *sitter.Query {
	queryOnce.Do(func() {
		q, err := sitter.NewQuery([]byte(highlightQuery), tshtml.GetLanguage())
		if err == nil {
			query = q
		}
	})
	return query
}

// Highlights returns the syntax spans of source between startLine and endLine
// inclusive, keyed by line.
func Highlights(source string, startLine, endLine int) map[int][]Span {
	if startLine < 0 || endLine < startLine {
		return nil
	}
	q := highlightsQuery()
	if q == nil {
		return nil
	}
	src := []byte(source)
	tree, err := parseTree(src)
	if err != nil {
		return nil
	}
	lines := strings.Split(source, "\n")

	cursor := sitter.NewQueryCursor()
	defer cursor.Close()
	cursor.SetPointRange(
		sitter.Point{Row: uint32(startLine), Column: 0},
		sitter.Point{Row: uint32(endLine + 1), Column: 0},
	)
	cursor.Exec(q, tree.RootNode())

	out := make(map[int][]Span)
	for {
		match, ok := cursor.NextMatch()
		if !ok {
			break
		}
		for _, capture := range match.Captures {
			kind := q.CaptureNameForId(capture.Index)
			start := capture.Node.StartPoint()
			end := capture.Node.EndPoint()
			for row := int(start.Row); row <= int(end.Row); row++ {
				if row < startLine || row > endLine || row >= len(lines) {
					continue
				}
				startCol, endCol := 0, math.MaxInt32
				if row == int(start.Row) {
					startCol = runeCol(lines[row], int(start.Column))
				}
				if row == int(end.Row) {
					endCol = runeCol(lines[row], int(end.Column))
				}
				if endCol <= startCol {
					continue
				}
				out[row] = append(out[row], Span{StartCol: startCol, EndCol: endCol, Kind: kind})
			}
		}
	}
	return out
}

func runeCol(line string, byteCol int) int {
	if byteCol > len(line) {
		byteCol = len(line)
	}
	return utf8.RuneCountInString(line[:byteCol])
}
