package parser

import (
	"bytes"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"
)

var ErrReportHeaderNotFound = errors.New("report header row not found")

// PDFExtractor rebuilds table rows from positioned PDF text. Column
// boundaries come from the header row's label positions and are reused on
// every later page.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractTables implements TableExtractor. Rows above the header on the page
// that carries it are dropped.
func (e *PDFExtractor) ExtractTables(data []byte) (tables [][][]string, err error) {
	// The reader panics on some corrupt streams
	defer func() {
		if r := recover(); r != nil {
			tables, err = nil, fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	var columns []float64
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		var table [][]string
		for _, texts := range textRows(page.Content().Text) {
			if columns == nil {
				if cols, ok := headerColumns(texts); ok {
					columns = cols
					table = append(table, reportHeader[:])
				}
				continue
			}
			table = append(table, bucketRow(texts, columns))
		}
		tables = append(tables, table)
	}

	if columns == nil {
		return nil, ErrReportHeaderNotFound
	}
	return tables, nil
}

// textRows groups glyphs into lines by baseline, top of the page first, each
// line ordered left to right. Glyphs within a fraction of the font size of a
// line's baseline belong to it.
func textRows(texts []pdf.Text) [][]pdf.Text {
	glyphs := make([]pdf.Text, 0, len(texts))
	for _, t := range texts {
		if t.S == "" || t.S == "\n" {
			continue
		}
		glyphs = append(glyphs, t)
	}
	sort.SliceStable(glyphs, func(a, b int) bool { return glyphs[a].Y > glyphs[b].Y })

	var rows [][]pdf.Text
	var baseline float64
	for _, g := range glyphs {
		if len(rows) > 0 && baseline-g.Y <= max(1, g.FontSize*0.3) {
			rows[len(rows)-1] = append(rows[len(rows)-1], g)
			continue
		}
		rows = append(rows, []pdf.Text{g})
		baseline = g.Y
	}

	for _, row := range rows {
		sort.SliceStable(row, func(a, b int) bool { return row[a].X < row[b].X })
	}
	return rows
}

// headerColumns finds the X position of each report header label. Spaces are
// ignored since glyph-level text often omits them.
func headerColumns(texts []pdf.Text) ([]float64, bool) {
	var runes []rune
	var xs []float64
	for _, t := range texts {
		for _, r := range t.S {
			if unicode.IsSpace(r) {
				continue
			}
			runes = append(runes, unicode.ToLower(r))
			xs = append(xs, t.X)
		}
	}

	columns := make([]float64, 0, reportColumns)
	from := 0
	for _, label := range reportHeader {
		want := []rune(strings.ToLower(strings.ReplaceAll(label, " ", "")))
		at := indexRunes(runes, want, from)
		if at < 0 {
			return nil, false
		}
		columns = append(columns, xs[at])
		from = at + len(want)
	}
	return columns, true
}

func indexRunes(haystack, needle []rune, from int) int {
	for i := from; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}

// bucketRow assigns each text run to the right-most column starting at or
// before it, allowing one em of slack for centered headers.
func bucketRow(texts []pdf.Text, columns []float64) []string {
	cells := make([]strings.Builder, len(columns))
	lastEnd := make([]float64, len(columns))

	for _, t := range texts {
		col := 0
		for i, x := range columns {
			if x <= t.X+t.FontSize {
				col = i
			}
		}
		if cells[col].Len() > 0 && t.X-lastEnd[col] > t.FontSize*0.2 {
			cells[col].WriteByte(' ')
		}
		cells[col].WriteString(t.S)
		lastEnd[col] = t.X + t.W
	}

	out := make([]string, len(columns))
	for i := range cells {
		out[i] = strings.Join(strings.Fields(cells[i].String()), " ")
	}
	return out
}
