// Package bulletinpdf renders synthetic daily retail price range bulletins.
// Every word is placed at an explicit position so the extractor sees the
// same geometry a real bulletin has: market names on the left and one
// left-aligned cell per commodity column.
package bulletinpdf

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"
)

// Layout positions in points, origin top-left.
const (
	MarketX      = 30.0
	FirstColumnX = 250.0
	ColumnStep   = 110.0

	titleY     = 50.0
	dateY      = 68.0
	unitY      = 90.0
	headerY    = 120.0
	headerStep = 10.0
	rowStep    = 14.0

	fontSize = 8.0
)

// Column is one commodity column. Header holds the label as printed, one
// entry per header line.
type Column struct {
	Header []string
}

// Row is one market line. Cells align with the bulletin's columns; an
// empty cell is left blank.
type Row struct {
	Market string
	Cells  []string
}

// Bulletin describes a document to render.
type Bulletin struct {
	Title   string
	Date    string
	Unit    string
	Columns []Column
	Rows    []Row
	// RowsPerPage splits rows over several pages, each repeating the
	// header. Zero puts every row on one page.
	RowsPerPage int
}

// Sample returns a small three-column bulletin from the 2025 family.
func Sample() Bulletin {
	return Bulletin{
		Title: "DAILY RETAIL PRICE RANGE",
		Date:  "December 22, 2025",
		Unit:  "PHP/KG",
		Columns: []Column{
			{Header: []string{"WELL-MILLED", "RICE (LOCAL)"}},
			{Header: []string{"EGG", "(MEDIUM)"}},
			{Header: []string{"REFINED", "SUGAR*"}},
		},
		Rows: []Row{
			{Market: "Agora Public Market/San Juan", Cells: []string{"45.00", "8.50", "NOT AVAILABLE"}},
			{Market: "Commonwealth Market", Cells: []string{"43.00-46.00", "8.00", "82.00"}},
			{Market: "Mega-Q-Mart", Cells: []string{"44.00", "8.75-9.00", "80.00"}},
		},
	}
}

// Write renders b as PDF to w.
func Write(w io.Writer, b Bulletin) error {
	if len(b.Columns) == 0 {
		return fmt.Errorf("bulletin has no columns")
	}

	doc := fpdf.New("L", "pt", "A4", "")
	doc.SetCreator("pricebulletin", true)
	if b.Title != "" {
		doc.SetTitle(b.Title, true)
	}

	pages := paginate(b.Rows, b.RowsPerPage)
	for i, rows := range pages {
		doc.AddPage()
		if i == 0 {
			writePreamble(doc, b)
		}
		y := writeHeader(doc, b.Columns)
		for _, r := range rows {
			writeWords(doc, MarketX, y, r.Market)
			for c, cell := range r.Cells {
				if c >= len(b.Columns) {
					break
				}
				writeWords(doc, columnX(c), y, cell)
			}
			y += rowStep
		}
	}

	if err := doc.Output(w); err != nil {
		return fmt.Errorf("render bulletin: %w", err)
	}
	return nil
}

// Bytes renders b in memory.
func Bytes(b Bulletin) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, b); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile renders b to path.
func WriteFile(path string, b Bulletin) error {
	data, err := Bytes(b)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func columnX(i int) float64 {
	return FirstColumnX + float64(i)*ColumnStep
}

func paginate(rows []Row, per int) [][]Row {
	if per <= 0 || len(rows) <= per {
		return [][]Row{rows}
	}
	var pages [][]Row
	for len(rows) > 0 {
		n := min(per, len(rows))
		pages = append(pages, rows[:n])
		rows = rows[n:]
	}
	return pages
}

func writePreamble(doc *fpdf.Fpdf, b Bulletin) {
	doc.SetFont("Helvetica", "B", 12)
	writeWords(doc, MarketX, titleY, b.Title)
	doc.SetFont("Helvetica", "", 10)
	writeWords(doc, MarketX, dateY, b.Date)
	if b.Unit != "" {
		writeWords(doc, MarketX, unitY, fmt.Sprintf("COMMODITY (%s)", b.Unit))
	}
}

// writeHeader writes the header lines and returns the baseline of the
// first data row.
func writeHeader(doc *fpdf.Fpdf, cols []Column) float64 {
	doc.SetFont("Helvetica", "B", fontSize)
	lines := 0
	for _, c := range cols {
		lines = max(lines, len(c.Header))
	}
	lines = max(lines, 1)

	writeWords(doc, MarketX, headerY, "MARKET")
	for i, c := range cols {
		for l, text := range c.Header {
			writeWords(doc, columnX(i), headerY+float64(l)*headerStep, text)
		}
	}

	doc.SetFont("Helvetica", "", fontSize)
	return headerY + float64(lines-1)*headerStep + 2*rowStep
}

// writeWords places each word of text separately so word positions do not
// depend on how a reader decodes glyph widths.
func writeWords(doc *fpdf.Fpdf, x, y float64, text string) {
	space := doc.GetStringWidth(" ")
	for _, word := range strings.Fields(text) {
		doc.Text(x, y, word)
		x += doc.GetStringWidth(word) + space
	}
}
