package extractor

import (
	"strings"
)

// row is one market's line of the table: the market name and, per column
// index, the tokens that fell into that column.
type row struct {
	market string
	cells  [][]string
}

// splitLine separates a line into the market-name region (left of
// boundary) and per-column value tokens.
func splitLine(line Line, centers []float64, boundary float64) (market []string, cells [][]string) {
	cells = make([][]string, len(centers))
	for _, t := range line {
		if t.X0 < boundary {
			market = append(market, t.Text)
			continue
		}
		if idx := nearestColumn(t.X0, centers); idx >= 0 {
			cells[idx] = append(cells[idx], t.Text)
		}
	}
	return market, cells
}

// foldLine advances the row loop by one line. pending is the market-name
// text carried over from preceding lines that had no values; a market
// name that wraps puts its first half on such a line. foldLine returns
// the row to emit (ok false when there is none) and the new pending text.
func foldLine(pending string, line Line, centers []float64, boundary float64) (r row, next string, ok bool) {
	text := strings.TrimSpace(line.Text())
	if text == "" {
		return row{}, pending, false
	}
	if !line.hasValue() {
		return row{}, strings.TrimSpace(pending + " " + text), false
	}

	marketTokens, cells := splitLine(line, centers, boundary)
	market := strings.TrimSpace(strings.Join(marketTokens, " "))
	if pending != "" {
		market = strings.TrimSpace(pending + " " + market)
	}
	if market == "" {
		return row{}, "", false
	}
	return row{market: market, cells: cells}, "", true
}

// extractRows walks the data lines in order and returns the market rows.
func extractRows(dataLines []Line, centers []float64, boundary float64) []row {
	var rows []row
	pending := ""
	for _, line := range dataLines {
		var (
			r  row
			ok bool
		)
		r, pending, ok = foldLine(pending, line, centers, boundary)
		if ok {
			rows = append(rows, r)
		}
	}
	return rows
}
