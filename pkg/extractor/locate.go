package extractor

import (
	"regexp"
	"strings"
)

// yearPattern marks title and date lines, which may mention "market" too.
var yearPattern = regexp.MustCompile(`\b\d{4}\b`)

// findHeader returns the index of the first line that names the table
// header: it holds a "MARKET" token and is not a title, note or date line.
func findHeader(lines []Line) (int, bool) {
	for i, line := range lines {
		if !hasMarketToken(line) {
			continue
		}
		text := strings.ToUpper(line.Text())
		if strings.Contains(text, "RETAIL PRICE RANGE") {
			continue
		}
		if strings.HasPrefix(text, "NOTE") {
			continue
		}
		if yearPattern.MatchString(text) {
			continue
		}
		return i, true
	}
	return -1, false
}

func hasMarketToken(line Line) bool {
	for _, t := range line {
		if strings.EqualFold(t.Text, "MARKET") {
			return true
		}
	}
	return false
}

// findDataStart returns the index of the first line at or after from that
// carries a value token.
func findDataStart(lines []Line, from int) (int, bool) {
	for i := from; i < len(lines); i++ {
		if lines[i].hasValue() {
			return i, true
		}
	}
	return -1, false
}
