package pdf

import (
	"sort"
	"strings"
)

// groupWords turns glyphs into words, pdfplumber style: glyphs are sorted by
// (top, x0), split into lines whenever a glyph's top moves more than
// YTolerance away from the first glyph of the current line, and split into
// words on whitespace glyphs or horizontal gaps wider than XTolerance.
func groupWords(chars []CharObject, config *wordExtractionConfig) []Word {
	if len(chars) == 0 {
		return nil
	}

	var words []Word
	for _, line := range groupCharLines(chars, config.YTolerance) {
		words = append(words, wordsFromLine(line, config.XTolerance)...)
	}
	return words
}

// groupCharLines clusters glyphs into visual lines
func groupCharLines(chars []CharObject, yTolerance float64) [][]CharObject {
	sorted := make([]CharObject, len(chars))
	copy(sorted, chars)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Y0 != sorted[j].Y0 {
			return sorted[i].Y0 < sorted[j].Y0
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var lines [][]CharObject
	for _, char := range sorted {
		if len(lines) == 0 || abs(char.Y0-lines[len(lines)-1][0].Y0) > yTolerance {
			lines = append(lines, []CharObject{char})
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], char)
	}

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X0 < line[j].X0
		})
	}
	return lines
}

// wordsFromLine extracts words from a single line of characters
func wordsFromLine(lineChars []CharObject, xTolerance float64) []Word {
	var words []Word
	var current []CharObject

	flush := func() {
		if len(current) > 0 {
			words = append(words, createWord(current))
			current = nil
		}
	}

	for _, char := range lineChars {
		if char.isBlank() {
			flush()
			continue
		}
		if len(current) > 0 && char.X0-current[len(current)-1].X1 > xTolerance {
			flush()
		}
		current = append(current, char)
	}
	flush()

	return words
}

// createWord creates a Word from a group of characters
func createWord(chars []CharObject) Word {
	var text strings.Builder
	minX, minY := chars[0].X0, chars[0].Y0
	maxX, maxY := chars[0].X1, chars[0].Y1

	for _, char := range chars {
		text.WriteString(char.Text)
		minX = min(minX, char.X0)
		minY = min(minY, char.Y0)
		maxX = max(maxX, char.X1)
		maxY = max(maxY, char.Y1)
	}

	return Word{
		Text:       text.String(),
		X0:         minX,
		Y0:         minY,
		X1:         maxX,
		Y1:         maxY,
		Characters: chars,
	}
}

// layoutText joins words into lines of text. Words are already ordered
// line by line; a new line starts when a word's top leaves the tolerance
// band of the line's first word.
func layoutText(words []Word, yTolerance float64) string {
	var b strings.Builder
	lineTop := 0.0
	for i, w := range words {
		switch {
		case i == 0:
			lineTop = w.Y0
		case abs(w.Y0-lineTop) > yTolerance:
			b.WriteByte('\n')
			lineTop = w.Y0
		default:
			b.WriteByte(' ')
		}
		b.WriteString(w.Text)
	}
	return b.String()
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
