package extractor

import (
	"sort"
	"strings"
	"unicode"
)

// Token is a positioned text fragment from a page. Top grows downward.
type Token struct {
	Text string
	Top  float64
	X0   float64
}

// Line is a run of tokens sharing roughly the same Top, ordered by X0.
type Line []Token

// Text joins the line's tokens with single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l))
	for i, t := range l {
		parts[i] = t.Text
	}
	return strings.Join(parts, " ")
}

// hasValue reports whether any token of the line is a value token.
func (l Line) hasValue() bool {
	for _, t := range l {
		if IsValueToken(t.Text) {
			return true
		}
	}
	return false
}

// Page is the extractor's view of one PDF page: its tokens in arbitrary
// order and its full text.
type Page struct {
	Number int
	Tokens []Token
	Text   string
}

// IsValueToken reports whether text is price data: it holds a digit, or it
// is one half of the "NOT AVAILABLE" cell sentinel.
func IsValueToken(text string) bool {
	if strings.IndexFunc(text, unicode.IsDigit) >= 0 {
		return true
	}
	return strings.EqualFold(text, "NOT") || strings.EqualFold(text, "AVAILABLE")
}

// GroupLines clusters tokens into visual lines. Tokens are sorted by
// (Top, X0); a new line starts whenever a token's Top differs from the
// Top of the current line's first token by more than tolerance.
func GroupLines(tokens []Token, tolerance float64) []Line {
	if len(tokens) == 0 {
		return nil
	}

	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Top != sorted[j].Top {
			return sorted[i].Top < sorted[j].Top
		}
		return sorted[i].X0 < sorted[j].X0
	})

	var lines []Line
	for _, tok := range sorted {
		if len(lines) == 0 || abs(tok.Top-lines[len(lines)-1][0].Top) > tolerance {
			lines = append(lines, Line{tok})
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], tok)
	}

	for _, line := range lines {
		sort.SliceStable(line, func(i, j int) bool {
			return line[i].X0 < line[j].X0
		})
	}
	return lines
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
