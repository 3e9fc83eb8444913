package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chars lays out text one glyph per rune starting at x with a fixed advance.
func chars(text string, x, top, advance float64) []CharObject {
	var out []CharObject
	for _, r := range text {
		out = append(out, CharObject{
			Text: string(r), X0: x, X1: x + advance, Y0: top, Y1: top + 8,
			Width: advance, Height: 8,
		})
		x += advance
	}
	return out
}

func texts(words []Word) []string {
	var out []string
	for _, w := range words {
		out = append(out, w.Text)
	}
	return out
}

func TestGroupWords(t *testing.T) {
	var all []CharObject
	all = append(all, chars("45.00", 250, 80.4, 4)...)
	all = append(all, chars("Agora Public", 20, 80, 4)...)
	all = append(all, chars("MARKET", 20, 60, 5)...)
	all = append(all, chars("8.50", 350, 81.9, 4)...)

	words := groupWords(all, defaultWordConfig())
	assert.Equal(t, []string{"MARKET", "Agora", "Public", "45.00", "8.50"}, texts(words))

	agora := words[1]
	assert.Equal(t, 20.0, agora.X0)
	assert.Equal(t, 40.0, agora.X1)
	assert.Equal(t, 80.0, agora.Top())
	assert.Len(t, agora.Characters, 5)
}

func TestGroupWordsGap(t *testing.T) {
	all := append(chars("NOT", 100, 50, 4), chars("AVAILABLE", 116, 50, 4)...)

	assert.Equal(t, []string{"NOT", "AVAILABLE"}, texts(groupWords(all, defaultWordConfig())))

	cfg := defaultWordConfig()
	WithWordXTolerance(5)(cfg)
	assert.Equal(t, []string{"NOTAVAILABLE"}, texts(groupWords(all, cfg)))
}

func TestGroupWordsLineTolerance(t *testing.T) {
	// Tolerance is measured from the first glyph of the line, so a slow
	// drift eventually opens a new line.
	var all []CharObject
	all = append(all, chars("A", 10, 100, 4)...)
	all = append(all, chars("B", 30, 102, 4)...)
	all = append(all, chars("C", 50, 104, 4)...)

	words := groupWords(all, defaultWordConfig())
	require.Len(t, words, 3)
	assert.Equal(t, "A B\nC", layoutText(words, 3))
}

func TestGroupWordsZeroWidthGlyphs(t *testing.T) {
	// Readers that cannot resolve glyph widths stack a word's glyphs on
	// one x; content order must survive.
	all := append(chars("PRICE", 40, 10, 0), chars("RANGE", 80, 10, 0)...)
	assert.Equal(t, []string{"PRICE", "RANGE"}, texts(groupWords(all, defaultWordConfig())))
}

func TestGroupWordsBlankGlyphs(t *testing.T) {
	all := chars("EGG (MEDIUM)", 10, 10, 4)
	assert.Equal(t, []string{"EGG", "(MEDIUM)"}, texts(groupWords(all, defaultWordConfig())))
	assert.Nil(t, groupWords(nil, defaultWordConfig()))
}

func TestLayoutText(t *testing.T) {
	words := groupWords(append(
		chars("December 22, 2025", 300, 35, 4),
		chars("DAILY RETAIL", 20, 20, 4)...,
	), defaultWordConfig())
	assert.Equal(t, "DAILY RETAIL\nDecember 22, 2025", layoutText(words, 3))
	assert.Equal(t, "", layoutText(nil, 3))
}

func TestDecodeGlyphs(t *testing.T) {
	got := decodeGlyphs(800, func() []glyph {
		return []glyph{
			{s: "ab", font: "Helvetica", size: 10, x: 100, y: 690, w: 10},
			{s: "", size: 10, x: 0, y: 0},
		}
	})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Text)
	assert.InDelta(t, 102.0, got[0].Y0, 1e-9)
	assert.InDelta(t, 112.0, got[0].Y1, 1e-9)
	assert.Equal(t, 100.0, got[0].X0)
	assert.Equal(t, 105.0, got[0].X1)
	assert.Equal(t, 105.0, got[1].X0)
	assert.Equal(t, "Helvetica", got[1].Font)
}

func TestDecodeGlyphsRecovers(t *testing.T) {
	got := decodeGlyphs(800, func() []glyph {
		panic("malformed content stream")
	})
	assert.Nil(t, got)
}

func TestValidateBytesRejects(t *testing.T) {
	_, err := ValidateBytes(nil)
	assert.ErrorIs(t, err, ErrInvalidPDF)

	_, err = ValidateBytes([]byte("hello"))
	assert.ErrorIs(t, err, ErrInvalidPDF)

	_, err = Validate("/nonexistent/bulletin.pdf")
	assert.Error(t, err)
}

func TestExtractTextTolerance(t *testing.T) {
	var all []CharObject
	all = append(all, chars("NOT", 100, 50, 4)...)
	all = append(all, chars("AVAILABLE", 116, 50, 4)...)
	all = append(all, chars("45.00", 200, 55, 4)...)
	p := &LedongthucPage{pageNumber: 1, objects: Objects{Chars: all}}

	assert.Len(t, p.GetObjects().Chars, 17)
	assert.Equal(t, "NOT AVAILABLE\n45.00", p.ExtractText())
	assert.Equal(t, "NOTAVAILABLE\n45.00", p.ExtractText(WithXTolerance(5)))
	assert.Equal(t, "NOT AVAILABLE 45.00", p.ExtractText(WithYTolerance(6)))
}
