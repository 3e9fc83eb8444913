package pdf

// Objects represents the positioned objects decoded from a page.
// Only glyphs are needed to rebuild words.
type Objects struct {
	Chars []CharObject
}

// CharObject represents a single glyph on the page. Y grows downward from
// the top of the page, as in pdfplumber.
type CharObject struct {
	Text     string
	Font     string
	FontSize float64
	X0       float64
	Y0       float64
	X1       float64
	Y1       float64
	Width    float64
	Height   float64
}

// isBlank reports whether the glyph is whitespace and therefore a word break.
func (c CharObject) isBlank() bool {
	switch c.Text {
	case " ", "\t", "\n", "\r", "\u00a0":
		return true
	}
	return false
}

// Word is a run of adjacent glyphs on one line, the unit the price
// extractor consumes as a token. Y0 is the word's top.
type Word struct {
	Text       string
	X0         float64
	Y0         float64
	X1         float64
	Y1         float64
	Characters []CharObject
}

// Top returns the distance of the word from the top of the page.
func (w Word) Top() float64 {
	return w.Y0
}

// WordExtractionOption is a function that modifies word extraction behavior
type WordExtractionOption func(*wordExtractionConfig)

type wordExtractionConfig struct {
	XTolerance float64
	YTolerance float64
}

func defaultWordConfig() *wordExtractionConfig {
	return &wordExtractionConfig{
		XTolerance: 3.0,
		YTolerance: 3.0,
	}
}

// WithWordXTolerance sets the maximum horizontal gap between glyphs of one word
func WithWordXTolerance(tolerance float64) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.XTolerance = tolerance
	}
}

// WithWordYTolerance sets the vertical tolerance for grouping glyphs into lines
func WithWordYTolerance(tolerance float64) WordExtractionOption {
	return func(c *wordExtractionConfig) {
		c.YTolerance = tolerance
	}
}

// TextExtractionOption is a function that modifies text extraction behavior
type TextExtractionOption func(*textExtractionConfig)

type textExtractionConfig struct {
	XTolerance float64
	YTolerance float64
}

// WithXTolerance sets the horizontal tolerance for text grouping
func WithXTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.XTolerance = tolerance
	}
}

// WithYTolerance sets the vertical tolerance for text grouping
func WithYTolerance(tolerance float64) TextExtractionOption {
	return func(c *textExtractionConfig) {
		c.YTolerance = tolerance
	}
}
