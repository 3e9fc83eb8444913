package pdf

// glyph is one text item as decoded by a backend library, in PDF user space
// (origin bottom-left, y is the baseline).
type glyph struct {
	s    string
	font string
	size float64
	x    float64
	y    float64
	w    float64
}

// decodeGlyphs converts backend text items into CharObjects in pdfplumber
// coordinates (origin top-left). The backends panic on some malformed
// content streams; such a page yields no glyphs instead of taking the whole
// document down.
func decodeGlyphs(pageHeight float64, decode func() []glyph) (chars []CharObject) {
	defer func() {
		if r := recover(); r != nil {
			chars = nil
		}
	}()

	for _, g := range decode() {
		runes := []rune(g.s)
		if len(runes) == 0 {
			continue
		}

		// Baseline sits at roughly 80% of the font height
		height := g.size
		top := pageHeight - (g.y + height*0.8)

		charWidth := g.w / float64(len(runes))
		x := g.x
		for _, ch := range runes {
			chars = append(chars, CharObject{
				Text:     string(ch),
				Font:     g.font,
				FontSize: g.size,
				X0:       x,
				Y0:       top,
				X1:       x + charWidth,
				Y1:       top + height,
				Width:    charWidth,
				Height:   height,
			})
			x += charWidth
		}
	}
	return chars
}

// extractText rebuilds a page's text from its word layout so that phrases
// such as "December 22, 2025" survive as contiguous, space-separated text.
func extractText(p Page, opts ...TextExtractionOption) string {
	config := &textExtractionConfig{
		XTolerance: 3.0,
		YTolerance: 3.0,
	}
	for _, opt := range opts {
		opt(config)
	}

	words := p.ExtractWords(
		WithWordXTolerance(config.XTolerance),
		WithWordYTolerance(config.YTolerance),
	)
	return layoutText(words, config.YTolerance)
}
