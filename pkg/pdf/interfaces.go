package pdf

// Document represents a PDF document with methods similar to pdfplumber.PDF
type Document interface {
	// GetPages returns all pages in the document
	GetPages() []Page

	// GetPage returns a specific page by index (0-based)
	GetPage(index int) (Page, error)

	// PageCount returns the total number of pages
	PageCount() int

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single page in a PDF document
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the page width
	GetWidth() float64

	// GetHeight returns the page height
	GetHeight() float64

	// GetObjects returns all objects on the page
	GetObjects() Objects

	// ExtractWords groups the page glyphs into positioned words
	ExtractWords(opts ...WordExtractionOption) []Word

	// ExtractText rebuilds the page text line by line from its words
	ExtractText(opts ...TextExtractionOption) string
}
