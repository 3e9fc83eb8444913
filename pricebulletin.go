// Package pricebulletin extracts market price observations from daily
// retail price range bulletins published as PDF.
//
// The PDF is validated, opened with the most accurate available text
// backend, turned into positioned words, and handed to the layout-aware
// extractor:
//
//	res, err := pricebulletin.ParseFile(ctx, "bulletin.pdf")
//	for _, o := range res.Observations {
//		fmt.Println(o.Market, o.Commodity, *o.PriceLow, *o.PriceHigh)
//	}
package pricebulletin

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/pyhub-apps/pricebulletin/pkg/config"
	"github.com/pyhub-apps/pricebulletin/pkg/extractor"
	"github.com/pyhub-apps/pricebulletin/pkg/pdf"
)

// Re-export types from the pdf and extractor packages for the public API
type (
	Document             = pdf.Document
	Page                 = pdf.Page
	Word                 = pdf.Word
	WordExtractionOption = pdf.WordExtractionOption
	PriceObservation     = extractor.PriceObservation
	PageReport           = extractor.PageReport
	DocumentResult       = extractor.DocumentResult
	SkipReason           = extractor.SkipReason
	Option               = extractor.Option
	Geometry             = extractor.Geometry
	Catalog              = extractor.Catalog
	LayoutProfile        = extractor.LayoutProfile
)

// Page skip reasons
const (
	NotSkipped      = extractor.NotSkipped
	SkipNoHeader    = extractor.SkipNoHeader
	SkipNoData      = extractor.SkipNoData
	SkipNoColumns   = extractor.SkipNoColumns
	SkipColumnCount = extractor.SkipColumnCount
	SkipFailed      = extractor.SkipFailed
)

// Re-export option functions and sentinels
var (
	WithNormalizer     = extractor.WithNormalizer
	WithNormalization  = extractor.WithNormalization
	WithCatalog        = extractor.WithCatalog
	WithGeometry       = extractor.WithGeometry
	WithWorkers        = extractor.WithWorkers
	WithLogger         = extractor.WithLogger
	WithWordXTolerance = pdf.WithWordXTolerance
	WithWordYTolerance = pdf.WithWordYTolerance

	ErrNoPages    = extractor.ErrNoPages
	ErrInvalidPDF = pdf.ErrInvalidPDF
)

// ErrNoBackend is returned when no text backend can open a PDF that
// passed validation.
var ErrNoBackend = errors.New("no PDF backend could open the document")

// Open opens a PDF file and returns a Document
func Open(filepath string) (Document, error) {
	return open(
		func() (Document, error) { return pdf.OpenWithLedongthuc(filepath) },
		func() (Document, error) { return pdf.OpenWithDslipak(filepath) },
	)
}

// OpenBytes opens an in-memory PDF and returns a Document
func OpenBytes(data []byte) (Document, error) {
	return open(
		func() (Document, error) { return pdf.OpenBytesWithLedongthuc(data) },
		func() (Document, error) { return pdf.OpenBytesWithDslipak(data) },
	)
}

// open tries each backend in turn. ledongthuc gives the most accurate glyph
// positions; dslipak copes with some files ledongthuc rejects.
func open(backends ...func() (Document, error)) (Document, error) {
	var errs []error
	for _, try := range backends {
		doc, err := safeOpen(try)
		if err == nil {
			return doc, nil
		}
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("%w: %w", ErrNoBackend, errors.Join(errs...))
}

func safeOpen(try func() (Document, error)) (doc Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc, err = nil, fmt.Errorf("backend panicked: %v", r)
		}
	}()
	return try()
}

// Pages converts a document's pages into extractor input: one token per
// word with its top and left edge, plus the page text.
func Pages(doc Document, opts ...WordExtractionOption) []extractor.Page {
	pages := doc.GetPages()
	out := make([]extractor.Page, 0, len(pages))
	for _, p := range pages {
		out = append(out, tokenPage(p, opts...))
	}
	return out
}

func tokenPage(p Page, opts ...WordExtractionOption) extractor.Page {
	words := p.ExtractWords(opts...)
	tokens := make([]extractor.Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, extractor.Token{Text: w.Text, Top: w.Top(), X0: w.X0})
	}
	return extractor.Page{
		Number: p.GetPageNumber(),
		Tokens: tokens,
		Text:   p.ExtractText(),
	}
}

// defaultNormalizer maps commodity labels through the embedded table.
var defaultNormalizer = sync.OnceValue(func() *config.Normalizer {
	return config.NewNormalizer(config.Default().Commodities)
})

// ParseDocument extracts observations from an open document. Commodity labels
// are normalized with the embedded table unless opts supply a normalizer or
// table of their own.
func ParseDocument(ctx context.Context, doc Document, opts ...Option) (DocumentResult, error) {
	opts = append([]Option{extractor.WithNormalizer(defaultNormalizer())}, opts...)
	return extractor.New(opts...).ParseDocumentReport(ctx, Pages(doc))
}

// ParseFile validates, opens and parses the PDF at path with the defaults of
// ParseDocument. Only an unreadable file is an error; pages without a
// recognisable table are reported in the result and skipped.
func ParseFile(ctx context.Context, path string, opts ...Option) (DocumentResult, error) {
	if _, err := pdf.Validate(path); err != nil {
		return DocumentResult{}, fmt.Errorf("validate %s: %w", path, err)
	}
	doc, err := Open(path)
	if err != nil {
		return DocumentResult{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer doc.Close()

	return ParseDocument(ctx, doc, opts...)
}

// ParseBytes is ParseFile for an in-memory PDF.
func ParseBytes(ctx context.Context, data []byte, opts ...Option) (DocumentResult, error) {
	if _, err := pdf.ValidateBytes(data); err != nil {
		return DocumentResult{}, fmt.Errorf("validate: %w", err)
	}
	doc, err := OpenBytes(data)
	if err != nil {
		return DocumentResult{}, fmt.Errorf("open: %w", err)
	}
	defer doc.Close()

	return ParseDocument(ctx, doc, opts...)
}
