// Package extractor recovers (market, commodity, price range) records from
// the positioned words of daily retail price bulletins.
//
// Table structure is rebuilt from geometry alone: words are grouped into
// lines, the header line is located, column centers are clustered from the
// x positions of numeric words, header words are folded into column labels,
// and every data line is split into a market name and per-column cells.
package extractor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/pyhub-apps/pricebulletin/pkg/log"
)

// Geometry holds the policy tolerances of the layout algorithm, tuned to
// the known bulletin family.
type Geometry struct {
	// LineTolerance is the largest top difference within one line.
	LineTolerance float64
	// ColumnGap is the largest x gap inside one column cluster.
	ColumnGap float64
	// MarketMargin is how far left of the first column center the market
	// name region ends.
	MarketMargin float64
	// GeometryLines is how many data lines feed column clustering.
	GeometryLines int
}

// DefaultGeometry returns the tolerances the bulletins were tuned with.
func DefaultGeometry() Geometry {
	return Geometry{
		LineTolerance: 3,
		ColumnGap:     30,
		MarketMargin:  40,
		GeometryLines: 10,
	}
}

// Normalizer maps a raw column label to its canonical commodity name.
type Normalizer interface {
	Normalize(label string) string
}

// MapNormalizer looks labels up in a table after collapsing whitespace;
// unknown labels pass through collapsed.
type MapNormalizer map[string]string

// Normalize implements Normalizer.
func (m MapNormalizer) Normalize(label string) string {
	name := strings.Join(strings.Fields(label), " ")
	if name == "" {
		return ""
	}
	if canonical, ok := m[name]; ok {
		return canonical
	}
	return name
}

// Parser extracts price observations from bulletin pages. It holds only
// read-only configuration and is safe for concurrent use.
type Parser struct {
	normalizer Normalizer
	catalog    Catalog
	geometry   Geometry
	workers    int
	logger     log.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithNormalizer sets the commodity-name normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(p *Parser) {
		if n != nil {
			p.normalizer = n
		}
	}
}

// WithNormalization sets a plain normalization table.
func WithNormalization(table map[string]string) Option {
	return WithNormalizer(MapNormalizer(table))
}

// WithCatalog replaces the built-in layout profiles.
func WithCatalog(c Catalog) Option {
	return func(p *Parser) {
		p.catalog = c
	}
}

// WithGeometry replaces the layout tolerances.
func WithGeometry(g Geometry) Option {
	return func(p *Parser) {
		p.geometry = g
	}
}

// WithWorkers sets how many pages are parsed concurrently. Values below 2
// parse pages sequentially.
func WithWorkers(n int) Option {
	return func(p *Parser) {
		p.workers = n
	}
}

// WithLogger sets the logger page and cell skips are reported to.
func WithLogger(l log.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		normalizer: MapNormalizer(nil),
		catalog:    DefaultCatalog(),
		geometry:   DefaultGeometry(),
		workers:    1,
		logger:     log.Default,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NormalizeCommodity maps a raw label to its canonical commodity name.
func (p *Parser) NormalizeCommodity(label string) string {
	return p.normalizer.Normalize(label)
}

// ParseDocument extracts every observation from a document's pages.
func (p *Parser) ParseDocument(ctx context.Context, pages []Page) ([]PriceObservation, error) {
	res, err := p.ParseDocumentReport(ctx, pages)
	if err != nil {
		return nil, err
	}
	return res.Observations, nil
}

// ParseDocumentReport extracts every observation from a document's pages
// and reports per-page outcomes. The report date is read once from the
// first two pages and shared by all pages. A page that fails is reported
// and skipped; only a missing page list is an error. If ctx is cancelled,
// pages not yet started are skipped and ctx.Err() is returned alongside
// what was extracted.
func (p *Parser) ParseDocumentReport(ctx context.Context, pages []Page) (DocumentResult, error) {
	if len(pages) == 0 {
		return DocumentResult{}, ErrNoPages
	}

	date := reportDate(pages)
	if date == nil {
		p.logger.Warnf("no report date found on the first pages; records will carry no date")
	}

	type pageResult struct {
		done   bool
		obs    []PriceObservation
		report PageReport
	}
	results := make([]pageResult, len(pages))
	run := func(i int) {
		obs, report := p.safeParsePage(pages[i], date)
		results[i] = pageResult{done: true, obs: obs, report: report}
	}

	var ctxErr error
	if p.workers < 2 {
		for i := range pages {
			if err := ctx.Err(); err != nil {
				ctxErr = err
				break
			}
			run(i)
		}
	} else {
		pool, err := ants.NewPool(p.workers)
		if err != nil {
			return DocumentResult{}, fmt.Errorf("create page pool: %w", err)
		}
		defer pool.Release()

		var wg sync.WaitGroup
		for i := range pages {
			if err := ctx.Err(); err != nil {
				ctxErr = err
				break
			}
			wg.Add(1)
			idx := i
			if err := pool.Submit(func() {
				defer wg.Done()
				run(idx)
			}); err != nil {
				wg.Done()
				results[idx] = pageResult{
					done:   true,
					report: PageReport{Page: pages[idx].Number, Skip: SkipFailed, Detail: err.Error()},
				}
				p.logger.Warnf("page %d: submit failed: %v", pages[idx].Number, err)
			}
		}
		wg.Wait()
	}

	out := DocumentResult{ReportDate: date}
	for _, r := range results {
		if !r.done {
			continue
		}
		out.Observations = append(out.Observations, r.obs...)
		out.Pages = append(out.Pages, r.report)
	}
	return out, ctxErr
}

// safeParsePage isolates a page so that a bug triggered by one page's
// content cannot abort the rest of the document.
func (p *Parser) safeParsePage(page Page, date *time.Time) (obs []PriceObservation, report PageReport) {
	defer func() {
		if r := recover(); r != nil {
			obs = nil
			report = PageReport{Page: page.Number, Skip: SkipFailed, Detail: fmt.Sprint(r)}
			p.logger.Errorf("page %d: extraction panicked: %v", page.Number, r)
		}
	}()
	return p.ParsePage(page, date)
}

// ParsePage extracts the observations of one page. date is the
// document-level report date and may be nil.
func (p *Parser) ParsePage(page Page, date *time.Time) ([]PriceObservation, PageReport) {
	report := PageReport{Page: page.Number, Unit: ExtractUnit(page.Text)}
	skip := func(reason SkipReason, detail string) ([]PriceObservation, PageReport) {
		report.Skip = reason
		report.Detail = detail
		if detail != "" {
			p.logger.Warnf("skipping page %d: %s: %s", page.Number, reason, detail)
		} else {
			p.logger.Warnf("skipping page %d: %s", page.Number, reason)
		}
		return nil, report
	}

	lines := GroupLines(page.Tokens, p.geometry.LineTolerance)

	headerIdx, ok := findHeader(lines)
	if !ok {
		return skip(SkipNoHeader, "")
	}
	dataIdx, ok := findDataStart(lines, headerIdx+1)
	if !ok {
		return skip(SkipNoData, "")
	}
	headerLines := lines[headerIdx:dataIdx]
	dataLines := lines[dataIdx:]

	centers := DeriveColumnCenters(dataLines, p.geometry.GeometryLines, p.geometry.ColumnGap)
	if len(centers) == 0 {
		return skip(SkipNoColumns, "")
	}

	labels := BuildColumnLabels(headerLines, centers)
	profile := p.catalog.Profile(SelectProfile(labels))
	report.Profile = profile.Name
	report.Columns = labels
	if n := countLabels(labels); !profile.AcceptsColumnCount(n) {
		return skip(SkipColumnCount, fmt.Sprintf("expected %d-%d columns, found %d",
			profile.MinColumns, profile.MaxColumns, n))
	}

	boundary := centers[0] - p.geometry.MarketMargin
	var obs []PriceObservation
	for _, r := range extractRows(dataLines, centers, boundary) {
		for idx, tokens := range r.cells {
			label := labels[idx]
			if label == "" || len(tokens) == 0 {
				continue
			}
			o, ok := p.cell(r.market, label, strings.Join(tokens, " "), profile)
			if !ok {
				report.DroppedCells++
				continue
			}
			o.Unit = report.Unit
			o.ReportDate = date
			o.Page = page.Number
			obs = append(obs, o)
		}
	}

	report.Observations = len(obs)
	p.logger.Debugf("page %d: %d observations with profile %s", page.Number, len(obs), profile.Name)
	return obs, report
}

// cell parses one populated cell into an observation.
func (p *Parser) cell(market, label, text string, profile LayoutProfile) (PriceObservation, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return PriceObservation{}, false
	}
	if isNotAvailable(text) {
		return PriceObservation{}, false
	}

	low, high, ok := ParsePriceRange(text)
	if !ok {
		p.logger.Debugf("market %q, %q: no price in %q", market, label, text)
		return PriceObservation{}, false
	}
	if !profile.AcceptsPrice(low, high) {
		p.logger.Debugf("market %q, %q: price %v-%v outside %s bounds", market, label, low, high, profile.Name)
		return PriceObservation{}, false
	}

	return PriceObservation{
		Commodity:       p.NormalizeCommodity(label),
		Category:        DeriveCategory(label),
		Market:          market,
		PriceLow:        &low,
		PriceHigh:       &high,
		PricePrevailing: Prevailing(&low, &high),
		ReportType:      ReportTypeDailyRetail,
	}, true
}
