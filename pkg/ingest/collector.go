// Package ingest applies the storage policy to extracted observations:
// records without a report date are rejected, and records are deduplicated
// by commodity, market, report date and report type with the last write
// winning.
package ingest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pyhub-apps/pricebulletin/pkg/extractor"
	"github.com/pyhub-apps/pricebulletin/pkg/log"
)

// Rejection causes.
var (
	ErrNoReportDate = errors.New("missing report date")
	ErrNoCommodity  = errors.New("missing commodity")
	ErrNoMarket     = errors.New("missing market")
)

// Record is a stored observation with the file it came from.
type Record struct {
	extractor.PriceObservation
	Source string `json:"source,omitempty"`
}

// Commodity is the first category and unit seen for a canonical name.
type Commodity struct {
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Unit     string `json:"unit"`
}

// RejectError describes one rejected observation.
type RejectError struct {
	Commodity string
	Market    string
	Page      int
	Source    string
	Err       error
}

func (e RejectError) Error() string {
	return fmt.Sprintf("%s/%s (page %d): %v", e.Commodity, e.Market, e.Page, e.Err)
}

func (e RejectError) Unwrap() error {
	return e.Err
}

// Summary counts what Add saw.
type Summary struct {
	Total     int
	Processed int
	Rejected  int
	Errors    []RejectError
}

type recordKey struct {
	commodity  string
	market     string
	date       string
	reportType string
}

// Collector accumulates records in memory. It is safe for concurrent use.
type Collector struct {
	mu          sync.Mutex
	logger      log.Logger
	records     map[recordKey]Record
	commodities map[string]Commodity
	order       []string
	summary     Summary
}

// Option configures a Collector.
type Option func(*Collector)

// WithLogger sets the logger rejections are reported to.
func WithLogger(l log.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCollector creates an empty Collector.
func NewCollector(opts ...Option) *Collector {
	c := &Collector{
		logger:      log.Default,
		records:     make(map[recordKey]Record),
		commodities: make(map[string]Commodity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Add stores observations that have no source file.
func (c *Collector) Add(obs ...extractor.PriceObservation) {
	c.AddFrom("", obs...)
}

// AddFrom stores observations read from source. Invalid observations are
// counted and recorded in the summary; they never stop the rest.
func (c *Collector) AddFrom(source string, obs ...extractor.PriceObservation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, o := range obs {
		c.summary.Total++
		if err := check(o); err != nil {
			c.summary.Rejected++
			rej := RejectError{Commodity: o.Commodity, Market: o.Market, Page: o.Page, Source: source, Err: err}
			c.summary.Errors = append(c.summary.Errors, rej)
			c.logger.Warnf("rejecting record: %v", rej)
			continue
		}

		if _, ok := c.commodities[o.Commodity]; !ok {
			c.commodities[o.Commodity] = Commodity{Name: o.Commodity, Category: o.Category, Unit: o.Unit}
			c.order = append(c.order, o.Commodity)
		}
		c.records[keyOf(o)] = Record{PriceObservation: o, Source: source}
		c.summary.Processed++
	}
}

func check(o extractor.PriceObservation) error {
	switch {
	case o.ReportDate == nil:
		return ErrNoReportDate
	case strings.TrimSpace(o.Commodity) == "":
		return ErrNoCommodity
	case strings.TrimSpace(o.Market) == "":
		return ErrNoMarket
	}
	return nil
}

func keyOf(o extractor.PriceObservation) recordKey {
	reportType := o.ReportType
	if reportType == "" {
		reportType = extractor.ReportTypeDailyRetail
	}
	return recordKey{
		commodity:  o.Commodity,
		market:     o.Market,
		date:       o.ReportDate.Format("2006-01-02"),
		reportType: reportType,
	}
}

// Records returns the stored records ordered by report date, commodity and
// market.
func (c *Collector) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Record, 0, len(c.records))
	keys := make([]recordKey, 0, len(c.records))
	for k := range c.records {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.date != b.date {
			return a.date < b.date
		}
		if a.commodity != b.commodity {
			return a.commodity < b.commodity
		}
		if a.market != b.market {
			return a.market < b.market
		}
		return a.reportType < b.reportType
	})
	for _, k := range keys {
		out = append(out, c.records[k])
	}
	return out
}

// Commodities returns the distinct commodities in first-seen order.
func (c *Collector) Commodities() []Commodity {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Commodity, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.commodities[name])
	}
	return out
}

// Summary returns the counts so far.
func (c *Collector) Summary() Summary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.summary
	s.Errors = append([]RejectError(nil), c.summary.Errors...)
	return s
}
