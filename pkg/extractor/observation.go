package extractor

import (
	"errors"
	"time"
)

// ReportTypeDailyRetail tags every record produced from a daily retail
// price range bulletin.
const ReportTypeDailyRetail = "DAILY_RETAIL"

// ErrNoPages is returned when a document has no pages to parse.
var ErrNoPages = errors.New("no pages to parse")

// PriceObservation is one (market, commodity) price range read from a page.
// A nil ReportDate means the document had no recognisable date; callers
// must not persist such records.
type PriceObservation struct {
	Commodity       string     `json:"commodity"`
	Category        string     `json:"category,omitempty"`
	Unit            string     `json:"unit"`
	Market          string     `json:"market"`
	PriceLow        *float64   `json:"price_low"`
	PriceHigh       *float64   `json:"price_high"`
	PricePrevailing *float64   `json:"price_prevailing"`
	PriceAverage    *float64   `json:"price_average"`
	ReportDate      *time.Time `json:"report_date"`
	ReportType      string     `json:"report_type"`
	Page            int        `json:"page"`
}

// SkipReason says why a page contributed no rows.
type SkipReason int

const (
	// NotSkipped marks a page whose table was extracted.
	NotSkipped SkipReason = iota
	// SkipNoHeader means no line qualified as the table header.
	SkipNoHeader
	// SkipNoData means no line after the header carried a value.
	SkipNoData
	// SkipNoColumns means no value tokens were found to derive columns from.
	SkipNoColumns
	// SkipColumnCount means the inferred column count is outside the
	// selected profile's bounds.
	SkipColumnCount
	// SkipFailed means the page could not be processed at all.
	SkipFailed
)

func (r SkipReason) String() string {
	switch r {
	case NotSkipped:
		return "none"
	case SkipNoHeader:
		return "no header line"
	case SkipNoData:
		return "no data line after header"
	case SkipNoColumns:
		return "no column geometry"
	case SkipColumnCount:
		return "column count out of range"
	case SkipFailed:
		return "page failed"
	}
	return "unknown"
}

// PageReport describes what happened to one page.
type PageReport struct {
	Page         int
	Skip         SkipReason
	Detail       string
	Profile      string
	Columns      []string
	Unit         string
	Observations int
	DroppedCells int
}

// DocumentResult is everything ParseDocumentReport learned about a document.
type DocumentResult struct {
	ReportDate   *time.Time
	Observations []PriceObservation
	Pages        []PageReport
}
