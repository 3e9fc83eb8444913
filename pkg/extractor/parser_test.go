package extractor

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/pyhub-apps/pricebulletin/pkg/log"
)

func newTestParser(opts ...Option) *Parser {
	opts = append([]Option{WithNormalization(testNormalization), WithLogger(log.Nop())}, opts...)
	return New(opts...)
}

func TestParseDocumentEndToEnd(t *testing.T) {
	p := newTestParser()

	obs, err := p.ParseDocument(context.Background(), []Page{bulletinPage(1)})
	require.NoError(t, err)
	require.Len(t, obs, 2, "the unavailable sugar cell yields nothing")

	rice := obs[0]
	assert.Equal(t, "Agora Public Market/San Juan", rice.Market)
	assert.Equal(t, "Well-milled Rice (Local)", rice.Commodity)
	assert.Equal(t, "Rice", rice.Category)
	assert.Equal(t, "kg", rice.Unit)
	assert.Equal(t, 45.0, deref(rice.PriceLow))
	assert.Equal(t, 45.0, deref(rice.PriceHigh))
	assert.Equal(t, 45.0, deref(rice.PricePrevailing))
	assert.Nil(t, rice.PriceAverage)
	assert.Equal(t, ReportTypeDailyRetail, rice.ReportType)
	assert.Equal(t, 1, rice.Page)
	require.NotNil(t, rice.ReportDate)
	assert.Equal(t, "2025-12-22", rice.ReportDate.Format("2006-01-02"))

	egg := obs[1]
	assert.Equal(t, "Agora Public Market/San Juan", egg.Market)
	assert.Equal(t, "Egg (Medium)", egg.Commodity)
	assert.Equal(t, "Eggs", egg.Category)
	assert.Equal(t, 8.5, deref(egg.PriceLow))
	assert.Equal(t, 8.5, deref(egg.PriceHigh))
	assert.Same(t, rice.ReportDate, egg.ReportDate, "the document date is shared")
}

// A table with only the rice and egg columns selects the 2025 profile,
// whose minimum is three columns, so the page is dropped. This pins the
// interaction between profile selection and column-count validation.
func TestParsePageTwoColumn2025TableIsRejected(t *testing.T) {
	p := newTestParser()
	pg := page(1, "December 22, 2025",
		at(60, 20, "MARKET", 235, "WELL-MILLED", 280, "RICE", 295, "(LOCAL)", 340, "EGG", 365, "(MEDIUM)"),
		at(80, 20, "Agora", 50, "Public", 85, "Market/San", 135, "Juan", 250, "45.00", 350, "8.50"),
	)

	obs, report := p.ParsePage(pg, nil)
	assert.Empty(t, obs)
	assert.Equal(t, SkipColumnCount, report.Skip)
	assert.Equal(t, "retail_range_2025_2026", report.Profile)
	assert.Equal(t, []string{"WELL-MILLED RICE (LOCAL)", "EGG (MEDIUM)"}, report.Columns)
}

func TestParsePageRows(t *testing.T) {
	p := newTestParser()
	pg := page(2, "COMMODITY (PHP/KG)",
		at(60, 20, "MARKET", 235, "WELL-MILLED", 280, "RICE", 340, "EGG", 440, "REFINED"),
		at(70, 280, "(LOCAL)", 350, "(MEDIUM)", 450, "SUGAR*"),
		at(80, 20, "Agora", 250, "45.00", 350, "8.50", 450, "80.00"),
		at(92, 20, "Commonwealth", 90, "Market,"),
		at(100, 20, "Quezon", 70, "City", 250, "40.00-38.00", 350, "9.00", 450, "abc1"),
		at(112, 250, "48.00", 350, "9.50", 450, "82.00"),
		at(124, 20, "Mega-Q-Mart", 250, "0.10", 350, "NOT", 370, "AVAILABLE", 450, "85.00"),
	)

	obs, report := p.ParsePage(pg, nil)
	require.Equal(t, NotSkipped, report.Skip)
	assert.Equal(t, []string{"WELL-MILLED RICE (LOCAL)", "EGG (MEDIUM)", "REFINED SUGAR"}, report.Columns)

	type key struct{ market, commodity string }
	got := map[key]PriceObservation{}
	for _, o := range obs {
		got[key{o.Market, o.Commodity}] = o
		assert.Nil(t, o.ReportDate)
		assert.Equal(t, "kg", o.Unit)
	}

	wrapped := got[key{"Commonwealth Market, Quezon City", "Well-milled Rice (Local)"}]
	assert.Equal(t, 38.0, deref(wrapped.PriceLow))
	assert.Equal(t, 40.0, deref(wrapped.PriceHigh))
	assert.Equal(t, 39.0, deref(wrapped.PricePrevailing))

	// "abc1" still parses as 1.0, inside the bounds
	assert.Equal(t, 1.0, deref(got[key{"Commonwealth Market, Quezon City", "Refined Sugar"}].PriceLow))

	_, ok := got[key{"Mega-Q-Mart", "Well-milled Rice (Local)"}]
	assert.False(t, ok, "0.10 is below the profile minimum")
	_, ok = got[key{"Mega-Q-Mart", "Egg (Medium)"}]
	assert.False(t, ok, "unavailable cells are skipped")
	assert.Equal(t, 85.0, deref(got[key{"Mega-Q-Mart", "Refined Sugar"}].PriceLow))

	for k := range got {
		assert.NotEmpty(t, k.market, "rows without a market name are dropped")
	}
	assert.Len(t, obs, 7)
	assert.Equal(t, 7, report.Observations)
	assert.Equal(t, 2, report.DroppedCells)
}

func TestParsePageSkips(t *testing.T) {
	tests := []struct {
		name   string
		page   Page
		reason SkipReason
	}{
		{
			name:   "no header",
			page:   page(1, "", at(10, 20, "Agora", 250, "45.00")),
			reason: SkipNoHeader,
		},
		{
			name:   "header is a title line",
			page:   page(1, "", at(10, 20, "MARKET", 80, "PRICES", 140, "2025"), at(20, 20, "Agora", 250, "45.00")),
			reason: SkipNoHeader,
		},
		{
			name:   "no data after header",
			page:   page(1, "", at(10, 20, "MARKET", 250, "RICE"), at(20, 20, "Footer")),
			reason: SkipNoData,
		},
		{
			name:   "single column below generic minimum",
			page:   page(1, "", at(10, 20, "MARKET", 250, "SUGAR"), at(20, 20, "Agora", 250, "50.00")),
			reason: SkipColumnCount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := observedLogger(zapcore.WarnLevel)
			p := newTestParser(WithLogger(logger))

			obs, report := p.ParsePage(tt.page, nil)
			assert.Empty(t, obs)
			assert.Equal(t, tt.reason, report.Skip)
			assert.Equal(t, 1, logs.FilterMessageSnippet("skipping page 1").Len())
		})
	}
}

func TestParseDocumentIsolatesPages(t *testing.T) {
	bad := page(2, "", at(10, 20, "MARKET", 250, "SUGAR"), at(20, 20, "Agora", 250, "50.00"))
	empty := page(3, "")

	p := newTestParser()
	res, err := p.ParseDocumentReport(context.Background(), []Page{bulletinPage(1), bad, empty, bulletinPage(4)})
	require.NoError(t, err)

	require.Len(t, res.Pages, 4)
	assert.Equal(t, NotSkipped, res.Pages[0].Skip)
	assert.Equal(t, SkipColumnCount, res.Pages[1].Skip)
	assert.Equal(t, SkipNoHeader, res.Pages[2].Skip)
	assert.Equal(t, NotSkipped, res.Pages[3].Skip)

	require.Len(t, res.Observations, 4)
	assert.Equal(t, 1, res.Observations[0].Page)
	assert.Equal(t, 4, res.Observations[3].Page)
	require.NotNil(t, res.ReportDate)
}

func TestParseDocumentWithoutDate(t *testing.T) {
	logger, logs := observedLogger(zapcore.WarnLevel)
	pg := bulletinPage(1)
	pg.Text = "DAILY RETAIL PRICE RANGE"

	obs, err := newTestParser(WithLogger(logger)).ParseDocument(context.Background(), []Page{pg})
	require.NoError(t, err)
	require.Len(t, obs, 2)
	for _, o := range obs {
		assert.Nil(t, o.ReportDate)
	}
	assert.Equal(t, 1, logs.FilterMessageSnippet("no report date").Len())
}

func TestParseDocumentNoPages(t *testing.T) {
	_, err := newTestParser().ParseDocument(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoPages)

	_, err = newTestParser().ParseDocument(context.Background(), []Page{})
	assert.ErrorIs(t, err, ErrNoPages)
}

func TestParseDocumentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			res, err := newTestParser(WithWorkers(workers)).ParseDocumentReport(ctx, []Page{bulletinPage(1)})
			assert.ErrorIs(t, err, context.Canceled)
			assert.Empty(t, res.Observations)
			assert.Empty(t, res.Pages)
		})
	}
}

func TestParseDocumentWorkerPoolMatchesSequential(t *testing.T) {
	var pages []Page
	for i := 1; i <= 24; i++ {
		if i%5 == 0 {
			pages = append(pages, page(i, "", at(10, 20, "Cover")))
			continue
		}
		pages = append(pages, bulletinPage(i))
	}

	seq, err := newTestParser().ParseDocument(context.Background(), pages)
	require.NoError(t, err)
	par, err := newTestParser(WithWorkers(4)).ParseDocument(context.Background(), pages)
	require.NoError(t, err)

	assert.Len(t, seq, 2*20)
	assert.Equal(t, seq, par)
}

func TestParsePageGeometryOverride(t *testing.T) {
	// With a wider column gap the rice and egg clusters merge into one.
	g := DefaultGeometry()
	g.ColumnGap = 150

	_, report := newTestParser(WithGeometry(g)).ParsePage(bulletinPage(1), nil)
	assert.Len(t, report.Columns, 1)
	assert.Equal(t, SkipColumnCount, report.Skip)
}

func TestNormalizeCommodity(t *testing.T) {
	p := newTestParser()
	assert.Equal(t, "Egg (Medium)", p.NormalizeCommodity("EGG   (MEDIUM)"))
	assert.Equal(t, "Pork Kasim", p.NormalizeCommodity(" Pork\nKasim "))
	assert.Equal(t, "", p.NormalizeCommodity("  "))

	assert.Equal(t, "EGG (MEDIUM)", New(WithLogger(log.Nop())).NormalizeCommodity("EGG (MEDIUM)"))
}
