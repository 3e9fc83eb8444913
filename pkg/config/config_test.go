package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyhub-apps/pricebulletin/pkg/extractor"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "Well-milled Rice (Local)", cfg.Commodities["WELL-MILLED RICE (LOCAL)"])
	assert.Equal(t, "Egg (Medium)", cfg.Commodities["EGG (MEDIUM)"])
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, extractor.DefaultGeometry(), cfg.Geometry())
	assert.Equal(t, extractor.DefaultCatalog(), cfg.Catalog())

	// Callers may mutate their copy freely.
	cfg.Commodities["X"] = "Y"
	_, ok := Default().Commodities["X"]
	assert.False(t, ok)
}

func TestParseYAML(t *testing.T) {
	cfg, err := Parse([]byte(`
commodities:
  "PORK KASIM": "Pork (Kasim)"
  "SALMON BELLY": "Salmon Belly"
profiles:
  retail_range_2025_2026:
    min_columns: 2
workers: 4
column_gap: 25
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, "Pork (Kasim)", cfg.Commodities["PORK KASIM"], "file entries win")
	assert.Equal(t, "Salmon Belly", cfg.Commodities["SALMON BELLY"])
	assert.Equal(t, "Egg (Medium)", cfg.Commodities["EGG (MEDIUM)"], "embedded entries are kept")
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 25.0, cfg.ColumnGap)
	assert.Equal(t, 3.0, cfg.LineTolerance)
	assert.Equal(t, "debug", cfg.LogLevel)

	cat := cfg.Catalog()
	assert.Equal(t, 2, cat.RetailRange2025.MinColumns)
	assert.Equal(t, 10, cat.RetailRange2025.MaxColumns)
	assert.Equal(t, extractor.DefaultCatalog().RetailGeneric, cat.RetailGeneric)
}

func TestParseJSON(t *testing.T) {
	cfg, err := Parse([]byte(`{"workers": 2, "geometry_lines": 5, "commodities": {"TOMATO": "Tomato (Local)"}}`))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, 5, cfg.GeometryLines)
	assert.Equal(t, "Tomato (Local)", cfg.Commodities["TOMATO"])
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown key", "wokers: 2"},
		{"malformed", "commodities: ["},
		{"negative workers", "workers: -1"},
		{"negative tolerance", "line_tolerance: -3"},
		{"negative margin", "market_margin: -1"},
		{"unknown profile", "profiles: {retail_weekly: {min_columns: 2}}"},
		{"inverted columns", "profiles: {retail_range_generic: {min_columns: 20}}"},
		{"inverted prices", "profiles: {retail_range_generic: {min_price: 50000}}"},
		{"bad log level", "log_level: loud"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(t.TempDir(), "bulletin.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 3\n"), 0o600))
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParserOptions(t *testing.T) {
	cfg := Default()
	p := extractor.New(cfg.ParserOptions()...)
	assert.Equal(t, "Well-milled Rice (Local)", p.NormalizeCommodity("well-milled   rice (local)"))
}
