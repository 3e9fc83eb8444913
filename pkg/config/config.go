// Package config loads the commodity normalization table, the layout
// profile bounds and the extractor tolerances from YAML or JSON.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pyhub-apps/pricebulletin/pkg/extractor"
	"github.com/pyhub-apps/pricebulletin/pkg/log"
)

//go:embed commodities.yaml
var defaultCommodities []byte

// ProfileBounds overrides the bounds of one layout profile. Zero fields
// keep the built-in value.
type ProfileBounds struct {
	MinColumns int     `yaml:"min_columns" json:"min_columns"`
	MaxColumns int     `yaml:"max_columns" json:"max_columns"`
	MinPrice   float64 `yaml:"min_price" json:"min_price"`
	MaxPrice   float64 `yaml:"max_price" json:"max_price"`
}

// Config is the extractor configuration.
type Config struct {
	// Commodities maps raw column labels to canonical commodity names.
	Commodities map[string]string `yaml:"commodities" json:"commodities"`
	// Profiles overrides layout profile bounds, keyed by profile name.
	Profiles map[string]ProfileBounds `yaml:"profiles" json:"profiles"`

	Workers       int     `yaml:"workers" json:"workers"`
	LineTolerance float64 `yaml:"line_tolerance" json:"line_tolerance"`
	ColumnGap     float64 `yaml:"column_gap" json:"column_gap"`
	MarketMargin  float64 `yaml:"market_margin" json:"market_margin"`
	GeometryLines int     `yaml:"geometry_lines" json:"geometry_lines"`
	LogLevel      string  `yaml:"log_level" json:"log_level"`
}

// Default returns the built-in configuration with the embedded
// normalization table.
func Default() *Config {
	var table struct {
		Commodities map[string]string `yaml:"commodities"`
	}
	if err := yaml.Unmarshal(defaultCommodities, &table); err != nil {
		panic(fmt.Sprintf("config: embedded commodity table: %v", err))
	}
	g := extractor.DefaultGeometry()
	return &Config{
		Commodities:   table.Commodities,
		Profiles:      map[string]ProfileBounds{},
		Workers:       1,
		LineTolerance: g.LineTolerance,
		ColumnGap:     g.ColumnGap,
		MarketMargin:  g.MarketMargin,
		GeometryLines: g.GeometryLines,
		LogLevel:      log.LevelInfo,
	}
}

// Load reads a configuration file. An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML or JSON on top of Default(). Commodity labels in the
// document extend the embedded table and win on conflict. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	var file Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	for raw, canonical := range file.Commodities {
		cfg.Commodities[raw] = canonical
	}
	for name, b := range file.Profiles {
		cfg.Profiles[name] = b
	}
	if file.Workers != 0 {
		cfg.Workers = file.Workers
	}
	if file.LineTolerance != 0 {
		cfg.LineTolerance = file.LineTolerance
	}
	if file.ColumnGap != 0 {
		cfg.ColumnGap = file.ColumnGap
	}
	if file.MarketMargin != 0 {
		cfg.MarketMargin = file.MarketMargin
	}
	if file.GeometryLines != 0 {
		cfg.GeometryLines = file.GeometryLines
	}
	if file.LogLevel != "" {
		cfg.LogLevel = file.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks tolerances and profile bounds.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.LineTolerance <= 0 {
		return fmt.Errorf("line_tolerance must be positive, got %v", c.LineTolerance)
	}
	if c.ColumnGap <= 0 {
		return fmt.Errorf("column_gap must be positive, got %v", c.ColumnGap)
	}
	if c.MarketMargin < 0 {
		return fmt.Errorf("market_margin must not be negative, got %v", c.MarketMargin)
	}
	if c.GeometryLines < 1 {
		return fmt.Errorf("geometry_lines must be at least 1, got %d", c.GeometryLines)
	}
	switch c.LogLevel {
	case "", log.LevelDebug, log.LevelInfo, log.LevelWarn, log.LevelError:
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}

	known := extractor.DefaultCatalog()
	for name := range c.Profiles {
		if name != known.RetailRange2025.Name && name != known.RetailGeneric.Name {
			return fmt.Errorf("unknown profile %q", name)
		}
	}
	cat := c.Catalog()
	for _, p := range []extractor.LayoutProfile{cat.RetailRange2025, cat.RetailGeneric} {
		if p.MinColumns < 1 || p.MinColumns > p.MaxColumns {
			return fmt.Errorf("profile %s: invalid column bounds %d-%d", p.Name, p.MinColumns, p.MaxColumns)
		}
		if p.MinPrice < 0 || p.MinPrice > p.MaxPrice {
			return fmt.Errorf("profile %s: invalid price bounds %v-%v", p.Name, p.MinPrice, p.MaxPrice)
		}
	}
	return nil
}

// Catalog returns the built-in layout profiles with overrides applied.
func (c *Config) Catalog() extractor.Catalog {
	cat := extractor.DefaultCatalog()
	cat.RetailRange2025 = override(cat.RetailRange2025, c.Profiles[cat.RetailRange2025.Name])
	cat.RetailGeneric = override(cat.RetailGeneric, c.Profiles[cat.RetailGeneric.Name])
	return cat
}

func override(p extractor.LayoutProfile, b ProfileBounds) extractor.LayoutProfile {
	if b.MinColumns != 0 {
		p.MinColumns = b.MinColumns
	}
	if b.MaxColumns != 0 {
		p.MaxColumns = b.MaxColumns
	}
	if b.MinPrice != 0 {
		p.MinPrice = b.MinPrice
	}
	if b.MaxPrice != 0 {
		p.MaxPrice = b.MaxPrice
	}
	return p
}

// Geometry returns the layout tolerances.
func (c *Config) Geometry() extractor.Geometry {
	return extractor.Geometry{
		LineTolerance: c.LineTolerance,
		ColumnGap:     c.ColumnGap,
		MarketMargin:  c.MarketMargin,
		GeometryLines: c.GeometryLines,
	}
}

// ParserOptions turns the configuration into extractor options.
func (c *Config) ParserOptions() []extractor.Option {
	return []extractor.Option{
		extractor.WithNormalizer(NewNormalizer(c.Commodities)),
		extractor.WithCatalog(c.Catalog()),
		extractor.WithGeometry(c.Geometry()),
		extractor.WithWorkers(c.Workers),
	}
}
