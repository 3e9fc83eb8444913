package extractor

import (
	"strings"
)

// ProfileTag names one of the known bulletin layouts.
type ProfileTag int

const (
	// ProfileRetailRange2025 is the 2025-2026 daily retail price range
	// bulletin, recognised by its rice and egg columns.
	ProfileRetailRange2025 ProfileTag = iota
	// ProfileRetailGeneric accepts any other retail range table.
	ProfileRetailGeneric
)

func (t ProfileTag) String() string {
	switch t {
	case ProfileRetailRange2025:
		return "retail_range_2025_2026"
	case ProfileRetailGeneric:
		return "retail_range_generic"
	}
	return "unknown"
}

// LayoutProfile bounds what a page's inferred table may look like.
type LayoutProfile struct {
	Name       string
	MinColumns int
	MaxColumns int
	MinPrice   float64
	MaxPrice   float64
}

// AcceptsColumnCount reports whether n columns fit the profile.
func (p LayoutProfile) AcceptsColumnCount(n int) bool {
	return n >= p.MinColumns && n <= p.MaxColumns
}

// AcceptsPrice reports whether both bounds of a range lie within the
// profile's price bounds.
func (p LayoutProfile) AcceptsPrice(low, high float64) bool {
	if low < p.MinPrice || high < p.MinPrice {
		return false
	}
	if low > p.MaxPrice || high > p.MaxPrice {
		return false
	}
	return true
}

// Catalog holds one profile per tag.
type Catalog struct {
	RetailRange2025 LayoutProfile
	RetailGeneric   LayoutProfile
}

// DefaultCatalog returns the built-in profiles.
func DefaultCatalog() Catalog {
	return Catalog{
		RetailRange2025: LayoutProfile{
			Name:       ProfileRetailRange2025.String(),
			MinColumns: 3,
			MaxColumns: 10,
			MinPrice:   0.5,
			MaxPrice:   10000,
		},
		RetailGeneric: LayoutProfile{
			Name:       ProfileRetailGeneric.String(),
			MinColumns: 2,
			MaxColumns: 12,
			MinPrice:   0.1,
			MaxPrice:   20000,
		},
	}
}

// Profile returns the profile for tag.
func (c Catalog) Profile(tag ProfileTag) LayoutProfile {
	if tag == ProfileRetailRange2025 {
		return c.RetailRange2025
	}
	return c.RetailGeneric
}

// SelectProfile classifies a page by its column labels.
func SelectProfile(labels []string) ProfileTag {
	joined := strings.ToLower(strings.Join(labels, " "))
	if strings.Contains(joined, "well-milled") && strings.Contains(joined, "egg") {
		return ProfileRetailRange2025
	}
	return ProfileRetailGeneric
}

// countLabels counts the non-empty labels.
func countLabels(labels []string) int {
	n := 0
	for _, l := range labels {
		if l != "" {
			n++
		}
	}
	return n
}
