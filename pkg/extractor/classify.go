package extractor

import (
	"regexp"
	"strings"
	"time"
)

// categoryRules is checked in order and the first hit wins, so a name
// matching two lists lands in the earlier one ("eggplant" is Eggs).
var categoryRules = []struct {
	category string
	keywords []string
}{
	{"Rice", []string{"rice"}},
	{"Eggs", []string{"egg"}},
	{"Fish", []string{"tilapia", "galunggong", "bangus", "sardines", "tamban", "pusit", "squid", "alumahan"}},
	{"Meat", []string{"beef", "pork", "chicken", "kasim", "liempo", "ham", "brisket"}},
	{"Fruits", []string{"banana", "papaya", "mango", "avocado", "melon", "pomelo", "watermelon", "calamansi"}},
	{"Vegetables", []string{
		"onion", "garlic", "ginger", "chili", "ampalaya", "sitao", "pechay", "kalabasa", "eggplant",
		"tomato", "broccoli", "cabbage", "carrot", "potato", "chayote", "cauliflower", "celery",
		"lettuce", "bell pepper",
	}},
	{"Staples", []string{"sugar", "oil"}},
	{"Grains", []string{"corn", "mung bean", "mung", "grits"}},
}

// DeriveCategory maps a commodity label to its category by keyword, or ""
// when nothing matches.
func DeriveCategory(commodity string) string {
	name := strings.ToLower(commodity)
	if name == "" {
		return ""
	}
	for _, rule := range categoryRules {
		for _, k := range rule.keywords {
			if strings.Contains(name, k) {
				return rule.category
			}
		}
	}
	return ""
}

// DefaultUnit applies when a page does not state its unit.
const DefaultUnit = "kg"

var unitPattern = regexp.MustCompile(`(?i)COMMODITY\s*\(([^)]+)\)`)

// ExtractUnit reads the unit from a "COMMODITY (unit)" heading in page text.
func ExtractUnit(text string) string {
	m := unitPattern.FindStringSubmatch(text)
	if m == nil {
		return DefaultUnit
	}
	unit := strings.ToUpper(m[1])
	switch {
	case strings.Contains(unit, "KG"):
		return "kg"
	case strings.Contains(unit, "PC"), strings.Contains(unit, "PIECE"):
		return "piece"
	case strings.Contains(unit, "BTL"), strings.Contains(unit, "BOTTLE"):
		return "bottle"
	}
	return DefaultUnit
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`([A-Z][a-z]+ \d{1,2}, \d{4})`), // December 22, 2025
	regexp.MustCompile(`(\d{1,2} [A-Z][a-z]+ \d{4})`),  // 22 December 2025
}

var dateLayouts = []string{
	"January 2, 2006",
	"2 January 2006",
}

// ExtractDate finds the first report date in text. Each pattern's first
// match is tried against both layouts before moving on to the next pattern.
func ExtractDate(text string) (time.Time, bool) {
	if text == "" {
		return time.Time{}, false
	}
	for _, p := range datePatterns {
		m := p.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, m[1]); err == nil {
				return d, true
			}
		}
	}
	return time.Time{}, false
}

// reportDate scans at most the first two pages for a date.
func reportDate(pages []Page) *time.Time {
	for i := 0; i < len(pages) && i < 2; i++ {
		if d, ok := ExtractDate(pages[i].Text); ok {
			return &d
		}
	}
	return nil
}
