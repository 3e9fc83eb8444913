package config

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalizer maps raw column labels to canonical commodity names. Labels
// are matched exactly after whitespace collapsing first, then by a folded
// key that ignores case and Unicode compatibility differences such as
// full-width letters. Unknown labels pass through with whitespace collapsed.
type Normalizer struct {
	exact  map[string]string
	folded map[string]string
}

// NewNormalizer indexes table once; the result is read-only.
func NewNormalizer(table map[string]string) *Normalizer {
	n := &Normalizer{
		exact:  make(map[string]string, len(table)),
		folded: make(map[string]string, len(table)),
	}
	for raw, canonical := range table {
		n.exact[collapse(raw)] = canonical
		key := foldKey(raw)
		// On a folded-key collision the lexicographically smallest
		// canonical name wins, independent of map iteration order.
		if prev, ok := n.folded[key]; !ok || canonical < prev {
			n.folded[key] = canonical
		}
	}
	return n
}

// Normalize implements extractor.Normalizer.
func (n *Normalizer) Normalize(label string) string {
	name := collapse(label)
	if name == "" {
		return ""
	}
	if canonical, ok := n.exact[name]; ok {
		return canonical
	}
	if canonical, ok := n.folded[foldKey(name)]; ok {
		return canonical
	}
	return name
}

// Len returns the number of labels in the table.
func (n *Normalizer) Len() int {
	return len(n.exact)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func foldKey(s string) string {
	return collapse(cases.Fold().String(norm.NFKC.String(s)))
}
