package extractor

import (
	"fmt"
	"sort"
	"strings"
)

// DeriveColumnCenters clusters the x0 of every value token found in the
// first maxLines data lines. Sorted positions further than gap from their
// predecessor open a new cluster; each cluster's mean is a column center.
// The result is strictly increasing.
func DeriveColumnCenters(dataLines []Line, maxLines int, gap float64) []float64 {
	if len(dataLines) > maxLines {
		dataLines = dataLines[:maxLines]
	}

	var xs []float64
	for _, line := range dataLines {
		for _, t := range line {
			if IsValueToken(t.Text) {
				xs = append(xs, t.X0)
			}
		}
	}
	if len(xs) == 0 {
		return nil
	}
	sort.Float64s(xs)

	var clusters [][]float64
	for _, x := range xs {
		if len(clusters) == 0 {
			clusters = append(clusters, []float64{x})
			continue
		}
		last := clusters[len(clusters)-1]
		if x-last[len(last)-1] > gap {
			clusters = append(clusters, []float64{x})
			continue
		}
		clusters[len(clusters)-1] = append(last, x)
	}

	centers := make([]float64, len(clusters))
	for i, c := range clusters {
		sum := 0.0
		for _, x := range c {
			sum += x
		}
		centers[i] = sum / float64(len(c))
	}
	return centers
}

// nearestColumn returns the index of the center closest to x. Ties go to
// the lower index. It returns -1 when there are no centers.
func nearestColumn(x float64, centers []float64) int {
	best := -1
	bestDist := 0.0
	for i, c := range centers {
		d := abs(x - c)
		if best < 0 || d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// BuildColumnLabels assigns each header token (except "MARKET") to its
// nearest column and joins each column's tokens in reading order, which
// folds headers wrapped over several printed rows into one label.
// A column that received nothing is labelled "Column N".
func BuildColumnLabels(headerLines []Line, centers []float64) []string {
	parts := make([][]Token, len(centers))
	for _, line := range headerLines {
		for _, t := range line {
			if strings.EqualFold(t.Text, "MARKET") {
				continue
			}
			idx := nearestColumn(t.X0, centers)
			if idx < 0 {
				continue
			}
			parts[idx] = append(parts[idx], t)
		}
	}

	labels := make([]string, len(centers))
	for i, toks := range parts {
		sort.SliceStable(toks, func(a, b int) bool {
			if toks[a].Top != toks[b].Top {
				return toks[a].Top < toks[b].Top
			}
			return toks[a].X0 < toks[b].X0
		})
		label := strings.ReplaceAll(Line(toks).Text(), "*", "")
		label = strings.Join(strings.Fields(label), " ")
		if label == "" {
			label = fmt.Sprintf("Column %d", i+1)
		}
		labels[i] = label
	}
	return labels
}
