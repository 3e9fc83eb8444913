package extractor

import (
	"regexp"
	"strconv"
	"strings"
)

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

// ParsePriceRange reads a low/high range out of cell text. One number
// gives low == high; with two or more the first two are used and swapped
// if printed high-first. ok is false when the text holds no number.
func ParsePriceRange(text string) (low, high float64, ok bool) {
	var nums []float64
	for _, m := range numberPattern.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		nums = append(nums, v)
		if len(nums) == 2 {
			break
		}
	}

	switch len(nums) {
	case 0:
		return 0, 0, false
	case 1:
		return nums[0], nums[0], true
	}
	low, high = nums[0], nums[1]
	if high < low {
		low, high = high, low
	}
	return low, high, true
}

// Prevailing returns the midpoint of low and high rounded to cents, the only
// bound present when the other is nil, or nil when both are. The stored
// midpoint is rounded as a decimal, so 1.075 (held as 1.07499...) gives 1.07
// and only exact halves such as 8.625 go to the even cent.
func Prevailing(low, high *float64) *float64 {
	switch {
	case low == nil && high == nil:
		return nil
	case low == nil:
		v := *high
		return &v
	case high == nil:
		v := *low
		return &v
	}
	v, _ := strconv.ParseFloat(strconv.FormatFloat((*low+*high)/2, 'f', 2, 64), 64)
	return &v
}

// isNotAvailable reports whether a cell carries the "NOT AVAILABLE" sentinel.
func isNotAvailable(text string) bool {
	return strings.Contains(strings.ToUpper(text), "NOT AVAILABLE")
}
