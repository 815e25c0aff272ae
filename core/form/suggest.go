package form

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// minSuggestRatio is the similarity below which an option is not worth
// suggesting.
const minSuggestRatio = 0.5

// closestOption returns the enumerated option most similar to the rejected
// value, or "" when nothing comes close.
func closestOption(val string, options []string) string {
	var best string
	var bestRatio float64
	valChars := strings.Split(strings.ToLower(val), "")
	for _, opt := range options {
		ratio := difflib.NewMatcher(valChars, strings.Split(strings.ToLower(opt), "")).QuickRatio()
		if ratio > bestRatio {
			best, bestRatio = opt, ratio
		}
	}
	if bestRatio < minSuggestRatio {
		return ""
	}
	return best
}
