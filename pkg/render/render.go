// Package render decides whether a lightly fetched page is complete enough
// to extract from, or whether it should be fetched again through a browser.
package render

import "strings"

// Policy reports whether html needs a heavier, JavaScript-executing fetch.
type Policy interface {
	NeedsHeavierFetch(html string) bool
}

// DefaultKeywords are the labels a fully rendered fund page shows.
var DefaultKeywords = []string{"AUM", "Expense Ratio", "Alpha", "Sharpe", "Beta", "Standard Deviation"}

// DefaultThreshold is the fewest keywords a complete page is expected to contain.
const DefaultThreshold = 2

// KeywordPolicy flags pages that mention fewer than Threshold of Keywords.
// Matching is case-insensitive substring search over the raw document.
type KeywordPolicy struct {
	Keywords  []string
	Threshold int
}

// Default returns the keyword policy used for fund pages.
func Default() KeywordPolicy {
	return KeywordPolicy{Keywords: DefaultKeywords, Threshold: DefaultThreshold}
}

// NeedsHeavierFetch implements Policy.
func (p KeywordPolicy) NeedsHeavierFetch(html string) bool {
	return p.Count(html) < p.Threshold
}

// Count returns how many distinct keywords occur in html.
func (p KeywordPolicy) Count(html string) int {
	text := strings.ToLower(html)
	n := 0
	for _, kw := range p.Keywords {
		if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
			n++
		}
	}
	return n
}

// Never is a Policy that always accepts the light fetch.
type Never struct{}

// NeedsHeavierFetch implements Policy.
func (Never) NeedsHeavierFetch(string) bool { return false }
