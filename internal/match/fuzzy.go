// Package match maps free-text product names to catalog SKUs.
package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agext/levenshtein"

	"github.com/bonuscheck/receipt-pipeline/internal/catalog"
)

// ScoreThreshold is the similarity cutoff callers apply to decide whether
// the best candidate is a real match. The matcher itself always returns the
// best candidate so near-misses can be logged.
const ScoreThreshold = 0.75

// Best returns the highest-scoring (SKU, score) pair across every alias of
// every SKU, comparing case-insensitively with normalized Levenshtein
// similarity. Ties keep the first-encountered SKU (the index is ordered).
// An empty name or empty catalog yields ("", 0).
func Best(name string, idx catalog.AliasIndex) (string, float64) {
	normalized := strings.ToLower(name)
	bestScore := 0.0
	bestCode := ""
	for _, entry := range idx {
		for _, alias := range entry.Aliases {
			score := Similarity(normalized, strings.ToLower(alias))
			if score > bestScore {
				bestScore = score
				bestCode = entry.Code
			}
		}
	}
	return bestCode, bestScore
}

// Similarity is 1 - dist/maxLen over rune counts, in [0,1]. Two empty
// strings score 0, not 1: an empty product name matches nothing.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	maxLen := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > maxLen {
		maxLen = lb
	}
	dist := levenshtein.Distance(a, b, nil)
	return 1.0 - float64(dist)/float64(maxLen)
}
