package ocr

import (
	"sort"
	"strings"
)

// DefaultYThreshold is the vertical gap (px) that separates logical lines.
// The totals crop uses a looser threshold because totals blocks are printed
// with wider line spacing.
const (
	DefaultYThreshold = 18
	TotalsYThreshold  = 25
)

// LineCluster groups tokens that form one logical receipt line. Text is the
// left-to-right join of the member tokens. Clusters are never empty by
// construction.
type LineCluster struct {
	Text   string
	Tokens []Token
}

// Confidence is the arithmetic mean of member token confidences.
func (c LineCluster) Confidence() float64 {
	if len(c.Tokens) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, t := range c.Tokens {
		sum += t.Confidence
	}
	return sum / float64(len(c.Tokens))
}

// ClusterByLine groups tokens into logical lines by vertical proximity.
// Tokens are sorted by top position and accumulated while each token sits
// within yThreshold of the previous token's top (a sequential-gap test, so a
// cluster can drift beyond the threshold over many tokens). Empty-text
// tokens are dropped before clustering; empty clusters are filtered out.
func ClusterByLine(tokens []Token, yThreshold int) []LineCluster {
	kept := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Text == "" {
			continue
		}
		kept = append(kept, t)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Top < kept[j].Top })

	var groups [][]Token
	var current []Token
	lastTop := -1
	for _, t := range kept {
		if lastTop < 0 || abs(t.Top-lastTop) <= yThreshold {
			current = append(current, t)
		} else {
			groups = append(groups, current)
			current = []Token{t}
		}
		lastTop = t.Top
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}

	clusters := make([]LineCluster, 0, len(groups))
	for _, g := range groups {
		text := joinLeftToRight(g)
		if text == "" {
			continue
		}
		clusters = append(clusters, LineCluster{Text: text, Tokens: g})
	}
	return clusters
}

// joinLeftToRight reconstructs natural reading order within one line.
func joinLeftToRight(tokens []Token) string {
	ordered := make([]Token, len(tokens))
	copy(ordered, tokens)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Left < ordered[j].Left })
	parts := make([]string, 0, len(ordered))
	for _, t := range ordered {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
