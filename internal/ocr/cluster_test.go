package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bonuscheck/receipt-pipeline/constants"
)

func token(text string, left, top int) Token {
	return Token{
		Text:       text,
		Confidence: 0.9,
		Left:       left,
		Top:        top,
		Width:      10,
		Height:     10,
		Profile:    constants.ProfileLineItems,
	}
}

func TestClusterByLineGroupsRows(t *testing.T) {
	tokens := []Token{
		token("A", 0, 0),
		token("B", 10, 2),
		token("C", 0, 30),
	}
	clusters := ClusterByLine(tokens, DefaultYThreshold)
	assert.Len(t, clusters, 2)
	assert.Equal(t, "A B", clusters[0].Text)
	assert.Equal(t, "C", clusters[1].Text)
}

func TestClusterByLineJoinsLeftToRight(t *testing.T) {
	tokens := []Token{
		token("50.00", 120, 60),
		token("Citramon", 0, 61),
		token("x", 90, 62),
	}
	clusters := ClusterByLine(tokens, DefaultYThreshold)
	assert.Len(t, clusters, 1)
	assert.Equal(t, "Citramon x 50.00", clusters[0].Text)
}

func TestClusterByLinePartitionsNonEmptyTokens(t *testing.T) {
	tokens := []Token{
		token("A", 0, 0),
		token("", 5, 1), // dropped before clustering
		token("B", 10, 2),
		token("C", 0, 40),
		token("D", 20, 45),
		token("E", 0, 95),
	}
	clusters := ClusterByLine(tokens, DefaultYThreshold)

	total := 0
	for _, c := range clusters {
		assert.NotEmpty(t, c.Tokens)
		total += len(c.Tokens)
	}
	assert.Equal(t, 5, total, "every non-empty token lands in exactly one cluster")
}

func TestClusterByLineSequentialGapDrifts(t *testing.T) {
	// consecutive gaps stay under the threshold, so the cluster's span may
	// exceed it
	tokens := []Token{
		token("a", 0, 0),
		token("b", 10, 15),
		token("c", 20, 30),
	}
	clusters := ClusterByLine(tokens, DefaultYThreshold)
	assert.Len(t, clusters, 1)
}

func TestClusterConfidenceIsMean(t *testing.T) {
	a := token("a", 0, 0)
	a.Confidence = 0.5
	b := token("b", 10, 1)
	b.Confidence = 1.0
	clusters := ClusterByLine([]Token{a, b}, DefaultYThreshold)
	assert.Len(t, clusters, 1)
	assert.InDelta(t, 0.75, clusters[0].Confidence(), 1e-9)
}

func TestClusterByLineEmptyInput(t *testing.T) {
	assert.Empty(t, ClusterByLine(nil, DefaultYThreshold))
	assert.Empty(t, ClusterByLine([]Token{token("", 0, 0)}, DefaultYThreshold))
}
