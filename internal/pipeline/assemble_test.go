package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonuscheck/receipt-pipeline/constants"
	"github.com/bonuscheck/receipt-pipeline/internal/catalog"
	"github.com/bonuscheck/receipt-pipeline/internal/ocr"
	"github.com/bonuscheck/receipt-pipeline/internal/payload"
)

func tok(text string, left, top int, confidence float64) ocr.Token {
	return ocr.Token{Text: text, Confidence: confidence, Left: left, Top: top, Height: 20}
}

func cleanReceiptTokens() ocr.TokensByProfile {
	return ocr.TokensByProfile{
		constants.ProfileFull: {
			{Text: "Green", Confidence: 0.95, Left: 0, Top: 0, Height: 10},
			{Text: "Pharmacy", Confidence: 0.95, Left: 60, Top: 0, Height: 10},
			tok("21.03.2024", 0, 60, 0.9),
			tok("14:05", 120, 60, 0.9),
		},
		constants.ProfileLineItems: {
			tok("Darnitsa", 0, 0, 0.9),
			tok("Citramon", 80, 0, 0.9),
			tok("1", 160, 0, 0.9),
			tok("x", 175, 0, 0.9),
			tok("50.00", 190, 0, 0.9),
		},
		constants.ProfileTotals: {
			tok("Sum", 0, 0, 0.9),
			tok("50.00", 50, 0, 0.9),
		},
	}
}

func testCatalog() catalog.AliasIndex {
	return catalog.AliasIndex{
		{Code: "SKU-CIT-50", Aliases: []string{"darnitsa citramon 1 x 50.00"}},
	}
}

func TestAssembleCleanReceiptAutoAccepts(t *testing.T) {
	out := Assemble(cleanReceiptTokens(), testCatalog(), payload.DefaultThresholds)

	require.NotNil(t, out.Merchant)
	assert.Equal(t, "GREEN PHARMACY", *out.Merchant)
	require.NotNil(t, out.MerchantRaw)
	assert.Equal(t, "Green Pharmacy", *out.MerchantRaw)

	require.NotNil(t, out.PurchaseTS)
	assert.Equal(t, "2024-03-21T14:05:00Z", *out.PurchaseTS)

	require.NotNil(t, out.Total)
	assert.Equal(t, int64(5000), *out.Total)

	require.Len(t, out.LineItems, 1)
	item := out.LineItems[0]
	assert.Equal(t, 1, item.Quantity)
	require.NotNil(t, item.Price)
	assert.Equal(t, int64(5000), *item.Price)
	assert.True(t, item.IsBrandMatch)
	require.NotNil(t, item.SKUCode)
	assert.Equal(t, "SKU-CIT-50", *item.SKUCode)

	assert.Empty(t, out.Anomalies)
	assert.InDelta(t, 0.9, out.Confidence.Mean, 1e-9)
	assert.Equal(t, 5, out.Confidence.TokenCount)
	assert.True(t, out.Confidence.AutoAcceptCandidate)
	assert.False(t, out.ManualReviewRequired)
}

func TestAssembleTotalsMismatchForcesReview(t *testing.T) {
	tokens := cleanReceiptTokens()
	tokens[constants.ProfileTotals] = []ocr.Token{
		tok("Sum", 0, 0, 0.9),
		tok("999.00", 50, 0, 0.9),
	}
	out := Assemble(tokens, testCatalog(), payload.DefaultThresholds)

	require.NotNil(t, out.Total)
	assert.Equal(t, int64(99900), *out.Total)
	require.Len(t, out.Anomalies, 1)
	assert.True(t, strings.HasPrefix(out.Anomalies[0], "totals_mismatch:"))
	assert.True(t, out.ManualReviewRequired)
	assert.False(t, out.Confidence.AutoAcceptCandidate)
}

func TestAssembleDropsMerchantEchoLine(t *testing.T) {
	tokens := cleanReceiptTokens()
	tokens[constants.ProfileLineItems] = append([]ocr.Token{
		tok("Green", 0, 0, 0.9),
		tok("Pharmacy", 60, 0, 0.9),
	}, shiftDown(tokens[constants.ProfileLineItems], 40)...)

	out := Assemble(tokens, testCatalog(), payload.DefaultThresholds)

	require.Len(t, out.LineItems, 1)
	assert.Equal(t, "Darnitsa Citramon 1 x 50.00", out.LineItems[0].OriginalName)
}

func TestAssembleKeepsProductResemblingMerchant(t *testing.T) {
	tokens := cleanReceiptTokens()
	tokens[constants.ProfileLineItems] = append([]ocr.Token{
		tok("Green", 0, 0, 0.9),
		tok("Pharmacy", 60, 0, 0.9),
		tok("45.50", 140, 0, 0.9),
	}, shiftDown(tokens[constants.ProfileLineItems], 40)...)

	out := Assemble(tokens, testCatalog(), payload.DefaultThresholds)

	require.Len(t, out.LineItems, 2)
	assert.Equal(t, "Green Pharmacy 45.50", out.LineItems[0].OriginalName)
}

func TestAssembleEmptyInputDegradesToNullPayload(t *testing.T) {
	out := Assemble(ocr.TokensByProfile{}, catalog.AliasIndex{}, payload.DefaultThresholds)

	assert.Nil(t, out.Merchant)
	assert.Nil(t, out.PurchaseTS)
	assert.Nil(t, out.Total)
	assert.NotNil(t, out.LineItems)
	assert.Empty(t, out.LineItems)
	assert.NotNil(t, out.Anomalies)
	assert.Empty(t, out.Anomalies)
	assert.Zero(t, out.Confidence.Mean)
	assert.True(t, out.ManualReviewRequired)
	assert.False(t, out.Confidence.AutoAcceptCandidate)
}

func TestAssembleMultiItemReceipt(t *testing.T) {
	tokens := ocr.TokensByProfile{
		constants.ProfileFull: {
			{Text: "PHARMA", Confidence: 0.9, Left: 0, Top: 0, Height: 10},
			{Text: "MARKET", Confidence: 0.9, Left: 80, Top: 0, Height: 10},
			tok("body", 0, 60, 0.9),
		},
		constants.ProfileLineItems: append(
			[]ocr.Token{
				tok("Цитрамон", 0, 0, 0.9),
				tok("100,00", 120, 0, 0.9),
			},
			tok("Аспірин", 0, 40, 0.9),
			tok("100,00", 120, 40, 0.9),
		),
		constants.ProfileTotals: {
			tok("ИТОГО", 0, 0, 0.9),
			tok("200,00", 80, 0, 0.9),
		},
	}
	out := Assemble(tokens, catalog.AliasIndex{}, payload.DefaultThresholds)

	require.NotNil(t, out.Merchant)
	assert.Equal(t, "PHARMA MARKET", *out.Merchant)
	require.NotNil(t, out.Total)
	assert.Equal(t, int64(20000), *out.Total)
	require.Len(t, out.LineItems, 2)
	for _, item := range out.LineItems {
		require.NotNil(t, item.Price)
		assert.Equal(t, int64(10000), *item.Price)
		assert.Nil(t, item.SKUCode)
	}
	assert.Empty(t, out.Anomalies)
	assert.True(t, out.Confidence.AutoAcceptCandidate)
	assert.False(t, out.ManualReviewRequired)
}

func shiftDown(tokens []ocr.Token, delta int) []ocr.Token {
	out := make([]ocr.Token, len(tokens))
	for i, t := range tokens {
		t.Top += delta
		out[i] = t
	}
	return out
}
