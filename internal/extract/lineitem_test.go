package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bonuscheck/receipt-pipeline/internal/catalog"
	"github.com/bonuscheck/receipt-pipeline/internal/ocr"
	"github.com/bonuscheck/receipt-pipeline/internal/payload"
)

func TestQuantityAndPriceMultiplier(t *testing.T) {
	for _, text := range []string{
		"Citramon 2 x 25,50",
		"Цитрамон 2 х 25,50", // Cyrillic multiplication sign
		"Citramon 2 × 25,50",
	} {
		qty, price := QuantityAndPrice(text)
		require.NotNil(t, price, "input %q", text)
		assert.Equal(t, 2, qty)
		assert.Equal(t, int64(2550), *price)
	}
}

func TestQuantityAndPriceLastNumberFallback(t *testing.T) {
	qty, price := QuantityAndPrice("Citramon No10 45.50")
	require.NotNil(t, price)
	assert.Equal(t, 1, qty)
	assert.Equal(t, int64(4550), *price)
}

func TestQuantityAndPriceNoNumbers(t *testing.T) {
	qty, price := QuantityAndPrice("Citramon")
	assert.Equal(t, 1, qty)
	assert.Nil(t, price)
}

func TestQuantityAndPriceZeroQuantityClamped(t *testing.T) {
	qty, price := QuantityAndPrice("Citramon 0 x 25,50")
	require.NotNil(t, price)
	assert.Equal(t, 1, qty)
	assert.Equal(t, int64(2550), *price)
}

func TestBuildLineItemMatched(t *testing.T) {
	idx := catalog.AliasIndex{
		{Code: "SKU-42", Aliases: []string{"tsitramon darnitsia 1 x 50,00"}},
	}
	c := ocr.LineCluster{
		Text:   "Цитрамон Дарниця 1 x 50,00",
		Tokens: []ocr.Token{{Text: "Цитрамон", Confidence: 0.9}, {Text: "Дарниця", Confidence: 0.8}},
	}
	item := BuildLineItem(c, idx)
	assert.Equal(t, "Цитрамон Дарниця 1 x 50,00", item.OriginalName)
	assert.Equal(t, "TSITRAMON DARNITSIA 1 X 50,00", item.NormalizedName)
	assert.Equal(t, 1, item.Quantity)
	require.NotNil(t, item.Price)
	assert.Equal(t, int64(5000), *item.Price)
	require.NotNil(t, item.SKUCode)
	assert.Equal(t, "SKU-42", *item.SKUCode)
	assert.Equal(t, 1.0, item.SKUMatchScore)
	assert.True(t, item.IsBrandMatch)
	assert.InDelta(t, 0.85, item.Confidence, 1e-9)
}

func TestBuildLineItemBelowThresholdKeepsScore(t *testing.T) {
	idx := catalog.AliasIndex{
		{Code: "SKU-1", Aliases: []string{"citramon"}},
	}
	c := ocr.LineCluster{
		Text:   "Citramon 1 x 100,00",
		Tokens: []ocr.Token{{Text: "Citramon", Confidence: 0.9}},
	}
	item := BuildLineItem(c, idx)
	assert.Nil(t, item.SKUCode)
	assert.Greater(t, item.SKUMatchScore, 0.0)
	assert.False(t, item.IsBrandMatch)
}

func TestIsMerchantEcho(t *testing.T) {
	echo := payload.LineItem{NormalizedName: "GREEN PHARMACY"}
	assert.True(t, IsMerchantEcho(echo, "GREEN PHARMACY"))

	price := int64(5000)
	priced := payload.LineItem{NormalizedName: "GREEN PHARMACY", Price: &price}
	assert.False(t, IsMerchantEcho(priced, "GREEN PHARMACY"))

	product := payload.LineItem{NormalizedName: "GREEN PHARMACY 45.50"}
	assert.False(t, IsMerchantEcho(product, "GREEN PHARMACY"))

	other := payload.LineItem{NormalizedName: "CITRAMON"}
	assert.False(t, IsMerchantEcho(other, "GREEN PHARMACY"))
	assert.False(t, IsMerchantEcho(echo, ""))
}
