package extract

import (
	"regexp"
	"strconv"

	"github.com/bonuscheck/receipt-pipeline/internal/brand"
	"github.com/bonuscheck/receipt-pipeline/internal/catalog"
	"github.com/bonuscheck/receipt-pipeline/internal/match"
	"github.com/bonuscheck/receipt-pipeline/internal/ocr"
	"github.com/bonuscheck/receipt-pipeline/internal/payload"
	"github.com/bonuscheck/receipt-pipeline/internal/textnorm"
)

// multiplierRe captures "qty x price" with the multiplication sign written
// as Latin x, Cyrillic х, or the × glyph.
var multiplierRe = regexp.MustCompile(`(?i)(\d+)\s*[xх×]\s*(\d+[.,]?\d*)`)

// merchantEchoSimilarity is the fuzzy cutoff above which a line item is
// considered a re-read of the store header.
const merchantEchoSimilarity = 0.85

// BuildLineItem converts one line cluster into a structured item: normalize,
// pull quantity/price, match the catalog, flag the brand. SKU codes below
// the match threshold stay null but the near-miss score is kept for logging.
func BuildLineItem(cluster ocr.LineCluster, idx catalog.AliasIndex) payload.LineItem {
	name := textnorm.NormalizeScript(cluster.Text)
	normalized := textnorm.Normalize(cluster.Text)
	// Quantity parsing runs on the original script: transliteration would
	// rewrite a Cyrillic multiplication sign and hide the qty pattern.
	quantity, price := QuantityAndPrice(name)

	code, score := match.Best(normalized, idx)
	var skuCode *string
	if code != "" && score >= match.ScoreThreshold {
		skuCode = &code
	}

	// Both forms are checked so the flag works for Cyrillic receipts and
	// transliterated scrapes alike.
	isBrand := brand.HasPrefix(name) || brand.HasPrefix(normalized)

	return payload.LineItem{
		Name:           name,
		OriginalName:   cluster.Text,
		NormalizedName: normalized,
		Quantity:       quantity,
		Price:          price,
		Confidence:     cluster.Confidence(),
		SKUCode:        skuCode,
		SKUMatchScore:  score,
		IsBrandMatch:   isBrand,
	}
}

// QuantityAndPrice extracts (quantity, unit price in kopecks) from a line.
// Strategy one: an explicit "qty x price" pattern yields both. Strategy two:
// the last bare number in the line is the price, quantity defaults to 1.
// No number at all leaves price nil.
func QuantityAndPrice(text string) (int, *int64) {
	if m := multiplierRe.FindStringSubmatch(text); m != nil {
		quantity, err := strconv.Atoi(m[1])
		if err != nil || quantity < 1 {
			quantity = 1
		}
		price := ToMinorUnits(m[2])
		return quantity, &price
	}
	numbers := numberRe.FindAllString(text, -1)
	if len(numbers) == 0 {
		return 1, nil
	}
	price := ToMinorUnits(numbers[len(numbers)-1])
	return 1, &price
}

// IsMerchantEcho reports whether a built line item is really the store
// header read a second time. Only candidates with no product-shaped numeric
// content qualify, so a genuine product that happens to resemble the
// merchant name keeps its price pattern and survives.
func IsMerchantEcho(item payload.LineItem, merchantName string) bool {
	if merchantName == "" {
		return false
	}
	if item.Price != nil || HasProductShape(item.NormalizedName) {
		return false
	}
	return match.Similarity(item.NormalizedName, merchantName) >= merchantEchoSimilarity
}
