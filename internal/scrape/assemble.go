package scrape

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/bonuscheck/receipt-pipeline/constants"
	"github.com/bonuscheck/receipt-pipeline/internal/brand"
	"github.com/bonuscheck/receipt-pipeline/internal/catalog"
	"github.com/bonuscheck/receipt-pipeline/internal/extract"
	"github.com/bonuscheck/receipt-pipeline/internal/match"
	"github.com/bonuscheck/receipt-pipeline/internal/payload"
	"github.com/bonuscheck/receipt-pipeline/internal/textnorm"
)

var merchantHintKeywords = []string{"магазин", "торговець", "компанія", "merchant", "store"}

// Assemble builds the structured payload from a scraped page. The rows skip
// clustering but still flow through normalization, brand detection, and SKU
// matching, and the same decision policy applies.
func Assemble(page Page, idx catalog.AliasIndex, t payload.Thresholds) *payload.StructuredPayload {
	raw := lineItems(page)
	items := make([]payload.LineItem, 0, len(raw))
	for _, it := range raw {
		items = append(items, enrich(it, idx))
	}

	total := detectTotal(page.Text, raw)
	purchaseTS := extract.TimestampFromText(page.Text)

	var lineTotalSum int64
	for _, item := range items {
		if item.Price != nil {
			lineTotalSum += *item.Price * int64(item.Quantity)
		}
	}
	anomalies := []string{}
	if total != nil && *total > 0 && lineTotalSum > 0 {
		delta := *total - lineTotalSum
		if delta < 0 {
			delta = -delta
		}
		deltaPercent := float64(delta) / float64(*total) * 100
		if deltaPercent > t.TotalsTolerancePercent {
			anomalies = append(anomalies, fmt.Sprintf("totals_mismatch:%.2f", deltaPercent))
		}
	}

	mean, min, max := payload.Stats(items)
	manualReview, autoAccept := payload.Decide(t, mean, total, anomalies)

	out := &payload.StructuredPayload{
		Total:     total,
		LineItems: items,
		Confidence: payload.ConfidenceStats{
			Mean:                mean,
			Min:                 min,
			Max:                 max,
			TokenCount:          len(items),
			AutoAcceptCandidate: autoAccept,
		},
		ManualReviewRequired: manualReview,
		Anomalies:            anomalies,
	}
	if merchant := merchantFromText(page.Text); merchant != "" {
		name := textnorm.Normalize(merchant)
		script := textnorm.NormalizeScript(merchant)
		out.Merchant = &name
		out.MerchantRaw = &script
	}
	if purchaseTS != nil {
		iso := purchaseTS.Format(time.RFC3339)
		out.PurchaseTS = &iso
	}
	return out
}

// enrich mirrors the OCR line-item shape: scraped rows are authoritative,
// so confidence is pinned to 1.0.
func enrich(it item, idx catalog.AliasIndex) payload.LineItem {
	name := textnorm.NormalizeScript(it.name)
	normalized := textnorm.Normalize(it.name)

	code, score := match.Best(normalized, idx)
	var skuCode *string
	if code != "" && score >= match.ScoreThreshold {
		skuCode = &code
	}

	price := it.price
	return payload.LineItem{
		Name:           name,
		OriginalName:   it.name,
		NormalizedName: normalized,
		Quantity:       it.quantity,
		Price:          &price,
		Confidence:     1.0,
		SKUCode:        skuCode,
		SKUMatchScore:  score,
		IsBrandMatch:   brand.HasPrefix(name) || brand.HasPrefix(normalized),
	}
}

// detectTotal prefers a keyword-anchored amount in the page text and falls
// back to the computed sum over the extracted rows.
func detectTotal(text string, raw []item) *int64 {
	lower := strings.ToLower(text)
	for _, keyword := range constants.TotalKeywords {
		re := regexp.MustCompile(regexp.QuoteMeta(keyword) + `[:\s]+(\d+[.,]\d+)`)
		if m := re.FindStringSubmatch(lower); m != nil {
			v := toMinorUnits(m[1])
			return &v
		}
	}
	if len(raw) == 0 {
		return nil
	}
	var computed int64
	for _, it := range raw {
		computed += it.price * int64(it.quantity)
	}
	if computed <= 0 {
		return nil
	}
	return &computed
}

// merchantFromText scans for a labeled merchant line and returns the line
// after it.
func merchantFromText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lower := strings.ToLower(line)
		for _, keyword := range merchantHintKeywords {
			if !strings.Contains(lower, keyword) {
				continue
			}
			if i+1 < len(lines) {
				candidate := strings.TrimSpace(lines[i+1])
				if len(candidate) > 3 {
					return candidate
				}
			}
		}
	}
	return ""
}

func toMinorUnits(value string) int64 {
	return extract.ToMinorUnits(value)
}
