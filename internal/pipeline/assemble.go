package pipeline

import (
	"fmt"
	"time"

	"github.com/bonuscheck/receipt-pipeline/constants"
	"github.com/bonuscheck/receipt-pipeline/internal/catalog"
	"github.com/bonuscheck/receipt-pipeline/internal/extract"
	"github.com/bonuscheck/receipt-pipeline/internal/ocr"
	"github.com/bonuscheck/receipt-pipeline/internal/payload"
)

// Assemble runs the postprocessing core over one receipt's tokens: merchant,
// timestamp, totals, line items, totals cross-check, confidence stats,
// decision. Pure and synchronous; safe to call concurrently as long as each
// call gets its own token slices and catalog snapshot. Extraction steps
// degrade to null/empty rather than failing; a fully-null payload with
// manual review set is the valid "nothing extractable" outcome.
func Assemble(tokens ocr.TokensByProfile, idx catalog.AliasIndex, t payload.Thresholds) *payload.StructuredPayload {
	merchant := extract.ExtractMerchant(tokens[constants.ProfileFull])
	purchaseTS := extract.PurchaseTimestamp(tokens)

	lineClusters := ocr.ClusterByLine(tokens[constants.ProfileLineItems], ocr.DefaultYThreshold)
	totalClusters := ocr.ClusterByLine(tokens[constants.ProfileTotals], ocr.TotalsYThreshold)
	total := extract.DetectTotal(totalClusters, tokens[constants.ProfileFull])

	merchantName := ""
	if merchant != nil {
		merchantName = merchant.Name
	}
	items := make([]payload.LineItem, 0, len(lineClusters))
	for _, cluster := range lineClusters {
		item := extract.BuildLineItem(cluster, idx)
		if extract.IsMerchantEcho(item, merchantName) {
			continue
		}
		items = append(items, item)
	}

	var lineTotalSum int64
	for _, item := range items {
		if item.Price != nil {
			lineTotalSum += *item.Price
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
	tokenCount := 0
	for _, cluster := range lineClusters {
		tokenCount += len(cluster.Tokens)
	}
	manualReview, autoAccept := payload.Decide(t, mean, total, anomalies)

	out := &payload.StructuredPayload{
		Total:     total,
		LineItems: items,
		Confidence: payload.ConfidenceStats{
			Mean:                mean,
			Min:                 min,
			Max:                 max,
			TokenCount:          tokenCount,
			AutoAcceptCandidate: autoAccept,
		},
		ManualReviewRequired: manualReview,
		Anomalies:            anomalies,
	}
	if merchant != nil {
		out.Merchant = &merchant.Name
		out.MerchantRaw = &merchant.Raw
	}
	if purchaseTS != nil {
		iso := purchaseTS.Format(time.RFC3339)
		out.PurchaseTS = &iso
	}
	return out
}
