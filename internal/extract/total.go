package extract

import (
	"regexp"
	"strings"

	"github.com/bonuscheck/receipt-pipeline/constants"
	"github.com/bonuscheck/receipt-pipeline/internal/ocr"
	"github.com/bonuscheck/receipt-pipeline/internal/textnorm"
)

var numberRe = regexp.MustCompile(`\d+[.,]?\d*`)

// footerFraction bounds the fallback zone of the full profile when the
// totals crop yielded nothing usable.
const footerFraction = 0.15

// DetectTotal finds the receipt total in minor units.
//
// Pass 1 looks for a cluster carrying a total/sum keyword in either script
// and takes the last number in it (the number after the keyword prefix).
// Pass 2 falls back to the single largest positive number across all
// clusters, preferring the cluster with higher mean confidence on ties.
// When the totals profile produced no clusters, the bottom of the full
// profile is clustered and scanned instead. Returns nil when no number
// survives.
func DetectTotal(totalsClusters []ocr.LineCluster, fullTokens []ocr.Token) *int64 {
	clusters := totalsClusters
	if len(clusters) == 0 {
		clusters = footerClusters(fullTokens)
	}

	for _, cluster := range clusters {
		normalized := strings.ToLower(textnorm.Normalize(cluster.Text))
		script := strings.ToLower(textnorm.NormalizeScript(cluster.Text))
		if !containsTotalKeyword(normalized) && !containsTotalKeyword(script) {
			continue
		}
		numbers := numberRe.FindAllString(cluster.Text, -1)
		if len(numbers) == 0 {
			continue
		}
		amount := ToMinorUnits(numbers[len(numbers)-1])
		return &amount
	}

	var best *int64
	bestConfidence := 0.0
	for _, cluster := range clusters {
		confidence := cluster.Confidence()
		for _, number := range numberRe.FindAllString(cluster.Text, -1) {
			candidate := ToMinorUnits(number)
			if candidate <= 0 {
				continue
			}
			switch {
			case best == nil || candidate > *best:
				v := candidate
				best = &v
				bestConfidence = confidence
			case candidate == *best && confidence > bestConfidence:
				bestConfidence = confidence
			}
		}
	}
	return best
}

func containsTotalKeyword(text string) bool {
	for _, kw := range constants.TotalKeywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func footerClusters(fullTokens []ocr.Token) []ocr.LineCluster {
	bottom := ocr.MaxBottom(fullTokens)
	if bottom == 0 {
		return nil
	}
	cut := int(float64(bottom) * (1.0 - footerFraction))
	footer := make([]ocr.Token, 0, len(fullTokens))
	for _, t := range fullTokens {
		if t.Top >= cut {
			footer = append(footer, t)
		}
	}
	return ocr.ClusterByLine(footer, ocr.TotalsYThreshold)
}
