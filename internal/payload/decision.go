package payload

import "strings"

// Thresholds are the three tunables injected per invocation by the
// configuration collaborator.
type Thresholds struct {
	ManualReview           float64
	AutoAccept             float64
	TotalsTolerancePercent float64
}

// DefaultThresholds mirror the configuration defaults.
var DefaultThresholds = Thresholds{
	ManualReview:           0.60,
	AutoAccept:             0.85,
	TotalsTolerancePercent: 5.0,
}

const totalsMismatchPrefix = "totals_mismatch"

// Decide computes the two decision outputs. Deterministic: same inputs,
// same booleans. Under normal configuration (accept > review) the two are
// mutually exclusive.
func Decide(t Thresholds, mean float64, total *int64, anomalies []string) (manualReview, autoAccept bool) {
	manualReview = mean < t.ManualReview || total == nil || hasTotalsMismatch(anomalies)
	autoAccept = mean >= t.AutoAccept && len(anomalies) == 0 && !manualReview
	return manualReview, autoAccept
}

func hasTotalsMismatch(anomalies []string) bool {
	for _, tag := range anomalies {
		if strings.HasPrefix(tag, totalsMismatchPrefix) {
			return true
		}
	}
	return false
}

// Stats computes mean/min/max over item confidences. Zero-valued when there
// are no items.
func Stats(items []LineItem) (mean, min, max float64) {
	if len(items) == 0 {
		return 0.0, 0.0, 0.0
	}
	min = items[0].Confidence
	max = items[0].Confidence
	sum := 0.0
	for _, item := range items {
		sum += item.Confidence
		if item.Confidence < min {
			min = item.Confidence
		}
		if item.Confidence > max {
			max = item.Confidence
		}
	}
	return sum / float64(len(items)), min, max
}
