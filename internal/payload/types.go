// Package payload defines the structured result handed to the business-rules
// collaborator, plus the deterministic accept/review decision over it.
package payload

// LineItem is one purchasable position extracted from a receipt. Price is
// integer kopecks; fractional currency never appears in the output.
type LineItem struct {
	Name           string  `json:"name"`
	OriginalName   string  `json:"original_name"`
	NormalizedName string  `json:"normalized_name"`
	Quantity       int     `json:"quantity"`
	Price          *int64  `json:"price"`
	Confidence     float64 `json:"confidence"`
	SKUCode        *string `json:"sku_code"`
	SKUMatchScore  float64 `json:"sku_match_score"`
	IsBrandMatch   bool    `json:"is_darnitsa"`
}

// ConfidenceStats aggregates per-item confidence for the decision policy.
type ConfidenceStats struct {
	Mean                float64 `json:"mean"`
	Min                 float64 `json:"min"`
	Max                 float64 `json:"max"`
	TokenCount          int     `json:"token_count"`
	AutoAcceptCandidate bool    `json:"auto_accept_candidate"`
}

// StructuredPayload is the sole output of the postprocessing core. A payload
// with all-null fields and ManualReviewRequired set is the soft failure
// mode; the core never raises for data-quality problems.
type StructuredPayload struct {
	Merchant             *string         `json:"merchant"`
	MerchantRaw          *string         `json:"merchant_raw,omitempty"`
	PurchaseTS           *string         `json:"purchase_ts"`
	Total                *int64          `json:"total"`
	LineItems            []LineItem      `json:"line_items"`
	Confidence           ConfidenceStats `json:"confidence"`
	ManualReviewRequired bool            `json:"manual_review_required"`
	Anomalies            []string        `json:"anomalies"`
}
