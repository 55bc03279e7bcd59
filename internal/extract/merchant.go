package extract

import (
	"regexp"
	"strings"

	"github.com/bonuscheck/receipt-pipeline/constants"
	"github.com/bonuscheck/receipt-pipeline/internal/ocr"
	"github.com/bonuscheck/receipt-pipeline/internal/textnorm"
)

const (
	headerFraction         = 0.20
	headerFractionFallback = 0.30
	merchantYThreshold     = 12
)

var (
	qtyMultRe = regexp.MustCompile(`(?i)\d+\s*[xх×]\s*\d+[.,]?\d*`)
	priceRe   = regexp.MustCompile(`\d+[.,]\d{2}`)
	unitRe    = buildUnitRe()
)

func buildUnitRe() *regexp.Regexp {
	escaped := make([]string, 0, len(constants.UnitTokens))
	for _, u := range constants.UnitTokens {
		escaped = append(escaped, regexp.QuoteMeta(u))
	}
	return regexp.MustCompile(`(?i)\d+\s*(?:` + strings.Join(escaped, "|") + `)(?:\b|[^a-zа-яіїє])`)
}

// Merchant holds both forms of the extracted merchant name: the normalized
// matching form and the original-script header text for display.
type Merchant struct {
	Name string // normalized (upper, transliterated)
	Raw  string // NFC original script
}

// ExtractMerchant picks the merchant name from the header zone of the full
// profile. Product-looking clusters are rejected first so a drug name never
// becomes the merchant; among the survivors a brand-carrying cluster wins
// (manufacturer-branded pharmacies), then the first non-product cluster,
// then the very first header cluster. Returns nil when the profile has no
// tokens at all.
func ExtractMerchant(fullTokens []ocr.Token) *Merchant {
	bottom := ocr.MaxBottom(fullTokens)
	if bottom == 0 {
		return nil
	}
	header := headerTokens(fullTokens, bottom, headerFraction)
	if len(header) == 0 {
		header = headerTokens(fullTokens, bottom, headerFractionFallback)
	}
	if len(header) == 0 {
		return nil
	}
	clusters := ocr.ClusterByLine(header, merchantYThreshold)
	if len(clusters) == 0 {
		return nil
	}

	candidates := make([]ocr.LineCluster, 0, len(clusters))
	for _, c := range clusters {
		if HasProductShape(c.Text) {
			continue
		}
		candidates = append(candidates, c)
	}
	for _, c := range candidates {
		if containsBrandKeyword(c.Text) {
			return merchantFromCluster(c)
		}
	}
	if len(candidates) > 0 {
		return merchantFromCluster(candidates[0])
	}
	return merchantFromCluster(clusters[0])
}

func merchantFromCluster(c ocr.LineCluster) *Merchant {
	return &Merchant{
		Name: textnorm.Normalize(c.Text),
		Raw:  textnorm.NormalizeScript(c.Text),
	}
}

func headerTokens(tokens []ocr.Token, bottom int, fraction float64) []ocr.Token {
	cut := int(float64(bottom) * fraction)
	header := make([]ocr.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Top <= cut {
			header = append(header, t)
		}
	}
	return header
}

// HasProductShape reports whether a line reads like a purchasable item:
// a quantity-multiplication pattern, a price with two decimals, or a number
// glued to a unit of measure.
func HasProductShape(text string) bool {
	return qtyMultRe.MatchString(text) ||
		priceRe.MatchString(text) ||
		unitRe.MatchString(text+" ")
}

// containsBrandKeyword checks for a brand keyword anywhere in the cluster,
// in either script. Header lines are allowed substring matches; the strict
// prefix rules apply to product lines only.
func containsBrandKeyword(text string) bool {
	script := strings.ToLower(textnorm.NormalizeScript(text))
	latin := strings.ToLower(textnorm.Transliterate(script))
	for _, kw := range constants.BrandKeywordsCyrillic {
		if strings.Contains(script, kw) {
			return true
		}
	}
	for _, kw := range constants.BrandKeywordsLatin {
		if strings.Contains(latin, kw) {
			return true
		}
	}
	return false
}
