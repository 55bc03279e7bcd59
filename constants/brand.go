package constants

// Keywords for identifying the promoted brand's products in receipt text.
// Matching is case-insensitive; the detector in internal/brand decides
// whether a keyword occurrence counts (prefix / compound rules).
var BrandKeywordsCyrillic = []string{
	// nominative
	"дарниця",
	"дарница",
	// genitive
	"дарниці",
	// accusative
	"дарницю",
	// instrumental
	"дарницею",
}

// BrandKeywordsLatin holds the transliterated variants produced by unidecode.
var BrandKeywordsLatin = []string{
	"darnitsa",
	"darnitsia",
}

// TotalKeywords mark a receipt line as the totals line, in either script.
var TotalKeywords = []string{"total", "итого", "всього", "sum", "сума", "amount", "разом"}

// UnitTokens are units of measure that mark a header cluster as a product
// line rather than a merchant name.
var UnitTokens = []string{"мл", "мг", "гр", "шт", "табл", "амп", "уп", "ml", "mg", "g", "pcs", "tab"}
