// Package textnorm normalizes receipt text for matching. Every other
// extraction component builds on these functions.
package textnorm

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/unicode/norm"
)

// The hryvnia sign glues itself to adjacent digits in OCR output; spelling
// it out with surrounding spaces keeps amounts parseable.
const currencySign = "₴"
const currencyWord = " грн "

// Normalize produces the canonical matching form of receipt text:
// NFC composition, currency-symbol spell-out, transliteration to ASCII,
// whitespace collapse, upper case. Idempotent: the output is ASCII and
// passes through every step unchanged.
func Normalize(text string) string {
	normalized := norm.NFC.String(text)
	normalized = strings.ReplaceAll(normalized, currencySign, currencyWord)
	normalized = unidecode.Unidecode(normalized)
	normalized = Collapse(normalized)
	return strings.ToUpper(normalized)
}

// NormalizeScript prepares text for matching in its original script:
// NFC composition plus whitespace collapse, no transliteration and no case
// change. Display contexts use this form.
func NormalizeScript(text string) string {
	return Collapse(norm.NFC.String(text))
}

// Transliterate maps text to its ASCII approximation. Used for brand and
// SKU matching only, never for display.
func Transliterate(text string) string {
	return unidecode.Unidecode(text)
}

// Collapse folds runs of whitespace into single spaces and trims the ends.
func Collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
