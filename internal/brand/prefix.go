// Package brand decides whether a product name carries the promoted brand.
// The rules are deliberately conservative: the keyword must lead the name
// (directly, after a numeric product code, or inside a compound drug name),
// so manufacturer mentions elsewhere in a line do not count.
package brand

import (
	"strings"
	"unicode"

	"github.com/bonuscheck/receipt-pipeline/constants"
	"github.com/bonuscheck/receipt-pipeline/internal/textnorm"
)

var (
	cyrillicKeywords = lowered(constants.BrandKeywordsCyrillic)
	latinKeywords    = lowered(constants.BrandKeywordsLatin)
)

func lowered(keywords []string) [][]rune {
	out := make([][]rune, 0, len(keywords))
	for _, kw := range keywords {
		out = append(out, []rune(strings.ToLower(kw)))
	}
	return out
}

// HasPrefix reports whether text names a branded product. The Cyrillic
// keyword set is checked against the NFC-normalized original script, the
// Latin set against the transliterated form. Empty input is never a match.
func HasPrefix(text string) bool {
	normalized := []rune(strings.ToLower(textnorm.NormalizeScript(text)))
	transliterated := []rune(textnorm.Transliterate(string(normalized)))

	if startsWithAny(normalized, cyrillicKeywords) {
		return true
	}
	if startsWithAny(transliterated, latinKeywords) {
		return true
	}
	if containsAsWordPart(normalized, cyrillicKeywords) {
		return true
	}
	if containsAsWordPart(transliterated, latinKeywords) {
		return true
	}
	return false
}

// startsWithAny checks whether text begins with a keyword followed by a
// non-letter or end of string, so "Дарниця Цитрамон" matches but
// "Дарницяфарм" does not.
func startsWithAny(text []rune, keywords [][]rune) bool {
	if len(text) == 0 {
		return false
	}
	for _, kw := range keywords {
		if len(kw) == 0 || len(text) < len(kw) {
			continue
		}
		if string(text[:len(kw)]) != string(kw) {
			continue
		}
		if len(text) == len(kw) || !unicode.IsLetter(text[len(kw)]) {
			return true
		}
	}
	return false
}

// containsAsWordPart accepts a keyword that is not the very first token when
// it follows a hyphen (compound name "Каптопрес-Дарниця"), a numeric product
// code or № ("№ 13204 Дарниця"), or a space preceded by a numeric code, a
// hyphen, or a long word of a compound name written with a space
// ("Каптопрес Дарниця"). A keyword in the middle of unrelated words
// ("Pharma Darnitsa Citramon") stays rejected.
func containsAsWordPart(text []rune, keywords [][]rune) bool {
	if len(text) == 0 {
		return false
	}
	for _, kw := range keywords {
		if len(kw) == 0 {
			continue
		}
		idx := indexRunes(text, kw)
		if idx <= 0 {
			// absent, or a prefix already handled by startsWithAny
			continue
		}
		end := idx + len(kw)
		if end < len(text) && unicode.IsLetter(text[end]) {
			continue
		}
		prev := text[idx-1]
		switch {
		case prev == '-':
			return true
		case unicode.IsDigit(prev) || prev == '№':
			return true
		case prev == ' ':
			if wordPartAfterSpace(text, idx) {
				return true
			}
		}
	}
	return false
}

// wordPartAfterSpace validates a keyword occurrence at text[idx] whose
// previous rune is a space. Valid when the rune before the space closes a
// numeric code or hyphenated fragment, or ends a word long enough (>4
// letters, Cyrillic or consonant-final) to be the generic half of a
// compound drug name. The length guard avoids false positives on short
// function words.
func wordPartAfterSpace(text []rune, idx int) bool {
	before := idx - 2
	if before < 0 {
		return false
	}
	c := text[before]
	if unicode.IsDigit(c) || c == '№' || c == '-' {
		return true
	}
	if !unicode.IsLetter(c) {
		return false
	}
	start := before
	for start > 0 && (unicode.IsLetter(text[start-1]) || text[start-1] == '-') {
		start--
	}
	word := text[start : before+1]
	if len(word) <= 4 {
		return false
	}
	hasCyrillic := false
	for _, r := range word {
		if r >= 'Ѐ' && r <= 'ӿ' {
			hasCyrillic = true
			break
		}
	}
	last := unicode.ToLower(word[len(word)-1])
	endsWithConsonant := strings.ContainsRune("бвгджзклмнпрстфхцчшщ", last)
	return hasCyrillic || endsWithConsonant
}

func indexRunes(text, sub []rune) int {
	if len(sub) == 0 || len(sub) > len(text) {
		return -1
	}
	for i := 0; i+len(sub) <= len(text); i++ {
		if string(text[i:i+len(sub)]) == string(sub) {
			return i
		}
	}
	return -1
}
