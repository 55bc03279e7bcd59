package ocr

import (
	"github.com/bonuscheck/receipt-pipeline/constants"
)

// Token is one recognized word or fragment from the OCR collaborator,
// positioned in the original image's pixel coordinate space. Tokens are
// immutable; a pipeline invocation owns its token slice and discards it
// after the payload is built.
type Token struct {
	Text       string            `json:"text"`
	Confidence float64           `json:"confidence"` // in [0,1]
	Left       int               `json:"left"`
	Top        int               `json:"top"`
	Width      int               `json:"width"`
	Height     int               `json:"height"`
	Profile    constants.Profile `json:"profile"`
}

// TokensByProfile groups a receipt's tokens by the image crop that produced
// them. Missing profiles are simply absent keys.
type TokensByProfile map[constants.Profile][]Token

// JoinText concatenates token texts in slice order, space separated,
// skipping empty fragments.
func JoinText(tokens []Token) string {
	out := ""
	for _, t := range tokens {
		if t.Text == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += t.Text
	}
	return out
}

// MaxBottom returns the lowest pixel row covered by any token, used to
// derive zone cuts (header / footer percentages) when no crop metadata is
// available.
func MaxBottom(tokens []Token) int {
	max := 0
	for _, t := range tokens {
		if b := t.Top + t.Height; b > max {
			max = b
		}
	}
	return max
}
