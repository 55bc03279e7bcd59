package extract

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ToMinorUnits converts a decimal amount string to integer kopecks.
// A comma is treated as the decimal point. This is the single place where a
// fractional currency value exists; everything downstream carries integers.
// Unparseable input yields 0, matching the graceful-degradation policy.
func ToMinorUnits(value string) int64 {
	cleaned := strings.ReplaceAll(value, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0
	}
	minor := amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if minor < 0 {
		return 0
	}
	return minor
}
