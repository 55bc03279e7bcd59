package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/bonuscheck/receipt-pipeline/constants"
	"github.com/bonuscheck/receipt-pipeline/internal/ocr"
)

// Date patterns tried in priority order. The first regex that matches the
// blob decides which parse strategies run; separators `.`, `-`, `/` are
// interchangeable in the day-first form.
var dateStrategies = []struct {
	re    *regexp.Regexp
	parse func(date, clock string) (time.Time, bool)
}{
	{
		re:    regexp.MustCompile(`(\d{2}[./-]\d{2}[./-]\d{4})\s+(\d{2}:\d{2}(?::\d{2})?)`),
		parse: parseDayFirst,
	},
	{
		re:    regexp.MustCompile(`(\d{4}-\d{2}-\d{2})[ T](\d{2}:\d{2}(?::\d{2})?)`),
		parse: parseISO,
	},
	{
		re:    regexp.MustCompile(`(\d{2}[./-]\d{2}[./-]\d{4})`),
		parse: parseDayFirst,
	},
}

// PurchaseTimestamp searches the combined "full" and "totals" token text for
// a purchase date/time. Returns nil when no pattern matches or every parse
// strategy fails.
func PurchaseTimestamp(tokens ocr.TokensByProfile) *time.Time {
	blob := ocr.JoinText(tokens[constants.ProfileFull])
	if totals := ocr.JoinText(tokens[constants.ProfileTotals]); totals != "" {
		blob += " " + totals
	}
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return nil
	}
	return TimestampFromText(blob)
}

// TimestampFromText runs the date strategy chain over an arbitrary text
// blob. First fully parsed timestamp wins.
func TimestampFromText(blob string) *time.Time {
	for _, strat := range dateStrategies {
		m := strat.re.FindStringSubmatch(blob)
		if m == nil {
			continue
		}
		clock := ""
		if len(m) > 2 {
			clock = m[2]
		}
		if ts, ok := strat.parse(m[1], clock); ok {
			return &ts
		}
	}
	return nil
}

var separatorReplacer = strings.NewReplacer("/", ".", "-", ".")

func parseDayFirst(date, clock string) (time.Time, bool) {
	normalized := separatorReplacer.Replace(date)
	if clock != "" {
		layout := "02.01.2006 15:04"
		if strings.Count(clock, ":") == 2 {
			layout = "02.01.2006 15:04:05"
		}
		if ts, err := time.ParseInLocation(layout, normalized+" "+clock, time.UTC); err == nil {
			return ts, true
		}
		return lenientParse(date + " " + clock)
	}
	if ts, err := time.ParseInLocation("02.01.2006", normalized, time.UTC); err == nil {
		return ts, true
	}
	return lenientParse(date)
}

func parseISO(date, clock string) (time.Time, bool) {
	if clock != "" {
		layout := "2006-01-02 15:04"
		if strings.Count(clock, ":") == 2 {
			layout = "2006-01-02 15:04:05"
		}
		if ts, err := time.ParseInLocation(layout, date+" "+clock, time.UTC); err == nil {
			return ts, true
		}
		return lenientParse(date + " " + clock)
	}
	if ts, err := time.ParseInLocation("2006-01-02", date, time.UTC); err == nil {
		return ts, true
	}
	return lenientParse(date)
}

// lenientParse is the free-form fallback: a wider layout list tried until
// one sticks.
var lenientLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
	"02/01/2006 15:04",
	"02-01-2006 15:04",
}

func lenientParse(value string) (time.Time, bool) {
	for _, layout := range lenientLayouts {
		if ts, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
