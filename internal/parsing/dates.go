package parsing

import (
	"strings"
	"time"

	"pair-engine/internal/model"
)

// Tried in order; the first match wins, so month-first beats day-first for
// ambiguous slash dates.
var exactLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	"02/01/2006",
	"2006/01/02",
}

var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2.1.2006",
	"1/2/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

const todaySentinel = "NULL"

// parseDate converts a raw column into a calendar day. NULL means today.
func parseDate(raw string, today func() time.Time) (model.Date, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if strings.EqualFold(raw, todaySentinel) {
		return model.DateFromTime(today()), true
	}
	if t, ok := fastParseDate(raw); ok {
		return model.DateFromTime(t), true
	}
	for _, layout := range exactLayouts[1:] {
		if t, err := time.Parse(layout, raw); err == nil {
			return model.DateFromTime(t), true
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return model.DateFromTime(t), true
		}
	}
	return 0, false
}

// fastParseDate handles "YYYY-MM-DD" without layout parsing; it is by far the
// most common encoding.
func fastParseDate(s string) (time.Time, bool) {
	if len(s) != 10 || s[4] != '-' || s[7] != '-' {
		return time.Time{}, false
	}
	for _, i := range []int{0, 1, 2, 3, 5, 6, 8, 9} {
		if s[i] < '0' || s[i] > '9' {
			return time.Time{}, false
		}
	}
	y := int(s[0]-'0')*1000 + int(s[1]-'0')*100 + int(s[2]-'0')*10 + int(s[3]-'0')
	m := time.Month(int(s[5]-'0')*10 + int(s[6]-'0'))
	d := int(s[8]-'0')*10 + int(s[9]-'0')
	if m < 1 || m > 12 || d < 1 || d > daysIn(y, m) {
		return time.Time{}, false
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
