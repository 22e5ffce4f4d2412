package helpers

import (
	"errors"
	"strings"
	"time"
)

// DayLayout is the calendar-day key format used by the analytics series.
const DayLayout = "2006-01-02"

var errBadDate = errors.New("invalid date")

var dueDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	DayLayout,
}

// ParseDate accepts ISO-8601 timestamps and plain dates. Values without a zone are UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errBadDate
	}
	for _, l := range dueDateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errBadDate
}

// StartOfDayUTC truncates t to midnight UTC.
func StartOfDayUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DayKey formats t's UTC calendar day.
func DayKey(t time.Time) string {
	return t.UTC().Format(DayLayout)
}
