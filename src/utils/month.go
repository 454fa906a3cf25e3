package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var monthStartPattern = regexp.MustCompile(`^\d{4}-\d{2}-01$`)

// MonthStart คืนค่าวันแรกของเดือน (UTC, ไม่มีเวลา)
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// CurrentMonth is the first day of the current UTC month.
func CurrentMonth(now time.Time) time.Time {
	return MonthStart(now)
}

// PreviousMonth returns the month before now as seen in loc, normalized to a UTC date.
// The scheduler fires shortly after local midnight on the 1st, when UTC may still be
// on the last day of the month being closed.
func PreviousMonth(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	first := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, -1, 0)
}

func NextMonth(month time.Time) time.Time {
	return MonthStart(month).AddDate(0, 1, 0)
}

// ParseMonth accepts "YYYY-MM".
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("month must be YYYY-MM, got %q", s)
	}
	return t, nil
}

// ParseMonthStart accepts only "YYYY-MM-01".
func ParseMonthStart(s string) (time.Time, bool) {
	if !monthStartPattern.MatchString(s) {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParsePeriod accepts "YYYY-MM", "YYYY-MM-DD" or RFC3339 and normalizes to month start.
func ParsePeriod(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"2006-01-02", "2006-01", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthStart(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid period %q", s)
}
