package calendar

import (
	"fmt"
	"time"
)

// WorkingDaysInMonth counts the Mon-Fri days of the given month.
func WorkingDaysInMonth(year int, month time.Month) int {
	count := 0
	day := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for day.Month() == month {
		if !IsWeekend(day) {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	return count
}

// EnumerateDays returns the inclusive day-by-day sequence from start to end,
// normalized to midnight. Returns an empty slice when start is after end.
func EnumerateDays(start, end time.Time) []time.Time {
	start = Midnight(start)
	end = Midnight(end)
	if start.After(end) {
		return []time.Time{}
	}
	days := make([]time.Time, 0, int(end.Sub(start).Hours()/24)+1)
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		days = append(days, day)
	}
	return days
}

// IsWeekend reports whether the day is a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// Midnight truncates a time to the start of its calendar day, keeping the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DayKey formats the canonical YYYY-MM-DD key for a day. The key is built
// from the value's own year/month/day fields, never through a timezone
// conversion, so a value carrying a UTC timestamp cannot shift to the
// neighboring day.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// MonthKey formats the canonical YYYY-MM key for a month.
func MonthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// ParseDayKey parses a canonical YYYY-MM-DD key.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day key %q: %w", key, err)
	}
	return t, nil
}

// MonthBounds returns the first and last day of the given month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first, last
}
