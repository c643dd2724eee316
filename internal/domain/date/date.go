// Package date provides calendar-day arithmetic for the reading plan.
// All schedule windows compare whole days, never clock times, so every
// helper normalizes to UTC midnight.
package date

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the wire format for calendar dates.
const Layout = "2006-01-02"

// Of truncates a timestamp to its UTC calendar day.
func Of(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day according to the injected clock.
func Today(now func() time.Time) time.Time {
	if now == nil {
		now = time.Now
	}
	return Of(now())
}

// AddDays returns the calendar day n days after d.
func AddDays(d time.Time, n int) time.Time {
	return Of(d).AddDate(0, 0, n)
}

// DaysBetween returns the signed number of calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Of(b).Sub(Of(a)) / (24 * time.Hour))
}

// Parse reads a calendar date in Layout form.
func Parse(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	parsed, err := time.Parse(Layout, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", trimmed, err)
	}
	return Of(parsed), nil
}

// Format renders a calendar date in Layout form.
func Format(d time.Time) string {
	return Of(d).Format(Layout)
}
