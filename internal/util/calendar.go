package util

import (
	"fmt"
	"time"
)

// DateLayout is the canonical YYYY-MM-DD date format used across the store
// and the provider clients.
const DateLayout = "2006-01-02"

// IsTradingDay reports whether t falls on a regular US equity trading day:
// a weekday that is not a market holiday.
func IsTradingDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	return !isMarketHoliday(t)
}

// TradingDays returns every expected trading day in [start, end] inclusive
// as YYYY-MM-DD strings. The price sync compares this set against stored
// dates to decide whether a range is fully covered.
func TradingDays(start, end string) ([]string, error) {
	from, to, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}

	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if IsTradingDay(d) {
			days = append(days, d.Format(DateLayout))
		}
	}
	return days, nil
}

// CalendarDays returns every calendar day in [start, end] inclusive as
// YYYY-MM-DD strings. The sentiment loop visits all of them, weekends
// included, since news publishes every day.
func CalendarDays(start, end string) ([]string, error) {
	from, to, err := parseRange(start, end)
	if err != nil {
		return nil, err
	}

	var days []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format(DateLayout))
	}
	return days, nil
}

func parseRange(start, end string) (time.Time, time.Time, error) {
	from, err := time.Parse(DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing start date %q: %w", start, err)
	}
	to, err := time.Parse(DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parsing end date %q: %w", end, err)
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s before start date %s", end, start)
	}
	return from, to, nil
}

// isMarketHoliday reports whether t is a US market holiday, with Saturday
// holidays observed the preceding Friday and Sunday holidays the following
// Monday.
func isMarketHoliday(t time.Time) bool {
	y := t.Year()
	for _, h := range marketHolidays(y) {
		if sameDate(observed(h), t) {
			return true
		}
	}
	// January 1 of next year observed on the last Friday of December.
	nyd := time.Date(y+1, time.January, 1, 0, 0, 0, 0, time.UTC)
	return sameDate(observed(nyd), t)
}

func marketHolidays(year int) []time.Time {
	return []time.Time{
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),    // New Year's Day
		nthWeekday(year, time.January, time.Monday, 3),             // MLK Day
		nthWeekday(year, time.February, time.Monday, 3),            // Presidents' Day
		goodFriday(year),                                           // Good Friday
		lastWeekday(year, time.May, time.Monday),                   // Memorial Day
		time.Date(year, time.June, 19, 0, 0, 0, 0, time.UTC),       // Juneteenth
		time.Date(year, time.July, 4, 0, 0, 0, 0, time.UTC),        // Independence Day
		nthWeekday(year, time.September, time.Monday, 1),           // Labor Day
		nthWeekday(year, time.November, time.Thursday, 4),          // Thanksgiving
		time.Date(year, time.December, 25, 0, 0, 0, 0, time.UTC),   // Christmas
	}
}

// observed shifts Saturday holidays to Friday and Sunday holidays to Monday.
func observed(h time.Time) time.Time {
	switch h.Weekday() {
	case time.Saturday:
		return h.AddDate(0, 0, -1)
	case time.Sunday:
		return h.AddDate(0, 0, 1)
	}
	return h
}

// nthWeekday returns the nth occurrence of a weekday in the given month.
func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	d := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7*(n-1))
}

// lastWeekday returns the last occurrence of a weekday in the given month.
func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	d := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// goodFriday is the Friday before Easter Sunday (anonymous Gregorian
// computus).
func goodFriday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	easter := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return easter.AddDate(0, 0, -2)
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}
