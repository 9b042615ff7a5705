package util

import (
	"testing"
	"time"
)

func TestNewLoggerLevels(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus", ""} {
		if NewLogger(level, "json") == nil {
			t.Fatalf("NewLogger(%q) returned nil", level)
		}
	}
	if NewLogger("info", "text") == nil {
		t.Fatal("NewLogger text format returned nil")
	}
}

func TestRateLimiterNew(t *testing.T) {
	rl := NewRateLimiter(60)
	if rl == nil {
		t.Fatal("NewRateLimiter returned nil")
	}
}

func TestTradingDaysSkipsWeekends(t *testing.T) {
	// 2024-06-10 is a Monday; the following Saturday and Sunday must be
	// excluded.
	days, err := TradingDays("2024-06-10", "2024-06-16")
	if err != nil {
		t.Fatalf("TradingDays: %v", err)
	}
	want := []string{"2024-06-10", "2024-06-11", "2024-06-12", "2024-06-13", "2024-06-14"}
	if len(days) != len(want) {
		t.Fatalf("TradingDays returned %d days, want %d: %v", len(days), len(want), days)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days[%d] = %s, want %s", i, days[i], want[i])
		}
	}
}

func TestTradingDaysSkipsHolidays(t *testing.T) {
	cases := []struct {
		date string
		name string
	}{
		{"2024-01-01", "New Year's Day"},
		{"2024-01-15", "MLK Day"},
		{"2024-03-29", "Good Friday"},
		{"2024-05-27", "Memorial Day"},
		{"2024-06-19", "Juneteenth"},
		{"2024-07-04", "Independence Day"},
		{"2024-09-02", "Labor Day"},
		{"2024-11-28", "Thanksgiving"},
		{"2024-12-25", "Christmas"},
		{"2021-07-05", "Independence Day observed (Jul 4 on Sunday)"},
	}
	for _, tc := range cases {
		d, err := time.Parse(DateLayout, tc.date)
		if err != nil {
			t.Fatalf("parsing %s: %v", tc.date, err)
		}
		if IsTradingDay(d) {
			t.Errorf("%s (%s) should not be a trading day", tc.date, tc.name)
		}
	}

	// A plain mid-week day is a trading day.
	d, _ := time.Parse(DateLayout, "2024-06-12")
	if !IsTradingDay(d) {
		t.Error("2024-06-12 should be a trading day")
	}
}

func TestCalendarDaysInclusive(t *testing.T) {
	days, err := CalendarDays("2024-06-14", "2024-06-16")
	if err != nil {
		t.Fatalf("CalendarDays: %v", err)
	}
	if len(days) != 3 {
		t.Fatalf("CalendarDays returned %d days, want 3", len(days))
	}
	if days[0] != "2024-06-14" || days[2] != "2024-06-16" {
		t.Errorf("CalendarDays = %v, want inclusive range", days)
	}
}

func TestCalendarDaysRejectsInvertedRange(t *testing.T) {
	if _, err := CalendarDays("2024-06-16", "2024-06-14"); err == nil {
		t.Fatal("expected error for inverted range")
	}
}
