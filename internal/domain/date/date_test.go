package date

import (
	"testing"
	"time"
)

func TestOfTruncatesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	stamp := time.Date(2026, 4, 1, 23, 30, 0, 0, loc) // 15:30 UTC

	day := Of(stamp)
	if day.Hour() != 0 || day.Minute() != 0 || day.Location() != time.UTC {
		t.Fatalf("expected UTC midnight, got %v", day)
	}
	if day.Day() != 1 {
		t.Fatalf("expected April 1 UTC, got %v", day)
	}
}

func TestDaysBetween(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		b    time.Time
		want int
	}{
		{"same day", start, 0},
		{"next day", start.AddDate(0, 0, 1), 1},
		{"previous day", start.AddDate(0, 0, -1), -1},
		{"a week later with time-of-day noise", start.AddDate(0, 0, 7).Add(13 * time.Hour), 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysBetween(start, tt.b); got != tt.want {
				t.Fatalf("days between = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	d := time.Date(2026, 2, 27, 9, 15, 0, 0, time.UTC)
	got := AddDays(d, 2)
	want := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("add days = %v, want %v", got, want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	parsed, err := Parse(" 2026-04-05 ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if Format(parsed) != "2026-04-05" {
		t.Fatalf("format = %q, want 2026-04-05", Format(parsed))
	}

	if _, err := Parse(""); err == nil {
		t.Fatal("expected error for empty date")
	}
	if _, err := Parse("05/04/2026"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
}

func TestTodayUsesInjectedClock(t *testing.T) {
	fixed := time.Date(2026, 4, 5, 18, 45, 0, 0, time.UTC)
	today := Today(func() time.Time { return fixed })
	if Format(today) != "2026-04-05" {
		t.Fatalf("today = %v, want 2026-04-05", today)
	}

	if Today(nil).IsZero() {
		t.Fatal("expected nil clock to fall back to time.Now")
	}
}
