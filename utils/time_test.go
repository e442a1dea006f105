package utils

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-09-06")
	if err != nil {
		t.Fatal(err)
	}
	if d.Location() != time.UTC || d.Hour() != 0 || d.Day() != 6 {
		t.Errorf("ParseDate = %v", d)
	}

	for _, bad := range []string{"", "2024-9-6", "06/09/2024", "2024-02-30"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) should fail", bad)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want time.Duration
	}{
		{"08:30:00", 8*time.Hour + 30*time.Minute},
		{"08:30:01", 8*time.Hour + 30*time.Minute + time.Second},
		{"23:59", 23*time.Hour + 59*time.Minute},
		{"00:00:00", 0},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if err != nil {
			t.Errorf("ParseClock(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseClock(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "24:00:00", "8am", "08:61:00"} {
		if _, err := ParseClock(bad); err == nil {
			t.Errorf("ParseClock(%q) should fail", bad)
		}
	}
}

func TestCombine(t *testing.T) {
	loc := time.FixedZone("PHT", 8*3600)
	date := time.Date(2024, 9, 6, 0, 0, 0, 0, time.UTC)

	got := Combine(date, 8*time.Hour+30*time.Minute, loc)
	want := time.Date(2024, 9, 6, 8, 30, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("Combine = %v, want %v", got, want)
	}
}

func TestDateOf(t *testing.T) {
	loc := time.FixedZone("PHT", 8*3600)

	// 2024-09-05 17:00 UTC 在 UTC+8 已是 9 月 6 日
	got := DateOf(time.Date(2024, 9, 5, 17, 0, 0, 0, time.UTC), loc)
	if got.Format(DateLayout) != "2024-09-06" || got.Location() != time.UTC {
		t.Errorf("DateOf = %v", got)
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock(8*time.Hour + 5*time.Minute + 9*time.Second); got != "08:05:09" {
		t.Errorf("FormatClock = %q", got)
	}
}

func TestDays(t *testing.T) {
	start := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	days := Days(start, end)
	if len(days) != 4 {
		t.Fatalf("Days = %d entries, want 4", len(days))
	}
	if days[2].Format(DateLayout) != "2024-02-29" {
		t.Errorf("leap day = %s", days[2].Format(DateLayout))
	}

	if got := Days(start, start); len(got) != 1 {
		t.Errorf("single day = %d entries", len(got))
	}
	if got := Days(end, start); got != nil {
		t.Errorf("reversed = %v, want nil", got)
	}
}
