package service

import (
	"testing"
	"time"

	"CadetTrack/internal/model"
)

func TestDeriveStatus(t *testing.T) {
	day := time.Date(2024, 9, 6, 0, 0, 0, 0, testLoc)
	cutoff := day.Add(8*time.Hour + 30*time.Minute)

	tests := []struct {
		name    string
		claimed model.AttendanceStatus
		at      time.Time
		want    model.AttendanceStatus
	}{
		{"exactly at cutoff", model.StatusPresent, cutoff, model.StatusPresent},
		{"one second after cutoff", model.StatusPresent, cutoff.Add(time.Second), model.StatusLate},
		{"claimed late but early", model.StatusLate, day.Add(8 * time.Hour), model.StatusPresent},
		{"claimed late and late", model.StatusLate, day.Add(9 * time.Hour), model.StatusLate},
		{"absent before cutoff", model.StatusAbsent, day.Add(7 * time.Hour), model.StatusAbsent},
		{"absent after cutoff", model.StatusAbsent, day.Add(11 * time.Hour), model.StatusAbsent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveStatus(tt.claimed, tt.at, cutoff); got != tt.want {
				t.Errorf("DeriveStatus(%s, %s) = %s, want %s", tt.claimed, tt.at.Format("15:04:05"), got, tt.want)
			}
		})
	}
}

func TestComputeDaily(t *testing.T) {
	date := time.Date(2024, 9, 6, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name                 string
		total, present, late int
		wantAbsent           int
		wantRate             float64
	}{
		{"typical day", 300, 180, 60, 60, 80.00},
		{"empty roster", 0, 0, 0, 0, 0},
		{"two of three", 3, 1, 1, 1, 66.67},
		{"one of three", 3, 1, 0, 2, 33.33},
		{"everyone in", 40, 25, 15, 0, 100},
		{"half up", 8, 1, 0, 7, 12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDaily(date, tt.total, tt.present, tt.late)
			if got.Date != "2024-09-06" {
				t.Errorf("date = %q", got.Date)
			}
			if got.Absent != tt.wantAbsent {
				t.Errorf("absent = %d, want %d", got.Absent, tt.wantAbsent)
			}
			if got.AttendanceRate != tt.wantRate {
				t.Errorf("rate = %v, want %v", got.AttendanceRate, tt.wantRate)
			}
			if got.Present+got.Late+got.Absent != got.TotalCadets {
				t.Errorf("counts do not add up: %+v", got)
			}
		})
	}
}

func TestRoundRate(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{66.666666, 66.67},
		{33.333333, 33.33},
		{0.125, 0.13},
		{80, 80},
		{0.004, 0},
		// 浮点表示略低于 .xx5 的中间值仍要进位
		{66.665, 66.67},
		{1.005, 1.01},
		{92.855, 92.86},
		{(33.33 + 100) / 2, 66.67},
		{(1.00 + 1.01) / 2, 1.01},
	}
	for _, tt := range tests {
		if got := RoundRate(tt.in); got != tt.want {
			t.Errorf("RoundRate(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAverageRate(t *testing.T) {
	tests := []struct {
		name  string
		rates []float64
		want  float64
	}{
		{"empty", nil, 0},
		{"single day", []float64{75}, 75},
		{"halfway rounds up", []float64{33.33, 100}, 66.67},
		{"85.71 and 100", []float64{85.71, 100}, 92.86},
		{"55.56 and 88.89", []float64{55.56, 88.89}, 72.23},
		{"1.00 and 1.01", []float64{1.00, 1.01}, 1.01},
		{"below half", []float64{0, 0, 0.01}, 0},
		{"thirds", []float64{100, 0, 0}, 33.33},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AverageRate(tt.rates); got != tt.want {
				t.Errorf("AverageRate(%v) = %v, want %v", tt.rates, got, tt.want)
			}
		})
	}
}

func TestTitleStatus(t *testing.T) {
	if got := titleStatus("present"); got != "Present" {
		t.Errorf("titleStatus(present) = %q", got)
	}
	if got := titleStatus(""); got != "" {
		t.Errorf("titleStatus(\"\") = %q", got)
	}
}
