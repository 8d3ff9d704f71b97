package utils

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := map[int]string{
		-5:  "0m",
		0:   "0m",
		45:  "45m",
		60:  "1h 0m",
		125: "2h 5m",
	}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatWorkoutDate(t *testing.T) {
	now := time.Date(2026, 3, 20, 18, 0, 0, 0, time.Local)
	tests := []struct {
		date time.Time
		want string
	}{
		{now.Add(-2 * time.Hour), "Today"},
		{now.Add(-30 * time.Hour), "Yesterday"},
		{now.Add(-4 * 24 * time.Hour), "4 days ago"},
		{time.Date(2026, 1, 2, 9, 0, 0, 0, time.Local), "Jan 2"},
	}
	for _, tt := range tests {
		if got := FormatWorkoutDate(tt.date, now); got != tt.want {
			t.Errorf("FormatWorkoutDate(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestFormatWeightAndVolume(t *testing.T) {
	if got := FormatWeight(100, "kg"); got != "100 kg" {
		t.Errorf("FormatWeight(100) = %q", got)
	}
	if got := FormatWeight(62.5, ""); got != "62.5" {
		t.Errorf("FormatWeight(62.5) = %q", got)
	}
	if got := FormatVolume(12345.6, "lb"); got != "12,346 lb" {
		t.Errorf("FormatVolume = %q", got)
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2026-02-14 ", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("ParseDate = %v", got)
	}
	if _, err := ParseDate("14/02/2026", time.UTC); err == nil {
		t.Error("expected an error for a non-ISO date")
	}
}

func TestTimeOfDay(t *testing.T) {
	for hour, want := range map[int]string{6: "Morning", 13: "Afternoon", 20: "Evening"} {
		if got := TimeOfDay(time.Date(2026, 1, 1, hour, 0, 0, 0, time.UTC)); got != want {
			t.Errorf("TimeOfDay(%d) = %q, want %q", hour, got, want)
		}
	}
}
