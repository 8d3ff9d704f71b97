package utils

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/julianstephens/liftlog/internal/constants"
)

// TimeOfDay returns "Morning", "Afternoon" or "Evening" for the hour of t.
func TimeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "Morning"
	case h < 17:
		return "Afternoon"
	default:
		return "Evening"
	}
}

// FormatDuration renders whole minutes as "45m" or "1h 5m".
func FormatDuration(minutes int) string {
	if minutes <= 0 {
		return "0m"
	}
	if h := minutes / 60; h > 0 {
		return fmt.Sprintf("%dh %dm", h, minutes%60)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatWorkoutDate renders date relative to now: "Today", "Yesterday",
// "N days ago" within a week, otherwise "Jan 2".
func FormatWorkoutDate(date, now time.Time) string {
	diff := now.Sub(date)
	if diff < 0 {
		diff = -diff
	}
	days := int(diff / (24 * time.Hour))

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return date.Local().Format("Jan 2")
	}
}

// FormatWeight drops a trailing ".0" so whole weights print as integers.
func FormatWeight(weight float64, unit string) string {
	s := humanize.FtoaWithDigits(weight, 2)
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// FormatVolume renders a volume total with thousands separators.
func FormatVolume(volume float64, unit string) string {
	s := humanize.Commaf(math.Round(volume))
	if unit == "" {
		return s
	}
	return s + " " + unit
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}
