package utils

import (
	"math"
	"strings"
	"time"
)

// naive layouts accepted when a timestamp carries no offset; the zone is
// assumed to be UTC in that case.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// ParseISO8601 parses an ISO-8601 timestamp. Accepts a trailing "Z", an
// explicit offset, or no offset at all (assumed UTC, matching the
// audit-events docs sample "2025-09-15T10:30:45.123456Z").
func ParseISO8601(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}

	if strings.HasSuffix(value, "Z") || strings.HasSuffix(value, "z") {
		for _, layout := range naiveLayouts {
			if t, err := time.Parse(layout, value[:len(value)-1]); err == nil {
				return t.UTC(), true
			}
		}
		return time.Time{}, false
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, true
	}

	for _, layout := range naiveLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// FormatUTC renders a timestamp in ISO-8601 with a literal Z suffix.
func FormatUTC(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// HoursSince returns the elapsed hours between t and now as a real number.
func HoursSince(t time.Time, now time.Time) float64 {
	return now.Sub(t).Hours()
}

// RoundHours rounds an hour count to 2 decimal places for display.
func RoundHours(hours float64) float64 {
	return math.Round(hours*100) / 100
}
