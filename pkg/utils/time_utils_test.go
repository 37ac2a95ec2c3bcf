package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISO8601RoundTripsWithZSuffix(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"z suffix", "2025-12-16T00:00:00Z", "2025-12-16T00:00:00Z"},
		{"explicit utc offset", "2025-12-16T00:00:00+00:00", "2025-12-16T00:00:00Z"},
		{"no offset assumed utc", "2025-12-16T00:00:00", "2025-12-16T00:00:00Z"},
		{"positive offset normalized", "2025-12-16T02:00:00+02:00", "2025-12-16T00:00:00Z"},
		{"fractional seconds", "2025-09-15T10:30:45.123456Z", "2025-09-15T10:30:45Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, ok := ParseISO8601(tt.input)
			require.True(t, ok, "ParseISO8601(%q)", tt.input)
			assert.Equal(t, tt.want, FormatUTC(parsed.Truncate(time.Second)))
		})
	}
}

func TestParseISO8601RejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "not-a-time", "12345Z", "2025-13-40T99:00:00Z"} {
		_, ok := ParseISO8601(input)
		assert.False(t, ok, "ParseISO8601(%q) should fail", input)
	}
}

func TestHoursSinceIsLinearInElapsedSeconds(t *testing.T) {
	now := time.Date(2025, 12, 16, 12, 0, 0, 0, time.UTC)
	then := time.Date(2025, 12, 16, 11, 0, 0, 0, time.UTC)

	assert.Equal(t, 1.0, HoursSince(then, now))
	assert.Equal(t, 0.5, HoursSince(now.Add(-30*time.Minute), now))
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 25.0, RoundHours(25.0))
	assert.Equal(t, 1.23, RoundHours(1.2345))
	assert.Equal(t, 2.68, RoundHours(2.678))
}
