package blocked

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestBusinessDays(t *testing.T) {
	// 2024-03-04 is a Monday.
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", day(2024, 3, 4), day(2024, 3, 4), 0},
		{"monday to tuesday", day(2024, 3, 4), day(2024, 3, 5), 1},
		{"monday to next monday", day(2024, 3, 4), day(2024, 3, 11), 5},
		{"friday to monday", day(2024, 3, 8), day(2024, 3, 11), 1},
		{"saturday to monday", day(2024, 3, 9), day(2024, 3, 11), 0},
		{"sunday to wednesday", day(2024, 3, 10), day(2024, 3, 13), 2},
		{"two weeks and two days", day(2024, 3, 4), day(2024, 3, 20), 12},
		{"end before start", day(2024, 3, 11), day(2024, 3, 4), 0},
		{"across a year", day(2023, 1, 2), day(2024, 1, 1), 260},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BusinessDays(tt.start, tt.end))
		})
	}
}

func TestBusinessDays_UsesUTCDate(t *testing.T) {
	// 23:30 on Monday at -02:00 is already Tuesday in UTC.
	start := time.Date(2024, 3, 4, 23, 30, 0, 0, time.FixedZone("", -2*60*60))
	end := time.Date(2024, 3, 6, 0, 5, 0, 0, time.UTC)

	assert.Equal(t, 1, BusinessDays(start, end))
}

func TestBusinessDays_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 3, 4, 23, 59, 0, 0, time.UTC)
	end := time.Date(2024, 3, 5, 0, 1, 0, 0, time.UTC)

	assert.Equal(t, 1, BusinessDays(start, end))
}
