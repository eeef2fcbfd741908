package blocked

import "time"

// BusinessDays counts Monday–Friday dates in the half-open range
// [start, end). Both instants are reduced to their UTC calendar date
// first. There is no holiday calendar. A start on or after end yields 0.
func BusinessDays(start, end time.Time) int {
	s := utcDate(start)
	e := utcDate(end)
	if !e.After(s) {
		return 0
	}

	days := int(e.Sub(s).Hours() / 24)
	count := (days / 7) * 5

	wd := s.Weekday()
	for i := 0; i < days%7; i++ {
		if wd != time.Saturday && wd != time.Sunday {
			count++
		}
		wd = (wd + 1) % 7
	}

	return count
}

func utcDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
