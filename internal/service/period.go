package service

import "time"

// Date filters are computed as half-open [start, end) ranges in Go so the
// repository queries stay portable across SQL dialects.

func yearRange(year int) (time.Time, time.Time) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(1, 0, 0)
}

func monthRange(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

func dayRange(day time.Time) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// lastDaysRange covers today and the preceding days-1 days.
func lastDaysRange(days int, now time.Time) (time.Time, time.Time) {
	_, end := dayRange(now)
	return end.AddDate(0, 0, -days), end
}
