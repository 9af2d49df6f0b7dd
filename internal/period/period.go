// internal/period/period.go
package period

import (
	"fmt"
	"time"
)

// WeekRange returns the inclusive bounds of the calendar week containing now,
// normalized to 00:00:00 of the first day and 23:59:59 of the last day in
// now's location. The day the week starts on is configuration, not a guess:
// the backend historically used Sunday while the browser client used Monday,
// so callers pass the convention explicitly.
func WeekRange(now time.Time, weekStart time.Weekday) (time.Time, time.Time) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	back := (int(day.Weekday()) - int(weekStart) + 7) % 7
	start := day.AddDate(0, 0, -back)
	end := start.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return start, end
}

// MonthRange returns the inclusive bounds of the given 1-indexed month:
// 00:00:00 on the first day through 23:59:59 on the last day, in UTC.
func MonthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < 1 {
		return time.Time{}, time.Time{}, fmt.Errorf("year must be positive, got %d", year)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	// Day 0 of the next month normalizes to the last day of this month.
	end := time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 0, time.UTC)
	return start, end, nil
}

// EndOfDay normalizes t to 23:59:59 of its calendar date.
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

// StartOfDay normalizes t to 00:00:00 of its calendar date.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
