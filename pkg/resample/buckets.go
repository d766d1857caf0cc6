package resample

import "time"

// DayStart rounds a timestamp down to midnight UTC.
func DayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart rounds a timestamp down to the Monday midnight starting its week.
func WeekStart(t time.Time) time.Time {
	day := DayStart(t)

	// time.Weekday counts Sunday as 0; shift so Monday is the origin.
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// MonthStart rounds a timestamp down to the first midnight of its month.
func MonthStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
