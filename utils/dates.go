// utils/dates.go
package utils

import (
	"strconv"
	"time"

	"cutine-backend/models"
)

// CalendarDay maps the calendar date of t to midnight UTC so that day
// differences are never skewed by DST transitions.
func CalendarDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func DaysBetween(start, end time.Time) int {
	start = CalendarDay(start)
	end = CalendarDay(end)
	return int(end.Sub(start).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD string into midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(models.DateLayout, s, time.UTC)
}

// FormatDate renders the calendar date of t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(models.DateLayout)
}

// RelativeDayLabel renders a day offset the way the dashboard shows it.
func RelativeDayLabel(days int) string {
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days < 0:
		return strconv.Itoa(-days) + " days ago"
	default:
		return strconv.Itoa(days) + " days"
	}
}
