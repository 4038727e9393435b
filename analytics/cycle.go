// Package analytics derives haircut-cycle statistics from a sorted record
// history. Everything here is pure: callers pass "today" explicitly.
package analytics

import (
	"math"
	"time"

	"cutine-backend/models"
	"cutine-backend/utils"
)

// AverageCycle returns the mean spacing in days of a history sorted by date
// descending: the span from oldest to newest divided by len-1, rounded.
// It reports false with fewer than two records or an unparseable date.
func AverageCycle(sortedDesc []models.CutRecord) (int, bool) {
	if len(sortedDesc) < 2 {
		return 0, false
	}
	newest, err := utils.ParseDate(sortedDesc[0].Date)
	if err != nil {
		return 0, false
	}
	oldest, err := utils.ParseDate(sortedDesc[len(sortedDesc)-1].Date)
	if err != nil {
		return 0, false
	}
	span := utils.DaysBetween(oldest, newest)
	if span < 0 {
		span = -span
	}
	return int(math.Round(float64(span) / float64(len(sortedDesc)-1))), true
}

// DaysSinceLastCut counts whole days from lastCut to today.
func DaysSinceLastCut(lastCut, today time.Time) int {
	return utils.DaysBetween(lastCut, today)
}

// NextCutDate is the predicted date of the next cut.
func NextCutDate(lastCut time.Time, cycleDays int) time.Time {
	return utils.CalendarDay(lastCut).AddDate(0, 0, cycleDays)
}

// CalculateDday returns the days left until the next predicted cut:
// positive ahead of it, zero on the day, negative once overdue.
func CalculateDday(lastCut time.Time, cycleDays int, today time.Time) int {
	return utils.DaysBetween(today, NextCutDate(lastCut, cycleDays))
}
