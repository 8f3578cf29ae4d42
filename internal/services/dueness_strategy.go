package services

import (
	"fmt"
	"time"

	"github.com/ganeshkumar-07/Personal-Finance-Tracker-with-Analytics/internal/core"
)

// DuenessChecker decides whether a recurring template should materialize a
// transaction, given when it last ran. Each frequency has its own
// implementation.
type DuenessChecker interface {
	IsDue(lastRun, now time.Time, startDate core.Date) bool
}

// DailyChecker fires once per calendar day.
type DailyChecker struct{}

func (DailyChecker) IsDue(lastRun, now time.Time, _ core.Date) bool {
	if lastRun.IsZero() {
		return true
	}
	return lastRun.Format(core.DateLayout) != now.Format(core.DateLayout)
}

// WeeklyChecker fires when 7 or more days have passed since the last run.
type WeeklyChecker struct{}

func (WeeklyChecker) IsDue(lastRun, now time.Time, _ core.Date) bool {
	if lastRun.IsZero() {
		return true
	}
	daysSince := now.Sub(lastRun).Hours() / 24
	return daysSince >= 7
}

// MonthlyChecker fires once per month, on or after the start date's day of
// month. When that day does not exist in the current month (the 31st in
// February), the last day of the month is used instead.
type MonthlyChecker struct{}

func (MonthlyChecker) IsDue(lastRun, now time.Time, startDate core.Date) bool {
	if lastRun.IsZero() {
		return true
	}
	if lastRun.Year() == now.Year() && lastRun.Month() == now.Month() {
		return false
	}
	return now.Day() >= clampDay(startDate.Day(), now)
}

// YearlyChecker fires once per year, on or after the start date's month and
// day.
type YearlyChecker struct{}

func (YearlyChecker) IsDue(lastRun, now time.Time, startDate core.Date) bool {
	if lastRun.IsZero() {
		return true
	}
	if lastRun.Year() == now.Year() {
		return false
	}

	targetMonth := int(startDate.Month())
	switch {
	case int(now.Month()) < targetMonth:
		return false
	case int(now.Month()) == targetMonth:
		return now.Day() >= clampDay(startDate.Day(), now)
	default:
		return true
	}
}

// clampDay caps a target day of month to the last day of now's month.
func clampDay(target int, now time.Time) int {
	lastDay := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	if target > lastDay {
		return lastDay
	}
	return target
}

var duenessStrategies = map[core.Frequency]DuenessChecker{
	core.Daily:   DailyChecker{},
	core.Weekly:  WeeklyChecker{},
	core.Monthly: MonthlyChecker{},
	core.Yearly:  YearlyChecker{},
}

// GetDuenessChecker returns the checker for a frequency.
func GetDuenessChecker(frequency core.Frequency) (DuenessChecker, error) {
	checker, ok := duenessStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return checker, nil
}
