// Package deadline derives the time status of a project from its estimated
// end date. Every view that shows a deadline goes through Evaluate so the
// project list and the project detail banner always agree.
package deadline

import (
	"fmt"
	"math"
	"time"

	"github.com/dimitrije/projectboard/internal/models"
)

type Status string

const (
	Overdue    Status = "overdue"
	DueToday   Status = "due_today"
	Urgent     Status = "urgent"
	OnTime     Status = "on_time"
	Suppressed Status = "suppressed"
)

// UrgentWindow is the largest number of remaining days still reported as Urgent.
const UrgentWindow = 7

type Result struct {
	Status   Status `json:"status"`
	DaysLeft int    `json:"days_left"`
}

// DaysLeft returns the whole-day difference between target and today, both
// truncated to midnight. The calendar date of target is read as a date in
// today's location, so a DATE column loaded as UTC compares correctly.
func DaysLeft(target, today time.Time) int {
	loc := today.Location()
	t := midnightIn(target, loc)
	n := midnightIn(today, loc)
	return int(math.Round(t.Sub(n).Hours() / 24))
}

// ClassifyDays maps a day count onto a time status.
func ClassifyDays(daysLeft int) Status {
	switch {
	case daysLeft < 0:
		return Overdue
	case daysLeft == 0:
		return DueToday
	case daysLeft <= UrgentWindow:
		return Urgent
	default:
		return OnTime
	}
}

// Classify returns Suppressed for closed projects and the day-based status otherwise.
func Classify(target, today time.Time, status models.ProjectStatus) Status {
	if status.IsClosed() {
		return Suppressed
	}
	return ClassifyDays(DaysLeft(target, today))
}

func Evaluate(target, today time.Time, status models.ProjectStatus) Result {
	days := DaysLeft(target, today)
	if status.IsClosed() {
		return Result{Status: Suppressed, DaysLeft: days}
	}
	return Result{Status: ClassifyDays(days), DaysLeft: days}
}

// Banner renders the human text shown next to a deadline. Suppressed results
// have no banner.
func Banner(r Result) string {
	switch r.Status {
	case Overdue:
		n := -r.DaysLeft
		return fmt.Sprintf("Overdue by %d %s", n, plural(n))
	case DueToday:
		return "Due today"
	case Urgent:
		return fmt.Sprintf("%d %s left", r.DaysLeft, plural(r.DaysLeft))
	case OnTime:
		return fmt.Sprintf("On time - %d days", r.DaysLeft)
	}
	return ""
}

func midnightIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func plural(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
