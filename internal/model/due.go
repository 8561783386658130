package model

import (
	"fmt"
	"time"
)

// DueStatus annotates a todo relative to today.
type DueStatus struct {
	Label string
	Class string // due-today | due-overdue | due-soon
	Days  int    // due - today, in calendar days
}

// DueStatusOf classifies due against today's calendar day. The time of day of
// today is ignored. ok is false when due is unset.
func DueStatusOf(due Date, today time.Time) (status DueStatus, ok bool) {
	if due.IsZero() {
		return DueStatus{}, false
	}
	diff := due.DaysSince(DateOf(today))
	status.Days = diff
	switch {
	case diff == 0:
		status.Label, status.Class = "due today", "due-today"
	case diff < 0:
		status.Label, status.Class = "overdue by "+days(-diff), "due-overdue"
	case diff == 1:
		status.Label, status.Class = "due tomorrow", "due-soon"
	default:
		status.Label, status.Class = "due in "+days(diff), "due-soon"
	}
	return status, true
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
