package view

import "myday/internal/clock"

// DueLabel renders a due date relative to today.
func DueLabel(due, today clock.Date) string {
	switch {
	case due.IsZero():
		return "No date"
	case due == today:
		return "Today"
	case due == today.AddDays(1):
		return "Tomorrow"
	default:
		return due.Format("Jan 2")
	}
}
