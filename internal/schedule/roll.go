package schedule

import "github.com/abatilo/agenda/internal/task"

// Report summarizes a roll-forward sweep.
type Report struct {
	Today       task.Date
	Affected    []string // ids, each listed once
	Rescheduled int      // stale scheduled dates moved
	Redue       int      // stale due dates moved
}

// Count returns the number of affected tasks.
func (r Report) Count() int {
	return len(r.Affected)
}

// RollForward moves stale dates of active tasks to today. A stale scheduled
// date also drops its time of day and counts as a snooze; a stale due date
// does not touch SnoozeCount. Running it again on the same day changes nothing.
func RollForward(tasks []*task.Task, today task.Date) Report {
	r := Report{Today: today}
	for _, t := range tasks {
		if t.IsDone() {
			continue
		}
		touched := false
		if t.ScheduledDate.Before(today) {
			t.ScheduledDate = today
			t.ScheduledTime = ""
			t.SnoozeCount++
			r.Rescheduled++
			touched = true
		}
		if t.DueDate.Before(today) {
			t.DueDate = today
			r.Redue++
			touched = true
		}
		if touched {
			r.Affected = append(r.Affected, t.ID)
		}
	}
	return r
}
