// Package schedule builds the focus queue and runs the daily roll-forward.
package schedule

import (
	"sort"

	"github.com/abatilo/agenda/internal/task"
)

// Mode names a focus queue strategy.
type Mode string

const (
	// TodayRelevant is the deterministic ordering of the day's working set.
	TodayRelevant Mode = "today-relevant"
	// TopScored is the additive-score heuristic for "the N most important things".
	TopScored Mode = "top-scored"
)

// DefaultFocusSize is the number of tasks TopScored returns when n <= 0.
const DefaultFocusSize = 5

// IsValid reports whether m is a known strategy.
func (m Mode) IsValid() bool {
	return m == TodayRelevant || m == TopScored
}

// Score weights for TopScored.
const (
	scoreScheduledWithTime = 200
	scoreOverdue           = 100
	scoreDueToday          = 50
	scoreUrgent            = 40
	scoreHigh              = 30
	scoreMedium            = 20
	scoreWorking           = 10
	minutesPerDay          = 24 * 60
)

// BuildTodayRelevant selects active tasks scheduled today, due today, or
// overdue, and orders them:
//  1. scheduled today with a time, by that time ascending
//  2. overdue
//  3. everything else
//
// Inside tiers 2 and 3 tasks go by priority rank. Remaining ties go to the
// oldest task, then to id, so the result is deterministic for a snapshot.
func BuildTodayRelevant(tasks []*task.Task, today task.Date) []*task.Task {
	var out []*task.Task
	for _, t := range tasks {
		if t.IsDone() {
			continue
		}
		if t.ScheduledDate == today || t.DueDate == today || t.DueDate.Before(today) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ta, tb := tier(a, today), tier(b, today)
		if ta != tb {
			return ta < tb
		}
		if ta == 0 {
			if ma, mb := a.ScheduledTime.Minutes(), b.ScheduledTime.Minutes(); ma != mb {
				return ma < mb
			}
		} else if pa, pb := task.PriorityOrder(a.Priority), task.PriorityOrder(b.Priority); pa != pb {
			return pa < pb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func tier(t *task.Task, today task.Date) int {
	switch {
	case scheduledTodayWithTime(t, today):
		return 0
	case t.DueDate.Before(today):
		return 1
	default:
		return 2
	}
}

func scheduledTodayWithTime(t *task.Task, today task.Date) bool {
	return t.ScheduledDate == today && t.ScheduledTime.Minutes() >= 0
}

// Score returns the TopScored weight of t. It is a heuristic: the weights
// favour time-boxed work, then overdue, then due-today, with priority and
// in-flight status as smaller nudges.
func Score(t *task.Task, today task.Date) int {
	score := 0
	switch {
	case scheduledTodayWithTime(t, today):
		score += scoreScheduledWithTime + (minutesPerDay-t.ScheduledTime.Minutes())/60
	case t.DueDate == today:
		score += scoreDueToday
	}
	if t.DueDate.Before(today) {
		score += scoreOverdue
	}

	switch t.Priority {
	case task.PriorityUrgent:
		score += scoreUrgent
	case task.PriorityHigh:
		score += scoreHigh
	case task.PriorityMedium:
		score += scoreMedium
	case task.PriorityLow, task.PriorityNone:
	}

	if t.Status == task.StatusInProgress || t.Status == task.StatusReady {
		score += scoreWorking
	}
	return score
}

// BuildTopScored scores every active task and returns the n highest. Equal
// scores keep their input order; this is not a hard ordering guarantee and
// need not agree with BuildTodayRelevant.
func BuildTopScored(tasks []*task.Task, today task.Date, n int) []*task.Task {
	if n <= 0 {
		n = DefaultFocusSize
	}

	type scored struct {
		t     *task.Task
		score int
	}
	var candidates []scored
	for _, t := range tasks {
		if !t.IsDone() {
			candidates = append(candidates, scored{t: t, score: Score(t, today)})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	out := make([]*task.Task, 0, min(n, len(candidates)))
	for i := 0; i < len(candidates) && i < n; i++ {
		out = append(out, candidates[i].t)
	}
	return out
}

// Build dispatches to the named strategy. n only applies to TopScored.
func Build(mode Mode, tasks []*task.Task, today task.Date, n int) []*task.Task {
	if mode == TopScored {
		return BuildTopScored(tasks, today, n)
	}
	return BuildTodayRelevant(tasks, today)
}
