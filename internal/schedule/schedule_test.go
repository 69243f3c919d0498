//nolint:testpackage // Tests require internal access for thorough testing
package schedule

import (
	"testing"
	"time"

	"github.com/abatilo/agenda/internal/task"
)

const today = task.Date("2024-01-05")

func makeTask(id string, p task.Priority, createdHour int) *task.Task {
	return &task.Task{
		ID:        id,
		Name:      "Task " + id,
		Status:    task.StatusTodo,
		Priority:  p,
		CreatedAt: time.Date(2024, 1, 1, createdHour, 0, 0, 0, time.UTC),
	}
}

func order(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func assertOrder(t *testing.T, got []*task.Task, want ...string) {
	t.Helper()
	g := order(got)
	if len(g) != len(want) {
		t.Fatalf("order = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("order = %v, want %v", g, want)
		}
	}
}

func TestTodayRelevantOverdueBeforeDueToday(t *testing.T) {
	a := makeTask("A", task.PriorityNone, 1)
	a.DueDate = today
	b := makeTask("B", task.PriorityUrgent, 2)
	b.DueDate = today
	c := makeTask("C", task.PriorityNone, 3)
	c.DueDate = "2024-01-02"

	assertOrder(t, BuildTodayRelevant([]*task.Task{a, b, c}, today), "C", "B", "A")
}

func TestTodayRelevantTieredOrdering(t *testing.T) {
	late := makeTask("at-14", task.PriorityNone, 1)
	late.ScheduledDate, late.ScheduledTime = today, "14:00"
	early := makeTask("at-09", task.PriorityLow, 2)
	early.ScheduledDate, early.ScheduledTime = today, "09:00"
	overdueLow := makeTask("overdue-low", task.PriorityLow, 3)
	overdueLow.DueDate = "2024-01-01"
	overdueHigh := makeTask("overdue-high", task.PriorityHigh, 4)
	overdueHigh.DueDate = "2024-01-03"
	schedNoTime := makeTask("sched-old", task.PriorityMedium, 0)
	schedNoTime.ScheduledDate = today
	schedNoTime2 := makeTask("sched-new", task.PriorityMedium, 5)
	schedNoTime2.ScheduledDate = today

	done := makeTask("done", task.PriorityUrgent, 0)
	done.DueDate = today
	done.Status = task.StatusDone
	tomorrow := makeTask("tomorrow", task.PriorityUrgent, 0)
	tomorrow.DueDate = "2024-01-06"
	schedPast := makeTask("sched-past", task.PriorityUrgent, 0)
	schedPast.ScheduledDate = "2024-01-04"

	input := []*task.Task{late, early, overdueLow, overdueHigh, schedNoTime2, schedNoTime, done, tomorrow, schedPast}
	assertOrder(t, BuildTodayRelevant(input, today),
		"at-09", "at-14", "overdue-high", "overdue-low", "sched-old", "sched-new")
}

func TestTodayRelevantIsDeterministic(t *testing.T) {
	a := makeTask("a", task.PriorityMedium, 1)
	b := makeTask("b", task.PriorityMedium, 1)
	a.DueDate, b.DueDate = today, today

	first := order(BuildTodayRelevant([]*task.Task{b, a}, today))
	second := order(BuildTodayRelevant([]*task.Task{a, b}, today))
	if first[0] != second[0] || first[1] != second[1] {
		t.Errorf("order depends on input: %v vs %v", first, second)
	}
}

func TestScore(t *testing.T) {
	timed := makeTask("timed", task.PriorityNone, 0)
	timed.ScheduledDate, timed.ScheduledTime = today, "09:00"
	overdue := makeTask("overdue", task.PriorityUrgent, 0)
	overdue.DueDate = "2024-01-01"
	dueToday := makeTask("due", task.PriorityHigh, 0)
	dueToday.DueDate = today
	dueToday.Status = task.StatusInProgress
	plain := makeTask("plain", task.PriorityMedium, 0)
	plain.Status = task.StatusReady

	tests := []struct {
		t    *task.Task
		want int
	}{
		{timed, 200 + (1440-540)/60},
		{overdue, 100 + 40},
		{dueToday, 50 + 30 + 10},
		{plain, 20 + 10},
	}
	for _, tt := range tests {
		t.Run(tt.t.ID, func(t *testing.T) {
			if got := Score(tt.t, today); got != tt.want {
				t.Errorf("Score(%s) = %d, want %d", tt.t.ID, got, tt.want)
			}
		})
	}

	earlier := makeTask("earlier", task.PriorityNone, 0)
	earlier.ScheduledDate, earlier.ScheduledTime = today, "07:00"
	if Score(earlier, today) <= Score(timed, today) {
		t.Error("earlier scheduled time should score higher")
	}
}

func TestTopScored(t *testing.T) {
	var tasks []*task.Task
	for i, p := range []task.Priority{task.PriorityNone, task.PriorityLow, task.PriorityMedium, task.PriorityHigh} {
		tasks = append(tasks, makeTask(string(p), p, i))
	}
	timed := makeTask("timed", task.PriorityNone, 9)
	timed.ScheduledDate, timed.ScheduledTime = today, "10:00"
	overdue := makeTask("overdue", task.PriorityNone, 9)
	overdue.DueDate = "2024-01-01"
	done := makeTask("done", task.PriorityUrgent, 9)
	done.ScheduledDate, done.ScheduledTime = today, "08:00"
	done.Status = task.StatusDone
	tasks = append(tasks, timed, overdue, done)

	assertOrder(t, BuildTopScored(tasks, today, 3), "timed", "overdue", "high")

	// Default size and stable ties: none and low both score 0
	all := BuildTopScored(tasks, today, 0)
	assertOrder(t, all, "timed", "overdue", "high", "medium", "none")
}

func TestBuildDispatch(t *testing.T) {
	a := makeTask("a", task.PriorityNone, 0)
	a.DueDate = today
	b := makeTask("b", task.PriorityHigh, 0)

	assertOrder(t, Build(TodayRelevant, []*task.Task{a, b}, today, 0), "a")
	assertOrder(t, Build(TopScored, []*task.Task{a, b}, today, 1), "a")
	if Mode("bogus").IsValid() {
		t.Error("unknown mode should be invalid")
	}
}

func TestRollForward(t *testing.T) {
	stale := makeTask("stale", task.PriorityNone, 0)
	stale.ScheduledDate, stale.ScheduledTime = "2024-01-01", "09:30"
	stale.SnoozeCount = 2

	dueSlip := makeTask("due-slip", task.PriorityNone, 0)
	dueSlip.DueDate = "2024-01-03"

	both := makeTask("both", task.PriorityNone, 0)
	both.ScheduledDate, both.DueDate = "2024-01-02", "2024-01-04"

	fresh := makeTask("fresh", task.PriorityNone, 0)
	fresh.ScheduledDate, fresh.ScheduledTime = today, "11:00"

	done := makeTask("done", task.PriorityNone, 0)
	done.ScheduledDate = "2024-01-01"
	done.Status = task.StatusDone

	tasks := []*task.Task{stale, dueSlip, both, fresh, done}
	r := RollForward(tasks, today)

	if r.Count() != 3 {
		t.Errorf("Count() = %d, want 3 (%v)", r.Count(), r.Affected)
	}
	if r.Rescheduled != 2 || r.Redue != 2 {
		t.Errorf("Rescheduled=%d Redue=%d, want 2 and 2", r.Rescheduled, r.Redue)
	}
	if stale.ScheduledDate != today || stale.ScheduledTime != "" || stale.SnoozeCount != 3 {
		t.Errorf("stale = %s %q snooze=%d", stale.ScheduledDate, stale.ScheduledTime, stale.SnoozeCount)
	}
	if dueSlip.DueDate != today || dueSlip.SnoozeCount != 0 {
		t.Errorf("due slip = %s snooze=%d", dueSlip.DueDate, dueSlip.SnoozeCount)
	}
	if fresh.ScheduledTime != "11:00" || fresh.SnoozeCount != 0 {
		t.Error("fresh task should be untouched")
	}
	if done.ScheduledDate != "2024-01-01" {
		t.Error("done task should be untouched")
	}

	again := RollForward(tasks, today)
	if again.Count() != 0 {
		t.Errorf("second run affected %d tasks, want 0", again.Count())
	}
	if stale.SnoozeCount != 3 {
		t.Errorf("second run changed snooze count to %d", stale.SnoozeCount)
	}
}
