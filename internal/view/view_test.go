//nolint:testpackage // Tests require internal access for thorough testing
package view

import (
	"testing"
	"time"

	"github.com/abatilo/agenda/internal/deps"
	"github.com/abatilo/agenda/internal/index"
	"github.com/abatilo/agenda/internal/task"
)

const today = task.Date("2024-01-05")

var base = time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) //nolint:gochecknoglobals // shared fixture time

type fixture struct {
	store *task.Store
	idx   *index.Index
	graph *deps.Graph
}

func newFixture(inbox, work []*task.Task) *fixture {
	store := &task.Store{
		Projects: []*task.Project{
			{ID: "p-inbox", Name: "Inbox", IsInbox: true, Tasks: inbox},
			{ID: "p-work", Name: "Work", Tasks: work},
		},
	}
	idx := index.Build(store)
	return &fixture{store: store, idx: idx, graph: deps.NewGraph(idx)}
}

func (f *fixture) derive(q Query) Result {
	return Derive(f.idx, f.graph, today, q)
}

func mk(id string, opts ...func(*task.Task)) *task.Task {
	t := &task.Task{
		ID:        id,
		Name:      "Task " + id,
		Status:    task.StatusTodo,
		Priority:  task.PriorityNone,
		CreatedAt: base,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

func due(d task.Date) func(*task.Task) { return func(t *task.Task) { t.DueDate = d } }
func sched(d task.Date) func(*task.Task) { return func(t *task.Task) { t.ScheduledDate = d } }
func status(s task.Status) func(*task.Task) { return func(t *task.Task) { t.Status = s } }
func prio(p task.Priority) func(*task.Task) { return func(t *task.Task) { t.Priority = p } }
func created(h int) func(*task.Task) { return func(t *task.Task) { t.CreatedAt = base.Add(time.Duration(h) * time.Hour) } }
func named(n, desc string) func(*task.Task) { return func(t *task.Task) { t.Name, t.Description = n, desc } }
func tagged(tagIDs ...string) func(*task.Task) { return func(t *task.Task) { t.Tags = tagIDs } }

func ids(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func assertIDs(t *testing.T, got []*task.Task, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("got %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("got %v, want %v", g, want)
		}
	}
}

func TestViewSelection(t *testing.T) {
	f := newFixture(
		[]*task.Task{
			mk("in-open", created(1)),
			mk("in-done", status(task.StatusDone), created(2)),
		},
		[]*task.Task{
			mk("due-today", due(today), created(3)),
			mk("due-today-done", due(today), status(task.StatusDone), created(4)),
			mk("future", sched("2024-01-09"), created(5)),
			mk("past", due("2024-01-02"), created(6)),
			mk("waiting", status(task.StatusWaiting), created(7)),
			mk("tagged", tagged("g-home"), created(8)),
		},
	)

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"inbox", Query{View: Inbox}, []string{"in-open"}},
		{"today", Query{View: Today}, []string{"due-today"}},
		{"upcoming", Query{View: Upcoming}, []string{"due-today", "future"}},
		{"completed", Query{View: Completed}, []string{"due-today-done", "in-done"}},
		{"waiting", Query{View: Waiting}, []string{"waiting"}},
		{"tag", Query{View: Tag, TagID: "g-home"}, []string{"tagged"}},
		{"project", Query{View: Project, ProjectID: "p-inbox"}, []string{"in-done", "in-open"}},
		{"unknown project", Query{View: Project, ProjectID: "p-gone"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertIDs(t, f.derive(tt.query).Tasks, tt.want...)
		})
	}
}

func TestBlockedView(t *testing.T) {
	a := mk("a")
	b := mk("b")
	f := newFixture(nil, []*task.Task{a, b})
	if err := f.graph.AddDependency("b", "a"); err != nil {
		t.Fatalf("AddDependency failed: %v", err)
	}

	assertIDs(t, f.derive(Query{View: Blocked}).Tasks, "b")

	a.SetStatus(task.StatusDone, base)
	assertIDs(t, f.derive(Query{View: Blocked}).Tasks)
}

func TestUpcomingSortsByEarliestDateMissingLast(t *testing.T) {
	f := newFixture(nil, []*task.Task{
		mk("late", due("2024-01-20")),
		mk("sched-first", sched("2024-01-06"), due("2024-01-30")),
		mk("due-first", sched("2024-01-10"), due("2024-01-07")),
	})
	assertIDs(t, f.derive(Query{View: Upcoming}).Tasks, "sched-first", "due-first", "late")
}

func TestFreeTextFilter(t *testing.T) {
	f := newFixture(nil, []*task.Task{
		mk("a", named("Write REPORT", ""), created(1)),
		mk("b", named("Groceries", "milk and a report card"), created(2)),
		mk("c", named("Call mom", ""), created(3)),
	})
	assertIDs(t, f.derive(Query{View: All, Text: "report"}).Tasks, "b", "a")
	assertIDs(t, f.derive(Query{View: All, Text: "zzz"}).Tasks)
}

func TestSortKeys(t *testing.T) {
	f := newFixture(nil, []*task.Task{
		mk("a", named("banana", ""), due("2024-01-09"), prio(task.PriorityLow), created(1)),
		mk("b", named("Apple", ""), prio(task.PriorityUrgent), created(2)),
		mk("c", named("cherry", ""), due("2024-01-06"), prio(task.PriorityMedium), created(3)),
	})

	tests := []struct {
		sort SortKey
		want []string
	}{
		{SortDefault, []string{"c", "b", "a"}},
		{SortCreated, []string{"c", "b", "a"}},
		{SortDue, []string{"c", "a", "b"}},
		{SortPriority, []string{"b", "c", "a"}},
		{SortName, []string{"b", "a", "c"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.sort), func(t *testing.T) {
			assertIDs(t, f.derive(Query{View: All, Sort: tt.sort}).Tasks, tt.want...)
		})
	}
}

func TestSortReady(t *testing.T) {
	a := mk("a", prio(task.PriorityUrgent), created(1))
	b := mk("b", prio(task.PriorityLow), created(2))
	c := mk("c", prio(task.PriorityMedium), created(3))
	a.BlockedBy = []string{"b"}
	b.Blocks = []string{"a"}
	f := newFixture(nil, []*task.Task{a, b, c})

	assertIDs(t, f.derive(Query{View: All, Sort: SortReady}).Tasks, "c", "b", "a")

	b.Status = task.StatusDone
	assertIDs(t, f.derive(Query{View: All, Sort: SortReady}).Tasks, "a", "c", "b")
}

func TestMasterListToggles(t *testing.T) {
	f := newFixture(
		[]*task.Task{mk("i1", prio(task.PriorityHigh), created(1))},
		[]*task.Task{
			mk("w1", status(task.StatusDone), prio(task.PriorityHigh), created(2)),
			mk("w2", status(task.StatusReview), prio(task.PriorityLow), created(3)),
		},
	)

	assertIDs(t, f.derive(Query{View: All, HideCompleted: true}).Tasks, "w2", "i1")
	assertIDs(t, f.derive(Query{View: All, Priorities: []task.Priority{task.PriorityHigh}}).Tasks, "w1", "i1")
	assertIDs(t, f.derive(Query{View: All, Statuses: []task.Status{task.StatusReview}}).Tasks, "w2")
	assertIDs(t, f.derive(Query{View: All, ProjectIDs: []string{"p-inbox"}}).Tasks, "i1")
}

func TestGroupByPriorityOrdersUrgentToNone(t *testing.T) {
	f := newFixture(nil, []*task.Task{
		mk("low", prio(task.PriorityLow)),
		mk("none", prio(task.PriorityNone)),
		mk("urgent", prio(task.PriorityUrgent)),
		mk("medium", prio(task.PriorityMedium)),
		mk("high", prio(task.PriorityHigh)),
	})

	res := f.derive(Query{View: All, Group: GroupPriority})
	if len(res.Groups) != 5 {
		t.Fatalf("got %d groups, want 5", len(res.Groups))
	}
	for i, p := range task.Priorities {
		g := res.Groups[i]
		if g.Key != string(p) || len(g.Tasks) != 1 || g.Tasks[0].ID != string(p) {
			t.Errorf("group %d = %s %v, want %s", i, g.Key, ids(g.Tasks), p)
		}
	}
}

func TestGroupByDueBuckets(t *testing.T) {
	f := newFixture(nil, []*task.Task{
		mk("nodate", created(1)),
		mk("later", due("2024-01-12"), created(2)),
		mk("soon", due("2024-01-07"), created(3)),
		mk("now", due(today), created(4)),
		mk("old", due("2023-12-31"), created(5)),
	})

	res := f.derive(Query{View: All, Group: GroupDue})
	want := []string{BucketOverdue, BucketToday, "2024-01-07", "2024-01-12", BucketNoDate}
	if len(res.Groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(res.Groups), len(want))
	}
	for i, k := range want {
		if res.Groups[i].Key != k {
			t.Errorf("group %d = %s, want %s", i, res.Groups[i].Key, k)
		}
	}
}

func TestGroupByStatusAndProject(t *testing.T) {
	f := newFixture(
		[]*task.Task{mk("i1", status(task.StatusDone), created(1))},
		[]*task.Task{
			mk("w1", status(task.StatusReview), created(2)),
			mk("w2", status(task.StatusTodo), created(3)),
		},
	)

	res := f.derive(Query{View: All, Group: GroupStatus})
	if len(res.Groups) != 3 || res.Groups[0].Key != "todo" || res.Groups[1].Key != "review" || res.Groups[2].Key != "done" {
		t.Errorf("unexpected status groups: %+v", res.Groups)
	}

	res = f.derive(Query{View: All, Group: GroupProject})
	if len(res.Groups) != 2 {
		t.Fatalf("got %d project groups, want 2", len(res.Groups))
	}
	if res.Groups[0].Key != "p-inbox" || res.Groups[1].Label != "Work" {
		t.Errorf("unexpected project groups: %+v", res.Groups)
	}
	// Order inside a group follows the sorted list (created descending)
	assertIDs(t, res.Groups[1].Tasks, "w2", "w1")
}

func TestDeriveIsPure(t *testing.T) {
	tk := mk("a", due("2024-01-01"))
	f := newFixture(nil, []*task.Task{tk})
	before := *tk
	f.derive(Query{View: All, Group: GroupDue, Sort: SortDue})
	if tk.DueDate != before.DueDate || tk.Status != before.Status {
		t.Error("Derive mutated a task")
	}
}
