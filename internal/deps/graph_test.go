//nolint:testpackage // Tests require internal access for thorough testing
package deps

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"testing"
	"time"

	agendaerrors "github.com/abatilo/agenda/internal/errors"
	"github.com/abatilo/agenda/internal/index"
	"github.com/abatilo/agenda/internal/task"
)

func makeTask(id string, status task.Status) *task.Task {
	return &task.Task{
		ID:        id,
		Name:      "Task " + id,
		Status:    status,
		Priority:  task.PriorityMedium,
		CreatedAt: time.Now(),
	}
}

func makeGraph(tasks ...*task.Task) (*Graph, *task.Store) {
	store := &task.Store{Projects: []*task.Project{{ID: "p-1", Name: "One", Tasks: tasks}}}
	return NewGraph(index.Build(store)), store
}

func mustAdd(t *testing.T, g *Graph, taskID, blockerID string) {
	t.Helper()
	if err := g.AddDependency(taskID, blockerID); err != nil {
		t.Fatalf("AddDependency(%s, %s) failed: %v", taskID, blockerID, err)
	}
}

func TestAddDependencyUpdatesBothSides(t *testing.T) {
	x, y := makeTask("x", task.StatusTodo), makeTask("y", task.StatusTodo)
	g, _ := makeGraph(x, y)

	mustAdd(t, g, "x", "y")
	if !slices.Equal(x.BlockedBy, []string{"y"}) {
		t.Errorf("x.BlockedBy = %v, want [y]", x.BlockedBy)
	}
	if !slices.Equal(y.Blocks, []string{"x"}) {
		t.Errorf("y.Blocks = %v, want [x]", y.Blocks)
	}

	// Idempotent re-add
	mustAdd(t, g, "x", "y")
	if len(x.BlockedBy) != 1 || len(y.Blocks) != 1 {
		t.Errorf("re-add duplicated edges: %v %v", x.BlockedBy, y.Blocks)
	}
}

func TestAddDependencyRejectsReverseEdge(t *testing.T) {
	x, y := makeTask("x", task.StatusTodo), makeTask("y", task.StatusTodo)
	g, _ := makeGraph(x, y)

	mustAdd(t, g, "x", "y")
	err := g.AddDependency("y", "x")

	var cycle agendaerrors.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("AddDependency(y, x) error = %v, want CycleError", err)
	}
	if !slices.Equal(x.BlockedBy, []string{"y"}) {
		t.Errorf("x.BlockedBy = %v, want [y]", x.BlockedBy)
	}
	if len(y.BlockedBy) != 0 {
		t.Errorf("y.BlockedBy = %v, want []", y.BlockedBy)
	}
}

func TestAddDependencyRejections(t *testing.T) {
	a := makeTask("a", task.StatusTodo)
	sub := makeTask("a-sub", task.StatusTodo)
	sub.ParentID = "a"
	a.Subtasks = []*task.Task{sub}
	b := makeTask("b", task.StatusTodo)
	g, _ := makeGraph(a, b)

	tests := []struct {
		name      string
		taskID    string
		blockerID string
		check     func(error) bool
	}{
		{"self", "a", "a", func(err error) bool {
			var e agendaerrors.SelfDependencyError
			return errors.As(err, &e)
		}},
		{"missing task", "zzz", "a", func(err error) bool {
			var e agendaerrors.TaskNotFoundError
			return errors.As(err, &e) && e.ID == "zzz"
		}},
		{"missing blocker", "a", "zzz", func(err error) bool {
			var e agendaerrors.TaskNotFoundError
			return errors.As(err, &e) && e.ID == "zzz"
		}},
		{"subtask", "b", "a-sub", func(err error) bool {
			var e agendaerrors.SubtaskDependencyError
			return errors.As(err, &e)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddDependency(tt.taskID, tt.blockerID); !tt.check(err) {
				t.Errorf("AddDependency(%q, %q) error = %v", tt.taskID, tt.blockerID, err)
			}
		})
	}
	if len(a.BlockedBy)+len(b.BlockedBy)+len(sub.Blocks) != 0 {
		t.Error("rejected calls must not mutate the graph")
	}
}

func TestWouldCreateCycle(t *testing.T) {
	// a is blocked by b, b is blocked by c
	a, b, c := makeTask("a", task.StatusTodo), makeTask("b", task.StatusTodo), makeTask("c", task.StatusTodo)
	g, _ := makeGraph(a, b, c)
	mustAdd(t, g, "a", "b")
	mustAdd(t, g, "b", "c")

	tests := []struct {
		taskID, blockerID string
		cycle             bool
	}{
		{"c", "a", true},  // c blocked by a closes a -> b -> c -> a
		{"c", "b", true},  // c blocked by b closes b -> c -> b
		{"a", "c", false}, // a blocked by c is transitive already
		{"c", "d", false}, // d doesn't exist, no cycle
	}

	for _, tt := range tests {
		t.Run(tt.taskID+"<-"+tt.blockerID, func(t *testing.T) {
			if got := g.WouldCreateCycle(tt.taskID, tt.blockerID); got != tt.cycle {
				t.Errorf("WouldCreateCycle(%q, %q) = %v, want %v", tt.taskID, tt.blockerID, got, tt.cycle)
			}
		})
	}
}

func TestWouldCreateCycleTerminatesOnMalformedData(t *testing.T) {
	// A pre-existing cycle written directly into the data
	a, b := makeTask("a", task.StatusTodo), makeTask("b", task.StatusTodo)
	a.BlockedBy = []string{"b"}
	b.BlockedBy = []string{"a"}
	c := makeTask("c", task.StatusTodo)
	g, _ := makeGraph(a, b, c)

	if g.WouldCreateCycle("c", "a") {
		t.Error("c is not reachable from a, expected no cycle")
	}
}

func TestRemoveDependency(t *testing.T) {
	x, y := makeTask("x", task.StatusTodo), makeTask("y", task.StatusTodo)
	g, _ := makeGraph(x, y)
	mustAdd(t, g, "x", "y")

	g.RemoveDependency("x", "y")
	if len(x.BlockedBy) != 0 || len(y.Blocks) != 0 {
		t.Errorf("edges remain: %v %v", x.BlockedBy, y.Blocks)
	}

	// Idempotent, including for unknown ids
	g.RemoveDependency("x", "y")
	g.RemoveDependency("nope", "y")
}

func TestDetach(t *testing.T) {
	a, b, c := makeTask("a", task.StatusTodo), makeTask("b", task.StatusTodo), makeTask("c", task.StatusTodo)
	g, _ := makeGraph(a, b, c)
	mustAdd(t, g, "a", "b")
	mustAdd(t, g, "b", "c")

	g.Detach("b")
	if len(a.BlockedBy) != 0 || len(c.Blocks) != 0 {
		t.Errorf("neighbours still reference b: %v %v", a.BlockedBy, c.Blocks)
	}
	if len(b.BlockedBy) != 0 || len(b.Blocks) != 0 {
		t.Errorf("b still has edges: %v %v", b.BlockedBy, b.Blocks)
	}
}

func TestIsBlocked(t *testing.T) {
	a := makeTask("a", task.StatusTodo)
	b := makeTask("b", task.StatusTodo)
	c := makeTask("c", task.StatusDone)
	d := makeTask("d", task.StatusTodo)
	e := makeTask("e", task.StatusTodo)
	g, _ := makeGraph(a, b, c, d, e)
	mustAdd(t, g, "b", "a") // open blocker
	mustAdd(t, g, "d", "c") // done blocker
	e.BlockedBy = []string{"gone"}

	tests := []struct {
		t       *task.Task
		blocked bool
	}{
		{a, false}, // No dependencies
		{b, true},  // Blocked by open task
		{c, false},
		{d, false}, // Blocked by done task
		{e, false}, // Dangling blocker is not blocking
	}

	for _, tt := range tests {
		t.Run(tt.t.ID, func(t *testing.T) {
			if got := g.IsBlocked(tt.t); got != tt.blocked {
				t.Errorf("IsBlocked(%q) = %v, want %v", tt.t.ID, got, tt.blocked)
			}
		})
	}
}

func TestBlockingAndBlockedTasksDropDangling(t *testing.T) {
	a, b := makeTask("a", task.StatusTodo), makeTask("b", task.StatusDone)
	g, _ := makeGraph(a, b)
	mustAdd(t, g, "a", "b")
	a.BlockedBy = append(a.BlockedBy, "ghost")
	b.Blocks = append(b.Blocks, "ghost")

	if got := g.BlockingTasks(a); len(got) != 1 || got[0] != b {
		t.Errorf("BlockingTasks(a) = %v, want [b]", got)
	}
	if got := g.BlockedTasks(b); len(got) != 1 || got[0] != a {
		t.Errorf("BlockedTasks(b) = %v, want [a]", got)
	}
	if got := g.OpenBlockers(a); len(got) != 0 {
		t.Errorf("OpenBlockers(a) = %v, want none (b is done)", got)
	}
}

func TestRandomSequencesStayAcyclicAndSymmetric(t *testing.T) {
	const n = 8
	tasks := make([]*task.Task, n)
	for i := range tasks {
		tasks[i] = makeTask(fmt.Sprintf("t%d", i), task.StatusTodo)
	}
	g, _ := makeGraph(tasks...)
	rng := rand.New(rand.NewSource(42)) //nolint:gosec // deterministic test data

	for step := 0; step < 400; step++ {
		a := tasks[rng.Intn(n)].ID
		b := tasks[rng.Intn(n)].ID
		if rng.Intn(4) == 0 {
			g.RemoveDependency(a, b)
		} else {
			_ = g.AddDependency(a, b)
		}
	}

	byID := map[string]*task.Task{}
	for _, tk := range tasks {
		byID[tk.ID] = tk
	}
	for _, a := range tasks {
		for _, b := range a.BlockedBy {
			if !slices.Contains(byID[b].Blocks, a.ID) {
				t.Errorf("%s blocked by %s but %s.Blocks = %v", a.ID, b, b, byID[b].Blocks)
			}
		}
		for _, b := range a.Blocks {
			if !slices.Contains(byID[b].BlockedBy, a.ID) {
				t.Errorf("%s blocks %s but %s.BlockedBy = %v", a.ID, b, b, byID[b].BlockedBy)
			}
		}
	}

	// Kahn's algorithm must consume every node of an acyclic graph
	indegree := map[string]int{}
	for _, tk := range tasks {
		indegree[tk.ID] = len(tk.BlockedBy)
	}
	var queue []string
	for id, d := range indegree {
		if d == 0 {
			queue = append(queue, id)
		}
	}
	seen := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		seen++
		for _, next := range byID[id].Blocks {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if seen != n {
		t.Errorf("topological sort visited %d of %d tasks: graph has a cycle", seen, n)
	}
}

func makeTaskWithPriority(id string, priority task.Priority, createdAt time.Time) *task.Task {
	tk := makeTask(id, task.StatusTodo)
	tk.Priority = priority
	tk.CreatedAt = createdAt
	return tk
}

func TestSortByReadiness(t *testing.T) {
	now := time.Now()
	tasks := []*task.Task{
		makeTaskWithPriority("blocked-high", task.PriorityHigh, now.Add(1*time.Hour)),
		makeTaskWithPriority("blocked-low", task.PriorityLow, now.Add(2*time.Hour)),
		makeTaskWithPriority("unblocked-low", task.PriorityLow, now.Add(3*time.Hour)),
		makeTaskWithPriority("unblocked-high", task.PriorityHigh, now.Add(4*time.Hour)),
		makeTaskWithPriority("blocker", task.PriorityMedium, now),
	}
	g, _ := makeGraph(tasks...)
	mustAdd(t, g, "blocked-high", "blocker")
	mustAdd(t, g, "blocked-low", "blocker")

	g.SortByReadiness(tasks)

	expectedOrder := []string{"unblocked-high", "blocker", "unblocked-low", "blocked-high", "blocked-low"}
	for i, expected := range expectedOrder {
		if tasks[i].ID != expected {
			t.Errorf("Position %d: got %s, want %s", i, tasks[i].ID, expected)
		}
	}
}

func TestReady(t *testing.T) {
	a := makeTask("a", task.StatusTodo)
	b := makeTask("b", task.StatusTodo)
	c := makeTask("c", task.StatusDone)
	d := makeTask("d", task.StatusInProgress)
	e := makeTask("e", task.StatusWaiting)
	g, _ := makeGraph(a, b, c, d, e)
	mustAdd(t, g, "b", "a")
	mustAdd(t, g, "d", "c")

	ready := g.Ready()
	ids := map[string]bool{}
	for _, r := range ready {
		ids[r.ID] = true
	}
	if len(ready) != 2 || !ids["a"] || !ids["d"] {
		t.Errorf("Ready should contain a and d, got %v", ids)
	}
}

func TestBuildTree(t *testing.T) {
	a, b, c, d := makeTask("a", task.StatusTodo), makeTask("b", task.StatusTodo),
		makeTask("c", task.StatusTodo), makeTask("d", task.StatusTodo)
	g, _ := makeGraph(a, b, c, d)
	mustAdd(t, g, "b", "a")
	mustAdd(t, g, "c", "b")

	roots := g.BuildTree()
	if len(roots) != 2 || roots[0].Task != a || roots[1].Task != d {
		t.Fatalf("roots = %v, want [a d]", roots)
	}
	if len(roots[0].Children) != 1 || roots[0].Children[0].Task != b {
		t.Fatalf("a children = %v, want [b]", roots[0].Children)
	}
	if grand := roots[0].Children[0].Children; len(grand) != 1 || grand[0].Task != c {
		t.Errorf("b children = %v, want [c]", grand)
	}
	if len(roots[1].Children) != 0 {
		t.Errorf("d should have no children")
	}
}
