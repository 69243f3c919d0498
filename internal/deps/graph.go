// Package deps maintains blockedBy/blocks edges between tasks and keeps the
// resulting graph acyclic.
package deps

import (
	"slices"
	"sort"

	agendaerrors "github.com/abatilo/agenda/internal/errors"
	"github.com/abatilo/agenda/internal/index"
	"github.com/abatilo/agenda/internal/task"
)

// Graph represents the dependency relationships between tasks.
// Edges are weak references: ids that no longer resolve are ignored.
type Graph struct {
	idx *index.Index
}

// NewGraph creates a Graph over an index.
func NewGraph(idx *index.Index) *Graph {
	return &Graph{idx: idx}
}

// ValidateAddDep checks that taskID may be blocked by blockerID.
func (g *Graph) ValidateAddDep(taskID, blockerID string) error {
	if taskID == blockerID {
		return agendaerrors.SelfDependencyError{ID: taskID}
	}
	for _, id := range []string{taskID, blockerID} {
		t := g.idx.Lookup(id)
		if t == nil {
			return agendaerrors.TaskNotFoundError{ID: id}
		}
		if t.IsSubtask() {
			return agendaerrors.SubtaskDependencyError{ID: id}
		}
	}
	if g.WouldCreateCycle(taskID, blockerID) {
		return agendaerrors.CycleError{From: taskID, To: blockerID}
	}
	return nil
}

// AddDependency records that taskID is blocked by blockerID. Nothing is
// changed when validation fails. Re-adding an existing edge is a no-op.
func (g *Graph) AddDependency(taskID, blockerID string) error {
	if err := g.ValidateAddDep(taskID, blockerID); err != nil {
		return err
	}
	t := g.idx.Lookup(taskID)
	blocker := g.idx.Lookup(blockerID)
	if !slices.Contains(t.BlockedBy, blockerID) {
		t.BlockedBy = append(t.BlockedBy, blockerID)
	}
	if !slices.Contains(blocker.Blocks, taskID) {
		blocker.Blocks = append(blocker.Blocks, taskID)
	}
	return nil
}

// RemoveDependency removes the edge in both directions. It always succeeds.
func (g *Graph) RemoveDependency(taskID, blockerID string) {
	if t := g.idx.Lookup(taskID); t != nil {
		t.BlockedBy = without(t.BlockedBy, blockerID)
	}
	if blocker := g.idx.Lookup(blockerID); blocker != nil {
		blocker.Blocks = without(blocker.Blocks, taskID)
	}
}

// Detach strips every edge that references id from the tasks it touches.
func (g *Graph) Detach(id string) {
	t := g.idx.Lookup(id)
	if t == nil {
		return
	}
	for _, blockerID := range t.BlockedBy {
		if blocker := g.idx.Lookup(blockerID); blocker != nil {
			blocker.Blocks = without(blocker.Blocks, id)
		}
	}
	for _, blockedID := range t.Blocks {
		if blocked := g.idx.Lookup(blockedID); blocked != nil {
			blocked.BlockedBy = without(blocked.BlockedBy, id)
		}
	}
	t.BlockedBy = nil
	t.Blocks = nil
}

// WouldCreateCycle reports whether making taskID blocked by blockerID would
// close a cycle: a depth-first walk from blockerID along blockedBy edges
// reaches taskID. The visited set keeps malformed data from looping forever.
func (g *Graph) WouldCreateCycle(taskID, blockerID string) bool {
	visited := make(map[string]bool)
	var visit func(id string) bool
	visit = func(id string) bool {
		if id == taskID {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true

		t := g.idx.Lookup(id)
		if t == nil {
			return false
		}
		for _, next := range t.BlockedBy {
			if visit(next) {
				return true
			}
		}
		return false
	}
	return visit(blockerID)
}

// IsBlocked returns true if any resolvable blocker is not done.
func (g *Graph) IsBlocked(t *task.Task) bool {
	for _, id := range t.BlockedBy {
		blocker := g.idx.Lookup(id)
		if blocker == nil {
			continue // Missing dependency is not blocking
		}
		if !blocker.IsDone() {
			return true
		}
	}
	return false
}

// BlockingTasks resolves t's blockers, dropping dangling ids.
func (g *Graph) BlockingTasks(t *task.Task) []*task.Task {
	return g.resolve(t.BlockedBy)
}

// BlockedTasks resolves the tasks t blocks, dropping dangling ids.
func (g *Graph) BlockedTasks(t *task.Task) []*task.Task {
	return g.resolve(t.Blocks)
}

// OpenBlockers returns the ids of unfinished tasks that block t.
func (g *Graph) OpenBlockers(t *task.Task) []string {
	var ids []string
	for _, b := range g.BlockingTasks(t) {
		if !b.IsDone() {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// Ready returns active, unblocked top-level tasks sorted by priority then age.
func (g *Graph) Ready() []*task.Task {
	var ready []*task.Task
	for _, t := range g.idx.Tasks() {
		if t.IsDone() || t.Status == task.StatusWaiting {
			continue
		}
		if !g.IsBlocked(t) {
			ready = append(ready, t)
		}
	}
	sort.SliceStable(ready, func(i, j int) bool {
		return taskLess(ready[i], ready[j])
	})
	return ready
}

// SortByReadiness orders tasks in place: unblocked before blocked, then by
// priority, then by creation time.
func (g *Graph) SortByReadiness(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		bi, bj := g.IsBlocked(tasks[i]), g.IsBlocked(tasks[j])
		if bi != bj {
			return !bi
		}
		return taskLess(tasks[i], tasks[j])
	})
}

// TreeNode is a task with the tasks it blocks as children.
type TreeNode struct {
	Task     *task.Task
	Children []TreeNode
}

// BuildTree returns every top-level task without resolvable blockers as a
// root, with the tasks each one blocks nested below it. A task blocked by
// several roots appears under each of them.
func (g *Graph) BuildTree() []TreeNode {
	var roots []TreeNode
	for _, t := range g.idx.Tasks() {
		if len(g.BlockingTasks(t)) == 0 {
			roots = append(roots, g.subtree(t, map[string]bool{}))
		}
	}
	return roots
}

func (g *Graph) subtree(t *task.Task, onPath map[string]bool) TreeNode {
	node := TreeNode{Task: t}
	onPath[t.ID] = true
	for _, child := range g.BlockedTasks(t) {
		if onPath[child.ID] {
			continue // Malformed data; the graph itself never holds cycles
		}
		node.Children = append(node.Children, g.subtree(child, onPath))
	}
	delete(onPath, t.ID)
	return node
}

func (g *Graph) resolve(ids []string) []*task.Task {
	var out []*task.Task
	for _, id := range ids {
		if t := g.idx.Lookup(id); t != nil {
			out = append(out, t)
		}
	}
	return out
}

func without(ids []string, id string) []string {
	if !slices.Contains(ids, id) {
		return ids
	}
	out := slices.DeleteFunc(slices.Clone(ids), func(s string) bool { return s == id })
	if len(out) == 0 {
		return nil
	}
	return out
}

// taskLess returns true if task a should be sorted before task b.
// Sorts by priority first (urgent < high < medium < low < none), then by creation time.
func taskLess(a, b *task.Task) bool {
	pa := task.PriorityOrder(a.Priority)
	pb := task.PriorityOrder(b.Priority)
	if pa != pb {
		return pa < pb
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
