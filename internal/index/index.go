// Package index provides the id lookup cache over a task.Store.
//
// An Index is never a source of truth. It holds pointers into the store it
// was built from, so edits made through a looked-up record are visible to
// the store, but structural changes (create, delete, move) leave it stale.
// Rebuild after every structural mutation before reading again.
package index

import "github.com/abatilo/agenda/internal/task"

// Entry locates a task or subtask inside the store.
type Entry struct {
	Task    *task.Task
	Project *task.Project // owning project; for subtasks, the parent's project
	Parent  *task.Task    // nil for top-level tasks
}

// Index maps ids to live records.
type Index struct {
	store   *task.Store
	entries map[string]Entry
	tasks   []*task.Task // top-level tasks in traversal order
	all     []*task.Task // tasks and subtasks in traversal order
}

// Build traverses Projects -> Tasks -> Subtasks once.
func Build(store *task.Store) *Index {
	if store == nil {
		panic("index: Build called with nil store")
	}
	idx := &Index{
		store:   store,
		entries: make(map[string]Entry),
	}
	for _, p := range store.Projects {
		for _, t := range p.Tasks {
			idx.entries[t.ID] = Entry{Task: t, Project: p}
			idx.tasks = append(idx.tasks, t)
			idx.all = append(idx.all, t)
			for _, st := range t.Subtasks {
				idx.entries[st.ID] = Entry{Task: st, Project: p, Parent: t}
				idx.all = append(idx.all, st)
			}
		}
	}
	return idx
}

// Store returns the store the index was built from.
func (idx *Index) Store() *task.Store {
	return idx.store
}

// Lookup returns the task or subtask with the given id, or nil.
func (idx *Index) Lookup(id string) *task.Task {
	return idx.entries[id].Task
}

// Entry returns the location of id and whether it was found.
func (idx *Index) Entry(id string) (Entry, bool) {
	e, ok := idx.entries[id]
	return e, ok
}

// Exists reports whether id resolves to a task or subtask.
func (idx *Index) Exists(id string) bool {
	_, ok := idx.entries[id]
	return ok
}

// Tasks returns the top-level tasks in store order.
func (idx *Index) Tasks() []*task.Task {
	return idx.tasks
}

// All returns every task and subtask in store order.
func (idx *Index) All() []*task.Task {
	return idx.all
}

// Len returns the number of indexed records.
func (idx *Index) Len() int {
	return len(idx.entries)
}
