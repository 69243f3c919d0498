// Package output renders engine results for the terminal or as JSON.
package output

import (
	"github.com/abatilo/agenda/internal/schedule"
	"github.com/abatilo/agenda/internal/task"
	"github.com/abatilo/agenda/internal/view"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(d TaskDetail) string
	FormatTaskList(tasks []*task.Task) string
	FormatGroups(groups []view.Group) string
	FormatFocus(mode schedule.Mode, tasks []*task.Task) string
	FormatRollReport(r schedule.Report) string
	FormatProjects(store *task.Store) string
	FormatTags(tags []*task.Tag) string
	FormatError(err error) string
	FormatMessage(msg string) string
	FormatGraph(nodes []GraphNode) string
}

// TaskDetail is a task with its resolved neighbourhood, for single-task views.
type TaskDetail struct {
	Task     *task.Task
	Project  *task.Project
	Blocked      bool
	Blockers     []*task.Task
	OpenBlockers []string // ids of unfinished blockers
	Blocks       []*task.Task
	Tags         []*task.Tag
}

// GraphNode represents a node in the dependency graph output.
type GraphNode struct {
	Task     *task.Task
	Children []GraphNode
}

// New returns the JSON formatter when asJSON is set, else the human one.
func New(asJSON bool) Formatter {
	if asJSON {
		return NewJSONFormatter()
	}
	return NewHumanFormatter()
}
