package output

import (
	"encoding/json"
	"time"

	"github.com/abatilo/agenda/internal/schedule"
	"github.com/abatilo/agenda/internal/task"
	"github.com/abatilo/agenda/internal/view"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// taskJSON is the JSON representation of a task.
type taskJSON struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description,omitempty"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority"`
	ProjectID        string     `json:"project_id,omitempty"`
	ParentID         string     `json:"parent_id,omitempty"`
	DueDate          string     `json:"due_date,omitempty"`
	ScheduledDate    string     `json:"scheduled_date,omitempty"`
	ScheduledTime    string     `json:"scheduled_time,omitempty"`
	EstimatedMinutes int        `json:"estimated_minutes,omitempty"`
	Tags             []string   `json:"tags,omitempty"`
	BlockedBy        []string   `json:"blocked_by,omitempty"`
	Blocks           []string   `json:"blocks,omitempty"`
	SnoozeCount      int        `json:"snooze_count,omitempty"`
	CreatedAt        string     `json:"created_at"`
	UpdatedAt        string     `json:"updated_at"`
	CompletedAt      *string    `json:"completed_at,omitempty"`
	Subtasks         []taskJSON `json:"subtasks,omitempty"`
}

func toTaskJSON(t *task.Task) taskJSON {
	tj := taskJSON{
		ID:               t.ID,
		Name:             t.Name,
		Description:      t.Description,
		Status:           string(t.Status),
		Priority:         string(t.Priority),
		ProjectID:        t.ProjectID,
		ParentID:         t.ParentID,
		DueDate:          string(t.DueDate),
		ScheduledDate:    string(t.ScheduledDate),
		ScheduledTime:    string(t.ScheduledTime),
		EstimatedMinutes: t.EstimatedMinutes,
		Tags:             t.Tags,
		BlockedBy:        t.BlockedBy,
		Blocks:           t.Blocks,
		SnoozeCount:      t.SnoozeCount,
		CreatedAt:        t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        t.UpdatedAt.Format(time.RFC3339),
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.Format(time.RFC3339)
		tj.CompletedAt = &s
	}
	for _, st := range t.Subtasks {
		tj.Subtasks = append(tj.Subtasks, toTaskJSON(st))
	}
	return tj
}

func toTaskListJSON(tasks []*task.Task) []taskJSON {
	out := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		out[i] = toTaskJSON(t)
	}
	return out
}

// taskDetailJSON adds resolved context to a task.
type taskDetailJSON struct {
	taskJSON

	ProjectName  string   `json:"project_name,omitempty"`
	IsBlocked    bool     `json:"is_blocked"`
	OpenBlockers []string `json:"open_blockers,omitempty"`
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(d TaskDetail) string {
	out := taskDetailJSON{taskJSON: toTaskJSON(d.Task), IsBlocked: d.Blocked, OpenBlockers: d.OpenBlockers}
	if d.Project != nil {
		out.ProjectName = d.Project.Name
	}
	return marshalJSON(out)
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []*task.Task) string {
	return marshalJSON(toTaskListJSON(tasks))
}

type groupJSON struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Tasks []taskJSON `json:"tasks"`
}

// FormatGroups formats grouped view output as JSON.
func (f *JSONFormatter) FormatGroups(groups []view.Group) string {
	out := make([]groupJSON, len(groups))
	for i, g := range groups {
		out[i] = groupJSON{Key: g.Key, Label: g.Label, Tasks: toTaskListJSON(g.Tasks)}
	}
	return marshalJSON(out)
}

type focusJSON struct {
	Mode  string     `json:"mode"`
	Tasks []taskJSON `json:"tasks"`
}

// FormatFocus formats the focus queue as JSON.
func (f *JSONFormatter) FormatFocus(mode schedule.Mode, tasks []*task.Task) string {
	return marshalJSON(focusJSON{Mode: string(mode), Tasks: toTaskListJSON(tasks)})
}

type rollJSON struct {
	Today       string   `json:"today"`
	Affected    []string `json:"affected"`
	Rescheduled int      `json:"rescheduled"`
	Redue       int      `json:"redue"`
}

// FormatRollReport formats a roll-forward report as JSON.
func (f *JSONFormatter) FormatRollReport(r schedule.Report) string {
	affected := r.Affected
	if affected == nil {
		affected = []string{}
	}
	return marshalJSON(rollJSON{
		Today:       string(r.Today),
		Affected:    affected,
		Rescheduled: r.Rescheduled,
		Redue:       r.Redue,
	})
}

type projectJSON struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color,omitempty"`
	CategoryID string `json:"category_id,omitempty"`
	Status     string `json:"status"`
	IsInbox    bool   `json:"is_inbox,omitempty"`
	TaskCount  int    `json:"task_count"`
}

type categoryJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Collapsed bool   `json:"collapsed"`
}

type projectsJSON struct {
	Projects   []projectJSON  `json:"projects"`
	Categories []categoryJSON `json:"categories"`
}

// FormatProjects formats projects and categories as JSON.
func (f *JSONFormatter) FormatProjects(store *task.Store) string {
	out := projectsJSON{
		Projects:   make([]projectJSON, len(store.Projects)),
		Categories: make([]categoryJSON, len(store.Categories)),
	}
	for i, p := range store.Projects {
		out.Projects[i] = projectJSON{
			ID:         p.ID,
			Name:       p.Name,
			Color:      p.Color,
			CategoryID: p.CategoryID,
			Status:     string(p.Status),
			IsInbox:    p.IsInbox,
			TaskCount:  len(p.Tasks),
		}
	}
	for i, c := range store.Categories {
		out.Categories[i] = categoryJSON{ID: c.ID, Name: c.Name, Collapsed: c.Collapsed}
	}
	return marshalJSON(out)
}

type tagJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color,omitempty"`
}

// FormatTags formats tags as JSON.
func (f *JSONFormatter) FormatTags(tags []*task.Tag) string {
	out := make([]tagJSON, len(tags))
	for i, t := range tags {
		out[i] = tagJSON{ID: t.ID, Name: t.Name, Color: t.Color}
	}
	return marshalJSON(out)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}

// graphNodeJSON is the JSON representation of a graph node.
type graphNodeJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	Priority string          `json:"priority"`
	Children []graphNodeJSON `json:"children,omitempty"`
}

func toGraphNodeJSON(node GraphNode) graphNodeJSON {
	children := make([]graphNodeJSON, len(node.Children))
	for i, c := range node.Children {
		children[i] = toGraphNodeJSON(c)
	}
	return graphNodeJSON{
		ID:       node.Task.ID,
		Name:     node.Task.Name,
		Status:   string(node.Task.Status),
		Priority: string(node.Task.Priority),
		Children: children,
	}
}

// FormatGraph formats a dependency graph as JSON.
func (f *JSONFormatter) FormatGraph(nodes []GraphNode) string {
	jsonNodes := make([]graphNodeJSON, len(nodes))
	for i, n := range nodes {
		jsonNodes[i] = toGraphNodeJSON(n)
	}
	return marshalJSON(jsonNodes)
}
