package task

import (
	"strings"
	"time"
)

// Status represents the workflow state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusReady      Status = "ready"
	StatusInProgress Status = "in-progress"
	StatusWaiting    Status = "waiting"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
)

// Statuses lists every status in display order.
var Statuses = []Status{ //nolint:gochecknoglobals // closed enumeration
	StatusTodo, StatusReady, StatusInProgress, StatusWaiting, StatusReview, StatusDone,
}

// StatusOrder returns the display rank for a status (todo first, done last).
func StatusOrder(s Status) int {
	for i, st := range Statuses {
		if st == s {
			return i
		}
	}
	return len(Statuses)
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(s Status) bool {
	return StatusOrder(s) < len(Statuses)
}

// ParseStatus normalizes user input ("In Progress", "in_progress") to a
// Status. The normalized value is returned even when it is not valid.
func ParseStatus(s string) (Status, bool) {
	st := Status(normalize(s))
	return st, IsValidStatus(st)
}

// Priority represents the importance level of a task.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
	PriorityNone   Priority = "none"
)

// Priorities lists every priority from most to least important.
var Priorities = []Priority{ //nolint:gochecknoglobals // closed enumeration
	PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow, PriorityNone,
}

// PriorityOrder returns the sort order for a priority (lower = higher priority).
// Unknown values sort after none.
func PriorityOrder(p Priority) int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	case PriorityNone:
		return 4
	default:
		return 5
	}
}

// IsValidPriority checks if a priority string is valid.
func IsValidPriority(p Priority) bool {
	return PriorityOrder(p) < len(Priorities)
}

// ParsePriority normalizes user input to a Priority, accepting the P0-P3
// shorthand used in listings.
func ParsePriority(s string) (Priority, bool) {
	p := Priority(normalize(s))
	switch p {
	case "p0":
		p = PriorityUrgent
	case "p1":
		p = PriorityHigh
	case "p2":
		p = PriorityMedium
	case "p3":
		p = PriorityLow
	}
	return p, IsValidPriority(p)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "-", " ", "-").Replace(s)
}

// ProjectStatus represents whether a project is being worked on.
type ProjectStatus string

const (
	ProjectActive  ProjectStatus = "active"
	ProjectPaused  ProjectStatus = "paused"
	ProjectBlocked ProjectStatus = "blocked"
)

// IsValidProjectStatus checks if a project status string is valid.
func IsValidProjectStatus(s ProjectStatus) bool {
	switch s {
	case ProjectActive, ProjectPaused, ProjectBlocked:
		return true
	default:
		return false
	}
}

// Task represents a unit of work. Subtasks share the same shape and are
// distinguished by a non-empty ParentID; they never carry dependencies.
type Task struct {
	ID               string     `yaml:"id"`
	Name             string     `yaml:"name"`
	Description      string     `yaml:"description,omitempty"`
	Status           Status     `yaml:"status"`
	Priority         Priority   `yaml:"priority"`
	ProjectID        string     `yaml:"project_id,omitempty"`
	ParentID         string     `yaml:"parent_id,omitempty"`
	DueDate          Date       `yaml:"due_date,omitempty"`
	ScheduledDate    Date       `yaml:"scheduled_date,omitempty"`
	ScheduledTime    TimeOfDay  `yaml:"scheduled_time,omitempty"`
	EstimatedMinutes int        `yaml:"estimated_minutes,omitempty"`
	Tags             []string   `yaml:"tags,omitempty"`
	Subtasks         []*Task    `yaml:"subtasks,omitempty"`
	BlockedBy        []string   `yaml:"blocked_by,omitempty"`
	Blocks           []string   `yaml:"blocks,omitempty"`
	CreatedAt        time.Time  `yaml:"created_at"`
	UpdatedAt        time.Time  `yaml:"updated_at"`
	CompletedAt      *time.Time `yaml:"completed_at,omitempty"`
	SnoozeCount      int        `yaml:"snooze_count,omitempty"`
}

// IsDone reports whether the task is completed.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// IsSubtask reports whether the task is owned by a parent task.
func (t *Task) IsSubtask() bool {
	return t.ParentID != ""
}

// HasTag reports whether the task carries the given tag id.
func (t *Task) HasTag(tagID string) bool {
	for _, id := range t.Tags {
		if id == tagID {
			return true
		}
	}
	return false
}

// SetStatus changes the status and keeps CompletedAt consistent with it.
// Moving into done stamps now; moving out of done clears the stamp.
func (t *Task) SetStatus(s Status, now time.Time) {
	switch {
	case s == StatusDone && t.CompletedAt == nil:
		completed := now
		t.CompletedAt = &completed
	case s != StatusDone:
		t.CompletedAt = nil
	}
	t.Status = s
}

// Project groups tasks. Exactly one project in a store is the Inbox.
type Project struct {
	ID         string        `yaml:"id"`
	Name       string        `yaml:"name"`
	Color      string        `yaml:"color,omitempty"`
	CategoryID string        `yaml:"category_id,omitempty"`
	Status     ProjectStatus `yaml:"status"`
	IsInbox    bool          `yaml:"is_inbox,omitempty"`
	CreatedAt  time.Time     `yaml:"created_at"`
	Tasks      []*Task       `yaml:"tasks,omitempty"`
}

// Tag is a label referenced by any number of tasks.
type Tag struct {
	ID    string `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color,omitempty"`
}

// Category groups projects. Collapsed is display state only.
type Category struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Collapsed bool   `yaml:"collapsed,omitempty"`
}
