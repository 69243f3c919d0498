// Package view derives ordered, filtered, and grouped task lists from an
// index and dependency graph. Everything here is a pure function of its
// inputs: no store mutation, no clock reads.
package view

import (
	"slices"
	"sort"
	"strings"

	"github.com/abatilo/agenda/internal/deps"
	"github.com/abatilo/agenda/internal/index"
	"github.com/abatilo/agenda/internal/task"
)

// ID names a view.
type ID string

const (
	Inbox     ID = "inbox"
	Today     ID = "today"
	Upcoming  ID = "upcoming"
	Completed ID = "completed"
	Waiting   ID = "waiting"
	Project   ID = "project"
	Tag       ID = "tag"
	Blocked   ID = "blocked"
	All       ID = "all" // master list
)

// Views lists every view id.
var Views = []ID{Inbox, Today, Upcoming, Completed, Waiting, Project, Tag, Blocked, All} //nolint:gochecknoglobals // closed enumeration

// IsValid reports whether id names a known view.
func (id ID) IsValid() bool {
	for _, v := range Views {
		if v == id {
			return true
		}
	}
	return false
}

// SortKey selects the ordering of a result.
type SortKey string

const (
	SortDefault  SortKey = ""
	SortCreated  SortKey = "created"
	SortDue      SortKey = "due"
	SortPriority SortKey = "priority"
	SortName     SortKey = "name"
	SortReady    SortKey = "ready" // unblocked first, then priority and age
)

// IsValid reports whether k is a known sort key.
func (k SortKey) IsValid() bool {
	switch k {
	case SortDefault, SortCreated, SortDue, SortPriority, SortName, SortReady:
		return true
	default:
		return false
	}
}

// GroupKey selects how a result is partitioned.
type GroupKey string

const (
	GroupNone     GroupKey = ""
	GroupProject  GroupKey = "project"
	GroupPriority GroupKey = "priority"
	GroupStatus   GroupKey = "status"
	GroupDue      GroupKey = "due"
)

// IsValid reports whether k is a known group key.
func (k GroupKey) IsValid() bool {
	switch k {
	case GroupNone, GroupProject, GroupPriority, GroupStatus, GroupDue:
		return true
	default:
		return false
	}
}

// Query describes a requested view.
type Query struct {
	View      ID
	ProjectID string // for Project
	TagID     string // for Tag
	Text      string // case-insensitive substring over name and description

	// Master list toggles. Empty slices mean no filter.
	HideCompleted bool
	Statuses      []task.Status
	Priorities    []task.Priority
	ProjectIDs    []string

	Sort  SortKey
	Group GroupKey
}

// Group is one labeled bucket of a grouped result.
type Group struct {
	Key   string
	Label string
	Tasks []*task.Task
}

// Result is an ordered task list, and its partition when grouping was requested.
// Consumers must not mutate the slices structurally.
type Result struct {
	Tasks  []*task.Task
	Groups []Group
}

// Derive evaluates q against the index. today is the caller's current local date.
func Derive(idx *index.Index, g *deps.Graph, today task.Date, q Query) Result {
	var selected []*task.Task
	for _, t := range idx.Tasks() {
		if selects(idx, g, today, q, t) && matchesText(t, q.Text) {
			selected = append(selected, t)
		}
	}

	sortTasks(selected, g, q)

	res := Result{Tasks: selected}
	if q.Group != GroupNone {
		res.Groups = group(idx, selected, q.Group, today)
	}
	return res
}

func selects(idx *index.Index, g *deps.Graph, today task.Date, q Query, t *task.Task) bool {
	active := !t.IsDone()
	switch q.View {
	case Inbox:
		e, _ := idx.Entry(t.ID)
		return active && e.Project != nil && e.Project.IsInbox
	case Today:
		return active && t.DueDate == today
	case Upcoming:
		return active && (onOrAfter(t.ScheduledDate, today) || onOrAfter(t.DueDate, today))
	case Completed:
		return t.IsDone()
	case Waiting:
		return t.Status == task.StatusWaiting
	case Project:
		e, _ := idx.Entry(t.ID)
		return e.Project != nil && e.Project.ID == q.ProjectID
	case Tag:
		return t.HasTag(q.TagID)
	case Blocked:
		return active && g.IsBlocked(t)
	case All:
		return masterListSelects(idx, q, t)
	default:
		return false
	}
}

func masterListSelects(idx *index.Index, q Query, t *task.Task) bool {
	if q.HideCompleted && t.IsDone() {
		return false
	}
	if len(q.Statuses) > 0 && !slices.Contains(q.Statuses, t.Status) {
		return false
	}
	if len(q.Priorities) > 0 && !slices.Contains(q.Priorities, t.Priority) {
		return false
	}
	if len(q.ProjectIDs) > 0 {
		e, _ := idx.Entry(t.ID)
		if e.Project == nil || !slices.Contains(q.ProjectIDs, e.Project.ID) {
			return false
		}
	}
	return true
}

func matchesText(t *task.Task, text string) bool {
	if text == "" {
		return true
	}
	needle := strings.ToLower(text)
	return strings.Contains(strings.ToLower(t.Name), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

func onOrAfter(d, today task.Date) bool {
	return !d.IsZero() && !d.Before(today)
}

// earliestDate returns the earlier of the scheduled and due dates.
func earliestDate(t *task.Task) task.Date {
	switch {
	case t.ScheduledDate.IsZero():
		return t.DueDate
	case t.DueDate.IsZero():
		return t.ScheduledDate
	case t.ScheduledDate.Before(t.DueDate):
		return t.ScheduledDate
	default:
		return t.DueDate
	}
}

func sortTasks(tasks []*task.Task, g *deps.Graph, q Query) {
	if q.Sort == SortReady {
		g.SortByReadiness(tasks)
		return
	}
	if q.Sort == SortDefault && q.View == Upcoming {
		sort.SliceStable(tasks, func(i, j int) bool {
			return dateLess(earliestDate(tasks[i]), earliestDate(tasks[j]))
		})
		return
	}

	var less func(a, b *task.Task) bool
	switch q.Sort {
	case SortDue:
		less = func(a, b *task.Task) bool { return dateLess(a.DueDate, b.DueDate) }
	case SortPriority:
		less = func(a, b *task.Task) bool {
			return task.PriorityOrder(a.Priority) < task.PriorityOrder(b.Priority)
		}
	case SortName:
		less = func(a, b *task.Task) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	default:
		less = func(a, b *task.Task) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(tasks, func(i, j int) bool { return less(tasks[i], tasks[j]) })
}

// dateLess orders dates ascending with unset dates last.
func dateLess(a, b task.Date) bool {
	switch {
	case a.IsZero():
		return false
	case b.IsZero():
		return true
	default:
		return a < b
	}
}
