package engine

import (
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	agendaerrors "github.com/abatilo/agenda/internal/errors"
	"github.com/abatilo/agenda/internal/task"
)

// NewTask holds the fields accepted when creating a task. Zero values pick
// the defaults: Inbox, status todo, priority none.
type NewTask struct {
	Name             string
	Description      string
	ProjectID        string
	Status           task.Status
	Priority         task.Priority
	DueDate          task.Date
	ScheduledDate    task.Date
	ScheduledTime    task.TimeOfDay
	EstimatedMinutes int
	Tags             []string
}

// Patch is a partial update. Nil fields are left alone; pointers to zero
// values clear optional fields.
type Patch struct {
	Name             *string
	Description      *string
	Status           *task.Status
	Priority         *task.Priority
	DueDate          *task.Date
	ScheduledDate    *task.Date
	ScheduledTime    *task.TimeOfDay
	EstimatedMinutes *int
	Tags             *[]string
}

// CreateTask files a new task into a project, or the Inbox when ProjectID is empty.
func (e *Engine) CreateTask(in NewTask) (*task.Task, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, agendaerrors.EmptyNameError{Kind: "task"}
	}
	if in.Status == "" {
		in.Status = task.StatusTodo
	}
	if in.Priority == "" {
		in.Priority = task.PriorityNone
	}
	if err := e.validateFields(in.Status, in.Priority, in.DueDate, in.ScheduledDate, in.ScheduledTime, in.EstimatedMinutes); err != nil {
		return nil, err
	}
	tags, err := e.resolveTags(in.Tags)
	if err != nil {
		return nil, err
	}

	var project *task.Project
	if in.ProjectID != "" {
		if project = e.store.Project(in.ProjectID); project == nil {
			return nil, agendaerrors.ProjectNotFoundError{ID: in.ProjectID}
		}
	} else {
		project = e.ensureInbox()
	}

	now := e.now()
	t := &task.Task{
		ID:               e.newID(task.PrefixTask, name),
		Name:             name,
		Description:      in.Description,
		Priority:         in.Priority,
		ProjectID:        project.ID,
		DueDate:          in.DueDate,
		ScheduledDate:    in.ScheduledDate,
		ScheduledTime:    in.ScheduledTime,
		EstimatedMinutes: in.EstimatedMinutes,
		Tags:             tags,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	t.SetStatus(in.Status, now)
	project.Tasks = append(project.Tasks, t)

	return t, e.commit("create task", log.Fields{"task_id": t.ID, "project_id": project.ID})
}

// CreateSubtask appends a subtask to a top-level parent task.
func (e *Engine) CreateSubtask(parentID, name string) (*task.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, agendaerrors.EmptyNameError{Kind: "subtask"}
	}
	parent := e.idx.Lookup(parentID)
	if parent == nil {
		return nil, agendaerrors.TaskNotFoundError{ID: parentID}
	}
	if parent.IsSubtask() {
		return nil, agendaerrors.SubtaskOperationError{ID: parentID, Op: "add a subtask to"}
	}

	now := e.now()
	st := &task.Task{
		ID:        e.newID(task.PrefixTask, name),
		Name:      name,
		Status:    task.StatusTodo,
		Priority:  task.PriorityNone,
		ParentID:  parent.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	parent.Subtasks = append(parent.Subtasks, st)
	parent.UpdatedAt = now

	return st, e.commit("create subtask", log.Fields{"task_id": st.ID, "parent_id": parent.ID})
}

// UpdateTask applies a partial update to a task or subtask. The whole patch
// is validated first; on error nothing changes.
func (e *Engine) UpdateTask(id string, p Patch) (*task.Task, error) {
	t := e.idx.Lookup(id)
	if t == nil {
		return nil, agendaerrors.TaskNotFoundError{ID: id}
	}

	// Compute the resulting field values, then validate them together.
	next := *t
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
		if next.Name == "" {
			return nil, agendaerrors.EmptyNameError{Kind: "task"}
		}
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Status != nil {
		next.Status = *p.Status
	}
	if p.Priority != nil {
		next.Priority = *p.Priority
	}
	if p.DueDate != nil {
		next.DueDate = *p.DueDate
	}
	if p.ScheduledDate != nil {
		next.ScheduledDate = *p.ScheduledDate
		if next.ScheduledDate.IsZero() && p.ScheduledTime == nil {
			next.ScheduledTime = ""
		}
	}
	if p.ScheduledTime != nil {
		next.ScheduledTime = *p.ScheduledTime
	}
	if p.EstimatedMinutes != nil {
		next.EstimatedMinutes = *p.EstimatedMinutes
	}
	if err := e.validateFields(next.Status, next.Priority, next.DueDate, next.ScheduledDate, next.ScheduledTime, next.EstimatedMinutes); err != nil {
		return nil, err
	}
	if p.Tags != nil {
		tags, err := e.resolveTags(*p.Tags)
		if err != nil {
			return nil, err
		}
		next.Tags = tags
	}

	now := e.now()
	if !t.ScheduledDate.IsZero() && !next.ScheduledDate.IsZero() &&
		next.ScheduledDate != t.ScheduledDate && next.Status != task.StatusDone {
		next.SnoozeCount++
	}

	t.Name = next.Name
	t.Description = next.Description
	t.Priority = next.Priority
	t.DueDate = next.DueDate
	t.ScheduledDate = next.ScheduledDate
	t.ScheduledTime = next.ScheduledTime
	t.EstimatedMinutes = next.EstimatedMinutes
	t.Tags = next.Tags
	t.SnoozeCount = next.SnoozeCount
	t.SetStatus(next.Status, now)
	t.UpdatedAt = now

	return t, e.commit("update task", log.Fields{"task_id": t.ID})
}

// DeleteTask removes a task (with its subtasks) or a subtask from its owner.
// Edges referencing a deleted top-level task are removed from its neighbours.
func (e *Engine) DeleteTask(id string) error {
	entry, ok := e.idx.Entry(id)
	if !ok {
		return agendaerrors.TaskNotFoundError{ID: id}
	}

	if entry.Parent != nil {
		entry.Parent.Subtasks = removeTask(entry.Parent.Subtasks, id)
		entry.Parent.UpdatedAt = e.now()
	} else {
		e.graph.Detach(id)
		entry.Project.Tasks = removeTask(entry.Project.Tasks, id)
	}

	return e.commit("delete task", log.Fields{"task_id": id})
}

// MoveTaskToProject refiles a top-level task. An empty projectID means the Inbox.
func (e *Engine) MoveTaskToProject(id, projectID string) (*task.Task, error) {
	entry, ok := e.idx.Entry(id)
	if !ok {
		return nil, agendaerrors.TaskNotFoundError{ID: id}
	}
	if entry.Parent != nil {
		return nil, agendaerrors.SubtaskOperationError{ID: id, Op: "move"}
	}

	var target *task.Project
	if projectID == "" {
		target = e.ensureInbox()
	} else if target = e.store.Project(projectID); target == nil {
		return nil, agendaerrors.ProjectNotFoundError{ID: projectID}
	}

	t := entry.Task
	if target != entry.Project {
		entry.Project.Tasks = removeTask(entry.Project.Tasks, id)
		target.Tasks = append(target.Tasks, t)
		t.UpdatedAt = e.now()
	}

	return t, e.commit("move task", log.Fields{"task_id": id, "project_id": target.ID})
}

// AddDependency records that taskID is blocked by blockerID.
func (e *Engine) AddDependency(taskID, blockerID string) error {
	if err := e.graph.AddDependency(taskID, blockerID); err != nil {
		e.logger.WithFields(log.Fields{"task_id": taskID, "blocker_id": blockerID}).
			WithError(err).Debug("dependency rejected")
		return err
	}
	now := e.now()
	e.idx.Lookup(taskID).UpdatedAt = now
	e.idx.Lookup(blockerID).UpdatedAt = now
	return e.commit("add dependency", log.Fields{"task_id": taskID, "blocker_id": blockerID})
}

// RemoveDependency removes the edge if present. It always succeeds apart
// from persistence failures.
func (e *Engine) RemoveDependency(taskID, blockerID string) error {
	e.graph.RemoveDependency(taskID, blockerID)
	return e.commit("remove dependency", log.Fields{"task_id": taskID, "blocker_id": blockerID})
}

func (e *Engine) ensureInbox() *task.Project {
	if inbox := e.store.Inbox(); inbox != nil {
		return inbox
	}
	inbox := e.store.EnsureInbox(e.newID(task.PrefixProject, task.InboxName), e.now())
	e.logger.WithField("project_id", inbox.ID).Info("created inbox")
	return inbox
}

func (e *Engine) validateFields(
	status task.Status,
	priority task.Priority,
	due, scheduled task.Date,
	at task.TimeOfDay,
	estimate int,
) error {
	if !task.IsValidStatus(status) {
		return agendaerrors.InvalidStatusError{Value: string(status)}
	}
	if !task.IsValidPriority(priority) {
		return agendaerrors.InvalidPriorityError{Value: string(priority)}
	}
	for _, d := range []task.Date{due, scheduled} {
		if _, err := task.ParseDate(string(d)); err != nil {
			return agendaerrors.InvalidDateError{Value: string(d)}
		}
	}
	if _, err := task.ParseTimeOfDay(string(at)); err != nil {
		return agendaerrors.InvalidTimeError{Value: string(at)}
	}
	if !at.IsZero() && scheduled.IsZero() {
		return agendaerrors.InvalidTimeError{Value: string(at), Reason: "scheduled time requires a scheduled date"}
	}
	if estimate < 0 {
		return agendaerrors.InvalidEstimateError{Minutes: estimate}
	}
	return nil
}

// resolveTags checks tag ids exist and drops duplicates, keeping order.
func (e *Engine) resolveTags(ids []string) ([]string, error) {
	var out []string
	for _, id := range ids {
		if e.store.Tag(id) == nil {
			return nil, agendaerrors.TagNotFoundError{ID: id}
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out, nil
}

func removeTask(tasks []*task.Task, id string) []*task.Task {
	return slices.DeleteFunc(tasks, func(t *task.Task) bool { return t.ID == id })
}
