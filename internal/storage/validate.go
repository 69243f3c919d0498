package storage

import (
	"strings"

	"github.com/abatilo/agenda/internal/task"
)

// checkStore rejects loaded data the engine cannot index and brings the
// rest into line with the model: empty enums take their defaults and
// CompletedAt is set exactly for done tasks.
func checkStore(s *task.Store) error {
	seen := make(map[string]bool)
	for _, p := range s.Projects {
		if p == nil || strings.TrimSpace(p.ID) == "" {
			return &parseError{"project without id"}
		}
		if p.Status == "" {
			p.Status = task.ProjectActive
		}
		if !task.IsValidProjectStatus(p.Status) {
			return &parseError{"project " + p.ID + ": invalid status " + string(p.Status)}
		}
		for _, t := range p.Tasks {
			if err := checkTask(t, "project "+p.ID, seen); err != nil {
				return err
			}
			for _, st := range t.Subtasks {
				if err := checkTask(st, "task "+t.ID, seen); err != nil {
					return err
				}
			}
		}
	}
	for _, tag := range s.Tags {
		if tag == nil || strings.TrimSpace(tag.ID) == "" {
			return &parseError{"tag without id"}
		}
	}
	for _, c := range s.Categories {
		if c == nil || strings.TrimSpace(c.ID) == "" {
			return &parseError{"category without id"}
		}
	}
	return nil
}

func checkTask(t *task.Task, owner string, seen map[string]bool) error {
	if t == nil || strings.TrimSpace(t.ID) == "" {
		return &parseError{"task without id in " + owner}
	}
	if seen[t.ID] {
		return &parseError{"duplicate task id " + t.ID}
	}
	seen[t.ID] = true

	if t.Status == "" {
		t.Status = task.StatusTodo
	}
	if !task.IsValidStatus(t.Status) {
		return &parseError{"task " + t.ID + ": invalid status " + string(t.Status)}
	}
	if t.Priority == "" {
		t.Priority = task.PriorityNone
	}
	if !task.IsValidPriority(t.Priority) {
		return &parseError{"task " + t.ID + ": invalid priority " + string(t.Priority)}
	}

	switch {
	case t.IsDone() && t.CompletedAt == nil:
		at := t.UpdatedAt
		if at.IsZero() {
			at = t.CreatedAt
		}
		t.CompletedAt = &at
	case !t.IsDone():
		t.CompletedAt = nil
	}
	return nil
}
