package engine

import (
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	agendaerrors "github.com/abatilo/agenda/internal/errors"
	"github.com/abatilo/agenda/internal/task"
)

// NewProject holds the fields accepted when creating a project.
type NewProject struct {
	Name       string
	Color      string
	CategoryID string
	Status     task.ProjectStatus
}

// ProjectPatch is a partial project update.
type ProjectPatch struct {
	Name       *string
	Color      *string
	CategoryID *string
	Status     *task.ProjectStatus
}

// TagPatch is a partial tag update.
type TagPatch struct {
	Name  *string
	Color *string
}

// CategoryPatch is a partial category update.
type CategoryPatch struct {
	Name      *string
	Collapsed *bool
}

// CreateProject appends a new project.
func (e *Engine) CreateProject(in NewProject) (*task.Project, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, agendaerrors.EmptyNameError{Kind: "project"}
	}
	if in.Status == "" {
		in.Status = task.ProjectActive
	}
	if !task.IsValidProjectStatus(in.Status) {
		return nil, agendaerrors.InvalidProjectStatusError{Value: string(in.Status)}
	}
	if in.CategoryID != "" && e.store.Category(in.CategoryID) == nil {
		return nil, agendaerrors.CategoryNotFoundError{ID: in.CategoryID}
	}

	p := &task.Project{
		ID:         e.newID(task.PrefixProject, name),
		Name:       name,
		Color:      in.Color,
		CategoryID: in.CategoryID,
		Status:     in.Status,
		CreatedAt:  e.now(),
	}
	e.store.Projects = append(e.store.Projects, p)
	return p, e.commit("create project", log.Fields{"project_id": p.ID})
}

// UpdateProject applies a partial update.
func (e *Engine) UpdateProject(id string, patch ProjectPatch) (*task.Project, error) {
	p := e.store.Project(id)
	if p == nil {
		return nil, agendaerrors.ProjectNotFoundError{ID: id}
	}
	next := *p
	if patch.Name != nil {
		if next.Name = strings.TrimSpace(*patch.Name); next.Name == "" {
			return nil, agendaerrors.EmptyNameError{Kind: "project"}
		}
	}
	if patch.Color != nil {
		next.Color = *patch.Color
	}
	if patch.CategoryID != nil {
		if *patch.CategoryID != "" && e.store.Category(*patch.CategoryID) == nil {
			return nil, agendaerrors.CategoryNotFoundError{ID: *patch.CategoryID}
		}
		next.CategoryID = *patch.CategoryID
	}
	if patch.Status != nil {
		if !task.IsValidProjectStatus(*patch.Status) {
			return nil, agendaerrors.InvalidProjectStatusError{Value: string(*patch.Status)}
		}
		next.Status = *patch.Status
	}

	p.Name, p.Color, p.CategoryID, p.Status = next.Name, next.Color, next.CategoryID, next.Status
	return p, e.commit("update project", log.Fields{"project_id": id})
}

// DeleteProject removes a project and the tasks it owns. Dependency edges
// pointing at those tasks from elsewhere are left dangling; the graph and
// views ignore them.
func (e *Engine) DeleteProject(id string) error {
	p := e.store.Project(id)
	if p == nil {
		return agendaerrors.ProjectNotFoundError{ID: id}
	}
	if p.IsInbox {
		return agendaerrors.InboxDeletionError{}
	}
	e.store.Projects = slices.DeleteFunc(e.store.Projects, func(q *task.Project) bool { return q.ID == id })
	return e.commit("delete project", log.Fields{"project_id": id, "tasks": len(p.Tasks)})
}

// CreateTag adds a tag.
func (e *Engine) CreateTag(name, color string) (*task.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, agendaerrors.EmptyNameError{Kind: "tag"}
	}
	tag := &task.Tag{ID: e.newID(task.PrefixTag, name), Name: name, Color: color}
	e.store.Tags = append(e.store.Tags, tag)
	return tag, e.commit("create tag", log.Fields{"tag_id": tag.ID})
}

// UpdateTag applies a partial update.
func (e *Engine) UpdateTag(id string, patch TagPatch) (*task.Tag, error) {
	tag := e.store.Tag(id)
	if tag == nil {
		return nil, agendaerrors.TagNotFoundError{ID: id}
	}
	name := tag.Name
	if patch.Name != nil {
		if name = strings.TrimSpace(*patch.Name); name == "" {
			return nil, agendaerrors.EmptyNameError{Kind: "tag"}
		}
	}
	tag.Name = name
	if patch.Color != nil {
		tag.Color = *patch.Color
	}
	return tag, e.commit("update tag", log.Fields{"tag_id": id})
}

// DeleteTag removes a tag and strips it from every task that carries it.
func (e *Engine) DeleteTag(id string) error {
	if e.store.Tag(id) == nil {
		return agendaerrors.TagNotFoundError{ID: id}
	}
	e.store.Tags = slices.DeleteFunc(e.store.Tags, func(t *task.Tag) bool { return t.ID == id })
	for _, t := range e.idx.All() {
		if t.HasTag(id) {
			t.Tags = slices.DeleteFunc(t.Tags, func(s string) bool { return s == id })
		}
	}
	return e.commit("delete tag", log.Fields{"tag_id": id})
}

// CreateCategory adds a category.
func (e *Engine) CreateCategory(name string) (*task.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, agendaerrors.EmptyNameError{Kind: "category"}
	}
	c := &task.Category{ID: e.newID(task.PrefixCategory, name), Name: name}
	e.store.Categories = append(e.store.Categories, c)
	return c, e.commit("create category", log.Fields{"category_id": c.ID})
}

// UpdateCategory applies a partial update.
func (e *Engine) UpdateCategory(id string, patch CategoryPatch) (*task.Category, error) {
	c := e.store.Category(id)
	if c == nil {
		return nil, agendaerrors.CategoryNotFoundError{ID: id}
	}
	name := c.Name
	if patch.Name != nil {
		if name = strings.TrimSpace(*patch.Name); name == "" {
			return nil, agendaerrors.EmptyNameError{Kind: "category"}
		}
	}
	c.Name = name
	if patch.Collapsed != nil {
		c.Collapsed = *patch.Collapsed
	}
	return c, e.commit("update category", log.Fields{"category_id": id})
}

// DeleteCategory removes a category and unassigns its projects.
func (e *Engine) DeleteCategory(id string) error {
	if e.store.Category(id) == nil {
		return agendaerrors.CategoryNotFoundError{ID: id}
	}
	e.store.Categories = slices.DeleteFunc(e.store.Categories, func(c *task.Category) bool { return c.ID == id })
	for _, p := range e.store.Projects {
		if p.CategoryID == id {
			p.CategoryID = ""
		}
	}
	return e.commit("delete category", log.Fields{"category_id": id})
}
