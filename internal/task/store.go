package task

import "time"

// InboxName is the display name given to a lazily created Inbox.
const InboxName = "Inbox"

// Store is the full in-memory object graph and the single source of truth.
type Store struct {
	Projects   []*Project  `yaml:"projects"`
	Tags       []*Tag      `yaml:"tags,omitempty"`
	Categories []*Category `yaml:"categories,omitempty"`
}

// NewStore returns an empty store. The Inbox is created on first use.
func NewStore() *Store {
	return &Store{}
}

// Inbox returns the distinguished Inbox project, or nil if none exists yet.
func (s *Store) Inbox() *Project {
	for _, p := range s.Projects {
		if p.IsInbox {
			return p
		}
	}
	return nil
}

// EnsureInbox returns the Inbox, creating it with the given id if missing.
func (s *Store) EnsureInbox(id string, now time.Time) *Project {
	if inbox := s.Inbox(); inbox != nil {
		return inbox
	}
	inbox := &Project{
		ID:        id,
		Name:      InboxName,
		Status:    ProjectActive,
		IsInbox:   true,
		CreatedAt: now,
	}
	s.Projects = append([]*Project{inbox}, s.Projects...)
	return inbox
}

// Project returns the project with the given id, or nil.
func (s *Store) Project(id string) *Project {
	for _, p := range s.Projects {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Tag returns the tag with the given id, or nil.
func (s *Store) Tag(id string) *Tag {
	for _, t := range s.Tags {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// Category returns the category with the given id, or nil.
func (s *Store) Category(id string) *Category {
	for _, c := range s.Categories {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// ProjectRank returns the position of a project in store order, or -1.
func (s *Store) ProjectRank(id string) int {
	for i, p := range s.Projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}
