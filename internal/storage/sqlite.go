package storage

import (
	"database/sql"
	_ "embed"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "github.com/mattn/go-sqlite3"

	agendaerrors "github.com/abatilo/agenda/internal/errors"
	"github.com/abatilo/agenda/internal/task"
)

//go:embed schema.sql
var schema string

const (
	edgeBlockedBy = "blocked_by"
	edgeBlocks    = "blocks"
)

// schemaVersion is recorded in the meta table on every save.
const (
	schemaVersion    = 1
	schemaVersionKey = "schema_version"
)

// SQLiteStore keeps the store in a SQLite database, one row per entity.
// Save replaces the whole snapshot inside a single transaction.
type SQLiteStore struct {
	path string
	db   *sql.DB
}

// NewSQLiteStore creates a SQLiteStore for the database file at path. The
// connection is opened on first use.
func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// IsInitialized checks if the database file exists.
func (s *SQLiteStore) IsInitialized() bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

// Init creates the database and its schema. With force an existing
// database is emptied.
func (s *SQLiteStore) Init(force bool) error {
	if s.IsInitialized() && !force {
		return agendaerrors.AlreadyInitializedError{Path: s.path}
	}
	//nolint:gosec // G301: 0755 is appropriate for a user data directory
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	if err := s.open(); err != nil {
		return err
	}
	return s.Save(task.NewStore())
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *SQLiteStore) open() error {
	if s.db != nil {
		return nil
	}
	db, err := sql.Open("sqlite3", s.path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return err
	}
	s.db = db
	return nil
}

// Load reads every table and reassembles the object graph.
func (s *SQLiteStore) Load() (*task.Store, error) {
	if !s.IsInitialized() {
		return nil, agendaerrors.NotInitializedError{Path: s.path}
	}
	if err := s.open(); err != nil {
		return nil, err
	}

	if err := s.checkVersion(); err != nil {
		return nil, err
	}

	store := task.NewStore()
	var err error
	if store.Categories, err = s.loadCategories(); err != nil {
		return nil, err
	}
	if store.Tags, err = s.loadTags(); err != nil {
		return nil, err
	}
	if store.Projects, err = s.loadProjects(); err != nil {
		return nil, err
	}
	if err := s.loadTasks(store); err != nil {
		return nil, err
	}
	if err := checkStore(store); err != nil {
		return nil, ParseError{Path: s.path, Msg: err.Error()}
	}
	return store, nil
}

// checkVersion rejects a database written by a newer schema. A database
// without a version row predates the meta table and is accepted.
func (s *SQLiteStore) checkVersion() error {
	var value string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", schemaVersionKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}
	v, err := strconv.Atoi(value)
	if err != nil || v > schemaVersion {
		return ParseError{Path: s.path, Msg: "unsupported schema version " + value}
	}
	return nil
}

func (s *SQLiteStore) loadCategories() ([]*task.Category, error) {
	rows, err := s.db.Query("SELECT id, name, collapsed FROM categories ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*task.Category
	for rows.Next() {
		c := &task.Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Collapsed); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadTags() ([]*task.Tag, error) {
	rows, err := s.db.Query("SELECT id, name, color FROM tags ORDER BY position")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*task.Tag
	for rows.Next() {
		t := &task.Tag{}
		if err := rows.Scan(&t.ID, &t.Name, &t.Color); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadProjects() ([]*task.Project, error) {
	rows, err := s.db.Query(`
		SELECT id, name, color, category_id, status, is_inbox, created_at
		FROM projects ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*task.Project
	for rows.Next() {
		p := &task.Project{}
		var created string
		if err := rows.Scan(&p.ID, &p.Name, &p.Color, &p.CategoryID, &p.Status, &p.IsInbox, &created); err != nil {
			return nil, err
		}
		if p.CreatedAt, err = parseTime(created); err != nil {
			return nil, ParseError{Path: s.path, Msg: "project " + p.ID + ": " + err.Error()}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) loadTasks(store *task.Store) error {
	rows, err := s.db.Query(`
		SELECT id, project_id, parent_id, name, description, status, priority,
		       due_date, scheduled_date, scheduled_time, estimated_minutes,
		       snooze_count, created_at, updated_at, completed_at
		FROM tasks ORDER BY position
	`)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := map[string]*task.Task{}
	var ordered []*task.Task
	for rows.Next() {
		t := &task.Task{}
		var created, updated string
		var completed sql.NullString
		if err := rows.Scan(
			&t.ID, &t.ProjectID, &t.ParentID, &t.Name, &t.Description, &t.Status, &t.Priority,
			&t.DueDate, &t.ScheduledDate, &t.ScheduledTime, &t.EstimatedMinutes,
			&t.SnoozeCount, &created, &updated, &completed,
		); err != nil {
			return err
		}
		if t.CreatedAt, err = parseTime(created); err != nil {
			return ParseError{Path: s.path, Msg: "task " + t.ID + ": " + err.Error()}
		}
		if t.UpdatedAt, err = parseTime(updated); err != nil {
			return ParseError{Path: s.path, Msg: "task " + t.ID + ": " + err.Error()}
		}
		if completed.Valid {
			at, err := parseTime(completed.String)
			if err != nil {
				return ParseError{Path: s.path, Msg: "task " + t.ID + ": " + err.Error()}
			}
			t.CompletedAt = &at
		}
		byID[t.ID] = t
		ordered = append(ordered, t)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	if err := s.loadTaskTags(byID); err != nil {
		return err
	}
	if err := s.loadEdges(byID); err != nil {
		return err
	}

	// Rows are ordered by position, so appending keeps the saved order.
	projects := map[string]*task.Project{}
	for _, p := range store.Projects {
		projects[p.ID] = p
	}
	for _, t := range ordered {
		if t.ParentID != "" {
			if parent := byID[t.ParentID]; parent != nil {
				parent.Subtasks = append(parent.Subtasks, t)
			}
			continue
		}
		if p := projects[t.ProjectID]; p != nil {
			p.Tasks = append(p.Tasks, t)
		}
	}
	return nil
}

func (s *SQLiteStore) loadTaskTags(byID map[string]*task.Task) error {
	rows, err := s.db.Query("SELECT task_id, tag_id FROM task_tags ORDER BY task_id, position")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, tagID string
		if err := rows.Scan(&taskID, &tagID); err != nil {
			return err
		}
		if t := byID[taskID]; t != nil {
			t.Tags = append(t.Tags, tagID)
		}
	}
	return rows.Err()
}

func (s *SQLiteStore) loadEdges(byID map[string]*task.Task) error {
	rows, err := s.db.Query("SELECT task_id, kind, other_id FROM task_edges ORDER BY task_id, kind, position")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var taskID, kind, otherID string
		if err := rows.Scan(&taskID, &kind, &otherID); err != nil {
			return err
		}
		t := byID[taskID]
		if t == nil {
			continue
		}
		switch kind {
		case edgeBlockedBy:
			t.BlockedBy = append(t.BlockedBy, otherID)
		case edgeBlocks:
			t.Blocks = append(t.Blocks, otherID)
		}
	}
	return rows.Err()
}

// Save replaces the stored snapshot with store.
func (s *SQLiteStore) Save(store *task.Store) error {
	if err := s.open(); err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	if err := writeSnapshot(tx, store); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func writeSnapshot(tx *sql.Tx, store *task.Store) error {
	for _, table := range []string{"task_edges", "task_tags", "tasks", "tags", "projects", "categories"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, schemaVersionKey, strconv.Itoa(schemaVersion)); err != nil {
		return err
	}

	for i, c := range store.Categories {
		if _, err := tx.Exec(
			"INSERT INTO categories (id, position, name, collapsed) VALUES (?, ?, ?, ?)",
			c.ID, i, c.Name, c.Collapsed,
		); err != nil {
			return err
		}
	}
	for i, t := range store.Tags {
		if _, err := tx.Exec(
			"INSERT INTO tags (id, position, name, color) VALUES (?, ?, ?, ?)",
			t.ID, i, t.Name, t.Color,
		); err != nil {
			return err
		}
	}

	pos := 0
	for i, p := range store.Projects {
		if _, err := tx.Exec(`
			INSERT INTO projects (id, position, name, color, category_id, status, is_inbox, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, p.ID, i, p.Name, p.Color, p.CategoryID, string(p.Status), p.IsInbox, formatTime(p.CreatedAt)); err != nil {
			return err
		}
		for _, t := range p.Tasks {
			if err := insertTask(tx, t, p.ID, "", pos); err != nil {
				return err
			}
			pos++
			for _, st := range t.Subtasks {
				if err := insertTask(tx, st, "", t.ID, pos); err != nil {
					return err
				}
				pos++
			}
		}
	}
	return nil
}

func insertTask(tx *sql.Tx, t *task.Task, projectID, parentID string, pos int) error {
	var completed any
	if t.CompletedAt != nil {
		completed = formatTime(*t.CompletedAt)
	}
	if _, err := tx.Exec(`
		INSERT INTO tasks (
			id, position, project_id, parent_id, name, description, status, priority,
			due_date, scheduled_date, scheduled_time, estimated_minutes,
			snooze_count, created_at, updated_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		t.ID, pos, projectID, parentID, t.Name, t.Description, string(t.Status), string(t.Priority),
		string(t.DueDate), string(t.ScheduledDate), string(t.ScheduledTime), t.EstimatedMinutes,
		t.SnoozeCount, formatTime(t.CreatedAt), formatTime(t.UpdatedAt), completed,
	); err != nil {
		return err
	}

	for i, tagID := range t.Tags {
		if _, err := tx.Exec(
			"INSERT OR IGNORE INTO task_tags (task_id, tag_id, position) VALUES (?, ?, ?)",
			t.ID, tagID, i,
		); err != nil {
			return err
		}
	}
	for kind, ids := range map[string][]string{edgeBlockedBy: t.BlockedBy, edgeBlocks: t.Blocks} {
		for i, other := range ids {
			if _, err := tx.Exec(
				"INSERT OR IGNORE INTO task_edges (task_id, kind, other_id, position) VALUES (?, ?, ?, ?)",
				t.ID, kind, other, i,
			); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTime tries to parse a time string in common formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized time format")
}
