// Package engine owns a task.Store and is the only way it changes.
//
// Every mutation validates its input in full before touching the store,
// applies the change, rebuilds the index, and hands the store to the
// Persister. A failed save is reported as an errors.PersistError alongside
// the result; the in-memory change stays applied.
package engine

import (
	"io"
	"slices"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/abatilo/agenda/internal/deps"
	agendaerrors "github.com/abatilo/agenda/internal/errors"
	"github.com/abatilo/agenda/internal/index"
	"github.com/abatilo/agenda/internal/schedule"
	"github.com/abatilo/agenda/internal/task"
	"github.com/abatilo/agenda/internal/view"
)

// Persister loads and saves whole stores. Implementations live in
// internal/storage.
type Persister interface {
	Load() (*task.Store, error)
	Save(store *task.Store) error
}

// Engine is the task graph and its derived views.
type Engine struct {
	store     *task.Store
	idx       *index.Index
	graph     *deps.Graph
	persister Persister
	logger    *log.Logger
	now       func() time.Time
	loc       *time.Location
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithClock sets the time source used for timestamps and "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the timezone that defines the local calendar day.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

// New wraps an existing store. p may be nil for a purely in-memory engine.
func New(store *task.Store, p Persister, opts ...Option) *Engine {
	if store == nil {
		store = task.NewStore()
	}
	discard := log.New()
	discard.SetOutput(io.Discard)
	e := &Engine{
		store:     store,
		persister: p,
		logger:    discard,
		now:       time.Now,
		loc:       time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.rebuild()
	return e
}

// Open loads the store from p. A load failure is logged and the engine
// starts from an empty store.
func Open(p Persister, opts ...Option) *Engine {
	e := New(nil, p, opts...)
	if err := e.Refresh(); err != nil {
		e.logger.WithError(err).Warn("load failed, starting with an empty store")
	}
	return e
}

// Refresh reloads the store from the persister. On failure the current
// in-memory state is kept and the error returned.
func (e *Engine) Refresh() error {
	if e.persister == nil {
		return nil
	}
	store, err := e.persister.Load()
	if err != nil {
		return err
	}
	if store == nil {
		store = task.NewStore()
	}
	e.store = store
	e.rebuild()
	e.logger.WithField("tasks", e.idx.Len()).Debug("store loaded")
	return nil
}

// Store returns the live store.
func (e *Engine) Store() *task.Store {
	return e.store
}

// Index returns the current index.
func (e *Engine) Index() *index.Index {
	return e.idx
}

// Graph returns the dependency graph over the current index.
func (e *Engine) Graph() *deps.Graph {
	return e.graph
}

// Today returns the current local calendar date.
func (e *Engine) Today() task.Date {
	return task.DateOf(e.now().In(e.loc))
}

// Lookup returns a task or subtask by id, or nil.
func (e *Engine) Lookup(id string) *task.Task {
	return e.idx.Lookup(id)
}

// DeriveView evaluates a view query against today's date.
func (e *Engine) DeriveView(q view.Query) view.Result {
	return view.Derive(e.idx, e.graph, e.Today(), q)
}

// BuildFocusQueue returns the focus queue for the given strategy.
func (e *Engine) BuildFocusQueue(mode schedule.Mode, n int) []*task.Task {
	return schedule.Build(mode, e.idx.Tasks(), e.Today(), n)
}

// RollForward moves stale dates to today and saves if anything changed.
// Calling it again on the same day is a no-op.
func (e *Engine) RollForward(today task.Date) (schedule.Report, error) {
	report := schedule.RollForward(e.idx.All(), today)
	if report.Count() == 0 {
		return report, nil
	}
	now := e.now()
	for _, id := range report.Affected {
		e.idx.Lookup(id).UpdatedAt = now
	}
	e.logger.WithFields(log.Fields{
		"today":       today,
		"affected":    report.Count(),
		"rescheduled": report.Rescheduled,
		"redue":       report.Redue,
	}).Info("rolled stale dates forward")
	return report, e.commit("roll forward", nil)
}

// rebuild normalizes ownership fields and re-derives the index and graph.
func (e *Engine) rebuild() {
	for _, p := range e.store.Projects {
		for _, t := range p.Tasks {
			t.ProjectID = p.ID
			t.ParentID = ""
			for _, st := range t.Subtasks {
				st.ParentID = t.ID
				st.ProjectID = ""
			}
		}
	}
	e.idx = index.Build(e.store)
	e.graph = deps.NewGraph(e.idx)
}

// commit rebuilds the index and saves. Save failures are logged and
// returned as PersistError; nothing is rolled back.
func (e *Engine) commit(op string, fields log.Fields) error {
	e.rebuild()
	entry := e.logger.WithField("op", op)
	if fields != nil {
		entry = entry.WithFields(fields)
	}
	entry.Debug("mutation applied")

	if e.persister == nil {
		return nil
	}
	if err := e.persister.Save(e.store); err != nil {
		entry.WithError(err).Warn("save failed, in-memory change kept")
		return agendaerrors.PersistError{Err: err}
	}
	return nil
}

// newID generates an id that is unused across every entity kind.
func (e *Engine) newID(prefix, seed string) string {
	return task.GenerateID(prefix, seed, e.now(), e.idExists)
}

// Ids still named by a dangling edge count as taken, so a new task never
// inherits edges left behind by a deleted project.
func (e *Engine) idExists(id string) bool {
	if e.idx.Exists(id) ||
		e.store.Project(id) != nil ||
		e.store.Tag(id) != nil ||
		e.store.Category(id) != nil {
		return true
	}
	for _, t := range e.idx.All() {
		if slices.Contains(t.BlockedBy, id) || slices.Contains(t.Blocks, id) {
			return true
		}
	}
	return false
}
