//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// NotInitializedError indicates the data directory doesn't exist.
type NotInitializedError struct {
	Path string
}

func (e NotInitializedError) Error() string {
	return fmt.Sprintf("agenda not initialized at %s: run 'agenda init' first", e.Path)
}

// AlreadyInitializedError indicates init was run on an existing data directory.
type AlreadyInitializedError struct {
	Path string
}

func (e AlreadyInitializedError) Error() string {
	return fmt.Sprintf("agenda already initialized at %s (use --force to reinitialize)", e.Path)
}

// UnknownBackendError indicates an unsupported storage backend name.
type UnknownBackendError struct {
	Name string
}

func (e UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown storage backend: %s (expected yaml or sqlite)", e.Name)
}

// TaskNotFoundError indicates the id doesn't resolve to a task or subtask.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// ProjectNotFoundError indicates the id doesn't resolve to a project.
type ProjectNotFoundError struct {
	ID string
}

func (e ProjectNotFoundError) Error() string {
	return fmt.Sprintf("project not found: %s", e.ID)
}

// TagNotFoundError indicates the id doesn't resolve to a tag.
type TagNotFoundError struct {
	ID string
}

func (e TagNotFoundError) Error() string {
	return fmt.Sprintf("tag not found: %s", e.ID)
}

// CategoryNotFoundError indicates the id doesn't resolve to a category.
type CategoryNotFoundError struct {
	ID string
}

func (e CategoryNotFoundError) Error() string {
	return fmt.Sprintf("category not found: %s", e.ID)
}

// EmptyNameError indicates a create or rename with a blank name.
type EmptyNameError struct {
	Kind string
}

func (e EmptyNameError) Error() string {
	return fmt.Sprintf("%s name must not be empty", e.Kind)
}

// SelfDependencyError indicates a task was asked to block itself.
type SelfDependencyError struct {
	ID string
}

func (e SelfDependencyError) Error() string {
	return fmt.Sprintf("task %s cannot depend on itself", e.ID)
}

// CycleError indicates adding a dependency would create a cycle.
type CycleError struct {
	From string
	To   string
}

func (e CycleError) Error() string {
	return fmt.Sprintf("adding dependency %s -> %s would create a cycle", e.From, e.To)
}

// SubtaskDependencyError indicates a dependency edge touching a subtask.
type SubtaskDependencyError struct {
	ID string
}

func (e SubtaskDependencyError) Error() string {
	return fmt.Sprintf("subtask %s cannot take part in dependencies", e.ID)
}

// SubtaskOperationError indicates a subtask was used where a top-level task is required.
type SubtaskOperationError struct {
	ID string
	Op string
}

func (e SubtaskOperationError) Error() string {
	return fmt.Sprintf("cannot %s subtask %s: only top-level tasks allow this", e.Op, e.ID)
}

// InvalidStatusError indicates an unknown status value.
type InvalidStatusError struct {
	Value string
}

func (e InvalidStatusError) Error() string {
	return fmt.Sprintf(
		"invalid status: %s (valid: todo, ready, in-progress, waiting, review, done)",
		e.Value,
	)
}

// InvalidProjectStatusError indicates an unknown project status value.
type InvalidProjectStatusError struct {
	Value string
}

func (e InvalidProjectStatusError) Error() string {
	return fmt.Sprintf("invalid project status: %s (valid: active, paused, blocked)", e.Value)
}

// InvalidPriorityError indicates an invalid priority value.
type InvalidPriorityError struct {
	Value string
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %s (valid: urgent, high, medium, low, none)", e.Value)
}

// InvalidDateError indicates a malformed calendar date.
type InvalidDateError struct {
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date: %s (expected YYYY-MM-DD)", e.Value)
}

// InvalidTimeError indicates a malformed time of day, or a time without a date.
type InvalidTimeError struct {
	Value  string
	Reason string
}

func (e InvalidTimeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid time: %s (%s)", e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid time: %s (expected HH:MM)", e.Value)
}

// InvalidEstimateError indicates a non-positive time estimate.
type InvalidEstimateError struct {
	Minutes int
}

func (e InvalidEstimateError) Error() string {
	return fmt.Sprintf("invalid estimate: %d minutes (must be positive)", e.Minutes)
}

// InboxDeletionError indicates an attempt to delete the Inbox.
type InboxDeletionError struct{}

func (e InboxDeletionError) Error() string {
	return "the inbox project cannot be deleted"
}

// PersistError wraps a failed save. The in-memory change it accompanies has
// already been applied and is not rolled back.
type PersistError struct {
	Err error
}

func (e PersistError) Error() string {
	return fmt.Sprintf("change applied but not saved: %v", e.Err)
}

func (e PersistError) Unwrap() error {
	return e.Err
}
