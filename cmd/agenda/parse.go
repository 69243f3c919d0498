package main

import (
	"strconv"
	"strings"

	"github.com/abatilo/agenda/internal/task"
)

// parseDateInput accepts YYYY-MM-DD, today, tomorrow, yesterday, +Nd/-Nd,
// and none (or an empty string) to clear.
func parseDateInput(flag, s string, today task.Date) (task.Date, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "none":
		return "", nil
	case "today":
		return today, nil
	case "tomorrow":
		return today.AddDays(1), nil
	case "yesterday":
		return today.AddDays(-1), nil
	}

	if strings.HasSuffix(s, "d") && (strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-")) {
		n, err := strconv.Atoi(strings.TrimSuffix(s, "d"))
		if err != nil {
			return "", InvalidDateInputError{Flag: flag, Value: s}
		}
		return today.AddDays(n), nil
	}

	d, err := task.ParseDate(s)
	if err != nil {
		return "", InvalidDateInputError{Flag: flag, Value: s}
	}
	return d, nil
}

// resolveTagRefs maps tag ids or names to ids. Unknown refs pass through
// unchanged so the engine reports them as missing tags.
func resolveTagRefs(store *task.Store, refs []string) ([]string, error) {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		ref = strings.TrimPrefix(strings.TrimSpace(ref), "#")
		if store.Tag(ref) != nil {
			out = append(out, ref)
			continue
		}
		var matches []string
		for _, tag := range store.Tags {
			if strings.EqualFold(tag.Name, ref) {
				matches = append(matches, tag.ID)
			}
		}
		switch len(matches) {
		case 0:
			out = append(out, ref)
		case 1:
			out = append(out, matches[0])
		default:
			return nil, AmbiguousRefError{Kind: "tag", Ref: ref, Matches: matches}
		}
	}
	return out, nil
}

// resolveProjectRef maps a project id or name to an id. "inbox" names the
// Inbox; unknown refs pass through unchanged.
func resolveProjectRef(store *task.Store, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || store.Project(ref) != nil {
		return ref, nil
	}
	if strings.EqualFold(ref, task.InboxName) {
		if inbox := store.Inbox(); inbox != nil {
			return inbox.ID, nil
		}
		return "", nil
	}
	var matches []string
	for _, p := range store.Projects {
		if strings.EqualFold(p.Name, ref) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return ref, nil
	case 1:
		return matches[0], nil
	default:
		return "", AmbiguousRefError{Kind: "project", Ref: ref, Matches: matches}
	}
}

// parseEnum checks value against valid and returns it typed.
func parseEnum[T ~string](flag, value string, valid []T) (T, error) {
	for _, v := range valid {
		if string(v) == value {
			return v, nil
		}
	}
	return "", invalidEnum(flag, value, valid)
}

func invalidEnum[T ~string](flag, value string, valid []T) error {
	names := make([]string, len(valid))
	for i, v := range valid {
		names[i] = string(v)
	}
	return InvalidFlagError{Flag: flag, Value: value, Valid: names}
}

// parseStatusFlag normalizes a --status value. Empty means unset.
func parseStatusFlag(value string) (task.Status, error) {
	if s, ok := task.ParseStatus(value); ok || value == "" {
		return s, nil
	}
	return "", invalidEnum("status", value, task.Statuses)
}

// parsePriorityFlag normalizes a --priority value, accepting P0-P3. Empty
// means unset.
func parsePriorityFlag(value string) (task.Priority, error) {
	if p, ok := task.ParsePriority(value); ok || value == "" {
		return p, nil
	}
	return "", invalidEnum("priority", value, task.Priorities)
}
