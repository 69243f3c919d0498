package main

import (
	"fmt"
	"strings"
)

// InvalidFlagError indicates a flag value outside its allowed set.
type InvalidFlagError struct {
	Flag  string
	Value string
	Valid []string
}

func (e InvalidFlagError) Error() string {
	return fmt.Sprintf("invalid --%s: %s (valid: %s)", e.Flag, e.Value, strings.Join(e.Valid, ", "))
}

// InvalidDateInputError indicates a date argument that is neither a keyword,
// a relative offset, nor YYYY-MM-DD.
type InvalidDateInputError struct {
	Flag  string
	Value string
}

func (e InvalidDateInputError) Error() string {
	return fmt.Sprintf("invalid --%s: %s (use YYYY-MM-DD, today, tomorrow, +Nd, or none)", e.Flag, e.Value)
}

// AmbiguousRefError indicates a name that matches more than one entity.
type AmbiguousRefError struct {
	Kind    string
	Ref     string
	Matches []string
}

func (e AmbiguousRefError) Error() string {
	return fmt.Sprintf("%s %q is ambiguous: matches %s", e.Kind, e.Ref, strings.Join(e.Matches, ", "))
}
