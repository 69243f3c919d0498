package storage

import "fmt"

// ParseError indicates a store file exists but could not be decoded.
type ParseError struct {
	Path string
	Msg  string
}

func (e ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Msg)
}
