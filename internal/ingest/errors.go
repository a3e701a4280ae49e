package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means no source exists at all for what the caller asked for.
	ErrNotFound = errors.New("source not found")
	// ErrMalformed means a source exists but could not be decoded into rows.
	ErrMalformed     = errors.New("malformed source")
	ErrUnknownFamily = errors.New("unknown metric family")
)

type NotFoundError struct {
	Family Family
	Root   string
	Path   string
}

func (e *NotFoundError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("no %s file at %s", e.Family, e.Path)
	}
	return fmt.Sprintf("no %s file found in %s", e.Family, e.Root)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

type MalformedError struct {
	Family Family
	Path   string
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed %s file %s: %s", e.Family, e.Path, e.Reason)
}

func (e *MalformedError) Unwrap() error {
	return ErrMalformed
}
