package models

import (
	"errors"
	"fmt"
)

// ErrUndefinedCorrelation is returned when one of the columns has zero variance
var ErrUndefinedCorrelation = errors.New("correlation is undefined for a constant series")

// NotFoundError is returned when an input file does not exist
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.Path)
}

// SchemaError is returned when an expected column is absent after trimming the header
type SchemaError struct {
	Path   string
	Column string
	Found  []string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s has no header row", e.Path)
	}
	return fmt.Sprintf("expected column %q in %s, got %v", e.Column, e.Path, e.Found)
}

// InsufficientOverlapError is returned by the aligner when too few quarters are shared
type InsufficientOverlapError struct {
	Have int
	Need int
}

func (e *InsufficientOverlapError) Error() string {
	return fmt.Sprintf("only %d overlapping quarters, need at least %d", e.Have, e.Need)
}

// InsufficientDataError is returned when a statistic needs more points than it was given
type InsufficientDataError struct {
	Have int
	Need int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("need at least %d points, got %d", e.Need, e.Have)
}

// InvalidWindowError is returned for rolling windows that cannot hold a correlation
type InvalidWindowError struct {
	Window int
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("rolling window must be at least 2, got %d", e.Window)
}
