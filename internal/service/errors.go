package service

import "errors"

var (
	// ErrNotFound indicates the requested answer does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNoData indicates a score was requested for a selection without answers.
	ErrNoData = errors.New("no data for isin/date window")
)

// ValidationError indicates a missing or malformed request parameter.
type ValidationError struct {
	Message string
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return e.Message
}
