package core

import (
	"errors"
	"fmt"
)

// Kinds of dataset load failure.
var (
	ErrFetch  = errors.New("fetch failed")
	ErrStatus = errors.New("unexpected response status")
	ErrDecode = errors.New("malformed dataset")
)

// DataLoadError reports why the one-shot dataset load failed. It matches
// its Kind and its cause with errors.Is.
type DataLoadError struct {
	Source     string
	Kind       error
	StatusCode int
	Err        error
}

// NewLoadError builds a DataLoadError of the given kind.
func NewLoadError(source string, kind error, err error) *DataLoadError {
	return &DataLoadError{Source: source, Kind: kind, Err: err}
}

func (e *DataLoadError) Error() string {
	msg := fmt.Sprintf("load dataset from %s: %v", e.Source, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataLoadError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
