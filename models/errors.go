package models

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable is returned when sources cannot be fetched and no
	// earlier snapshot is cached.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrEmptySelection short-circuits a view when nothing is selected.
	ErrEmptySelection = errors.New("empty selection")
	// ErrUnknownCountry is returned for a country no source reports.
	ErrUnknownCountry = errors.New("unknown country")
)

// ParseError describes malformed source input.
type ParseError struct {
	Source string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	msg := "parse " + e.Source
	if e.Row > 0 {
		msg += fmt.Sprintf(" row %d", e.Row)
	}
	if e.Column != "" {
		msg += fmt.Sprintf(" column %q", e.Column)
	}
	if e.Value != "" {
		msg += fmt.Sprintf(" value %q", e.Value)
	}
	return msg + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
