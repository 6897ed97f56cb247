package service

import (
	"errors"
	"strings"

	"github.com/lagerschema/lagerschema/internal/record"
	"github.com/lagerschema/lagerschema/internal/schedule"
)

var (
	// ErrAmbiguousCamp: zero or multiple camps matched as active, so no
	// write target can be named. Fatal, nothing written.
	ErrAmbiguousCamp = schedule.ErrAmbiguousCamp
	// ErrEventNotFound: the edit target does not exist. Fatal, nothing
	// written.
	ErrEventNotFound = record.ErrEventNotFound
	// ErrOutsideEditingPeriod: today is outside the camp's editing
	// window; submissions are closed.
	ErrOutsideEditingPeriod = errors.New("outside the editing period")
)

// ValidationError carries the findings of a failed schema or security
// pass. It is surfaced synchronously, before any network call.
type ValidationError struct {
	Findings []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Findings, "; ")
}
