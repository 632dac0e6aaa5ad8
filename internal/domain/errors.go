package domain

import "errors"

var (
	// ErrValidation marks malformed or missing input. Maps to 400.
	ErrValidation = errors.New("validation error")

	// ErrNotFound marks a missing template, task, or status log. Maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a write rejected by a uniqueness constraint. Maps to 409.
	ErrConflict = errors.New("conflict")
)
