package core

import "errors"

// Common errors.
var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateID     = errors.New("duplicate id")
	ErrEmptyID         = errors.New("id cannot be empty")
	ErrEmptyTitle      = errors.New("title cannot be empty")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrPersistence     = errors.New("persistence failure")
	ErrVersioning      = errors.New("versioning failure")
	ErrReadOnly        = errors.New("repository is in read-only mode")
)

// ErrAmbiguousID is returned when an id prefix matches more than one entry.
var ErrAmbiguousID = errors.New("ambiguous id prefix")
