package model

import "errors"

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned when a resource already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrNotValid is returned when a resource is not valid.
	ErrNotValid = errors.New("not valid")
	// ErrRejected is returned when an operation can't start because its lane is busy.
	ErrRejected = errors.New("operation of this kind already running")
	// ErrInvalidKind is returned when an operation kind is not part of the catalog.
	ErrInvalidKind = errors.New("invalid operation kind")
)
