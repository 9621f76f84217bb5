package core

import "errors"

var (
	// ErrUploadNotFound is returned when no upload has the given id.
	ErrUploadNotFound = errors.New("upload not found")

	// ErrAlreadyRolledBack is returned when rolling back an upload twice.
	ErrAlreadyRolledBack = errors.New("upload already rolled back")

	// ErrInvalidUploadID is returned for ids that are not UUIDs.
	ErrInvalidUploadID = errors.New("invalid upload id")

	// ErrNoTable is returned when a detected schema has no registered table.
	ErrNoTable = errors.New("no table registered for schema")

	// ErrNoFile is returned when an import request carries no file.
	ErrNoFile = errors.New("no file provided")
)
