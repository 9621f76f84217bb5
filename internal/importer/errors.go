package importer

import (
	"errors"
	"fmt"
)

// ErrEmptyFile indicates the worksheet has a header row but no data rows.
var ErrEmptyFile = errors.New("empty file: worksheet has no data rows")

// ErrNoValidRows matches any *NoValidRowsError via errors.Is.
var ErrNoValidRows = errors.New("no valid rows")

// ErrFileTooLarge indicates the input exceeded the configured size limit.
var ErrFileTooLarge = errors.New("file too large")

// ErrUnsupportedFormat indicates the file extension is not a known spreadsheet type.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// NoValidRowsError reports that rows were present but none mapped to a record.
type NoValidRowsError struct {
	Schema Schema
	Rows   int
}

func (e *NoValidRowsError) Error() string {
	return fmt.Sprintf("no valid rows for schema %s (%d rows read)", e.Schema, e.Rows)
}

func (e *NoValidRowsError) Is(target error) bool {
	return target == ErrNoValidRows
}

// FileReadError wraps a failure to read or decode the input file.
type FileReadError struct {
	Name string
	Err  error
}

func (e *FileReadError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("read spreadsheet %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("read spreadsheet: %v", e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

func newFileReadError(name string, err error) *FileReadError {
	return &FileReadError{Name: name, Err: err}
}
