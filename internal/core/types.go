package core

import (
	"context"
	"io"
	"time"

	"github.com/JonMunkholm/courseimport/internal/importer"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Pool is a DBTX that can also open transactions. *pgxpool.Pool satisfies it.
type Pool interface {
	DBTX
	Begin(context.Context) (pgx.Tx, error)
}

// CopyRowFunc converts a record into COPY values, in CopyColumns order.
type CopyRowFunc func(rec importer.Record) ([]any, error)

// TableDefinition describes where records of one schema are stored.
type TableDefinition struct {
	Schema importer.Schema
	Table  string

	// CopyColumns lists the content columns written by CopyRow. The service
	// prepends upload_id and position.
	CopyColumns []string
	CopyRow     CopyRowFunc
}

// Columns returns the full COPY column list including the tracking columns.
func (t TableDefinition) Columns() []string {
	return append([]string{"upload_id", "position"}, t.CopyColumns...)
}

// ImportRequest is one uploaded spreadsheet.
type ImportRequest struct {
	FileName string
	Reader   io.Reader
	DayID    string
}

// UploadStatus is the lifecycle state of a stored upload.
type UploadStatus string

const (
	StatusCompleted  UploadStatus = "completed"
	StatusRolledBack UploadStatus = "rolled_back"
)

// ImportResult summarizes a committed import.
type ImportResult struct {
	UploadID  string          `json:"uploadId"`
	Schema    importer.Schema `json:"schema"`
	Table     string          `json:"table"`
	FileName  string          `json:"fileName"`
	DayID     string          `json:"dayId,omitempty"`
	Format    string          `json:"format"`
	TotalRows int             `json:"totalRows"`
	Inserted  int             `json:"inserted"`
	Dropped   int             `json:"dropped"`
	Duration  time.Duration   `json:"durationNs"`
}

// PreviewResponse is the result of parsing an upload without storing it.
type PreviewResponse struct {
	Schema     importer.Schema   `json:"schema"`
	SchemaName string            `json:"schemaName"`
	Format     string            `json:"format"`
	Headers    []string          `json:"headers"`
	TotalRows  int               `json:"totalRows"`
	ValidRows  int               `json:"validRows"`
	Dropped    int               `json:"dropped"`
	Sample     []importer.Record `json:"sample"`
	Truncated  bool              `json:"truncated"`
}

// RollbackResult contains the result of a rollback operation.
type RollbackResult struct {
	UploadID    string `json:"uploadId"`
	Table       string `json:"table"`
	RowsDeleted int64  `json:"rowsDeleted"`
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
}

// UploadHistoryEntry is one row of the uploads table.
type UploadHistoryEntry struct {
	ID           string       `json:"id"`
	Schema       string       `json:"schema"`
	FileName     string       `json:"fileName"`
	DayID        string       `json:"dayId,omitempty"`
	Format       string       `json:"format"`
	TotalRows    int          `json:"totalRows"`
	Inserted     int          `json:"inserted"`
	Dropped      int          `json:"dropped"`
	Status       UploadStatus `json:"status"`
	ClientIP     string       `json:"clientIp,omitempty"`
	UploadedAt   time.Time    `json:"uploadedAt"`
	RolledBackAt *time.Time   `json:"rolledBackAt,omitempty"`
}
