package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/courseimport/internal/importer"
	"github.com/JonMunkholm/courseimport/internal/logging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DefaultPreviewSample is the number of records returned by Preview.
const DefaultPreviewSample = 20

// Options tunes a Service. Zero values select the defaults noted per field.
type Options struct {
	MaxFileSize     int64         // 0 means unlimited
	MaxConcurrent   int           // default DefaultMaxConcurrentUploads
	MaxWait         time.Duration // default DefaultMaxWaitTime
	ImportTimeout   time.Duration // default 2m
	RollbackTimeout time.Duration // default 30s
	PreviewSample   int           // default DefaultPreviewSample
	HistoryDefault  int           // default 50
	HistoryMax      int           // default 500
}

func (o Options) withDefaults() Options {
	if o.ImportTimeout <= 0 {
		o.ImportTimeout = 2 * time.Minute
	}
	if o.RollbackTimeout <= 0 {
		o.RollbackTimeout = 30 * time.Second
	}
	if o.PreviewSample <= 0 {
		o.PreviewSample = DefaultPreviewSample
	}
	if o.HistoryDefault <= 0 {
		o.HistoryDefault = 50
	}
	if o.HistoryMax < o.HistoryDefault {
		o.HistoryMax = max(500, o.HistoryDefault)
	}
	return o
}

// Service imports course spreadsheets into PostgreSQL.
type Service struct {
	pool    Pool
	limiter *UploadLimiter
	opts    Options
}

// NewService creates a Service. pool may be nil for callers that only use
// Preview and Schemas.
func NewService(pool Pool, opts Options) *Service {
	opts = opts.withDefaults()
	return &Service{
		pool:    pool,
		limiter: NewUploadLimiter(opts.MaxConcurrent, opts.MaxWait),
		opts:    opts,
	}
}

// Schemas lists the importable schemas in detection priority order.
func (s *Service) Schemas() []importer.SchemaInfo {
	return importer.Schemas()
}

// LimiterStatus reports upload slot usage.
func (s *Service) LimiterStatus() UploadLimiterStatus {
	return s.limiter.Status()
}

// WaitForUploads blocks until in-flight imports finish or ctx ends.
func (s *Service) WaitForUploads(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

func (s *Service) parse(ctx context.Context, req ImportRequest) (*importer.Result, error) {
	if req.Reader == nil {
		return nil, ErrNoFile
	}
	return importer.Parse(ctx,
		importer.Source{Name: req.FileName, Reader: req.Reader},
		req.DayID,
		importer.Options{MaxBytes: s.opts.MaxFileSize},
	)
}

// Preview parses an upload and returns the detected schema, row counts and
// the first records. Nothing is written.
func (s *Service) Preview(ctx context.Context, req ImportRequest) (*PreviewResponse, error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	res, err := s.parse(ctx, req)
	if err != nil {
		return nil, err
	}

	sample := res.Records
	if len(sample) > s.opts.PreviewSample {
		sample = sample[:s.opts.PreviewSample]
	}

	return &PreviewResponse{
		Schema:     res.Schema,
		SchemaName: res.Schema.String(),
		Format:     res.Format,
		Headers:    res.Headers,
		TotalRows:  res.TotalRows,
		ValidRows:  len(res.Records),
		Dropped:    res.Dropped,
		Sample:     sample,
		Truncated:  len(res.Records) > len(sample),
	}, nil
}

// Import parses an upload and stores every record with one COPY, in the same
// transaction as its uploads row. Either all records land or none do.
func (s *Service) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	start := time.Now()

	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, err
	}
	defer s.limiter.Release()

	ctx, cancel := context.WithTimeout(ctx, s.opts.ImportTimeout)
	defer cancel()

	log := logging.WithFields(ctx, "file", req.FileName, "day_id", req.DayID)

	res, err := s.parse(ctx, req)
	if err != nil {
		log.Info("import rejected", "error", err)
		return nil, err
	}

	def, ok := Get(res.Schema)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoTable, res.Schema)
	}

	rows, err := copyRows(def, res.Records)
	if err != nil {
		return nil, err
	}

	uploadID := uuid.New()
	pgID := pgtype.UUID{Bytes: uploadID, Valid: true}
	for _, row := range rows {
		row[0] = pgID
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	ip, ua := ClientFromContext(ctx)
	_, err = tx.Exec(ctx, insertUploadSQL,
		pgID, res.Schema.Key(), req.FileName, nullText(req.DayID), res.Format,
		res.TotalRows, len(res.Records), res.Dropped, string(StatusCompleted),
		nullText(ip), nullText(ua),
	)
	if err != nil {
		return nil, fmt.Errorf("record upload: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{def.Table}, def.Columns(), pgx.CopyFromRows(rows))
	if err != nil {
		return nil, fmt.Errorf("copy into %s: %w", def.Table, err)
	}
	if int(n) != len(rows) {
		return nil, fmt.Errorf("copy into %s: wrote %d of %d rows", def.Table, n, len(rows))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	result := &ImportResult{
		UploadID:  uploadID.String(),
		Schema:    res.Schema,
		Table:     def.Table,
		FileName:  req.FileName,
		DayID:     req.DayID,
		Format:    res.Format,
		TotalRows: res.TotalRows,
		Inserted:  int(n),
		Dropped:   res.Dropped,
		Duration:  time.Since(start),
	}

	log.Info("import complete",
		"upload_id", result.UploadID,
		"schema", res.Schema.Key(),
		"inserted", result.Inserted,
		"dropped", result.Dropped,
		"duration", result.Duration,
	)

	return result, nil
}

// copyRows converts records to COPY rows. Slot 0 is left for the upload id;
// slot 1 holds the record's 0-based position in the sheet.
func copyRows(def TableDefinition, records []importer.Record) ([][]any, error) {
	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		values, err := def.CopyRow(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if len(values) != len(def.CopyColumns) {
			return nil, fmt.Errorf("record %d: %d values for %d columns", i+1, len(values), len(def.CopyColumns))
		}
		row := make([]any, 0, len(values)+2)
		row = append(row, nil, int32(i))
		row = append(row, values...)
		rows = append(rows, row)
	}
	return rows, nil
}

const insertUploadSQL = `
INSERT INTO uploads (id, schema, file_name, day_id, format, total_rows, inserted, dropped, status, client_ip, user_agent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

// nullText stores blank strings as NULL.
func nullText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}
