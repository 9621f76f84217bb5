package core

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// HistoryLimit clamps a requested history page size. Non-positive values
// select the configured default.
func (s *Service) HistoryLimit(limit int) int {
	if limit <= 0 {
		return s.opts.HistoryDefault
	}
	return min(limit, s.opts.HistoryMax)
}

// History returns the most recent uploads, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]UploadHistoryEntry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, schema, file_name, day_id, format, total_rows, inserted, dropped,
		       status, client_ip, uploaded_at, rolled_back_at
		FROM uploads
		ORDER BY uploaded_at DESC
		LIMIT $1`, s.HistoryLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query uploads: %w", err)
	}

	entries, err := pgx.CollectRows(rows, scanHistoryEntry)
	if err != nil {
		return nil, fmt.Errorf("scan uploads: %w", err)
	}
	return entries, nil
}

func scanHistoryEntry(row pgx.CollectableRow) (UploadHistoryEntry, error) {
	var (
		e          UploadHistoryEntry
		id         pgtype.UUID
		dayID      pgtype.Text
		clientIP   pgtype.Text
		status     string
		rolledBack pgtype.Timestamptz
	)
	err := row.Scan(&id, &e.Schema, &e.FileName, &dayID, &e.Format,
		&e.TotalRows, &e.Inserted, &e.Dropped, &status, &clientIP,
		&e.UploadedAt, &rolledBack)
	if err != nil {
		return e, err
	}

	e.ID = uuidString(id)
	e.DayID = dayID.String
	e.ClientIP = clientIP.String
	e.Status = UploadStatus(status)
	if rolledBack.Valid {
		t := rolledBack.Time
		e.RolledBackAt = &t
	}
	return e, nil
}

func uuidString(id pgtype.UUID) string {
	if !id.Valid {
		return ""
	}
	return uuid.UUID(id.Bytes).String()
}
