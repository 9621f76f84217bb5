package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/courseimport/internal/importer"
	"github.com/JonMunkholm/courseimport/internal/logging"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// Rollback deletes every row written by an upload and marks the upload
// rolled back, in one transaction.
func (s *Service) Rollback(ctx context.Context, uploadID string) (RollbackResult, error) {
	result := RollbackResult{UploadID: uploadID}

	id, err := uuid.Parse(uploadID)
	if err != nil {
		result.Error = ErrInvalidUploadID.Error()
		return result, fmt.Errorf("%w: %q", ErrInvalidUploadID, uploadID)
	}
	pgID := pgtype.UUID{Bytes: id, Valid: true}

	ctx, cancel := context.WithTimeout(ctx, s.opts.RollbackTimeout)
	defer cancel()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var schemaKey, status string
	err = tx.QueryRow(ctx, `SELECT schema, status FROM uploads WHERE id = $1 FOR UPDATE`, pgID).
		Scan(&schemaKey, &status)
	if errors.Is(err, pgx.ErrNoRows) {
		result.Error = ErrUploadNotFound.Error()
		return result, ErrUploadNotFound
	}
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("get upload: %w", err)
	}
	if UploadStatus(status) == StatusRolledBack {
		result.Error = ErrAlreadyRolledBack.Error()
		return result, ErrAlreadyRolledBack
	}

	schema, err := importer.ParseSchema(schemaKey)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}
	def, ok := Get(schema)
	if !ok {
		result.Error = ErrNoTable.Error()
		return result, fmt.Errorf("%w: %s", ErrNoTable, schema)
	}
	result.Table = def.Table

	tag, err := tx.Exec(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE upload_id = $1", pgx.Identifier{def.Table}.Sanitize()),
		pgID)
	if err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("delete rows: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE uploads SET status = $2, rolled_back_at = now() WHERE id = $1`,
		pgID, string(StatusRolledBack)); err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("mark rolled back: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		result.Error = err.Error()
		return result, fmt.Errorf("commit: %w", err)
	}

	result.RowsDeleted = tag.RowsAffected()
	result.Success = true

	logging.FromContext(ctx).Info("upload rolled back",
		"upload_id", uploadID,
		"table", def.Table,
		"rows_deleted", result.RowsDeleted,
	)

	return result, nil
}
