package core

import (
	"context"
	_ "embed"
	"fmt"
)

//go:embed sql/schema.sql
var schemaSQL string

// Migrate creates the uploads table and one content table per schema family.
// Every statement is idempotent, so it is safe to run on each startup.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Migrate applies the embedded schema using the service's pool.
func (s *Service) Migrate(ctx context.Context) error {
	return Migrate(ctx, s.pool)
}
