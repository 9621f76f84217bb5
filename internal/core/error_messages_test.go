package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/JonMunkholm/courseimport/internal/importer"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"nil error returns empty", nil, "", 0},
		{"file too large", &importer.FileReadError{Name: "a.xlsx", Err: fmt.Errorf("%w: exceeds 10 bytes", importer.ErrFileTooLarge)}, "FILE001", http.StatusRequestEntityTooLarge},
		{"invalid csv", &importer.FileReadError{Name: "a.csv", Err: errors.New("invalid csv: bare quote")}, "FILE002", http.StatusBadRequest},
		{"unsupported format", &importer.FileReadError{Name: "a.txt", Err: importer.ErrUnsupportedFormat}, "FILE004", http.StatusUnsupportedMediaType},
		{"no file", fmt.Errorf("import: %w", ErrNoFile), "FILE005", http.StatusBadRequest},
		{"corrupt workbook", &importer.FileReadError{Name: "a.xlsx", Err: errors.New("zip: not a valid zip file")}, "FILE006", http.StatusBadRequest},
		{"empty sheet", importer.ErrEmptyFile, "IMP001", http.StatusUnprocessableEntity},
		{"unknown headers", &importer.NoValidRowsError{Schema: importer.SchemaUnknown, Rows: 3}, "IMP002", http.StatusUnprocessableEntity},
		{"known schema no rows", fmt.Errorf("parse: %w", &importer.NoValidRowsError{Schema: importer.SchemaQuiz, Rows: 3}), "IMP003", http.StatusUnprocessableEntity},
		{"no table", fmt.Errorf("%w: Quiz", ErrNoTable), "IMP004", http.StatusInternalServerError},
		{"too many uploads", ErrTooManyUploads, "UPL002", http.StatusServiceUnavailable},
		{"upload not found", fmt.Errorf("rollback: %w", ErrUploadNotFound), "UPL003", http.StatusNotFound},
		{"already rolled back", ErrAlreadyRolledBack, "UPL004", http.StatusConflict},
		{"invalid upload id", ErrInvalidUploadID, "UPL006", http.StatusBadRequest},
		{"cancelled", fmt.Errorf("copy: %w", context.Canceled), "UPL001", 499},
		{"deadline", context.DeadlineExceeded, "UPL005", http.StatusGatewayTimeout},
		{"unique violation", fmt.Errorf("copy: %w", &pgconn.PgError{Code: "23505"}), "DB001", http.StatusConflict},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, "DB002", http.StatusConflict},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, "DB004", http.StatusServiceUnavailable},
		{"other pg error", &pgconn.PgError{Code: "42P01"}, "DB005", http.StatusInternalServerError},
		{"connection refused text", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), "DB003", http.StatusServiceUnavailable},
		{"rate limit text", errors.New("rate limit exceeded"), "RATE001", http.StatusTooManyRequests},
		{"unknown", errors.New("something completely different"), "ERR000", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError().Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Status != tt.wantStatus {
				t.Errorf("MapError().Status = %d, want %d", got.Status, tt.wantStatus)
			}
		})
	}
}

func TestMapError_NamesDetectedSchema(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{"unknown headers", &importer.NoValidRowsError{Schema: importer.SchemaUnknown, Rows: 2}, "IMP002", "Header row matches no template (schema: Unknown)"},
		{"vocabulary", &importer.NoValidRowsError{Schema: importer.SchemaVocabulary, Rows: 4}, "IMP003", "No complete Vocabulary rows found"},
		{"wrapped quiz", fmt.Errorf("preview: %w", &importer.NoValidRowsError{Schema: importer.SchemaQuiz, Rows: 1}), "IMP003", "No complete Quiz rows found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError().Code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError().Message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}

	// The rule table keeps its template; one error must not leak into the next.
	MapError(&importer.NoValidRowsError{Schema: importer.SchemaQuiz})
	if got := MapError(&importer.NoValidRowsError{Schema: importer.SchemaPracticeSentence}); got.Message != "No complete PracticeSentence rows found" {
		t.Errorf("second MapError().Message = %q", got.Message)
	}
}

func TestFormatUserError(t *testing.T) {
	got := FormatUserError(importer.ErrEmptyFile)
	want := "The first worksheet has headers but no data rows (Code: IMP001). Fill in at least one row below the header"
	if got != want {
		t.Errorf("FormatUserError() = %q, want %q", got, want)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{ErrTooManyUploads, true},
		{&importer.NoValidRowsError{}, true},
		{errors.New("random internal error"), false},
	}

	for _, tt := range tests {
		if got := IsUserFacing(tt.err); got != tt.want {
			t.Errorf("IsUserFacing(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestErrorRules_HaveCodes(t *testing.T) {
	seen := make(map[UserMessage]bool)
	for i, r := range errorRules {
		if r.msg.Code == "" || r.msg.Message == "" || r.msg.Status == 0 {
			t.Errorf("errorRules[%d] is incomplete: %+v", i, r.msg)
		}
		if seen[r.msg] {
			t.Errorf("errorRules[%d] duplicates message %s", i, r.msg.Code)
		}
		seen[r.msg] = true
	}
}
