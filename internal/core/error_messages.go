package core

// error_messages.go maps technical errors to messages an instructor can act
// on. Every message carries a code support staff can look up here.
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large            ErrFileTooLarge
//	FILE002 - Invalid CSV               "invalid csv"
//	FILE004 - Unsupported file type     ErrUnsupportedFormat
//	FILE005 - No file selected          ErrNoFile, "no file provided"
//	FILE006 - Unreadable spreadsheet    any other *FileReadError
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Empty sheet                ErrEmptyFile
//	IMP002 - Unrecognized headers       *NoValidRowsError with SchemaUnknown
//	IMP003 - No complete rows           *NoValidRowsError with a known schema
//	IMP004 - No destination table       ErrNoTable
//
// # Upload Errors (UPL001-UPL099)
//
//	UPL001 - Request cancelled          context.Canceled
//	UPL002 - System busy                ErrTooManyUploads
//	UPL003 - Upload not found           ErrUploadNotFound
//	UPL004 - Already rolled back        ErrAlreadyRolledBack
//	UPL005 - Request timeout            context.DeadlineExceeded
//	UPL006 - Invalid upload id          ErrInvalidUploadID
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate row               SQLSTATE 23505
//	DB002 - Missing reference           SQLSTATE 23503
//	DB003 - Database unavailable        "connection refused", "connection reset"
//	DB004 - Deadlock                    SQLSTATE 40P01
//	DB005 - Other database error        any other *pgconn.PgError
//
// # Request Errors
//
//	VAL001 - Invalid form field         validator.ValidationErrors
//	RATE001 - Rate limited              "rate limit"
//	ERR000 - Unexpected error           fallback; check the server log
//
// IMP002 and IMP003 name the detected schema in their message.
//
// Typed and sentinel errors are matched first with errors.Is/errors.As, so
// wrapping never hides them. Plain text patterns are a last resort for
// errors that only surface as strings.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/JonMunkholm/courseimport/internal/importer"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Status  int    `json:"-"`
}

type errorRule struct {
	match func(error) bool
	msg   UserMessage
	// render, when set, fills msg in from the matched error.
	render func(UserMessage, error) UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func pgCode(code string) func(error) bool {
	return func(err error) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr) && pgErr.Code == code
	}
}

func noValidRows(unknown bool) func(error) bool {
	return func(err error) bool {
		var nv *importer.NoValidRowsError
		return errors.As(err, &nv) && (nv.Schema == importer.SchemaUnknown) == unknown
	}
}

// withSchema substitutes the detected schema name into msg.Message.
func withSchema(msg UserMessage, err error) UserMessage {
	var nv *importer.NoValidRowsError
	if errors.As(err, &nv) {
		msg.Message = fmt.Sprintf(msg.Message, nv.Schema)
	}
	return msg
}

// errorRules is checked in order; specific causes precede the generic
// FileReadError and PgError catch-alls.
var errorRules = []errorRule{
	{is(importer.ErrFileTooLarge), UserMessage{
		Message: "File exceeds the maximum upload size",
		Action:  "Split the sheet into smaller files",
		Code:    "FILE001",
		Status:  http.StatusRequestEntityTooLarge,
	}, nil},
	{is(importer.ErrUnsupportedFormat), UserMessage{
		Message: "Unsupported file type",
		Action:  "Upload an .xlsx, .xls or .csv file, optionally compressed as .gz, .bz2, .xz or .zst",
		Code:    "FILE004",
		Status:  http.StatusUnsupportedMediaType,
	}, nil},
	{is(ErrNoFile), UserMessage{
		Message: "No file was selected",
		Action:  "Choose a spreadsheet to upload",
		Code:    "FILE005",
		Status:  http.StatusBadRequest,
	}, nil},
	{is(importer.ErrEmptyFile), UserMessage{
		Message: "The first worksheet has headers but no data rows",
		Action:  "Fill in at least one row below the header",
		Code:    "IMP001",
		Status:  http.StatusUnprocessableEntity,
	}, nil},
	{noValidRows(true), UserMessage{
		Message: "Header row matches no template (schema: %s)",
		Action:  "Download a template and copy your rows into it",
		Code:    "IMP002",
		Status:  http.StatusUnprocessableEntity,
	}, withSchema},
	{noValidRows(false), UserMessage{
		Message: "No complete %s rows found",
		Action:  "Check that required columns are filled in for each row",
		Code:    "IMP003",
		Status:  http.StatusUnprocessableEntity,
	}, withSchema},
	{is(ErrNoTable), UserMessage{
		Message: "This content type cannot be stored yet",
		Action:  "Contact support",
		Code:    "IMP004",
		Status:  http.StatusInternalServerError,
	}, nil},
	{is(ErrTooManyUploads), UserMessage{
		Message: "Too many uploads in progress",
		Action:  "Please wait a moment and try again",
		Code:    "UPL002",
		Status:  http.StatusServiceUnavailable,
	}, nil},
	{is(ErrUploadNotFound), UserMessage{
		Message: "Upload not found",
		Action:  "Refresh the upload history and try again",
		Code:    "UPL003",
		Status:  http.StatusNotFound,
	}, nil},
	{is(ErrAlreadyRolledBack), UserMessage{
		Message: "This upload was already rolled back",
		Action:  "No further action is needed",
		Code:    "UPL004",
		Status:  http.StatusConflict,
	}, nil},
	{is(ErrInvalidUploadID), UserMessage{
		Message: "Invalid upload id",
		Action:  "Use an id from the upload history",
		Code:    "UPL006",
		Status:  http.StatusBadRequest,
	}, nil},
	{is(context.Canceled), UserMessage{
		Message: "Request was cancelled",
		Action:  "Please try again",
		Code:    "UPL001",
		Status:  499,
	}, nil},
	{is(context.DeadlineExceeded), UserMessage{
		Message: "Request timed out",
		Action:  "Try a smaller file or try again later",
		Code:    "UPL005",
		Status:  http.StatusGatewayTimeout,
	}, nil},
	{func(err error) bool {
		var ve validator.ValidationErrors
		return errors.As(err, &ve)
	}, UserMessage{
		Message: "Some form fields are invalid",
		Action:  "Check the day id and file fields",
		Code:    "VAL001",
		Status:  http.StatusBadRequest,
	}, nil},
	{pgCode("23505"), UserMessage{
		Message: "These rows were already imported",
		Action:  "Roll back the earlier upload first",
		Code:    "DB001",
		Status:  http.StatusConflict,
	}, nil},
	{pgCode("23503"), UserMessage{
		Message: "Referenced upload does not exist",
		Action:  "Please try again",
		Code:    "DB002",
		Status:  http.StatusConflict,
	}, nil},
	{pgCode("40P01"), UserMessage{
		Message: "Database was busy with conflicting operations",
		Action:  "Please try again",
		Code:    "DB004",
		Status:  http.StatusServiceUnavailable,
	}, nil},
	{func(err error) bool {
		var pgErr *pgconn.PgError
		return errors.As(err, &pgErr)
	}, UserMessage{
		Message: "The database rejected the import",
		Action:  "Please try again or contact support",
		Code:    "DB005",
		Status:  http.StatusInternalServerError,
	}, nil},
	{func(err error) bool {
		var fre *importer.FileReadError
		return errors.As(err, &fre) && strings.Contains(err.Error(), "invalid csv")
	}, UserMessage{
		Message: "File is not valid CSV",
		Action:  "Export the sheet again as comma-separated values",
		Code:    "FILE002",
		Status:  http.StatusBadRequest,
	}, nil},
	{func(err error) bool {
		var fre *importer.FileReadError
		return errors.As(err, &fre)
	}, UserMessage{
		Message: "The spreadsheet could not be read",
		Action:  "Check that the file opens in Excel and is not password protected",
		Code:    "FILE006",
		Status:  http.StatusBadRequest,
	}, nil},
}

// errorPatterns covers errors that only reach us as text.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"connection refused", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again in a few moments",
		Code:    "DB003",
		Status:  http.StatusServiceUnavailable,
	}},
	{"connection reset", UserMessage{
		Message: "Unable to connect to database",
		Action:  "Please try again",
		Code:    "DB003",
		Status:  http.StatusServiceUnavailable,
	}},
	{"no file provided", UserMessage{
		Message: "No file was selected",
		Action:  "Choose a spreadsheet to upload",
		Code:    "FILE005",
		Status:  http.StatusBadRequest,
	}},
	{"rate limit", UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
		Status:  http.StatusTooManyRequests,
	}},
}

// defaultMessage is returned when nothing matches (ERR000). Support staff
// should check the server log for the original error.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
	Status:  http.StatusInternalServerError,
}

// MapError converts a technical error to a user-friendly message.
// It returns the zero UserMessage for a nil error.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, r := range errorRules {
		if r.match(err) {
			if r.render != nil {
				return r.render(r.msg, err)
			}
			return r.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders MapError(err) as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
