// Package tables registers the storage table for every content schema with
// the core registry. Import it for its side effects:
//
//	import _ "github.com/JonMunkholm/courseimport/internal/core/tables"
package tables

import (
	"fmt"

	"github.com/JonMunkholm/courseimport/internal/importer"
	"github.com/jackc/pgx/v5/pgtype"
)

func init() {
	registerQuiz()
	registerConversations()
	registerVocabulary()
	registerPracticeSentences()
}

// text stores blank optional values as NULL.
func text(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func unexpected(want importer.Schema, got importer.Record) error {
	return fmt.Errorf("%s table cannot store %T", want, got)
}
