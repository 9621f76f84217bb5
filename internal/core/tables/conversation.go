package tables

import (
	"github.com/JonMunkholm/courseimport/internal/core"
	"github.com/JonMunkholm/courseimport/internal/importer"
)

// Both conversation directions share one table; kind records which side
// opens the exchange.
func registerConversations() {
	for _, kind := range []importer.Schema{importer.SchemaAvatarToStudent, importer.SchemaStudentToAvatar} {
		core.Register(core.TableDefinition{
			Schema:      kind,
			Table:       "conversations",
			CopyColumns: []string{"day_id", "kind", "title", "avatar", "student"},
			CopyRow:     conversationRow(kind),
		})
	}
}

func conversationRow(kind importer.Schema) core.CopyRowFunc {
	return func(rec importer.Record) ([]any, error) {
		c, ok := rec.(importer.ConversationRecord)
		if !ok || c.Kind != kind {
			return nil, unexpected(kind, rec)
		}
		return []any{text(c.DayID), kind.Key(), c.Title, c.Avatar, c.Student}, nil
	}
}
