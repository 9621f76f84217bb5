package tables

import (
	"github.com/JonMunkholm/courseimport/internal/core"
	"github.com/JonMunkholm/courseimport/internal/importer"
)

func registerVocabulary() {
	core.Register(core.TableDefinition{
		Schema:      importer.SchemaVocabulary,
		Table:       "vocabulary",
		CopyColumns: []string{"day_id", "word", "meaning", "synonym", "antonym", "usage"},
		CopyRow: func(rec importer.Record) ([]any, error) {
			v, ok := rec.(importer.VocabularyRecord)
			if !ok {
				return nil, unexpected(importer.SchemaVocabulary, rec)
			}
			return []any{
				text(v.DayID),
				v.Word,
				v.Meaning,
				text(v.Synonym),
				text(v.Antonym),
				text(v.Usage),
			}, nil
		},
	})
}
