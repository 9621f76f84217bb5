package tables

import (
	"github.com/JonMunkholm/courseimport/internal/core"
	"github.com/JonMunkholm/courseimport/internal/importer"
)

func registerPracticeSentences() {
	core.Register(core.TableDefinition{
		Schema:      importer.SchemaPracticeSentence,
		Table:       "practice_sentences",
		CopyColumns: []string{"day_id", "title", "modal_sentence", "practice_sentences"},
		CopyRow: func(rec importer.Record) ([]any, error) {
			p, ok := rec.(importer.PracticeSentenceRecord)
			if !ok {
				return nil, unexpected(importer.SchemaPracticeSentence, rec)
			}
			sentences := p.PracticeSentences
			if sentences == nil {
				sentences = []string{}
			}
			return []any{text(p.DayID), p.Title, p.ModalSentence, sentences}, nil
		},
	})
}
