package tables

import (
	"github.com/JonMunkholm/courseimport/internal/core"
	"github.com/JonMunkholm/courseimport/internal/importer"
	"github.com/jackc/pgx/v5/pgtype"
)

func registerQuiz() {
	core.Register(core.TableDefinition{
		Schema:      importer.SchemaQuiz,
		Table:       "quiz_questions",
		CopyColumns: []string{"day_id", "question", "options", "correct_index", "explanation"},
		CopyRow: func(rec importer.Record) ([]any, error) {
			q, ok := rec.(importer.QuizRecord)
			if !ok {
				return nil, unexpected(importer.SchemaQuiz, rec)
			}

			correct := pgtype.Int4{}
			if i := q.CorrectIndex(); i >= 0 {
				correct = pgtype.Int4{Int32: int32(i), Valid: true}
			}

			return []any{
				text(q.DayID),
				q.Question,
				q.Options,
				correct,
				text(q.Explanation),
			}, nil
		},
	})
}
