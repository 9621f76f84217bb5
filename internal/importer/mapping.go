package importer

import (
	"strconv"
	"strings"
	"unicode"
)

// Row maps normalized header names to cell text for one data row.
// Absent and blank cells both read as "".
type Row map[string]string

// Get returns the trimmed cell value for a column.
func (r Row) Get(col string) string {
	return strings.TrimSpace(r[col])
}

func numbered(i int) string {
	return strconv.Itoa(i)
}

func mapQuiz(row Row, dayID string) (Record, bool) {
	question := row.Get(ColQuestion)
	answer := row.Get(ColAnswer)
	if question == "" || answer == "" {
		return nil, false
	}

	correct := leadingInt(answer)

	var options []QuizOption
	for i := 1; ; i++ {
		text := row.Get(numbered(i))
		if text == "" {
			break
		}
		options = append(options, QuizOption{Text: text, IsCorrect: i == correct})
	}
	if len(options) == 0 {
		return nil, false
	}

	return QuizRecord{
		DayID:       dayID,
		Question:    question,
		Options:     options,
		Explanation: row.Get(ColExplanation),
	}, true
}

func mapConversation(kind Schema) func(Row, string) (Record, bool) {
	return func(row Row, dayID string) (Record, bool) {
		rec := ConversationRecord{
			Kind:    kind,
			DayID:   dayID,
			Title:   row.Get(ColTitle),
			Avatar:  row.Get(ColAvatar),
			Student: row.Get(ColStudent),
		}
		if rec.Title == "" || rec.Avatar == "" || rec.Student == "" {
			return nil, false
		}
		return rec, true
	}
}

func mapVocabulary(row Row, dayID string) (Record, bool) {
	rec := VocabularyRecord{
		DayID:   dayID,
		Word:    row.Get(ColWord),
		Meaning: row.Get(ColMeaning),
		Synonym: row.Get(ColSynonym),
		Antonym: row.Get(ColAntonym),
		Usage:   row.Get(ColUsage),
	}
	if rec.Word == "" || rec.Meaning == "" {
		return nil, false
	}
	return rec, true
}

func mapPracticeSentence(row Row, dayID string) (Record, bool) {
	title := row.Get(ColTitle)
	modal := row.Get(ColModalSentence)
	if title == "" || modal == "" {
		return nil, false
	}

	sentences := make([]string, 0, MaxPracticeSentences)
	for i := 1; i <= MaxPracticeSentences; i++ {
		if s := row.Get(numbered(i)); s != "" {
			sentences = append(sentences, s)
		}
	}

	return PracticeSentenceRecord{
		DayID:             dayID,
		Title:             title,
		ModalSentence:     modal,
		PracticeSentences: sentences,
	}, true
}

// leadingInt parses the integer prefix of s ("2", "2.0", "3 (c)").
// Returns 0 when s does not start with a digit or sign.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) {
		c := rune(s[end])
		if end == 0 && (c == '+' || c == '-') {
			end++
			continue
		}
		if !unicode.IsDigit(c) {
			break
		}
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
