package importer

// Record is one validated content unit produced from a spreadsheet row.
type Record interface {
	Schema() Schema
	Day() string
}

// QuizOption is a single answer choice.
type QuizOption struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// QuizRecord is a multiple-choice question.
type QuizRecord struct {
	DayID       string       `json:"dayId,omitempty"`
	Question    string       `json:"question"`
	Options     []QuizOption `json:"options"`
	Explanation string       `json:"explanation,omitempty"`
}

func (QuizRecord) Schema() Schema { return SchemaQuiz }
func (r QuizRecord) Day() string { return r.DayID }

// CorrectIndex returns the 0-based index of the first correct option, or -1.
func (r QuizRecord) CorrectIndex() int {
	for i, o := range r.Options {
		if o.IsCorrect {
			return i
		}
	}
	return -1
}

// ConversationRecord is an avatar/student exchange. Kind tells which side
// opens the conversation.
type ConversationRecord struct {
	Kind    Schema `json:"-"`
	DayID   string `json:"dayId,omitempty"`
	Title   string `json:"title"`
	Avatar  string `json:"avatar"`
	Student string `json:"student"`
}

func (r ConversationRecord) Schema() Schema { return r.Kind }
func (r ConversationRecord) Day() string { return r.DayID }

// VocabularyRecord is a word with its meaning and optional extras.
type VocabularyRecord struct {
	DayID   string `json:"dayId,omitempty"`
	Word    string `json:"word"`
	Meaning string `json:"meaning"`
	Synonym string `json:"synonym,omitempty"`
	Antonym string `json:"antonym,omitempty"`
	Usage   string `json:"usage,omitempty"`
}

func (VocabularyRecord) Schema() Schema { return SchemaVocabulary }
func (r VocabularyRecord) Day() string { return r.DayID }

// PracticeSentenceRecord is a model sentence with practice variations.
type PracticeSentenceRecord struct {
	DayID             string   `json:"dayId,omitempty"`
	Title             string   `json:"title"`
	ModalSentence     string   `json:"modalSentence"`
	PracticeSentences []string `json:"practiceSentences"`
}

func (PracticeSentenceRecord) Schema() Schema { return SchemaPracticeSentence }
func (r PracticeSentenceRecord) Day() string { return r.DayID }
