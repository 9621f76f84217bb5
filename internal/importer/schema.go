package importer

import (
	"fmt"
	"strings"
)

// Schema identifies which content shape a spreadsheet holds.
type Schema int

const (
	SchemaUnknown Schema = iota
	SchemaQuiz
	SchemaAvatarToStudent
	SchemaStudentToAvatar
	SchemaVocabulary
	SchemaPracticeSentence
)

// Column names as they appear in template header rows.
const (
	ColQuestion      = "question"
	ColAnswer        = "answer"
	ColExplanation   = "explanation"
	ColTitle         = "title"
	ColAvatar        = "avatar"
	ColStudent       = "student"
	ColWord          = "word"
	ColMeaning       = "meaning"
	ColSynonym       = "synonym"
	ColAntonym       = "antonym"
	ColUsage         = "usage"
	ColModalSentence = "modal_sentence"
)

// MaxPracticeSentences is the highest numbered column read for practice sentences.
const MaxPracticeSentences = 10

var schemaNames = map[Schema]string{
	SchemaUnknown:          "Unknown",
	SchemaQuiz:             "Quiz",
	SchemaAvatarToStudent:  "AvatarToStudent",
	SchemaStudentToAvatar:  "StudentToAvatar",
	SchemaVocabulary:       "Vocabulary",
	SchemaPracticeSentence: "PracticeSentence",
}

var schemaKeys = map[Schema]string{
	SchemaUnknown:          "unknown",
	SchemaQuiz:             "quiz",
	SchemaAvatarToStudent:  "avatar_to_student",
	SchemaStudentToAvatar:  "student_to_avatar",
	SchemaVocabulary:       "vocabulary",
	SchemaPracticeSentence: "practice_sentence",
}

// String returns the display name, e.g. "AvatarToStudent".
func (s Schema) String() string {
	if name, ok := schemaNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Schema(%d)", int(s))
}

// Key returns the stable snake_case identifier used in URLs and tables.
func (s Schema) Key() string {
	if key, ok := schemaKeys[s]; ok {
		return key
	}
	return schemaKeys[SchemaUnknown]
}

// MarshalText encodes the schema by its key.
func (s Schema) MarshalText() ([]byte, error) {
	return []byte(s.Key()), nil
}

// UnmarshalText accepts either the key or the display name.
func (s *Schema) UnmarshalText(b []byte) error {
	parsed, err := ParseSchema(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSchema resolves a schema from its key or display name (case-insensitive).
func ParseSchema(name string) (Schema, error) {
	name = strings.TrimSpace(name)
	for s := range schemaNames {
		if s == SchemaUnknown {
			continue
		}
		if strings.EqualFold(name, s.Key()) || strings.EqualFold(name, s.String()) {
			return s, nil
		}
	}
	return SchemaUnknown, fmt.Errorf("unknown schema %q", name)
}

// SchemaInfo describes a schema for listings and template generation.
type SchemaInfo struct {
	Schema   Schema   `json:"key"`
	Name     string   `json:"name"`
	Required []string `json:"required"`
	Headers  []string `json:"headers"`
}

// Schemas returns every known schema in detection priority order.
func Schemas() []SchemaInfo {
	infos := make([]SchemaInfo, 0, len(rules))
	for _, r := range rules {
		infos = append(infos, SchemaInfo{
			Schema:   r.schema,
			Name:     r.schema.String(),
			Required: append([]string(nil), r.required...),
			Headers:  append([]string(nil), r.template...),
		})
	}
	return infos
}

// HeaderSet is the set of normalized column names in a sheet, with positions.
type HeaderSet map[string]int

// NewHeaderSet indexes a header row. Names are trimmed and lowercased; the
// first occurrence of a duplicated name wins.
func NewHeaderSet(header []string) HeaderSet {
	hs := make(HeaderSet, len(header))
	for i, h := range header {
		key := normalizeHeader(h)
		if key == "" {
			continue
		}
		if _, dup := hs[key]; dup {
			continue
		}
		hs[key] = i
	}
	return hs
}

// Has reports whether every name is present.
func (hs HeaderSet) Has(names ...string) bool {
	for _, n := range names {
		if _, ok := hs[n]; !ok {
			return false
		}
	}
	return true
}

// HasAny reports whether at least one name is present.
func (hs HeaderSet) HasAny(names ...string) bool {
	for _, n := range names {
		if _, ok := hs[n]; ok {
			return true
		}
	}
	return false
}

// before reports whether column a appears to the left of column b.
func (hs HeaderSet) before(a, b string) bool {
	ia, okA := hs[a]
	ib, okB := hs[b]
	return okA && okB && ia < ib
}

// rule pairs a header predicate with the row mapper for one schema.
// The rules slice order is the detection priority.
type rule struct {
	schema   Schema
	required []string
	template []string
	match    func(HeaderSet) bool
	mapRow   func(Row, string) (Record, bool)
}

var rules = []rule{
	{
		schema:   SchemaQuiz,
		required: []string{ColQuestion, ColAnswer},
		template: []string{ColQuestion, "1", "2", "3", "4", ColAnswer, ColExplanation},
		match: func(hs HeaderSet) bool {
			// A numbered option column separates a quiz from a plain Q/A table.
			return hs.Has(ColQuestion, ColAnswer) && hs.HasAny("1", "2")
		},
		mapRow: mapQuiz,
	},
	{
		schema:   SchemaAvatarToStudent,
		required: []string{ColTitle, ColAvatar, ColStudent},
		template: []string{ColTitle, ColAvatar, ColStudent},
		match: func(hs HeaderSet) bool {
			return hs.Has(ColTitle, ColAvatar, ColStudent) && hs.before(ColAvatar, ColStudent)
		},
		mapRow: mapConversation(SchemaAvatarToStudent),
	},
	{
		schema:   SchemaStudentToAvatar,
		required: []string{ColTitle, ColStudent, ColAvatar},
		template: []string{ColTitle, ColStudent, ColAvatar},
		match: func(hs HeaderSet) bool {
			return hs.Has(ColTitle, ColStudent, ColAvatar)
		},
		mapRow: mapConversation(SchemaStudentToAvatar),
	},
	{
		schema:   SchemaVocabulary,
		required: []string{ColWord, ColMeaning},
		template: []string{ColWord, ColMeaning, ColSynonym, ColAntonym, ColUsage},
		match: func(hs HeaderSet) bool {
			return hs.Has(ColWord, ColMeaning)
		},
		mapRow: mapVocabulary,
	},
	{
		schema:   SchemaPracticeSentence,
		required: []string{ColTitle, ColModalSentence},
		template: practiceTemplate(),
		match: func(hs HeaderSet) bool {
			return hs.Has(ColTitle, ColModalSentence)
		},
		mapRow: mapPracticeSentence,
	},
}

func practiceTemplate() []string {
	cols := []string{ColTitle, ColModalSentence}
	for i := 1; i <= MaxPracticeSentences; i++ {
		cols = append(cols, numbered(i))
	}
	return cols
}

// Detect returns the first schema whose rule accepts the header set,
// or SchemaUnknown.
func Detect(hs HeaderSet) Schema {
	if r, ok := detectRule(hs); ok {
		return r.schema
	}
	return SchemaUnknown
}

func detectRule(hs HeaderSet) (rule, bool) {
	for _, r := range rules {
		if r.match(hs) {
			return r, true
		}
	}
	return rule{}, false
}

func ruleFor(s Schema) (rule, bool) {
	for _, r := range rules {
		if r.schema == s {
			return r, true
		}
	}
	return rule{}, false
}
