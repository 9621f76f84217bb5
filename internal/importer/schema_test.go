package importer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		header []string
		want   Schema
	}{
		{"quiz with option 1", []string{"question", "1", "answer"}, SchemaQuiz},
		{"quiz with option 2 only", []string{"question", "2", "answer"}, SchemaQuiz},
		{"question answer without options", []string{"question", "answer"}, SchemaUnknown},
		{"quiz beats vocabulary", []string{"word", "meaning", "question", "answer", "1", "2"}, SchemaQuiz},
		{"question answer falls through to vocabulary", []string{"question", "answer", "word", "meaning"}, SchemaVocabulary},
		{"avatar before student", []string{"title", "avatar", "student"}, SchemaAvatarToStudent},
		{"student before avatar", []string{"title", "student", "avatar"}, SchemaStudentToAvatar},
		{"conversation beats vocabulary", []string{"title", "avatar", "student", "word", "meaning"}, SchemaAvatarToStudent},
		{"conversation beats practice", []string{"title", "modal_sentence", "student", "avatar"}, SchemaStudentToAvatar},
		{"vocabulary", []string{"word", "meaning", "usage"}, SchemaVocabulary},
		{"practice sentence", []string{"title", "modal_sentence", "1", "2"}, SchemaPracticeSentence},
		{"title alone", []string{"title"}, SchemaUnknown},
		{"empty", nil, SchemaUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Detect(NewHeaderSet(tt.header))
			if got != tt.want {
				t.Errorf("Detect(%v) = %s, want %s", tt.header, got, tt.want)
			}
		})
	}
}

func TestNewHeaderSet(t *testing.T) {
	hs := NewHeaderSet([]string{" Title ", "", "AVATAR", "title", `="student"`})

	assert.Equal(t, 0, hs["title"], "first duplicate wins")
	assert.Equal(t, 2, hs["avatar"])
	assert.Equal(t, 4, hs["student"])
	assert.Len(t, hs, 3)
}

func TestParseSchema(t *testing.T) {
	tests := []struct {
		in      string
		want    Schema
		wantErr bool
	}{
		{"quiz", SchemaQuiz, false},
		{"Quiz", SchemaQuiz, false},
		{"avatar_to_student", SchemaAvatarToStudent, false},
		{"StudentToAvatar", SchemaStudentToAvatar, false},
		{" vocabulary ", SchemaVocabulary, false},
		{"practice_sentence", SchemaPracticeSentence, false},
		{"unknown", SchemaUnknown, true},
		{"flashcards", SchemaUnknown, true},
	}

	for _, tt := range tests {
		got, err := ParseSchema(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSchema(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSchema(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSchemas_PriorityOrder(t *testing.T) {
	var got []Schema
	for _, info := range Schemas() {
		got = append(got, info.Schema)
	}
	assert.Equal(t, []Schema{
		SchemaQuiz,
		SchemaAvatarToStudent,
		SchemaStudentToAvatar,
		SchemaVocabulary,
		SchemaPracticeSentence,
	}, got)
}

func TestSchema_TextRoundTrip(t *testing.T) {
	b, err := SchemaPracticeSentence.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "practice_sentence", string(b))

	var s Schema
	require.NoError(t, s.UnmarshalText(b))
	assert.Equal(t, SchemaPracticeSentence, s)
}

func TestTemplate_DetectsOwnSchema(t *testing.T) {
	for _, info := range Schemas() {
		t.Run(info.Name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteTemplate(&buf, info.Schema))

			rows, err := readFirstSheet(buf.Bytes())
			require.NoError(t, err)
			require.Len(t, rows, 1, "template carries only the header row")

			assert.Equal(t, info.Schema, Detect(NewHeaderSet(rows[0])))
			assert.Equal(t, info.Headers, rows[0])
		})
	}
}

func TestTemplate_Unknown(t *testing.T) {
	_, err := Template(SchemaUnknown)
	assert.Error(t, err)
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"2", 2},
		{" 3 ", 3},
		{"2.0", 2},
		{"4 (d)", 4},
		{"+1", 1},
		{"-1", -1},
		{"b", 0},
		{"", 0},
		{"-", 0},
	}

	for _, tt := range tests {
		if got := leadingInt(tt.in); got != tt.want {
			t.Errorf("leadingInt(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestCleanCell(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  plain  ", "plain"},
		{`="00123"`, "00123"},
		{`=SUM(A1)`, "=SUM(A1)"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := cleanCell(tt.in); got != tt.want {
			t.Errorf("cleanCell(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
