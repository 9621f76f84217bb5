package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConvert_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "talk.csv", "title,avatar,student\nGreeting,Hello!,Hi there\n,missing,title\n")

	out, err := execute(t, "convert", path, "--day-id", "day-4")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	var got struct {
		File      string           `json:"file"`
		Schema    string           `json:"schema"`
		TotalRows int              `json:"totalRows"`
		Dropped   int              `json:"dropped"`
		Records   []map[string]any `json:"records"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not a JSON object: %v\n%s", err, out)
	}

	if got.Schema != "avatar_to_student" || got.TotalRows != 2 || got.Dropped != 1 {
		t.Errorf("result = %+v", got)
	}
	if len(got.Records) != 1 || got.Records[0]["title"] != "Greeting" || got.Records[0]["dayId"] != "day-4" {
		t.Errorf("records = %v", got.Records)
	}
}

func TestConvert_ManyFilesKeepOrder(t *testing.T) {
	dir := t.TempDir()
	words := writeFile(t, dir, "words.csv", "word,meaning\nsun,star\n")
	practice := writeFile(t, dir, "practice.csv", "title,modal_sentence,1\nCan,I can swim.,I can run.\n")
	out := filepath.Join(dir, "out.json")

	if _, err := execute(t, "convert", words, practice, "-o", out, "--pretty"); err != nil {
		t.Fatalf("convert: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte("\n  ")) {
		t.Error("--pretty output is not indented")
	}

	var got []struct {
		File   string `json:"file"`
		Schema string `json:"schema"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(got) != 2 || got[0].Schema != "vocabulary" || got[1].Schema != "practice_sentence" {
		t.Errorf("results = %+v", got)
	}
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	unknown := writeFile(t, dir, "odd.csv", "colour,shape\nred,round\n")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no files", []string{"convert"}, "requires at least 1 arg"},
		{"missing file", []string{"convert", filepath.Join(dir, "nope.csv")}, "nope.csv"},
		{"unknown schema", []string{"convert", unknown}, "odd.csv"},
		{"bad max size", []string{"convert", unknown, "--max-size", "lots"}, "invalid --max-size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestTemplateCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quiz.xlsx")

	out, err := execute(t, "template", "Quiz", "-o", path)
	if err != nil {
		t.Fatalf("template: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output = %q, want it to name %s", out, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open template: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetList()[0])
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) == 0 || rows[0][0] != "question" {
		t.Errorf("header row = %v", rows)
	}

	if _, err := execute(t, "template", "essay"); err == nil {
		t.Error("template accepted an unknown schema")
	}
}

func TestSchemasCommand(t *testing.T) {
	out, err := execute(t, "schemas")
	if err != nil {
		t.Fatalf("schemas: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 6 {
		t.Fatalf("got %d lines, want header plus 5 schemas:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "quiz") || !strings.HasPrefix(lines[5], "practice_sentence") {
		t.Errorf("schemas not in detection order:\n%s", out)
	}
}
