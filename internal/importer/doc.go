// Package importer converts course content spreadsheets into typed records.
//
// A file holds exactly one of five content schemas. The schema is chosen
// once, from the header row, by walking a priority-ordered rule table:
//
//  1. Quiz             question, answer and at least one of 1, 2
//  2. AvatarToStudent  title, avatar, student (avatar left of student)
//  3. StudentToAvatar  title, student, avatar
//  4. Vocabulary       word, meaning
//  5. PracticeSentence title, modal_sentence
//
// Header sets overlap between schemas, so the order is part of the contract.
// Each data row is then mapped by the selected rule; rows missing a
// mandatory field are dropped. A file whose rows are all dropped fails with
// [NoValidRowsError] so callers can tell a template mismatch from an empty
// sheet ([ErrEmptyFile]).
//
// The package keeps no state between calls and is safe for concurrent use.
package importer
