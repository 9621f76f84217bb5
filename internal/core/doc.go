// Package core stores imported course content in PostgreSQL.
//
// It sits between the transports (the HTTP server and the CLI) and the
// importer package, which only turns spreadsheets into records.
//
// # Table Registry
//
// Each content schema has a [TableDefinition] registered at init time by
// package tables. A definition names the destination table and converts a
// record to COPY values:
//
//	core.Register(core.TableDefinition{
//	    Schema:      importer.SchemaVocabulary,
//	    Table:       "vocabulary",
//	    CopyColumns: []string{"day_id", "word", "meaning"},
//	    CopyRow:     vocabularyRow,
//	})
//
// # Import Flow
//
//  1. [Service.Import] takes an upload slot from the [UploadLimiter]
//  2. The importer detects the schema and maps every row
//  3. An uploads row and all records are written in one transaction,
//     records through a single COPY
//  4. [Service.Rollback] later deletes by upload id
//
// [Service.Preview] runs step 2 only and never touches the database.
//
// # Error Handling
//
// [MapError] turns any error from this package or the importer into a
// message, an action and a support code (FILE, IMP, UPL, DB, VAL, RATE).
package core
