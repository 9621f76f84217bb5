package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Source is an input file. Name is only used to choose the decompressor and
// decoder; an empty Name means "sniff the bytes".
type Source struct {
	Name   string
	Reader io.Reader
}

// Options tunes a single Parse call.
type Options struct {
	// MaxBytes caps the decompressed file size. Zero means no limit.
	MaxBytes int64
}

// Result is the outcome of a successful Parse.
type Result struct {
	Schema    Schema   `json:"schema"`
	Format    string   `json:"format"`
	Headers   []string `json:"headers"`
	Records   []Record `json:"records"`
	TotalRows int      `json:"totalRows"`
	Dropped   int      `json:"dropped"`
}

// Import reads a workbook from r and returns one record per valid row of its
// first worksheet, each stamped with dayID. r carries no file name, so the
// format is sniffed from the content: zip-based workbooks (.xlsx) and OLE2
// Excel 97-2003 workbooks (.xls) are accepted. CSV and compressed input
// need a name; use [Parse] with [Source].Name set.
func Import(ctx context.Context, r io.Reader, dayID string) ([]Record, error) {
	res, err := Parse(ctx, Source{Reader: r}, dayID, Options{})
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// ImportFile opens path and parses it, choosing the decoder from the file
// extension.
func ImportFile(ctx context.Context, path string, dayID string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newFileReadError(filepath.Base(path), err)
	}
	defer f.Close()

	return Parse(ctx, Source{Name: filepath.Base(path), Reader: f}, dayID, opts)
}

// Parse loads src fully, detects its schema from the header row and maps
// every data row. It fails with *FileReadError, ErrEmptyFile or
// *NoValidRowsError; there is no partial result.
func Parse(ctx context.Context, src Source, dayID string, opts Options) (*Result, error) {
	data, name, err := load(ctx, src, opts.MaxBytes)
	if err != nil {
		return nil, err
	}

	format, err := detectFormat(name, data)
	if err != nil {
		return nil, newFileReadError(src.Name, err)
	}

	t, err := decodeTable(format, data)
	if err != nil {
		return nil, newFileReadError(src.Name, err)
	}
	if len(t.rows) == 0 {
		return nil, ErrEmptyFile
	}

	hs := NewHeaderSet(t.header)
	res := &Result{
		Format:    format.String(),
		Headers:   headerNames(t.header),
		TotalRows: len(t.rows),
	}

	r, ok := detectRule(hs)
	if ok {
		res.Schema = r.schema
		res.Records = make([]Record, 0, len(t.rows))
		for _, raw := range t.rows {
			if rec, valid := r.mapRow(toRow(hs, raw), dayID); valid {
				res.Records = append(res.Records, rec)
			}
		}
	}
	res.Dropped = res.TotalRows - len(res.Records)

	if len(res.Records) == 0 {
		return nil, &NoValidRowsError{Schema: res.Schema, Rows: res.TotalRows}
	}
	return res, nil
}

// load reads the whole source into memory, undoing any compression wrapper.
// It returns the bytes and the name with the compression suffix removed.
func load(ctx context.Context, src Source, maxBytes int64) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	if src.Reader == nil {
		return nil, "", newFileReadError(src.Name, fmt.Errorf("no file provided"))
	}

	name, comp := compressionFromName(src.Name)
	r, closeFn, err := decompressReader(src.Reader, comp)
	if err != nil {
		return nil, "", newFileReadError(src.Name, err)
	}
	defer func() {
		_ = closeFn()
	}()

	if maxBytes > 0 {
		r = io.LimitReader(r, maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", newFileReadError(src.Name, err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return nil, "", newFileReadError(src.Name,
			fmt.Errorf("%w: exceeds %d bytes", ErrFileTooLarge, maxBytes))
	}

	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	return data, name, nil
}

func headerNames(header []string) []string {
	names := make([]string, 0, len(header))
	for _, h := range header {
		if n := normalizeHeader(h); n != "" {
			names = append(names, n)
		}
	}
	return names
}
