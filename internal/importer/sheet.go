package importer

// sheet.go decodes the first worksheet of a file into a header row plus data
// rows. Every cell is normalized to text at this point; nothing downstream
// sees numbers or formulas.

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/extrame/xls"
	"github.com/richardlehane/mscfb"
	"github.com/xuri/excelize/v2"
)

// Format is the tabular encoding of an input file.
type Format int

const (
	FormatUnknown Format = iota
	FormatXLSX
	FormatXLS
	FormatCSV
)

func (f Format) String() string {
	switch f {
	case FormatXLSX:
		return "xlsx"
	case FormatXLS:
		return "xls"
	case FormatCSV:
		return "csv"
	default:
		return "unknown"
	}
}

var (
	zipMagic  = []byte("PK\x03\x04")
	ole2Magic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
	utf8BOM   = []byte{0xEF, 0xBB, 0xBF}
)

// table is a decoded worksheet.
type table struct {
	header []string
	rows   [][]string
}

// detectFormat picks a decoder from the file extension, falling back to
// content sniffing when the name carries no usable extension.
func detectFormat(name string, data []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".xls":
		if bytes.HasPrefix(data, zipMagic) {
			// Mislabelled xlsx.
			return FormatXLSX, nil
		}
		return FormatXLS, nil
	case "":
		switch {
		case bytes.HasPrefix(data, zipMagic):
			return FormatXLSX, nil
		case bytes.HasPrefix(data, ole2Magic):
			return FormatXLS, nil
		}
		return FormatUnknown, ErrUnsupportedFormat
	default:
		return FormatUnknown, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(name))
	}
}

func decodeTable(format Format, data []byte) (*table, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatXLSX:
		records, err = readFirstSheet(data)
	case FormatXLS:
		records, err = readFirstXLSSheet(data)
	case FormatCSV:
		records, err = parseCSV(data)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return splitHeader(records), nil
}

// readFirstSheet returns the formatted cell text of the first worksheet.
// Other worksheets are ignored.
func readFirstSheet(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// xlsMaxCols is the BIFF8 column limit. Rows written without a ROW record
// report no width, so they are scanned up to this bound.
const xlsMaxCols = 256

// readFirstXLSSheet returns the cell text of the first worksheet of an Excel
// 97-2003 workbook. The xls decoder panics on malformed records, so panics
// are turned into errors here.
func readFirstXLSSheet(data []byte) (rows [][]string, err error) {
	if err := checkCompoundFile(data); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("malformed xls workbook: %v", r)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	if wb == nil {
		return nil, errors.New("open workbook: no Workbook stream")
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("workbook has no worksheets")
	}

	rows = make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}

		width := row.LastCol()
		if width <= 0 || width > xlsMaxCols {
			width = xlsMaxCols
		}
		cells := make([]string, width)
		for c := range cells {
			cells[c] = row.Col(c)
		}
		rows = append(rows, trimTrailingBlanks(cells))
	}
	return rows, nil
}

// xlsRow returns row i, or nil when the sheet has no record for it.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// checkCompoundFile walks the OLE2 container and reads the workbook stream
// end to end. A broken sector chain makes the xls decoder exit the process,
// so the container is validated before it is handed over.
func checkCompoundFile(data []byte) error {
	doc, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}

	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		if entry.Name != "Workbook" && entry.Name != "Book" {
			continue
		}
		if _, err := io.Copy(io.Discard, entry); err != nil {
			return fmt.Errorf("read workbook stream: %w", err)
		}
		return nil
	}
	return errors.New("open workbook: no Workbook stream")
}

func trimTrailingBlanks(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	return cells[:n]
}

func parseCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(sanitizeUTF8(data), utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("invalid csv: %w", err)
	}
	return records, nil
}

// splitHeader takes the first non-blank row as the header and keeps every
// later non-blank row as data.
func splitHeader(records [][]string) *table {
	t := &table{}
	for _, rec := range records {
		if isEmptyRow(rec) {
			continue
		}
		if t.header == nil {
			t.header = rec
			continue
		}
		t.rows = append(t.rows, rec)
	}
	return t
}

// toRow keys a raw record by the header set. Cells beyond the record's
// length read as blank.
func toRow(hs HeaderSet, rec []string) Row {
	row := make(Row, len(hs))
	for name, pos := range hs {
		if pos < len(rec) {
			row[name] = cleanCell(rec[pos])
		}
	}
	return row
}

func normalizeHeader(h string) string {
	return strings.ToLower(cleanCell(h))
}

// cleanCell trims whitespace and strips the ="..." wrapper spreadsheet
// exports use to force text.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}
	return strings.TrimSpace(s)
}

func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sanitizeUTF8 replaces invalid byte sequences with U+FFFD.
func sanitizeUTF8(data []byte) []byte {
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))

	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune(utf8.RuneError)
		} else {
			buf.Write(data[:size])
		}
		data = data[size:]
	}

	return buf.Bytes()
}
