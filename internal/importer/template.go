package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Template builds a blank workbook whose first row carries the headers a
// file of the given schema must have. The caller owns the returned file and
// must Close it.
func Template(s Schema) (*excelize.File, error) {
	r, ok := ruleFor(s)
	if !ok {
		return nil, fmt.Errorf("no template for schema %s", s)
	}

	f := excelize.NewFile()
	sheet := s.String()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(r.template))
	for i, h := range r.template {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(r.template), 1)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		f.Close()
		return nil, fmt.Errorf("apply header style: %w", err)
	}

	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 24); err != nil {
		f.Close()
		return nil, fmt.Errorf("column width: %w", err)
	}

	return f, nil
}

// WriteTemplate streams the template workbook for s to w.
func WriteTemplate(w io.Writer, s Schema) error {
	f, err := Template(s)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}

// TemplateFileName is the suggested download name for a schema template.
func TemplateFileName(s Schema) string {
	return s.Key() + "_template.xlsx"
}
