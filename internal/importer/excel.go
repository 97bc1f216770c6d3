package importer

import (
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/xuri/excelize/v2"
)

// ExcelReader reads Office Open XML workbooks.
type ExcelReader struct{}

// Extensions returns the file extensions handled by the reader.
func (x *ExcelReader) Extensions() []string { return []string{"xlsx", "xlsm"} }

// Read returns the rows of the configured sheet (the first sheet by default).
// Cells are returned unformatted so amounts keep their stored precision.
func (x *ExcelReader) Read(r io.Reader, opts ReadOptions) ([][]string, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	sheet := opts.Sheet
	if sheet == "" {
		sheet = sheets[0]
	} else if !slices.Contains(sheets, sheet) {
		return nil, fmt.Errorf("sheet %q not found (sheets: %v)", sheet, sheets)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	return rows, nil
}
