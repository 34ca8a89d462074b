// Package xlsxfile reads timesheets saved as Excel workbooks. Only the first
// sheet is considered; the header and row rules match the CSV importer.
package xlsxfile

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/invoicer/internal/importer/row"
)

type Parser struct{}

func New() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]row.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &row.MissingHeaderError{Missing: row.RequiredColumns}
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	headerIdx := row.HeaderIndex(records)
	if headerIdx < 0 {
		return nil, &row.MissingHeaderError{Missing: row.RequiredColumns}
	}

	cols, err := row.MapHeader(records[headerIdx])
	if err != nil {
		return nil, err
	}

	return cols.Collect(records[headerIdx+1:]), nil
}
