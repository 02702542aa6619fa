package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/cleared-dev/ledgernorm/internal/model"
)

// XLSXSource reads every row of every sheet of a workbook.
type XLSXSource struct{}

// Format returns the source name.
func (s *XLSXSource) Format() string { return "xlsx" }

// Extensions returns the handled file extensions.
func (s *XLSXSource) Extensions() []string { return []string{".xlsx", ".xlsm"} }

// Read returns one line per non-empty row, cells joined with " | ".
func (s *XLSXSource) Read(r io.Reader) (*model.Document, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			if line := joinCells(row); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return &model.Document{Lines: lines}, nil
}
