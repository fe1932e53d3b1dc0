package ingest

import (
	"fmt"
	"io"

	"github.com/JonMunkholm/sheetclean/internal/core"
	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads one sheet of a workbook. Cell values are taken as Excel
// displays them, so dates and currency keep their formatting.
func ReadXLSX(r io.Reader, sheet string) (*core.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: %w", err)
	}
	defer f.Close()

	sheet, err = resolveSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrEmptyFile, sheet)
	}
	return fromRecords(rows[0], rows[1:])
}

// SheetNames lists the sheets of a workbook in order.
func SheetNames(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid workbook: %w", err)
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func resolveSheet(f *excelize.File, sheet string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", fmt.Errorf("%w: workbook has no sheets", ErrEmptyFile)
	}
	if sheet == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == sheet {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet not found: %q", sheet)
}
