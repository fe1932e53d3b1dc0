package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/sheetclean/internal/core"
)

// ReadCSV reads delimited text. The first record is the header; ragged rows
// are padded with missing cells.
func ReadCSV(r io.Reader, delim rune) (*core.Table, error) {
	cr := csv.NewReader(NewTextReader(r))
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no header row", ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid CSV: %w", err)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid CSV: %w", err)
		}
		records = append(records, rec)
	}

	return fromRecords(header, records)
}
