// Package ingest reads uploaded files into raw tables.
//
// Every reader produces a core.Table whose row IDs are the 0-based data row
// positions. Blank cells become missing cells; all other values are kept
// exactly as the file presents them so the cleaning engine sees the raw
// text.
package ingest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/JonMunkholm/sheetclean/internal/core"
)

var (
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrEmptyFile       = errors.New("empty file")
)

// Options tunes reading.
type Options struct {
	// Sheet selects a workbook sheet by name. Empty means the first sheet.
	Sheet string
}

// Extensions lists the file extensions Read accepts.
var Extensions = []string{".csv", ".tsv", ".txt", ".xlsx", ".xlsm", ".json"}

// Read dispatches on the file name's extension.
func Read(name string, r io.Reader, opts Options) (*core.Table, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".csv", ".txt":
		return ReadCSV(r, ',')
	case ".tsv":
		return ReadCSV(r, '\t')
	case ".xlsx", ".xlsm":
		return ReadXLSX(r, opts.Sheet)
	case ".json":
		return ReadJSON(r)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFile, ext)
	}
}

// Sheets lists the sheets a file offers for Options.Sheet. Formats without
// sheets return nil.
func Sheets(name string, r io.Reader) ([]string, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		return SheetNames(r)
	case ".csv", ".txt", ".tsv", ".json":
		return nil, nil
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFile, ext)
	}
}

// fromRecords builds a table from a header row and string records.
// Rows wider than the header get extra "Unnamed: N" columns.
func fromRecords(header []string, records [][]string) (*core.Table, error) {
	width := len(header)
	for _, rec := range records {
		if len(rec) > width {
			width = len(rec)
		}
	}

	labels := make([]string, width)
	copy(labels, header)
	labels = headerLabels(labels)

	rows := make([][]core.Cell, len(records))
	for i, rec := range records {
		row := make([]core.Cell, len(rec))
		for j, v := range rec {
			row[j] = textCell(v)
		}
		rows[i] = row
	}
	return core.FromRows(labels, rows)
}

func textCell(v string) core.Cell {
	if v == "" {
		return core.Missing()
	}
	return core.Text(v)
}

// headerLabels names blank headers "Unnamed: N" and disambiguates repeats
// as "a", "a.1", "a.2".
func headerLabels(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	next := make(map[string]int, len(header))
	for i, h := range header {
		if strings.TrimSpace(h) == "" {
			h = "Unnamed: " + strconv.Itoa(i)
		}
		label := h
		for used[label] {
			next[h]++
			label = h + "." + strconv.Itoa(next[h])
		}
		used[label] = true
		out[i] = label
	}
	return out
}
