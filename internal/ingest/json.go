package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/sheetclean/internal/core"
)

// ReadJSON reads an array of flat objects. Columns appear in the order keys
// are first seen; objects lacking a key get a missing cell. Numbers keep
// their literal text.
func ReadJSON(r io.Reader) (*core.Table, error) {
	dec := json.NewDecoder(NewTextReader(r))
	dec.UseNumber()

	tok, err := dec.Token()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: no records", ErrEmptyFile)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("invalid JSON: expected an array of objects")
	}

	var (
		names []string
		index = make(map[string]int)
		rows  [][]core.Cell
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, fmt.Errorf("invalid JSON: record %d is not an object", len(rows))
		}

		var row []core.Cell
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("invalid JSON: %w", err)
			}
			key := keyTok.(string)

			var v any
			if err := dec.Decode(&v); err != nil {
				return nil, fmt.Errorf("invalid JSON: record %d key %q: %w", len(rows), key, err)
			}

			j, ok := index[key]
			if !ok {
				j = len(names)
				index[key] = j
				names = append(names, key)
			}
			for len(row) <= j {
				row = append(row, core.Missing())
			}
			row[j] = jsonCell(v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		rows = append(rows, row)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no columns", ErrEmptyFile)
	}
	return core.FromRows(names, rows)
}

func jsonCell(v any) core.Cell {
	switch x := v.(type) {
	case nil:
		return core.Missing()
	case string:
		return textCell(x)
	case bool:
		return core.Bool(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return core.Text(x.String())
		}
		return core.Number(x.String(), f)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return core.Text(fmt.Sprint(x))
		}
		return core.Text(string(b))
	}
}
