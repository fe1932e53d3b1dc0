// Package export renders cleaning results as downloadable files.
package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/JonMunkholm/sheetclean/internal/core"
)

// Artifact names served for download and written by the CLI.
const (
	ArtifactLoadReady  = "load-ready.jsonl"
	ArtifactComparison = "comparison.csv"
	ArtifactQuarantine = "quarantine.csv"
	ArtifactTypes      = "types.json"
)

// Artifacts lists every artifact in the order they are offered.
var Artifacts = []string{ArtifactLoadReady, ArtifactComparison, ArtifactQuarantine, ArtifactTypes}

// ContentType returns the media type for an artifact name.
func ContentType(artifact string) string {
	switch artifact {
	case ArtifactLoadReady:
		return "application/x-ndjson"
	case ArtifactComparison, ArtifactQuarantine:
		return "text/csv; charset=utf-8"
	case ArtifactTypes:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// Write renders one artifact of res to w.
func Write(w io.Writer, artifact string, res *core.Result) error {
	switch artifact {
	case ArtifactLoadReady:
		return WriteJSONL(w, res.LoadReady, res.Types)
	case ArtifactComparison:
		return WriteCSV(w, res.Comparison)
	case ArtifactQuarantine:
		return WriteCSV(w, res.Quarantine)
	case ArtifactTypes:
		return WriteTypeReport(w, res.Types)
	default:
		return fmt.Errorf("%w: %q", core.ErrUnknownArtifact, artifact)
	}
}

// WriteCSV writes t with a header row. Missing cells are empty fields.
func WriteCSV(w io.Writer, t *core.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, t.NumCols())
	for i := 0; i < t.NumRows(); i++ {
		for j, col := range t.Columns {
			record[j] = col.Cells[i].String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSONL writes one JSON object per row with keys in column order.
// types, when given, decides how numbers are rendered; missing cells and
// non-finite numbers are null and times are RFC 3339.
func WriteJSONL(w io.Writer, t *core.Table, types core.TypeReport) error {
	bw := bufio.NewWriter(w)

	keys := make([][]byte, t.NumCols())
	for j, col := range t.Columns {
		k, err := json.Marshal(col.Name)
		if err != nil {
			return err
		}
		keys[j] = k
	}

	var line []byte
	for i := 0; i < t.NumRows(); i++ {
		line = append(line[:0], '{')
		for j, col := range t.Columns {
			if j > 0 {
				line = append(line, ',')
			}
			line = append(line, keys[j]...)
			line = append(line, ':')

			var tag core.TypeTag
			if j < len(types) {
				tag = types[j].Type
			}
			v, err := appendJSONValue(line, col.Cells[i], tag)
			if err != nil {
				return fmt.Errorf("row %d column %q: %w", i, col.Name, err)
			}
			line = v
		}
		line = append(line, '}', '\n')
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func appendJSONValue(dst []byte, c core.Cell, tag core.TypeTag) ([]byte, error) {
	switch c.Kind {
	case core.KindMissing:
		return append(dst, "null"...), nil
	case core.KindBool:
		return strconv.AppendBool(dst, c.Bool), nil
	case core.KindNumber:
		return appendNumber(dst, c, tag), nil
	case core.KindTime:
		return strconv.AppendQuote(dst, c.Time.Format(time.RFC3339Nano)), nil
	default:
		b, err := json.Marshal(c.Text)
		if err != nil {
			return nil, err
		}
		return append(dst, b...), nil
	}
}

func appendNumber(dst []byte, c core.Cell, tag core.TypeTag) []byte {
	v := c.Num
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return append(dst, "null"...)
	}
	if tag == core.TypeInteger {
		if n, ok := c.Int64(); ok {
			return strconv.AppendInt(dst, n, 10)
		}
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, v, 'g', -1, 64)
	if tag == core.TypeFloat && !bytes.ContainsAny(dst[start:], ".e") {
		dst = append(dst, ".0"...)
	}
	return dst
}

// WriteTypeReport writes the type report as an indented JSON object.
func WriteTypeReport(w io.Writer, types core.TypeReport) error {
	b, err := json.MarshalIndent(types, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal type report: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
