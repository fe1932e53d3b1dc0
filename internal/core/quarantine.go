package core

import (
	"sort"
	"strconv"
	"strings"
)

// Quarantine table column names.
const (
	QuarantineIndexColumn  = "original_index"
	QuarantineReasonColumn = "quarantine_reason"
)

// collectFailures returns one record per row whose standardized value is
// present but whose coerced value is missing, ascending by row ID.
func collectFailures(name string, tag TypeTag, rowIDs []int, original, std, coerced []Cell) []QuarantineRecord {
	var recs []QuarantineRecord
	for i := range std {
		if std[i].IsMissing() || !coerced[i].IsMissing() {
			continue
		}
		recs = append(recs, QuarantineRecord{
			RowID:    rowIDs[i],
			Column:   name,
			Original: original[i],
			Type:     tag,
			Reason:   FailureReason(tag),
		})
	}
	sort.SliceStable(recs, func(a, b int) bool { return recs[a].RowID < recs[b].RowID })
	return recs
}

// buildQuarantineTable joins failure records back onto the raw rows. Each
// quarantined row appears once, ascending by row ID, with the reasons for
// that row in the order the records were collected.
func buildQuarantineTable(raw *Table, records []QuarantineRecord) *Table {
	reasons := make(map[int][]string)
	for _, r := range records {
		reasons[r.RowID] = append(reasons[r.RowID], r.Describe())
	}

	positions := make([]int, 0, len(reasons))
	for i, id := range raw.RowIDs {
		if _, ok := reasons[id]; ok {
			positions = append(positions, i)
		}
	}
	sort.SliceStable(positions, func(a, b int) bool {
		return raw.RowIDs[positions[a]] < raw.RowIDs[positions[b]]
	})

	n := len(positions)
	q := &Table{
		Columns: make([]Column, 0, raw.NumCols()+2),
		RowIDs:  make([]int, n),
	}
	idx := Column{Name: QuarantineIndexColumn, Cells: make([]Cell, n)}
	why := Column{Name: QuarantineReasonColumn, Cells: make([]Cell, n)}
	for k, i := range positions {
		id := raw.RowIDs[i]
		q.RowIDs[k] = id
		idx.Cells[k] = Number(strconv.Itoa(id), float64(id))
		why.Cells[k] = Text(strings.Join(reasons[id], "; "))
	}
	q.Columns = append(q.Columns, idx, why)

	for _, c := range raw.Columns {
		cells := make([]Cell, n)
		for k, i := range positions {
			cells[k] = c.Cells[i]
		}
		q.Columns = append(q.Columns, Column{Name: c.Name, Cells: cells})
	}
	return q
}
