package core

// StandardizeColumn replaces every cell whose canonical form is in the junk
// vocabulary with a missing cell. Other cells are returned unchanged.
func StandardizeColumn(cells []Cell, vocab Vocabulary) []Cell {
	vocab = vocab.compiled()
	out := make([]Cell, len(cells))
	for i, c := range cells {
		if c.IsMissing() || vocab.isJunk(c.Canonical()) {
			continue
		}
		out[i] = c
	}
	return out
}

// countPresent returns the number of non-missing cells.
func countPresent(cells []Cell) int {
	n := 0
	for _, c := range cells {
		if !c.IsMissing() {
			n++
		}
	}
	return n
}
