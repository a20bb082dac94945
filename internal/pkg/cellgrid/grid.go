package cellgrid

import "poligrama.dev/backend/internal/pkg/coord"

// Grid is a row-major snapshot; rows may be ragged, missing cells read as Empty.
type Grid [][]Cell

// FromStrings builds a Grid from rows of raw cell strings.
func FromStrings(rows [][]string) Grid {
	g := make(Grid, len(rows))
	for i, row := range rows {
		g[i] = make([]Cell, len(row))
		for j, raw := range row {
			g[i][j] = ParseCell(raw)
		}
	}
	return g
}

// At returns the cell at the 1-based row and column.
func (g Grid) At(row, col int) Cell {
	if row < 1 || row > len(g) {
		return Cell{}
	}
	r := g[row-1]
	if col < 1 || col > len(r) {
		return Cell{}
	}
	return r[col-1]
}

// Rows is the number of rows in the snapshot.
func (g Grid) Rows() int {
	return len(g)
}

// Width is the length of the longest row.
func (g Grid) Width() int {
	w := 0
	for _, r := range g {
		w = max(w, len(r))
	}
	return w
}

// Clip bounds r to the rows of g and its widest row. The result is empty
// (RowEnd < RowStart or ColEnd < ColStart) when r lies past the data.
func (g Grid) Clip(r coord.Range) coord.Range {
	r.RowEnd = min(r.RowEnd, g.Rows())
	r.ColEnd = min(r.ColEnd, g.Width())
	return r
}

// Slice copies the cells covered by r into a dense rectangle.
func (g Grid) Slice(r coord.Range) Grid {
	out := make(Grid, 0, r.Rows())
	for row := r.RowStart; row <= r.RowEnd; row++ {
		line := make([]Cell, 0, r.Cols())
		for col := r.ColStart; col <= r.ColEnd; col++ {
			line = append(line, g.At(row, col))
		}
		out = append(out, line)
	}
	return out
}
