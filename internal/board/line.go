package board

import (
	"sort"
	"strings"
)

// Line is a fixed, ordered run of cells on one row, column or diagonal,
// long enough to host a win. Cells are kept in canonical order: ascending
// column, then descending row, so pattern positions are stable and
// comparable across lines.
type Line struct {
	cells   []*Cell
	pattern string
}

func newLine(cells []*Cell) *Line {
	line := &Line{cells: cells}
	line.sortCells()
	line.Refresh()
	return line
}

func (that *Line) Cells() []*Cell {
	return that.cells
}

func (that *Line) Len() int {
	return len(that.cells)
}

func (that *Line) Pattern() string {
	return that.pattern
}

// Refresh recomputes the pattern string from current cell ownership. It
// must run whenever any of the line's cells changes owner, keeping
// len(pattern) == len(cells) at all times.
func (that *Line) Refresh() {
	var builder strings.Builder
	builder.Grow(len(that.cells))
	for _, cell := range that.cells {
		builder.WriteString(cell.Mark())
	}
	that.pattern = builder.String()
}

// FindPattern scans the line for non-overlapping occurrences of pattern:
// after a match the search resumes past its end, not one position further.
// Each match yields a synthetic line restricted to exactly len(pattern)
// consecutive cells.
func (that *Line) FindPattern(pattern string) []*Line {
	if pattern == "" {
		return nil
	}

	var matches []*Line

	offset := 0
	for {
		idx := strings.Index(that.pattern[offset:], pattern)
		if idx < 0 {
			break
		}

		start := offset + idx
		cells := append([]*Cell(nil), that.cells[start:start+len(pattern)]...)
		matches = append(matches, newLine(cells))

		offset = start + len(pattern)
	}

	return matches
}

func (that *Line) sortCells() {
	sort.Slice(that.cells, func(i, j int) bool {
		a, b := that.cells[i], that.cells[j]
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Row > b.Row
	})
}
