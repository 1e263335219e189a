package board

import (
	"fmt"
	"strings"

	"github.com/deyvinz/connect44fx/internal/apperror"
	"github.com/deyvinz/connect44fx/internal/entity"
)

// Board owns every cell and every line of one round. Row 0 is the top of
// the board; gravity fills columns from the highest row index upward. The
// line set is fixed at construction and never changes afterwards.
type Board struct {
	rows         int
	columns      int
	minWinLength int

	cells       []*Cell
	lines       []*Line
	linesByCell map[*Cell][]*Line
}

func New(rows, columns, minWinLength int) *Board {
	that := &Board{
		rows:         rows,
		columns:      columns,
		minWinLength: minWinLength,
		linesByCell:  make(map[*Cell][]*Line),
	}

	that.buildCells()
	that.buildLines()

	return that
}

func (that *Board) Rows() int {
	return that.rows
}

func (that *Board) Columns() int {
	return that.columns
}

func (that *Board) MinWinLength() int {
	return that.minWinLength
}

func (that *Board) Lines() []*Line {
	return that.lines
}

// Cell returns the cell at (column, row), or nil outside the board.
func (that *Board) Cell(column, row int) *Cell {
	if column < 0 || column >= that.columns || row < 0 || row >= that.rows {
		return nil
	}
	return that.cells[row*that.columns+column]
}

// AvailableColumns lists every column whose topmost cell is still empty.
// It is recomputed on every call; availability changes after each move.
func (that *Board) AvailableColumns() []int {
	available := make([]int, 0, that.columns)
	for column := 0; column < that.columns; column++ {
		if that.Cell(column, 0).IsEmpty() {
			available = append(available, column)
		}
	}
	return available
}

// PlaceCoin drops a coin for player into column. The coin settles in the
// lowest empty cell of the column; every line through that cell gets its
// pattern recomputed. An unavailable column is a normal failure and leaves
// the board untouched.
func (that *Board) PlaceCoin(column int, player *entity.Player) (*Cell, error) {
	if !that.isAvailable(column) {
		return nil, fmt.Errorf("%w: column %d", apperror.ErrColumnUnavailable, column)
	}

	cell := that.lowestEmptyCell(column)
	if cell == nil || !cell.IsEmpty() {
		// availability said otherwise; the board state is corrupt
		panic(fmt.Sprintf("board: no empty cell in available column %d", column))
	}

	cell.Owner = player
	for _, line := range that.linesByCell[cell] {
		line.Refresh()
	}

	return cell, nil
}

// DropTarget returns the cell a coin dropped into column would settle in,
// or nil when the column is full.
func (that *Board) DropTarget(column int) *Cell {
	if column < 0 || column >= that.columns {
		return nil
	}
	return that.lowestEmptyCell(column)
}

// LinesThrough lists every line containing the given cell.
func (that *Board) LinesThrough(cell *Cell) []*Line {
	return that.linesByCell[cell]
}

// FindPattern collects every non-overlapping occurrence of pattern across
// all lines as synthetic lines of exactly len(pattern) cells.
func (that *Board) FindPattern(pattern string) []*Line {
	var matches []*Line
	for _, line := range that.lines {
		matches = append(matches, line.FindPattern(pattern)...)
	}
	return matches
}

// WinningLine looks for minWinLength consecutive coins of player and
// returns the first run found, or nil.
func (that *Board) WinningLine(player *entity.Player) *Line {
	pattern := strings.Repeat(player.Mark(), that.minWinLength)

	matches := that.FindPattern(pattern)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// Grid renders the board as one pattern string per row, top to bottom.
func (that *Board) Grid() []string {
	grid := make([]string, 0, that.rows)
	for row := 0; row < that.rows; row++ {
		var builder strings.Builder
		builder.Grow(that.columns)
		for column := 0; column < that.columns; column++ {
			builder.WriteString(that.Cell(column, row).Mark())
		}
		grid = append(grid, builder.String())
	}
	return grid
}

func (that *Board) buildCells() {
	that.cells = make([]*Cell, that.rows*that.columns)
	for row := 0; row < that.rows; row++ {
		for column := 0; column < that.columns; column++ {
			that.cells[row*that.columns+column] = &Cell{Column: column, Row: row}
		}
	}
}

// buildLines creates one line per row and per column, then walks both
// diagonal families over every offset in [-(rows-1), columns-1]. Cells
// outside the board are dropped from a candidate before its length is
// checked; candidates shorter than minWinLength are discarded.
func (that *Board) buildLines() {
	for row := 0; row < that.rows; row++ {
		cells := make([]*Cell, 0, that.columns)
		for column := 0; column < that.columns; column++ {
			cells = append(cells, that.Cell(column, row))
		}
		that.addLine(cells)
	}

	for column := 0; column < that.columns; column++ {
		cells := make([]*Cell, 0, that.rows)
		for row := 0; row < that.rows; row++ {
			cells = append(cells, that.Cell(column, row))
		}
		that.addLine(cells)
	}

	for offset := -(that.rows - 1); offset <= that.columns-1; offset++ {
		var descending, ascending []*Cell
		for row := 0; row < that.rows; row++ {
			if cell := that.Cell(offset+row, row); cell != nil {
				descending = append(descending, cell)
			}
			if cell := that.Cell(offset+row, that.rows-1-row); cell != nil {
				ascending = append(ascending, cell)
			}
		}
		that.addLine(descending)
		that.addLine(ascending)
	}
}

func (that *Board) addLine(cells []*Cell) {
	if len(cells) < that.minWinLength {
		return
	}

	line := newLine(cells)
	that.lines = append(that.lines, line)
	for _, cell := range line.cells {
		that.linesByCell[cell] = append(that.linesByCell[cell], line)
	}
}

func (that *Board) isAvailable(column int) bool {
	cell := that.Cell(column, 0)
	return cell != nil && cell.IsEmpty()
}

func (that *Board) lowestEmptyCell(column int) *Cell {
	for row := that.rows - 1; row >= 0; row-- {
		if cell := that.Cell(column, row); cell.IsEmpty() {
			return cell
		}
	}
	return nil
}
