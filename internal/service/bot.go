package service

import (
	"math/rand"
	"strings"
	"time"

	"github.com/deyvinz/connect44fx/internal/board"
	"github.com/deyvinz/connect44fx/internal/entity"
	"github.com/deyvinz/connect44fx/internal/match"
)

// BotStrategy is a simple but competitive opponent: it takes an immediate
// win, blocks the opponent's immediate win, then favors center columns.
type BotStrategy struct {
	rng *rand.Rand
}

func NewBotStrategy(rng *rand.Rand) *BotStrategy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game randomness
	}
	return &BotStrategy{rng: rng}
}

func (that *BotStrategy) ChooseColumn(brd *board.Board, self *entity.Player) int {
	available := brd.AvailableColumns()
	if len(available) == 0 {
		return -1
	}

	if column, ok := that.findImmediateWin(brd, available, self.Mark()); ok {
		return column
	}

	opponentMark := entity.MarkHuman
	if self.IsHuman() {
		opponentMark = entity.MarkAI
	}
	if column, ok := that.findImmediateWin(brd, available, opponentMark); ok {
		return column
	}

	return that.pickCentermost(brd, available)
}

// findImmediateWin looks for a column where a coin of mark would complete
// a run of minWinLength right away.
func (that *BotStrategy) findImmediateWin(brd *board.Board, available []int, mark string) (int, bool) {
	run := strings.Repeat(mark, brd.MinWinLength())

	for _, column := range available {
		cell := brd.DropTarget(column)
		if cell == nil {
			continue
		}

		for _, line := range brd.LinesThrough(cell) {
			if strings.Contains(hypotheticalPattern(line, cell, mark), run) {
				return column, true
			}
		}
	}

	return 0, false
}

// hypotheticalPattern is the line's pattern with mark written at the
// position of cell, without touching the board.
func hypotheticalPattern(line *board.Line, cell *board.Cell, mark string) string {
	pattern := line.Pattern()
	for i, candidate := range line.Cells() {
		if candidate == cell {
			return pattern[:i] + mark + pattern[i+1:]
		}
	}
	return pattern
}

// pickCentermost chooses among the available columns closest to the board
// center, breaking ties at random.
func (that *BotStrategy) pickCentermost(brd *board.Board, available []int) int {
	center := float64(brd.Columns()-1) / 2

	best := make([]int, 0, len(available))
	bestDistance := float64(brd.Columns())
	for _, column := range available {
		distance := center - float64(column)
		if distance < 0 {
			distance = -distance
		}
		switch {
		case distance < bestDistance:
			bestDistance = distance
			best = best[:0]
			best = append(best, column)
		case distance == bestDistance:
			best = append(best, column)
		}
	}

	return best[that.rng.Intn(len(best))]
}

// NewAgentFactory builds the per-round AI opponent a match asks for.
func NewAgentFactory(rng *rand.Rand, delay time.Duration) match.AgentFactory {
	return func(round entity.Round) match.Agent {
		player := entity.NewAIPlayer(round.AIName, round.ImageRef)
		return match.NewAIAgent(player, NewBotStrategy(rng), delay)
	}
}
