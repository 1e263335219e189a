package board

import "github.com/deyvinz/connect44fx/internal/entity"

// Cell is a single board position. Coordinates are fixed at construction;
// the owner is set at most once per round.
type Cell struct {
	Column      int
	Row         int
	Owner       *entity.Player
	Winning     bool
	Highlighted bool
}

func (that *Cell) IsEmpty() bool {
	return that.Owner == nil
}

// Mark - the pattern character for this cell's current owner.
func (that *Cell) Mark() string {
	if that.Owner == nil {
		return entity.EmptyMark
	}
	return that.Owner.Mark()
}
