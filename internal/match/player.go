package match

import (
	"sync"
	"time"

	"github.com/deyvinz/connect44fx/internal/apperror"
	"github.com/deyvinz/connect44fx/internal/board"
	"github.com/deyvinz/connect44fx/internal/entity"
)

// Agent is the move-choosing capability of one side of a match. RequestMove
// must invoke respond exactly once, eventually; the AI variant may do so
// before RequestMove returns.
type Agent interface {
	Player() *entity.Player
	RequestMove(brd *board.Board, respond func(column int))
}

// AgentFactory produces the AI opponent for a round.
type AgentFactory func(round entity.Round) Agent

// Strategy picks a column for the AI side. Implementations must return one
// of the board's available columns.
type Strategy interface {
	ChooseColumn(brd *board.Board, self *entity.Player) int
}

// HumanAgent never computes a column itself: RequestMove parks the
// callback and SubmitColumn, driven by external input, resolves it.
type HumanAgent struct {
	mu        sync.Mutex
	player    *entity.Player
	respond   func(column int)
	requested bool
}

func NewHumanAgent(player *entity.Player) *HumanAgent {
	return &HumanAgent{player: player}
}

func (that *HumanAgent) Player() *entity.Player {
	return that.player
}

func (that *HumanAgent) RequestMove(_ *board.Board, respond func(column int)) {
	that.mu.Lock()
	that.respond = respond
	that.requested = true
	that.mu.Unlock()
}

// SubmitColumn is the external entry point for UI input. It must be called
// exactly once per move request; a second call for the same request is a
// contract violation and is rejected.
func (that *HumanAgent) SubmitColumn(column int) error {
	that.mu.Lock()
	respond := that.respond
	that.respond = nil
	requested := that.requested
	that.mu.Unlock()

	if respond == nil {
		if requested {
			return apperror.ErrMoveAlreadySubmitted
		}
		return apperror.ErrNoPendingMove
	}

	respond(column)

	return nil
}

// AIAgent adapts a Strategy to the Agent capability. With a zero delay the
// response is synchronous; otherwise it fires after the configured pause.
type AIAgent struct {
	player   *entity.Player
	strategy Strategy
	delay    time.Duration
}

func NewAIAgent(player *entity.Player, strategy Strategy, delay time.Duration) *AIAgent {
	return &AIAgent{player: player, strategy: strategy, delay: delay}
}

func (that *AIAgent) Player() *entity.Player {
	return that.player
}

func (that *AIAgent) RequestMove(brd *board.Board, respond func(column int)) {
	if that.delay <= 0 {
		respond(that.strategy.ChooseColumn(brd, that.player))
		return
	}

	time.AfterFunc(that.delay, func() {
		respond(that.strategy.ChooseColumn(brd, that.player))
	})
}
