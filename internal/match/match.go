package match

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/deyvinz/connect44fx/internal/apperror"
	"github.com/deyvinz/connect44fx/internal/board"
	"github.com/deyvinz/connect44fx/internal/entity"
)

// Hooks are the injectable notification sinks of a match. They are invoked
// after the match lock is released, so a hook may call back into the match.
type Hooks struct {
	OnSpeak         func(player *entity.Player, message string)
	OnMessage       func(message string)
	OnStateChanged  func(snapshot entity.Snapshot)
	OnRoundFinished func(summary entity.RoundSummary)
}

type Params struct {
	Logger   *slog.Logger
	Human    *HumanAgent
	Rounds   []entity.Round
	NewAgent AgentFactory
	Rand     *rand.Rand
	Hooks    Hooks
}

// moveRequest is the single outstanding ask for a column. The sequence
// number lets the match reject late or duplicate responses.
type moveRequest struct {
	agent Agent
	brd   *board.Board
	seq   int
}

// Match owns the active round, its board and both players, and runs the
// turn state machine. All mutation is serialized behind one mutex; the only
// suspension point is a pending move request.
type Match struct {
	id       string
	logger   *slog.Logger
	rng      *rand.Rand
	hooks    Hooks
	rounds   []entity.Round
	newAgent AgentFactory

	mu            sync.Mutex
	human         *HumanAgent
	ai            Agent
	current       Agent
	brd           *board.Board
	round         *entity.Round
	turn          int
	winner        *entity.Player
	draw          bool
	finished      bool
	needsNewRound bool
	pending       bool
	pendingSeq    int
	roundStarted  time.Time
	events        []func()
}

func New(params Params) *Match {
	rng := params.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game randomness
	}

	return &Match{
		id:       uuid.NewString(),
		logger:   params.Logger.With("component", "match"),
		rng:      rng,
		hooks:    params.Hooks,
		rounds:   params.Rounds,
		newAgent: params.NewAgent,
		human:    params.Human,
	}
}

func (that *Match) ID() string {
	return that.id
}

func (that *Match) HumanPlayer() *entity.Player {
	return that.human.Player()
}

func (that *Match) AIPlayer() *entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.ai == nil {
		return nil
	}
	return that.ai.Player()
}

func (that *Match) CurrentPlayer() *entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.current == nil {
		return nil
	}
	return that.current.Player()
}

func (that *Match) WinningPlayer() *entity.Player {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.winner
}

func (that *Match) Draw() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.draw
}

func (that *Match) Finished() bool {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.finished
}

func (that *Match) Turn() int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turn
}

func (that *Match) Board() *board.Board {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.brd
}

func (that *Match) CurrentRound() *entity.Round {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.round
}

// SubmitColumn forwards external input to the human agent.
func (that *Match) SubmitColumn(column int) error {
	return that.human.SubmitColumn(column)
}

func (that *Match) Snapshot() entity.Snapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.snapshotLocked()
}

// PrepareNextRound selects round 0, or the round after the current one,
// builds a fresh board, asks the factory for a new AI opponent and picks
// the starting player at random. Exhausting the round list finishes the
// match; the error is surfaced, not recovered.
func (that *Match) PrepareNextRound() error {
	that.mu.Lock()
	err := that.prepareNextRoundLocked()
	events := that.drainEventsLocked()
	that.mu.Unlock()

	that.fire(events)

	return err
}

// StartRound triggers the first move request of the round. It does nothing
// if a move has already been requested this round.
func (that *Match) StartRound() error {
	that.mu.Lock()

	if that.round == nil {
		that.mu.Unlock()
		return apperror.ErrNoActiveRound
	}

	var request *moveRequest
	if that.turn == 0 && !that.pending {
		request = that.advanceTurnLocked()
	}

	events := that.drainEventsLocked()
	that.mu.Unlock()

	that.fire(events)
	that.issue(request)

	return nil
}

func (that *Match) prepareNextRoundLocked() error {
	if that.finished {
		return apperror.ErrMatchFinished
	}

	next := 0
	if that.round != nil {
		next = that.round.Index + 1
	}

	if next >= len(that.rounds) {
		that.finished = true
		that.queueStateChangedLocked()
		return fmt.Errorf("%w: round %d requested, %d configured", apperror.ErrNoMoreRounds, next, len(that.rounds))
	}

	round := that.rounds[next]
	that.round = &round
	that.brd = board.New(round.Rows, round.Columns, round.MinWinLength)
	that.ai = that.newAgent(round)
	that.turn = 0
	that.winner = nil
	that.draw = false
	that.needsNewRound = false
	that.pending = false
	that.roundStarted = time.Now()

	if that.rng.Intn(2) == 0 {
		that.current = that.human
	} else {
		that.current = that.ai
	}

	that.logger.Info("round prepared",
		"round", round.Index,
		"ai", round.AIName,
		"starting", that.current.Player().Type,
	)

	that.queueMessageLocked(fmt.Sprintf("Round %d against %s begins.", round.Index+1, round.AIName))
	that.queueSpeakLocked(that.ai.Player(), "Let's see what you've got.")
	that.queueStateChangedLocked()

	return nil
}

// advanceTurnLocked runs one step of the turn loop: reinitialize the round
// if its terminal state was reached, count the turn, then either request a
// move from the current player or declare a draw when no column is left.
func (that *Match) advanceTurnLocked() *moveRequest {
	if that.needsNewRound {
		if err := that.prepareNextRoundLocked(); err != nil {
			that.logger.Error("could not prepare next round", "error", err)
			return nil
		}
	}

	that.turn++

	if len(that.brd.AvailableColumns()) == 0 {
		that.draw = true
		that.needsNewRound = true
		that.logger.Info("round drawn", "round", that.round.Index, "turns", that.turn)
		that.queueMessageLocked("The board is full. This round is a draw.")
		that.queueRoundFinishedLocked()
		that.queueStateChangedLocked()
		return nil
	}

	return that.newRequestLocked(that.current)
}

// resolve consumes a player's response to a move request. Late and
// duplicate responses are contract violations and are rejected here.
func (that *Match) resolve(seq int, agent Agent, column int) {
	that.mu.Lock()

	if !that.pending || seq != that.pendingSeq || agent != that.current {
		that.mu.Unlock()
		that.logger.Warn("rejected unexpected move response",
			"player", agent.Player().Type,
			"column", column,
		)
		return
	}
	that.pending = false

	var request *moveRequest

	cell, err := that.brd.PlaceCoin(column, agent.Player())
	if err != nil {
		// no state change, no turn advance; ask the same player again
		that.logger.Info("move rejected", "player", agent.Player().Type, "column", column, "error", err)
		that.queueMessageLocked(fmt.Sprintf("Column %d is full. Pick another one.", column))
		request = that.newRequestLocked(agent)
	} else {
		that.logger.Debug("coin placed",
			"player", agent.Player().Type,
			"column", cell.Column,
			"row", cell.Row,
			"turn", that.turn,
		)

		if line := that.brd.WinningLine(agent.Player()); line != nil {
			that.finishRoundWonLocked(agent, line)
		} else {
			that.swapCurrentLocked()
			request = that.advanceTurnLocked()
		}
		that.queueStateChangedLocked()
	}

	events := that.drainEventsLocked()
	that.mu.Unlock()

	that.fire(events)
	that.issue(request)
}

func (that *Match) finishRoundWonLocked(agent Agent, line *board.Line) {
	for _, cell := range line.Cells() {
		cell.Winning = true
	}

	that.winner = line.Cells()[0].Owner
	that.needsNewRound = true

	that.logger.Info("round won",
		"round", that.round.Index,
		"winner", that.winner.Type,
		"turns", that.turn,
	)

	that.queueSpeakLocked(agent.Player(), "Four in a row. Good game.")
	that.queueMessageLocked(fmt.Sprintf("%s wins round %d.", agent.Player().Name, that.round.Index+1))
	that.queueRoundFinishedLocked()
}

func (that *Match) swapCurrentLocked() {
	if that.current == that.human {
		that.current = that.ai
	} else {
		that.current = that.human
	}
}

func (that *Match) newRequestLocked(agent Agent) *moveRequest {
	that.pendingSeq++
	that.pending = true

	return &moveRequest{agent: agent, brd: that.brd, seq: that.pendingSeq}
}

// issue asks the agent for a move with the lock released, so a synchronous
// AI response can re-enter the match.
func (that *Match) issue(request *moveRequest) {
	if request == nil {
		return
	}

	request.agent.RequestMove(request.brd, func(column int) {
		that.resolve(request.seq, request.agent, column)
	})
}

func (that *Match) snapshotLocked() entity.Snapshot {
	snapshot := entity.Snapshot{
		MatchID:  that.id,
		Turn:     that.turn,
		Winner:   that.winner,
		Draw:     that.draw,
		Finished: that.finished,
	}

	if that.round != nil {
		round := *that.round
		snapshot.Round = &round
	}
	if that.brd != nil {
		snapshot.Grid = that.brd.Grid()
	}
	if that.current != nil {
		snapshot.Current = that.current.Player().Type
	}

	return snapshot
}

func (that *Match) summaryLocked() entity.RoundSummary {
	summary := entity.RoundSummary{
		MatchID:    that.id,
		RoundIndex: that.round.Index,
		AIName:     that.round.AIName,
		Draw:       that.draw,
		Turns:      that.turn,
		StartedAt:  that.roundStarted,
		EndedAt:    time.Now(),
	}

	if that.winner != nil {
		summary.Winner = that.winner.Type
	}

	return summary
}

func (that *Match) queueSpeakLocked(player *entity.Player, message string) {
	if that.hooks.OnSpeak == nil {
		return
	}
	hook := that.hooks.OnSpeak
	that.events = append(that.events, func() { hook(player, message) })
}

func (that *Match) queueMessageLocked(message string) {
	if that.hooks.OnMessage == nil {
		return
	}
	hook := that.hooks.OnMessage
	that.events = append(that.events, func() { hook(message) })
}

func (that *Match) queueStateChangedLocked() {
	if that.hooks.OnStateChanged == nil {
		return
	}
	hook := that.hooks.OnStateChanged
	snapshot := that.snapshotLocked()
	that.events = append(that.events, func() { hook(snapshot) })
}

func (that *Match) queueRoundFinishedLocked() {
	if that.hooks.OnRoundFinished == nil {
		return
	}
	hook := that.hooks.OnRoundFinished
	summary := that.summaryLocked()
	that.events = append(that.events, func() { hook(summary) })
}

func (that *Match) drainEventsLocked() []func() {
	events := that.events
	that.events = nil
	return events
}

func (that *Match) fire(events []func()) {
	for _, event := range events {
		event()
	}
}
