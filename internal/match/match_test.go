package match

import (
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deyvinz/connect44fx/internal/apperror"
	"github.com/deyvinz/connect44fx/internal/board"
	"github.com/deyvinz/connect44fx/internal/entity"
)

// scriptedStrategy plays a fixed column sequence, then the first available
// column.
type scriptedStrategy struct {
	columns []int
	next    int
}

func (that *scriptedStrategy) ChooseColumn(brd *board.Board, _ *entity.Player) int {
	if that.next >= len(that.columns) {
		return brd.AvailableColumns()[0]
	}

	column := that.columns[that.next]
	that.next++
	return column
}

// seedFor finds a seed whose first coin toss picks the wanted starter.
func seedFor(t *testing.T, humanStarts bool) int64 {
	t.Helper()

	for seed := int64(0); seed < 1000; seed++ {
		if (rand.New(rand.NewSource(seed)).Intn(2) == 0) == humanStarts { //nolint: gosec // test determinism
			return seed
		}
	}

	t.Fatal("no suitable seed found")
	return 0
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func standardRounds() []entity.Round {
	return []entity.Round{
		{Index: 0, AIName: "Rusty", Rows: 6, Columns: 7, MinWinLength: 4},
		{Index: 1, AIName: "Vector", Rows: 7, Columns: 8, MinWinLength: 4},
	}
}

func newTestMatch(t *testing.T, humanStarts bool, rounds []entity.Round, aiColumns ...int) *Match {
	t.Helper()

	factory := func(round entity.Round) Agent {
		player := entity.NewAIPlayer(round.AIName, round.ImageRef)
		return NewAIAgent(player, &scriptedStrategy{columns: aiColumns}, 0)
	}

	return New(Params{
		Logger:   testLogger(),
		Human:    NewHumanAgent(entity.NewHumanPlayer("Player", "")),
		Rounds:   rounds,
		NewAgent: factory,
		Rand:     rand.New(rand.NewSource(seedFor(t, humanStarts))), //nolint: gosec // test determinism
	})
}

func TestMatch_PrepareNextRound(t *testing.T) {
	t.Run("First round setup", func(t *testing.T) {
		// Given: a fresh match
		m := newTestMatch(t, true, standardRounds())

		// When: the first round is prepared
		err := m.PrepareNextRound()
		require.NoError(t, err)

		// Then: round 0 is active with a fresh board and AI opponent
		require.Equal(t, 0, m.CurrentRound().Index)
		require.NotNil(t, m.Board())
		require.Equal(t, 6, m.Board().Rows())
		require.Equal(t, "Rusty", m.AIPlayer().Name)
		require.Equal(t, 0, m.Turn())
		require.Nil(t, m.WinningPlayer())
		require.False(t, m.Draw())
		require.False(t, m.Finished())
	})

	t.Run("Starting player is deterministic under a seeded rand", func(t *testing.T) {
		// Given: two matches built from the same seed
		first := newTestMatch(t, true, standardRounds())
		second := newTestMatch(t, true, standardRounds())

		require.NoError(t, first.PrepareNextRound())
		require.NoError(t, second.PrepareNextRound())

		// Then: both pick the same starter, the human
		require.Equal(t, entity.TypeHuman, first.CurrentPlayer().Type)
		require.Equal(t, first.CurrentPlayer().Type, second.CurrentPlayer().Type)
	})

	t.Run("Round list exhaustion is surfaced", func(t *testing.T) {
		// Given: both rounds already selected
		m := newTestMatch(t, true, standardRounds())
		require.NoError(t, m.PrepareNextRound())
		require.NoError(t, m.PrepareNextRound())
		require.Equal(t, 1, m.CurrentRound().Index)

		// When: a third round is requested
		err := m.PrepareNextRound()

		// Then: the exhaustion is surfaced and the match is finished
		require.ErrorIs(t, err, apperror.ErrNoMoreRounds)
		require.True(t, m.Finished())

		// Then: further prepares fail fast
		require.ErrorIs(t, m.PrepareNextRound(), apperror.ErrMatchFinished)
	})

	t.Run("Board is rebuilt from scratch each round", func(t *testing.T) {
		m := newTestMatch(t, true, standardRounds())
		require.NoError(t, m.PrepareNextRound())
		firstBoard := m.Board()

		require.NoError(t, m.PrepareNextRound())

		require.NotSame(t, firstBoard, m.Board())
		require.Equal(t, 8, m.Board().Columns())
	})
}

func TestMatch_StartRound(t *testing.T) {
	t.Run("Without an active round", func(t *testing.T) {
		m := newTestMatch(t, true, standardRounds())

		require.ErrorIs(t, m.StartRound(), apperror.ErrNoActiveRound)
	})

	t.Run("Requests the first move once", func(t *testing.T) {
		// Given: a prepared round with the human starting
		m := newTestMatch(t, true, standardRounds())
		require.NoError(t, m.PrepareNextRound())

		// When: the round starts, twice
		require.NoError(t, m.StartRound())
		require.NoError(t, m.StartRound())

		// Then: only one move request went out
		require.Equal(t, 1, m.Turn())
	})

	t.Run("A starting AI moves immediately", func(t *testing.T) {
		// Given: a prepared round with the AI starting
		m := newTestMatch(t, false, standardRounds(), 3)
		require.NoError(t, m.PrepareNextRound())

		// When: the round starts
		require.NoError(t, m.StartRound())

		// Then: the AI has already played column 3 and the human is up
		require.Equal(t, 2, m.Turn())
		require.Equal(t, entity.TypeAI, m.Board().Cell(3, 5).Owner.Type)
		require.Equal(t, entity.TypeHuman, m.CurrentPlayer().Type)
	})
}

func TestMatch_TurnProgression(t *testing.T) {
	// Given: a running round, human first, AI scripted to columns 1 and 2
	m := newTestMatch(t, true, standardRounds(), 1, 2)
	require.NoError(t, m.PrepareNextRound())
	require.NoError(t, m.StartRound())
	require.Equal(t, 1, m.Turn())

	// When: the human plays, the AI answers synchronously
	require.NoError(t, m.SubmitColumn(0))

	// Then: two moves resolved, the third request is pending
	require.Equal(t, 3, m.Turn())
	require.Equal(t, entity.TypeHuman, m.CurrentPlayer().Type)

	require.NoError(t, m.SubmitColumn(0))
	require.Equal(t, 5, m.Turn())
}

func TestMatch_HumanVerticalWin(t *testing.T) {
	// Given: the human stacks column 0 while the AI wanders off
	m := newTestMatch(t, true, standardRounds(), 1, 2, 3)
	require.NoError(t, m.PrepareNextRound())
	require.NoError(t, m.StartRound())

	for i := 0; i < 3; i++ {
		require.NoError(t, m.SubmitColumn(0))
		require.Nil(t, m.WinningPlayer())
	}

	// When: the fourth coin lands
	require.NoError(t, m.SubmitColumn(0))

	// Then: the human wins and exactly four cells are marked winning
	require.NotNil(t, m.WinningPlayer())
	require.Equal(t, entity.TypeHuman, m.WinningPlayer().Type)
	require.False(t, m.Draw())

	winning := 0
	brd := m.Board()
	for column := 0; column < brd.Columns(); column++ {
		for row := 0; row < brd.Rows(); row++ {
			if brd.Cell(column, row).Winning {
				winning++
				require.Equal(t, 0, brd.Cell(column, row).Column)
			}
		}
	}
	require.Equal(t, 4, winning)

	// Then: the human made moves on turns 1, 3, 5 and 7
	require.Equal(t, 7, m.Turn())

	// Then: the round is over, no further input is accepted
	require.Error(t, m.SubmitColumn(0))
}

func TestMatch_DrawRound(t *testing.T) {
	// Given: a two-cell board nobody can win
	rounds := []entity.Round{{Index: 0, AIName: "Rusty", Rows: 1, Columns: 2, MinWinLength: 2}}
	m := newTestMatch(t, true, rounds, 1)
	require.NoError(t, m.PrepareNextRound())
	require.NoError(t, m.StartRound())

	// When: both cells fill without a win
	require.NoError(t, m.SubmitColumn(0))

	// Then: the round is a draw with no winner
	require.True(t, m.Draw())
	require.Nil(t, m.WinningPlayer())
	require.Equal(t, 3, m.Turn())
}

func TestMatch_InvalidColumnIsReRequested(t *testing.T) {
	// Given: a running round, human to move
	m := newTestMatch(t, true, standardRounds(), 1)
	require.NoError(t, m.PrepareNextRound())
	require.NoError(t, m.StartRound())

	// When: the human picks a column that does not exist
	require.NoError(t, m.SubmitColumn(42))

	// Then: nothing moved and the same player is asked again
	require.Equal(t, 1, m.Turn())
	require.Equal(t, entity.TypeHuman, m.CurrentPlayer().Type)

	// When: the human answers the re-request with a valid column
	require.NoError(t, m.SubmitColumn(0))

	// Then: the move resolves and the turn loop continues
	require.Equal(t, 3, m.Turn())
}

// rogueAgent violates the move contract by responding twice per request.
type rogueAgent struct {
	player *entity.Player
}

func (that *rogueAgent) Player() *entity.Player {
	return that.player
}

func (that *rogueAgent) RequestMove(_ *board.Board, respond func(column int)) {
	respond(0)
	respond(1)
}

func TestMatch_DuplicateResponseIsRejected(t *testing.T) {
	// Given: an AI that answers every request twice, moving first
	factory := func(round entity.Round) Agent {
		return &rogueAgent{player: entity.NewAIPlayer(round.AIName, "")}
	}
	m := New(Params{
		Logger:   testLogger(),
		Human:    NewHumanAgent(entity.NewHumanPlayer("Player", "")),
		Rounds:   standardRounds(),
		NewAgent: factory,
		Rand:     rand.New(rand.NewSource(seedFor(t, false))), //nolint: gosec // test determinism
	})
	require.NoError(t, m.PrepareNextRound())

	// When: the round starts and the rogue AI double-responds
	require.NoError(t, m.StartRound())

	// Then: only the first response was applied
	brd := m.Board()
	require.Equal(t, entity.TypeAI, brd.Cell(0, 5).Owner.Type)
	require.True(t, brd.Cell(1, 5).IsEmpty())
	require.Equal(t, 2, m.Turn())
	require.Equal(t, entity.TypeHuman, m.CurrentPlayer().Type)
}

func TestMatch_Hooks(t *testing.T) {
	// Given: hooks recording everything the match reports
	var (
		speaks    []string
		messages  []string
		snapshots []entity.Snapshot
		summaries []entity.RoundSummary
	)

	factory := func(round entity.Round) Agent {
		player := entity.NewAIPlayer(round.AIName, "")
		return NewAIAgent(player, &scriptedStrategy{columns: []int{1, 2, 3}}, 0)
	}
	m := New(Params{
		Logger:   testLogger(),
		Human:    NewHumanAgent(entity.NewHumanPlayer("Player", "")),
		Rounds:   standardRounds(),
		NewAgent: factory,
		Rand:     rand.New(rand.NewSource(seedFor(t, true))), //nolint: gosec // test determinism
		Hooks: Hooks{
			OnSpeak:         func(_ *entity.Player, message string) { speaks = append(speaks, message) },
			OnMessage:       func(message string) { messages = append(messages, message) },
			OnStateChanged:  func(snapshot entity.Snapshot) { snapshots = append(snapshots, snapshot) },
			OnRoundFinished: func(summary entity.RoundSummary) { summaries = append(summaries, summary) },
		},
	})

	// When: the human wins round 0 with a vertical stack
	require.NoError(t, m.PrepareNextRound())
	require.NoError(t, m.StartRound())
	for i := 0; i < 4; i++ {
		require.NoError(t, m.SubmitColumn(0))
	}

	// Then: commentary and state updates flowed through the hooks
	assert.NotEmpty(t, speaks)
	assert.NotEmpty(t, messages)
	assert.NotEmpty(t, snapshots)

	// Then: exactly one round finished, won by the human on turn 7
	require.Len(t, summaries, 1)
	assert.Equal(t, 0, summaries[0].RoundIndex)
	assert.Equal(t, entity.TypeHuman, summaries[0].Winner)
	assert.False(t, summaries[0].Draw)
	assert.Equal(t, 7, summaries[0].Turns)
	assert.False(t, summaries[0].EndedAt.Before(summaries[0].StartedAt))

	// Then: the last snapshot shows the finished position
	last := snapshots[len(snapshots)-1]
	assert.Equal(t, m.ID(), last.MatchID)
	assert.NotNil(t, last.Winner)
}

func TestMatch_Snapshot(t *testing.T) {
	m := newTestMatch(t, true, standardRounds(), 6)
	require.NoError(t, m.PrepareNextRound())
	require.NoError(t, m.StartRound())
	require.NoError(t, m.SubmitColumn(0))

	snapshot := m.Snapshot()

	require.NotEmpty(t, snapshot.MatchID)
	require.NotNil(t, snapshot.Round)
	require.Equal(t, 0, snapshot.Round.Index)
	require.Len(t, snapshot.Grid, 6)
	// bottom row holds the human coin at column 0 and the AI coin at column 6
	require.Equal(t, "H.....A", snapshot.Grid[5])
	require.Equal(t, 3, snapshot.Turn)
	require.Equal(t, entity.TypeHuman, snapshot.Current)
}
