package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/deyvinz/connect44fx/internal/entity"
	"github.com/deyvinz/connect44fx/internal/match"
)

const persistTimeout = 5 * time.Second

const (
	EventState   = "state"
	EventSpeak   = "speak"
	EventMessage = "message"
)

// Event is what transports receive when the match changes or a player has
// something to say.
type Event struct {
	Kind     string           `json:"kind"`
	Message  string           `json:"message,omitempty"`
	Player   *entity.Player   `json:"player,omitempty"`
	Snapshot *entity.Snapshot `json:"snapshot,omitempty"`
}

type snapshotRepo interface {
	Save(ctx context.Context, snapshot entity.Snapshot) error
}

type roundArchive interface {
	Save(ctx context.Context, summary entity.RoundSummary) error
	Results(ctx context.Context, limit int) ([]entity.RoundSummary, error)
}

type eventProducer interface {
	Publish(ctx context.Context, event string, payload any)
}

// MatchManager owns one match and wires its hooks to persistence, the
// round archive, analytics and the registered transport listeners.
type MatchManager struct {
	logger    *slog.Logger
	snapshots snapshotRepo
	archive   roundArchive
	producer  eventProducer
	match     *match.Match

	mu        sync.RWMutex
	listeners []func(Event)
}

func NewMatchManager(
	logger *slog.Logger,
	snapshots snapshotRepo,
	archive roundArchive,
	producer eventProducer,
	human *entity.Player,
	rounds []entity.Round,
	newAgent match.AgentFactory,
	rng *rand.Rand,
) *MatchManager {
	that := &MatchManager{
		logger: logger.With("component", "match-manager"),

		snapshots: snapshots,
		archive:   archive,
		producer:  producer,
	}

	that.match = match.New(match.Params{
		Logger:   logger,
		Human:    match.NewHumanAgent(human),
		Rounds:   rounds,
		NewAgent: newAgent,
		Rand:     rng,
		Hooks: match.Hooks{
			OnSpeak:         that.onSpeak,
			OnMessage:       that.onMessage,
			OnStateChanged:  that.onStateChanged,
			OnRoundFinished: that.onRoundFinished,
		},
	})

	return that
}

func (that *MatchManager) Snapshot() entity.Snapshot {
	return that.match.Snapshot()
}

func (that *MatchManager) PrepareNextRound(ctx context.Context) (entity.Snapshot, error) {
	if err := that.match.PrepareNextRound(); err != nil {
		return that.match.Snapshot(), fmt.Errorf("failed to prepare next round: %w", err)
	}

	snapshot := that.match.Snapshot()
	that.producer.Publish(ctx, "round:prepared", snapshot)

	return snapshot, nil
}

func (that *MatchManager) StartRound(_ context.Context) error {
	if err := that.match.StartRound(); err != nil {
		return fmt.Errorf("failed to start round: %w", err)
	}

	return nil
}

func (that *MatchManager) SubmitColumn(ctx context.Context, column int) error {
	if err := that.match.SubmitColumn(column); err != nil {
		return fmt.Errorf("failed to submit column: %w", err)
	}

	that.producer.Publish(ctx, "move:submitted", map[string]any{
		"match_id": that.match.ID(),
		"column":   column,
	})

	return nil
}

func (that *MatchManager) Results(ctx context.Context, limit int) ([]entity.RoundSummary, error) {
	results, err := that.archive.Results(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load round results: %w", err)
	}

	return results, nil
}

// AddListener registers a transport sink for match events. Listeners are
// invoked on whichever goroutine resolved the move.
func (that *MatchManager) AddListener(listener func(Event)) {
	that.mu.Lock()
	that.listeners = append(that.listeners, listener)
	that.mu.Unlock()
}

func (that *MatchManager) onSpeak(player *entity.Player, message string) {
	that.emit(Event{Kind: EventSpeak, Player: player, Message: message})
}

func (that *MatchManager) onMessage(message string) {
	that.emit(Event{Kind: EventMessage, Message: message})
}

func (that *MatchManager) onStateChanged(snapshot entity.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := that.snapshots.Save(ctx, snapshot); err != nil {
		that.logger.Error("failed to save match snapshot", "match", snapshot.MatchID, "error", err)
	}

	that.emit(Event{Kind: EventState, Snapshot: &snapshot})
}

func (that *MatchManager) onRoundFinished(summary entity.RoundSummary) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := that.archive.Save(ctx, summary); err != nil {
		that.logger.Error("failed to archive round", "match", summary.MatchID, "round", summary.RoundIndex, "error", err)
	}

	that.producer.Publish(ctx, "round:finished", summary)
}

func (that *MatchManager) emit(event Event) {
	that.mu.RLock()
	listeners := make([]func(Event), len(that.listeners))
	copy(listeners, that.listeners)
	that.mu.RUnlock()

	for _, listener := range listeners {
		listener(event)
	}
}
