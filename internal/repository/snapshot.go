package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/deyvinz/connect44fx/internal/entity"
)

var ErrSnapshotNotFound = errors.New("match snapshot not found")

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot entity.Snapshot) error
	GetByMatchID(ctx context.Context, matchID string) (*entity.Snapshot, error)
	DeleteByMatchID(ctx context.Context, matchID string) error
}

type dbSnapshot struct {
	client *redis.Client
}

func NewSnapshotRepository(client *redis.Client) SnapshotRepository {
	return &dbSnapshot{
		client: client,
	}
}

func (that *dbSnapshot) Save(ctx context.Context, snapshot entity.Snapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("could not marshal snapshot: %w", err)
	}

	snapshotKey := "match:" + snapshot.MatchID
	err = that.client.Set(ctx, snapshotKey, snapshotJSON, 0).Err()
	if err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (that *dbSnapshot) GetByMatchID(ctx context.Context, matchID string) (*entity.Snapshot, error) {
	snapshotKey := "match:" + matchID

	response, err := that.client.Get(ctx, snapshotKey).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot by match ID: %w", err)
	}

	var snapshot entity.Snapshot
	if err = json.Unmarshal([]byte(response), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	return &snapshot, nil
}

func (that *dbSnapshot) DeleteByMatchID(ctx context.Context, matchID string) error {
	snapshotKey := "match:" + matchID

	err := that.client.Del(ctx, snapshotKey).Err()
	if err != nil {
		return fmt.Errorf("failed to delete snapshot by match ID: %w", err)
	}

	return nil
}
