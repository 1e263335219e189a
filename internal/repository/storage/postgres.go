package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

type PostgresStorage struct {
	Connection *pgx.Conn
}

func NewPostgresStorage(ctx context.Context, url string) (*PostgresStorage, error) {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresStorage{Connection: conn}, nil
}

// Init creates the round archive table when it does not exist yet.
func (that *PostgresStorage) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS rounds (
	match_id TEXT,
	round_index INT,
	ai_name TEXT,
	winner TEXT,
	draw BOOLEAN,
	turns INT,
	started_at TIMESTAMPTZ,
	ended_at TIMESTAMPTZ,
	PRIMARY KEY (match_id, round_index)
)`

	_, err := that.Connection.Exec(ctx, query)
	if err != nil {
		return fmt.Errorf("can't create rounds table: %w", err)
	}

	return nil
}

func (that *PostgresStorage) Close(ctx context.Context) error {
	return that.Connection.Close(ctx)
}
