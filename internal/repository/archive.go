package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/deyvinz/connect44fx/internal/entity"
)

// RoundArchive stores the outcome of every finished round. A nil archive
// is valid and drops everything, for deployments without Postgres.
type RoundArchive struct {
	conn *pgx.Conn
}

func NewRoundArchive(conn *pgx.Conn) *RoundArchive {
	return &RoundArchive{conn: conn}
}

func (that *RoundArchive) Save(ctx context.Context, summary entity.RoundSummary) error {
	if that == nil || that.conn == nil {
		return nil
	}

	query := `INSERT INTO rounds (match_id, round_index, ai_name, winner, draw, turns, started_at, ended_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (match_id, round_index) DO NOTHING`

	_, err := that.conn.Exec(ctx, query,
		summary.MatchID, summary.RoundIndex, summary.AIName,
		summary.Winner, summary.Draw, summary.Turns,
		summary.StartedAt, summary.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to archive round: %w", err)
	}

	return nil
}

func (that *RoundArchive) Results(ctx context.Context, limit int) ([]entity.RoundSummary, error) {
	if that == nil || that.conn == nil {
		return nil, nil
	}

	query := `SELECT match_id, round_index, ai_name, winner, draw, turns, started_at, ended_at
FROM rounds
ORDER BY ended_at DESC
LIMIT $1`

	rows, err := that.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query round results: %w", err)
	}
	defer rows.Close()

	var results []entity.RoundSummary
	for rows.Next() {
		var summary entity.RoundSummary
		if err = rows.Scan(
			&summary.MatchID, &summary.RoundIndex, &summary.AIName,
			&summary.Winner, &summary.Draw, &summary.Turns,
			&summary.StartedAt, &summary.EndedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan round result: %w", err)
		}
		results = append(results, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read round results: %w", err)
	}

	return results, nil
}
