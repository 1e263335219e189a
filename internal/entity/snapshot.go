package entity

import "time"

// Snapshot is the serializable view of a running match, one pattern string
// per board row from top to bottom.
type Snapshot struct {
	MatchID  string   `json:"match_id"`
	Round    *Round   `json:"round,omitempty"`
	Turn     int      `json:"turn"`
	Grid     []string `json:"grid,omitempty"`
	Current  string   `json:"current,omitempty"`
	Winner   *Player  `json:"winner,omitempty"`
	Draw     bool     `json:"draw"`
	Finished bool     `json:"finished"`
}

// RoundSummary records the outcome of one finished round for the archive
// and the analytics stream.
type RoundSummary struct {
	MatchID    string    `json:"match_id"`
	RoundIndex int       `json:"round_index"`
	AIName     string    `json:"ai_name"`
	Winner     string    `json:"winner,omitempty"`
	Draw       bool      `json:"draw"`
	Turns      int       `json:"turns"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}
