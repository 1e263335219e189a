package apperror

import "errors"

var (
	ErrColumnUnavailable    = errors.New("column is not available")
	ErrNoMoreRounds         = errors.New("no more rounds configured")
	ErrMatchFinished        = errors.New("match is already finished")
	ErrNoActiveRound        = errors.New("no active round")
	ErrNoPendingMove        = errors.New("no pending move request")
	ErrMoveAlreadySubmitted = errors.New("move already submitted for this request")
)
