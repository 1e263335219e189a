package websocket

import (
	"context"
	"encoding/json"

	"github.com/deyvinz/connect44fx/internal/usecase"
)

const (
	actionState     = "state"
	actionNextRound = "round:next"
	actionTurn      = "turn"
)

// Message is one client frame. Column is only meaningful for "turn".
type Message struct {
	Action string `json:"action"`
	Column *int   `json:"column,omitempty"`
}

func (that *Server) dispatch(ctx context.Context, cl *client, message *Message) {
	switch message.Action {
	case actionState:
		that.sendSnapshot(cl)

	case actionNextRound:
		if _, err := that.service.PrepareNextRound(ctx); err != nil {
			that.sendError(cl, err.Error())
			return
		}
		if err := that.service.StartRound(ctx); err != nil {
			that.sendError(cl, err.Error())
		}

	case actionTurn:
		if message.Column == nil {
			that.sendError(cl, "turn requires a column")
			return
		}
		if err := that.service.SubmitColumn(ctx, *message.Column); err != nil {
			that.sendError(cl, err.Error())
		}

	default:
		that.sendError(cl, "unknown action: "+message.Action)
	}
}

func (that *Server) sendSnapshot(cl *client) {
	snapshot := that.service.Snapshot()
	that.send(cl, usecase.Event{Kind: usecase.EventState, Snapshot: &snapshot})
}

func (that *Server) sendError(cl *client, message string) {
	that.send(cl, usecase.Event{Kind: "error", Message: message})
}

func (that *Server) send(cl *client, event usecase.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		that.logger.Error("failed to marshal event", "error", err)
		return
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	// the client may have been dropped and its channel closed
	if _, ok := that.clients[cl]; !ok {
		return
	}

	select {
	case cl.send <- payload:
	default:
	}
}
