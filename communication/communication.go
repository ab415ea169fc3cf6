package communication

import (
	"context"
	"errors"

	"bitwars/game"
)

// ErrNoState is returned while the server has no snapshot to hand out.
var ErrNoState = errors.New("no game state available")

// ErrClosed is returned once a streaming connection has ended.
var ErrClosed = errors.New("connection closed")

// ActionBatch carries the actions one player issues for one tick.
type ActionBatch struct {
	Player  int                 `json:"player"`
	Tick    int                 `json:"tick"`
	Actions []game.PlayerAction `json:"actions"`
}

// Communicator is an interface that abstracts the communication mechanism.
type Communicator interface {
	GetGameState(ctx context.Context) (*game.GameState, error)
	SendActions(ctx context.Context, batch ActionBatch) error
}
