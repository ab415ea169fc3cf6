package client

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"bitwars/communication"
	"bitwars/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

// WSCommunicator receives snapshots pushed over a websocket and writes actions
// back on the same connection. Only the latest unread snapshot is kept.
type WSCommunicator struct {
	conn    *websocket.Conn
	states  chan *game.GameState
	mu      sync.Mutex // serializes writes
	closed  bool
	readErr error
}

// DialWS connects to the /ws endpoint of the server at serverURL and starts
// reading snapshots.
func DialWS(ctx context.Context, serverURL string) (*WSCommunicator, error) {
	wsURL := strings.Replace(strings.TrimRight(serverURL, "/"), "http", "ws", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("ws dial: %w", err)
	}

	c := &WSCommunicator{
		conn:   conn,
		states: make(chan *game.GameState, 1),
	}
	go c.readLoop()
	return c, nil
}

func (c *WSCommunicator) readLoop() {
	defer close(c.states)
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			if !c.closed {
				log.Debug().Err(err).Msg("ws read ended")
			}
			c.readErr = err
			c.mu.Unlock()
			return
		}
		gs, err := game.DecodeGameState(bytes.NewReader(msg))
		if err != nil {
			log.Warn().Err(err).Msg("dropping game state frame")
			continue
		}
		// Replace an unread snapshot, the planner only cares about the newest
		select {
		case <-c.states:
		default:
		}
		c.states <- gs
	}
}

// GetGameState blocks until the next snapshot arrives.
func (c *WSCommunicator) GetGameState(ctx context.Context) (*game.GameState, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case gs, ok := <-c.states:
		if !ok {
			c.mu.Lock()
			defer c.mu.Unlock()
			return nil, fmt.Errorf("%w: %v", communication.ErrClosed, c.readErr)
		}
		return gs, nil
	}
}

func (c *WSCommunicator) SendActions(ctx context.Context, batch communication.ActionBatch) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return communication.ErrClosed
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(writeWait)
	}
	if err := c.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	if err := c.conn.WriteJSON(batch); err != nil {
		return fmt.Errorf("send actions: %w", err)
	}
	return nil
}

func (c *WSCommunicator) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.conn.Close()
}
