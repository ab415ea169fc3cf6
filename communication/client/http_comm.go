package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"bitwars/communication"
	"bitwars/game"
)

// HTTPCommunicator polls the game server for snapshots and posts actions.
type HTTPCommunicator struct {
	serverURL string
	httpC     *http.Client
}

// NewHTTPCommunicator initializes and returns a new HTTPCommunicator.
func NewHTTPCommunicator(serverURL string) *HTTPCommunicator {
	return &HTTPCommunicator{
		serverURL: strings.TrimRight(serverURL, "/"),
		httpC:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (cc *HTTPCommunicator) GetGameState(ctx context.Context) (*game.GameState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cc.serverURL+"/getGameState", nil)
	if err != nil {
		return nil, err
	}
	resp, err := cc.httpC.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get game state: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, communication.ErrNoState
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("get game state: status %d: %s", resp.StatusCode, body)
	}

	return game.DecodeGameState(resp.Body)
}

func (cc *HTTPCommunicator) SendActions(ctx context.Context, batch communication.ActionBatch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cc.serverURL+"/sendActions", bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := cc.httpC.Do(req)
	if err != nil {
		return fmt.Errorf("send actions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("send actions: status %d: %s", resp.StatusCode, body)
	}
	return nil
}
