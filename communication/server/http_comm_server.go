package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"bitwars/communication"
	"bitwars/game"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// ServerCommunicator is an in-memory stand-in for the game server. It holds
// the latest snapshot, pushes it to websocket subscribers and queues the
// action batches players send back. It does not simulate the game.
type ServerCommunicator struct {
	gameState *game.GameState
	actions   chan communication.ActionBatch
	mutex     sync.RWMutex

	upgrader    websocket.Upgrader
	subscribers map[*websocket.Conn]struct{}
	subMu       sync.Mutex // guards subscribers and serializes writes to them
}

// NewServerCommunicator initializes and returns a new ServerCommunicator.
func NewServerCommunicator() *ServerCommunicator {
	return &ServerCommunicator{
		gameState: nil, // Set by UpdateGameState
		actions:   make(chan communication.ActionBatch, 100),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribers: make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the HTTP routes of the server.
func (sc *ServerCommunicator) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/getGameState", sc.handleGetGameState)
	mux.HandleFunc("/updateGameState", sc.handleUpdateGameState)
	mux.HandleFunc("/sendActions", sc.handleSendActions)
	mux.HandleFunc("/ws", sc.handleWS)
	return mux
}

func (sc *ServerCommunicator) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	gs := sc.GetGameState()
	if gs == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(gs)
}

func (sc *ServerCommunicator) handleUpdateGameState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	// Reject snapshots the agent could not plan on
	gs, err := game.DecodeGameState(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sc.UpdateGameState(gs)
	w.WriteHeader(http.StatusOK)
}

func (sc *ServerCommunicator) handleSendActions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	// Decode the batch
	var batch communication.ActionBatch
	if err := json.NewDecoder(r.Body).Decode(&batch); err != nil {
		http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	// Queue it for ReceiveActions
	select {
	case sc.actions <- batch:
		w.WriteHeader(http.StatusOK)
	case <-r.Context().Done():
		w.WriteHeader(http.StatusServiceUnavailable)
	}
}

func (sc *ServerCommunicator) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := sc.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	// Subscribe and send the current snapshot
	sc.subMu.Lock()
	sc.subscribers[conn] = struct{}{}
	if gs := sc.GetGameState(); gs != nil {
		if err := conn.WriteJSON(gs); err != nil {
			log.Debug().Err(err).Msg("ws initial write failed")
		}
	}
	sc.subMu.Unlock()

	defer func() {
		sc.subMu.Lock()
		delete(sc.subscribers, conn)
		sc.subMu.Unlock()
	}()

	// Read action batches until the client goes away
	for {
		var batch communication.ActionBatch
		if err := conn.ReadJSON(&batch); err != nil {
			return
		}
		select {
		case sc.actions <- batch:
		case <-r.Context().Done():
			return
		}
	}
}

// GetGameState returns a copy of the latest snapshot, or nil if none was set.
func (sc *ServerCommunicator) GetGameState() *game.GameState {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	if sc.gameState == nil {
		return nil
	}
	return sc.gameState.Copy()
}

// UpdateGameState stores gs and pushes it to every websocket subscriber.
func (sc *ServerCommunicator) UpdateGameState(gs *game.GameState) {
	sc.mutex.Lock()
	sc.gameState = gs.Copy()
	sc.mutex.Unlock()

	// Broadcast
	sc.subMu.Lock()
	defer sc.subMu.Unlock()
	for conn := range sc.subscribers {
		if err := conn.WriteJSON(gs); err != nil {
			log.Debug().Err(err).Msg("ws broadcast failed")
		}
	}
}

// ReceiveActions blocks until a player sends a batch.
func (sc *ServerCommunicator) ReceiveActions(ctx context.Context) (communication.ActionBatch, error) {
	select {
	case batch := <-sc.actions:
		return batch, nil
	case <-ctx.Done():
		return communication.ActionBatch{}, ctx.Err()
	}
}

// Subscribers returns the number of open websocket connections.
func (sc *ServerCommunicator) Subscribers() int {
	sc.subMu.Lock()
	defer sc.subMu.Unlock()
	return len(sc.subscribers)
}
