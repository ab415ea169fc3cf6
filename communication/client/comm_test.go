package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bitwars/communication"
	"bitwars/communication/server"
	"bitwars/game"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testState(tick int) *game.GameState {
	return &game.GameState{
		Game: game.Game{UID: uuid.New(), Tick: tick, Player: 1},
		Bases: []game.Base{
			{UID: 1, Player: 1, Population: 40, Level: 0},
			{UID: 2, Player: 2, Population: 12, Level: 0, Position: game.Position{X: 6}},
		},
		Actions: []game.BoardAction{
			{Src: 2, Dest: 1, Amount: 5, UUID: uuid.New(), Player: 2, Progress: game.Progress{Distance: 6, Traveled: 1}},
		},
		Config: game.GameConfig{
			BaseLevels: []game.BaseLevel{{MaxPopulation: 50, SpawnRate: 1}},
			Paths:      game.PathConfig{GracePeriod: 10, DeathRate: 1},
		},
	}
}

func newTestServer(t *testing.T) (*server.ServerCommunicator, *httptest.Server) {
	t.Helper()
	sc := server.NewServerCommunicator()
	ts := httptest.NewServer(sc.Handler())
	t.Cleanup(ts.Close)
	return sc, ts
}

func TestHTTPCommunicator(t *testing.T) {
	ctx := context.Background()

	t.Run("no snapshot yet", func(t *testing.T) {
		_, ts := newTestServer(t)
		cc := NewHTTPCommunicator(ts.URL)

		_, err := cc.GetGameState(ctx)

		require.ErrorIs(t, err, communication.ErrNoState)
	})

	t.Run("fetches the latest snapshot", func(t *testing.T) {
		sc, ts := newTestServer(t)
		want := testState(3)
		sc.UpdateGameState(want)
		cc := NewHTTPCommunicator(ts.URL + "/")

		got, err := cc.GetGameState(ctx)

		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("posts action batches", func(t *testing.T) {
		sc, ts := newTestServer(t)
		cc := NewHTTPCommunicator(ts.URL)
		batch := communication.ActionBatch{Player: 1, Tick: 3, Actions: []game.PlayerAction{{Src: 1, Dest: 2, Amount: 20}}}

		require.NoError(t, cc.SendActions(ctx, batch))

		got, err := sc.ReceiveActions(ctx)
		require.NoError(t, err)
		require.Equal(t, batch, got)
	})

	t.Run("rejects corrupt snapshots", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"bases": [{"uid": 1, "level": 4}], "config": {"base_levels": [{"max_population": 10}]}}`))
		}))
		t.Cleanup(ts.Close)
		cc := NewHTTPCommunicator(ts.URL)

		_, err := cc.GetGameState(ctx)

		require.ErrorIs(t, err, game.ErrInvalidState)
	})

	t.Run("surfaces server errors", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		t.Cleanup(ts.Close)
		cc := NewHTTPCommunicator(ts.URL)

		_, err := cc.GetGameState(ctx)
		require.ErrorContains(t, err, "status 500")

		err = cc.SendActions(ctx, communication.ActionBatch{})
		require.ErrorContains(t, err, "status 500")
	})

	t.Run("server rejects invalid updates", func(t *testing.T) {
		_, ts := newTestServer(t)

		resp, err := http.Post(ts.URL+"/updateGameState", "application/json", strings.NewReader(`{"bases": []}`))
		require.NoError(t, err)
		resp.Body.Close()

		require.Equal(t, http.StatusBadRequest, resp.StatusCode, "A snapshot without levels is invalid")
	})
}

func TestWSCommunicator(t *testing.T) {
	t.Run("receives the current snapshot on connect", func(t *testing.T) {
		sc, ts := newTestServer(t)
		want := testState(1)
		sc.UpdateGameState(want)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		c, err := DialWS(ctx, ts.URL)
		require.NoError(t, err)
		defer c.Close()

		got, err := c.GetGameState(ctx)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("receives pushed snapshots in tick order", func(t *testing.T) {
		sc, ts := newTestServer(t)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		c, err := DialWS(ctx, ts.URL)
		require.NoError(t, err)
		defer c.Close()
		require.Eventually(t, func() bool { return sc.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

		sc.UpdateGameState(testState(1))
		sc.UpdateGameState(testState(2))

		last := 0
		for last < 2 {
			gs, err := c.GetGameState(ctx)
			require.NoError(t, err)
			require.Greater(t, gs.Game.Tick, last, "Snapshots should never go back in time")
			last = gs.Game.Tick
		}
	})

	t.Run("sends action batches", func(t *testing.T) {
		sc, ts := newTestServer(t)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		c, err := DialWS(ctx, ts.URL)
		require.NoError(t, err)
		defer c.Close()

		batch := communication.ActionBatch{Player: 1, Tick: 9, Actions: []game.PlayerAction{{Src: 1, Dest: 1, Amount: 2}}}
		require.NoError(t, c.SendActions(ctx, batch))

		got, err := sc.ReceiveActions(ctx)
		require.NoError(t, err)
		require.Equal(t, batch, got)
	})

	t.Run("closed connection", func(t *testing.T) {
		_, ts := newTestServer(t)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		c, err := DialWS(ctx, ts.URL)
		require.NoError(t, err)
		require.NoError(t, c.Close())

		_, err = c.GetGameState(ctx)
		require.ErrorIs(t, err, communication.ErrClosed)
		require.ErrorIs(t, c.SendActions(ctx, communication.ActionBatch{}), communication.ErrClosed)
	})

	t.Run("context cancellation", func(t *testing.T) {
		_, ts := newTestServer(t)
		c, err := DialWS(context.Background(), ts.URL)
		require.NoError(t, err)
		defer c.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = c.GetGameState(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}
