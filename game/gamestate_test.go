package game

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func testState() *GameState {
	return &GameState{
		Game: Game{UID: uuid.New(), Tick: 4, Player: 1},
		Bases: []Base{
			{UID: 0, Player: 0, Population: 5},
			{UID: 1, Player: 1, Population: 30, Position: Position{X: 3}},
			{UID: 2, Player: 2, Population: 20, Position: Position{Y: 9}},
			{UID: 3, Player: 1, Population: 8, Level: 1, Position: Position{Z: 2}},
		},
		Actions: []BoardAction{
			{Src: 2, Dest: 1, Amount: 6, UUID: uuid.New(), Player: 2, Progress: Progress{Distance: 9, Traveled: 2}},
		},
		Config: testConfig(),
	}
}

func TestPartition(t *testing.T) {
	gs := testState()

	own, opponents := gs.Partition()

	require.Equal(t, []int{1, 3}, own, "Owned bases should keep board order")
	require.Equal(t, []int{0, 2}, opponents, "Neutral base counts as an opponent")
	require.Len(t, gs.Bases, 4, "Partition should not change the board")
}

func TestCopy(t *testing.T) {
	gs := testState()

	cp := gs.Copy()
	require.Equal(t, gs, cp, "Copy should be deeply equal")

	cp.Bases[1].Population = 999
	cp.Actions[0].Amount = 999
	cp.Config.BaseLevels[0].SpawnRate = 999

	require.Equal(t, 30, gs.Bases[1].Population, "Copy should not share bases")
	require.Equal(t, 6, gs.Actions[0].Amount, "Copy should not share actions")
	require.Equal(t, 5, gs.Config.BaseLevels[0].SpawnRate, "Copy should not share levels")
}

func TestBaseLookup(t *testing.T) {
	gs := testState()

	base, ok := gs.Base(2)
	require.True(t, ok)
	require.Equal(t, 20, base.Population)

	_, ok = gs.Base(42)
	require.False(t, ok)
}

func TestValidate(t *testing.T) {
	t.Run("consistent snapshot", func(t *testing.T) {
		require.NoError(t, testState().Validate())
	})

	cases := []struct {
		name   string
		mutate func(gs *GameState)
	}{
		{"no levels", func(gs *GameState) { gs.Config.BaseLevels = nil }},
		{"level out of range", func(gs *GameState) { gs.Bases[2].Level = 5 }},
		{"duplicate uid", func(gs *GameState) { gs.Bases[3].UID = 1 }},
		{"negative population", func(gs *GameState) { gs.Bases[1].Population = -1 }},
		{"unknown action source", func(gs *GameState) { gs.Actions[0].Src = 77 }},
		{"unknown action destination", func(gs *GameState) { gs.Actions[0].Dest = 77 }},
		{"negative amount", func(gs *GameState) { gs.Actions[0].Amount = -3 }},
		{"negative death rate", func(gs *GameState) { gs.Config.Paths.DeathRate = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gs := testState()
			tc.mutate(gs)
			require.ErrorIs(t, gs.Validate(), ErrInvalidState)
		})
	}
}

func TestDecodeGameState(t *testing.T) {
	t.Run("decodes the wire format", func(t *testing.T) {
		payload := `{
			"game": {"uid": "5c3a4b0e-8d7f-4a57-9f3b-8e8a4c0b6d21", "tick": 12, "player": 2},
			"bases": [
				{"position": {"x": 1, "y": 2, "z": 3}, "uid": 4, "player": 2, "population": 40, "level": 1, "units_until_upgrade": 60},
				{"position": {"x": 0, "y": 0, "z": 0}, "uid": 5, "player": 1, "population": 10, "level": 0, "units_until_upgrade": 0}
			],
			"actions": [
				{"src": 5, "dest": 4, "amount": 9, "uuid": "0b1e3a57-1c1d-4d2c-8f39-3c5b0f0f9a10", "player": 1, "progress": {"distance": 4, "traveled": 1}}
			],
			"config": {
				"base_levels": [
					{"max_population": 20, "upgrade_cost": 0, "spawn_rate": 1},
					{"max_population": 40, "upgrade_cost": 50, "spawn_rate": 2}
				],
				"paths": {"grace_period": 10, "death_rate": 1}
			}
		}`

		gs, err := DecodeGameState(strings.NewReader(payload))

		require.NoError(t, err)
		require.Equal(t, 12, gs.Game.Tick)
		require.Equal(t, 2, gs.Game.Player)
		require.Equal(t, Position{X: 1, Y: 2, Z: 3}, gs.Bases[0].Position)
		require.Equal(t, 60, gs.Bases[0].UnitsUntilUpgrade)
		require.Equal(t, 3, gs.Actions[0].ArrivalInTicks())
		require.Equal(t, uuid.MustParse("0b1e3a57-1c1d-4d2c-8f39-3c5b0f0f9a10"), gs.Actions[0].UUID)
		require.Equal(t, 40, gs.Config.Level(1).MaxPopulation)
		require.Equal(t, 10, gs.Config.Paths.GracePeriod)
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		_, err := DecodeGameState(strings.NewReader(`{"bases": [`))
		require.Error(t, err)
	})

	t.Run("rejects inconsistent snapshots", func(t *testing.T) {
		_, err := DecodeGameState(strings.NewReader(`{"bases": [{"uid": 1, "level": 3}], "config": {"base_levels": [{"max_population": 1}]}}`))
		require.ErrorIs(t, err, ErrInvalidState)
	})
}
