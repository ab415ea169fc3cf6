package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

var ErrInvalidState = errors.New("invalid game state")

// Game identifies the session and the player this agent controls.
type Game struct {
	UID    uuid.UUID `json:"uid"`
	Tick   int       `json:"tick"`
	Player int       `json:"player"` // Controlled player
}

// GameState is the full board as seen at one tick.
type GameState struct {
	Game    Game          `json:"game"`
	Bases   []Base        `json:"bases"`
	Actions []BoardAction `json:"actions"` // In-flight actions of all players
	Config  GameConfig    `json:"config"`
}

// copy of the GameState.
func (gs GameState) Copy() *GameState {
	bases := make([]Base, len(gs.Bases))
	copy(bases, gs.Bases)

	actions := make([]BoardAction, len(gs.Actions))
	copy(actions, gs.Actions)

	levels := make([]BaseLevel, len(gs.Config.BaseLevels))
	copy(levels, gs.Config.BaseLevels)

	return &GameState{
		Game:    gs.Game,
		Bases:   bases,
		Actions: actions,
		Config: GameConfig{
			BaseLevels: levels,
			Paths:      gs.Config.Paths,
		},
	}
}

// Partition splits the bases into those owned by the controlled player and all
// others (the neutral base included when someone else holds it). Both slices
// hold indices into Bases, in board order.
func (gs *GameState) Partition() (own, opponents []int) {
	for i, base := range gs.Bases {
		if base.Player == gs.Game.Player {
			own = append(own, i)
		} else {
			opponents = append(opponents, i)
		}
	}
	return own, opponents
}

// Base looks up a base by uid.
func (gs *GameState) Base(uid int) (Base, bool) {
	for _, base := range gs.Bases {
		if base.UID == uid {
			return base, true
		}
	}
	return Base{}, false
}

// Validate checks the structural preconditions the strategy relies on. It is
// meant for transports, so that a corrupt snapshot is rejected instead of
// reaching code that panics on it.
func (gs *GameState) Validate() error {
	if len(gs.Config.BaseLevels) == 0 {
		return fmt.Errorf("%w: config has no base levels", ErrInvalidState)
	}
	for i, level := range gs.Config.BaseLevels {
		if level.MaxPopulation < 0 || level.SpawnRate < 0 || level.UpgradeCost < 0 {
			return fmt.Errorf("%w: base level %d has negative constants", ErrInvalidState, i)
		}
	}
	if gs.Config.Paths.GracePeriod < 0 || gs.Config.Paths.DeathRate < 0 {
		return fmt.Errorf("%w: path config has negative constants", ErrInvalidState)
	}

	uids := make(map[int]bool, len(gs.Bases))
	for _, base := range gs.Bases {
		if uids[base.UID] {
			return fmt.Errorf("%w: duplicate base uid %d", ErrInvalidState, base.UID)
		}
		uids[base.UID] = true
		if base.Level < 0 || base.Level >= len(gs.Config.BaseLevels) {
			return fmt.Errorf("%w: base %d has level %d, config has %d levels", ErrInvalidState, base.UID, base.Level, len(gs.Config.BaseLevels))
		}
		if base.Population < 0 {
			return fmt.Errorf("%w: base %d has negative population", ErrInvalidState, base.UID)
		}
	}

	for _, action := range gs.Actions {
		if !uids[action.Src] || !uids[action.Dest] {
			return fmt.Errorf("%w: action %s references unknown base (%d -> %d)", ErrInvalidState, action.UUID, action.Src, action.Dest)
		}
		if action.Amount < 0 || action.Progress.Distance < 0 || action.Progress.Traveled < 0 {
			return fmt.Errorf("%w: action %s has negative values", ErrInvalidState, action.UUID)
		}
	}
	return nil
}

// DecodeGameState reads one JSON snapshot and validates it.
func DecodeGameState(r io.Reader) (*GameState, error) {
	var gs GameState
	if err := json.NewDecoder(r).Decode(&gs); err != nil {
		return nil, fmt.Errorf("failed to decode game state: %w", err)
	}
	if err := gs.Validate(); err != nil {
		return nil, err
	}
	return &gs, nil
}
