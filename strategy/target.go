package strategy

import (
	"bitwars/game"
	"bitwars/utils"
)

// Target is a candidate opponent base and the bits needed to take it.
type Target struct {
	Base         game.Base
	RequiredBits int
	Distance     int // From the attacker, in whole units
}

// selectTarget scans opponents in board order and returns the running best
// feasible target, or nil when the attacker cannot afford any of them.
func (s *Strategist) selectTarget(attacker game.Base, gs *game.GameState, opponents []int) *Target {
	reserve := gs.Config.Level(attacker.Level).MaxPopulation / ReserveDivisor

	return utils.Fold(opponents, (*Target)(nil), func(best *Target, i int) *Target {
		opponent := gs.Bases[i]
		required := attacker.RequiredToDefeat(opponent, gs.Config, gs.Actions)

		// Keep a quarter of the level's capacity after sending
		if required+reserve >= attacker.Population {
			return best
		}

		candidate := &Target{
			Base:         opponent,
			RequiredBits: required,
			Distance:     attacker.DistanceTo(opponent),
		}
		if best == nil || s.replaces(attacker, candidate, best, gs.Config.Paths) {
			return candidate
		}
		return best
	})
}

// replaces reports whether candidate displaces the running best. It has to be
// strictly closer, and no more expensive unless the neutral override applies.
func (s *Strategist) replaces(attacker game.Base, candidate, best *Target, paths game.PathConfig) bool {
	if candidate.Distance >= best.Distance {
		return false
	}
	if candidate.RequiredBits <= best.RequiredBits {
		return true
	}
	return s.neutralOverride &&
		attacker.UID == game.NeutralBase &&
		candidate.Base.DistanceTo(attacker) < paths.GracePeriod
}
