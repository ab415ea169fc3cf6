package game

import "bitwars/utils"

type Base struct {
	Position          Position `json:"position"`
	UID               int      `json:"uid"`
	Player            int      `json:"player"`     // Owner of the base
	Population        int      `json:"population"` // Bits currently stationed
	Level             int      `json:"level"`      // Index into GameConfig.BaseLevels
	UnitsUntilUpgrade int      `json:"units_until_upgrade"`
}

// rawPopulationInNTicks projects the population after the given number of
// ticks, counting passive growth and every action on the board that lands by
// then. A negative result means the base is overrun.
func (b Base) rawPopulationInNTicks(ticks int, config GameConfig, actions []BoardAction) int {
	population := b.Population

	if b.UID != NeutralBase {
		population += ticks * config.Level(b.Level).SpawnRate
	}

	for _, action := range actions {
		if action.ArrivalInTicks() > ticks {
			continue
		}
		arriving := action.AmountAtTarget(config.Paths)
		if action.Player == b.Player {
			population += arriving // Reinforcement
		} else {
			population -= arriving // Attack
		}
	}
	return population
}

// PopulationInNTicks returns the magnitude of the projected population. An
// overrun base is likely to be taken by someone else, so the surplus past zero
// still has to be beaten.
func (b Base) PopulationInNTicks(ticks int, config GameConfig, actions []BoardAction) int {
	return utils.Abs(b.rawPopulationInNTicks(ticks, config, actions))
}

// WillDieWithinNTicks reports whether the projected population goes negative.
func (b Base) WillDieWithinNTicks(ticks int, config GameConfig, actions []BoardAction) bool {
	return b.rawPopulationInNTicks(ticks, config, actions) < 0
}

func (b Base) DistanceTo(other Base) int {
	return b.Position.DistanceTo(other.Position)
}

// RequiredToDefeat returns the bits that must leave this base to take target:
// one more than the target holds on arrival, plus the losses on the way.
func (b Base) RequiredToDefeat(target Base, config GameConfig, actions []BoardAction) int {
	d := b.DistanceTo(target)

	required := target.PopulationInNTicks(d, config, actions) + 1

	if d > config.Paths.GracePeriod {
		required += (d - config.Paths.GracePeriod) * config.Paths.DeathRate
	}
	return required
}
