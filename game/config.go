package game

import "fmt"

// BaseLevel holds the constants of one upgrade level.
type BaseLevel struct {
	MaxPopulation int `json:"max_population"` // Number of sustainable bits
	UpgradeCost   int `json:"upgrade_cost"`   // Bits required to unlock this level
	SpawnRate     int `json:"spawn_rate"`     // Bits spawned per tick
}

// PathConfig governs attrition of bits in transit.
type PathConfig struct {
	GracePeriod int `json:"grace_period"` // Distance travelled without losses
	DeathRate   int `json:"death_rate"`   // Bits lost per unit of distance beyond the grace period
}

// GameConfig is static for the whole game.
type GameConfig struct {
	BaseLevels []BaseLevel `json:"base_levels"`
	Paths      PathConfig  `json:"paths"`
}

// Level returns the constants for the given level index. An index outside the
// level table means the snapshot is corrupt, so it panics.
func (c GameConfig) Level(level int) BaseLevel {
	if level < 0 || level >= len(c.BaseLevels) {
		panic(fmt.Sprintf("base level %d out of range, config has %d levels", level, len(c.BaseLevels)))
	}
	return c.BaseLevels[level]
}
