// Package strategy decides, once per tick, which bits the controlled player
// sends where. Every owned base is planned independently: it attacks the best
// affordable opponent it can reach alive, or else banks its excess population
// into an upgrade.
package strategy

import (
	"bitwars/game"
	"bitwars/metrics"
)

const (
	// ReserveDivisor sets the share of a level's capacity an attacker keeps at home.
	ReserveDivisor = 4
	// AttackBuffer is added to every attack to absorb truncation in the distance
	// and attrition estimates.
	AttackBuffer = 3
)

type Option func(s *Strategist)

type Strategist struct {
	goroutines      int
	neutralOverride bool
	newCollector    func() metrics.Collector
}

// WithGoroutines plans owned bases on up to n goroutines. Output order does not
// depend on n.
func WithGoroutines(n int) Option {
	return func(s *Strategist) {
		if n > 0 {
			s.goroutines = n
		}
	}
}

// WithNeutralOverride toggles the rule that lets the neutral base switch to a
// strictly closer target inside the grace period even when it costs more.
func WithNeutralOverride(enabled bool) Option {
	return func(s *Strategist) {
		s.neutralOverride = enabled
	}
}

func WithMetrics() Option {
	return func(s *Strategist) {
		s.newCollector = metrics.NewCollector
	}
}

func NewStrategist(options ...Option) *Strategist {
	s := &Strategist{ // Default values
		goroutines:      1,
		neutralOverride: true,
		newCollector:    metrics.NewDummyCollector,
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var defaultStrategist = NewStrategist()

// Decide plans one tick with the default tunables.
func Decide(gs *game.GameState) []game.PlayerAction {
	return defaultStrategist.Decide(gs)
}
