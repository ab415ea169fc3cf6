package strategy

import (
	"sync"

	"bitwars/game"
	"bitwars/metrics"

	"github.com/rs/zerolog/log"
)

// Decide returns at most one action per owned base, in board order.
func (s *Strategist) Decide(gs *game.GameState) []game.PlayerAction {
	actions, _ := s.Plan(gs)
	return actions
}

// Plan is Decide plus the metrics of the call (zero unless WithMetrics is set).
func (s *Strategist) Plan(gs *game.GameState) ([]game.PlayerAction, metrics.TickMetric) {
	collector := s.newCollector()
	collector.Start(gs.Game.Tick, gs.Game.Player, s.goroutines)

	own, opponents := gs.Partition()
	collector.SetBases(len(own), len(opponents))

	planned := make([]*game.PlayerAction, len(own))
	if s.goroutines <= 1 || len(own) <= 1 {
		for i, idx := range own {
			planned[i] = s.planBase(gs.Bases[idx], gs, opponents, collector)
		}
	} else {
		s.fanOut(gs, own, opponents, planned, collector)
	}

	actions := make([]game.PlayerAction, 0, len(own))
	for _, action := range planned {
		if action != nil {
			actions = append(actions, *action)
		}
	}
	return actions, collector.Complete()
}

// fanOut plans owned bases on worker goroutines. Each worker only writes the
// slot of the base it planned.
func (s *Strategist) fanOut(gs *game.GameState, own, opponents []int, planned []*game.PlayerAction, collector metrics.Collector) {
	task := make(chan int, len(own))
	for i := range own {
		task <- i
	}
	close(task)

	var wg sync.WaitGroup
	for w := 0; w < min(s.goroutines, len(own)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for i := range task {
				planned[i] = s.planBase(gs.Bases[own[i]], gs, opponents, collector)
			}
		}()
	}

	wg.Wait()
}

// planBase attacks the selected target if the base survives until the attack
// lands, and otherwise upgrades with whatever exceeds the level's capacity.
func (s *Strategist) planBase(base game.Base, gs *game.GameState, opponents []int, collector metrics.Collector) *game.PlayerAction {
	if target := s.selectTarget(base, gs, opponents); target != nil {
		if !base.WillDieWithinNTicks(target.Distance, gs.Config, gs.Actions) {
			collector.AddAttack()
			log.Debug().
				Int("src", base.UID).
				Int("dest", target.Base.UID).
				Int("required", target.RequiredBits).
				Int("distance", target.Distance).
				Msg("attack")
			return &game.PlayerAction{
				Src:    base.UID,
				Dest:   target.Base.UID,
				Amount: target.RequiredBits + AttackBuffer,
			}
		}
		collector.AddAbandoned()
		log.Debug().Msgf("base %d would fall within %d ticks, not attacking base %d", base.UID, target.Distance, target.Base.UID)
	}

	capacity := gs.Config.Level(base.Level).MaxPopulation - 1
	if base.Population > capacity {
		collector.AddUpgrade()
		log.Debug().Int("base", base.UID).Int("amount", base.Population-capacity).Msg("upgrade")
		return &game.PlayerAction{
			Src:    base.UID,
			Dest:   base.UID,
			Amount: base.Population - capacity,
		}
	}
	return nil
}
