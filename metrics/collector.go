package metrics

import (
	"sync/atomic"
	"time"
)

// TickMetric summarises one planning call.
type TickMetric struct {
	Tick       int
	Player     int // Controlled player ID
	Goroutines int
	StartTime  time.Time
	Duration   time.Duration
	OwnedBases int
	Opponents  int
	Attacks    int // Attack actions emitted
	Upgrades   int // Self-transfers emitted
	Abandoned  int // Attacks dropped because the source would fall first
}

type Collector interface {
	Start(tick, player, goroutines int)
	SetBases(owned, opponents int)
	AddAttack()
	AddUpgrade()
	AddAbandoned()
	Complete() TickMetric
}

// collector is safe for concurrent use by the planner's workers.
type collector struct {
	tick       int
	player     int
	goroutines int
	startTime  time.Time
	owned      int
	opponents  int
	attacks    atomic.Int32
	upgrades   atomic.Int32
	abandoned  atomic.Int32
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(tick, player, goroutines int) {
	m.startTime = time.Now()
	m.tick = tick
	m.player = player
	m.goroutines = goroutines
}

func (m *collector) SetBases(owned, opponents int) {
	m.owned = owned
	m.opponents = opponents
}

func (m *collector) AddAttack() {
	m.attacks.Add(1)
}

func (m *collector) AddUpgrade() {
	m.upgrades.Add(1)
}

func (m *collector) AddAbandoned() {
	m.abandoned.Add(1)
}

func (m *collector) Complete() TickMetric {
	return TickMetric{
		Tick:       m.tick,
		Player:     m.player,
		Goroutines: m.goroutines,
		StartTime:  m.startTime,
		Duration:   time.Since(m.startTime),
		OwnedBases: m.owned,
		Opponents:  m.opponents,
		Attacks:    int(m.attacks.Load()),
		Upgrades:   int(m.upgrades.Load()),
		Abandoned:  int(m.abandoned.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(tick, player, goroutines int) {}
func (m *dummyCollector) SetBases(owned, opponents int)      {}
func (m *dummyCollector) AddAttack()                         {}
func (m *dummyCollector) AddUpgrade()                        {}
func (m *dummyCollector) AddAbandoned()                      {}
func (m *dummyCollector) Complete() TickMetric               { return TickMetric{} }
