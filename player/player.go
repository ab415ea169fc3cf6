package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitwars/communication"
	"bitwars/game"
	"bitwars/meta"
	"bitwars/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Planner turns one snapshot into the actions for that tick.
type Planner interface {
	Plan(gs *game.GameState) ([]game.PlayerAction, metrics.TickMetric)
}

type Option func(p *Player)

func WithPollInterval(d time.Duration) Option {
	return func(p *Player) {
		if d <= 0 {
			panic("poll interval must be positive")
		}
		p.pollInterval = d
	}
}

func WithMaxBackoff(d time.Duration) Option {
	return func(p *Player) {
		if d <= 0 {
			panic("max backoff must be positive")
		}
		p.maxBackoff = d
	}
}

// Player drives one planner against a game server, answering each tick once.
type Player struct {
	comm         communication.Communicator
	planner      Planner
	pollInterval time.Duration
	maxBackoff   time.Duration
	lastTick     int
	records      []metrics.TickMetric
}

func NewPlayer(comm communication.Communicator, planner Planner, options ...Option) *Player {
	p := &Player{
		comm:         comm,
		planner:      planner,
		pollInterval: meta.POLL_INTERVAL,
		maxBackoff:   meta.MAX_BACKOFF,
		lastTick:     -1,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

// Run plays until ctx is done or the connection closes. Transient transport
// failures are retried with jittered exponential backoff.
func (p *Player) Run(ctx context.Context) error {
	failures := 0
	for {
		played, err := p.Step(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		var wait time.Duration
		switch {
		case errors.Is(err, communication.ErrClosed):
			return err
		case err != nil:
			failures++
			wait = p.backoff(failures)
			log.Warn().Err(err).Int("failures", failures).Dur("retry_in", wait).Msg("Transport failure")
		case played:
			failures = 0
			continue
		default:
			failures = 0
			wait = p.pollInterval
		}

		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// Step fetches one snapshot and answers it if its tick is new. It reports
// whether actions were sent.
func (p *Player) Step(ctx context.Context) (bool, error) {
	gs, err := p.comm.GetGameState(ctx)
	if errors.Is(err, communication.ErrNoState) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get game state: %w", err)
	}
	if gs.Game.Tick <= p.lastTick {
		return false, nil
	}

	start := time.Now()
	actions, metric := p.planner.Plan(gs)
	if metric.StartTime.IsZero() {
		metric.Tick = gs.Game.Tick
		metric.Player = gs.Game.Player
		metric.StartTime = start
		metric.Duration = time.Since(start)
	}

	batch := communication.ActionBatch{Player: gs.Game.Player, Tick: gs.Game.Tick, Actions: actions}
	if err := p.comm.SendActions(ctx, batch); err != nil {
		return false, fmt.Errorf("failed to send actions for tick %d: %w", gs.Game.Tick, err)
	}

	p.lastTick = gs.Game.Tick
	p.records = append(p.records, metric)
	log.Info().Msgf("Tick %d: sent %d actions in %s", gs.Game.Tick, len(actions), metric.Duration)
	return true, nil
}

func (p *Player) LastTick() int {
	return p.lastTick
}

// Records returns the metrics of every answered tick in order.
func (p *Player) Records() []metrics.TickMetric {
	records := make([]metrics.TickMetric, len(p.records))
	copy(records, p.records)
	return records
}

// backoff doubles from the poll interval up to maxBackoff and keeps a random
// half of the result.
func (p *Player) backoff(failures int) time.Duration {
	d := p.pollInterval
	for i := 1; i < failures && d < p.maxBackoff; i++ {
		d *= 2
	}
	d = min(d, p.maxBackoff)
	half := int64(d / 2)
	return time.Duration(half + rand.Int63n(half+1))
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
