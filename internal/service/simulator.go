package service

import (
	"context"
	"math/rand"
	"time"

	"history_stats/internal/logger"
	"history_stats/internal/models"
	"history_stats/internal/repository"
)

// Defaults for an unconfigured simulator.
const (
	defaultOnState  = "on"
	defaultOffState = "off"
	defaultMinDwell = 30 * time.Second
	defaultMaxDwell = 5 * time.Minute
)

// SimulatorService toggles the demo entity between two states and records
// each transition in the history store. Every recorded change is also
// published on the notification channel so the sensor recomputes promptly.
type SimulatorService struct {
	history repository.History
	log     *logger.Logger
	notify  chan<- models.StateChangeEvent
	rng     *rand.Rand

	entityID string
	states   [2]string
	minDwell time.Duration
	maxDwell time.Duration

	current  int
	nextFlip time.Time
}

func NewSimulatorService(history repository.History, log *logger.Logger, cfg SimulatorConfig, notify chan<- models.StateChangeEvent) *SimulatorService {
	if cfg.OnState == "" {
		cfg.OnState = defaultOnState
	}
	if cfg.OffState == "" {
		cfg.OffState = defaultOffState
	}
	if cfg.MinDwell <= 0 {
		cfg.MinDwell = defaultMinDwell
	}
	if cfg.MaxDwell < cfg.MinDwell {
		cfg.MaxDwell = defaultMaxDwell
	}
	return &SimulatorService{
		history:  history,
		log:      log,
		notify:   notify,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		entityID: cfg.EntityID,
		states:   [2]string{cfg.OffState, cfg.OnState},
		minDwell: cfg.MinDwell,
		maxDwell: cfg.MaxDwell,
	}
}

var _ Simulator = (*SimulatorService)(nil)

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			s.step(ctx, now)
		}
	}
}

// step flips the entity once its current dwell time has expired.
func (s *SimulatorService) step(ctx context.Context, now time.Time) {
	if now.Before(s.nextFlip) {
		return
	}

	s.current = 1 - s.current
	ev := models.StateChangeEvent{
		EntityID:  s.entityID,
		State:     s.states[s.current],
		ChangedAt: now.UTC(),
	}

	if err := s.history.Append(ctx, ev); err != nil {
		s.log.Errorw("append state change failed", "entity_id", s.entityID, "err", err)
		return
	}

	select {
	case s.notify <- ev:
	default:
		// sensor busy, the next poll picks the change up
	}

	s.nextFlip = now.Add(s.dwell())
}

func (s *SimulatorService) dwell() time.Duration {
	if s.maxDwell <= s.minDwell {
		return s.minDwell
	}
	return s.minDwell + time.Duration(s.rng.Int63n(int64(s.maxDwell-s.minDwell)))
}
