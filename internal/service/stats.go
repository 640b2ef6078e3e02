package service

import (
	"context"
	"math"
	"sync"
	"time"

	"history_stats/internal/logger"
	"history_stats/internal/models"
	"history_stats/internal/render"
	"history_stats/internal/repository"
	"history_stats/internal/timeexpr"
)

const (
	// DefaultSensorName is used when no name is configured.
	DefaultSensorName = "History Statistics"

	unitOfMeasurement = "h"
	sensorIcon        = "mdi:calculator"

	// Grace period after construction during which update cycles exit
	// immediately. The history and render backends are not reliable while
	// the process is still starting.
	warmUpTime = 3 * time.Second

	timeAttrLayout = "2006-01-02 15:04:05"
)

// HistoryStatsService measures how long an entity held the target state
// within the configured time window.
type HistoryStatsService struct {
	history  repository.History
	renderer render.Renderer
	log      *logger.Logger

	entityID    string
	targetState string
	name        string

	// expanded template strings, empty when the slot is not configured
	startTmpl    string
	endTmpl      string
	durationTmpl string

	changes <-chan models.StateChangeEvent

	clock    func() time.Time
	bootedAt time.Time

	// period and value keep their previous contents when a cycle fails
	mu        sync.RWMutex
	period    [2]int64
	hasPeriod bool
	value     float64
}

func NewHistoryStatsService(history repository.History, renderer render.Renderer, log *logger.Logger, cfg SensorConfig, changes <-chan models.StateChangeEvent) *HistoryStatsService {
	name := cfg.Name
	if name == "" {
		name = DefaultSensorName
	}
	s := &HistoryStatsService{
		history:      history,
		renderer:     renderer,
		log:          log,
		entityID:     cfg.EntityID,
		targetState:  cfg.TargetState,
		name:         name,
		startTmpl:    expandTemplate(cfg.Start),
		endTmpl:      expandTemplate(cfg.End),
		durationTmpl: expandTemplate(cfg.Duration),
		changes:      changes,
		clock:        time.Now,
	}
	s.bootedAt = s.clock()
	return s
}

var _ HistoryStats = (*HistoryStatsService)(nil)

// expandTemplate rewrites time aliases once, at setup time.
func expandTemplate(tmpl string) string {
	if tmpl == "" {
		return ""
	}
	return timeexpr.Expand(tmpl)
}

// Update runs one cycle: resolve the window, fetch history, integrate dwell
// time and publish the value. Failures leave the previous value in place.
func (s *HistoryStatsService) Update(ctx context.Context) {
	if s.clock().Sub(s.bootedAt) < warmUpTime {
		return
	}

	s.updatePeriod()

	s.mu.RLock()
	hasPeriod, start, end := s.hasPeriod, s.period[0], s.period[1]
	s.mu.RUnlock()
	if !hasPeriod {
		return
	}

	events, err := s.history.StateChangesDuringPeriod(ctx,
		time.Unix(start, 0).UTC(), time.Unix(end, 0).UTC(), s.entityID)
	if err != nil {
		s.log.Errorw("history lookup failed", "entity_id", s.entityID, "err", err)
		return
	}
	if len(events) == 0 {
		// entity absent from the window, keep the last reported value
		return
	}

	stateAtStart, found, err := s.history.StateAt(ctx, time.Unix(start, 0).UTC(), s.entityID)
	if err != nil {
		s.log.Errorw("boundary state lookup failed", "entity_id", s.entityID, "err", err)
		return
	}

	elapsed := accumulate(events, start, s.targetState, found && stateAtStart == s.targetState)

	s.mu.Lock()
	s.value = roundHours(elapsed)
	s.mu.Unlock()
}

// accumulate sweeps the time-ascending events and integrates the seconds
// spent in target, anchored by the boundary state at windowStart. The open
// tail after the last event is not counted.
func accumulate(events []models.StateChangeEvent, windowStart int64, target string, inTargetAtStart bool) float64 {
	lastState := inTargetAtStart
	lastTime := float64(windowStart)
	elapsed := 0.0

	for _, ev := range events {
		currentState := ev.State == target
		currentTime := float64(ev.ChangedAt.Unix())
		if lastState {
			elapsed += currentTime - lastTime
		}
		lastState = currentState
		lastTime = currentTime
	}
	return elapsed
}

// roundHours converts seconds to hours rounded to two decimals.
func roundHours(elapsedSeconds float64) float64 {
	return math.Round(elapsedSeconds/3600*100) / 100
}

// Snapshot returns the sensor surface. Window attributes are rendered in
// local time.
func (s *HistoryStatsService) Snapshot() models.SensorSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := models.SensorSnapshot{
		Name:              s.name,
		State:             s.value,
		UnitOfMeasurement: unitOfMeasurement,
		Icon:              sensorIcon,
		ShouldPoll:        true,
	}
	if s.hasPeriod {
		snap.Attributes.Start = time.Unix(s.period[0], 0).Format(timeAttrLayout)
		snap.Attributes.End = time.Unix(s.period[1], 0).Format(timeAttrLayout)
	}
	return snap
}

// Run updates the sensor on every poll tick and whenever the monitored
// entity changes state. Cycles are serialized by this single loop.
func (s *HistoryStatsService) Run(ctx context.Context, poll time.Duration) {
	t := time.NewTicker(poll)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Update(ctx)
		case ev, ok := <-s.changes:
			if !ok {
				return
			}
			if ev.EntityID == s.entityID {
				s.Update(ctx)
			}
		}
	}
}
