package service

import (
	"context"
	"time"

	"history_stats/internal/logger"
	"history_stats/internal/models"
	"history_stats/internal/render"
	"history_stats/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// HistoryStats is the sensor itself: it resolves the measurement window and
// reports how long the monitored entity held the target state, in hours.
type HistoryStats interface {
	Update(ctx context.Context)
	Snapshot() models.SensorSnapshot
	Run(ctx context.Context, poll time.Duration)
}

// HistoryLog exposes recorded state changes with filtering.
type HistoryLog interface {
	List(ctx context.Context, f HistoryFilter) ([]models.StateChangeEvent, error)
}

// Simulator runs the background loop that generates state changes for the
// monitored demo entity. Stop via context cancellation for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	HistoryStats
	HistoryLog
	Simulator
	Authorization
}

// NewService wires the repository layer and renderer into concrete services.
// The state-change channel connects the simulator to the sensor so entity
// changes trigger an update cycle without polling.
func NewService(repos *repository.Repository, renderer render.Renderer, log *logger.Logger, cfg Config) (*Service, error) {
	if err := cfg.Sensor.Validate(); err != nil {
		return nil, err
	}

	changes := make(chan models.StateChangeEvent, 16)

	return &Service{
		HistoryStats:  NewHistoryStatsService(repos.History, renderer, log, cfg.Sensor, changes),
		HistoryLog:    NewHistoryLogService(repos.History),
		Simulator:     NewSimulatorService(repos.History, log, cfg.Simulator, changes),
		Authorization: NewAuthService(repos.Auth, cfg.Auth),
	}, nil
}
