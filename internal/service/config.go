package service

import (
	"errors"
	"fmt"
	"time"
)

// Config groups the settings consumed by NewService.
type Config struct {
	Sensor    SensorConfig
	Auth      AuthConfig
	Simulator SimulatorConfig
}

// SensorConfig describes the history stats sensor. Start, End and Duration
// are raw template strings; an empty string means the slot is not configured.
type SensorConfig struct {
	EntityID     string
	TargetState  string
	Start        string
	End          string
	Duration     string
	Name         string
	PollInterval time.Duration
}

var errPeriodKeys = errors.New("exactly two of start, end and duration must be configured")

// Validate checks the required fields and the two-of-three period rule.
// A violation is a fatal configuration error, setup must abort.
func (c SensorConfig) Validate() error {
	if c.EntityID == "" {
		return fmt.Errorf("sensor: entity_id is required")
	}
	if c.TargetState == "" {
		return fmt.Errorf("sensor: state is required")
	}
	configured := 0
	for _, tmpl := range []string{c.Start, c.End, c.Duration} {
		if tmpl != "" {
			configured++
		}
	}
	if configured != 2 {
		return errPeriodKeys
	}
	return nil
}

// AuthConfig carries the JWT settings.
type AuthConfig struct {
	SigningKey string
	TokenTTL   time.Duration
}

// SimulatorConfig describes the demo entity driven by the simulator.
type SimulatorConfig struct {
	EntityID string
	OnState  string
	OffState string
	MinDwell time.Duration
	MaxDwell time.Duration
}
