package models

import "time"

// StateChangeEvent is one historical state transition of a monitored entity.
type StateChangeEvent struct {
	EventID   string    `json:"event_id"`
	EntityID  string    `json:"entity_id"`
	State     string    `json:"state"`
	ChangedAt time.Time `json:"changed_at"`
}

// SensorAttributes are the extra attributes published next to the sensor value.
// Start and End are the resolved window boundaries rendered in local time
// as "YYYY-MM-DD HH:MM:SS".
type SensorAttributes struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SensorSnapshot is the full sensor surface as exposed over HTTP and WebSocket.
type SensorSnapshot struct {
	Name              string           `json:"name"`
	State             float64          `json:"state"`
	UnitOfMeasurement string           `json:"unit_of_measurement"`
	Icon              string           `json:"icon"`
	ShouldPoll        bool             `json:"should_poll"`
	Attributes        SensorAttributes `json:"attributes"`
}
