package service

import (
	"errors"
	"testing"
)

func TestSensorConfig_Validate(t *testing.T) {
	t.Parallel()

	base := SensorConfig{EntityID: "binary_sensor.door", TargetState: "on"}

	cases := []struct {
		name     string
		mutate   func(c *SensorConfig)
		wantErr  bool
		wantKeys bool // expect the two-of-three error specifically
	}{
		{
			name:   "start and end",
			mutate: func(c *SensorConfig) { c.Start, c.End = "_TODAY_", "_NOW_" },
		},
		{
			name:   "start and duration",
			mutate: func(c *SensorConfig) { c.Start, c.Duration = "_TODAY_", "3600" },
		},
		{
			name:   "end and duration",
			mutate: func(c *SensorConfig) { c.End, c.Duration = "_NOW_", "3600" },
		},
		{
			name:     "none configured",
			mutate:   func(c *SensorConfig) {},
			wantErr:  true,
			wantKeys: true,
		},
		{
			name:     "only one configured",
			mutate:   func(c *SensorConfig) { c.Start = "_TODAY_" },
			wantErr:  true,
			wantKeys: true,
		},
		{
			name:     "all three configured",
			mutate:   func(c *SensorConfig) { c.Start, c.End, c.Duration = "_TODAY_", "_NOW_", "3600" },
			wantErr:  true,
			wantKeys: true,
		},
		{
			name:    "missing entity id",
			mutate:  func(c *SensorConfig) { c.EntityID = ""; c.Start, c.End = "_TODAY_", "_NOW_" },
			wantErr: true,
		},
		{
			name:    "missing target state",
			mutate:  func(c *SensorConfig) { c.TargetState = ""; c.Start, c.End = "_TODAY_", "_NOW_" },
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr && err == nil {
				t.Fatalf("Validate() = nil, want error")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
			if tc.wantKeys && !errors.Is(err, errPeriodKeys) {
				t.Fatalf("Validate() = %v, want errPeriodKeys", err)
			}
		})
	}
}
