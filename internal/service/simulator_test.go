package service

import (
	"context"
	"testing"
	"time"

	"history_stats/internal/logger"
	"history_stats/internal/models"
)

func newTestSimulator(h *stubHistory, notify chan models.StateChangeEvent) *SimulatorService {
	return NewSimulatorService(h, logger.Get(logger.ErrorLevel), SimulatorConfig{
		EntityID: "binary_sensor.door",
		OnState:  "on",
		OffState: "off",
		MinDwell: time.Minute,
		MaxDwell: time.Minute, // min == max keeps the dwell deterministic
	}, notify)
}

func TestSimulator_StepFlipsAfterDwell(t *testing.T) {
	h := &stubHistory{}
	notify := make(chan models.StateChangeEvent, 4)
	sim := newTestSimulator(h, notify)

	t0 := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	// first step flips immediately
	sim.step(ctx, t0)
	if len(h.appended) != 1 {
		t.Fatalf("appended %d events, want 1", len(h.appended))
	}
	if h.appended[0].State != "on" || h.appended[0].EntityID != "binary_sensor.door" {
		t.Fatalf("unexpected event: %+v", h.appended[0])
	}
	select {
	case ev := <-notify:
		if ev.State != "on" {
			t.Fatalf("notified state %q, want on", ev.State)
		}
	default:
		t.Fatalf("no notification published")
	}

	// within the dwell window nothing happens
	sim.step(ctx, t0.Add(30*time.Second))
	if len(h.appended) != 1 {
		t.Fatalf("flipped too early: %d events", len(h.appended))
	}

	// after the dwell the entity toggles back
	sim.step(ctx, t0.Add(61*time.Second))
	if len(h.appended) != 2 {
		t.Fatalf("appended %d events, want 2", len(h.appended))
	}
	if h.appended[1].State != "off" {
		t.Fatalf("second event state %q, want off", h.appended[1].State)
	}
}

func TestSimulator_FullNotifyChannelDoesNotBlock(t *testing.T) {
	h := &stubHistory{}
	notify := make(chan models.StateChangeEvent) // unbuffered, nobody reads
	sim := newTestSimulator(h, notify)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sim.step(context.Background(), time.Now())
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("step blocked on a full notification channel")
	}
	if len(h.appended) != 1 {
		t.Fatalf("appended %d events, want 1", len(h.appended))
	}
}

func TestSimulator_RunStopsOnCancel(t *testing.T) {
	h := &stubHistory{}
	sim := newTestSimulator(h, make(chan models.StateChangeEvent, 16))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sim.Run(ctx, time.Millisecond)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Run did not stop after cancel")
	}
}
