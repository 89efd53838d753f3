package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/fieldlink/fieldlink/agent/internal/camera"
	"github.com/fieldlink/fieldlink/agent/internal/telemetry"
	"github.com/fieldlink/fieldlink/agent/internal/uplink"
)

// TelemetrySource yields whatever complete sentences the receiver has
// buffered, in arrival order, without blocking.
type TelemetrySource interface {
	Poll() []telemetry.Line
}

// Camera captures one frame per call. A frame obtained from Capture must be
// handed back to Release exactly once.
type Camera interface {
	Capture(ctx context.Context) (*camera.Frame, error)
	Release(f *camera.Frame)
}

// Deliverer sends one payload to one channel and classifies the attempt.
type Deliverer interface {
	Deliver(ctx context.Context, payload []byte, ch uplink.Channel) uplink.Outcome
}

// Config is the scheduler's immutable runtime configuration.
type Config struct {
	// CycleInterval is the idle time between cycles, measured from the end
	// of one cycle to the start of the next.
	CycleInterval time.Duration

	ImageChannel     uplink.Channel
	TelemetryChannel uplink.Channel
}

// Scheduler runs the uplink loop: drain telemetry, capture one image,
// deliver both, idle. It owns no hardware state — everything it touches
// comes in through the three collaborator interfaces — and it carries no
// state between cycles besides the interval timer. Failures of any kind
// are logged and absorbed; only context cancellation stops the loop.
type Scheduler struct {
	cfg Config
	gps TelemetrySource
	cam Camera
	up  Deliverer
}

// New builds a Scheduler over the three collaborators.
func New(cfg Config, gps TelemetrySource, cam Camera, up Deliverer) (*Scheduler, error) {
	if cfg.CycleInterval <= 0 {
		return nil, errors.New("scheduler: cycle interval must be positive")
	}
	if gps == nil || cam == nil || up == nil {
		return nil, errors.New("scheduler: all collaborators are required")
	}
	return &Scheduler{cfg: cfg, gps: gps, cam: cam, up: up}, nil
}

// Run executes cycles until ctx is cancelled. Cycles never overlap: each
// one completes all of its deliveries before the idle wait starts, so at
// most one delivery is ever in flight.
func (s *Scheduler) Run(ctx context.Context) {
	slog.Info("scheduler: uplink loop started", "cycle_interval", s.cfg.CycleInterval)

	for {
		s.runCycle(ctx)

		select {
		case <-ctx.Done():
			slog.Info("scheduler: uplink loop stopped")
			return
		case <-time.After(s.cfg.CycleInterval):
		}
	}
}

// runCycle is one telemetry phase followed by one imaging phase.
func (s *Scheduler) runCycle(ctx context.Context) {
	s.telemetryPhase(ctx)
	s.imagingPhase(ctx)
}

// telemetryPhase drains the receiver and delivers every valid sentence in
// arrival order. A failed delivery never stops the ones behind it.
func (s *Scheduler) telemetryPhase(ctx context.Context) {
	for {
		lines := s.gps.Poll()
		if len(lines) == 0 {
			return
		}
		for _, line := range lines {
			out := s.up.Deliver(ctx, []byte(line), s.cfg.TelemetryChannel)
			if out.Delivered() {
				slog.Info("scheduler: telemetry delivered",
					"status", out.StatusCode, "len", len(line))
			} else {
				slog.Warn("scheduler: telemetry delivery failed", "err", out.Err)
			}
		}
	}
}

// imagingPhase captures one frame and delivers it. The frame is released
// exactly once, whatever the delivery outcome; on capture failure there is
// nothing to deliver or release and the cycle just moves on.
func (s *Scheduler) imagingPhase(ctx context.Context) {
	frame, err := s.cam.Capture(ctx)
	if err != nil {
		slog.Warn("scheduler: capture failed, skipping image this cycle", "err", err)
		return
	}

	size := frame.Size()
	out := s.up.Deliver(ctx, frame.Data, s.cfg.ImageChannel)
	s.cam.Release(frame)

	if out.Delivered() {
		slog.Info("scheduler: image delivered",
			"status", out.StatusCode, "size", humanize.IBytes(uint64(size)))
	} else {
		slog.Warn("scheduler: image delivery failed",
			"size", humanize.IBytes(uint64(size)), "err", out.Err)
	}
}
