package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fieldlink/fieldlink/agent/internal/camera"
	"github.com/fieldlink/fieldlink/agent/internal/config"
	"github.com/fieldlink/fieldlink/agent/internal/scheduler"
	"github.com/fieldlink/fieldlink/agent/internal/telemetry"
	"github.com/fieldlink/fieldlink/agent/internal/telemetry/serial"
	"github.com/fieldlink/fieldlink/agent/internal/uplink"
	"github.com/fieldlink/fieldlink/pkg/logging"
)

func main() {
	configPath := flag.String("config", "agent.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	level, err := logging.Setup(cfg.Agent.Log)
	if err != nil {
		slog.Error("failed to set up logging", "err", err)
		os.Exit(1)
	}

	slog.Info("fieldlink-agent starting",
		"config", *configPath,
		"cycle_interval", cfg.Agent.CycleInterval,
		"image_url", cfg.Agent.Uplink.ImageURL,
		"telemetry_url", cfg.Agent.Uplink.TelemetryURL,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Everything below here is startup: any failure is fatal and the
	// supervisor restarts the process. The uplink loop is only entered
	// fully initialized.

	port, err := serial.Open(serial.Config{
		Device:      cfg.Agent.GPS.Device,
		BaudRate:    cfg.Agent.GPS.BaudRate,
		ReadTimeout: cfg.Agent.GPS.ReadTimeout,
	})
	if err != nil {
		slog.Error("gps receiver init failed", "device", cfg.Agent.GPS.Device, "err", err)
		os.Exit(1)
	}
	defer port.Close()
	slog.Info("gps receiver ready",
		"device", cfg.Agent.GPS.Device, "baud_rate", cfg.Agent.GPS.BaudRate)

	cam, err := camera.New(camera.Config{
		Type:        cfg.Agent.Camera.Type,
		Command:     cfg.Agent.Camera.Command,
		Args:        cfg.Agent.Camera.Args,
		SnapshotURL: cfg.Agent.Camera.SnapshotURL,
		Timeout:     cfg.Agent.Camera.Timeout,
	})
	if err != nil {
		slog.Error("camera init failed", "type", cfg.Agent.Camera.Type, "err", err)
		os.Exit(1)
	}
	defer cam.Close()
	slog.Info("camera ready", "type", cfg.Agent.Camera.Type)

	client, err := uplink.New(uplink.Config{
		ImageURL:          cfg.Agent.Uplink.ImageURL,
		TelemetryURL:      cfg.Agent.Uplink.TelemetryURL,
		Timeout:           cfg.Agent.Uplink.Timeout,
		AssociateAttempts: cfg.Agent.Uplink.AssociateAttempts,
		AssociateInterval: cfg.Agent.Uplink.AssociateInterval,
	})
	if err != nil {
		slog.Error("uplink client init failed", "err", err)
		os.Exit(1)
	}

	if err := client.Associate(ctx); err != nil {
		slog.Error("collector association failed, restarting", "err", err)
		os.Exit(1)
	}

	// Watch the config file; only the log level is applied at runtime.
	// Endpoints and hardware settings are fixed for the process lifetime.
	go func() {
		err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			lv, err := logging.ParseLevel(updated.Agent.Log.Level)
			if err != nil {
				slog.Error("config reload: bad log level, keeping current", "err", err)
				return
			}
			level.Set(lv)
			slog.Info("config reloaded, log level applied", "level", lv)
		})
		if err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	sched, err := scheduler.New(scheduler.Config{
		CycleInterval:    cfg.Agent.CycleInterval,
		ImageChannel:     client.Image(),
		TelemetryChannel: client.Telemetry(),
	}, telemetry.NewAssembler(port, cfg.Agent.GPS.MinLineLength), cam, client)
	if err != nil {
		slog.Error("scheduler init failed", "err", err)
		os.Exit(1)
	}

	sched.Run(ctx)
	slog.Info("fieldlink-agent shutting down")
}
