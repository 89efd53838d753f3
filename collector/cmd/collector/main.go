package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fieldlink/fieldlink/collector/internal/api"
	"github.com/fieldlink/fieldlink/collector/internal/config"
	"github.com/fieldlink/fieldlink/collector/internal/store"
	"github.com/fieldlink/fieldlink/pkg/logging"
)

func main() {
	configPath := flag.String("config", "collector.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	if _, err := logging.Setup(cfg.Collector.Log); err != nil {
		slog.Error("failed to set up logging", "err", err)
		os.Exit(1)
	}

	slog.Info("fieldlink-collector starting",
		"config", *configPath,
		"listen_addr", cfg.Collector.ListenAddr,
		"image_dir", cfg.Collector.Storage.ImageDir,
		"db_path", cfg.Collector.Storage.DBPath,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	st, err := store.Open(cfg.Collector.Storage.ImageDir, cfg.Collector.Storage.DBPath)
	if err != nil {
		slog.Error("failed to open artifact store", "err", err)
		os.Exit(1)
	}
	defer st.Close()

	httpSrv := &http.Server{
		Addr:    cfg.Collector.ListenAddr,
		Handler: api.New(st, int64(cfg.Collector.MaxUploadMB)<<20),
	}
	go func() {
		slog.Info("HTTP server listening", "addr", cfg.Collector.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("fieldlink-collector shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
