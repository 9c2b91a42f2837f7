// Package main provides the WebSocket relay server for relmap viewers.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/relmap/internal/config"
	"github.com/raphaelgruber/relmap/internal/server"
)

func main() {
	// Flags override the environment
	cfg := config.Load()
	addr := flag.String("addr", cfg.ServerAddr, "listen address")
	logLevel := flag.String("log-level", "", "log level: debug, info, warn or error")
	flag.Parse()

	if *logLevel != "" {
		cfg.LogLevel = config.ParseLogLevel(*logLevel)
	}

	logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() {
		if err := cleanup(); err != nil {
			slog.Error("failed to close log file", "error", err)
		}
	}()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("starting relmap-server", "addr", *addr)
	if err := server.New(*addr, logger).Run(ctx); err != nil {
		slog.Error("server error", "error", err)
		stop()
		os.Exit(1)
	}
	slog.Info("server stopped")
}
