package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"markestedt/keywatch/config"
	"markestedt/keywatch/systray"
)

func main() {
	// Setup logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	configPath, _ := config.ConfigPath()
	slog.Info("Configuration loaded", "path", configPath)

	// Validate configuration
	if len(cfg.Watches) == 0 {
		slog.Error("No watch entries configured. Please add a [[watch]] section", "path", configPath)
		os.Exit(1)
	}

	// Create agent
	agent, err := NewAgent(cfg)
	if err != nil {
		slog.Error("Failed to create agent", "error", err)
		os.Exit(1)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The tray owns the main thread; quitting it shuts the agent down too.
	tray := systray.NewSystrayManager(cfg.Web.Port, nil)
	go func() {
		select {
		case <-tray.WaitForQuit():
			cancel()
		case <-ctx.Done():
		}
	}()

	// Run agent
	errCh := make(chan error, 1)
	go func() {
		errCh <- agent.Run(ctx, tray.ToggleCapture())
		tray.Stop()
	}()

	tray.Run()

	if err := <-errCh; err != nil {
		slog.Error("Agent error", "error", err)
		os.Exit(1)
	}

	slog.Info("KeyWatch stopped")
}
