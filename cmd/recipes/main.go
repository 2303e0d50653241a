package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pageza/recipe-finder/config"
	"github.com/pageza/recipe-finder/internal/app"
	"github.com/pageza/recipe-finder/internal/logging"
	"github.com/pageza/recipe-finder/internal/tui"
	"go.uber.org/zap"
)

func main() {
	apiURL := flag.String("api", "", "Backend base URL (overrides API_BASE_URL)")
	sessionBackend := flag.String("session", "", "Session cache backend: file, redis or sqlite (overrides SESSION_BACKEND)")
	logLevel := flag.String("log-level", "", "Log level (overrides LOG_LEVEL)")
	flag.Parse()

	// Initialize configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *apiURL != "" {
		cfg.APIBaseURL = *apiURL
	}
	if *sessionBackend != "" {
		cfg.SessionBackend = *sessionBackend
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err := config.ValidateConfig(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surface := tui.NewSurface(logger.Named("tui"))
	a, err := app.New(ctx, cfg, logger, surface)
	if err != nil {
		logger.Error("failed to start client", zap.Error(err))
		log.Fatalf("Failed to start: %v", err)
	}
	defer a.Close()
	a.Registry.OnChange(surface.Changed)

	program := tea.NewProgram(tui.New(ctx, a, logger.Named("tui")),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	surface.Attach(program)
	defer surface.Stop()

	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		logger.Error("terminal program exited", zap.Error(err))
		fmt.Fprintf(os.Stderr, "recipe-finder: %v\n", err)
		os.Exit(1)
	}
	logger.Info("client stopped")
}
