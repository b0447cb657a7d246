package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/astrafab/prodtrack/internal/api"
	"github.com/astrafab/prodtrack/internal/app"
	"github.com/astrafab/prodtrack/internal/cache"
	"github.com/astrafab/prodtrack/internal/model"
	"github.com/astrafab/prodtrack/internal/session"
	"github.com/astrafab/prodtrack/internal/store"
)

func main() {
	configPath := flag.String("config", model.DefaultConfigPath(), "path to the config file")
	statePath := flag.String("state", model.DefaultStatePath(), "path to the local state database")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	flag.Parse()

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The terminal belongs to Bubble Tea, so logs go to a file next to
	// the state database.
	logger, logFile, err := openLogger(*statePath, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer logFile.Close()

	st, err := store.NewSQLiteStore(*statePath)
	if err != nil {
		logger.Error().Err(err).Msg("failed to open state database")
		fmt.Fprintf(os.Stderr, "failed to open state database: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	sess, err := session.Restore(context.Background(), session.Keyring{}, st)
	if err != nil {
		logger.Error().Err(err).Msg("failed to restore session")
		fmt.Fprintf(os.Stderr, "failed to restore session: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(
		cfg.Server.BaseURL,
		sess,
		time.Duration(cfg.Server.TimeoutSec)*time.Second,
		logger.With().Str("component", "api").Logger(),
	)

	// Probe the service before the UI takes over; an unreachable server
	// still starts the app, it just logs the state.
	go func() {
		h, err := client.CheckHealth(context.Background())
		if err != nil {
			logger.Warn().Err(err).Str("url", cfg.Server.BaseURL).Msg("service health check failed")
			return
		}
		logger.Info().Str("status", h.Status).Str("version", h.Version).Msg("service reachable")
	}()

	root := app.New(app.Deps{
		Config:     cfg,
		ConfigPath: *configPath,
		Client:     client,
		Cache:      cache.New(logger.With().Str("component", "cache").Logger()),
		Session:    sess,
		Store:      st,
		Log:        logger,
	})

	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// openLogger writes structured logs to prodtrack.log in the state
// directory.
func openLogger(statePath, level string) (zerolog.Logger, *os.File, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	dir := filepath.Dir(statePath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("creating state directory %s: %w", dir, err)
	}

	f, err := os.OpenFile(filepath.Join(dir, "prodtrack.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, err
	}

	logger := zerolog.New(f).With().Timestamp().Logger().Level(lvl)
	return logger, f, nil
}
