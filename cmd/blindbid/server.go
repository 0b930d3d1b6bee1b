package main

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lox/blindbid/cmd/blindbid/shared"
	"github.com/lox/blindbid/internal/server"
)

// ServerCmd runs the websocket game server
type ServerCmd struct {
	Config           string        `short:"c" default:"server.hcl" help:"Path to HCL configuration file"`
	Addr             string        `help:"Listen address host (overrides config)"`
	Port             int           `short:"p" help:"Listen port (overrides config)"`
	LogLevel         string        `short:"l" help:"Log level: debug, info, warn, error (overrides config)"`
	SelectionTimeout time.Duration `help:"Time humans get to pick a secret (overrides config)"`
	BotDelay         time.Duration `help:"Pause before each bot move (overrides config)"`
}

func (c *ServerCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	c.applyOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := shared.SetupLogger(cfg.Server.LogLevel)
	if err != nil {
		return err
	}

	settings := cfg.GameSettings()
	srv := server.NewServer(cfg.GetServerAddress(), logger)
	service := server.NewGameService(srv, srv, logger,
		server.WithGameSettings(settings),
		server.WithGameOverHook(func(s server.GameSummary) {
			logger.Info("Final standings", "session", s.SessionID, "standings", s.Standings)
		}),
	)
	srv.SetGameService(service)

	logger.Info("Starting blindbid server",
		"address", cfg.GetServerAddress(),
		"selection_timeout", settings.SelectionTimeout,
		"bot_delay", settings.BotDelay,
		"idle_timeout", settings.IdleTimeout)

	ctx := shared.SetupSignalHandlerWithLogger(logger)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(srv.Start)
	g.Go(func() error {
		return service.RunReaper(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		service.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (c *ServerCmd) applyOverrides(cfg *server.ServerConfig) {
	if c.Addr != "" {
		cfg.Server.Address = c.Addr
	}
	if c.Port != 0 {
		cfg.Server.Port = c.Port
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}
	if c.SelectionTimeout > 0 {
		cfg.Game.SelectionTimeoutSeconds = int(c.SelectionTimeout / time.Second)
	}
	if c.BotDelay > 0 {
		cfg.Game.BotDelayMs = int(c.BotDelay / time.Millisecond)
	}
}
