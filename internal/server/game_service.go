package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blindbid/internal/bot"
	"github.com/lox/blindbid/internal/game"
)

// ErrNoRoom is returned for in-game commands addressed to a session
// without a room
var ErrNoRoom = errors.New("no room for session")

// GameSummary describes a finished game
type GameSummary struct {
	SessionID  string
	Standings  []game.Standing
	FinishedAt time.Time
}

// GameService routes inbound events to the table for their session
type GameService struct {
	messenger Messenger
	directory Directory
	clock     quartz.Clock
	agent     game.Agent
	settings  GameSettings
	onGameEnd func(GameSummary)
	logger    *log.Logger
	store     *RoomStore
}

// Option configures a GameService
type Option func(*GameService)

// WithClock sets the clock used for timers and activity tracking
func WithClock(clock quartz.Clock) Option {
	return func(gs *GameService) {
		gs.clock = clock
	}
}

// WithAgent sets the agent that plays automated seats
func WithAgent(agent game.Agent) Option {
	return func(gs *GameService) {
		gs.agent = agent
	}
}

// WithGameSettings sets timeouts and delays
func WithGameSettings(settings GameSettings) Option {
	return func(gs *GameService) {
		gs.settings = settings
	}
}

// WithGameOverHook registers a callback for finished games. It runs while
// the finishing table is locked and must not call back into the service.
func WithGameOverHook(fn func(GameSummary)) Option {
	return func(gs *GameService) {
		gs.onGameEnd = fn
	}
}

// NewGameService creates a game service delivering through messenger
func NewGameService(messenger Messenger, directory Directory, logger *log.Logger, opts ...Option) *GameService {
	gs := &GameService{
		messenger: messenger,
		directory: directory,
		clock:     quartz.NewReal(),
		settings:  DefaultGameSettings(),
		logger:    logger.WithPrefix("game"),
	}
	for _, opt := range opts {
		opt(gs)
	}
	if gs.agent == nil {
		gs.agent = bot.NewHeuristic(logger)
	}
	gs.store = NewRoomStore(gs.newTable)
	return gs
}

func (gs *GameService) newTable(sessionID string) *Table {
	return NewTable(sessionID, TableOptions{
		Messenger: gs.messenger,
		Clock:     gs.clock,
		Agent:     gs.agent,
		Settings:  gs.settings,
		Logger:    gs.logger,
		OnFinish:  gs.finished,
	})
}

// finished runs with the table locked
func (gs *GameService) finished(t *Table, result game.RoundResult) {
	gs.store.destroyIf(t.SessionID(), t)

	summary := GameSummary{
		SessionID:  t.SessionID(),
		Standings:  result.Standings,
		FinishedAt: gs.clock.Now(),
	}
	gs.logger.Info("Game over", "session", summary.SessionID, "winner", summary.Standings[0].Name, "score", summary.Standings[0].Score)
	if gs.onGameEnd != nil {
		gs.onGameEnd(summary)
	}
}

// Store returns the room registry
func (gs *GameService) Store() *RoomStore {
	return gs.store
}

// Handle validates an event and applies it to the session's table.
// Rejections have already been reported to the actor when an error is
// returned.
func (gs *GameService) Handle(ctx context.Context, ev game.Event) error {
	if err := ev.Validate(); err != nil {
		gs.logger.Debug("Malformed event", "session", ev.SessionID, "error", err)
		return err
	}

	switch cmd := ev.Command.(type) {
	case game.CreateRoom:
		table, created := gs.store.GetOrCreate(ev.SessionID)
		gs.logger.Info("New game requested", "session", ev.SessionID, "created", created)
		table.Reset(ctx)
		return nil

	case game.Join:
		id, err := gs.directory.Resolve(ctx, cmd.PlayerID)
		if err != nil {
			gs.notify(ctx, cmd.PlayerID, "I couldn't work out who you are.")
			return fmt.Errorf("resolve %q: %w", cmd.PlayerID, err)
		}
		table, _ := gs.store.GetOrCreate(ev.SessionID)
		return table.Join(ctx, id)

	case game.AddAutomated:
		table, _ := gs.store.GetOrCreate(ev.SessionID)
		return table.AddAutomated(ctx)

	case game.StartGame:
		table, _ := gs.store.GetOrCreate(ev.SessionID)
		return table.Start(ctx)

	case game.SelectSecret:
		table, ok := gs.store.Get(ev.SessionID)
		if !ok {
			return gs.noRoom(ctx, ev.SessionID, cmd.PlayerID)
		}
		return table.SelectSecret(ctx, cmd.PlayerID, cmd.Number)

	case game.AuctionAction:
		table, ok := gs.store.Get(ev.SessionID)
		if !ok {
			return gs.noRoom(ctx, ev.SessionID, cmd.PlayerID)
		}
		return table.Act(ctx, cmd.PlayerID, cmd.Action)

	default:
		return fmt.Errorf("%w: unsupported command %T", game.ErrMalformedCommand, cmd)
	}
}

func (gs *GameService) noRoom(ctx context.Context, sessionID, playerID string) error {
	gs.logger.Debug("Command for unknown session", "session", sessionID, "player", playerID)
	gs.notify(ctx, playerID, "There is no game running here. Start a new game first.")
	return fmt.Errorf("%w: %s", ErrNoRoom, sessionID)
}

func (gs *GameService) notify(ctx context.Context, playerID, text string) {
	if _, err := gs.messenger.SendDirect(ctx, playerID, text, nil); err != nil {
		gs.logger.Warn("Failed to notify player", "player", playerID, "error", err)
	}
}

// RunReaper destroys idle rooms until ctx is cancelled
func (gs *GameService) RunReaper(ctx context.Context) error {
	if gs.settings.IdleTimeout <= 0 {
		<-ctx.Done()
		return nil
	}

	waiter := gs.clock.TickerFunc(ctx, gs.settings.ReapInterval, func() error {
		reaped := gs.store.Reap(gs.clock.Now(), gs.settings.IdleTimeout)
		if len(reaped) > 0 {
			gs.logger.Info("Reaped idle rooms", "sessions", reaped, "remaining", gs.store.Len())
		}
		return nil
	}, "reaper")

	err := waiter.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// Shutdown stops every table's timers
func (gs *GameService) Shutdown() {
	for _, id := range gs.store.Sessions() {
		if t, ok := gs.store.Get(id); ok {
			t.Close()
		}
	}
}
