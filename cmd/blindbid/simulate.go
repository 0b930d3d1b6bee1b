package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/blindbid/cmd/blindbid/shared"
	"github.com/lox/blindbid/internal/game"
	"github.com/lox/blindbid/internal/server"
)

// SimulateCmd plays all-bot games in parallel
type SimulateCmd struct {
	Games    int           `short:"n" default:"100" help:"Number of games to play"`
	Parallel int           `default:"8" help:"Games in flight at once"`
	BotDelay time.Duration `default:"0s" help:"Pause before each bot move"`
	Timeout  time.Duration `default:"5m" help:"Give up after this long"`
	LogLevel string        `short:"l" default:"warn" help:"Log level"`
}

// logMessenger writes every delivery to the log instead of a transport
type logMessenger struct {
	logger *log.Logger
	next   atomic.Int64
}

func (m *logMessenger) handle() server.Handle {
	return server.Handle("sim-" + strconv.FormatInt(m.next.Add(1), 10))
}

func (m *logMessenger) SendToRoom(_ context.Context, sessionID, text string, _ []server.Choice) (server.Handle, error) {
	m.logger.Debug("Room", "session", sessionID, "text", text)
	return m.handle(), nil
}

func (m *logMessenger) SendDirect(_ context.Context, playerID, text string, _ []server.Choice) (server.Handle, error) {
	m.logger.Debug("Direct", "player", playerID, "text", text)
	return m.handle(), nil
}

func (m *logMessenger) EditMessage(_ context.Context, h server.Handle, text string, _ []server.Choice) error {
	m.logger.Debug("Edit", "handle", h, "text", text)
	return nil
}

// seatStats aggregates results for one seat across games
type seatStats struct {
	Wins       int
	TotalScore int
	Best       int
	Worst      int
}

func (c *SimulateCmd) Run() error {
	if c.Games < 1 {
		return fmt.Errorf("games must be at least 1")
	}
	logger, err := shared.SetupLogger(c.LogLevel)
	if err != nil {
		return err
	}

	waiters := make(map[string]chan server.GameSummary, c.Games)
	for i := 1; i <= c.Games; i++ {
		waiters[fmt.Sprintf("sim-%d", i)] = make(chan server.GameSummary, 1)
	}

	settings := server.DefaultGameSettings()
	settings.BotDelay = c.BotDelay
	settings.IdleTimeout = 0

	service := server.NewGameService(&logMessenger{logger: logger}, nil, logger,
		server.WithGameSettings(settings),
		server.WithGameOverHook(func(s server.GameSummary) {
			waiters[s.SessionID] <- s
		}),
	)
	defer service.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	start := time.Now()
	results := make([]server.GameSummary, c.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(c.Parallel, 1))

	for i := 0; i < c.Games; i++ {
		sessionID := fmt.Sprintf("sim-%d", i+1)
		g.Go(func() error {
			summary, err := playOne(ctx, service, sessionID, waiters[sessionID])
			if err != nil {
				return err
			}
			results[i] = summary
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	printSummary(results, time.Since(start))
	return nil
}

func playOne(ctx context.Context, service *server.GameService, sessionID string, done <-chan server.GameSummary) (server.GameSummary, error) {
	cmds := []game.Command{
		game.CreateRoom{},
		game.AddAutomated{},
		game.AddAutomated{},
		game.AddAutomated{},
		game.StartGame{},
	}
	for _, cmd := range cmds {
		if err := service.Handle(ctx, game.Event{SessionID: sessionID, Command: cmd}); err != nil {
			return server.GameSummary{}, fmt.Errorf("%s: %T: %w", sessionID, cmd, err)
		}
	}

	select {
	case s := <-done:
		return s, nil
	case <-ctx.Done():
		return server.GameSummary{}, fmt.Errorf("%s: %w", sessionID, ctx.Err())
	}
}

func printSummary(results []server.GameSummary, elapsed time.Duration) {
	seats := make(map[string]*seatStats)
	var names []string

	for _, r := range results {
		for rank, s := range r.Standings {
			st, ok := seats[s.Name]
			if !ok {
				st = &seatStats{Best: s.Score, Worst: s.Score}
				seats[s.Name] = st
				names = append(names, s.Name)
			}
			if rank == 0 {
				st.Wins++
			}
			st.TotalScore += s.Score
			st.Best = max(st.Best, s.Score)
			st.Worst = min(st.Worst, s.Score)
		}
	}

	rows := make([][]string, 0, len(names))
	slices.Sort(names)
	for _, name := range names {
		st := seats[name]
		rows = append(rows, []string{
			name,
			strconv.Itoa(st.Wins),
			fmt.Sprintf("%.2f", float64(st.TotalScore)/float64(len(results))),
			strconv.Itoa(st.Best),
			strconv.Itoa(st.Worst),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Seat", "Wins", "Avg score", "Best", "Worst").
		Rows(rows...)

	fmt.Printf("Played %d games in %s\n", len(results), elapsed.Round(time.Millisecond))
	fmt.Println(t.String())
}
