package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/blindbid/internal/game"
)

// Table runs one room. Every state change, including timer callbacks,
// happens under the table's mutex so commands for the same room never
// interleave.
type Table struct {
	sessionID string
	messenger Messenger
	clock     quartz.Clock
	agent     game.Agent
	settings  GameSettings
	logger    *log.Logger
	onFinish  func(*Table, game.RoundResult)

	mu             sync.Mutex
	room           *game.Room
	epoch          uint64 // Bumped on reset and close; stale timers compare against it
	closed         bool
	selectionTimer *quartz.Timer
	botTimer       *quartz.Timer
	board          Handle            // Auction board message for the current round
	prompts        map[string]Handle // Private secret prompts by player ID
	lastActivity   time.Time
}

// TableOptions carries the collaborators a table needs
type TableOptions struct {
	Messenger Messenger
	Clock     quartz.Clock
	Agent     game.Agent
	Settings  GameSettings
	Logger    *log.Logger
	OnFinish  func(*Table, game.RoundResult)
}

// NewTable creates a table with an empty room in the lobby
func NewTable(sessionID string, opts TableOptions) *Table {
	t := &Table{
		sessionID: sessionID,
		messenger: opts.Messenger,
		clock:     opts.Clock,
		agent:     opts.Agent,
		settings:  opts.Settings,
		logger:    opts.Logger.WithPrefix("table").With("session", sessionID),
		onFinish:  opts.OnFinish,
		room:      game.NewRoom(sessionID),
		prompts:   make(map[string]Handle),
	}
	t.lastActivity = t.clock.Now()
	return t
}

// SessionID returns the session the table belongs to
func (t *Table) SessionID() string {
	return t.sessionID
}

// LastActivity returns when the table last changed state
func (t *Table) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastActivity
}

// Close stops pending timers. Callbacks that are already waiting on the
// lock become no-ops.
func (t *Table) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopTimersLocked()
	t.epoch++
	t.closed = true
}

// Reset discards the current game and reopens the lobby
func (t *Table) Reset(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopTimersLocked()
	t.epoch++
	t.closed = false
	t.room.Reset()
	t.board = ""
	t.prompts = make(map[string]Handle)
	t.touchLocked()

	t.logger.Info("Table reset")
	t.sendRoomLocked(ctx, newGameText(), nil)
}

// Join seats a human player
func (t *Table) Join(ctx context.Context, id Identity) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.room.Join(id.ID, id.DisplayName); err != nil {
		t.rejectLocked(ctx, id.ID, err)
		return err
	}
	t.touchLocked()

	seated := len(t.room.Players())
	t.logger.Info("Player joined", "player", id.ID, "name", id.DisplayName, "seated", seated)
	t.sendRoomLocked(ctx, joinedText(id.DisplayName, seated), nil)
	return nil
}

// AddAutomated seats an automated player
func (t *Table) AddAutomated(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	p, err := t.room.AddAutomated()
	if err != nil {
		t.rejectLocked(ctx, "", err)
		return err
	}
	t.touchLocked()

	seated := len(t.room.Players())
	t.logger.Info("Bot added", "player", p.ID, "seated", seated)
	t.sendRoomLocked(ctx, joinedText(p.Name, seated), nil)
	return nil
}

// Start begins round 1
func (t *Table) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.room.Start(); err != nil {
		t.rejectLocked(ctx, "", err)
		return err
	}
	t.touchLocked()

	t.logger.Info("Game started")
	t.startRoundLocked(ctx)
	return nil
}

// SelectSecret records a human's hidden number
func (t *Table) SelectSecret(ctx context.Context, playerID string, n int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.room.SelectSecret(playerID, n); err != nil {
		t.rejectSelectionLocked(ctx, playerID, err)
		return err
	}
	t.touchLocked()

	p, _ := t.room.Player(playerID)
	total := len(t.room.Players())
	picked := total - len(t.room.Stragglers())
	t.logger.Debug("Secret selected", "player", playerID, "picked", picked)
	t.editPromptLocked(ctx, playerID, lockedInText(n), nil)
	t.sendRoomLocked(ctx, pickedText(p.Name, picked, total), nil)

	if t.room.AllSelected() {
		t.stopSelectionTimerLocked()
		t.openAuctionLocked(ctx)
	}
	return nil
}

// Act applies a human's raise or pass
func (t *Table) Act(ctx context.Context, playerID string, action game.BidAction) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.room.Act(playerID, action); err != nil {
		t.rejectLocked(ctx, playerID, err)
		return err
	}
	t.touchLocked()

	p, _ := t.room.Player(playerID)
	t.afterActionLocked(ctx, p, action)
	return nil
}

// TableSnapshot is a read-only view of a table
type TableSnapshot struct {
	SessionID string
	Phase     game.Phase
	Round     int
	Bid       int
	HasBid    bool
	Active    string
	Players   []PlayerSnapshot
}

// PlayerSnapshot is a read-only view of a seat
type PlayerSnapshot struct {
	ID          string
	Name        string
	IsAutomated bool
	Score       int
	Used        []int
	HasSecret   bool
	Passed      bool
}

// Snapshot returns the current table state
func (t *Table) Snapshot() TableSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := TableSnapshot{
		SessionID: t.sessionID,
		Phase:     t.room.Phase(),
		Round:     t.room.Round(),
	}
	s.Bid, s.HasBid = t.room.CurrentBid()
	if p := t.room.Active(); p != nil {
		s.Active = p.ID
	}
	for _, p := range t.room.Players() {
		s.Players = append(s.Players, PlayerSnapshot{
			ID:          p.ID,
			Name:        p.Name,
			IsAutomated: p.IsAutomated,
			Score:       p.Score,
			Used:        p.UsedNumbers(),
			HasSecret:   p.HasSecret(),
			Passed:      p.Passed,
		})
	}
	return s
}

func (t *Table) startRoundLocked(ctx context.Context) {
	round := t.room.Round()
	t.board = ""
	t.prompts = make(map[string]Handle)

	t.logger.Info("Round started", "round", round, "starter", t.room.Starter().ID)
	t.sendRoomLocked(ctx, roundStartText(round, t.room.Starter()), nil)

	for _, p := range t.room.Players() {
		if p.IsAutomated {
			n := t.agent.ChooseSecret(p)
			if err := t.room.SelectSecret(p.ID, n); err != nil {
				t.logger.Error("Bot picked an invalid secret", "player", p.ID, "number", n, "error", err)
			}
			continue
		}
		t.promptSecretLocked(ctx, p)
	}

	if t.room.AllSelected() {
		t.openAuctionLocked(ctx)
		return
	}

	epoch := t.epoch
	t.selectionTimer = t.clock.AfterFunc(t.settings.SelectionTimeout, func() {
		t.selectionExpired(epoch, round)
	}, "selection")
}

func (t *Table) promptSecretLocked(ctx context.Context, p *game.Player) {
	h, err := t.messenger.SendDirect(ctx, p.ID, selectPromptText(t.room.Round()), secretChoices(p))
	if err != nil {
		t.logger.Warn("Could not reach player privately", "player", p.ID, "error", err)
		t.sendRoomLocked(ctx, unreachableText(p.Name), nil)
		return
	}
	t.prompts[p.ID] = h
}

// selectionExpired fills in the stragglers once the selection window closes
func (t *Table) selectionExpired(epoch uint64, round int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || epoch != t.epoch || t.room.Phase() != game.PhaseSecretSelection || t.room.Round() != round {
		return
	}
	t.selectionTimer = nil

	ctx := context.Background()
	filled := t.room.FillMissingSecrets()
	t.touchLocked()

	ids := make([]string, len(filled))
	for i, p := range filled {
		ids[i] = p.ID
	}
	t.logger.Warn("Selection timed out, assigned lowest unused numbers", "round", round, "players", ids)

	t.sendRoomLocked(ctx, timeoutText(filled), nil)
	for _, p := range filled {
		t.editPromptLocked(ctx, p.ID, assignedText(p.Secret), nil)
	}
	t.openAuctionLocked(ctx)
}

func (t *Table) openAuctionLocked(ctx context.Context) {
	if err := t.room.OpenAuction(); err != nil {
		t.logger.Error("Failed to open auction", "error", err)
		return
	}

	t.logger.Debug("Auction opened", "round", t.room.Round(), "active", t.room.Active().ID)
	h, err := t.sendRoomLocked(ctx, auctionOpenText(t.room), auctionChoices())
	if err == nil {
		t.board = h
	}
	t.scheduleBotLocked()
}

func (t *Table) afterActionLocked(ctx context.Context, p *game.Player, action game.BidAction) {
	bid, _ := t.room.CurrentBid()
	line := actionLine(p.Name, action, bid)
	t.logger.Debug("Auction action", "player", p.ID, "action", action, "bid", bid)

	if t.room.Phase() == game.PhaseResolution {
		t.updateBoardLocked(ctx, line+"\nAuction closed.", nil)
		t.resolveLocked(ctx)
		return
	}

	t.updateBoardLocked(ctx, line+"\n"+statusText(t.room), auctionChoices())
	t.scheduleBotLocked()
}

// updateBoardLocked edits the auction board in place, falling back to a
// fresh message when there is no board or the edit fails.
func (t *Table) updateBoardLocked(ctx context.Context, text string, choices []Choice) {
	if t.board != "" {
		err := t.messenger.EditMessage(ctx, t.board, text, choices)
		if err == nil {
			return
		}
		t.logger.Debug("Board edit failed, sending a new board", "error", err)
	}

	h, err := t.sendRoomLocked(ctx, text, choices)
	if err == nil {
		t.board = h
	}
}

func (t *Table) scheduleBotLocked() {
	if t.room.Phase() != game.PhaseAuction {
		return
	}
	active := t.room.Active()
	if active == nil || !active.IsAutomated {
		return
	}

	epoch := t.epoch
	id := active.ID
	t.botTimer = t.clock.AfterFunc(t.settings.BotDelay, func() {
		t.botMove(epoch, id)
	}, "bot")
}

// botMove plays the automated seat on turn after its thinking delay
func (t *Table) botMove(epoch uint64, id string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed || epoch != t.epoch || t.room.Phase() != game.PhaseAuction {
		return
	}
	active := t.room.Active()
	if active == nil || active.ID != id {
		return
	}
	t.botTimer = nil

	bid, _ := t.room.CurrentBid()
	action := t.agent.Decide(active.Secret, bid)
	if err := t.room.Act(id, action); err != nil {
		t.logger.Error("Bot action rejected", "player", id, "action", action, "error", err)
		return
	}
	t.touchLocked()
	t.afterActionLocked(context.Background(), active, action)
}

func (t *Table) resolveLocked(ctx context.Context) {
	result, err := t.room.Resolve()
	if err != nil {
		t.logger.Error("Failed to resolve round", "error", err)
		return
	}

	t.logger.Info("Round resolved",
		"round", result.Round,
		"winner", result.WinnerID,
		"sum", result.TrueSum,
		"paid", result.Paid,
		"delta", result.Delta)
	t.sendRoomLocked(ctx, resultText(result), nil)

	if !result.Final {
		t.startRoundLocked(ctx)
		return
	}

	t.sendRoomLocked(ctx, podiumText(result.Standings), nil)
	t.stopTimersLocked()
	t.closed = true
	t.logger.Info("Game finished", "winner", result.Standings[0].PlayerID, "score", result.Standings[0].Score)
	if t.onFinish != nil {
		t.onFinish(t, result)
	}
}

// rejectLocked tells the actor why a request was refused. Requests without
// a human actor are answered in the room.
func (t *Table) rejectLocked(ctx context.Context, playerID string, err error) {
	t.logger.Debug("Rejected request", "player", playerID, "code", game.Code(err))
	text := rejectionText(err)

	if p, ok := t.room.Player(playerID); ok && p.IsAutomated {
		return
	}
	if playerID == "" {
		t.sendRoomLocked(ctx, text, nil)
		return
	}
	if _, derr := t.messenger.SendDirect(ctx, playerID, text, nil); derr != nil {
		name := playerID
		if p, ok := t.room.Player(playerID); ok {
			name = p.Name
		}
		t.sendRoomLocked(ctx, name+": "+text, nil)
	}
}

// rejectSelectionLocked reports a refused pick on the player's prompt so
// they can choose again.
func (t *Table) rejectSelectionLocked(ctx context.Context, playerID string, err error) {
	p, seated := t.room.Player(playerID)
	h, prompted := t.prompts[playerID]
	if !seated || !prompted {
		t.rejectLocked(ctx, playerID, err)
		return
	}

	var choices []Choice
	if t.room.Phase() == game.PhaseSecretSelection && !p.HasSecret() {
		choices = secretChoices(p)
	}
	t.logger.Debug("Rejected selection", "player", playerID, "code", game.Code(err))
	if eerr := t.messenger.EditMessage(ctx, h, rejectionText(err), choices); eerr != nil {
		t.rejectLocked(ctx, playerID, err)
	}
}

func (t *Table) editPromptLocked(ctx context.Context, playerID, text string, choices []Choice) {
	h, ok := t.prompts[playerID]
	if !ok {
		return
	}
	if err := t.messenger.EditMessage(ctx, h, text, choices); err != nil {
		t.logger.Debug("Prompt edit failed", "player", playerID, "error", err)
	}
}

func (t *Table) sendRoomLocked(ctx context.Context, text string, choices []Choice) (Handle, error) {
	h, err := t.messenger.SendToRoom(ctx, t.sessionID, text, choices)
	if err != nil {
		t.logger.Warn("Failed to send room message", "error", err)
	}
	return h, err
}

func (t *Table) stopSelectionTimerLocked() {
	if t.selectionTimer != nil {
		t.selectionTimer.Stop()
		t.selectionTimer = nil
	}
}

func (t *Table) stopTimersLocked() {
	t.stopSelectionTimerLocked()
	if t.botTimer != nil {
		t.botTimer.Stop()
		t.botTimer = nil
	}
}

func (t *Table) touchLocked() {
	t.lastActivity = t.clock.Now()
}
