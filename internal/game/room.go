package game

import "fmt"

const (
	MaxPlayers = 3
	Rounds     = 6
	MinChoice  = 1
	MaxChoice  = 6
	OpeningBid = 1
)

// Phase is the room's position in the round cycle
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseSecretSelection
	PhaseAuction
	PhaseResolution
	PhaseFinished
)

// String returns the string representation of a phase
func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseSecretSelection:
		return "secret_selection"
	case PhaseAuction:
		return "auction"
	case PhaseResolution:
		return "resolution"
	case PhaseFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Room is one game instance for exactly three seats. It is not safe for
// concurrent use.
type Room struct {
	ID string

	order   []string // Join order; fixed once the game starts
	players map[string]*Player
	round   int
	starter int
	turn    int
	bid     int // 0 outside an auction
	phase   Phase
}

// NewRoom creates an empty room in the lobby
func NewRoom(id string) *Room {
	r := &Room{ID: id}
	r.Reset()
	return r
}

// Reset empties the room and returns it to the lobby
func (r *Room) Reset() {
	r.order = make([]string, 0, MaxPlayers)
	r.players = make(map[string]*Player, MaxPlayers)
	r.round = 1
	r.starter = 0
	r.turn = 0
	r.bid = 0
	r.phase = PhaseLobby
}

// Phase returns the current phase
func (r *Room) Phase() Phase { return r.phase }

// Round returns the current round number, starting at 1
func (r *Room) Round() int { return r.round }

// Players returns the seats in join order
func (r *Room) Players() []*Player {
	players := make([]*Player, len(r.order))
	for i, id := range r.order {
		players[i] = r.players[id]
	}
	return players
}

// Player looks up a seat by ID
func (r *Room) Player(id string) (*Player, bool) {
	p, ok := r.players[id]
	return p, ok
}

// Starter returns the seat that opens this round's auction
func (r *Room) Starter() *Player {
	if len(r.order) == 0 {
		return nil
	}
	return r.players[r.order[r.starter]]
}

// Join seats a human player
func (r *Room) Join(id, name string) error {
	if _, exists := r.players[id]; exists {
		return ErrAlreadyJoined
	}
	if len(r.order) >= MaxPlayers {
		return ErrRoomFull
	}
	r.seat(NewPlayer(id, name, false))
	return nil
}

// AddAutomated seats the next automated player
func (r *Room) AddAutomated() (*Player, error) {
	if len(r.order) >= MaxPlayers {
		return nil, ErrRoomFull
	}

	n := 1
	for _, p := range r.players {
		if p.IsAutomated {
			n++
		}
	}
	// a human may already hold the next bot ID
	for {
		if _, taken := r.players[fmt.Sprintf("bot-%d", n)]; !taken {
			break
		}
		n++
	}

	p := NewPlayer(fmt.Sprintf("bot-%d", n), fmt.Sprintf("Bot %d", n), true)
	r.seat(p)
	return p, nil
}

func (r *Room) seat(p *Player) {
	r.players[p.ID] = p
	r.order = append(r.order, p.ID)
}

// Start fixes the seating order and opens round 1
func (r *Room) Start() error {
	if r.phase != PhaseLobby {
		return ErrGameInProgress
	}
	if len(r.order) != MaxPlayers {
		return ErrWrongPlayerCount
	}

	r.round = 1
	r.starter = 0
	r.beginRound()
	return nil
}

func (r *Room) beginRound() {
	for _, p := range r.players {
		p.clearRound()
	}
	r.bid = 0
	r.turn = r.starter
	r.phase = PhaseSecretSelection
}

// SelectSecret records a seat's hidden number for the current round
func (r *Room) SelectSecret(id string, n int) error {
	p, ok := r.players[id]
	if !ok {
		return ErrNotSeated
	}
	if r.phase != PhaseSecretSelection {
		return ErrWrongPhase
	}
	if n < MinChoice || n > MaxChoice {
		return ErrInvalidNumber
	}
	if p.HasSecret() {
		return ErrSecretAlreadyChosen
	}
	if p.Used(n) {
		return ErrNumberAlreadyUsed
	}

	p.Secret = n
	return nil
}

// AllSelected reports whether every seat holds a secret
func (r *Room) AllSelected() bool {
	return len(r.Stragglers()) == 0
}

// Stragglers returns the seats still without a secret, in join order
func (r *Room) Stragglers() []*Player {
	var missing []*Player
	for _, id := range r.order {
		if p := r.players[id]; !p.HasSecret() {
			missing = append(missing, p)
		}
	}
	return missing
}

// FillMissingSecrets assigns each straggler its lowest unused number and
// returns the affected seats.
func (r *Room) FillMissingSecrets() []*Player {
	if r.phase != PhaseSecretSelection {
		return nil
	}

	missing := r.Stragglers()
	for _, p := range missing {
		p.Secret = p.LowestUnused()
	}
	return missing
}
