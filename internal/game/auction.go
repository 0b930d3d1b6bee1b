package game

import "fmt"

// BidAction is what the seat on turn does in an auction
type BidAction int

const (
	Raise BidAction = iota
	Pass
)

// String returns the wire name of the action
func (a BidAction) String() string {
	switch a {
	case Raise:
		return "raise"
	case Pass:
		return "pass"
	default:
		return "unknown"
	}
}

// ParseBidAction converts a wire name into a BidAction
func ParseBidAction(s string) (BidAction, error) {
	switch s {
	case "raise":
		return Raise, nil
	case "pass":
		return Pass, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidAction, s)
	}
}

// OpenAuction moves a fully selected room into bidding. The seat at the
// starter index acts first.
func (r *Room) OpenAuction() error {
	if r.phase != PhaseSecretSelection {
		return ErrWrongPhase
	}
	if !r.AllSelected() {
		return fmt.Errorf("%w: secrets still missing", ErrWrongPhase)
	}

	for _, p := range r.players {
		p.Passed = false
	}
	r.bid = OpeningBid
	r.turn = r.starter
	r.phase = PhaseAuction
	return nil
}

// CurrentBid returns the price on the table. The second value is false
// outside an auction.
func (r *Room) CurrentBid() (int, bool) {
	if r.bid == 0 {
		return 0, false
	}
	return r.bid, true
}

// Active returns the seat on turn, or nil outside an auction
func (r *Room) Active() *Player {
	if r.phase != PhaseAuction && r.phase != PhaseResolution {
		return nil
	}
	return r.players[r.order[r.turn]]
}

// Alive returns the seats that have not passed, in seating order
func (r *Room) Alive() []*Player {
	var alive []*Player
	for _, id := range r.order {
		if p := r.players[id]; !p.Passed {
			alive = append(alive, p)
		}
	}
	return alive
}

// Act applies a raise or pass from the given seat
func (r *Room) Act(id string, action BidAction) error {
	switch action {
	case Raise:
		return r.Raise(id)
	case Pass:
		return r.Pass(id)
	default:
		return ErrInvalidAction
	}
}

// Raise lifts the bid by one and hands the turn on
func (r *Room) Raise(id string) error {
	if err := r.checkTurn(id); err != nil {
		return err
	}

	r.bid++
	r.turn = r.nextAlive(r.turn + 1)
	return nil
}

// Pass drops the seat out of the auction. When a single seat remains the
// room moves to PhaseResolution with that seat on turn.
func (r *Room) Pass(id string) error {
	if err := r.checkTurn(id); err != nil {
		return err
	}

	r.players[id].Passed = true
	r.turn = r.nextAlive(r.turn + 1)

	if len(r.Alive()) == 1 {
		r.phase = PhaseResolution
	}
	return nil
}

func (r *Room) checkTurn(id string) error {
	if r.phase != PhaseAuction {
		return ErrWrongPhase
	}
	p, ok := r.players[id]
	if !ok {
		return ErrNotSeated
	}
	if p.Passed {
		return ErrAlreadyPassed
	}
	if r.order[r.turn] != id {
		return ErrNotYourTurn
	}
	return nil
}

// nextAlive returns the first seat at or after from, in cycle order, that
// has not passed. At least one seat is always alive during an auction.
func (r *Room) nextAlive(from int) int {
	n := len(r.order)
	for i := 0; i < n; i++ {
		pos := (from + i) % n
		if !r.players[r.order[pos]].Passed {
			return pos
		}
	}
	return r.turn
}
