package game

import "fmt"

// Command is a normalized inbound request. The set of implementations is
// closed: CreateRoom, Join, AddAutomated, StartGame, SelectSecret and
// AuctionAction.
type Command interface {
	// Validate rejects commands with missing or out-of-range fields
	Validate() error
	command()
}

// Event addresses a command to the room for a session
type Event struct {
	SessionID string
	Command   Command
}

// Validate checks the envelope and the command it carries
func (e Event) Validate() error {
	if e.SessionID == "" {
		return fmt.Errorf("%w: session id required", ErrMalformedCommand)
	}
	if e.Command == nil {
		return fmt.Errorf("%w: command required", ErrMalformedCommand)
	}
	return e.Command.Validate()
}

// CreateRoom requests a fresh room, discarding any game in progress
type CreateRoom struct{}

// Join seats the identified player
type Join struct {
	PlayerID string
}

// AddAutomated seats an automated player
type AddAutomated struct{}

// StartGame starts round 1
type StartGame struct{}

// SelectSecret picks the player's hidden number for the round
type SelectSecret struct {
	PlayerID string
	Number   int
}

// AuctionAction raises or passes on behalf of the player
type AuctionAction struct {
	PlayerID string
	Action   BidAction
}

func (CreateRoom) Validate() error   { return nil }
func (AddAutomated) Validate() error { return nil }
func (StartGame) Validate() error    { return nil }

func (c Join) Validate() error {
	return requirePlayer(c.PlayerID)
}

func (c SelectSecret) Validate() error {
	if err := requirePlayer(c.PlayerID); err != nil {
		return err
	}
	if c.Number < MinChoice || c.Number > MaxChoice {
		return fmt.Errorf("%w: %w", ErrMalformedCommand, ErrInvalidNumber)
	}
	return nil
}

func (c AuctionAction) Validate() error {
	if err := requirePlayer(c.PlayerID); err != nil {
		return err
	}
	if c.Action != Raise && c.Action != Pass {
		return fmt.Errorf("%w: %w", ErrMalformedCommand, ErrInvalidAction)
	}
	return nil
}

func requirePlayer(id string) error {
	if id == "" {
		return fmt.Errorf("%w: player id required", ErrMalformedCommand)
	}
	return nil
}

func (CreateRoom) command()    {}
func (Join) command()          {}
func (AddAutomated) command()  {}
func (StartGame) command()     {}
func (SelectSecret) command()  {}
func (AuctionAction) command() {}
