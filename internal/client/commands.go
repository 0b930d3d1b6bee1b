package client

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lox/blindbid/internal/server"
)

var (
	ErrEmptyLine      = errors.New("empty input")
	ErrUnknownCommand = errors.New("unknown command")
	ErrNoSession      = errors.New("no session selected")
)

// Usage lists the commands ParseLine understands
const Usage = `Commands:
  new          start a fresh game in this session
  join         take a seat
  bot          add an automated player
  start        begin round 1 once 3 players are seated
  pick N       choose your secret number (1-6); a bare number works too
  raise, r     raise the bid by 1
  pass, p      drop out of the auction`

// ParseLine turns a line of user input into a protocol message for the
// given session
func ParseLine(line, sessionID string) (*server.Message, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return nil, ErrEmptyLine
	}
	if sessionID == "" {
		return nil, ErrNoSession
	}

	session := server.SessionData{SessionID: sessionID}
	cmd, args := strings.TrimPrefix(fields[0], "/"), fields[1:]

	// A bare number is a pick
	if _, err := strconv.Atoi(cmd); err == nil {
		cmd, args = "pick", fields
	}

	switch cmd {
	case "new", "newgame":
		return server.NewMessage(server.MessageTypeNewGame, session)
	case "join":
		return server.NewMessage(server.MessageTypeJoin, session)
	case "bot", "addbot":
		return server.NewMessage(server.MessageTypeAddBot, session)
	case "start":
		return server.NewMessage(server.MessageTypeStartGame, session)
	case "pick":
		if len(args) != 1 {
			return nil, fmt.Errorf("usage: pick N")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("not a number: %q", args[0])
		}
		return server.NewMessage(server.MessageTypeSelectSecret, server.SelectSecretData{SessionID: sessionID, Number: n})
	case "raise", "r":
		return server.NewMessage(server.MessageTypeAuctionAction, server.AuctionActionData{SessionID: sessionID, Action: server.ChoiceRaise})
	case "pass", "p":
		return server.NewMessage(server.MessageTypeAuctionAction, server.AuctionActionData{SessionID: sessionID, Action: server.ChoicePass})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, fields[0])
	}
}
