package server

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lox/blindbid/internal/game"
)

// ErrUnknownMessageType is returned for message types with no command
var ErrUnknownMessageType = errors.New("unknown message type")

// DecodeCommand turns a client message from an authenticated player into a
// game event. Payloads that fail to parse or validate are rejected with
// game.ErrMalformedCommand.
func DecodeCommand(msg *Message, playerID string) (game.Event, error) {
	var (
		sessionID string
		cmd       game.Command
	)

	switch msg.Type {
	case MessageTypeNewGame, MessageTypeJoin, MessageTypeAddBot, MessageTypeStartGame:
		var data SessionData
		if err := decodeData(msg, &data); err != nil {
			return game.Event{}, err
		}
		sessionID = data.SessionID

		switch msg.Type {
		case MessageTypeNewGame:
			cmd = game.CreateRoom{}
		case MessageTypeJoin:
			cmd = game.Join{PlayerID: playerID}
		case MessageTypeAddBot:
			cmd = game.AddAutomated{}
		default:
			cmd = game.StartGame{}
		}

	case MessageTypeSelectSecret:
		var data SelectSecretData
		if err := decodeData(msg, &data); err != nil {
			return game.Event{}, err
		}
		sessionID = data.SessionID
		cmd = game.SelectSecret{PlayerID: playerID, Number: data.Number}

	case MessageTypeAuctionAction:
		var data AuctionActionData
		if err := decodeData(msg, &data); err != nil {
			return game.Event{}, err
		}
		action, err := game.ParseBidAction(data.Action)
		if err != nil {
			return game.Event{}, fmt.Errorf("%w: %w", game.ErrMalformedCommand, err)
		}
		sessionID = data.SessionID
		cmd = game.AuctionAction{PlayerID: playerID, Action: action}

	default:
		return game.Event{}, fmt.Errorf("%w: %s", ErrUnknownMessageType, msg.Type)
	}

	ev := game.Event{SessionID: sessionID, Command: cmd}
	if err := ev.Validate(); err != nil {
		return game.Event{}, err
	}
	return ev, nil
}

func decodeData(msg *Message, v any) error {
	if len(msg.Data) == 0 {
		return fmt.Errorf("%w: %s has no data", game.ErrMalformedCommand, msg.Type)
	}
	if err := json.Unmarshal(msg.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", game.ErrMalformedCommand, msg.Type, err)
	}
	return nil
}
