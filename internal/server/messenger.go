package server

import (
	"context"
	"errors"
)

// ErrDeliveryFailed is returned when a direct message cannot reach a player
var ErrDeliveryFailed = errors.New("delivery failed")

// ErrUnknownPlayer is returned by a Directory for identities it cannot resolve
var ErrUnknownPlayer = errors.New("unknown player")

// Handle identifies a delivered message so that it can be edited later
type Handle string

// Choice is one selectable option attached to a message. Rendering is up
// to the transport; Value is what comes back when the option is picked.
type Choice struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Messenger delivers text to a room or a single player
type Messenger interface {
	SendToRoom(ctx context.Context, sessionID, text string, choices []Choice) (Handle, error)
	SendDirect(ctx context.Context, playerID, text string, choices []Choice) (Handle, error)
	EditMessage(ctx context.Context, handle Handle, text string, choices []Choice) error
}

// Identity is a resolved player
type Identity struct {
	ID          string
	DisplayName string
}

// Directory resolves an actor identity into a player ID and display name
type Directory interface {
	Resolve(ctx context.Context, actor string) (Identity, error)
}
