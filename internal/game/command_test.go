package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event Event
		err   error
	}{
		{"create", Event{SessionID: "s", Command: CreateRoom{}}, nil},
		{"join", Event{SessionID: "s", Command: Join{PlayerID: "p1"}}, nil},
		{"add bot", Event{SessionID: "s", Command: AddAutomated{}}, nil},
		{"start", Event{SessionID: "s", Command: StartGame{}}, nil},
		{"select", Event{SessionID: "s", Command: SelectSecret{PlayerID: "p1", Number: 6}}, nil},
		{"raise", Event{SessionID: "s", Command: AuctionAction{PlayerID: "p1", Action: Raise}}, nil},
		{"missing session", Event{Command: StartGame{}}, ErrMalformedCommand},
		{"missing command", Event{SessionID: "s"}, ErrMalformedCommand},
		{"join without player", Event{SessionID: "s", Command: Join{}}, ErrMalformedCommand},
		{"select zero", Event{SessionID: "s", Command: SelectSecret{PlayerID: "p1"}}, ErrInvalidNumber},
		{"select seven", Event{SessionID: "s", Command: SelectSecret{PlayerID: "p1", Number: 7}}, ErrMalformedCommand},
		{"unknown action", Event{SessionID: "s", Command: AuctionAction{PlayerID: "p1", Action: BidAction(9)}}, ErrInvalidAction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestCode(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "room_full", Code(ErrRoomFull))
	assert.Equal(t, "not_your_turn", Code(ErrNotYourTurn))
	assert.Equal(t, "number_already_used", Code(ErrNumberAlreadyUsed))
	assert.Equal(t, "internal", Code(assert.AnError))
	assert.True(t, IsRejection(ErrAlreadyPassed))
	assert.False(t, IsRejection(nil))
}
