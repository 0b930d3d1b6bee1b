package game

import "errors"

// Rejections. None of these are fatal to a room; the caller reports them
// to the acting player and carries on.
var (
	ErrRoomFull            = errors.New("room is full")
	ErrAlreadyJoined       = errors.New("already joined")
	ErrWrongPlayerCount    = errors.New("exactly 3 players are required")
	ErrGameInProgress      = errors.New("game already in progress")
	ErrNotSeated           = errors.New("player is not seated in this room")
	ErrWrongPhase          = errors.New("action not allowed in this phase")
	ErrInvalidNumber       = errors.New("number must be between 1 and 6")
	ErrSecretAlreadyChosen = errors.New("number already chosen this round")
	ErrNumberAlreadyUsed   = errors.New("number already used earlier in the game")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrAlreadyPassed       = errors.New("already passed")
	ErrInvalidAction       = errors.New("invalid auction action")
	ErrMalformedCommand    = errors.New("malformed command")
)

var errorCodes = []struct {
	err  error
	code string
}{
	{ErrRoomFull, "room_full"},
	{ErrAlreadyJoined, "already_joined"},
	{ErrWrongPlayerCount, "wrong_player_count"},
	{ErrGameInProgress, "game_in_progress"},
	{ErrNotSeated, "not_seated"},
	{ErrWrongPhase, "wrong_phase"},
	{ErrInvalidNumber, "invalid_number"},
	{ErrSecretAlreadyChosen, "secret_already_chosen"},
	{ErrNumberAlreadyUsed, "number_already_used"},
	{ErrNotYourTurn, "not_your_turn"},
	{ErrAlreadyPassed, "already_passed"},
	{ErrInvalidAction, "invalid_action"},
	{ErrMalformedCommand, "malformed_command"},
}

// Code returns the stable wire code for a rejection, or "internal" for
// errors that did not originate in this package.
func Code(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return "internal"
}

// IsRejection reports whether err is one of the rule rejections above
func IsRejection(err error) bool {
	return Code(err) != "internal"
}
