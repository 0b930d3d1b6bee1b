package server

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
const (
	// Client to server messages
	MessageTypeAuth          MessageType = "auth"
	MessageTypeNewGame       MessageType = "new_game"
	MessageTypeJoin          MessageType = "join"
	MessageTypeAddBot        MessageType = "add_bot"
	MessageTypeStartGame     MessageType = "start_game"
	MessageTypeSelectSecret  MessageType = "select_secret"
	MessageTypeAuctionAction MessageType = "auction_action"

	// Server to client messages
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeError        MessageType = "error"
	MessageTypeNotice       MessageType = "notice"
	MessageTypeNoticeEdit   MessageType = "notice_edit"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
