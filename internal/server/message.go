package server

import (
	"encoding/json"
	"time"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type AuthData struct {
	PlayerName string `json:"playerName"`
	Token      string `json:"token,omitempty"`
}

// SessionData addresses new_game, join, add_bot and start_game
type SessionData struct {
	SessionID string `json:"sessionId"`
}

type SelectSecretData struct {
	SessionID string `json:"sessionId"`
	Number    int    `json:"number"`
}

type AuctionActionData struct {
	SessionID string `json:"sessionId"`
	Action    string `json:"action"` // "raise" or "pass"
}

// Server → Client Messages

type AuthResponseData struct {
	Success  bool   `json:"success"`
	PlayerID string `json:"playerId,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NoticeData carries both notice and notice_edit. SessionID is empty for
// direct messages.
type NoticeData struct {
	Handle    Handle   `json:"handle"`
	SessionID string   `json:"sessionId,omitempty"`
	Text      string   `json:"text"`
	Choices   []Choice `json:"choices,omitempty"`
}
