package server

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{})
}

type sentMessage struct {
	Handle  Handle
	Session string // Set for room messages
	Player  string // Set for direct messages
	Text    string
	Choices []Choice
}

// recordingMessenger keeps every delivery and edit in memory
type recordingMessenger struct {
	mu          sync.Mutex
	next        int
	sent        []sentMessage
	edits       map[Handle][]sentMessage
	unreachable map[string]bool
}

func newRecordingMessenger() *recordingMessenger {
	return &recordingMessenger{
		edits:       make(map[Handle][]sentMessage),
		unreachable: make(map[string]bool),
	}
}

func (m *recordingMessenger) SendToRoom(_ context.Context, sessionID, text string, choices []Choice) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	h := Handle(fmt.Sprintf("msg-%d", m.next))
	m.sent = append(m.sent, sentMessage{Handle: h, Session: sessionID, Text: text, Choices: choices})
	return h, nil
}

func (m *recordingMessenger) SendDirect(_ context.Context, playerID, text string, choices []Choice) (Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.unreachable[playerID] {
		return "", ErrDeliveryFailed
	}
	m.next++
	h := Handle(fmt.Sprintf("msg-%d", m.next))
	m.sent = append(m.sent, sentMessage{Handle: h, Player: playerID, Text: text, Choices: choices})
	return h, nil
}

func (m *recordingMessenger) EditMessage(_ context.Context, handle Handle, text string, choices []Choice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edits[handle] = append(m.edits[handle], sentMessage{Handle: handle, Text: text, Choices: choices})
	return nil
}

func (m *recordingMessenger) setUnreachable(playerID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unreachable[playerID] = true
}

func (m *recordingMessenger) roomTexts(sessionID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var texts []string
	for _, s := range m.sent {
		if s.Session == sessionID {
			texts = append(texts, s.Text)
		}
	}
	return texts
}

func (m *recordingMessenger) direct(playerID string) []sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []sentMessage
	for _, s := range m.sent {
		if s.Player == playerID {
			out = append(out, s)
		}
	}
	return out
}

func (m *recordingMessenger) lastEdit(h Handle) (sentMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	edits := m.edits[h]
	if len(edits) == 0 {
		return sentMessage{}, false
	}
	return edits[len(edits)-1], true
}

// countRoom counts room messages containing substr
func (m *recordingMessenger) countRoom(sessionID, substr string) int {
	n := 0
	for _, text := range m.roomTexts(sessionID) {
		if strings.Contains(text, substr) {
			n++
		}
	}
	return n
}

type staticDirectory map[string]string

func (d staticDirectory) Resolve(_ context.Context, actor string) (Identity, error) {
	name, ok := d[actor]
	if !ok {
		return Identity{}, ErrUnknownPlayer
	}
	return Identity{ID: actor, DisplayName: name}, nil
}
