package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/blindbid/internal/server"
)

// ErrSendBufferFull is returned when outgoing commands back up
var ErrSendBufferFull = errors.New("send buffer full")

const (
	pingInterval = 54 * time.Second
	writeWait    = 10 * time.Second
)

// EventHandler is called for every message of the type it was added for
type EventHandler func(*server.Message)

// Client is a websocket connection to a game server. Handlers run on one
// goroutine in the order messages arrive.
type Client struct {
	serverURL string
	conn      *websocket.Conn
	send      chan *server.Message
	receive   chan *server.Message
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu        sync.RWMutex
	sessionID string
	handlers  map[server.MessageType][]EventHandler
	waiters   map[server.MessageType][]chan *server.Message
}

// NewClient creates a client for the given http(s) or ws(s) URL
func NewClient(serverURL string, logger *log.Logger) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		serverURL: serverURL,
		send:      make(chan *server.Message, 64),
		receive:   make(chan *server.Message, 256),
		logger:    logger.WithPrefix("client"),
		ctx:       ctx,
		cancel:    cancel,
		handlers:  make(map[server.MessageType][]EventHandler),
		waiters:   make(map[server.MessageType][]chan *server.Message),
	}
}

// websocketURL points a server URL at its /ws endpoint
func websocketURL(serverURL string) (string, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return "", fmt.Errorf("invalid server URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("invalid server URL %q: unsupported scheme", serverURL)
	}
	u.Path = "/ws"
	return u.String(), nil
}

// Connect dials the server and starts the pumps
func (c *Client) Connect() error {
	target, err := websocketURL(c.serverURL)
	if err != nil {
		return err
	}
	c.logger.Info("Connecting to server", "url", target)

	conn, _, err := websocket.DefaultDialer.DialContext(c.ctx, target, nil)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	c.conn = conn

	go c.readPump()
	go c.writePump()
	go c.dispatch()
	return nil
}

// Disconnect closes the connection. It is safe to call more than once.
func (c *Client) Disconnect() error {
	c.closeOnce.Do(func() {
		c.cancel()
		if c.conn != nil {
			_ = c.conn.Close()
		}
		c.logger.Info("Disconnected from server")
	})
	return nil
}

// Done is closed once the connection is gone
func (c *Client) Done() <-chan struct{} {
	return c.ctx.Done()
}

// SendMessage queues a message for the write pump
func (c *Client) SendMessage(msg *server.Message) error {
	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		return ErrSendBufferFull
	}
}

func (c *Client) readPump() {
	defer c.cancel()

	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
		c.logger.Debug("Received message", "type", msg.Type)

		select {
		case c.receive <- &msg:
		case <-c.ctx.Done():
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.ctx.Done():
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

func (c *Client) dispatch() {
	for {
		select {
		case msg := <-c.receive:
			c.deliver(msg)
		case <-c.ctx.Done():
			return
		}
	}
}

// deliver hands a message to one-shot waiters first, then to handlers
func (c *Client) deliver(msg *server.Message) {
	c.mu.Lock()
	waiters := c.waiters[msg.Type]
	delete(c.waiters, msg.Type)
	handlers := c.handlers[msg.Type]
	c.mu.Unlock()

	for _, w := range waiters {
		w <- msg
	}
	if len(handlers) == 0 && len(waiters) == 0 {
		c.logger.Debug("No handler for message type", "type", msg.Type)
	}
	for _, h := range handlers {
		h(msg)
	}
}

// AddEventHandler registers a handler for a message type
func (c *Client) AddEventHandler(messageType server.MessageType, handler EventHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[messageType] = append(c.handlers[messageType], handler)
}

// Auth asks the server to bind this connection to a player name
func (c *Client) Auth(playerName string) error {
	msg, err := server.NewMessage(server.MessageTypeAuth, server.AuthData{PlayerName: playerName})
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// Authenticate sends the player name and waits for the server's verdict
func (c *Client) Authenticate(playerName string, timeout time.Duration) (server.AuthResponseData, error) {
	var resp server.AuthResponseData
	ch := c.expect(server.MessageTypeAuthResponse)
	if err := c.Auth(playerName); err != nil {
		return resp, err
	}

	select {
	case msg := <-ch:
		if err := json.Unmarshal(msg.Data, &resp); err != nil {
			return resp, fmt.Errorf("bad auth response: %w", err)
		}
	case <-time.After(timeout):
		return resp, fmt.Errorf("timeout waiting for %s", server.MessageTypeAuthResponse)
	case <-c.ctx.Done():
		return resp, c.ctx.Err()
	}
	if !resp.Success {
		return resp, fmt.Errorf("authentication failed: %s", resp.Error)
	}
	return resp, nil
}

// SetSessionID sets the session commands are addressed to
func (c *Client) SetSessionID(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionID = sessionID
}

// SessionID returns the session commands are addressed to
func (c *Client) SessionID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sessionID
}

// Run parses an input line and sends the resulting command for the
// current session
func (c *Client) Run(line string) error {
	msg, err := ParseLine(line, c.SessionID())
	if err != nil {
		return err
	}
	return c.SendMessage(msg)
}

// expect registers a one-shot wait for the next message of a type. It
// must be called before the request that triggers the reply.
func (c *Client) expect(messageType server.MessageType) <-chan *server.Message {
	ch := make(chan *server.Message, 1)
	c.mu.Lock()
	c.waiters[messageType] = append(c.waiters[messageType], ch)
	c.mu.Unlock()
	return ch
}
