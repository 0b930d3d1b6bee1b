package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// ErrUnknownHandle is returned when editing a message the server no
// longer tracks
var ErrUnknownHandle = errors.New("unknown message handle")

// maxHandles bounds how many delivered messages stay editable
const maxHandles = 1024

// audience records who received a message so edits reach the same people
type audience struct {
	sessionID string
	playerID  string
}

// Server is the WebSocket transport. It delivers notices for the game
// service and resolves authenticated names into player identities.
type Server struct {
	addr        string
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	unregister  chan *Connection
	names       map[string]string // Player ID to display name, kept after disconnect
	handles     map[Handle]audience
	handleOrder []Handle
	logger      *log.Logger
	mu          sync.RWMutex
	runOnce     sync.Once
	ctx         context.Context
	cancel      context.CancelFunc
	httpServer  *http.Server
	stopped     bool
	gameService *GameService
}

// NewServer creates a new WebSocket server
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		unregister:  make(chan *Connection),
		names:       make(map[string]string),
		handles:     make(map[Handle]audience),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetGameService sets the game service for the server
func (s *Server) SetGameService(gameService *GameService) {
	s.gameService = gameService
}

// Handler returns the HTTP handler serving /ws and /health
func (s *Server) Handler() http.Handler {
	s.runOnce.Do(func() { go s.run() })

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start serves until Shutdown is called
func (s *Server) Start() error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	srv := s.httpServer
	s.mu.Unlock()

	s.logger.Info("Starting WebSocket server", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and closes the open ones
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.stopped = true
	srv := s.httpServer
	s.mu.Unlock()

	var err error
	if srv != nil {
		err = srv.Shutdown(ctx)
	}
	s.cancel()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close() // Ignore close errors during shutdown
	}
	s.mu.Unlock()

	return err
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				_ = conn.Close() // Ignore close errors during unregistration
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "player", conn.GetPlayer(), "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s)
	s.addConnection(client)
	client.Start()

	go func() {
		<-client.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// addConnection registers a connection before its pumps start so that
// replies to its first message can find it
func (s *Server) addConnection(conn *Connection) {
	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("Client connected", "total", total)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK players=%d", len(s.ConnectedPlayers())) // Ignore write errors for health check
}

// authenticate binds a player name to a connection. A name can only be
// held by one live connection at a time.
func (s *Server) authenticate(c *Connection, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for conn := range s.connections {
		if conn != c && conn.GetPlayer() == name {
			return fmt.Errorf("name %q is already connected", name)
		}
	}
	c.SetPlayer(name)
	s.names[name] = name
	return nil
}

// Resolve implements Directory for names seen at authentication
func (s *Server) Resolve(_ context.Context, actor string) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	name, ok := s.names[actor]
	if !ok {
		return Identity{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, actor)
	}
	return Identity{ID: actor, DisplayName: name}, nil
}

// SendToRoom implements Messenger by broadcasting to connections
// subscribed to the session
func (s *Server) SendToRoom(_ context.Context, sessionID, text string, choices []Choice) (Handle, error) {
	h := Handle(uuid.NewString())
	msg, err := NewMessage(MessageTypeNotice, NoticeData{Handle: h, SessionID: sessionID, Text: text, Choices: choices})
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	s.trackLocked(h, audience{sessionID: sessionID})
	s.mu.Unlock()

	count := s.broadcast(sessionID, msg)
	s.logger.Debug("Sent room notice", "session", sessionID, "recipients", count)
	return h, nil
}

// SendDirect implements Messenger by writing to the player's connection
func (s *Server) SendDirect(_ context.Context, playerID, text string, choices []Choice) (Handle, error) {
	h := Handle(uuid.NewString())
	msg, err := NewMessage(MessageTypeNotice, NoticeData{Handle: h, Text: text, Choices: choices})
	if err != nil {
		return "", err
	}

	if err := s.sendToPlayer(playerID, msg); err != nil {
		return "", err
	}

	s.mu.Lock()
	s.trackLocked(h, audience{playerID: playerID})
	s.mu.Unlock()
	return h, nil
}

// EditMessage implements Messenger by replaying the new content to the
// original audience
func (s *Server) EditMessage(_ context.Context, handle Handle, text string, choices []Choice) error {
	s.mu.RLock()
	aud, ok := s.handles[handle]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, handle)
	}

	msg, err := NewMessage(MessageTypeNoticeEdit, NoticeData{Handle: handle, SessionID: aud.sessionID, Text: text, Choices: choices})
	if err != nil {
		return err
	}

	if aud.playerID != "" {
		return s.sendToPlayer(aud.playerID, msg)
	}
	s.broadcast(aud.sessionID, msg)
	return nil
}

func (s *Server) trackLocked(h Handle, aud audience) {
	if len(s.handleOrder) >= maxHandles {
		delete(s.handles, s.handleOrder[0])
		s.handleOrder = s.handleOrder[1:]
	}
	s.handles[h] = aud
	s.handleOrder = append(s.handleOrder, h)
}

func (s *Server) broadcast(sessionID string, msg *Message) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for conn := range s.connections {
		if !conn.InSession(sessionID) {
			continue
		}
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Warn("Failed to send message to client", "error", err, "player", conn.GetPlayer())
			continue
		}
		count++
	}
	return count
}

func (s *Server) sendToPlayer(playerID string, msg *Message) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if conn.GetPlayer() == playerID {
			if err := conn.SendMessage(msg); err != nil {
				return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s not connected", ErrDeliveryFailed, playerID)
}

// ConnectedPlayers returns the authenticated player IDs with a live connection
func (s *Server) ConnectedPlayers() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var players []string
	for conn := range s.connections {
		if playerID := conn.GetPlayer(); playerID != "" {
			players = append(players, playerID)
		}
	}
	return players
}
