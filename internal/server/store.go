package server

import (
	"sort"
	"sync"
	"time"
)

// TableFactory builds the table for a newly seen session
type TableFactory func(sessionID string) *Table

// RoomStore owns the live tables, one per session. Lookups may run
// concurrently; each table serializes its own state.
type RoomStore struct {
	mu      sync.RWMutex
	tables  map[string]*Table
	factory TableFactory
}

// NewRoomStore creates an empty store
func NewRoomStore(factory TableFactory) *RoomStore {
	return &RoomStore{
		tables:  make(map[string]*Table),
		factory: factory,
	}
}

// GetOrCreate returns the session's table, creating an empty one if needed.
// The second value reports whether the table was created.
func (s *RoomStore) GetOrCreate(sessionID string) (*Table, bool) {
	s.mu.RLock()
	table, ok := s.tables[sessionID]
	s.mu.RUnlock()
	if ok {
		return table, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if table, ok := s.tables[sessionID]; ok {
		return table, false
	}
	table = s.factory(sessionID)
	s.tables[sessionID] = table
	return table, true
}

// Get retrieves a table by session ID
func (s *RoomStore) Get(sessionID string) (*Table, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table, ok := s.tables[sessionID]
	return table, ok
}

// Destroy removes a session's table. Removing an unknown session is a no-op.
func (s *RoomStore) Destroy(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tables, sessionID)
}

// destroyIf removes the session only while it still maps to table, so a
// finished game cannot remove the table of a newer game.
func (s *RoomStore) destroyIf(sessionID string, table *Table) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tables[sessionID] == table {
		delete(s.tables, sessionID)
	}
}

// Len returns the number of live tables
func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}

// Sessions returns the live session IDs in sorted order
func (s *RoomStore) Sessions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.tables))
	for id := range s.tables {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Reap destroys tables with no activity since now-idle and returns their
// session IDs.
func (s *RoomStore) Reap(now time.Time, idle time.Duration) []string {
	s.mu.RLock()
	snapshot := make(map[string]*Table, len(s.tables))
	for id, table := range s.tables {
		snapshot[id] = table
	}
	s.mu.RUnlock()

	// Tables are inspected without holding the store lock: a table that is
	// finishing calls back into the store while holding its own lock.
	var reaped []string
	for id, table := range snapshot {
		if now.Sub(table.LastActivity()) < idle {
			continue
		}
		table.Close()
		s.destroyIf(id, table)
		reaped = append(reaped, id)
	}
	sort.Strings(reaped)
	return reaped
}
