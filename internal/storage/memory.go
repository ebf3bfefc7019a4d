package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alienxp03/boardroom/internal/core"
)

// MemoryStorage is the in-memory Storage implementation.
type MemoryStorage struct {
	mu       sync.RWMutex
	sessions map[string]*sessionRecord
}

type sessionRecord struct {
	session  *core.Session
	turns    []*core.Turn
	nextTurn int
	busy     bool
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		sessions: make(map[string]*sessionRecord),
	}
}

// Close implements Storage. It is a no-op for the in-memory store.
func (s *MemoryStorage) Close() error {
	return nil
}

// NewSession builds a session with a fresh ID and the given context.
func NewSession(ctx core.BoardContext) *core.Session {
	now := time.Now()
	return &core.Session{
		ID:        uuid.New().String(),
		Context:   ctx,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateSession registers a new session.
func (s *MemoryStorage) CreateSession(session *core.Session) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("session ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return fmt.Errorf("session already exists: %s", session.ID)
	}

	s.sessions[session.ID] = &sessionRecord{
		session:  session.Clone(),
		nextTurn: 1,
	}
	return nil
}

// GetSession returns a copy of the session, or nil if not found.
func (s *MemoryStorage) GetSession(id string) (*core.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	return rec.session.Clone(), nil
}

// UpdateSession replaces the stored session state.
func (s *MemoryStorage) UpdateSession(session *core.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[session.ID]
	if !ok {
		return fmt.Errorf("session not found: %s", session.ID)
	}

	updated := session.Clone()
	updated.UpdatedAt = time.Now()
	rec.session = updated
	return nil
}

// DeleteSession removes a session and its turns.
func (s *MemoryStorage) DeleteSession(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("session not found: %s", id)
	}
	delete(s.sessions, id)
	return nil
}

// ListSessions returns session summaries, newest first.
func (s *MemoryStorage) ListSessions(limit, offset int) ([]*core.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]*core.SessionSummary, 0, len(s.sessions))
	for _, rec := range s.sessions {
		summaries = append(summaries, &core.SessionSummary{
			ID:          rec.session.ID,
			CompanyName: rec.session.Context.CompanyName,
			Industry:    rec.session.Context.Industry,
			Country:     rec.session.Context.Country,
			TurnCount:   len(rec.turns),
			CreatedAt:   rec.session.CreatedAt,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	if offset >= len(summaries) {
		return nil, nil
	}
	summaries = summaries[offset:]
	if limit > 0 && limit < len(summaries) {
		summaries = summaries[:limit]
	}
	return summaries, nil
}

// AddTurn appends a turn and assigns its sequence ID. Turns are
// append-only; once stored they are never mutated or deleted.
func (s *MemoryStorage) AddTurn(turn *core.Turn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[turn.SessionID]
	if !ok {
		return fmt.Errorf("session not found: %s", turn.SessionID)
	}

	turn.ID = rec.nextTurn
	rec.nextTurn++
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}

	stored := *turn
	rec.turns = append(rec.turns, &stored)
	return nil
}

// GetTurns returns all turns for a session in conversation order.
func (s *MemoryStorage) GetTurns(sessionID string) ([]*core.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}

	turns := make([]*core.Turn, len(rec.turns))
	for i, t := range rec.turns {
		copied := *t
		turns[i] = &copied
	}
	return turns, nil
}

// GetLatestTurn returns the most recent turn, or nil if there are none.
func (s *MemoryStorage) GetLatestTurn(sessionID string) (*core.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session not found: %s", sessionID)
	}
	if len(rec.turns) == 0 {
		return nil, nil
	}

	latest := *rec.turns[len(rec.turns)-1]
	return &latest, nil
}

// TryBeginTurn acquires the session's busy latch. It reports false when a
// turn is already in flight.
func (s *MemoryStorage) TryBeginTurn(sessionID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return false, fmt.Errorf("session not found: %s", sessionID)
	}
	if rec.busy {
		return false, nil
	}
	rec.busy = true
	return true, nil
}

// EndTurn releases the session's busy latch.
func (s *MemoryStorage) EndTurn(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session not found: %s", sessionID)
	}
	rec.busy = false
	return nil
}
