// Package storage holds boardroom sessions and their transcripts.
// Sessions live for the process lifetime only; there is no persistence.
package storage

import (
	"github.com/alienxp03/boardroom/internal/core"
)

// Storage defines the interface for session state.
type Storage interface {
	// Close releases the storage.
	Close() error

	// Session operations
	CreateSession(session *core.Session) error
	GetSession(id string) (*core.Session, error)
	UpdateSession(session *core.Session) error
	DeleteSession(id string) error
	ListSessions(limit, offset int) ([]*core.SessionSummary, error)

	// Turn operations. AddTurn assigns the turn its per-session sequence ID.
	AddTurn(turn *core.Turn) error
	GetTurns(sessionID string) ([]*core.Turn, error)
	GetLatestTurn(sessionID string) (*core.Turn, error)

	// Busy latch. TryBeginTurn reports false when a turn is already in
	// flight; it is a latch, not a queue.
	TryBeginTurn(sessionID string) (bool, error)
	EndTurn(sessionID string) error
}
