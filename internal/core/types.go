// Package core contains the core domain types for boardroom.
package core

import (
	"time"

	"github.com/samber/lo"
)

// UserSpeakerID identifies turns authored by the human user.
const UserSpeakerID = "user"

// TurnKind distinguishes regular conversation content from system notices.
type TurnKind string

const (
	TurnKindNormal TurnKind = "normal"
	TurnKindNotice TurnKind = "system_notice"
)

// Turn represents a single unit of conversation content in a session.
// Turn IDs are assigned by storage as a per-session sequence, so IDs are
// unique within a session and strictly increasing in creation order.
type Turn struct {
	ID        int       `json:"id"`
	SessionID string    `json:"session_id"`
	SpeakerID string    `json:"speaker_id"` // persona id or "user"
	Kind      TurnKind  `json:"kind"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// DecisionType is the outcome category of an orchestration decision.
type DecisionType string

const (
	DecisionAgentSpeak DecisionType = "AGENT_SPEAK"
	DecisionHandRaise  DecisionType = "HAND_RAISE"
	DecisionYield      DecisionType = "YIELD"
)

// Valid reports whether the decision type is one of the known outcomes.
func (t DecisionType) Valid() bool {
	switch t {
	case DecisionAgentSpeak, DecisionHandRaise, DecisionYield:
		return true
	}
	return false
}

// Decision is the structured outcome of one orchestrator cycle. It is
// produced once per user turn and consumed immediately by the dispatcher.
type Decision struct {
	Type      DecisionType `json:"type"`
	AgentID   string       `json:"agentId,omitempty"`
	Content   string       `json:"content,omitempty"`
	Reasoning string       `json:"reasoning,omitempty"`
}

// Message roles used when talking to the text-generation service.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of conversation history in service call shape.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// BoardContext is the company profile shared with every persona.
type BoardContext struct {
	CompanyName string   `json:"companyName"`
	Industry    string   `json:"industry"`
	Country     string   `json:"country"`
	Goals       []string `json:"goals"`
	Documents   []string `json:"documents,omitempty"`
}

// Session holds the mutable per-user boardroom state. It lives for the
// user session only; there is no cross-session persistence.
type Session struct {
	ID                string       `json:"id"`
	Context           BoardContext `json:"context"`
	ActiveSpeakerID   string       `json:"active_speaker_id,omitempty"` // persona id or ""
	PresentExecutives []string     `json:"present_executives"`
	HandQueue         []string     `json:"hand_queue,omitempty"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// SessionSummary is a lightweight representation for listing sessions.
type SessionSummary struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Industry    string    `json:"industry"`
	Country     string    `json:"country"`
	TurnCount   int       `json:"turn_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// SetCompanyName updates the company name.
func (s *Session) SetCompanyName(name string) {
	s.Context.CompanyName = name
}

// SetIndustry updates the industry.
func (s *Session) SetIndustry(industry string) {
	s.Context.Industry = industry
}

// SetCountry updates the country.
func (s *Session) SetCountry(country string) {
	s.Context.Country = country
}

// AddGoal appends a goal to the session context.
func (s *Session) AddGoal(goal string) {
	s.Context.Goals = append(s.Context.Goals, goal)
}

// AddDocument appends an opaque document reference to the session context.
func (s *Session) AddDocument(doc string) {
	s.Context.Documents = append(s.Context.Documents, doc)
}

// SetActiveSpeaker sets the active speaker. An empty id clears it.
func (s *Session) SetActiveSpeaker(personaID string) {
	s.ActiveSpeakerID = personaID
}

// AddExecutive marks a persona as present. Adding an already present
// persona is a no-op.
func (s *Session) AddExecutive(personaID string) {
	if lo.Contains(s.PresentExecutives, personaID) {
		return
	}
	s.PresentExecutives = append(s.PresentExecutives, personaID)
}

// RemoveExecutive removes a persona from the present set.
func (s *Session) RemoveExecutive(personaID string) {
	s.PresentExecutives = lo.Filter(s.PresentExecutives, func(id string, _ int) bool {
		return id != personaID
	})
}

// IsPresent reports whether a persona has joined the conversation.
func (s *Session) IsPresent(personaID string) bool {
	return lo.Contains(s.PresentExecutives, personaID)
}

// RaiseHand enqueues a persona that wants to speak. A persona already in
// the queue is not enqueued twice.
func (s *Session) RaiseHand(personaID string) {
	if lo.Contains(s.HandQueue, personaID) {
		return
	}
	s.HandQueue = append(s.HandQueue, personaID)
}

// PopHand dequeues the persona that has been waiting the longest.
func (s *Session) PopHand() (string, bool) {
	if len(s.HandQueue) == 0 {
		return "", false
	}
	personaID := s.HandQueue[0]
	s.HandQueue = s.HandQueue[1:]
	return personaID, true
}

// Reset restores every session field to its empty default. The session
// keeps its identity.
func (s *Session) Reset() {
	s.Context = BoardContext{}
	s.ActiveSpeakerID = ""
	s.PresentExecutives = nil
	s.HandQueue = nil
	s.UpdatedAt = time.Now()
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	c := *s
	c.Context.Goals = append([]string(nil), s.Context.Goals...)
	c.Context.Documents = append([]string(nil), s.Context.Documents...)
	c.PresentExecutives = append([]string(nil), s.PresentExecutives...)
	c.HandQueue = append([]string(nil), s.HandQueue...)
	return &c
}
