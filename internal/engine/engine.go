// Package engine orchestrates boardroom conversation turns.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alienxp03/boardroom/internal/core"
	"github.com/alienxp03/boardroom/internal/persona"
	"github.com/alienxp03/boardroom/internal/provider"
	"github.com/alienxp03/boardroom/internal/sanitize"
	"github.com/alienxp03/boardroom/internal/storage"
)

// Dispatch errors, mapped to HTTP statuses by the web layer.
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionBusy     = errors.New("a turn is already in progress")
)

// Generic literals applied when the onboarding form leaves fields blank.
const (
	DefaultIndustry = "General"
	DefaultCountry  = "Internacional"
)

// Options configures the engine.
type Options struct {
	// Provider is the registry name of the text-generation provider.
	Provider string

	// Model overrides the provider's default model when non-empty.
	Model string

	// DecisionTemperature is used for the structured orchestrator call.
	DecisionTemperature float64

	// ReplyTemperature is used for persona replies.
	ReplyTemperature float64

	// MaxReplyTokens bounds persona reply length.
	MaxReplyTokens int

	// HistoryWindow is the recency window of history entries sent with a
	// persona reply.
	HistoryWindow int

	// RecentWindow is the number of history entries the orchestrator sees.
	RecentWindow int

	// JoinRevealDelay is the cosmetic pause before a newly joined persona
	// is announced.
	JoinRevealDelay time.Duration
}

// DefaultOptions returns the engine defaults.
func DefaultOptions() Options {
	return Options{
		Provider:            "openai",
		DecisionTemperature: 0.5,
		ReplyTemperature:    0.7,
		MaxReplyTokens:      200,
		HistoryWindow:       sanitize.MaxHistoryLength,
		RecentWindow:        3,
		JoinRevealDelay:     600 * time.Millisecond,
	}
}

// Engine runs the per-turn decision and response chain over session state.
type Engine struct {
	storage  storage.Storage
	registry *provider.Registry
	opts     Options
}

// New creates a new engine.
func New(store storage.Storage, registry *provider.Registry, opts Options) *Engine {
	defaults := DefaultOptions()
	if opts.Provider == "" {
		opts.Provider = defaults.Provider
	}
	if opts.DecisionTemperature == 0 {
		opts.DecisionTemperature = defaults.DecisionTemperature
	}
	if opts.ReplyTemperature == 0 {
		opts.ReplyTemperature = defaults.ReplyTemperature
	}
	if opts.MaxReplyTokens == 0 {
		opts.MaxReplyTokens = defaults.MaxReplyTokens
	}
	if opts.HistoryWindow == 0 {
		opts.HistoryWindow = defaults.HistoryWindow
	}
	if opts.RecentWindow == 0 {
		opts.RecentWindow = defaults.RecentWindow
	}

	return &Engine{
		storage:  store,
		registry: registry,
		opts:     opts,
	}
}

// CreateSession creates a new session, applying generic defaults for blank
// industry and country fields.
func (e *Engine) CreateSession(ctx core.BoardContext) (*core.Session, error) {
	if ctx.Industry == "" {
		ctx.Industry = DefaultIndustry
	}
	if ctx.Country == "" {
		ctx.Country = DefaultCountry
	}

	session := storage.NewSession(ctx)
	if err := e.storage.CreateSession(session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Debug("Session created", "session_id", session.ID, "company", ctx.CompanyName)
	return session, nil
}

// GetSession retrieves a session by ID.
func (e *Engine) GetSession(id string) (*core.Session, error) {
	return e.storage.GetSession(id)
}

// GetSessionWithTurns retrieves a session with its full transcript.
func (e *Engine) GetSessionWithTurns(id string) (*core.Session, []*core.Turn, error) {
	session, err := e.storage.GetSession(id)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}

	turns, err := e.storage.GetTurns(id)
	if err != nil {
		return nil, nil, err
	}
	return session, turns, nil
}

// ListSessions returns session summaries.
func (e *Engine) ListSessions(limit, offset int) ([]*core.SessionSummary, error) {
	if limit <= 0 {
		limit = 20
	}
	return e.storage.ListSessions(limit, offset)
}

// DeleteSession deletes a session.
func (e *Engine) DeleteSession(id string) error {
	session, err := e.storage.GetSession(id)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	return e.storage.DeleteSession(id)
}

// ResetSession restores a session's fields to their empty defaults.
func (e *Engine) ResetSession(id string) (*core.Session, error) {
	session, err := e.storage.GetSession(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	session.Reset()
	if err := e.storage.UpdateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSessionWith loads a session, applies fn to it and persists the
// result.
func (e *Engine) UpdateSessionWith(id string, fn func(*core.Session) error) (*core.Session, error) {
	session, err := e.storage.GetSession(id)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if err := fn(session); err != nil {
		return nil, err
	}
	if err := e.storage.UpdateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// TurnResult is the outcome of one dispatched user turn.
type TurnResult struct {
	Decision core.Decision `json:"decision"`
	Turns    []*core.Turn  `json:"turns"`
	Session  *core.Session `json:"session"`
}

// HandleUserTurn runs the full chain for one user message: validate,
// sanitize, append the user turn, drain one raised hand, consult the
// orchestrator and execute its decision. Orchestrator failures never
// propagate; they are replaced by the fallback decision. Responder
// failures become a user-visible system notice.
func (e *Engine) HandleUserTurn(ctx context.Context, sessionID, rawText string) (*TurnResult, error) {
	if err := sanitize.Validate(rawText); err != nil {
		return nil, err
	}

	session, err := e.storage.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	ok, err := e.storage.TryBeginTurn(sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrSessionBusy
	}
	defer func() {
		if err := e.storage.EndTurn(sessionID); err != nil {
			slog.Error("Failed to release turn latch", "session_id", sessionID, "error", err)
		}
	}()

	clean := sanitize.Sanitize(rawText)

	history, err := e.buildHistory(sessionID)
	if err != nil {
		return nil, err
	}

	result := &TurnResult{}
	if _, err := e.appendTurn(result, sessionID, core.UserSpeakerID, core.TurnKindNormal, clean); err != nil {
		return nil, err
	}

	// One raised hand is drained per cycle before the orchestrator runs.
	if personaID, raised := session.PopHand(); raised {
		spoken, err := e.letPersonaSpeak(ctx, result, session, personaID, clean, history)
		if err != nil {
			return nil, err
		}
		if spoken != nil {
			history = append(history, core.Message{Role: core.RoleAssistant, Content: spoken.Content})
		}
	}

	decision, err := e.Decide(ctx, session, history, clean)
	if err != nil {
		slog.Error("Orchestration failed, using fallback decision",
			"session_id", sessionID, "error", err)
		decision = FallbackDecision()
	}
	result.Decision = decision

	switch decision.Type {
	case core.DecisionAgentSpeak:
		personaID := decision.AgentID
		if !persona.Valid(personaID) {
			personaID = persona.DefaultID
		}
		if decision.Content != "" {
			// The decision already carries content (fallback path).
			if err := e.joinIfAbsent(result, session, personaID); err != nil {
				return nil, err
			}
			session.SetActiveSpeaker(personaID)
			if _, err := e.appendTurn(result, sessionID, personaID, core.TurnKindNormal, decision.Content); err != nil {
				return nil, err
			}
		} else if _, err := e.letPersonaSpeak(ctx, result, session, personaID, clean, history); err != nil {
			return nil, err
		}

	case core.DecisionHandRaise:
		if persona.Valid(decision.AgentID) {
			session.RaiseHand(decision.AgentID)
			p := persona.Get(decision.AgentID)
			notice := fmt.Sprintf("✋ %s (%s) ha pedido la palabra.", p.Name, p.Role)
			if _, err := e.appendTurn(result, sessionID, decision.AgentID, core.TurnKindNotice, notice); err != nil {
				return nil, err
			}
		}

	case core.DecisionYield:
		// Explicitly no one acts.
	}

	if err := e.storage.UpdateSession(session); err != nil {
		return nil, err
	}
	result.Session = session
	return result, nil
}

// letPersonaSpeak joins the persona if needed, makes it the active
// speaker and appends its reply. A reply failure is converted into a
// system-notice turn with a localized message; in that case the returned
// turn is nil.
func (e *Engine) letPersonaSpeak(ctx context.Context, result *TurnResult, session *core.Session, personaID, userMessage string, history []core.Message) (*core.Turn, error) {
	if err := e.joinIfAbsent(result, session, personaID); err != nil {
		return nil, err
	}
	session.SetActiveSpeaker(personaID)

	content, err := e.Reply(ctx, session, personaID, userMessage, history)
	if err != nil {
		slog.Error("Persona reply failed", "session_id", session.ID, "persona", personaID, "error", err)
		_, appendErr := e.appendTurn(result, session.ID, personaID, core.TurnKindNotice, serviceUserMessage(err))
		return nil, appendErr
	}

	return e.appendTurn(result, session.ID, personaID, core.TurnKindNormal, content)
}

// joinIfAbsent adds the persona to the present set and announces it. The
// short delay before the announcement is purely for perceived pacing.
func (e *Engine) joinIfAbsent(result *TurnResult, session *core.Session, personaID string) error {
	if session.IsPresent(personaID) {
		return nil
	}

	if e.opts.JoinRevealDelay > 0 {
		time.Sleep(e.opts.JoinRevealDelay)
	}

	session.AddExecutive(personaID)
	p := persona.Get(personaID)
	notice := fmt.Sprintf("💼 %s (%s) se ha unido a la reunión.", p.Name, p.Role)
	_, err := e.appendTurn(result, session.ID, personaID, core.TurnKindNotice, notice)
	return err
}

// appendTurn stores a new turn and records it on the result.
func (e *Engine) appendTurn(result *TurnResult, sessionID, speakerID string, kind core.TurnKind, content string) (*core.Turn, error) {
	turn := &core.Turn{
		SessionID: sessionID,
		SpeakerID: speakerID,
		Kind:      kind,
		Content:   content,
	}
	if err := e.storage.AddTurn(turn); err != nil {
		return nil, fmt.Errorf("failed to save turn: %w", err)
	}
	result.Turns = append(result.Turns, turn)
	return turn, nil
}

// buildHistory converts the stored transcript into service call shape.
// System notices are not part of the conversational history.
func (e *Engine) buildHistory(sessionID string) ([]core.Message, error) {
	turns, err := e.storage.GetTurns(sessionID)
	if err != nil {
		return nil, err
	}

	history := make([]core.Message, 0, len(turns))
	for _, t := range turns {
		if t.Kind == core.TurnKindNotice {
			continue
		}
		role := core.RoleAssistant
		if t.SpeakerID == core.UserSpeakerID {
			role = core.RoleUser
		}
		history = append(history, core.Message{Role: role, Content: t.Content})
	}
	return history, nil
}

// serviceUserMessage maps a provider failure to its localized user notice.
func serviceUserMessage(err error) string {
	var serr *provider.ServiceError
	if errors.As(err, &serr) {
		return serr.Kind.UserMessage()
	}
	return provider.KindUnknown.UserMessage()
}
