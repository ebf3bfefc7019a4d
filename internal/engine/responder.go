package engine

import (
	"context"
	"strings"

	"github.com/alienxp03/boardroom/internal/core"
	"github.com/alienxp03/boardroom/internal/persona"
	"github.com/alienxp03/boardroom/internal/provider"
	"github.com/alienxp03/boardroom/internal/sanitize"
)

// emptyReplyFallback is returned when the service responds successfully
// but with an empty payload. This is a payload-shape edge case, not a
// failure path.
const emptyReplyFallback = "Lo siento, no pude generar una respuesta."

// Reply produces one persona reply: the rendered persona prompt, the
// bounded history in chronological order, then the new user message.
// Service failures propagate to the caller untouched.
func (e *Engine) Reply(ctx context.Context, session *core.Session, personaID, userMessage string, history []core.Message) (string, error) {
	prov, err := e.registry.Get(e.opts.Provider)
	if err != nil {
		return "", err
	}

	systemPrompt := persona.RenderPrompt(personaID, session.Context)
	bounded := sanitize.TruncateHistory(history, e.opts.HistoryWindow)

	messages := make([]core.Message, 0, len(bounded)+2)
	messages = append(messages, core.Message{Role: core.RoleSystem, Content: systemPrompt})
	messages = append(messages, bounded...)
	messages = append(messages, core.Message{Role: core.RoleUser, Content: userMessage})

	response, err := prov.Complete(ctx, provider.Request{
		Model:       e.opts.Model,
		Messages:    messages,
		Temperature: e.opts.ReplyTemperature,
		MaxTokens:   e.opts.MaxReplyTokens,
	})
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(response) == "" {
		return emptyReplyFallback, nil
	}
	return response, nil
}
