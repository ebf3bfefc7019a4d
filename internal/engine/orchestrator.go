package engine

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alienxp03/boardroom/internal/core"
	"github.com/alienxp03/boardroom/internal/persona"
	"github.com/alienxp03/boardroom/internal/provider"
)

// fallbackContent is the literal error notice spoken by the default
// persona when orchestration fails.
const fallbackContent = "Error en orquestación."

const orchestratorPrompt = `Eres el Moderador de una Junta Directiva. Tu trabajo es gestionar el flujo de la conversación de manera dinámica y realista.
Tienes a 4 ejecutivos:
- CFO (Finanzas, Victoria)
- CTO (Tecnología, Marcus)
- CIO (Información, Sarah)
- CDO (Digital, James)

Reglas de Orquestación:
1. Analiza el último mensaje del usuario o del agente anterior.
2. Decide quién es la persona más relevante para responder o replicar.
3. Si alguien dice algo polémico o que afecta a otra área, haz que el afectado "Levante la Mano" (HAND_RAISE).
4. Si el tema requiere una respuesta directa, asigna el turno de palabra (AGENT_SPEAK).
5. Mantén el debate vivo pero ordenado.

Devuelve tu decisión en formato JSON estricto:
{
  "type": "AGENT_SPEAK" | "HAND_RAISE",
  "agentId": "id_del_agente_que_actua",
  "content": "contenido del mensaje si habla",
  "reasoning": "por qué tomaste esta decisión"
}
`

// FallbackDecision is returned by the dispatcher when orchestration fails.
func FallbackDecision() core.Decision {
	return core.Decision{
		Type:    core.DecisionAgentSpeak,
		AgentID: persona.DefaultID,
		Content: fallbackContent,
	}
}

// Decide asks the orchestrator model which persona (if any) should act
// next. The response shape is validated strictly: an unparseable payload,
// an unknown decision type or an unknown persona id is a parsing error.
func (e *Engine) Decide(ctx context.Context, session *core.Session, recentHistory []core.Message, latestMessage string) (core.Decision, error) {
	prov, err := e.registry.Get(e.opts.Provider)
	if err != nil {
		return core.Decision{}, err
	}

	blob, err := e.buildDecisionContext(session, recentHistory, latestMessage)
	if err != nil {
		return core.Decision{}, err
	}

	raw, err := prov.Complete(ctx, provider.Request{
		Model: e.opts.Model,
		Messages: []core.Message{
			{Role: core.RoleSystem, Content: orchestratorPrompt},
			{Role: core.RoleUser, Content: blob},
		},
		Temperature:  e.opts.DecisionTemperature,
		JSONResponse: true,
	})
	if err != nil {
		return core.Decision{}, err
	}

	var decision core.Decision
	if err := json.Unmarshal([]byte(raw), &decision); err != nil {
		return core.Decision{}, parsingError(prov.Name(), fmt.Errorf("invalid decision payload: %w", err))
	}

	if !decision.Type.Valid() {
		return core.Decision{}, parsingError(prov.Name(), fmt.Errorf("unknown decision type: %q", decision.Type))
	}
	if decision.Type != core.DecisionYield && !persona.Valid(decision.AgentID) {
		return core.Decision{}, parsingError(prov.Name(), fmt.Errorf("unknown persona in decision: %q", decision.AgentID))
	}

	return decision, nil
}

// buildDecisionContext assembles the structured context blob for the
// orchestrator: session context, current speaker, raised hands, the most
// recent history entries and the latest message.
func (e *Engine) buildDecisionContext(session *core.Session, recentHistory []core.Message, latestMessage string) (string, error) {
	contextJSON, err := json.Marshal(session.Context)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session context: %w", err)
	}

	handQueue := session.HandQueue
	if handQueue == nil {
		handQueue = []string{}
	}
	handsJSON, err := json.Marshal(handQueue)
	if err != nil {
		return "", fmt.Errorf("failed to marshal hand queue: %w", err)
	}

	if len(recentHistory) > e.opts.RecentWindow {
		recentHistory = recentHistory[len(recentHistory)-e.opts.RecentWindow:]
	}
	historyJSON, err := json.Marshal(recentHistory)
	if err != nil {
		return "", fmt.Errorf("failed to marshal history: %w", err)
	}

	activeSpeaker := session.ActiveSpeakerID
	if activeSpeaker == "" {
		activeSpeaker = "Nadie"
	}

	return fmt.Sprintf(`Contexto: %s
Orador Actual: %s
Manos Alzadas: %s
Historial Reciente: %s
Último Mensaje: %s`, contextJSON, activeSpeaker, handsJSON, historyJSON, latestMessage), nil
}

func parsingError(providerName string, err error) *provider.ServiceError {
	return &provider.ServiceError{
		Provider: providerName,
		Kind:     provider.KindParsing,
		Message:  provider.KindParsing.UserMessage(),
		Err:      err,
	}
}
