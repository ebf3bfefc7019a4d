package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alienxp03/boardroom/internal/core"
	"github.com/alienxp03/boardroom/internal/engine"
	"github.com/alienxp03/boardroom/internal/provider"
	"github.com/alienxp03/boardroom/internal/storage"
)

func newTestServer(t *testing.T, responses ...string) (*httptest.Server, *provider.MockProvider) {
	t.Helper()

	mock := provider.NewMockProvider(responses...)
	registry := provider.NewRegistry()
	registry.Register(mock)

	eng := engine.New(storage.NewMemoryStorage(), registry, engine.Options{Provider: "mock"})
	server := httptest.NewServer(New(eng, registry).Router())
	t.Cleanup(server.Close)
	return server, mock
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func createTestSession(t *testing.T, server *httptest.Server) string {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions", map[string]any{
		"companyName": "Acme",
		"industry":    "Retail",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session core.Session
	decodeBody(t, resp, &session)
	require.NotEmpty(t, session.ID)
	return session.ID
}

func TestCreateSession(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions", map[string]any{
		"companyName": "Acme",
		"goals":       []string{"crecer"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var session core.Session
	decodeBody(t, resp, &session)
	require.Equal(t, "Acme", session.Context.CompanyName)
	require.Equal(t, engine.DefaultIndustry, session.Context.Industry)
	require.Equal(t, engine.DefaultCountry, session.Context.Country)
	require.Equal(t, []string{"crecer"}, session.Context.Goals)
}

func TestCreateSessionRejectsOversizedFields(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions", map[string]any{
		"companyName": strings.Repeat("a", 121),
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()
}

func TestSessionNotFound(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/sessions/nope", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateSessionFields(t *testing.T) {
	server, _ := newTestServer(t)
	id := createTestSession(t, server)

	resp := doJSON(t, http.MethodPatch, server.URL+"/api/sessions/"+id, map[string]any{
		"industry": "Fintech",
		"country":  "Chile",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session core.Session
	decodeBody(t, resp, &session)
	require.Equal(t, "Fintech", session.Context.Industry)
	require.Equal(t, "Chile", session.Context.Country)
	// Fields not in the payload are untouched.
	require.Equal(t, "Acme", session.Context.CompanyName)
}

func TestGoalsAndDocuments(t *testing.T) {
	server, _ := newTestServer(t)
	id := createTestSession(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions/"+id+"/goals", map[string]any{"goal": "Duplicar ingresos"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/api/sessions/"+id+"/documents", map[string]any{"document": "plan-2026.pdf"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session core.Session
	decodeBody(t, resp, &session)
	require.Equal(t, []string{"Duplicar ingresos"}, session.Context.Goals)
	require.Equal(t, []string{"plan-2026.pdf"}, session.Context.Documents)

	t.Run("empty goal rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions/"+id+"/goals", map[string]any{"goal": ""})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestExecutives(t *testing.T) {
	server, _ := newTestServer(t)
	id := createTestSession(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions/"+id+"/executives", map[string]any{"personaId": "cto"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session core.Session
	decodeBody(t, resp, &session)
	require.Equal(t, []string{"cto"}, session.PresentExecutives)

	t.Run("adding twice is a no-op", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions/"+id+"/executives", map[string]any{"personaId": "cto"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var session core.Session
		decodeBody(t, resp, &session)
		require.Equal(t, []string{"cto"}, session.PresentExecutives)
	})

	t.Run("unknown persona rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions/"+id+"/executives", map[string]any{"personaId": "ceo"})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		resp.Body.Close()
	})

	t.Run("remove", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, server.URL+"/api/sessions/"+id+"/executives/cto", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var session core.Session
		decodeBody(t, resp, &session)
		require.Empty(t, session.PresentExecutives)
	})
}

func TestSetSpeaker(t *testing.T) {
	server, _ := newTestServer(t)
	id := createTestSession(t, server)

	resp := doJSON(t, http.MethodPut, server.URL+"/api/sessions/"+id+"/speaker", map[string]any{"personaId": "cfo"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session core.Session
	decodeBody(t, resp, &session)
	require.Equal(t, "cfo", session.ActiveSpeakerID)

	t.Run("empty id clears the speaker", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, server.URL+"/api/sessions/"+id+"/speaker", map[string]any{"personaId": ""})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var session core.Session
		decodeBody(t, resp, &session)
		require.Empty(t, session.ActiveSpeakerID)
	})

	t.Run("unknown persona rejected", func(t *testing.T) {
		resp := doJSON(t, http.MethodPut, server.URL+"/api/sessions/"+id+"/speaker", map[string]any{"personaId": "ceo"})
		require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		resp.Body.Close()
	})
}

func TestPostMessage(t *testing.T) {
	server, _ := newTestServer(t,
		`{"type":"AGENT_SPEAK","agentId":"cfo","reasoning":"finanzas"}`,
		"Los números se ven bien.",
	)
	id := createTestSession(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions/"+id+"/messages", map[string]any{
		"message": "¿Cómo va el presupuesto?",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result engine.TurnResult
	decodeBody(t, resp, &result)
	require.Equal(t, core.DecisionAgentSpeak, result.Decision.Type)
	require.Len(t, result.Turns, 3)
	require.Equal(t, "Los números se ven bien.", result.Turns[2].Content)

	t.Run("turns endpoint reflects the transcript", func(t *testing.T) {
		resp := doJSON(t, http.MethodGet, server.URL+"/api/sessions/"+id+"/turns", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Turns []*core.Turn `json:"turns"`
		}
		decodeBody(t, resp, &body)
		require.Len(t, body.Turns, 3)
	})
}

func TestPostMessageValidation(t *testing.T) {
	server, _ := newTestServer(t)
	id := createTestSession(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions/"+id+"/messages", map[string]any{"message": "  "})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	require.Equal(t, "El mensaje no puede estar vacío", body["error"])

	resp = doJSON(t, http.MethodPost, server.URL+"/api/sessions/"+id+"/messages", map[string]any{
		"message": strings.Repeat("a", 501),
	})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodPost, server.URL+"/api/sessions/nope/messages", map[string]any{"message": "hola"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestResetAndDeleteSession(t *testing.T) {
	server, _ := newTestServer(t)
	id := createTestSession(t, server)

	resp := doJSON(t, http.MethodPost, server.URL+"/api/sessions/"+id+"/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session core.Session
	decodeBody(t, resp, &session)
	require.Empty(t, session.Context.CompanyName)

	resp = doJSON(t, http.MethodDelete, server.URL+"/api/sessions/"+id, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, server.URL+"/api/sessions/"+id, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestListSessions(t *testing.T) {
	server, _ := newTestServer(t)
	createTestSession(t, server)
	createTestSession(t, server)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/sessions", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Sessions []*core.SessionSummary `json:"sessions"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Sessions, 2)
}

func TestListPersonas(t *testing.T) {
	server, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/personas", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Personas []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"personas"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Personas, 4)
	require.Equal(t, "cfo", body.Personas[0].ID)
}

func TestExportEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	id := createTestSession(t, server)

	resp := doJSON(t, http.MethodGet, server.URL+"/api/sessions/"+id+"/export/markdown", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Content-Type"), "text/markdown")
	require.Contains(t, resp.Header.Get("Content-Disposition"), "attachment")
	resp.Body.Close()

	resp = doJSON(t, http.MethodGet, server.URL+"/api/sessions/"+id+"/export/docx", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
