package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/alienxp03/boardroom/internal/core"
	"github.com/alienxp03/boardroom/internal/engine"
	"github.com/alienxp03/boardroom/internal/export"
	"github.com/alienxp03/boardroom/internal/persona"
	"github.com/alienxp03/boardroom/internal/provider"
	"github.com/alienxp03/boardroom/internal/sanitize"
)

// Handler serves the boardroom HTTP API.
type Handler struct {
	engine   *engine.Engine
	registry *provider.Registry
	validate *validator.Validate
}

// New creates a Handler around an engine and provider registry.
func New(eng *engine.Engine, registry *provider.Registry) *Handler {
	return &Handler{
		engine:   eng,
		registry: registry,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Router builds the chi router with all API routes mounted.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.health)
		r.Get("/personas", h.listPersonas)
		r.Get("/providers", h.listProviders)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", h.createSession)
			r.Get("/", h.listSessions)

			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", h.getSession)
				r.Delete("/", h.deleteSession)
				r.Patch("/", h.updateSession)
				r.Post("/reset", h.resetSession)
				r.Post("/goals", h.addGoal)
				r.Post("/documents", h.addDocument)
				r.Post("/executives", h.addExecutive)
				r.Delete("/executives/{personaID}", h.removeExecutive)
				r.Put("/speaker", h.setSpeaker)
				r.Post("/messages", h.postMessage)
				r.Get("/turns", h.getTurns)
				r.Get("/export/{format}", h.exportSession)
			})
		})
	})

	return r
}

type createSessionRequest struct {
	CompanyName string   `json:"companyName" validate:"max=120"`
	Industry    string   `json:"industry" validate:"max=80"`
	Country     string   `json:"country" validate:"max=80"`
	Goals       []string `json:"goals" validate:"dive,max=200"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	session, err := h.engine.CreateSession(core.BoardContext{
		CompanyName: req.CompanyName,
		Industry:    req.Industry,
		Country:     req.Country,
		Goals:       req.Goals,
	})
	if err != nil {
		slog.Error("failed to create session", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	respondJSON(w, http.StatusCreated, session)
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	sessions, err := h.engine.ListSessions(limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	session, turns, err := h.engine.GetSessionWithTurns(id)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session": session,
		"turns":   turns,
	})
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := h.engine.DeleteSession(id); err != nil {
		h.respondEngineError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) resetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	session, err := h.engine.ResetSession(id)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

type updateSessionRequest struct {
	CompanyName *string `json:"companyName" validate:"omitempty,max=120"`
	Industry    *string `json:"industry" validate:"omitempty,max=80"`
	Country     *string `json:"country" validate:"omitempty,max=80"`
}

func (h *Handler) updateSession(w http.ResponseWriter, r *http.Request) {
	var req updateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.mutateSession(w, r, func(s *core.Session) error {
		if req.CompanyName != nil {
			s.SetCompanyName(*req.CompanyName)
		}
		if req.Industry != nil {
			s.SetIndustry(*req.Industry)
		}
		if req.Country != nil {
			s.SetCountry(*req.Country)
		}
		return nil
	})
}

type addGoalRequest struct {
	Goal string `json:"goal" validate:"required,max=200"`
}

func (h *Handler) addGoal(w http.ResponseWriter, r *http.Request) {
	var req addGoalRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.mutateSession(w, r, func(s *core.Session) error {
		s.AddGoal(req.Goal)
		return nil
	})
}

type addDocumentRequest struct {
	Document string `json:"document" validate:"required"`
}

func (h *Handler) addDocument(w http.ResponseWriter, r *http.Request) {
	var req addDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	h.mutateSession(w, r, func(s *core.Session) error {
		s.AddDocument(req.Document)
		return nil
	})
}

type executiveRequest struct {
	PersonaID string `json:"personaId" validate:"required"`
}

func (h *Handler) addExecutive(w http.ResponseWriter, r *http.Request) {
	var req executiveRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !persona.Valid(req.PersonaID) {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown persona: %s", req.PersonaID))
		return
	}

	h.mutateSession(w, r, func(s *core.Session) error {
		s.AddExecutive(req.PersonaID)
		return nil
	})
}

func (h *Handler) removeExecutive(w http.ResponseWriter, r *http.Request) {
	personaID := chi.URLParam(r, "personaID")
	h.mutateSession(w, r, func(s *core.Session) error {
		s.RemoveExecutive(personaID)
		return nil
	})
}

type setSpeakerRequest struct {
	PersonaID string `json:"personaId"`
}

func (h *Handler) setSpeaker(w http.ResponseWriter, r *http.Request) {
	var req setSpeakerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.PersonaID != "" && !persona.Valid(req.PersonaID) {
		respondError(w, http.StatusUnprocessableEntity, fmt.Sprintf("unknown persona: %s", req.PersonaID))
		return
	}

	h.mutateSession(w, r, func(s *core.Session) error {
		s.SetActiveSpeaker(req.PersonaID)
		return nil
	})
}

type postMessageRequest struct {
	Message string `json:"message"`
}

func (h *Handler) postMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := chi.URLParam(r, "sessionID")
	result, err := h.engine.HandleUserTurn(r.Context(), id, req.Message)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *Handler) getTurns(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	_, turns, err := h.engine.GetSessionWithTurns(id)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"turns": turns})
}

func (h *Handler) exportSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	format := export.Format(chi.URLParam(r, "format"))

	exporter, err := export.GetExporter(format)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, turns, err := h.engine.GetSessionWithTurns(id)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}

	filename := export.GenerateFilename(session, exporter.FileExtension())
	w.Header().Set("Content-Type", contentTypeFor(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := exporter.Export(session, turns, w); err != nil {
		slog.Error("export failed", "session", id, "format", format, "error", err)
	}
}

func (h *Handler) listPersonas(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"personas": persona.List()})
}

func (h *Handler) listProviders(w http.ResponseWriter, _ *http.Request) {
	type providerInfo struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
		Available   bool   `json:"available"`
	}
	var infos []providerInfo
	for _, p := range h.registry.List() {
		infos = append(infos, providerInfo{
			Name:        p.Name(),
			DisplayName: p.DisplayName(),
			Available:   p.Available(),
		})
	}
	respondJSON(w, http.StatusOK, map[string]any{"providers": infos})
}

func (h *Handler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// mutateSession loads the session, applies fn, persists and returns it.
func (h *Handler) mutateSession(w http.ResponseWriter, r *http.Request, fn func(*core.Session) error) {
	id := chi.URLParam(r, "sessionID")
	session, err := h.engine.UpdateSessionWith(id, fn)
	if err != nil {
		h.respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *Handler) respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, engine.ErrSessionBusy):
		respondError(w, http.StatusConflict, "a turn is already in progress")
	case errors.Is(err, sanitize.ErrEmptyMessage), errors.Is(err, sanitize.ErrMessageTooLong):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		slog.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func contentTypeFor(format export.Format) string {
	switch format {
	case export.FormatJSON:
		return "application/json"
	case export.FormatPDF:
		return "application/pdf"
	default:
		return "text/markdown; charset=utf-8"
	}
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
