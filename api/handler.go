package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/tanpawarit/hcp-crm-assistant/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/hcp-crm-assistant/agent/contract"
)

const maxBodyBytes = 64 << 10

type chatRequest struct {
	Message string `json:"message"`
}

// ChatHandler serves the conversation endpoint.
type ChatHandler struct {
	service contractx.ChatService
}

func NewChatHandler(service contractx.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

// Chat handles POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var payload chatRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondWithError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	reply, err := h.service.HandleMessage(r.Context(), payload.Message)
	switch {
	case errors.Is(err, orchestrator.ErrInvalidMessage), errors.Is(err, contractx.ErrValidation):
		respondWithError(w, http.StatusBadRequest, "message is required")
		return
	case err != nil:
		log.Ctx(r.Context()).Error().Err(err).Msg("chat turn failed")
		respondWithError(w, http.StatusInternalServerError, "failed to process message")
		return
	}

	respondWithJSON(w, http.StatusOK, reply)
}

// Health handles GET /healthz
func Health(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func respondWithJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
