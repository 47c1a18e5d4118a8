package handler

import (
	"net/http"

	"github.com/sumire/civic/internal/domain"
	"github.com/sumire/civic/internal/service"
)

// ChatHandler serves chat turns.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Turn answers a single chat turn. The response is not enveloped; clients
// read response, suggested_actions, action_required and context_updates at
// the top level.
func (h *ChatHandler) Turn(w http.ResponseWriter, r *http.Request) {
	var req domain.TurnRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}

	resp, err := h.chat.HandleTurn(r.Context(), req)
	if err != nil {
		WriteError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, resp)
}
