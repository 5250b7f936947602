package chat

import (
	"encoding/json"
	"net/http"

	"github.com/dpereira/financas/internal/api/middleware"
)

// Handler exposes the chat route
type Handler struct {
	responder *Responder
}

// NewHandler creates a new chat handler
func NewHandler(responder *Responder) *Handler {
	return &Handler{responder: responder}
}

// ChatHandler handles POST /chat
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"msg"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	reply, err := h.responder.Respond(r.Context(), req.Message)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Mensagem vazia")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{"resposta": reply})
}
