// banking/handlers.go
package banking

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Handler provides HTTP handlers for the bank authorization flow
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new banking auth handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// ConnectHandler starts the bank authorization flow: it generates the PKCE
// pair and state, stashes them in the flow session, and redirects the
// browser to the bank's consent page.
func (h *Handler) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	authURL, flow, err := h.service.AuthorizationURL()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to build authorization URL")
		http.Error(w, "Failed to start authorization", http.StatusInternalServerError)
		return
	}

	session := GetSession(r)
	session.Values["bank_state"] = flow.State
	session.Values["bank_verifier"] = flow.CodeVerifier
	session.Values["bank_flow_expiry"] = time.Now().Add(10 * time.Minute).Unix()
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, authURL, http.StatusFound)
}

// CallbackHandler handles the redirect back from the bank. The state is
// checked against the flow session before the code is exchanged.
func (h *Handler) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	state := query.Get("state")

	if code == "" || state == "" {
		http.Error(w, "Invalid callback parameters", http.StatusBadRequest)
		return
	}

	session := GetSession(r)
	savedState, ok := session.Values["bank_state"].(string)
	if !ok || savedState != state {
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	expiry, ok := session.Values["bank_flow_expiry"].(int64)
	if !ok || time.Now().Unix() > expiry {
		http.Error(w, "Authorization flow expired", http.StatusBadRequest)
		return
	}

	verifier, ok := session.Values["bank_verifier"].(string)
	if !ok || verifier == "" {
		http.Error(w, "No authorization flow in progress", http.StatusBadRequest)
		return
	}

	// The verifier is single-use; clear the flow before exchanging.
	delete(session.Values, "bank_state")
	delete(session.Values, "bank_verifier")
	delete(session.Values, "bank_flow_expiry")
	if err := session.Save(r, w); err != nil {
		http.Error(w, "Failed to save session", http.StatusInternalServerError)
		return
	}

	token, err := h.service.HandleCallback(r.Context(), code, verifier)
	if err != nil {
		h.log.Error().Err(err).Msg("Token exchange failed")
		http.Error(w, "Failed to exchange code for token", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "connected",
		"bank":       h.service.BankName(),
		"expires_at": token.ExpiresAt,
	})
}

// DisconnectHandler drops the stored token record for the bank
func (h *Handler) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Disconnect(r.Context()); err != nil {
		http.Error(w, "Failed to disconnect: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "disconnected",
	})
}

// StatusHandler reports whether a usable token is stored for the bank
func (h *Handler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	token, err := h.service.ValidToken(r.Context())
	if err != nil {
		reauth := errors.Is(err, ErrReauthorizationRequired)
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"connected":                false,
			"reauthorization_required": reauth,
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"connected":  true,
		"bank":       h.service.BankName(),
		"expires_at": token.ExpiresAt,
	})
}
