package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/closerly/backend/internal/services"
	pkghttp "github.com/closerly/backend/pkg/http"
)

// VerifyHandler exposes standalone Turnstile verification so the frontend
// can pre-check a token before opening the booking form.
type VerifyHandler struct {
	verifier services.ChallengeVerifier
}

// NewVerifyHandler creates a new VerifyHandler
func NewVerifyHandler(verifier services.ChallengeVerifier) *VerifyHandler {
	return &VerifyHandler{verifier: verifier}
}

// VerifyTokenRequest carries the challenge token to validate
type VerifyTokenRequest struct {
	Token string `json:"token" validate:"required"`
	IP    string `json:"ip"`
}

// VerifyToken validates a Turnstile token against Cloudflare
func (h *VerifyHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req VerifyTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "invalid request body")
		return
	}
	if err := ValidateRequest(&req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	ip := req.IP
	if ip == "" {
		ip = pkghttp.ResolveClientIP(r)
	}

	result := h.verifier.Verify(r.Context(), req.Token, ip)
	pkghttp.WriteJSON(w, http.StatusOK, result)
}
