package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// VerificationResult is the verdict from the bot-challenge provider.
// Ephemeral: never persisted.
type VerificationResult struct {
	Success    bool     `json:"success"`
	ErrorCodes []string `json:"error_codes"`
}

// ChallengeVerifier validates an opaque client-side challenge token
type ChallengeVerifier interface {
	Verify(ctx context.Context, token, remoteIP string) VerificationResult
}

// TurnstileVerifier checks tokens against the Cloudflare Turnstile
// siteverify endpoint. Stateless; one outbound call per verification.
type TurnstileVerifier struct {
	secretKey string
	verifyURL string
	client    *http.Client
	logger    *slog.Logger
}

// NewTurnstileVerifier creates a TurnstileVerifier. A missing secret key is a
// configuration error and fails fast rather than at request time.
func NewTurnstileVerifier(secretKey, verifyURL string, timeout time.Duration, logger *slog.Logger) (*TurnstileVerifier, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("turnstile secret key is not configured")
	}
	if verifyURL == "" {
		return nil, fmt.Errorf("turnstile verify URL is not configured")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &TurnstileVerifier{
		secretKey: secretKey,
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
	}, nil
}

// Verify forwards the token, shared secret and caller address to the
// verification endpoint. Any transport or decode failure is treated as a
// failed verification (fail closed) with a "network_error" diagnostic code.
func (v *TurnstileVerifier) Verify(ctx context.Context, token, remoteIP string) VerificationResult {
	form := url.Values{}
	form.Set("secret", v.secretKey)
	form.Set("response", token)
	if remoteIP != "" {
		form.Set("remoteip", remoteIP)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, strings.NewReader(form.Encode()))
	if err != nil {
		v.logger.Error("failed to build turnstile request", slog.Any("error", err))
		return networkFailure()
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		v.logger.Error("turnstile verification call failed", slog.Any("error", err))
		return networkFailure()
	}
	defer resp.Body.Close()

	var payload struct {
		Success    bool     `json:"success"`
		ErrorCodes []string `json:"error-codes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		v.logger.Error("failed to decode turnstile response", slog.Any("error", err))
		return networkFailure()
	}

	codes := payload.ErrorCodes
	if codes == nil {
		codes = []string{}
	}

	return VerificationResult{Success: payload.Success, ErrorCodes: codes}
}

func networkFailure() VerificationResult {
	return VerificationResult{Success: false, ErrorCodes: []string{"network_error"}}
}
