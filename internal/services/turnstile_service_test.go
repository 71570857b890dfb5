package services_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/closerly/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewTurnstileVerifier_MissingSecret(t *testing.T) {
	_, err := services.NewTurnstileVerifier("", "https://example.test/siteverify", time.Second, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "secret key")
}

func TestTurnstileVerify_Success(t *testing.T) {
	var received url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		received = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"error-codes":[]}`))
	}))
	defer server.Close()

	verifier, err := services.NewTurnstileVerifier("secret-key", server.URL, time.Second, testLogger())
	require.NoError(t, err)

	result := verifier.Verify(context.Background(), "client-token", "203.0.113.7")

	assert.True(t, result.Success)
	assert.Empty(t, result.ErrorCodes)
	assert.Equal(t, "secret-key", received.Get("secret"))
	assert.Equal(t, "client-token", received.Get("response"))
	assert.Equal(t, "203.0.113.7", received.Get("remoteip"))
}

func TestTurnstileVerify_FailureCodesMappedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"error-codes":["invalid-input-response","timeout-or-duplicate"]}`))
	}))
	defer server.Close()

	verifier, err := services.NewTurnstileVerifier("secret-key", server.URL, time.Second, testLogger())
	require.NoError(t, err)

	result := verifier.Verify(context.Background(), "stale-token", "")

	assert.False(t, result.Success)
	assert.Equal(t, []string{"invalid-input-response", "timeout-or-duplicate"}, result.ErrorCodes)
}

func TestTurnstileVerify_NetworkErrorFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // connection refused

	verifier, err := services.NewTurnstileVerifier("secret-key", server.URL, time.Second, testLogger())
	require.NoError(t, err)

	result := verifier.Verify(context.Background(), "client-token", "203.0.113.7")

	assert.False(t, result.Success)
	assert.Equal(t, []string{"network_error"}, result.ErrorCodes)
}

func TestTurnstileVerify_MalformedResponseFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not-json`))
	}))
	defer server.Close()

	verifier, err := services.NewTurnstileVerifier("secret-key", server.URL, time.Second, testLogger())
	require.NoError(t, err)

	result := verifier.Verify(context.Background(), "client-token", "")

	assert.False(t, result.Success)
	assert.Equal(t, []string{"network_error"}, result.ErrorCodes)
}

func TestTurnstileVerify_TimeoutFailsClosed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success":true}`))
	}))
	defer server.Close()

	verifier, err := services.NewTurnstileVerifier("secret-key", server.URL, 50*time.Millisecond, testLogger())
	require.NoError(t, err)

	result := verifier.Verify(context.Background(), "client-token", "")

	assert.False(t, result.Success)
	assert.Equal(t, []string{"network_error"}, result.ErrorCodes)
}
