package http

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the JSON shape for every non-2xx response. Error carries
// the user-facing (localized) message; Reason is a machine-readable code set
// only for admission rejections.
type ErrorResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason,omitempty"`
}

// WriteError writes a JSON error response with the given status code
func WriteError(w http.ResponseWriter, statusCode int, message string) {
	WriteErrorWithReason(w, statusCode, message, "")
}

// WriteErrorWithReason writes a JSON error response carrying a reason code
func WriteErrorWithReason(w http.ResponseWriter, statusCode int, message, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	// Encoding failures are not recoverable at this point
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message, Reason: reason})
}

func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, message)
}

func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, message)
}

func WriteNotFound(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusNotFound, message)
}

func WriteConflict(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusConflict, message)
}

func WriteTooManyRequests(w http.ResponseWriter, message, reason string) {
	WriteErrorWithReason(w, http.StatusTooManyRequests, message, reason)
}

func WriteInternalError(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusInternalServerError, message)
}

// WriteJSON writes v as a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}
