package logger

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// AuditLogger emits structured security events for the booking guard
type AuditLogger struct {
	logger *slog.Logger
}

// NewAuditLogger creates a new audit logger
func NewAuditLogger(logger *slog.Logger) *AuditLogger {
	return &AuditLogger{logger: logger}
}

// LogVerificationFailure logs a failed bot-challenge verification. Provider
// error codes are logged here and never surfaced to the caller.
func (al *AuditLogger) LogVerificationFailure(ipAddress string, errorCodes []string) {
	al.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit",
		slog.String("audit_type", "challenge"),
		slog.String("event_type", "verification_failed"),
		slog.String("ip_address", ipAddress),
		slog.String("error_codes", strings.Join(errorCodes, ",")),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	)
}

// LogAdmissionRejection logs a booking attempt blocked by an admission rule
func (al *AuditLogger) LogAdmissionRejection(email, ipAddress, reason string) {
	al.logger.LogAttrs(context.Background(), slog.LevelWarn, "audit",
		slog.String("audit_type", "admission"),
		slog.String("event_type", "booking_rejected"),
		slog.String("email", SanitizedEmail(email)),
		slog.String("ip_address", ipAddress),
		slog.String("reason", reason),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	)
}

// LogBookingAccepted logs a persisted booking
func (al *AuditLogger) LogBookingAccepted(bookingID, email, ipAddress string) {
	al.logger.LogAttrs(context.Background(), slog.LevelInfo, "audit",
		slog.String("audit_type", "admission"),
		slog.String("event_type", "booking_accepted"),
		slog.String("booking_id", bookingID),
		slog.String("email", SanitizedEmail(email)),
		slog.String("ip_address", ipAddress),
		slog.String("timestamp", time.Now().UTC().Format(time.RFC3339)),
	)
}
