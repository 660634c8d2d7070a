package notification

import (
	"context"

	"go.uber.org/zap"
)

// Kind is the lifecycle event category surfaced to the front desk.
type Kind string

const (
	KindApproved     Kind = "approved"
	KindRejected     Kind = "rejected"
	KindExpiringSoon Kind = "expiring_soon"
	KindExpired      Kind = "expired"
	KindSessionEnded Kind = "session_ended"
)

// Service receives human-readable lifecycle events for display. Delivery is
// fire-and-forget: no core behavior depends on it succeeding.
type Service interface {
	Notify(ctx context.Context, kind Kind, sessionID string, payload map[string]string) error
}

// LogNotificationService writes events to the structured log, where the
// front-desk display tails them. Swap in an SMS or push implementation behind
// the same interface when delivery grows up.
type LogNotificationService struct {
	Logger *zap.Logger
}

// NewLogNotificationService returns the log-backed sink.
func NewLogNotificationService(logger *zap.Logger) *LogNotificationService {
	return &LogNotificationService{Logger: logger}
}

func (s *LogNotificationService) Notify(ctx context.Context, kind Kind, sessionID string, payload map[string]string) error {
	fields := []zap.Field{
		zap.String("kind", string(kind)),
		zap.String("sessionId", sessionID),
	}
	for k, v := range payload {
		fields = append(fields, zap.String(k, v))
	}
	s.Logger.Info("session notification", fields...)
	return nil
}
