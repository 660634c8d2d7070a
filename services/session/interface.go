package session

import (
	"context"
	"time"

	customerRepo "gamecentre/database/repository/customer"
	sessionRepo "gamecentre/database/repository/session"
	"gamecentre/models"
	"gamecentre/services/device"
	"gamecentre/services/notification"
	"gamecentre/services/otp"
	"gamecentre/services/payment"

	"go.uber.org/zap"
)

// RequestInput is a customer's request for a timed device session.
type RequestInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	DeviceID string `json:"deviceId"` // stable identifier, e.g. "CONSOLE-01"
	Duration int    `json:"duration"` // minutes, from the catalog
}

// Engine defines the interface orchestrating the session lifecycle.
type Engine interface {
	Request(ctx context.Context, in RequestInput) (*models.Session, error)
	SetPaymentMethod(ctx context.Context, sessionID string, method models.PaymentMethod) (*models.Session, error)
	Approve(ctx context.Context, sessionID string) (*models.Session, error)
	Reject(ctx context.Context, sessionID string) error
	VerifyAndActivate(ctx context.Context, sessionID, candidate string) (*models.Session, error)
	End(ctx context.Context, sessionID, endedBy string) error
	Expire(ctx context.Context, sessionID string) error
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	ListByStatus(ctx context.Context, status models.SessionStatus) ([]models.Session, error)
}

// ReminderScheduler queues the expiring-soon warning for an active session.
// Best effort; the authoritative auto-lock stays with the in-process timer.
type ReminderScheduler interface {
	ScheduleExpiryWarning(sessionID string, at time.Time) error
}

// DefaultEngine implements Engine.
type DefaultEngine struct {
	Sessions  sessionRepo.SessionRepository
	Customers customerRepo.CustomerRepository
	Registry  *device.Registry
	Issuer    otp.Issuer
	Payments  payment.Processor
	Notifier  notification.Service
	Timers    *Timers
	Reminders ReminderScheduler // optional
	Logger    *zap.Logger
	Clock     func() time.Time // defaults to time.Now
}

func (e *DefaultEngine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}
