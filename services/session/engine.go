package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	deviceRepo "gamecentre/database/repository/device"
	sessionRepo "gamecentre/database/repository/session"
	"gamecentre/models"
	"gamecentre/services/notification"

	"go.uber.org/zap"
)

// Request creates a customer record and a pending session for a device. The
// device is not reserved here; the unlock at activation time is the arbiter
// when approved sessions race for one device.
func (e *DefaultEngine) Request(ctx context.Context, in RequestInput) (*models.Session, error) {
	if in.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !validPhone(in.Phone) {
		return nil, &ValidationError{Field: "phone", Reason: "must be exactly 10 digits"}
	}
	amount, ok := PriceFor(in.Duration)
	if !ok {
		return nil, &ValidationError{Field: "duration", Reason: "must be 30, 60 or 120 minutes"}
	}

	dev, err := e.Registry.Resolve(ctx, in.DeviceID)
	if err != nil {
		if errors.Is(err, deviceRepo.ErrNotFound) {
			return nil, ErrUnknownDevice
		}
		return nil, fmt.Errorf("failed to resolve device %s: %w", in.DeviceID, err)
	}

	customerID, err := e.Customers.Create(ctx, models.Customer{
		Name:    in.Name,
		Phone:   in.Phone,
		Address: in.Address,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	id, err := e.Sessions.Create(ctx, models.Session{
		CustomerID:    customerID,
		DeviceID:      dev.ID,
		Duration:      in.Duration,
		Amount:        amount,
		PaymentStatus: models.PaymentPending,
		Status:        models.SessionPending,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	e.Logger.Info("Session requested",
		zap.String("sessionId", id),
		zap.String("deviceId", in.DeviceID),
		zap.Int("duration", in.Duration))
	return e.Get(ctx, id)
}

// SetPaymentMethod records the chosen method on a pending session. Online
// payments block on the processor and mark the session paid only on a
// confirmed result; cash stays pending until settled at the counter.
func (e *DefaultEngine) SetPaymentMethod(ctx context.Context, sessionID string, method models.PaymentMethod) (*models.Session, error) {
	if method != models.PaymentMethodOnline && method != models.PaymentMethodCash {
		return nil, &ValidationError{Field: "method", Reason: "must be online or cash"}
	}

	sess, err := e.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != models.SessionPending {
		return nil, &StateError{Op: "set payment method", ID: sessionID, Status: sess.Status}
	}

	invoice, err := e.Payments.Confirm(ctx, sess, method)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"paymentMethod": method}
	if invoice.Status == "paid" {
		fields["paymentStatus"] = models.PaymentPaid
	}
	if err := e.Sessions.UpdateIfStatus(ctx, sessionID, models.SessionPending, fields); err != nil {
		return nil, e.mapTransitionErr(ctx, "set payment method", sessionID, err)
	}
	return e.Get(ctx, sessionID)
}

// Approve transitions a pending session to approved, issues its one-time code
// and arms the 5-minute expiry timer. The code rides the approved
// notification for out-of-band delivery to the customer.
func (e *DefaultEngine) Approve(ctx context.Context, sessionID string) (*models.Session, error) {
	issued, err := e.Issuer.Issue()
	if err != nil {
		return nil, fmt.Errorf("failed to issue code: %w", err)
	}

	fields := map[string]interface{}{
		"status":       models.SessionApproved,
		"otp":          issued.Code,
		"otpExpiresAt": issued.ExpiresAt,
		"otpAttempts":  0,
	}
	if err := e.Sessions.UpdateIfStatus(ctx, sessionID, models.SessionPending, fields); err != nil {
		// The losing code never touched the mirror, so there is nothing to
		// clear either.
		return nil, e.mapTransitionErr(ctx, "approve", sessionID, err)
	}

	e.Issuer.Mirror(ctx, sessionID, issued.Code)

	e.Timers.Arm(sessionID, issued.ExpiresAt.Sub(e.now()), func() {
		if err := e.Expire(context.Background(), sessionID); err != nil {
			e.Logger.Error("Code expiry failed", zap.String("sessionId", sessionID), zap.Error(err))
		}
	})

	e.notify(ctx, notification.KindApproved, sessionID, map[string]string{
		"otp":       issued.Code,
		"expiresAt": issued.ExpiresAt.Format(time.RFC3339),
	})
	e.Logger.Info("Session approved", zap.String("sessionId", sessionID))
	return e.Get(ctx, sessionID)
}

// Reject transitions a pending session to rejected. Terminal.
func (e *DefaultEngine) Reject(ctx context.Context, sessionID string) error {
	fields := map[string]interface{}{"status": models.SessionRejected}
	if err := e.Sessions.UpdateIfStatus(ctx, sessionID, models.SessionPending, fields); err != nil {
		return e.mapTransitionErr(ctx, "reject", sessionID, err)
	}
	e.notify(ctx, notification.KindRejected, sessionID, nil)
	e.Logger.Info("Session rejected", zap.String("sessionId", sessionID))
	return nil
}

// Expire is driven by the code-expiry timer: an approved session whose code
// lapsed unverified transitions to rejected instead of lingering. Losing the
// race to a verification or a manual reject is fine; there is nothing left to
// do then.
func (e *DefaultEngine) Expire(ctx context.Context, sessionID string) error {
	fields := map[string]interface{}{
		"status":       models.SessionRejected,
		"otp":          "",
		"otpExpiresAt": nil,
	}
	err := e.Sessions.UpdateIfStatus(ctx, sessionID, models.SessionApproved, fields)
	if errors.Is(err, sessionRepo.ErrStatusConflict) || errors.Is(err, sessionRepo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to expire session %s: %w", sessionID, err)
	}

	e.Issuer.Clear(ctx, sessionID)
	e.notify(ctx, notification.KindExpired, sessionID, nil)
	e.Logger.Info("Session code expired", zap.String("sessionId", sessionID))
	return nil
}

// Get returns a session by id.
func (e *DefaultEngine) Get(ctx context.Context, sessionID string) (*models.Session, error) {
	sess, err := e.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sessionRepo.ErrNotFound) {
			return nil, ErrUnknownSession
		}
		return nil, err
	}
	return sess, nil
}

// ListByStatus returns sessions in one lifecycle state, newest first.
func (e *DefaultEngine) ListByStatus(ctx context.Context, status models.SessionStatus) ([]models.Session, error) {
	return e.Sessions.ListByStatus(ctx, status)
}

// mapTransitionErr turns repository results into the engine's error taxonomy,
// attaching the session's current state to conflicts.
func (e *DefaultEngine) mapTransitionErr(ctx context.Context, op, sessionID string, err error) error {
	switch {
	case errors.Is(err, sessionRepo.ErrNotFound):
		return ErrUnknownSession
	case errors.Is(err, sessionRepo.ErrStatusConflict):
		status := models.SessionStatus("unknown")
		if sess, getErr := e.Sessions.GetByID(ctx, sessionID); getErr == nil {
			status = sess.Status
		}
		return &StateError{Op: op, ID: sessionID, Status: status}
	default:
		return fmt.Errorf("%s session %s: %w", op, sessionID, err)
	}
}

func (e *DefaultEngine) notify(ctx context.Context, kind notification.Kind, sessionID string, payload map[string]string) {
	if err := e.Notifier.Notify(ctx, kind, sessionID, payload); err != nil {
		e.Logger.Warn("Notification failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func validPhone(phone string) bool {
	if len(phone) != 10 {
		return false
	}
	for _, c := range phone {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
