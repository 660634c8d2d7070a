package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	sessionRepo "gamecentre/database/repository/session"
	"gamecentre/models"

	"go.uber.org/zap"
)

// warningLead is how far before the end of a session the expiring-soon
// reminder fires.
const warningLead = 5 * time.Minute

// VerifyAndActivate checks the candidate code against an approved session and,
// on a match, activates it and unlocks its device as one transaction. On any
// code failure the attempt count is the only thing that changes; session
// status and device stay untouched.
func (e *DefaultEngine) VerifyAndActivate(ctx context.Context, sessionID, candidate string) (*models.Session, error) {
	sess, err := e.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != models.SessionApproved {
		return nil, &StateError{Op: "verify", ID: sessionID, Status: sess.Status}
	}

	attempts, verifyErr := e.Issuer.Verify(sess, candidate, e.now())
	if verifyErr != nil {
		if attempts != sess.OTPAttempts {
			// A mismatch consumed an attempt; persist it while still approved.
			fields := map[string]interface{}{"otpAttempts": attempts}
			if err := e.Sessions.UpdateIfStatus(ctx, sessionID, models.SessionApproved, fields); err != nil {
				e.Logger.Warn("Failed to persist attempt count",
					zap.String("sessionId", sessionID), zap.Error(err))
			}
		}
		return nil, verifyErr
	}

	start := e.now()
	end := start.Add(time.Duration(sess.Duration) * time.Minute)
	if err := e.Sessions.Activate(ctx, sessionID, sess.DeviceID, start, end); err != nil {
		if errors.Is(err, sessionRepo.ErrStatusConflict) {
			return nil, e.mapTransitionErr(ctx, "activate", sessionID, err)
		}
		if errors.Is(err, ErrAlreadyHeld) {
			// The expiry timer stays armed; the loser lapses like any other
			// unverified approval.
			return nil, ErrAlreadyHeld
		}
		return nil, fmt.Errorf("failed to activate session %s: %w", sessionID, err)
	}

	e.Issuer.Clear(ctx, sessionID)

	// Arming the duration countdown replaces the now-obsolete expiry timer.
	e.Timers.Arm(sessionID, end.Sub(e.now()), func() {
		if err := e.End(context.Background(), sessionID, "timer"); err != nil {
			e.Logger.Error("Auto end failed", zap.String("sessionId", sessionID), zap.Error(err))
		}
	})

	if e.Reminders != nil && end.Sub(start) > warningLead {
		if err := e.Reminders.ScheduleExpiryWarning(sessionID, end.Add(-warningLead)); err != nil {
			e.Logger.Warn("Failed to schedule expiry warning",
				zap.String("sessionId", sessionID), zap.Error(err))
		}
	}

	e.Logger.Info("Session activated",
		zap.String("sessionId", sessionID),
		zap.Time("endTime", end))
	return e.Get(ctx, sessionID)
}
