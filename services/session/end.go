package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	sessionRepo "gamecentre/database/repository/session"
	"gamecentre/models"
	"gamecentre/services/notification"

	"go.uber.org/zap"
)

// completeRetryDelay is how long an End that hit a transient store error
// waits before retrying. The device stays unlocked until the retry lands.
const completeRetryDelay = 15 * time.Second

// End transitions an active session to completed and relocks its device in
// one transaction. The duration timer is cancelled only once the transition
// lands; a transient store failure arms a retry timer instead, so the device
// is still forced back to locked eventually. Ending an already-completed
// session is a no-op with no repeated device side effect.
func (e *DefaultEngine) End(ctx context.Context, sessionID, endedBy string) error {
	sess, err := e.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	switch sess.Status {
	case models.SessionActive:
		// proceed
	case models.SessionCompleted:
		return nil
	default:
		return &StateError{Op: "end", ID: sessionID, Status: sess.Status}
	}

	if err := e.Sessions.Complete(ctx, sessionID, sess.DeviceID); err != nil {
		if errors.Is(err, sessionRepo.ErrStatusConflict) {
			// The other path (timer vs. operator) completed it in between.
			if cur, getErr := e.Sessions.GetByID(ctx, sessionID); getErr == nil && cur.Status == models.SessionCompleted {
				e.Timers.Cancel(sessionID)
				return nil
			}
			return e.mapTransitionErr(ctx, "end", sessionID, err)
		}
		// The session is still active and its device still unlocked; keep a
		// timer armed so the relock is retried rather than lost.
		e.Timers.Arm(sessionID, completeRetryDelay, func() {
			if err := e.End(context.Background(), sessionID, endedBy); err != nil {
				e.Logger.Error("End retry failed", zap.String("sessionId", sessionID), zap.Error(err))
			}
		})
		return fmt.Errorf("failed to end session %s: %w", sessionID, err)
	}

	e.Timers.Cancel(sessionID)

	e.notify(ctx, notification.KindSessionEnded, sessionID, map[string]string{"endedBy": endedBy})
	e.Logger.Info("Session ended",
		zap.String("sessionId", sessionID),
		zap.String("endedBy", endedBy))
	return nil
}
