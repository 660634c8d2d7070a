package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"gamecentre/models"
	"gamecentre/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// CodeTTL is how long an issued code stays valid.
	CodeTTL = 5 * time.Minute
	// MaxAttempts is the number of verification attempts per issued code.
	// Reaching it permanently forecloses verification for that session.
	MaxAttempts = 3

	codeMin  = 100000
	codeSpan = 900000
)

// Issued is a freshly generated one-time code and its expiry.
type Issued struct {
	Code      string
	ExpiresAt time.Time
}

// Issuer generates and validates the short-lived numeric codes bound to a
// session. The authoritative copy of code, expiry and attempt count lives on
// the session record; Mirror additionally publishes persisted codes into
// Redis for front-desk display.
type Issuer interface {
	Issue() (Issued, error)
	Mirror(ctx context.Context, sessionID, code string)
	Verify(session *models.Session, candidate string, now time.Time) (int, error)
	Clear(ctx context.Context, sessionID string)
}

// DefaultIssuer is the production implementation.
type DefaultIssuer struct {
	Cache  *redis.Client // optional display mirror; nil disables it
	Logger *zap.Logger
}

// NewDefaultIssuer returns an Issuer mirroring codes into the given Redis
// client.
func NewDefaultIssuer(cache *redis.Client, logger *zap.Logger) *DefaultIssuer {
	return &DefaultIssuer{Cache: cache, Logger: logger}
}

// generateCode draws a uniformly random 6-digit code in 100000-999999 from
// crypto/rand. The range is leading-zero-free by construction.
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate random code: %w", err)
	}
	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}

// Issue generates a code expiring in CodeTTL. The caller persists the code,
// expiry and a zeroed attempt count on the session as one field update, then
// mirrors it with Mirror once the update has won.
func (i *DefaultIssuer) Issue() (Issued, error) {
	code, err := generateCode()
	if err != nil {
		return Issued{}, err
	}
	return Issued{Code: code, ExpiresAt: time.Now().Add(CodeTTL)}, nil
}

// Mirror publishes a persisted code to the display cache, best effort. Only
// codes that actually landed on a session may be mirrored; a code that lost
// the approval race must never clobber the winner's entry.
func (i *DefaultIssuer) Mirror(ctx context.Context, sessionID, code string) {
	if i.Cache == nil {
		return
	}
	key := utils.OTPCachePrefix + sessionID
	if err := i.Cache.Set(ctx, key, code, utils.OTPCacheTTL).Err(); err != nil {
		i.Logger.Warn("Failed to mirror OTP to cache", zap.String("sessionId", sessionID), zap.Error(err))
	}
}

// Verify compares candidate against the code stored on the session. Expiry is
// checked before the attempt count, and the count before the comparison, so
// neither limit can be bypassed through the other. Codes compare as opaque
// strings.
//
// The returned int is the attempt count the caller must persist; it differs
// from the session's stored count exactly when a mismatch consumed an attempt.
func (i *DefaultIssuer) Verify(session *models.Session, candidate string, now time.Time) (int, error) {
	attempts := session.OTPAttempts

	if session.OTP == "" || session.OTPExpiresAt == nil || now.After(*session.OTPExpiresAt) {
		return attempts, ErrExpired
	}
	if attempts >= MaxAttempts {
		return attempts, ErrAttemptsExhausted
	}
	if candidate != session.OTP {
		attempts++
		left := MaxAttempts - attempts
		if left == 0 {
			return attempts, ErrAttemptsExhausted
		}
		return attempts, &CodeError{Reason: ReasonInvalid, AttemptsLeft: left}
	}
	return attempts, nil
}

// Clear drops the display mirror for a session once its code is consumed or
// lapsed.
func (i *DefaultIssuer) Clear(ctx context.Context, sessionID string) {
	if i.Cache == nil {
		return
	}
	if err := i.Cache.Del(ctx, utils.OTPCachePrefix+sessionID).Err(); err != nil {
		i.Logger.Warn("Failed to delete OTP mirror", zap.String("sessionId", sessionID), zap.Error(err))
	}
}
