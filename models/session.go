package models

import "time"

// SessionStatus is the lifecycle state of a session.
type SessionStatus string

const (
	SessionPending   SessionStatus = "pending"
	SessionApproved  SessionStatus = "approved"
	SessionRejected  SessionStatus = "rejected"
	SessionActive    SessionStatus = "active"
	SessionCompleted SessionStatus = "completed"
)

// PaymentStatus tracks whether the session has been settled.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// PaymentMethod is how the customer chose to pay. Empty until chosen.
type PaymentMethod string

const (
	PaymentMethodOnline PaymentMethod = "online"
	PaymentMethodCash   PaymentMethod = "cash"
)

// Session is the central entity: one customer's time-boxed claim on one device.
//
// OTP, OTPExpiresAt and OTPAttempts are populated only while the session is
// approved and are cleared when it becomes active or rejected. StartTime and
// EndTime are set only on activation, with EndTime = StartTime + Duration.
type Session struct {
	ID            string        `bson:"id" json:"id"`
	CustomerID    string        `bson:"customerId" json:"customerId"`
	DeviceID      string        `bson:"deviceId" json:"deviceId"`
	Duration      int           `bson:"duration" json:"duration"` // minutes
	Amount        float64       `bson:"amount" json:"amount"`
	PaymentStatus PaymentStatus `bson:"paymentStatus" json:"paymentStatus"`
	PaymentMethod PaymentMethod `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	Status        SessionStatus `bson:"status" json:"status"`
	OTP           string        `bson:"otp,omitempty" json:"-"`
	OTPExpiresAt  *time.Time    `bson:"otpExpiresAt,omitempty" json:"otpExpiresAt,omitempty"`
	OTPAttempts   int           `bson:"otpAttempts" json:"otpAttempts"`
	StartTime     *time.Time    `bson:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime       *time.Time    `bson:"endTime,omitempty" json:"endTime,omitempty"`
	CreatedAt     time.Time     `bson:"createdAt" json:"createdAt"`
}

// Terminal reports whether no further lifecycle transition is possible.
func (s *Session) Terminal() bool {
	return s.Status == SessionRejected || s.Status == SessionCompleted
}

// Remaining returns how much paid time is left at the given instant. Zero for
// sessions that are not active.
func (s *Session) Remaining(now time.Time) time.Duration {
	if s.Status != SessionActive || s.EndTime == nil {
		return 0
	}
	if d := s.EndTime.Sub(now); d > 0 {
		return d
	}
	return 0
}
