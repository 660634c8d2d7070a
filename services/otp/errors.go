package otp

import "fmt"

// Reason discriminates code verification failures.
type Reason string

const (
	ReasonExpired           Reason = "expired"
	ReasonInvalid           Reason = "invalid"
	ReasonAttemptsExhausted Reason = "attempts_exhausted"
)

// CodeError is a one-time-code verification failure. AttemptsLeft is only
// meaningful for ReasonInvalid.
type CodeError struct {
	Reason       Reason
	AttemptsLeft int
}

func (e *CodeError) Error() string {
	switch e.Reason {
	case ReasonExpired:
		return "one-time code has expired"
	case ReasonAttemptsExhausted:
		return "maximum verification attempts reached"
	default:
		return fmt.Sprintf("one-time code does not match (%d attempts remaining)", e.AttemptsLeft)
	}
}

// Is matches any CodeError with the same reason, so callers can use errors.Is
// against the sentinels below without caring about AttemptsLeft.
func (e *CodeError) Is(target error) bool {
	t, ok := target.(*CodeError)
	return ok && t.Reason == e.Reason
}

var (
	ErrExpired           = &CodeError{Reason: ReasonExpired}
	ErrInvalid           = &CodeError{Reason: ReasonInvalid}
	ErrAttemptsExhausted = &CodeError{Reason: ReasonAttemptsExhausted}
)
