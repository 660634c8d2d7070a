// File: utils/constants.go
package utils

import "time"

// OTPCachePrefix is the prefix used for Redis OTP mirror keys.
const OTPCachePrefix = "otp:session:"

// OTPCacheTTL is the time-to-live for OTP mirror entries. It matches the code
// expiry enforced by the session engine.
const OTPCacheTTL = 5 * time.Minute
